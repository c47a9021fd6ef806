package vm

import "testing"

func TestDefaultForkRulesCumulative(t *testing.T) {
	r := DefaultForkRules(London)
	if !r.IsHomestead || !r.IsEIP150 || !r.IsByzantium || !r.IsConstantinople || !r.IsIstanbul || !r.IsBerlin || !r.IsLondon {
		t.Errorf("London ForkRules missing an earlier fork's flag: %+v", r)
	}
	if r.IsMerge || r.IsShanghai || r.IsCancun {
		t.Errorf("London ForkRules should not carry later-fork flags: %+v", r)
	}
}

func TestDefaultForkRulesFrontier(t *testing.T) {
	r := DefaultForkRules(Frontier)
	if r.IsHomestead || r.IsEIP150 || r.IsByzantium || r.IsBerlin || r.IsLondon {
		t.Errorf("Frontier ForkRules should have no flags set: %+v", r)
	}
}

func TestMaxCodeSizeForFork(t *testing.T) {
	if got := MaxCodeSizeForFork(DefaultForkRules(Frontier)); got != math_MaxInt {
		t.Errorf("pre-EIP-158 MaxCodeSizeForFork = %d, want unbounded", got)
	}
	if got := MaxCodeSizeForFork(DefaultForkRules(SpuriousDragon)); got != MaxCodeSize {
		t.Errorf("post-EIP-158 MaxCodeSizeForFork = %d, want %d", got, MaxCodeSize)
	}
}

func TestMaxInitCodeSizeForFork(t *testing.T) {
	if got := MaxInitCodeSizeForFork(DefaultForkRules(London)); got != math_MaxInt {
		t.Errorf("pre-Shanghai MaxInitCodeSizeForFork = %d, want unbounded", got)
	}
	if got := MaxInitCodeSizeForFork(DefaultForkRules(Shanghai)); got != MaxInitCodeSize {
		t.Errorf("post-Shanghai MaxInitCodeSizeForFork = %d, want %d", got, MaxInitCodeSize)
	}
}

func TestRefundQuotient(t *testing.T) {
	if got := RefundQuotient(DefaultForkRules(Berlin)); got != MaxRefundQuotientLegacy {
		t.Errorf("pre-London RefundQuotient = %d, want %d", got, MaxRefundQuotientLegacy)
	}
	if got := RefundQuotient(DefaultForkRules(London)); got != MaxRefundQuotient {
		t.Errorf("post-London RefundQuotient = %d, want %d", got, MaxRefundQuotient)
	}
}

func TestHardforkString(t *testing.T) {
	if Cancun.String() != "Cancun" {
		t.Errorf("Cancun.String() = %q, want Cancun", Cancun.String())
	}
	if got := Hardfork(999).String(); got != "Unknown" {
		t.Errorf("out-of-range Hardfork.String() = %q, want Unknown", got)
	}
}
