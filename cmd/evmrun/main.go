// Command evmrun executes a single piece of EVM bytecode against an
// in-memory Host and prints its result, for manual bytecode experiments and
// bug reports -- not a node, not a chain.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/lattice-vm/evmcore/core/types"
	evmlog "github.com/lattice-vm/evmcore/log"
	"github.com/lattice-vm/evmcore/vm"
)

func main() {
	app := &cli.App{
		Name:  "evmrun",
		Usage: "run one call against a fresh in-memory EVM",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "code", Usage: "hex-encoded contract bytecode", Required: true},
			&cli.StringFlag{Name: "input", Usage: "hex-encoded calldata"},
			&cli.Uint64Flag{Name: "gas", Usage: "gas limit", Value: 10_000_000},
			&cli.StringFlag{Name: "fork", Usage: "hardfork name", Value: "Cancun"},
			&cli.BoolFlag{Name: "trace", Usage: "print a per-step opcode trace"},
			&cli.BoolFlag{Name: "metrics", Usage: "collect prometheus metrics on a private registry during the run (not printed)"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logger := evmlog.New(slog.LevelInfo)

	code, err := hex.DecodeString(strings.TrimPrefix(c.String("code"), "0x"))
	if err != nil {
		return fmt.Errorf("decoding --code: %w", err)
	}
	input, err := hex.DecodeString(strings.TrimPrefix(c.String("input"), "0x"))
	if err != nil {
		return fmt.Errorf("decoding --input: %w", err)
	}

	fork, err := parseFork(c.String("fork"))
	if err != nil {
		return err
	}

	const caller = "0x00000000000000000000000000000000000a11ce"
	const contract = "0x00000000000000000000000000000000000c0de"
	callerAddr := types.HexToAddress(caller)
	contractAddr := types.HexToAddress(contract)

	precompiles := vm.NewPrecompileRegistry(fork)
	host := vm.NewMemHost(precompiles)
	host.SetBalance(callerAddr, uint256.NewInt(1_000_000_000_000))
	host.SetCode(contractAddr, code)

	block := vm.BlockContext{
		GasLimit:    c.Uint64("gas"),
		BlockNumber: 1,
		BaseFee:     uint256.NewInt(1),
		BlobBaseFee: uint256.NewInt(1),
		Difficulty:  new(uint256.Int),
	}
	txCtx := vm.TxContext{Origin: callerAddr, GasPrice: uint256.NewInt(1)}

	var hooks *vm.DebugHooks
	tracer := vm.NewStructLogTracer()
	if c.Bool("trace") {
		hooks = &vm.DebugHooks{OnStep: tracer.AsStepHook()}
	}

	evm := vm.NewEVM(host, block, txCtx, uint256.NewInt(1), fork, hooks)
	if c.Bool("metrics") {
		evm.WithMetrics(vm.NewMetrics(prometheus.NewRegistry()))
	}

	result := evm.Call(context.Background(), &vm.CallParams{
		Kind:    vm.CallKindCall,
		Caller:  callerAddr,
		Address: contractAddr,
		Input:   input,
		Value:   new(uint256.Int),
		Gas:     c.Uint64("gas"),
	})

	if c.Bool("trace") {
		for _, step := range tracer.Logs {
			fmt.Printf("pc=%-5d op=%-14s gas=%d depth=%d\n", step.PC, step.Op, step.Gas, step.Depth)
		}
	}

	logger.Info("call finished",
		"halt", result.Halt.String(),
		"gasUsed", result.GasUsed,
		"gasLeft", result.GasLeft,
		"output", hex.EncodeToString(result.Output),
	)
	if result.Err != nil {
		return fmt.Errorf("execution error: %w", result.Err)
	}
	return nil
}

func parseFork(name string) (vm.Hardfork, error) {
	forks := map[string]vm.Hardfork{
		"Frontier":         vm.Frontier,
		"Homestead":        vm.Homestead,
		"TangerineWhistle": vm.TangerineWhistle,
		"SpuriousDragon":   vm.SpuriousDragon,
		"Byzantium":        vm.Byzantium,
		"Constantinople":   vm.Constantinople,
		"Petersburg":       vm.Petersburg,
		"Istanbul":         vm.Istanbul,
		"Berlin":           vm.Berlin,
		"London":           vm.London,
		"Merge":            vm.Merge,
		"Shanghai":         vm.Shanghai,
		"Cancun":           vm.Cancun,
	}
	f, ok := forks[name]
	if !ok {
		return 0, fmt.Errorf("unknown hardfork %q", name)
	}
	return f, nil
}
