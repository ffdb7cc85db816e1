package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avm1go/decompiler/container"
	"github.com/avm1go/decompiler/diag"
	"github.com/avm1go/decompiler/pool"
	"github.com/avm1go/decompiler/printer"
	"github.com/avm1go/decompiler/vm"
	"github.com/google/subcommands"
)

type decompileCmd struct {
	poolPath string
	outPath  string
	strict   bool
	verbose  bool
}

func (*decompileCmd) Name() string     { return "decompile" }
func (*decompileCmd) Synopsis() string { return "Decompile an AVM1 bytecode container to source text" }
func (*decompileCmd) Usage() string {
	return `decompile [-pool path] [-out path] [-strict] <bytecode-file>:
  Decompile every action in a bytecode container, writing one source file
  per action.
`
}

func (cmd *decompileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.poolPath, "pool", "", "constant pool JSON path (default: bytecode path with .json extension)")
	f.StringVar(&cmd.outPath, "out", "", "output path (default: bytecode path with .as extension)")
	f.BoolVar(&cmd.strict, "strict", false, "abort an action's decompilation on the first error instead of substituting")
	f.BoolVar(&cmd.verbose, "v", false, "emit verbose trace diagnostics to stderr")
}

func (cmd *decompileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 bytecode file not provided\n")
		return subcommands.ExitUsageError
	}
	bytecodePath := args[0]

	data, err := os.ReadFile(bytecodePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to read bytecode file: %v\n", err)
		return subcommands.ExitFailure
	}

	poolPath := cmd.poolPath
	if poolPath == "" {
		poolPath = replaceExt(bytecodePath, ".json")
	}
	p, err := pool.Load(poolPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to load constant pool: %v\n", err)
		return subcommands.ExitFailure
	}

	actions, err := container.Parse(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to parse container: %v\n", err)
		return subcommands.ExitFailure
	}

	outPath := cmd.outPath
	if outPath == "" {
		outPath = replaceExt(bytecodePath, ".as")
	}

	status := subcommands.ExitSuccess
	for _, action := range actions {
		sink := diag.New(cmd.verbose)
		v := vm.NewTopLevel(action.Body, p, cmd.strict, sink)
		block, err := v.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 action %d: decompilation failed: %v\n", action.Index, err)
			status = subcommands.ExitFailure
			continue
		}

		actionOut := withActionSuffix(outPath, action.Index, len(actions))
		if err := os.WriteFile(actionOut, []byte(printer.Print(block)), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "💥 action %d: failed to write %s: %v\n", action.Index, actionOut, err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Fprintf(os.Stdout, "wrote %s\n", actionOut)
	}
	return status
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// withActionSuffix inserts an action-index suffix before the extension,
// unless there is only one action, in which case the bare out path is used.
func withActionSuffix(path string, index, total int) string {
	if total <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s.%d%s", base, index, ext)
}
