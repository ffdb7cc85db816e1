package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/avm1go/decompiler/container"
	"github.com/avm1go/decompiler/pool"
	"github.com/avm1go/decompiler/reader"
	"github.com/chzyer/readline"
	"github.com/google/subcommands"
)

type inspectCmd struct {
	poolPath string
	action   int
}

func (*inspectCmd) Name() string     { return "inspect" }
func (*inspectCmd) Synopsis() string { return "Interactively step through one action's decoded instructions" }
func (*inspectCmd) Usage() string {
	return `inspect [-pool path] [-action n] <bytecode-file>:
  Start an interactive session stepping through action n's decoded
  instructions one at a time.
`
}

func (cmd *inspectCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.poolPath, "pool", "", "constant pool JSON path (default: bytecode path with .json extension)")
	f.IntVar(&cmd.action, "action", 0, "index of the action to inspect")
}

func (cmd *inspectCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	if cmd.action < 0 || cmd.action >= len(actions) {
		fmt.Fprintf(os.Stderr, "💥 action index %d out of range (container has %d)\n", cmd.action, len(actions))
		return subcommands.ExitFailure
	}

	rl, err := readline.New(fmt.Sprintf("avm1dec[action %d]> ", cmd.action))
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to start readline: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	r := reader.New(actions[cmd.action].Body, p)
	runInspector(rl, r)
	return subcommands.ExitSuccess
}

// runInspector drives the step/print loop: "n" (or blank) decodes and prints
// the next instruction, "q" exits. It stops cleanly at EOF or ^D, mirroring
// the REPL's own scan-until-EOF shape.
func runInspector(rl *readline.Instance, r *reader.Reader) {
	fmt.Fprintln(rl.Stdout(), "stepping one instruction per <enter>; 'q' to quit")
	for {
		if r.AtEnd() {
			fmt.Fprintln(rl.Stdout(), "(end of action body)")
			return
		}
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			fmt.Fprintf(rl.Stderr(), "💥 %v\n", err)
			return
		}

		cmd := strings.TrimSpace(line)
		if cmd == "q" || cmd == "quit" || cmd == "exit" {
			return
		}

		offset := r.Offset()
		act, err := r.Next()
		if err != nil {
			fmt.Fprintf(rl.Stderr(), "💥 offset %d: %v\n", offset, err)
			return
		}
		fmt.Fprintf(rl.Stdout(), "%6d: %#v\n", offset, act)
	}
}
