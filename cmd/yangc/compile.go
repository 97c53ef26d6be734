package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
)

func compile(cfg *CompileConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Compile.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: compile requires at least one module name", cli.ErrUsage)
	}
	s, err := cfg.compiler().Compile(args...)
	if err != nil {
		return err
	}
	modules := len(s.At(s.Root()).Children)
	ok := "ok"
	if cfg.colorize(cc.Out) {
		ok = color.GreenString("ok")
	}
	fmt.Fprintf(cc.Out, "%s: %d modules, %d nodes, %d annotations\n",
		ok, modules, len(s.Nodes), len(s.Annotations))
	return nil
}
