package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/nokia/yangc"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Against == "" {
		return fmt.Errorf("%w: diff requires -against <dir>", cli.ErrUsage)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: diff requires at least one module name", cli.ErrUsage)
	}
	before, err := renderDir(cfg, cfg.dir(), args)
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.dir(), err)
	}
	after, err := renderDir(cfg, cfg.Against, args)
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.Against, err)
	}
	if before == after {
		return nil
	}
	printLineDiff(cfg, cc, before, after)
	return cli.ExitCodeErr(1)
}

func renderDir(cfg *DiffConfig, dir string, names []string) (string, error) {
	opts := []yangc.Option{yangc.WithLogger(cfg.logger())}
	c := yangc.New(yangc.DirRetriever(dir), opts...)
	s, err := c.Compile(names...)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := dumpText(&sb, s); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func printLineDiff(cfg *DiffConfig, cc *cli.Context, before, after string) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	colored := cfg.colorize(cc.Out)
	del := color.New(color.FgRed)
	ins := color.New(color.FgGreen)
	for _, d := range diffs {
		prefix := "  "
		var c *color.Color
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix, c = "- ", del
		case diffmatchpatch.DiffInsert:
			prefix, c = "+ ", ins
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			if colored && c != nil {
				c.Fprintln(cc.Out, prefix+line)
				continue
			}
			fmt.Fprintln(cc.Out, prefix+line)
		}
	}
}
