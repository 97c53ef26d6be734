package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"

	"github.com/nokia/yangc/arena"
)

func dump(cfg *DumpConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Dump.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: dump requires at least one module name", cli.ErrUsage)
	}
	s, err := cfg.compiler().Compile(args...)
	if err != nil {
		return err
	}
	if cfg.Filter != "" {
		return dumpFiltered(cfg, cc.Out, s)
	}
	switch cfg.Format {
	case "", "text", "t":
		return dumpText(cc.Out, s)
	case "json", "j":
		enc := json.NewEncoder(cc.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(dumpTree(s))
	case "yaml", "y":
		out, err := yaml.Marshal(dumpTree(s))
		if err != nil {
			return err
		}
		_, err = cc.Out.Write(out)
		return err
	}
	return fmt.Errorf("%w: unknown output format %q", cli.ErrUsage, cfg.Format)
}

// dumpText renders the schema as an indented tree, one node per line.
func dumpText(w io.Writer, s *arena.Schema) error {
	var render func(i int32, depth int) error
	render = func(i int32, depth int) error {
		n := s.At(i)
		var sb strings.Builder
		sb.WriteString(strings.Repeat("  ", depth))
		if n.Flags.Config() {
			sb.WriteString("rw ")
		} else {
			sb.WriteString("ro ")
		}
		sb.WriteString(n.Flags.Kind().String())
		sb.WriteByte(' ')
		sb.WriteString(n.Name)
		if n.Type != nil {
			sb.WriteString(" : ")
			sb.WriteString(n.Type.WireName())
		}
		if len(n.Keys) > 0 {
			sb.WriteString(" [")
			sb.WriteString(strings.Join(n.Keys, " "))
			sb.WriteByte(']')
		}
		if n.Flags.Mandatory() {
			sb.WriteString(" mandatory")
		}
		if st := n.Flags.Status(); st != arena.StatusCurrent {
			sb.WriteByte(' ')
			sb.WriteString(st.String())
		}
		if _, err := fmt.Fprintln(w, sb.String()); err != nil {
			return err
		}
		for _, c := range n.Children {
			if err := render(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	for _, m := range s.At(s.Root()).Children {
		if err := render(m, 0); err != nil {
			return err
		}
	}
	return nil
}

func dumpTree(s *arena.Schema) []any {
	var build func(i int32) any
	build = func(i int32) any {
		n := s.At(i)
		m := map[string]any{
			"name":   n.Name,
			"kind":   n.Flags.Kind().String(),
			"config": n.Flags.Config(),
		}
		if n.Module != "" {
			m["module"] = n.Module
		}
		if n.Namespace != "" {
			m["namespace"] = n.Namespace
		}
		if n.Type != nil {
			m["type"] = n.Type.WireName()
		}
		if n.Default != "" {
			m["default"] = n.Default
		}
		if n.Units != "" {
			m["units"] = n.Units
		}
		if len(n.Keys) > 0 {
			m["keys"] = n.Keys
		}
		if n.Flags.Mandatory() {
			m["mandatory"] = true
		}
		if st := n.Flags.Status(); st != arena.StatusCurrent {
			m["status"] = st.String()
		}
		if len(n.Children) > 0 {
			var kids []any
			for _, c := range n.Children {
				kids = append(kids, build(c))
			}
			m["children"] = kids
		}
		return m
	}
	var out []any
	for _, m := range s.At(s.Root()).Children {
		out = append(out, build(m))
	}
	return out
}

// nodeFacts is the environment a filter expression sees for one node.
func nodeFacts(s *arena.Schema, i int32) map[string]any {
	n := s.At(i)
	typ := ""
	if n.Type != nil {
		typ = n.Type.WireName()
	}
	return map[string]any{
		"name":      n.Name,
		"module":    n.Module,
		"path":      s.Path(i),
		"kind":      n.Flags.Kind().String(),
		"type":      typ,
		"config":    n.Flags.Config(),
		"mandatory": n.Flags.Mandatory(),
		"presence":  n.Flags.Presence(),
		"status":    n.Flags.Status().String(),
	}
}

// dumpFiltered prints the path of every node the filter expression matches.
func dumpFiltered(cfg *DumpConfig, w io.Writer, s *arena.Schema) error {
	program, err := expr.Compile(cfg.Filter,
		expr.Env(nodeFacts(s, s.Root())), expr.AsBool())
	if err != nil {
		return fmt.Errorf("%w: bad filter: %v", cli.ErrUsage, err)
	}
	return s.Walk(s.Root(), func(i int32, n *arena.Node) error {
		if i == s.Root() {
			return nil
		}
		keep, err := runFilter(program, nodeFacts(s, i))
		if err != nil {
			return err
		}
		if keep {
			_, err = fmt.Fprintln(w, s.Path(i))
		}
		return err
	})
}

func runFilter(program *vm.Program, env map[string]any) (bool, error) {
	out, err := expr.Run(program, env)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	return ok && b, nil
}
