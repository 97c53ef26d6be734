package schema

import (
	"strings"

	"github.com/nokia/yangc/ident"
	"github.com/nokia/yangc/kind"
	"github.com/nokia/yangc/token"
)

// buildResult is one parsed module or submodule, before any resolution.
// Prefix bindings and transitively required module names are captured
// eagerly so the caller can drive a work queue instead of recursing.
type buildResult struct {
	node        *Node
	name        string
	isSubmodule bool
	belongsTo   string
	prefix      string
	namespace   string
	revision    string
	imports     map[string]string // prefix -> module name
	requires    []string
	includes    []string
}

// openStmt is one open block on the builder's path stack. Attribute
// statements have no node; their nested instructions keep landing on the
// innermost structural node.
type openStmt struct {
	node *Node
	kw   string
}

type builder struct {
	res     *buildResult
	stack   []openStmt
	grpDep  int // grouping nesting depth; names inside bind lazily
	nsDepth int // open attribute blocks
}

// buildModule consumes a token stream and builds the statement tree of one
// module or submodule.
func buildModule(toks []token.Token) (*buildResult, error) {
	b := &builder{res: &buildResult{imports: map[string]string{}}}
	i := 0
	for i < len(toks) {
		tk := toks[i]
		if tk.Type == token.TRBrace {
			if len(b.stack) == 0 {
				return nil, moduleErrf("unexpected '}' at %s", tk.Pos)
			}
			b.pop()
			i++
			continue
		}
		if tk.Type != token.TUString {
			return nil, moduleErrf("expected statement keyword at %s, got %s", tk.Pos, tk.Type)
		}
		kw := string(tk.Bytes)
		if kw == "" {
			return nil, moduleErrf("empty keyword at %s", tk.Pos)
		}
		i++
		arg := ""
		hasArg := false
		if i < len(toks) && toks[i].IsString() {
			arg = string(toks[i].Bytes)
			hasArg = true
			i++
		}
		if i >= len(toks) {
			return nil, moduleErrf("unexpected end of input after %q", kw)
		}
		var opens bool
		switch toks[i].Type {
		case token.TSemi:
			opens = false
		case token.TLBrace:
			opens = true
		default:
			return nil, moduleErrf("expected ';' or '{' after %q at %s", kw, toks[i].Pos)
		}
		i++
		if err := b.statement(kw, arg, hasArg, opens); err != nil {
			return nil, err
		}
	}
	if len(b.stack) != 0 {
		return nil, moduleErrf("unexpected end of input in %q block", b.stack[len(b.stack)-1].kw)
	}
	if b.res.node == nil {
		return nil, moduleErrf("no module statement found")
	}
	return b.res, nil
}

// current returns the innermost structural node.
func (b *builder) current() *Node {
	for j := len(b.stack) - 1; j >= 0; j-- {
		if b.stack[j].node != nil {
			return b.stack[j].node
		}
	}
	return nil
}

func (b *builder) statement(kw, arg string, hasArg, opens bool) error {
	k, structural := kind.FromKeyword(kw)
	if !structural && strings.Contains(kw, ":") {
		k, structural = kind.Extended, true
	}
	if structural && b.nsDepth == 0 {
		return b.structural(k, kw, arg, hasArg, opens)
	}
	cur := b.current()
	if cur == nil {
		return moduleErrf("statement %q outside module", kw)
	}
	b.capture(cur, kw, arg)
	cur.Blueprint = append(cur.Blueprint, Instr{Enter: true, Keyword: kw, Arg: arg})
	if opens {
		b.stack = append(b.stack, openStmt{kw: kw})
		b.nsDepth++
		return nil
	}
	cur.Blueprint = append(cur.Blueprint, Instr{Keyword: kw})
	return nil
}

// capture grabs the handful of attributes the work queue needs before any
// replay happens: module identity, prefix bindings and include requests.
func (b *builder) capture(cur *Node, kw, arg string) {
	if cur != b.res.node {
		return
	}
	switch kw {
	case "prefix":
		b.res.prefix = arg
	case "namespace":
		b.res.namespace = arg
	case "revision":
		if b.res.revision == "" {
			b.res.revision = arg
		}
	case "include":
		b.res.requires = append(b.res.requires, arg)
		b.res.includes = append(b.res.includes, arg)
	}
}

func (b *builder) structural(k kind.Kind, kw, arg string, hasArg, opens bool) error {
	parent := b.current()
	if parent == nil && k != kind.Module && k != kind.Submodule {
		return moduleErrf("%q before module statement", kw)
	}
	if parent != nil && (k == kind.Module || k == kind.Submodule) {
		return moduleErrf("nested %q statement", kw)
	}
	n := &Node{Kind: k}
	switch k {
	case kind.Module, kind.Submodule:
		if !hasArg {
			return moduleErrf("%q without a name", kw)
		}
		n.Name = ident.ModuleName(arg, arg)
		b.res.node = n
		b.res.name = arg
		b.res.isSubmodule = k == kind.Submodule
	case kind.Augment, kind.Deviation, kind.Refine:
		p, err := ParsePath(arg)
		if err != nil {
			return err
		}
		n.Target = p
		n.Name = ident.BuiltinName(kw)
	case kind.Uses:
		n.Ref = arg
		n.Name = ident.BuiltinName(arg)
	case kind.Deviate:
		n.Name = ident.BuiltinName(arg)
	case kind.Import, kind.BelongsTo:
		n.Name = ident.ModuleName(arg, arg)
	case kind.Input, kind.Output:
		n.Name = b.bindName(kw)
	case kind.Extended:
		n.Ref = kw
		n.Name = b.bindName(arg)
	default:
		if !hasArg {
			return moduleErrf("%q without a name", kw)
		}
		n.Name = b.bindName(arg)
	}
	if parent != nil {
		parent.AddChild(n)
	}
	if !opens {
		switch k {
		case kind.Import:
			b.res.requires = append(b.res.requires, n.Name.Name)
		case kind.BelongsTo:
			b.res.belongsTo = n.Name.Name
			b.res.requires = append(b.res.requires, n.Name.Name)
		}
		return nil
	}
	b.stack = append(b.stack, openStmt{node: n, kw: kw})
	if k == kind.Grouping {
		b.grpDep++
	}
	return nil
}

// bindName binds a declared name eagerly to the current module, or lazily
// when declared inside a grouping, whose destination module is unknown
// until the copy lands.
func (b *builder) bindName(name string) ident.Ident {
	if b.grpDep > 0 {
		return ident.LazyName(name)
	}
	return ident.ModuleName(b.res.name, name)
}

func (b *builder) pop() {
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	if top.node == nil {
		b.nsDepth--
		cur := b.current()
		cur.Blueprint = append(cur.Blueprint, Instr{Keyword: top.kw})
		return
	}
	switch top.node.Kind {
	case kind.Grouping:
		b.grpDep--
	case kind.Import:
		mod := top.node.Name.Name
		if p := firstInstrArg(top.node.Blueprint, "prefix"); p != "" {
			b.res.imports[p] = mod
		}
		b.res.requires = append(b.res.requires, mod)
	case kind.BelongsTo:
		b.res.belongsTo = top.node.Name.Name
		if p := firstInstrArg(top.node.Blueprint, "prefix"); p != "" {
			b.res.prefix = p
		}
		b.res.requires = append(b.res.requires, top.node.Name.Name)
	}
}

func firstInstrArg(bp []Instr, kw string) string {
	for _, in := range bp {
		if in.Enter && in.Keyword == kw {
			return in.Arg
		}
	}
	return ""
}
