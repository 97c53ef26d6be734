// Package schema builds a mutable statement tree from YANG tokens and
// resolves it, through an ordered sequence of whole-tree passes, into the
// compact arena representation.
package schema

import (
	"github.com/nokia/yangc/ident"
	"github.com/nokia/yangc/kind"
	"github.com/nokia/yangc/ytype"
)

// Instr is one deferred statement instruction. Attribute statements are not
// interpreted while parsing; they are recorded as enter/leave events and
// replayed once the tree has its final shape.
type Instr struct {
	Enter   bool
	Keyword string
	Arg     string
}

// Node is a mutable builder node. A node belongs to exactly one parent at a
// time; reparenting goes through Detach/AddChild.
type Node struct {
	Name ident.Ident
	Kind kind.Kind

	Parent   *Node
	Children []*Node

	// Ref is the raw reference argument of uses nodes (grouping name,
	// possibly prefixed) and the raw keyword of extended nodes.
	Ref string
	// SrcModule is the defining module of a grouping copy. References
	// written in the grouping's text resolve against this module's prefix
	// context, not the destination's.
	SrcModule string
	// Target is the parsed target path of augment/deviation/refine nodes.
	Target Path

	Type        ytype.Type
	Units       string
	Namespace   string
	Default     string
	Status      string
	Revision    string
	Prefix      string
	Presence    bool
	UserOrdered bool
	Mandatory   bool
	Config      *bool
	Keys        []string
	Bases       []ident.Ident

	Blueprint []Instr
}

// AddChild appends c to n's children. c must be detached.
func (n *Node) AddChild(c *Node) {
	if c.Parent != nil {
		panic("schema: AddChild of owned node")
	}
	c.Parent = n
	n.Children = append(n.Children, c)
}

// InsertChildren splices cs into n's children at position at. All cs must be
// detached.
func (n *Node) InsertChildren(at int, cs []*Node) {
	for _, c := range cs {
		if c.Parent != nil {
			panic("schema: InsertChildren of owned node")
		}
		c.Parent = n
	}
	n.Children = append(n.Children[:at:at], append(cs, n.Children[at:]...)...)
}

// Detach removes n from its parent and returns its former index.
func (n *Node) Detach() int {
	p := n.Parent
	if p == nil {
		return -1
	}
	for i, c := range p.Children {
		if c == n {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			n.Parent = nil
			return i
		}
	}
	panic("schema: node missing from parent children")
}

// Child finds a direct child by bare name. If mod is non-empty the child's
// module binding must match it; children with builtin or missing bindings
// match any module.
func (n *Node) Child(name, mod string) *Node {
	for _, c := range n.Children {
		if c.Name.Name != name {
			continue
		}
		if mod == "" {
			return c
		}
		if m, ok := c.Name.Space.ModuleName(); ok && m != mod {
			continue
		}
		return c
	}
	return nil
}

// Walk visits n and its descendants preorder. Returning a non-nil error
// stops the walk.
func (n *Node) Walk(fn func(*Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := c.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// Copy deep-copies n into a detached tree. Two copies never share children,
// blueprints or key slices.
func (n *Node) Copy() *Node {
	c := &Node{
		Name:        n.Name,
		Kind:        n.Kind,
		Ref:         n.Ref,
		SrcModule:   n.SrcModule,
		Target:      n.Target.copy(),
		Type:        n.Type,
		Units:       n.Units,
		Namespace:   n.Namespace,
		Default:     n.Default,
		Status:      n.Status,
		Revision:    n.Revision,
		Prefix:      n.Prefix,
		Presence:    n.Presence,
		UserOrdered: n.UserOrdered,
		Mandatory:   n.Mandatory,
	}
	if n.Config != nil {
		v := *n.Config
		c.Config = &v
	}
	if len(n.Keys) > 0 {
		c.Keys = append([]string(nil), n.Keys...)
	}
	if len(n.Bases) > 0 {
		c.Bases = append([]ident.Ident(nil), n.Bases...)
	}
	if len(n.Blueprint) > 0 {
		c.Blueprint = append([]Instr(nil), n.Blueprint...)
	}
	for _, ch := range n.Children {
		c.AddChild(ch.Copy())
	}
	return c
}

// RebindLazy rebinds every lazily bound name in the subtree to mod. Used
// when a grouping copy lands in its destination module.
func (n *Node) RebindLazy(mod string) {
	n.Name = n.Name.Rebind(mod)
	for _, c := range n.Children {
		c.RebindLazy(mod)
	}
}

// Module returns the nearest ancestor-or-self module or submodule node.
func (n *Node) Module() *Node {
	for m := n; m != nil; m = m.Parent {
		if m.Kind == kind.Module || m.Kind == kind.Submodule {
			return m
		}
	}
	return nil
}

// ModuleName returns the name of the module n's identifier is bound to, or
// the owning module's name when the binding carries none.
func (n *Node) ModuleName() string {
	if m, ok := n.Name.Space.ModuleName(); ok {
		return m
	}
	if m := n.Module(); m != nil {
		return m.Name.Name
	}
	return ""
}

// RefModule returns the module whose prefix context resolves references
// written on n: the grouping's defining module for copied nodes, the
// binding's module otherwise.
func (n *Node) RefModule() string {
	if n.SrcModule != "" {
		return n.SrcModule
	}
	return n.ModuleName()
}

// Path renders the slash path of n from the root, for diagnostics.
func (n *Node) Path() string {
	if n.Parent == nil {
		return "/"
	}
	p := n.Parent.Path()
	if p == "/" {
		return "/" + n.Name.Name
	}
	return p + "/" + n.Name.Name
}

// spans returns the [start, end] index pairs of top-level enter/leave spans
// in a blueprint. A ';'-terminated instruction is a two-entry span.
func spans(bp []Instr) [][2]int {
	var out [][2]int
	depth := 0
	start := 0
	for i, in := range bp {
		if in.Enter {
			if depth == 0 {
				start = i
			}
			depth++
			continue
		}
		depth--
		if depth == 0 {
			out = append(out, [2]int{start, i})
		}
	}
	return out
}

// removeInstrKind drops every top-level span of keyword kw from bp.
func removeInstrKind(bp []Instr, kw string) []Instr {
	out := bp[:0:0]
	for _, sp := range spans(bp) {
		if bp[sp[0]].Keyword == kw {
			continue
		}
		out = append(out, bp[sp[0]:sp[1]+1]...)
	}
	return out
}
