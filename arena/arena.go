// Package arena holds the compact, resolved schema representation: all
// nodes live in one growable slice and link to each other by index, so a
// whole schema is a handful of allocations and copies cheaply.
package arena

import (
	"github.com/nokia/yangc/kind"
	"github.com/nokia/yangc/ytype"
)

// Flags packs a node's kind and boolean properties into one word.
type Flags uint32

const (
	kindMask Flags = 0x3f

	FlagPresence    Flags = 1 << 6
	FlagUserOrdered Flags = 1 << 7
	FlagConfig      Flags = 1 << 8
	FlagMandatory   Flags = 1 << 9

	statusShift       = 10
	statusMask  Flags = 0x3 << statusShift
)

// Status is a node's lifecycle marker.
type Status uint8

const (
	StatusCurrent Status = iota
	StatusDeprecated
	StatusObsolete
)

func (s Status) String() string {
	switch s {
	case StatusDeprecated:
		return "deprecated"
	case StatusObsolete:
		return "obsolete"
	}
	return "current"
}

// MakeFlags packs kind, booleans and status into a flag word.
func MakeFlags(k kind.Kind, presence, userOrdered, config, mandatory bool, st Status) Flags {
	f := Flags(k) & kindMask
	if presence {
		f |= FlagPresence
	}
	if userOrdered {
		f |= FlagUserOrdered
	}
	if config {
		f |= FlagConfig
	}
	if mandatory {
		f |= FlagMandatory
	}
	f |= (Flags(st) << statusShift) & statusMask
	return f
}

func (f Flags) Kind() kind.Kind   { return kind.Kind(f & kindMask) }
func (f Flags) Presence() bool    { return f&FlagPresence != 0 }
func (f Flags) UserOrdered() bool { return f&FlagUserOrdered != 0 }
func (f Flags) Config() bool      { return f&FlagConfig != 0 }
func (f Flags) Mandatory() bool   { return f&FlagMandatory != 0 }
func (f Flags) Status() Status    { return Status((f & statusMask) >> statusShift) }

// Node is one resolved schema node. Parent and Children are indices into
// the owning Schema's node slice; the root's parent is -1.
type Node struct {
	Flags     Flags
	Name      string
	Module    string
	Namespace string
	Units     string
	Default   string
	Parent    int32
	Children  []int32
	Keys      []string
	Type      ytype.Type
}

// Annotation is a metadata leaf attachable to any data node.
type Annotation struct {
	Name string
	Type ytype.Type
}

// Schema is a sealed, resolved schema. Index 0 is the synthetic root whose
// children are the compiled modules.
type Schema struct {
	Nodes       []Node
	Annotations []Annotation
}

// Root returns the index of the synthetic root node.
func (s *Schema) Root() int32 { return 0 }

// At returns the node at index i.
func (s *Schema) At(i int32) *Node { return &s.Nodes[i] }

// Child finds a direct child of node i by name, optionally qualified by
// module.
func (s *Schema) Child(i int32, module, name string) (int32, bool) {
	for _, ci := range s.Nodes[i].Children {
		c := &s.Nodes[ci]
		if c.Name != name {
			continue
		}
		if module != "" && c.Module != module {
			continue
		}
		return ci, true
	}
	return 0, false
}

// Walk visits node i and its descendants preorder.
func (s *Schema) Walk(i int32, fn func(int32, *Node) error) error {
	if err := fn(i, &s.Nodes[i]); err != nil {
		return err
	}
	for _, ci := range s.Nodes[i].Children {
		if err := s.Walk(ci, fn); err != nil {
			return err
		}
	}
	return nil
}

// Path renders the slash path of node i, for diagnostics.
func (s *Schema) Path(i int32) string {
	n := &s.Nodes[i]
	if n.Parent < 0 {
		return "/"
	}
	p := s.Path(n.Parent)
	if p == "/" {
		return "/" + n.Name
	}
	return p + "/" + n.Name
}

// Clone deep-copies the schema; the copy shares nothing mutable with the
// original.
func (s *Schema) Clone() *Schema {
	c := &Schema{
		Nodes:       make([]Node, len(s.Nodes)),
		Annotations: make([]Annotation, len(s.Annotations)),
	}
	for i, n := range s.Nodes {
		cp := n
		if len(n.Children) > 0 {
			cp.Children = append([]int32(nil), n.Children...)
		}
		if len(n.Keys) > 0 {
			cp.Keys = append([]string(nil), n.Keys...)
		}
		cp.Type = cloneType(n.Type)
		c.Nodes[i] = cp
	}
	for i, a := range s.Annotations {
		c.Annotations[i] = Annotation{Name: a.Name, Type: cloneType(a.Type)}
	}
	return c
}

func cloneType(t ytype.Type) ytype.Type {
	switch x := t.(type) {
	case ytype.Int:
		x.Ranges = x.Ranges.Clone()
		return x
	case ytype.Decimal64:
		x.Ranges = x.Ranges.Clone()
		return x
	case ytype.Str:
		x.Lengths = x.Lengths.Clone()
		return x
	case ytype.Binary:
		x.Lengths = x.Lengths.Clone()
		return x
	case ytype.Enum:
		x.Items = append([]ytype.EnumItem(nil), x.Items...)
		return x
	case ytype.Bits:
		x.Items = append([]ytype.BitItem(nil), x.Items...)
		return x
	case ytype.IdentityRef:
		x.Bases = append(x.Bases[:0:0], x.Bases...)
		x.Values = append([]string(nil), x.Values...)
		return x
	case ytype.Union:
		members := make([]ytype.Type, len(x.Members))
		for i, m := range x.Members {
			members[i] = cloneType(m)
		}
		return ytype.Union{Members: members}
	}
	return t
}

// Builder accumulates nodes for a schema under construction.
type Builder struct {
	s Schema
}

// Add appends a node and returns its index. The caller links children
// afterwards via SetChildren.
func (b *Builder) Add(n Node) int32 {
	b.s.Nodes = append(b.s.Nodes, n)
	return int32(len(b.s.Nodes) - 1)
}

// SetChildren records the child indices of node i.
func (b *Builder) SetChildren(i int32, kids []int32) {
	b.s.Nodes[i].Children = kids
}

// AddAnnotation registers one metadata annotation.
func (b *Builder) AddAnnotation(a Annotation) {
	b.s.Annotations = append(b.s.Annotations, a)
}

// Seal finishes construction. The builder must not be reused.
func (b *Builder) Seal() *Schema {
	return &b.s
}
