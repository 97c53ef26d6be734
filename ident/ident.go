// Package ident models prefix-qualified YANG identifiers and the module
// binding of a name. A binding is one of four kinds: missing (no module at
// all), lazy (module inferred later, when a grouping copy lands in its
// destination module), builtin (language-defined names) or a concrete module.
package ident

type bindKind uint8

const (
	bindMissing bindKind = iota
	bindLazy
	bindBuiltin
	bindModule
)

// Binding says which module, if any, a name belongs to.
type Binding struct {
	kind bindKind
	mod  string
}

var (
	// Missing is the no-module binding.
	Missing = Binding{kind: bindMissing}
	// Lazy marks a name whose module is inferred when its surrounding
	// grouping is copied into a destination module.
	Lazy = Binding{kind: bindLazy}
	// Builtin marks language-defined names.
	Builtin = Binding{kind: bindBuiltin}
)

// Module returns a binding to a concrete module.
func Module(name string) Binding {
	return Binding{kind: bindModule, mod: name}
}

func (b Binding) IsLazy() bool    { return b.kind == bindLazy }
func (b Binding) IsBuiltin() bool { return b.kind == bindBuiltin }
func (b Binding) IsMissing() bool { return b.kind == bindMissing }

// ModuleName returns the bound module name, if the binding is concrete.
func (b Binding) ModuleName() (string, bool) {
	return b.mod, b.kind == bindModule
}

func (b Binding) String() string {
	switch b.kind {
	case bindLazy:
		return "<lazy>"
	case bindBuiltin:
		return "<builtin>"
	case bindModule:
		return b.mod
	}
	return "<none>"
}

// Ident is a module-qualified name. Idents are comparable values; equality
// covers both the binding and the name.
type Ident struct {
	Space Binding
	Name  string
}

// New returns an identifier with an explicit binding.
func New(space Binding, name string) Ident {
	return Ident{Space: space, Name: name}
}

// BuiltinName returns a language-defined identifier.
func BuiltinName(name string) Ident {
	return Ident{Space: Builtin, Name: name}
}

// LazyName returns an identifier to be bound when its destination module is
// known.
func LazyName(name string) Ident {
	return Ident{Space: Lazy, Name: name}
}

// ModuleName returns an identifier bound to module mod.
func ModuleName(mod, name string) Ident {
	return Ident{Space: Module(mod), Name: name}
}

// Rebind binds a lazy identifier to mod. Identifiers with any other binding
// are returned unchanged.
func (id Ident) Rebind(mod string) Ident {
	if !id.Space.IsLazy() {
		return id
	}
	return Ident{Space: Module(mod), Name: id.Name}
}

// Key returns a string usable as a map key; distinct identifiers have
// distinct keys.
func (id Ident) Key() string {
	switch id.Space.kind {
	case bindModule:
		return id.Space.mod + ":" + id.Name
	case bindBuiltin:
		return "!" + id.Name
	case bindLazy:
		return "?" + id.Name
	}
	return "." + id.Name
}

func (id Ident) String() string {
	if mod, ok := id.Space.ModuleName(); ok {
		return mod + ":" + id.Name
	}
	return id.Name
}
