// Package kind defines the closed statement-kind enumeration shared by the
// mutable builder tree and the compact schema representation.
package kind

// Kind identifies the statement that created a schema node. Every node
// carries exactly one kind, fixed at creation.
type Kind uint8

const (
	Invalid Kind = iota
	Module
	Submodule
	Container
	List
	Leaf
	LeafList
	Choice
	Case
	Augment
	Uses
	Grouping
	Typedef
	Import
	Identity
	Action
	Anydata
	Anyxml
	Notification
	RPC
	Input
	Output
	Deviation
	Deviate
	BelongsTo
	Refine
	// Extended is a vendor/foreign statement (keyword with a prefix).
	Extended

	max
)

var names = [...]string{
	Invalid:      "invalid",
	Module:       "module",
	Submodule:    "submodule",
	Container:    "container",
	List:         "list",
	Leaf:         "leaf",
	LeafList:     "leaf-list",
	Choice:       "choice",
	Case:         "case",
	Augment:      "augment",
	Uses:         "uses",
	Grouping:     "grouping",
	Typedef:      "typedef",
	Import:       "import",
	Identity:     "identity",
	Action:       "action",
	Anydata:      "anydata",
	Anyxml:       "anyxml",
	Notification: "notification",
	RPC:          "rpc",
	Input:        "input",
	Output:       "output",
	Deviation:    "deviation",
	Deviate:      "deviate",
	BelongsTo:    "belongs-to",
	Refine:       "refine",
	Extended:     "extended",
}

func (k Kind) String() string {
	if k >= max {
		return "invalid"
	}
	return names[k]
}

// Valid reports whether k is a defined kind.
func (k Kind) Valid() bool { return k > Invalid && k < max }

// keyword table for structural statements; vendor keywords (containing ':')
// map to Extended in the builder, not here.
var keywords = map[string]Kind{
	"module":       Module,
	"submodule":    Submodule,
	"container":    Container,
	"list":         List,
	"leaf":         Leaf,
	"leaf-list":    LeafList,
	"choice":       Choice,
	"case":         Case,
	"augment":      Augment,
	"uses":         Uses,
	"grouping":     Grouping,
	"typedef":      Typedef,
	"import":       Import,
	"identity":     Identity,
	"action":       Action,
	"anydata":      Anydata,
	"anyxml":       Anyxml,
	"notification": Notification,
	"rpc":          RPC,
	"input":        Input,
	"output":       Output,
	"deviation":    Deviation,
	"deviate":      Deviate,
	"belongs-to":   BelongsTo,
	"refine":       Refine,
}

// FromKeyword maps a statement keyword to its structural kind, reporting
// ok=false for attribute statements.
func FromKeyword(kw string) (Kind, bool) {
	k, ok := keywords[kw]
	return k, ok
}

// IsData reports whether nodes of this kind sit on the instance data tree.
func (k Kind) IsData() bool {
	switch k {
	case Container, List, Leaf, LeafList, Choice, Case,
		Action, Anydata, Anyxml, Notification, RPC, Input, Output:
		return true
	}
	return false
}
