package ytype

import (
	"fmt"
	"math/big"
	"strings"
)

// Refinement is the set of restrictions a type use site may declare over a
// typedef or builtin: range, length, fraction-digits and an enum subset.
type Refinement struct {
	Range          string
	Length         string
	FractionDigits uint
	Enums          []EnumItem
	Bits           []BitItem
	Path           string
	Bases          []string
}

func (r Refinement) empty() bool {
	return r.Range == "" && r.Length == "" && r.FractionDigits == 0 &&
		len(r.Enums) == 0
}

// Builtin constructs the builtin type named name, applying any refinement,
// or reports ok=false when name is not a YANG builtin.
func Builtin(name string, r Refinement) (Type, bool, error) {
	mk := func(bits uint, signed bool) (Type, bool, error) {
		rs, err := ParseRangeSet(r.Range)
		if err != nil {
			return nil, true, err
		}
		return Int{Bits: bits, Signed: signed, Ranges: rs}, true, nil
	}
	switch name {
	case "int8":
		return mk(8, true)
	case "int16":
		return mk(16, true)
	case "int32":
		return mk(32, true)
	case "int64":
		return mk(64, true)
	case "uint8":
		return mk(8, false)
	case "uint16":
		return mk(16, false)
	case "uint32":
		return mk(32, false)
	case "uint64":
		return mk(64, false)
	case "string":
		ls, err := ParseRangeSet(r.Length)
		if err != nil {
			return nil, true, err
		}
		return Str{Lengths: ls}, true, nil
	case "boolean":
		return Bool{}, true, nil
	case "empty":
		return Empty{}, true, nil
	case "binary":
		ls, err := ParseRangeSet(r.Length)
		if err != nil {
			return nil, true, err
		}
		return Binary{Lengths: ls}, true, nil
	case "decimal64":
		if r.FractionDigits < 1 || r.FractionDigits > 18 {
			return nil, true, fmt.Errorf("%w: %d", ErrFractionRange, r.FractionDigits)
		}
		rs, err := ParseRangeSet(r.Range)
		if err != nil {
			return nil, true, err
		}
		return Decimal64{FractionDigits: r.FractionDigits, Ranges: rs}, true, nil
	case "enumeration":
		return Enum{Items: r.Enums}, true, nil
	case "bits":
		return Bits{Items: r.Bits}, true, nil
	case "leafref":
		return LeafRef{Path: r.Path}, true, nil
	}
	return nil, false, nil
}

// Refine merges a use-site refinement over an already resolved base type,
// returning an independent copy. Range and length merge child-over-parent;
// an enum refinement restricts to a subset of the base members.
func Refine(base Type, r Refinement) (Type, error) {
	if r.empty() {
		return base, nil
	}
	switch t := base.(type) {
	case Int:
		child, err := ParseRangeSet(r.Range)
		if err != nil {
			return nil, err
		}
		t.Ranges = Merge(t.Ranges, child)
		return t, nil
	case Decimal64:
		child, err := ParseRangeSet(r.Range)
		if err != nil {
			return nil, err
		}
		t.Ranges = Merge(t.Ranges, child)
		return t, nil
	case Str:
		child, err := ParseRangeSet(r.Length)
		if err != nil {
			return nil, err
		}
		t.Lengths = Merge(t.Lengths, child)
		return t, nil
	case Binary:
		child, err := ParseRangeSet(r.Length)
		if err != nil {
			return nil, err
		}
		t.Lengths = Merge(t.Lengths, child)
		return t, nil
	case Enum:
		if len(r.Enums) == 0 {
			return t, nil
		}
		var items []EnumItem
		for _, sub := range r.Enums {
			it, ok := t.item(sub.Name)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrEnumMember, sub.Name)
			}
			items = append(items, it)
		}
		return Enum{Items: items}, nil
	}
	return base, nil
}

// Normalize rewrites symbolic range bounds to the type's true extremes and
// merges adjacent subranges, recursing into union members.
func Normalize(t Type) Type {
	one := new(big.Rat).SetInt64(1)
	switch x := t.(type) {
	case Int:
		lo, hi := x.Bounds()
		x.Ranges = x.Ranges.Normalize(lo, hi, one)
		return x
	case Decimal64:
		lo, hi := x.Bounds()
		x.Ranges = x.Ranges.Normalize(lo, hi, x.Step())
		return x
	case Str:
		x.Lengths = x.Lengths.Normalize(new(big.Rat), maxLen(), one)
		return x
	case Binary:
		x.Lengths = x.Lengths.Normalize(new(big.Rat), maxLen(), one)
		return x
	case Union:
		members := make([]Type, len(x.Members))
		for i, m := range x.Members {
			members[i] = Normalize(m)
		}
		return Union{Members: members}
	}
	return t
}

func maxLen() *big.Rat {
	return new(big.Rat).SetInt(new(big.Int).SetUint64(1<<64 - 1))
}

// Key returns a canonical spec string for deduplication of union members.
func Key(t Type) string {
	switch x := t.(type) {
	case Int:
		return x.WireName() + "[" + x.Ranges.String() + "]"
	case Decimal64:
		return fmt.Sprintf("decimal64(%d)[%s]", x.FractionDigits, x.Ranges.String())
	case Str:
		return "string[" + x.Lengths.String() + "]"
	case Binary:
		return "binary[" + x.Lengths.String() + "]"
	case Enum:
		var sb strings.Builder
		sb.WriteString("enumeration{")
		for _, it := range x.Items {
			fmt.Fprintf(&sb, "%s=%d;", it.Name, it.Value)
		}
		sb.WriteString("}")
		return sb.String()
	case Bits:
		var sb strings.Builder
		sb.WriteString("bits{")
		for _, it := range x.Items {
			fmt.Fprintf(&sb, "%s=%d;", it.Name, it.Pos)
		}
		sb.WriteString("}")
		return sb.String()
	case IdentityRef:
		keys := make([]string, len(x.Bases))
		for i, b := range x.Bases {
			keys[i] = b.Key()
		}
		return "identityref{" + strings.Join(keys, ";") + "}"
	case LeafRef:
		return "leafref{" + x.Path + "}"
	case Union:
		keys := make([]string, len(x.Members))
		for i, m := range x.Members {
			keys[i] = Key(m)
		}
		return "union{" + strings.Join(keys, ";") + "}"
	case Unresolved:
		return "unresolved{" + x.Ref.Key() + "}"
	}
	return t.WireName()
}

// DedupUnion removes duplicate members, keeping first occurrences in order.
func DedupUnion(u Union) Union {
	seen := make(map[string]bool, len(u.Members))
	out := make([]Type, 0, len(u.Members))
	for _, m := range u.Members {
		k := Key(m)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, m)
	}
	return Union{Members: out}
}
