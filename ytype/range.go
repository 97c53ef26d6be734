package ytype

import (
	"fmt"
	"math/big"
	"strings"
)

// BoundKind distinguishes numeric bounds from the symbolic min/max keywords,
// which stand for the owning type's true extremes until normalization.
type BoundKind uint8

const (
	BoundNum BoundKind = iota
	BoundMin
	BoundMax
)

// Bound is one end of a range part. Text keeps the verbatim source spelling
// so an unmerged range can be reproduced exactly.
type Bound struct {
	Kind BoundKind
	Text string
	val  *big.Rat
}

func numBound(text string) (Bound, error) {
	r, ok := new(big.Rat).SetString(text)
	if !ok {
		return Bound{}, fmt.Errorf("%w: bad bound %q", ErrBadRange, text)
	}
	return Bound{Kind: BoundNum, Text: text, val: r}, nil
}

// RatBound builds a numeric bound from an exact rational.
func RatBound(r *big.Rat) Bound {
	return Bound{Kind: BoundNum, Text: ratText(r), val: r}
}

func ratText(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	s := r.FloatString(18)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// RangePart is one a..b subrange. A single-value part has Lo == Hi.
type RangePart struct {
	Lo, Hi Bound
}

// RangeSet is an ordered set of subranges as written in a range or length
// statement, e.g. "1..200" or "0..10|20..max".
type RangeSet struct {
	Parts []RangePart
}

// ParseRangeSet parses a range/length argument. The empty string parses to
// an empty set, which accepts everything the base type accepts.
func ParseRangeSet(s string) (RangeSet, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RangeSet{}, nil
	}
	var rs RangeSet
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		lo, hi, ok := strings.Cut(part, "..")
		if !ok {
			hi = lo
		}
		pl, err := parseBound(strings.TrimSpace(lo))
		if err != nil {
			return RangeSet{}, err
		}
		ph, err := parseBound(strings.TrimSpace(hi))
		if err != nil {
			return RangeSet{}, err
		}
		rs.Parts = append(rs.Parts, RangePart{Lo: pl, Hi: ph})
	}
	return rs, nil
}

func parseBound(s string) (Bound, error) {
	switch s {
	case "min":
		return Bound{Kind: BoundMin, Text: "min"}, nil
	case "max":
		return Bound{Kind: BoundMax, Text: "max"}, nil
	}
	return numBound(s)
}

// Empty reports whether the set has no parts.
func (rs RangeSet) Empty() bool { return len(rs.Parts) == 0 }

func (rs RangeSet) String() string {
	var sb strings.Builder
	for i, p := range rs.Parts {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(p.Lo.Text)
		if p.Lo.Text != p.Hi.Text {
			sb.WriteString("..")
			sb.WriteString(p.Hi.Text)
		}
	}
	return sb.String()
}

// Clone returns an independent copy of the set.
func (rs RangeSet) Clone() RangeSet { return rs.clone() }

func (rs RangeSet) clone() RangeSet {
	if rs.Empty() {
		return RangeSet{}
	}
	out := RangeSet{Parts: make([]RangePart, len(rs.Parts))}
	copy(out.Parts, rs.Parts)
	return out
}

// overall returns the outermost bounds of the set. Symbolic bounds win over
// numeric ones on their respective side.
func (rs RangeSet) overall() (lo, hi Bound) {
	lo, hi = rs.Parts[0].Lo, rs.Parts[len(rs.Parts)-1].Hi
	return lo, hi
}

// Merge merges a child (use-site) range over a parent (definition) range.
// A symbolic min/max in the child is substituted with the parent's outermost
// bound on that side. With no parent range the child is returned verbatim;
// with no child range the parent applies unchanged.
func Merge(parent, child RangeSet) RangeSet {
	if child.Empty() {
		return parent.clone()
	}
	if parent.Empty() {
		return child.clone()
	}
	plo, phi := parent.overall()
	out := RangeSet{Parts: make([]RangePart, len(child.Parts))}
	for i, p := range child.Parts {
		if p.Lo.Kind == BoundMin {
			p.Lo = plo
		}
		if p.Hi.Kind == BoundMax {
			p.Hi = phi
		}
		out.Parts[i] = p
	}
	return out
}

// Normalize substitutes remaining min/max bounds with the type's true
// extremes and merges adjacent subranges. step is the smallest representable
// increment of the type (1 for integers, 10^-fd for decimal64); adjacent
// parts whose gap equals step collapse into one.
func (rs RangeSet) Normalize(typeLo, typeHi, step *big.Rat) RangeSet {
	if rs.Empty() {
		return RangeSet{}
	}
	parts := make([]RangePart, 0, len(rs.Parts))
	for _, p := range rs.Parts {
		if p.Lo.Kind == BoundMin {
			p.Lo = RatBound(typeLo)
		}
		if p.Hi.Kind == BoundMax {
			p.Hi = RatBound(typeHi)
		}
		parts = append(parts, p)
	}
	merged := parts[:1]
	for _, p := range parts[1:] {
		last := &merged[len(merged)-1]
		gap := new(big.Rat).Sub(p.Lo.val, last.Hi.val)
		if gap.Cmp(step) <= 0 {
			if p.Hi.val.Cmp(last.Hi.val) > 0 {
				last.Hi = p.Hi
			}
			continue
		}
		merged = append(merged, p)
	}
	return RangeSet{Parts: merged}
}

// Contains reports whether v falls inside the set. An empty set contains
// everything; symbolic bounds are treated as unbounded on their side.
func (rs RangeSet) Contains(v *big.Rat) bool {
	if rs.Empty() {
		return true
	}
	for _, p := range rs.Parts {
		if p.Lo.Kind == BoundNum && v.Cmp(p.Lo.val) < 0 {
			continue
		}
		if p.Hi.Kind == BoundNum && v.Cmp(p.Hi.val) > 0 {
			continue
		}
		return true
	}
	return false
}
