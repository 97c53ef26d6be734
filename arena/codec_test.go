package arena

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nokia/yangc/ident"
	"github.com/nokia/yangc/kind"
	"github.com/nokia/yangc/ytype"
)

func sampleSchema(t *testing.T) *Schema {
	t.Helper()
	rs, err := ytype.ParseRangeSet("0..80")
	if err != nil {
		t.Fatal(err)
	}
	var b Builder
	root := b.Add(Node{
		Flags:  MakeFlags(kind.Module, false, false, true, false, StatusCurrent),
		Name:   "root",
		Parent: -1,
	})
	mod := b.Add(Node{
		Flags:     MakeFlags(kind.Module, false, false, true, false, StatusCurrent),
		Name:      "box",
		Module:    "box",
		Namespace: "urn:box",
		Parent:    root,
	})
	list := b.Add(Node{
		Flags:  MakeFlags(kind.List, false, true, true, false, StatusCurrent),
		Name:   "rule",
		Module: "box",
		Parent: mod,
		Keys:   []string{"name"},
	})
	leaf := b.Add(Node{
		Flags:   MakeFlags(kind.Leaf, false, false, true, true, StatusDeprecated),
		Name:    "name",
		Module:  "box",
		Units:   "things",
		Default: "r0",
		Parent:  list,
		Type: ytype.Union{Members: []ytype.Type{
			ytype.Int{Bits: 8, Ranges: rs},
			ytype.IdentityRef{
				Bases:  []ident.Ident{ident.ModuleName("box", "proto")},
				Values: []string{"box:tcp"},
			},
			ytype.Enum{Items: []ytype.EnumItem{{Name: "none", Value: -1}}},
		}},
	})
	b.SetChildren(root, []int32{mod})
	b.SetChildren(mod, []int32{list})
	b.SetChildren(list, []int32{leaf})
	b.AddAnnotation(Annotation{Name: "note", Type: ytype.Str{}})
	return b.Seal()
}

func encodeBytes(t *testing.T, s *Schema) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestCodecRoundtrip(t *testing.T) {
	s := sampleSchema(t)
	raw := encodeBytes(t, s)
	got, err := Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	// re-encoding the decoded schema must be byte identical
	if !bytes.Equal(raw, encodeBytes(t, got)) {
		t.Fatal("roundtrip is not stable")
	}
	leaf, ok := got.Child(2, "box", "name")
	if !ok {
		t.Fatal("decoded schema lost a child")
	}
	n := got.At(leaf)
	if !n.Flags.Mandatory() || n.Flags.Status() != StatusDeprecated {
		t.Errorf("flags lost: %v", n.Flags)
	}
	u, ok := n.Type.(ytype.Union)
	if !ok || len(u.Members) != 3 {
		t.Fatalf("type = %#v", n.Type)
	}
	if got := u.Members[0].(ytype.Int).Ranges.String(); got != "0..80" {
		t.Errorf("range survived as %q", got)
	}
	ir := u.Members[1].(ytype.IdentityRef)
	if len(ir.Bases) != 1 || ir.Bases[0].Key() != "box:proto" {
		t.Errorf("bases = %v", ir.Bases)
	}
	if e := u.Members[2].(ytype.Enum); e.Items[0].Value != -1 {
		t.Errorf("negative enum value = %d", e.Items[0].Value)
	}
	if len(got.Annotations) != 1 || got.Annotations[0].Name != "note" {
		t.Errorf("annotations = %v", got.Annotations)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	raw := encodeBytes(t, sampleSchema(t))
	cases := [][]byte{
		nil,
		[]byte("XXXX"),
		raw[:len(raw)-3],
		append(append([]byte(nil), raw...), 0xff),
	}
	for i, c := range cases {
		if _, err := Decode(bytes.NewReader(c)); !errors.Is(err, ErrCodec) {
			t.Errorf("case %d: got %v, want ErrCodec", i, err)
		}
	}
	// flip the version
	bad := append([]byte(nil), raw...)
	bad[4] = 99
	if _, err := Decode(bytes.NewReader(bad)); !errors.Is(err, ErrCodec) {
		t.Errorf("version mismatch: got %v, want ErrCodec", err)
	}
}

func TestEncodeRejectsPlaceholders(t *testing.T) {
	var b Builder
	b.Add(Node{Name: "root", Parent: -1, Type: ytype.LeafRef{Path: "/x"}})
	s := b.Seal()
	var buf bytes.Buffer
	if err := s.Encode(&buf); !errors.Is(err, ErrUnencodable) {
		t.Errorf("got %v, want ErrUnencodable", err)
	}
}

func TestClone(t *testing.T) {
	s := sampleSchema(t)
	c := s.Clone()
	c.Nodes[2].Keys[0] = "changed"
	c.Nodes[1].Children[0] = 99
	if s.Nodes[2].Keys[0] != "name" || s.Nodes[1].Children[0] != 2 {
		t.Error("clone shares slices with the original")
	}
	u := c.Nodes[3].Type.(ytype.Union)
	e := u.Members[2].(ytype.Enum)
	e.Items[0].Name = "mutated"
	if s.Nodes[3].Type.(ytype.Union).Members[2].(ytype.Enum).Items[0].Name != "none" {
		t.Error("clone shares type members with the original")
	}
}

func TestWalkAndPath(t *testing.T) {
	s := sampleSchema(t)
	var paths []string
	if err := s.Walk(s.Root(), func(i int32, n *Node) error {
		paths = append(paths, s.Path(i))
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	want := []string{"/", "/box", "/box/rule", "/box/rule/name"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("walk order mismatch (-want +got):\n%s", diff)
	}
}
