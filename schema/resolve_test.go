package schema

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/nokia/yangc/arena"
	"github.com/nokia/yangc/kind"
	"github.com/nokia/yangc/ytype"
)

func compileSet(t *testing.T, mods map[string]string, names ...string) *arena.Schema {
	t.Helper()
	s, err := tryCompileSet(mods, names...)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return s
}

func tryCompileSet(mods map[string]string, names ...string) (*arena.Schema, error) {
	retrieve := func(name string) ([]byte, error) {
		src, ok := mods[name]
		if !ok {
			return nil, fmt.Errorf("no module %q", name)
		}
		return []byte(src), nil
	}
	ms, err := Parse(Input{Retrieve: retrieve, Log: zerolog.Nop()}, names...)
	if err != nil {
		return nil, err
	}
	return ms.Resolve()
}

func mustNode(t *testing.T, s *arena.Schema, path ...string) int32 {
	t.Helper()
	i := s.Root()
	for _, step := range path {
		ci, ok := s.Child(i, "", step)
		if !ok {
			t.Fatalf("no node %q under %s", step, s.Path(i))
		}
		i = ci
	}
	return i
}

func TestGroupingExpansionIsolation(t *testing.T) {
	s := compileSet(t, map[string]string{
		"g": `module g {
  prefix g; namespace "urn:g";
  grouping endpoint {
    leaf addr { type string; }
    leaf port { type uint16; }
  }
  container a { uses endpoint; }
  container b {
    uses endpoint {
      refine addr { default "127.0.0.1"; }
    }
  }
}`,
	}, "g")
	aAddr := s.At(mustNode(t, s, "g", "a", "addr"))
	bAddr := s.At(mustNode(t, s, "g", "b", "addr"))
	if bAddr.Default != "127.0.0.1" {
		t.Errorf("refined copy default = %q", bAddr.Default)
	}
	if aAddr.Default != "" {
		t.Errorf("refine leaked across uses sites: %q", aAddr.Default)
	}
	if aAddr.Module != "g" {
		t.Errorf("expanded node bound to %q, want destination module", aAddr.Module)
	}
	mustNode(t, s, "g", "a", "port")
	// the grouping definition itself never reaches the schema
	if _, ok := s.Child(mustNode(t, s, "g"), "", "endpoint"); ok {
		t.Error("grouping definition survived resolution")
	}
}

func TestNestedGroupings(t *testing.T) {
	s := compileSet(t, map[string]string{
		"n": `module n {
  prefix n; namespace "urn:n";
  grouping inner { leaf deep { type string; } }
  grouping outer {
    container wrap { uses inner; }
  }
  uses outer;
}`,
	}, "n")
	mustNode(t, s, "n", "wrap", "deep")
}

func TestGroupingCrossModuleReferences(t *testing.T) {
	s := compileSet(t, map[string]string{
		"a": `module a {
  prefix a; namespace "urn:a";
  typedef pct { type uint8 { range "0..100"; } }
  grouping load {
    leaf level { type pct; }
  }
}`,
		"b": `module b {
  prefix b; namespace "urn:b";
  import a { prefix a; }
  container box { uses a:load; }
}`,
	}, "a", "b")
	level := s.At(mustNode(t, s, "b", "box", "level"))
	if level.Module != "b" {
		t.Errorf("expanded node bound to %q, want destination module", level.Module)
	}
	it, ok := level.Type.(ytype.Int)
	if !ok || it.Signed || it.Bits != 8 {
		t.Fatalf("level type = %#v, want the defining module's typedef", level.Type)
	}
	if got := it.Ranges.String(); got != "0..100" {
		t.Errorf("level range = %q", got)
	}
}

func TestGroupingLocalTypedef(t *testing.T) {
	s := compileSet(t, map[string]string{
		"a": `module a {
  prefix a; namespace "urn:a";
  grouping tuned {
    typedef knob { type int16 { range "-10..10"; } }
    leaf gain { type knob; }
  }
}`,
		"b": `module b {
  prefix b; namespace "urn:b";
  import a { prefix a; }
  uses a:tuned;
}`,
	}, "a", "b")
	gain := s.At(mustNode(t, s, "b", "gain"))
	it, ok := gain.Type.(ytype.Int)
	if !ok || !it.Signed || it.Bits != 16 {
		t.Fatalf("gain type = %#v, want the grouping's own typedef", gain.Type)
	}
	if got := it.Ranges.String(); got != "-10..10" {
		t.Errorf("gain range = %q", got)
	}
}

func TestGroupingCycle(t *testing.T) {
	_, err := tryCompileSet(map[string]string{
		"c": `module c {
  prefix c; namespace "urn:c";
  grouping a { uses b; }
  grouping b { uses a; }
  container top { uses a; }
}`,
	}, "c")
	if !errors.Is(err, ErrGroupingCycle) {
		t.Errorf("got %v, want ErrGroupingCycle", err)
	}
}

func TestAugmentAcrossModules(t *testing.T) {
	mods := map[string]string{
		"base": `module base {
  prefix b; namespace "urn:base";
  container top { }
}`,
		"ext": `module ext {
  prefix e; namespace "urn:ext";
  import base { prefix b; }
  augment "/b:top" { leaf extra { type string; } }
}`,
	}
	s := compileSet(t, mods, "base", "ext")
	extra := s.At(mustNode(t, s, "base", "top", "extra"))
	if extra.Module != "ext" {
		t.Errorf("augmented node module = %q, want ext", extra.Module)
	}
	if extra.Namespace != "urn:ext" {
		t.Errorf("augmented node namespace = %q, want the augmenting module's", extra.Namespace)
	}
}

// An augment may target a node created by another augment; the result must
// not depend on module order.
func TestAugmentChaining(t *testing.T) {
	mods := map[string]string{
		"base": `module base {
  prefix b; namespace "urn:base";
  container top { }
}`,
		"mid": `module mid {
  prefix m; namespace "urn:mid";
  import base { prefix b; }
  augment "/b:top" { container shelf { } }
}`,
		"leafmod": `module leafmod {
  prefix l; namespace "urn:leafmod";
  import base { prefix b; }
  import mid { prefix m; }
  augment "/b:top/m:shelf" { leaf slot { type uint8; } }
}`,
	}
	for _, order := range [][]string{
		{"base", "mid", "leafmod"},
		{"leafmod", "base", "mid"},
		{"mid", "leafmod", "base"},
	} {
		s := compileSet(t, mods, order...)
		mustNode(t, s, "base", "top", "shelf", "slot")
	}
}

func TestAugmentUnresolved(t *testing.T) {
	_, err := tryCompileSet(map[string]string{
		"u": `module u {
  prefix u; namespace "urn:u";
  augment "/u:nowhere" { leaf x { type string; } }
}`,
	}, "u")
	if !errors.Is(err, ErrUnresolvedAugment) {
		t.Errorf("got %v, want ErrUnresolvedAugment", err)
	}
}

func TestDeviations(t *testing.T) {
	s := compileSet(t, map[string]string{
		"d": `module d {
  prefix d; namespace "urn:d";
  container c {
    leaf a { type string; mandatory true; }
    leaf b { type string; }
    leaf gone { type string; }
  }
  deviation "/d:c/d:gone" { deviate not-supported; }
  deviation "/d:c/d:a" { deviate replace { mandatory false; } }
  deviation "/d:c/d:b" { deviate add { default "fallback"; } }
}`,
	}, "d")
	c := mustNode(t, s, "d", "c")
	if _, ok := s.Child(c, "", "gone"); ok {
		t.Error("not-supported target survived")
	}
	if s.At(mustNode(t, s, "d", "c", "a")).Flags.Mandatory() {
		t.Error("replace did not clear mandatory")
	}
	if got := s.At(mustNode(t, s, "d", "c", "b")).Default; got != "fallback" {
		t.Errorf("added default = %q", got)
	}
}

func TestUnknownDeviate(t *testing.T) {
	_, err := tryCompileSet(map[string]string{
		"d": `module d {
  prefix d; namespace "urn:d";
  leaf x { type string; }
  deviation "/d:x" { deviate sideways; }
}`,
	}, "d")
	if !errors.Is(err, ErrUnknownDeviate) {
		t.Errorf("got %v, want ErrUnknownDeviate", err)
	}
}

func TestTypedefResolution(t *testing.T) {
	s := compileSet(t, map[string]string{
		"t": `module t {
  prefix t; namespace "urn:t";
  typedef percent {
    type uint8 { range "0..100"; }
    units "percent";
    default "50";
  }
  typedef level { type percent { range "min..80"; } }
  leaf pct { type percent; }
  leaf load { type level; }
  leaf capped { type percent { range "10..max"; } }
}`,
	}, "t")

	pct := s.At(mustNode(t, s, "t", "pct"))
	if pct.Units != "percent" || pct.Default != "50" {
		t.Errorf("typedef units/default did not flow: %q %q", pct.Units, pct.Default)
	}
	it, ok := pct.Type.(ytype.Int)
	if !ok || it.Signed || it.Bits != 8 {
		t.Fatalf("pct type = %#v", pct.Type)
	}
	if got := it.Ranges.String(); got != "0..100" {
		t.Errorf("pct range = %q", got)
	}

	load := s.At(mustNode(t, s, "t", "load"))
	if got := load.Type.(ytype.Int).Ranges.String(); got != "0..80" {
		t.Errorf("chained range = %q, want min substituted from base", got)
	}
	capped := s.At(mustNode(t, s, "t", "capped"))
	if got := capped.Type.(ytype.Int).Ranges.String(); got != "10..100" {
		t.Errorf("capped range = %q, want max substituted from base", got)
	}
}

func TestUnknownTypedef(t *testing.T) {
	_, err := tryCompileSet(map[string]string{
		"t": `module t {
  prefix t; namespace "urn:t";
  leaf x { type nosuch; }
}`,
	}, "t")
	if !errors.Is(err, ErrUnknownTypedef) {
		t.Errorf("got %v, want ErrUnknownTypedef", err)
	}
}

func TestIdentityClosure(t *testing.T) {
	s := compileSet(t, map[string]string{
		"i": `module i {
  prefix i; namespace "urn:i";
  identity proto;
  identity tcp { base proto; }
  identity quic { base tcp; }
  leaf p { type identityref { base proto; } }
}`,
	}, "i")
	p := s.At(mustNode(t, s, "i", "p"))
	ir, ok := p.Type.(ytype.IdentityRef)
	if !ok {
		t.Fatalf("type = %#v", p.Type)
	}
	if diff := cmp.Diff([]string{"i:quic", "i:tcp"}, ir.Values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	if !ir.CheckValue("quic") {
		t.Error("transitively derived identity rejected")
	}
	if ir.CheckValue("proto") {
		t.Error("the base itself is not a legal value")
	}
}

func TestLeafrefSubstitution(t *testing.T) {
	s := compileSet(t, map[string]string{
		"l": `module l {
  prefix l; namespace "urn:l";
  container c {
    leaf target { type uint8; }
    leaf rel { type leafref { path "../target"; } }
    leaf abs { type leafref { path "/l:c/l:target"; } }
    leaf hop { type leafref { path "../rel"; } }
  }
}`,
	}, "l")
	for _, name := range []string{"rel", "abs", "hop"} {
		n := s.At(mustNode(t, s, "l", "c", name))
		it, ok := n.Type.(ytype.Int)
		if !ok || it.Signed || it.Bits != 8 {
			t.Errorf("%s type = %#v, want the target's uint8", name, n.Type)
		}
	}
}

func TestLeafrefKeyPredicate(t *testing.T) {
	s := compileSet(t, map[string]string{
		"l": `module l {
  prefix l; namespace "urn:l";
  list iface {
    key name;
    leaf name { type string; }
    leaf mtu { type uint16; }
  }
  container port {
    leaf ifname { type string; }
    leaf mtu { type leafref { path "../../iface[name = current()/../ifname]/mtu"; } }
  }
}`,
	}, "l")
	n := s.At(mustNode(t, s, "l", "port", "mtu"))
	it, ok := n.Type.(ytype.Int)
	if !ok || it.Signed || it.Bits != 16 {
		t.Errorf("type = %#v, want the keyed target's uint16", n.Type)
	}
}

func TestLeafrefUnresolvable(t *testing.T) {
	_, err := tryCompileSet(map[string]string{
		"l": `module l {
  prefix l; namespace "urn:l";
  leaf bad { type leafref { path "/l:missing"; } }
}`,
	}, "l")
	if !errors.Is(err, ErrBadLeafref) {
		t.Errorf("got %v, want ErrBadLeafref", err)
	}
}

func TestConfigInheritance(t *testing.T) {
	s := compileSet(t, map[string]string{
		"c": `module c {
  prefix c; namespace "urn:c";
  container state {
    config false;
    leaf plain { type string; }
    leaf forced { config true; type string; }
  }
  container conf { leaf x { type string; } }
}`,
	}, "c")
	if s.At(mustNode(t, s, "c", "state", "plain")).Flags.Config() {
		t.Error("config false did not inherit")
	}
	if s.At(mustNode(t, s, "c", "state", "forced")).Flags.Config() {
		t.Error("config true override escaped a config false subtree")
	}
	if !s.At(mustNode(t, s, "c", "conf", "x")).Flags.Config() {
		t.Error("default config true lost")
	}
}

func TestBadConfigArgument(t *testing.T) {
	_, err := tryCompileSet(map[string]string{
		"c": `module c {
  prefix c; namespace "urn:c";
  leaf x { config yes; type string; }
}`,
	}, "c")
	if !errors.Is(err, ErrBadConfigArg) {
		t.Errorf("got %v, want ErrBadConfigArg", err)
	}
}

func TestSubmoduleMerge(t *testing.T) {
	s := compileSet(t, map[string]string{
		"main": `module main {
  prefix m; namespace "urn:main";
  include main-sub;
  container here { }
}`,
		"main-sub": `submodule main-sub {
  belongs-to main { prefix m; }
  leaf merged { type string; }
}`,
	}, "main")
	merged := s.At(mustNode(t, s, "main", "merged"))
	if merged.Module != "main" {
		t.Errorf("submodule node module = %q, want owner", merged.Module)
	}
	if merged.Namespace != "urn:main" {
		t.Errorf("submodule node namespace = %q", merged.Namespace)
	}
}

func TestAnnotationsExtracted(t *testing.T) {
	s := compileSet(t, map[string]string{
		"a": `module a {
  prefix a; namespace "urn:a";
  md:annotation last-modified { type string; }
  leaf x { type string; }
}`,
	}, "a")
	names := make([]string, len(s.Annotations))
	for i, an := range s.Annotations {
		names[i] = an.Name
	}
	want := []string{"last-modified", "operation"}
	if len(names) != len(want) || names[0] != want[0] || names[1] != want[1] {
		t.Fatalf("annotations = %v, want %v", names, want)
	}
	op := s.Annotations[1].Type.(ytype.Enum)
	if _, err := op.ToValue("merge"); err != nil {
		t.Errorf("builtin operation annotation lacks merge: %v", err)
	}
	// the declaration node itself never reaches the schema
	if _, ok := s.Child(mustNode(t, s, "a"), "", "last-modified"); ok {
		t.Error("annotation declaration survived as a node")
	}
}

func TestOrderedByAndListKeys(t *testing.T) {
	s := compileSet(t, map[string]string{
		"k": `module k {
  prefix k; namespace "urn:k";
  list rule {
    key "name seq";
    ordered-by user;
    leaf name { type string; }
    leaf seq { type uint32; }
  }
  container box { presence "exists"; }
}`,
	}, "k")
	rule := s.At(mustNode(t, s, "k", "rule"))
	if !rule.Flags.UserOrdered() {
		t.Error("ordered-by user lost")
	}
	if len(rule.Keys) != 2 || rule.Keys[0] != "name" || rule.Keys[1] != "seq" {
		t.Errorf("keys = %v", rule.Keys)
	}
	if !s.At(mustNode(t, s, "k", "box")).Flags.Presence() {
		t.Error("presence lost")
	}
}

func TestDeterministicOutput(t *testing.T) {
	mods := map[string]string{
		"base": `module base {
  prefix b; namespace "urn:base";
  container top { leaf x { type string; } }
}`,
		"ext": `module ext {
  prefix e; namespace "urn:ext";
  import base { prefix b; }
  augment "/b:top" { leaf y { type uint8; } }
}`,
	}
	var first []byte
	for i := 0; i < 3; i++ {
		s := compileSet(t, mods, "ext", "base")
		var buf bytes.Buffer
		if err := s.Encode(&buf); err != nil {
			t.Fatal(err)
		}
		if first == nil {
			first = buf.Bytes()
			continue
		}
		if !bytes.Equal(first, buf.Bytes()) {
			t.Fatalf("compile %d produced different bytes", i)
		}
	}
}

func TestIdentityLines(t *testing.T) {
	retrieve := func(name string) ([]byte, error) {
		mods := map[string]string{
			"main": `module main {
  prefix m; namespace "urn:main";
  revision 2024-02-02;
  include main-sub;
}`,
			"main-sub": `submodule main-sub {
  belongs-to main { prefix m; }
  revision 2024-01-01;
}`,
		}
		return []byte(mods[name]), nil
	}
	ms, err := Parse(Input{Retrieve: retrieve, Log: zerolog.Nop()}, "main")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"main/main-sub@2024-01-01", "main@2024-02-02"}
	if diff := cmp.Diff(want, ms.IdentityLines()); diff != "" {
		t.Errorf("identity lines mismatch (-want +got):\n%s", diff)
	}
}

func TestRPCStructure(t *testing.T) {
	s := compileSet(t, map[string]string{
		"r": `module r {
  prefix r; namespace "urn:r";
  rpc reboot {
    input { leaf delay { type uint32; } }
    output { leaf when { type string; } }
  }
}`,
	}, "r")
	in := mustNode(t, s, "r", "reboot", "input")
	if s.At(in).Flags.Kind() != kind.Input {
		t.Errorf("input kind = %v", s.At(in).Flags.Kind())
	}
	if s.At(mustNode(t, s, "r", "reboot", "input", "delay")).Flags.Config() {
		t.Error("rpc payload must not be config")
	}
}
