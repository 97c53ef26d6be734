package schema

import (
	"testing"

	"github.com/nokia/yangc/kind"
	"github.com/nokia/yangc/token"
)

func mustBuild(t *testing.T, src string) *buildResult {
	t.Helper()
	toks, err := token.Tokenize(nil, []byte(src))
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	res, err := buildModule(toks)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return res
}

const builderSrc = `module acme-box {
  namespace "urn:acme:box";
  prefix box;
  import acme-types { prefix at; }
  revision 2024-01-10;
  revision 2023-06-01;

  container system {
    description "system config";
    leaf hostname {
      type string { length "1..253"; }
      mandatory true;
    }
  }
}`

func TestBuildShape(t *testing.T) {
	res := mustBuild(t, builderSrc)
	if res.name != "acme-box" || res.isSubmodule {
		t.Fatalf("bad module identity: %+v", res)
	}
	if res.prefix != "box" || res.namespace != "urn:acme:box" {
		t.Errorf("prefix/namespace not captured: %q %q", res.prefix, res.namespace)
	}
	if res.revision != "2024-01-10" {
		t.Errorf("revision = %q, want first revision", res.revision)
	}
	if res.imports["at"] != "acme-types" {
		t.Errorf("import prefix map = %v", res.imports)
	}
	if len(res.requires) != 1 || res.requires[0] != "acme-types" {
		t.Errorf("requires = %v", res.requires)
	}

	sys := res.node.Child("system", "")
	if sys == nil || sys.Kind != kind.Container {
		t.Fatalf("missing container system")
	}
	host := sys.Child("hostname", "")
	if host == nil || host.Kind != kind.Leaf {
		t.Fatalf("missing leaf hostname")
	}
	if mod, ok := host.Name.Space.ModuleName(); !ok || mod != "acme-box" {
		t.Errorf("leaf bound to %v, want acme-box", host.Name.Space)
	}
}

// Attribute statements become deferred instructions, never child nodes.
func TestBuildBlueprintsNotChildren(t *testing.T) {
	res := mustBuild(t, builderSrc)
	host := res.node.Child("system", "").Child("hostname", "")
	if len(host.Children) != 0 {
		t.Fatalf("leaf has %d children, want 0", len(host.Children))
	}
	wantKw := []string{"type", "length", "length", "type", "mandatory", "mandatory"}
	if len(host.Blueprint) != len(wantKw) {
		t.Fatalf("blueprint = %v", host.Blueprint)
	}
	for i, kw := range wantKw {
		if host.Blueprint[i].Keyword != kw {
			t.Errorf("instr %d keyword = %q, want %q", i, host.Blueprint[i].Keyword, kw)
		}
	}
	if firstInstrArg(host.Blueprint, "type") != "string" {
		t.Errorf("type arg = %q", firstInstrArg(host.Blueprint, "type"))
	}
}

func TestBuildGroupingBindsLazily(t *testing.T) {
	res := mustBuild(t, `module m {
  prefix m;
  grouping endpoint {
    leaf address { type string; }
  }
  uses endpoint;
}`)
	grp := res.node.Child("endpoint", "")
	if grp == nil || grp.Kind != kind.Grouping {
		t.Fatal("missing grouping")
	}
	addr := grp.Child("address", "")
	if !addr.Name.Space.IsLazy() {
		t.Errorf("grouping member bound eagerly: %v", addr.Name.Space)
	}
	if grp.Name.Space.IsLazy() {
		t.Error("the grouping itself must bind to its module")
	}
}

func TestBuildSubmodule(t *testing.T) {
	res := mustBuild(t, `submodule m-sub {
  belongs-to m { prefix m; }
  leaf extra { type string; }
}`)
	if !res.isSubmodule || res.belongsTo != "m" || res.prefix != "m" {
		t.Fatalf("belongs-to not captured: %+v", res)
	}
	if len(res.requires) != 1 || res.requires[0] != "m" {
		t.Errorf("requires = %v", res.requires)
	}
}

func TestBuildErrors(t *testing.T) {
	cases := []string{
		`leaf x { type string; }`,       // no module statement
		`module m { module n { } }`,     // nested module
		`module m { leaf; }`,            // missing name
		`module m { leaf x }`,           // missing terminator
		`module m { } }`,                // tokenizer rejects imbalance
		`module m { augment ".." { } }`, // bad path
	}
	for _, src := range cases {
		toks, err := token.Tokenize(nil, []byte(src))
		if err != nil {
			continue
		}
		if _, err := buildModule(toks); err == nil {
			t.Errorf("expected error building %q", src)
		}
	}
}
