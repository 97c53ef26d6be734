package yangc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

var testMods = map[string]string{
	"base": `module base {
  prefix b; namespace "urn:base";
  revision 2024-03-03;
  container top { leaf name { type string; } }
}`,
	"ext": `module ext {
  prefix e; namespace "urn:ext";
  import base { prefix b; }
  augment "/b:top" { leaf extra { type uint8; } }
}`,
	"broken": `module broken {
  prefix br; namespace "urn:broken";
  leaf bad { type nosuch; }
}`,
}

func TestCompile(t *testing.T) {
	c := New(MapRetriever(testMods))
	s, err := c.Compile("base", "ext")
	if err != nil {
		t.Fatal(err)
	}
	base, ok := s.Child(s.Root(), "", "base")
	if !ok {
		t.Fatal("no base module")
	}
	top, ok := s.Child(base, "", "top")
	if !ok {
		t.Fatal("no top container")
	}
	if _, ok := s.Child(top, "ext", "extra"); !ok {
		t.Error("augment from ext missing")
	}
}

func TestCompileErrorClass(t *testing.T) {
	c := New(MapRetriever(testMods))
	if _, err := c.Compile("broken"); !errors.Is(err, ErrModule) {
		t.Errorf("got %v, want ErrModule", err)
	}
	if _, err := c.Compile("absent"); !errors.Is(err, ErrModule) {
		t.Errorf("got %v, want ErrModule", err)
	}
}

func TestCompileCachesResult(t *testing.T) {
	dir := t.TempDir()
	c := New(MapRetriever(testMods), WithCacheDir(dir))
	if _, err := c.Compile("base", "ext"); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("cache has %d entries, want 1", len(entries))
	}
	// second compile hits the cache and yields the same shape
	s, err := c.Compile("base", "ext")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Child(s.Root(), "", "ext"); !ok {
		t.Error("cached schema lost a module")
	}
}

func TestWithoutCache(t *testing.T) {
	dir := t.TempDir()
	c := New(MapRetriever(testMods), WithCacheDir(dir), WithoutCache())
	if _, err := c.Compile("base", "ext"); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("disabled cache still has %d entries", len(entries))
	}
}

func TestFailedCompileWritesNothing(t *testing.T) {
	dir := t.TempDir()
	c := New(MapRetriever(testMods), WithCacheDir(dir))
	if _, err := c.Compile("broken"); err == nil {
		t.Fatal("expected compile error")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("failed compile left %d cache entries", len(entries))
	}
}

func TestDirRetriever(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("plain.yang", "module plain { }")
	write("rev@2023-01-01.yang", "old")
	write("rev@2024-06-06.yang", "new")

	r := DirRetriever(dir)
	if src, err := r("plain"); err != nil || string(src) != "module plain { }" {
		t.Errorf("plain: %q, %v", src, err)
	}
	if src, err := r("rev"); err != nil || string(src) != "new" {
		t.Errorf("latest revision: %q, %v", src, err)
	}
	if _, err := r("absent"); err == nil {
		t.Error("expected error for absent module")
	}
}

func TestChainRetrievers(t *testing.T) {
	first := MapRetriever(map[string]string{"a": "A"})
	second := MapRetriever(map[string]string{"b": "B"})
	r := ChainRetrievers(first, second)
	if src, err := r("b"); err != nil || string(src) != "B" {
		t.Errorf("chain fallthrough: %q, %v", src, err)
	}
	if _, err := r("c"); err == nil {
		t.Error("expected error when no retriever has the module")
	}
}
