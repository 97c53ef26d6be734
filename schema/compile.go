package schema

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/nokia/yangc/arena"
	"github.com/nokia/yangc/ident"
	"github.com/nokia/yangc/kind"
	"github.com/nokia/yangc/token"
)

// Input carries what the compiler needs from its caller: a retrieval
// function mapping module names to raw schema text, and a logger.
type Input struct {
	Retrieve func(name string) ([]byte, error)
	Log      zerolog.Logger
}

type subInfo struct {
	name, revision string
}

type moduleInfo struct {
	res  *buildResult
	subs []subInfo
}

// ModuleSet is a parsed, unresolved set of modules: the mutable statement
// forest plus per-module prefix bindings. Resolve turns it into the compact
// schema.
type ModuleSet struct {
	log         zerolog.Logger
	root        *Node
	mods        map[string]*moduleInfo
	prefixes    map[string]map[string]string // module -> prefix -> module
	annotations []Annotation
}

// Parse retrieves, tokenizes and builds every requested module plus
// everything transitively discovered through import/include/belongs-to.
// Discovery runs off a work queue, so call-stack depth is independent of
// import graph depth.
func Parse(in Input, names ...string) (*ModuleSet, error) {
	if in.Retrieve == nil {
		return nil, moduleErrf("no retrieval function")
	}
	queue := append([]string(nil), names...)
	built := map[string]*buildResult{}
	requested := map[string]bool{}
	for _, n := range names {
		requested[n] = true
	}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if _, ok := built[name]; ok {
			continue
		}
		src, err := in.Retrieve(name)
		if err != nil {
			return nil, moduleErrf("cannot retrieve module %q: %v", name, err)
		}
		toks, err := token.Tokenize(nil, src)
		if err != nil {
			return nil, moduleErrf("module %q: %v", name, err)
		}
		res, err := buildModule(toks)
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", name, err)
		}
		built[name] = res
		if res.name != name {
			built[res.name] = res
		}
		in.Log.Debug().Str("module", res.name).
			Int("requires", len(res.requires)).Msg("parsed module")
		for _, req := range res.requires {
			if _, ok := built[req]; !ok {
				queue = append(queue, req)
			}
		}
	}
	return assemble(in.Log, built)
}

// assemble merges submodules into their owning modules and hangs every
// module under one synthetic root.
func assemble(log zerolog.Logger, built map[string]*buildResult) (*ModuleSet, error) {
	ms := &ModuleSet{
		log:      log,
		root:     &Node{Name: ident.BuiltinName("root"), Kind: kind.Module},
		mods:     map[string]*moduleInfo{},
		prefixes: map[string]map[string]string{},
	}
	seen := map[*buildResult]bool{}
	var results []*buildResult
	for _, r := range built {
		if seen[r] {
			continue
		}
		seen[r] = true
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].name < results[j].name })

	for _, r := range results {
		if r.isSubmodule {
			continue
		}
		ms.mods[r.name] = &moduleInfo{res: r}
		pm := map[string]string{}
		if r.prefix != "" {
			pm[r.prefix] = r.name
		}
		for p, m := range r.imports {
			pm[p] = m
		}
		ms.prefixes[r.name] = pm
		ms.root.AddChild(r.node)
	}
	for _, r := range results {
		if !r.isSubmodule {
			continue
		}
		owner := ms.mods[r.belongsTo]
		if owner == nil {
			return nil, moduleErrf("submodule %q belongs to unknown module %q", r.name, r.belongsTo)
		}
		mergeSubmodule(owner, r, ms.prefixes[r.belongsTo])
	}
	return ms, nil
}

// mergeSubmodule moves a submodule's children under the owning module,
// rebinding names declared against the submodule to the owner.
func mergeSubmodule(owner *moduleInfo, sub *buildResult, prefixes map[string]string) {
	owner.subs = append(owner.subs, subInfo{name: sub.name, revision: sub.revision})
	kids := append([]*Node(nil), sub.node.Children...)
	for _, c := range kids {
		c.Detach()
		rebindModule(c, sub.name, owner.res.name)
		owner.res.node.AddChild(c)
	}
	for p, m := range sub.imports {
		if _, taken := prefixes[p]; !taken {
			prefixes[p] = m
		}
	}
}

func rebindModule(n *Node, from, to string) {
	if m, ok := n.Name.Space.ModuleName(); ok && m == from {
		n.Name = ident.ModuleName(to, n.Name.Name)
	}
	for _, c := range n.Children {
		rebindModule(c, from, to)
	}
}

// IdentityLines returns the sorted identity of the module set, one line per
// module ("name@revision") and submodule ("owner/sub@revision"). The cache
// digest is computed over these.
func (ms *ModuleSet) IdentityLines() []string {
	var lines []string
	for name, mi := range ms.mods {
		lines = append(lines, name+"@"+mi.res.revision)
		for _, s := range mi.subs {
			lines = append(lines, name+"/"+s.name+"@"+s.revision)
		}
	}
	sort.Strings(lines)
	return lines
}

// resolvePrefix maps a prefix, as seen from module mod, to a module name.
// The empty prefix means the module itself. Unknown prefixes fall back to
// any module that claims the prefix as its own, smallest module name first.
func (ms *ModuleSet) resolvePrefix(mod, prefix string) (string, bool) {
	if prefix == "" {
		return mod, true
	}
	if m, ok := ms.prefixes[mod][prefix]; ok {
		return m, true
	}
	var candidates []string
	for name := range ms.mods {
		if ms.mods[name].res.prefix == prefix {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	sort.Strings(candidates)
	return candidates[0], true
}

// refIdent resolves a raw, possibly prefixed reference argument appearing
// on node n into a bound identifier. Grouping copies resolve in their
// defining module's prefix context.
func (ms *ModuleSet) refIdent(n *Node, raw string) (ident.Ident, error) {
	prefix, name, ok := splitRef(raw)
	if !ok {
		return ident.Ident{}, moduleErrf("bad reference %q", raw)
	}
	mod, ok := ms.resolvePrefix(n.RefModule(), prefix)
	if !ok {
		return ident.Ident{}, moduleErrf("unknown prefix %q in %q", prefix, raw)
	}
	return ident.ModuleName(mod, name), nil
}

func splitRef(raw string) (prefix, name string, ok bool) {
	if raw == "" {
		return "", "", false
	}
	if p, n, found := cutByte(raw, ':'); found {
		if p == "" || n == "" {
			return "", "", false
		}
		return p, n, true
	}
	return "", raw, true
}

func cutByte(s string, b byte) (string, string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

// moduleNode returns the top-level node of a module by name.
func (ms *ModuleSet) moduleNode(name string) *Node {
	if mi, ok := ms.mods[name]; ok {
		return mi.res.node
	}
	return nil
}

// passes is the ordered resolution pipeline. The order is a contract: every
// pass assumes all prior passes completed on the entire tree.
var passes = []struct {
	name string
	run  func(*ModuleSet) error
}{
	{"expand-groupings", (*ModuleSet).expandGroupings},
	{"apply-augments", (*ModuleSet).applyAugments},
	{"apply-deviations", (*ModuleSet).applyDeviations},
	{"replay-instructions", (*ModuleSet).replayAll},
	{"resolve-typedefs", (*ModuleSet).resolveTypedefs},
	{"normalize-ranges", (*ModuleSet).normalizeRanges},
	{"close-identities", (*ModuleSet).closeIdentities},
	{"resolve-leafrefs", (*ModuleSet).resolveLeafrefs},
	{"inherit-config", (*ModuleSet).inheritConfig},
	{"assign-namespaces", (*ModuleSet).assignNamespaces},
	{"drop-blueprints", (*ModuleSet).dropBlueprints},
	{"extract-metadata", (*ModuleSet).extractMetadata},
}

// Resolve runs the whole pipeline and flattens the result. Any failing pass
// aborts the compile; no partially resolved tree is ever returned.
func (ms *ModuleSet) Resolve() (*arena.Schema, error) {
	for _, p := range passes {
		if err := p.run(ms); err != nil {
			return nil, fmt.Errorf("%s: %w", p.name, err)
		}
		ms.log.Debug().Str("pass", p.name).Msg("pass done")
	}
	return ms.flatten()
}

func (ms *ModuleSet) dropBlueprints() error {
	return ms.root.Walk(func(n *Node) error {
		n.Blueprint = nil
		return nil
	})
}
