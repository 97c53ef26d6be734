// Package yangc compiles sets of YANG modules into a compact resolved
// schema, with an on-disk cache keyed by the content of the module set.
package yangc

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Retriever maps a module name to its raw schema text.
type Retriever func(name string) ([]byte, error)

// MapRetriever serves modules from an in-memory map, mainly for tests and
// embedded module sets.
func MapRetriever(mods map[string]string) Retriever {
	return func(name string) ([]byte, error) {
		src, ok := mods[name]
		if !ok {
			return nil, fmt.Errorf("module %q not found", name)
		}
		return []byte(src), nil
	}
}

// DirRetriever serves modules from a directory laid out in the usual
// name.yang / name@revision.yang convention. When only revision-qualified
// files exist, the lexically largest revision wins.
func DirRetriever(dir string) Retriever {
	return func(name string) ([]byte, error) {
		plain := filepath.Join(dir, name+".yang")
		if src, err := os.ReadFile(plain); err == nil {
			return src, nil
		}
		matches, err := filepath.Glob(filepath.Join(dir, name+"@*.yang"))
		if err != nil || len(matches) == 0 {
			return nil, fmt.Errorf("module %q not found in %s", name, dir)
		}
		sort.Strings(matches)
		best := matches[len(matches)-1]
		// a glob also matches longer names containing '@'; re-check the stem
		stem := strings.TrimSuffix(filepath.Base(best), ".yang")
		if got, _, _ := strings.Cut(stem, "@"); got != name {
			return nil, fmt.Errorf("module %q not found in %s", name, dir)
		}
		return os.ReadFile(best)
	}
}

// ChainRetrievers tries each retriever in order, returning the first hit.
func ChainRetrievers(rs ...Retriever) Retriever {
	return func(name string) ([]byte, error) {
		var lastErr error
		for _, r := range rs {
			src, err := r(name)
			if err == nil {
				return src, nil
			}
			lastErr = err
		}
		if lastErr == nil {
			lastErr = fmt.Errorf("module %q not found", name)
		}
		return nil, lastErr
	}
}
