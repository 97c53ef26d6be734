// Package cache stores compiled schemas on disk, keyed by a content digest
// of the module set they were compiled from. Any read problem is a miss,
// never an error: the caller just recompiles.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nokia/yangc/arena"
)

// digestVersion salts the digest so entries written by an incompatible
// layout never collide with current ones.
const digestVersion = "yangc1"

// Digest computes the cache key of a module set from its sorted identity
// lines.
func Digest(lines []string) string {
	h := sha256.New()
	h.Write([]byte(digestVersion + "\n"))
	for _, l := range lines {
		h.Write([]byte(l))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Store is a directory of encoded schemas, one file per digest.
type Store struct {
	dir string
	log zerolog.Logger
}

// New opens a store rooted at dir, creating it if needed.
func New(dir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir, log: log}, nil
}

func (st *Store) path(digest string) string {
	return filepath.Join(st.dir, digest+".ycs")
}

// Load fetches the schema for a digest. A missing, truncated or otherwise
// unreadable entry reports ok=false.
func (st *Store) Load(digest string) (*arena.Schema, bool) {
	f, err := os.Open(st.path(digest))
	if err != nil {
		return nil, false
	}
	defer f.Close()
	s, err := arena.Decode(f)
	if err != nil {
		st.log.Debug().Str("digest", digest).Err(err).Msg("discarding cache entry")
		return nil, false
	}
	return s, true
}

// Save writes the schema under its digest. The write goes to a temp file
// first and lands with a rename, so concurrent readers never see a partial
// entry.
func (st *Store) Save(digest string, s *arena.Schema) error {
	tmp, err := os.CreateTemp(st.dir, "."+digest+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := s.Encode(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), st.path(digest))
}

// Remove drops one entry; removing an absent entry is not an error.
func (st *Store) Remove(digest string) error {
	err := os.Remove(st.path(digest))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Clear removes every entry in the store.
func (st *Store) Clear() error {
	entries, err := os.ReadDir(st.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".ycs") {
			continue
		}
		if err := os.Remove(filepath.Join(st.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
