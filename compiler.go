package yangc

import (
	"github.com/rs/zerolog"

	"github.com/nokia/yangc/arena"
	"github.com/nokia/yangc/cache"
	"github.com/nokia/yangc/schema"
)

// Error classes callers branch on. ErrModule covers anything wrong with the
// module set itself; ErrInternal covers compiler invariant violations.
var (
	ErrModule   = schema.ErrModule
	ErrInternal = schema.ErrInternal
)

// Compiler turns module names into resolved schemas.
type Compiler struct {
	retrieve Retriever
	log      zerolog.Logger
	cacheDir string
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger directs compiler diagnostics to log.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Compiler) { c.log = log }
}

// WithCacheDir enables the on-disk schema cache rooted at dir.
func WithCacheDir(dir string) Option {
	return func(c *Compiler) { c.cacheDir = dir }
}

// WithoutCache disables the on-disk schema cache, overriding any earlier
// WithCacheDir.
func WithoutCache() Option {
	return func(c *Compiler) { c.cacheDir = "" }
}

// New builds a compiler reading modules through r.
func New(r Retriever, opts ...Option) *Compiler {
	c := &Compiler{
		retrieve: r,
		log:      zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Compile parses the named modules plus their transitive dependencies and
// resolves them into a schema. With a cache configured, a prior compile of
// the identical module set is reused; a failed compile never writes to the
// cache.
func (c *Compiler) Compile(names ...string) (*arena.Schema, error) {
	ms, err := schema.Parse(schema.Input{Retrieve: c.retrieve, Log: c.log}, names...)
	if err != nil {
		return nil, err
	}
	var st *cache.Store
	var digest string
	if c.cacheDir != "" {
		st, err = cache.New(c.cacheDir, c.log)
		if err != nil {
			c.log.Warn().Err(err).Msg("schema cache unavailable")
			st = nil
		}
	}
	if st != nil {
		digest = cache.Digest(ms.IdentityLines())
		if s, ok := st.Load(digest); ok {
			c.log.Debug().Str("digest", digest).Msg("schema cache hit")
			return s, nil
		}
	}
	s, err := ms.Resolve()
	if err != nil {
		return nil, err
	}
	if st != nil {
		if err := st.Save(digest, s); err != nil {
			c.log.Warn().Err(err).Msg("cannot write schema cache")
		}
	}
	return s, nil
}
