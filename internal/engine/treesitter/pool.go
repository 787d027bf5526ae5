package treesitter

import (
	"sync"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"mjson5/internal/shared/observability"
)

// ParserPool recycles tree-sitter parsers for the compiled grammar. Safe for
// concurrent use.
//
//	sp := pool.Get()
//	defer pool.Put(sp)
//	tree := sp.Parse(source, nil)
type ParserPool struct {
	lang *sitter.Language
	pool sync.Pool

	leases   map[*sitter.Parser]time.Time
	leasesMu sync.Mutex
}

// NewParserPool creates a pool for lang, which must outlive the pool.
func NewParserPool(lang *sitter.Language) *ParserPool {
	p := &ParserPool{
		lang:   lang,
		leases: make(map[*sitter.Parser]time.Time),
	}
	p.pool = sync.Pool{
		New: func() any {
			sp := sitter.NewParser()
			_ = sp.SetLanguage(lang)
			return sp
		},
	}
	return p
}

func (p *ParserPool) Get() *sitter.Parser {
	sp := p.pool.Get().(*sitter.Parser)
	_ = sp.SetLanguage(p.lang)

	p.leasesMu.Lock()
	p.leases[sp] = time.Now()
	p.leasesMu.Unlock()
	observability.ParsersInUse.Inc()
	return sp
}

// Put resets sp and returns it to the pool. Nil is ignored.
func (p *ParserPool) Put(sp *sitter.Parser) {
	if sp == nil {
		return
	}
	p.leasesMu.Lock()
	_, leased := p.leases[sp]
	delete(p.leases, sp)
	p.leasesMu.Unlock()
	if leased {
		observability.ParsersInUse.Dec()
	}

	sp.Reset()
	p.pool.Put(sp)
}

// Stats returns the number of parsers currently leased.
func (p *ParserPool) Stats() int {
	p.leasesMu.Lock()
	defer p.leasesMu.Unlock()
	return len(p.leases)
}

// Oldest returns how long the longest outstanding lease has been held.
func (p *ParserPool) Oldest() time.Duration {
	p.leasesMu.Lock()
	defer p.leasesMu.Unlock()
	var oldest time.Duration
	for _, since := range p.leases {
		if d := time.Since(since); d > oldest {
			oldest = d
		}
	}
	return oldest
}
