package track

import (
	"context"
	"sync"

	"github.com/leadforge/leadforge/internal/lead"
)

type tokenKey struct {
	entityID string
	kind     lead.Kind
}

// token pairs a derived context with its cancel func. Tokens are compared by
// identity so a stale request releasing its token cannot drop a newer one
// registered for the same (entity, kind).
type token struct {
	cancel context.CancelFunc
}

// TokenSet associates in-flight local requests with the ability to abort
// them. One token per (entity, kind) for single-entity actions; bulk
// operations hold their own shared token outside the set.
type TokenSet struct {
	mu     sync.Mutex
	tokens map[tokenKey]*token
}

// NewTokenSet creates an empty token set.
func NewTokenSet() *TokenSet {
	return &TokenSet{tokens: make(map[tokenKey]*token)}
}

// Begin derives a cancellable context for a request and registers its token,
// replacing any previous token for the same (entity, kind). The returned
// release func discards the token without cancelling; call it on every exit
// path. Release only removes the token it created.
func (ts *TokenSet) Begin(ctx context.Context, entityID string, kind lead.Kind) (context.Context, func()) {
	reqCtx, cancel := context.WithCancel(ctx)
	tok := &token{cancel: cancel}
	key := tokenKey{entityID: entityID, kind: kind}

	ts.mu.Lock()
	if old, ok := ts.tokens[key]; ok {
		old.cancel()
	}
	ts.tokens[key] = tok
	ts.mu.Unlock()

	release := func() {
		ts.mu.Lock()
		if ts.tokens[key] == tok {
			delete(ts.tokens, key)
		}
		ts.mu.Unlock()
		cancel()
	}
	return reqCtx, release
}

// Abort cancels the in-flight request for (entity, kind), if any. Returns
// whether a token was present. Aborting twice is a no-op.
func (ts *TokenSet) Abort(entityID string, kind lead.Kind) bool {
	key := tokenKey{entityID: entityID, kind: kind}

	ts.mu.Lock()
	tok, ok := ts.tokens[key]
	if ok {
		delete(ts.tokens, key)
	}
	ts.mu.Unlock()

	if ok {
		tok.cancel()
	}
	return ok
}

// Active reports whether a local request is in flight for (entity, kind).
func (ts *TokenSet) Active(entityID string, kind lead.Kind) bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	_, ok := ts.tokens[tokenKey{entityID: entityID, kind: kind}]
	return ok
}
