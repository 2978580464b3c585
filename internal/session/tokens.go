package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/ammi749/gamekeys/internal/domain"
	"github.com/ammi749/gamekeys/internal/storage"
)

// Tokens owns the persisted token pair. The pair is always replaced as a
// unit: both tokens present or both empty. It implements the pipeline's
// CredentialSource, so refresh results are written back here.
type Tokens struct {
	mu    sync.Mutex
	pair  domain.TokenPair
	store storage.Store
}

func NewTokens(store storage.Store) *Tokens {
	return &Tokens{store: store}
}

// Load restores a previously persisted pair. Absence is not an error.
func (t *Tokens) Load(ctx context.Context) error {
	pair, err := t.store.LoadTokens(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.pair = pair
	t.mu.Unlock()
	return nil
}

func (t *Tokens) TokenPair() (domain.TokenPair, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pair.IsZero() {
		return domain.TokenPair{}, false
	}
	return t.pair, true
}

// SetPair persists both tokens and then installs them. A pair that cannot
// be written never becomes visible, so a failed login leaves the caller
// anonymous instead of half signed in.
func (t *Tokens) SetPair(ctx context.Context, pair domain.TokenPair) error {
	if err := t.store.SaveTokens(ctx, pair); err != nil {
		return err
	}

	t.mu.Lock()
	t.pair = pair
	t.mu.Unlock()
	return nil
}

// ReplaceAccess swaps in a refreshed access token. The old pair stays in
// place until the new access token is in hand, so a failed refresh never
// leaves a half-replaced pair.
func (t *Tokens) ReplaceAccess(access string) {
	t.mu.Lock()
	t.pair.Access = access
	pair := t.pair
	t.mu.Unlock()

	t.persist(func(ctx context.Context) error {
		return t.store.SaveTokens(ctx, pair)
	}, "persist refreshed token")
}

// Invalidate clears both tokens. Idempotent.
func (t *Tokens) Invalidate() {
	t.mu.Lock()
	t.pair = domain.TokenPair{}
	t.mu.Unlock()

	t.persist(func(ctx context.Context) error {
		return t.store.ClearTokens(ctx)
	}, "clear persisted tokens")
}

// persist runs a storage write under a short deadline. The pipeline calls
// ReplaceAccess/Invalidate mid-request; a slow backend must not stall it
// for long, and a failed write only costs the persisted copy.
func (t *Tokens) persist(fn func(context.Context) error, what string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Printf("%s error: %v \n", what, err)
	}
}
