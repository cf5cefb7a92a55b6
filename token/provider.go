package token

import (
	"context"

	"github.com/nugudi/nugudi-gateway/sessions"
)

// Provider supplies the access token attached to outgoing requests.
type Provider interface {
	AccessToken(ctx context.Context) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (string, error)

func (f ProviderFunc) AccessToken(ctx context.Context) (string, error) {
	return f(ctx)
}

// StoreProvider reads the access token from a session store. Which execution
// context it serves is decided by the store it is given.
type StoreProvider struct {
	store sessions.Store
}

func NewStoreProvider(store sessions.Store) *StoreProvider {
	return &StoreProvider{store: store}
}

func (p *StoreProvider) AccessToken(ctx context.Context) (string, error) {
	return p.store.Get(ctx, sessions.FieldAccessToken)
}
