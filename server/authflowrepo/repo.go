package authflowrepo

import (
	"context"
	"time"
)

// AuthFlowState is what the gateway remembers between sending a user to an
// OAuth provider and receiving the callback. It is keyed by the state parameter.
type AuthFlowState struct {
	Provider     string    `json:"provider"`
	CodeVerifier string    `json:"codeVerifier"`
	RedirectURI  string    `json:"redirectUri"`
	ReturnURL    string    `json:"returnUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Repo interface {
	Upsert(ctx context.Context, state string, authState *AuthFlowState) error
	Get(ctx context.Context, state string) (*AuthFlowState, error)
	Delete(ctx context.Context, state string) error
	// Take returns the state and removes it in one step, so a state can be
	// redeemed at most once.
	Take(ctx context.Context, state string) (*AuthFlowState, error)
}

var NowTimeFunc = time.Now
