package postnl

import (
	"context"
	"time"
)

// APIClient defines the interface for PostNL consumer API operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// Login performs the full login handshake and returns a fresh token.
	Login(ctx context.Context, username, password string) (*Token, error)

	// Refresh exchanges the id token for a fresh access token. When the
	// provider rejects the grant the caller must perform a full Login.
	Refresh(ctx context.Context, token *Token) (*Token, error)

	// GetInbox fetches the authenticated user's package inbox.
	GetInbox(ctx context.Context, token AccessToken) (*InboxResponse, error)

	// GetPackage fetches the detail record for a single package key.
	GetPackage(ctx context.Context, token AccessToken, key string) (*Package, error)
}

// AccessToken is the bearer token attached to authenticated requests.
type AccessToken string

// RefreshToken is the id token used to renew an expired access token.
type RefreshToken string

// Token is the session credential produced by a successful login.
// It serializes to JSON so embedding applications can cache it.
type Token struct {
	Access  AccessToken  `json:"access"`
	ID      RefreshToken `json:"idToken"`
	Expires time.Time    `json:"expires"`
}

// NeedsRefresh returns true once the access token has expired.
func (t *Token) NeedsRefresh() bool {
	return t.Expires.Before(time.Now())
}

// InboxResponse is the envelope returned by the inbox endpoint. Packages the
// user receives, packages they sent, and webshop orders are listed separately.
type InboxResponse struct {
	Receiver []Package `json:"receiver"`
	Sender   []Package `json:"sender"`
	Orders   []Package `json:"orders"`
}

// rawToken is the token endpoint response. On failure the provider returns
// an error field instead of the token fields.
type rawToken struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	ExpiresIn   int64  `json:"expires_in"`
	Error       string `json:"error"`
}

// tokenExpirySkew is subtracted from expires_in so a token is refreshed
// slightly before the provider invalidates it.
const tokenExpirySkew = 15 * time.Second

func (r *rawToken) toToken() *Token {
	return &Token{
		Access:  AccessToken(r.AccessToken),
		ID:      RefreshToken(r.IDToken),
		Expires: time.Now().Add(time.Duration(r.ExpiresIn)*time.Second - tokenExpirySkew),
	}
}
