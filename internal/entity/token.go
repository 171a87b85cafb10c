package entity

import (
	"context"
	"time"
)

// OAuthToken is the single mutable credential record for an external
// service, persisted in the record store and rewritten on refresh.
type OAuthToken struct {
	ID           string    `json:"id"`
	Service      string    `json:"service"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	RealmID      string    `json:"realm_id,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (t *OAuthToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

type TokenRepositoryInterface interface {
	// Get returns (nil, nil) when no token is stored for the service.
	Get(ctx context.Context, service string) (*OAuthToken, error)
	Save(ctx context.Context, token *OAuthToken) error
}
