package recordstore

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldline/lead-relay/internal/entity"
)

const tableTokens = "OAuth Tokens"

type TokenRepository struct {
	Client *Client
}

func NewTokenRepository(client *Client) *TokenRepository {
	return &TokenRepository{Client: client}
}

func (r *TokenRepository) Get(ctx context.Context, service string) (*entity.OAuthToken, error) {
	filter := fmt.Sprintf("{Service} = '%s'", escapeFormula(service))

	records, err := r.Client.List(ctx, tableTokens, ListOptions{Filter: filter, MaxRecords: 1})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	record := &records[0]
	return &entity.OAuthToken{
		ID:           record.ID,
		Service:      record.stringField("Service"),
		AccessToken:  record.stringField("Access Token"),
		RefreshToken: record.stringField("Refresh Token"),
		RealmID:      record.stringField("Realm ID"),
		ExpiresAt:    record.timeField("Expires At"),
	}, nil
}

func (r *TokenRepository) Save(ctx context.Context, token *entity.OAuthToken) error {
	fields := map[string]any{
		"Service":       token.Service,
		"Access Token":  token.AccessToken,
		"Refresh Token": token.RefreshToken,
		"Realm ID":      token.RealmID,
		"Expires At":    token.ExpiresAt.Format(time.RFC3339),
	}

	if token.ID == "" {
		existing, err := r.Get(ctx, token.Service)
		if err != nil {
			return err
		}
		if existing != nil {
			token.ID = existing.ID
		}
	}

	if token.ID == "" {
		record, err := r.Client.Create(ctx, tableTokens, fields)
		if err != nil {
			return err
		}
		token.ID = record.ID
		return nil
	}

	_, err := r.Client.Update(ctx, tableTokens, token.ID, fields)
	return err
}

var _ entity.TokenRepositoryInterface = (*TokenRepository)(nil)
