package google

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// TokenRepo persists the single Google OAuth token this deployment uses to
// reach its calendar.
type TokenRepo interface {
	ReplaceNonce(ctx context.Context, nonce string) error
	StoreToken(ctx context.Context, nonce string, token *oauth2.Token) error
	Token(ctx context.Context) (*oauth2.Token, error)
	Delete(ctx context.Context) error
}

type TokenRepoImpl struct {
	db *sql.DB
}

func NewTokenRepo(db *sql.DB) *TokenRepoImpl {
	return &TokenRepoImpl{db: db}
}

// ReplaceNonce drops any previous authentication state and records the nonce
// for the OAuth round-trip about to start.
func (r *TokenRepoImpl) ReplaceNonce(ctx context.Context, nonce string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM google_calendar_auth"); err != nil {
		return fmt.Errorf("failed to delete old Google auth row: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, "INSERT INTO google_calendar_auth (nonce) VALUES ($1)", nonce); err != nil {
		return fmt.Errorf("failed to store Google auth nonce: %w", err)
	}
	return nil
}

func (r *TokenRepoImpl) StoreToken(ctx context.Context, nonce string, token *oauth2.Token) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE google_calendar_auth SET access_token = $1, refresh_token = $2, expiry = $3 WHERE nonce = $4",
		token.AccessToken, token.RefreshToken, token.Expiry.Unix(), nonce)
	if err != nil {
		return fmt.Errorf("failed to store Google auth token: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("no pending Google auth row for nonce")
	}
	return nil
}

// Token returns the stored token, or nil when authentication has not
// completed yet.
func (r *TokenRepoImpl) Token(ctx context.Context) (*oauth2.Token, error) {
	var token oauth2.Token
	var expiryTimestamp int64
	err := r.db.QueryRowContext(ctx,
		"SELECT access_token, refresh_token, expiry FROM google_calendar_auth WHERE access_token IS NOT NULL").
		Scan(&token.AccessToken, &token.RefreshToken, &expiryTimestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("unable to retrieve Google auth token: %w", err)
	}
	token.Expiry = time.Unix(expiryTimestamp, 0)
	return &token, nil
}

func (r *TokenRepoImpl) Delete(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM google_calendar_auth"); err != nil {
		return fmt.Errorf("failed to delete Google auth row: %w", err)
	}
	return nil
}
