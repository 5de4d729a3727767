// Package gcal reads tasks from a Google Calendar.
package gcal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"

	"github.com/runoshun/timegrid/internal/domain"
)

// Authenticator runs the OAuth code flow for the calendar source.
type Authenticator struct {
	config    *oauth2.Config
	tokenPath string
}

// NewAuthenticator reads the client secrets at credentialsPath.
// The obtained token is written to tokenPath.
func NewAuthenticator(credentialsPath, tokenPath string) (*Authenticator, error) {
	cfg, err := loadOAuthConfig(credentialsPath)
	if err != nil {
		return nil, err
	}
	return &Authenticator{config: cfg, tokenPath: tokenPath}, nil
}

// AuthURL returns the consent page URL. Offline access is requested so the
// token carries a refresh token.
func (a *Authenticator) AuthURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

// Exchange trades an authorization code for a token and saves it.
func (a *Authenticator) Exchange(ctx context.Context, code string) error {
	tok, err := a.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}
	return SaveToken(a.tokenPath, tok)
}

// TokenPath returns where the token is stored.
func (a *Authenticator) TokenPath() string {
	return a.tokenPath
}

func loadOAuthConfig(path string) (*oauth2.Config, error) {
	if path == "" {
		return nil, domain.ErrNoCredentials
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found", domain.ErrNoCredentials, path)
		}
		return nil, fmt.Errorf("read client secrets %s: %w", path, err)
	}

	cfg, err := google.ConfigFromJSON(b, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse client secrets %s: %w", path, err)
	}
	if cfg.RedirectURL == "" || cfg.RedirectURL == "urn:ietf:wg:oauth:2.0:oob" {
		cfg.RedirectURL = "http://localhost"
	}
	return cfg, nil
}

// LoadToken reads a token saved by SaveToken.
func LoadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no token at %s (run 'timegrid auth gcal')", domain.ErrNoCredentials, path)
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("decode token %s: %w", path, err)
	}
	return tok, nil
}

// SaveToken writes tok to path, readable by the owner only.
func SaveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}

	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write token %s: %w", path, err)
	}
	return nil
}
