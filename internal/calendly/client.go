// Package calendly integrates company accounts with Calendly scheduling:
// OAuth connect flow, REST API lookups and webhook subscriptions.
package calendly

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

// Endpoint is the OAuth2 endpoint for Calendly.
var Endpoint = oauth2.Endpoint{
	AuthURL:  "https://auth.calendly.com/oauth/authorize",
	TokenURL: "https://auth.calendly.com/oauth/token",
}

const apiBaseURL = "https://api.calendly.com"

// Provider handles the Calendly OAuth2 connect flow and API access.
type Provider struct {
	config  *oauth2.Config
	baseURL string
}

// NewProvider creates a new Calendly OAuth provider.
func NewProvider(clientID, clientSecret, redirectURL string) *Provider {
	return &Provider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     Endpoint,
		},
		baseURL: apiBaseURL,
	}
}

// SetBaseURL overrides the API base URL, for tests.
func (p *Provider) SetBaseURL(url string) {
	p.baseURL = url
}

// GetAuthURL returns the URL to redirect the company to for authorisation.
func (p *Provider) GetAuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Exchange exchanges the authorization code for tokens.
func (p *Provider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("calendly token exchange failed: %w", err)
	}
	return token, nil
}

// RefreshToken refreshes an expired access token.
func (p *Provider) RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	source := p.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("calendly token refresh failed: %w", err)
	}
	return token, nil
}

// UserInfo is the owner of a connected Calendly account.
type UserInfo struct {
	URI           string `json:"uri"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	SchedulingURL string `json:"scheduling_url"`
	Organization  string `json:"current_organization"`
}

// GetCurrentUser fetches the connected account's user record.
func (p *Provider) GetCurrentUser(ctx context.Context, accessToken string) (*UserInfo, error) {
	var resp struct {
		Resource UserInfo `json:"resource"`
	}
	if err := p.get(ctx, accessToken, "/users/me", &resp); err != nil {
		return nil, err
	}
	return &resp.Resource, nil
}

// EventType is a bookable Calendly event type.
type EventType struct {
	URI           string `json:"uri"`
	Name          string `json:"name"`
	Active        bool   `json:"active"`
	SchedulingURL string `json:"scheduling_url"`
	Duration      int    `json:"duration"`
}

// ListEventTypes lists the user's active event types.
func (p *Provider) ListEventTypes(ctx context.Context, accessToken, userURI string) ([]EventType, error) {
	var resp struct {
		Collection []EventType `json:"collection"`
	}
	path := fmt.Sprintf("/event_types?user=%s&active=true", userURI)
	if err := p.get(ctx, accessToken, path, &resp); err != nil {
		return nil, err
	}
	return resp.Collection, nil
}

// CreateWebhookSubscription registers a webhook for invitee events on the
// connected organisation.
func (p *Provider) CreateWebhookSubscription(ctx context.Context, accessToken, callbackURL, organizationURI, userURI, signingKey string) error {
	payload := map[string]interface{}{
		"url":          callbackURL,
		"events":       []string{"invitee.created", "invitee.canceled"},
		"organization": organizationURI,
		"user":         userURI,
		"scope":        "user",
		"signing_key":  signingKey,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook subscription: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/webhook_subscriptions", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("calendly webhook subscription failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusConflict {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("calendly webhook subscription failed: %s - %s", resp.Status, string(respBody))
	}
	return nil
}

func (p *Provider) get(ctx context.Context, accessToken, path string, out interface{}) error {
	return p.getURL(ctx, accessToken, p.baseURL+path, out)
}

func (p *Provider) getURL(ctx context.Context, accessToken, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("calendly request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("calendly API error: %s - %s", resp.Status, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode calendly response: %w", err)
	}
	return nil
}
