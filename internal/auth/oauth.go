package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// Claims is the portion of the OIDC userinfo response we care about.
// Providers return a larger object — we only unmarshal the standard profile
// claims the user table mirrors.
type Claims struct {
	Subject    string `json:"sub"`         // stable opaque user id, never changes
	Email      string `json:"email"`       // may be empty if the user hid it
	GivenName  string `json:"given_name"`  // first name
	FamilyName string `json:"family_name"` // last name
	Picture    string `json:"picture"`     // avatar URL
}

// ProviderConfig holds the endpoints and credentials of the external OIDC
// provider. All values come from the environment; nothing is hardcoded so
// the same binary works against any spec-compliant provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	AuthURL      string // authorization endpoint
	TokenURL     string // token endpoint
	UserInfoURL  string // userinfo endpoint
	CallbackURL  string // our /auth/callback URL, registered with the provider
}

// Provider wraps golang.org/x/oauth2 for the OIDC Authorization Code flow.
//
// FLOW:
//  1. We redirect the user to the provider's authorization endpoint.
//  2. The user signs in and approves; the provider redirects back to
//     CallbackURL with a short-lived code.
//  3. We exchange the code for an access token (server-to-server, using the
//     client secret — the token never touches the browser).
//  4. We call the userinfo endpoint with the token to get the claims.
type Provider struct {
	config      *oauth2.Config
	userInfoURL string
}

// NewProvider creates a Provider from the given configuration.
//
// Scopes: "openid profile email" — the standard OIDC trio covering the
// subject id, name/picture, and email claims.
func NewProvider(cfg ProviderConfig) *Provider {
	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
		userInfoURL: cfg.UserInfoURL,
	}
}

// AuthURL returns the URL to redirect the user to for authorization.
//
// The state is a random string we store in a cookie before redirecting; the
// callback verifies the returned state matches, which blocks CSRF attempts
// to complete a login flow the user never started.
func (p *Provider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange completes the flow: trades the authorization code for the user's
// identity claims.
func (p *Provider) Exchange(ctx context.Context, code string) (*Claims, error) {
	oauthToken, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	// oauth2.Config.Client returns an *http.Client that adds the
	// "Authorization: Bearer <token>" header to every request.
	client := p.config.Client(ctx, oauthToken)

	resp, err := client.Get(p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("auth: calling userinfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: userinfo endpoint returned status %d", resp.StatusCode)
	}

	var claims Claims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("auth: decoding userinfo response: %w", err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("auth: provider returned no subject claim")
	}

	return &claims, nil
}
