package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// GoogleUser is the identity extracted from a verified Google ID token.
//
// Sub is Google's stable subject ID for the account — it never changes,
// unlike the email, which a user can swap on their Google account.
type GoogleUser struct {
	Sub     string // Google's unique subject ID
	Email   string
	Name    string
	Picture string
}

// IDTokenVerifier verifies a Google-issued ID token and returns the
// identity it asserts. It is an interface so services can be tested with a
// fake instead of a live round-trip to Google's certificate endpoint.
type IDTokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*GoogleUser, error)
}

// GoogleVerifier validates Google ID tokens against our OAuth client ID.
//
// The frontend obtains the ID token itself (Google's sign-in button) and
// posts it to /api/auth/google. Verification checks the token's
// signature against Google's published keys and that the audience matches
// our client ID — a token minted for some other app is rejected.
type GoogleVerifier struct {
	clientID string
}

// NewGoogleVerifier creates a verifier bound to the given OAuth client ID.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

var _ IDTokenVerifier = (*GoogleVerifier)(nil)

// Verify validates rawIDToken and extracts the Google identity.
func (v *GoogleVerifier) Verify(ctx context.Context, rawIDToken string) (*GoogleUser, error) {
	payload, err := idtoken.Validate(ctx, rawIDToken, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("auth: validating Google ID token: %w", err)
	}

	user := &GoogleUser{Sub: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		user.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		user.Name = name
	}
	if picture, ok := payload.Claims["picture"].(string); ok {
		user.Picture = picture
	}

	if user.Email == "" {
		return nil, fmt.Errorf("auth: Google ID token carries no email claim")
	}

	return user, nil
}

// GoogleProvider wraps golang.org/x/oauth2 for the server-side Google
// Authorization Code flow — the alternative entry point for clients that
// don't embed Google's sign-in widget.
//
// FLOW:
//  1. GET /auth/google/login redirects the browser to Google with our
//     client ID, scopes, and a random state value
//  2. The user approves; Google redirects back to the callback URL with a
//     short-lived code
//  3. The server exchanges the code for tokens (server-to-server, using the
//     client secret) and pulls the ID token out of the response
//  4. The ID token then goes through the same GoogleVerifier as the
//     widget-based login
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider creates a GoogleProvider with the given credentials.
// callbackURL must exactly match an authorized redirect URI configured in
// the Google Cloud console.
func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL returns the URL to redirect the user to for authorization.
// The state is a random value stored in a cookie before redirecting; the
// callback handler verifies it to block CSRF-initiated flows.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for Google's token response and
// returns the raw ID token embedded in it. The caller passes that through
// an IDTokenVerifier to get the asserted identity.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (string, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", fmt.Errorf("auth: Google token response has no id_token")
	}

	return rawIDToken, nil
}
