package google

import (
	"context"

	"golang.org/x/oauth2"
)

// googleTokenURL is the Google OAuth2 token endpoint used to exchange
// the long-lived refresh token for short-lived access tokens.
const googleTokenURL = "https://oauth2.googleapis.com/token"

// NewRefreshTokenSource builds an oauth2.TokenSource from installed-app
// credentials and a refresh token. The source caches access tokens and
// refreshes them transparently, so API clients built on it survive
// long-running syncs without re-authentication.
func NewRefreshTokenSource(ctx context.Context, clientID, clientSecret, refreshToken string) oauth2.TokenSource {
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: googleTokenURL},
	}
	return oauth2.ReuseTokenSource(nil, conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}))
}
