package server

import (
	"github.com/nugudi/nugudi-gateway/internal/config"
	"golang.org/x/oauth2"
)

// Provider is an OAuth identity provider the gateway can send users to. The
// gateway only builds the authorization URL; the upstream API redeems the code.
type Provider struct {
	Name    string
	OAuth2  *oauth2.Config
	UsePKCE bool
}

var providerEndpoints = map[string]struct {
	endpoint oauth2.Endpoint
	pkce     bool
}{
	"google": {
		endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
		pkce: true,
	},
	"kakao": {
		endpoint: oauth2.Endpoint{
			AuthURL:  "https://kauth.kakao.com/oauth/authorize",
			TokenURL: "https://kauth.kakao.com/oauth/token",
		},
		pkce: true,
	},
	"naver": {
		endpoint: oauth2.Endpoint{
			AuthURL:  "https://nid.naver.com/oauth2.0/authorize",
			TokenURL: "https://nid.naver.com/oauth2.0/token",
		},
	},
}

// NewProviders returns the providers that have a client id configured.
func NewProviders(cfg config.Config) map[string]Provider {
	providers := make(map[string]Provider)
	for name, p := range providerEndpoints {
		clientID := cfg.GetProviderClientID(name)
		if clientID == "" {
			continue
		}
		providers[name] = Provider{
			Name: name,
			OAuth2: &oauth2.Config{
				ClientID:    clientID,
				Endpoint:    p.endpoint,
				RedirectURL: cfg.GetBaseURL() + "/api/auth/" + name + "/callback",
				Scopes:      cfg.GetProviderScopes(name),
			},
			UsePKCE: p.pkce,
		}
	}
	return providers
}
