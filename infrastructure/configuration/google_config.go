package configuration

import (
	"fmt"

	"creator-ops/domain/model"
)

// GoogleConfig is the OAuth client registration shared by the YouTube and Gmail integrations.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURLs map[model.Provider]string
}

// GetGoogleConfig returns the Google OAuth client with the callback URL registered per provider.
func GetGoogleConfig() *GoogleConfig {
	return &GoogleConfig{
		ClientID:     C.Google.ClientID,
		ClientSecret: C.Google.ClientSecret,
		RedirectURLs: map[model.Provider]string{
			model.ProviderYouTube: CallbackURL(C.App.PublicBaseURL, model.ProviderYouTube),
			model.ProviderGmail:   CallbackURL(C.App.PublicBaseURL, model.ProviderGmail),
		},
	}
}

// CallbackURL is the exact redirect URI registered with the provider.
func CallbackURL(baseURL string, provider model.Provider) string {
	return fmt.Sprintf("%s/auth/%s/callback", baseURL, provider)
}
