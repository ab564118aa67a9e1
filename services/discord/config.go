package discord

import (
	"net/url"

	"github.com/pkg/errors"
)

// Config object for the Discord webhook integration.
type Config struct {
	// Whether the integration is enabled.
	Enabled bool `toml:"enabled"`
	// Discord channel webhook URL. Treated as an opaque secret.
	URL string `toml:"url"`
	// Username shown for webhook posts. Empty keeps the webhook default.
	Username string `toml:"username"`
	// Avatar URL shown for webhook posts.
	AvatarURL string `toml:"avatar-url"`

	// Path to CA file
	SSLCA string `toml:"ssl-ca"`
	// Path to host cert file
	SSLCert string `toml:"ssl-cert"`
	// Path to cert key file
	SSLKey string `toml:"ssl-key"`
	// Use SSL but skip chain & host verification
	InsecureSkipVerify bool `toml:"insecure-skip-verify"`
}

func NewConfig() Config {
	return Config{}
}

func (c Config) Validate() error {
	if c.Enabled && c.URL == "" {
		return errors.New("must specify the Discord channel webhook URL")
	}
	if _, err := url.Parse(c.URL); err != nil {
		return errors.Wrapf(err, "invalid url %q", c.URL)
	}
	if c.AvatarURL != "" {
		if _, err := url.Parse(c.AvatarURL); err != nil {
			return errors.Wrapf(err, "invalid url %q", c.AvatarURL)
		}
	}
	return nil
}
