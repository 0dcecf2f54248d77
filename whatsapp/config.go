package whatsapp

import (
	"time"

	"github.com/t-ega/whatsapp-cloud-sdk/validatex"
)

const (
	graphAPIURL       = "https://graph.facebook.com"
	defaultAPIVersion = "v17.0"
	defaultTimeout    = 10 * time.Second
)

// Config holds the process-wide Cloud API credentials. It is constructed
// once at startup and shared read-only by every component that talks to the
// platform.
type Config struct {
	// AccessToken is the Cloud API bearer token
	AccessToken string `validatex:"required"`

	// PhoneNumberID identifies the sending phone number
	PhoneNumberID string `validatex:"required,numeric"`

	// APIVersion selects the Graph API version, e.g. "v17.0".
	// Defaults to v17.0 when empty.
	APIVersion string

	// BaseURL overrides the Graph API host. Defaults to
	// https://graph.facebook.com. Useful for tests.
	BaseURL string

	// HTTPTimeout bounds each outbound request. Defaults to 10s.
	HTTPTimeout time.Duration
}

// withDefaults returns a copy of the config with empty fields filled in
func (c Config) withDefaults() Config {
	if c.APIVersion == "" {
		c.APIVersion = defaultAPIVersion
	}
	if c.BaseURL == "" {
		c.BaseURL = graphAPIURL
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = defaultTimeout
	}
	return c
}

func (c Config) validate() error {
	if err := validatex.Validate(c); err != nil {
		return Errors.New(ErrConfigInvalid).WithCause(err).
			WithDetail("reason", err.Error())
	}
	return nil
}
