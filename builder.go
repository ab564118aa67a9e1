package alerthook

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/alerthook/alerthook/keyvalue"
	"github.com/alerthook/alerthook/services/discord"
)

// Discord is the platform identifier for Discord channel webhooks.
const Discord = "discord"

var supportedPlatforms = map[string]bool{
	Discord: true,
}

// Builder accumulates and validates sender configuration. Setters are
// chainable; the first invalid call is recorded and surfaced by Err and
// Build, leaving previously accumulated state untouched.
type Builder struct {
	platform string
	endpoint string
	options  map[string]interface{}
	diag     Diagnostic
	err      error
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Platform selects the target messaging platform. The identifier is
// matched case-insensitively against the supported platform set and
// stored in lower case.
func (b *Builder) Platform(identifier string) *Builder {
	p := strings.ToLower(identifier)
	if !supportedPlatforms[p] {
		b.recordErr(&ConfigurationError{Reason: fmt.Sprintf("invalid platform %q", identifier)})
		return b
	}
	b.platform = p
	return b
}

// Endpoint sets the webhook URL the sender posts to. The value is an
// opaque secret; no URL validation is performed beyond non-emptiness.
func (b *Builder) Endpoint(url string) *Builder {
	if url == "" {
		b.recordErr(&ConfigurationError{Reason: "endpoint must be a non-empty string"})
		return b
	}
	b.endpoint = url
	return b
}

// Options sets platform-specific webhook parameters, decoded at Build
// time into the platform's handler config. Unknown keys are an error.
func (b *Builder) Options(options map[string]interface{}) *Builder {
	b.options = options
	return b
}

// Diagnostic overrides the side channel used for dispatch failures.
// When unset, Build wires a default that logs to stderr.
func (b *Builder) Diagnostic(d Diagnostic) *Builder {
	b.diag = d
	return b
}

// Err returns the first configuration error recorded by a setter.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) recordErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build validates the accumulated configuration and returns a new
// Sender. Build may be called multiple times; each call yields an
// independent Sender sharing the same configuration values.
func (b *Builder) Build() (*Sender, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.platform == "" {
		return nil, &ConfigurationError{Reason: "platform not set"}
	}
	if b.endpoint == "" {
		return nil, &ConfigurationError{Reason: "endpoint not set"}
	}

	diag := b.diag
	if diag == nil {
		diag = newDefaultDiagnostic()
	}

	switch b.platform {
	case Discord:
		hc := discord.HandlerConfig{}
		if len(b.options) > 0 {
			if err := decodeOptions(b.options, &hc); err != nil {
				return nil, &ConfigurationError{Reason: "invalid platform options", Err: err}
			}
		}

		c := discord.NewConfig()
		c.Enabled = true
		c.URL = b.endpoint
		svc, err := discord.NewService(c, &discordDiagnostic{d: diag})
		if err != nil {
			return nil, &ConfigurationError{Reason: "failed to configure discord service", Err: err}
		}
		h := svc.Handler(hc, keyvalue.KV("service", "discord"))
		return &Sender{
			platform: Discord,
			handler:  h,
			diag:     diag.WithContext(keyvalue.KV("platform", Discord)),
		}, nil
	}

	// Platform rejects unknown identifiers, so this is unreachable.
	return nil, &ConfigurationError{Reason: fmt.Sprintf("unsupported platform %q", b.platform)}
}

func decodeOptions(options map[string]interface{}, c interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      c,
	})
	if err != nil {
		return errors.Wrap(err, "failed to initialize mapstructure decoder")
	}
	if err := dec.Decode(options); err != nil {
		return errors.Wrapf(err, "failed to decode options into %T", c)
	}
	return nil
}

// discordDiagnostic adapts the sender Diagnostic to the interface the
// discord service declares for itself.
type discordDiagnostic struct {
	d Diagnostic
}

func (a *discordDiagnostic) WithContext(ctx ...keyvalue.T) discord.Diagnostic {
	return &discordDiagnostic{d: a.d.WithContext(ctx...)}
}

func (a *discordDiagnostic) InsecureSkipVerify() {
	a.d.InsecureSkipVerify()
}

func (a *discordDiagnostic) Error(msg string, err error) {
	a.d.Error(msg, err)
}
