package discord

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	text "text/template"

	"github.com/alerthook/alerthook/alert"
	khttp "github.com/alerthook/alerthook/http"
	"github.com/alerthook/alerthook/keyvalue"
	"github.com/alerthook/alerthook/tlsconfig"
	"github.com/pkg/errors"
)

type Diagnostic interface {
	WithContext(ctx ...keyvalue.T) Diagnostic
	InsecureSkipVerify()

	Error(msg string, err error)
}

// contentTmpl is the fixed layout of every webhook post: a bolded title
// line, the message in a fenced block, and an optional fenced data block.
var contentTmpl = text.Must(text.New("content").Parse(
	"**{{.Title}}**\n\nmessage:```\n\n{{.Message}}```\n{{.DataBlock}}"))

type Service struct {
	config Config
	client *http.Client
	diag   Diagnostic
}

func NewService(c Config, d Diagnostic) (*Service, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	tlsConfig, err := tlsconfig.Create(c.SSLCA, c.SSLCert, c.SSLKey, c.InsecureSkipVerify)
	if err != nil {
		return nil, err
	}
	if c.InsecureSkipVerify {
		d.InsecureSkipVerify()
	}

	return &Service{
		config: c,
		client: &http.Client{
			Transport: khttp.NewDefaultTransportWithTLS(tlsConfig),
		},
		diag: d,
	}, nil
}

func (s *Service) Config() Config {
	return s.config
}

// Close releases idle connections held by the webhook client.
func (s *Service) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// Alert posts a rendered notification to the configured webhook.
// Empty username or avatarURL fall back to the config values.
func (s *Service) Alert(title, message string, data map[string]interface{}, username, avatarURL string) error {
	url, post, err := s.preparePost(title, message, data, username, avatarURL)
	if err != nil {
		return err
	}

	resp, err := s.client.Post(url, "application/json", post)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return errors.Wrap(err, "failed to read Discord response")
		}
		return &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return nil
}

func (s *Service) preparePost(title, message string, data map[string]interface{}, username, avatarURL string) (string, io.Reader, error) {
	c := s.config
	if !c.Enabled {
		return "", nil, errors.New("service is not enabled")
	}

	content, err := renderContent(title, message, data)
	if err != nil {
		return "", nil, err
	}

	postData := make(map[string]interface{})
	postData["content"] = content
	if username == "" {
		username = c.Username
	}
	if username != "" {
		postData["username"] = username
	}
	if avatarURL == "" {
		avatarURL = c.AvatarURL
	}
	if avatarURL != "" {
		postData["avatar_url"] = avatarURL
	}

	var post bytes.Buffer
	if err := json.NewEncoder(&post).Encode(postData); err != nil {
		return "", nil, err
	}
	return c.URL, &post, nil
}

func renderContent(title, message string, data map[string]interface{}) (string, error) {
	var dataBlock string
	if len(data) > 0 {
		b, err := json.Marshal(data)
		if err != nil {
			return "", errors.Wrap(err, "failed to serialize alert data")
		}
		dataBlock = "data:```\n\n" + string(b) + "```"
	}

	var buf bytes.Buffer
	err := contentTmpl.Execute(&buf, struct {
		Title     string
		Message   string
		DataBlock string
	}{title, message, dataBlock})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// StatusError is returned when the webhook responds with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Discord webhook responded with %d: %s", e.Code, e.Body)
}

type HandlerConfig struct {
	// Username of webhook
	// If empty uses the service config
	Username string `mapstructure:"username"`
	// URL of webhook's avatar
	// If empty uses the service config
	AvatarURL string `mapstructure:"avatar-url"`
}

type handler struct {
	s    *Service
	c    HandlerConfig
	diag Diagnostic
}

func (s *Service) Handler(c HandlerConfig, ctx ...keyvalue.T) alert.Handler {
	return &handler{
		s:    s,
		c:    c,
		diag: s.diag.WithContext(ctx...),
	}
}

func (h *handler) Handle(n alert.Notification) {
	if err := h.s.Alert(n.Title, n.Message, n.Data, h.c.Username, h.c.AvatarURL); err != nil {
		h.diag.Error("failed to send alert to Discord", err)
	}
}
