package alerthook

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/alerthook/alerthook/alert"
	"github.com/alerthook/alerthook/keyvalue"
)

type Diagnostic interface {
	WithContext(ctx ...keyvalue.T) Diagnostic
	InsecureSkipVerify()

	Error(msg string, err error)
}

// Sender posts alerts to a single configured platform endpoint. It is
// immutable once built and safe for concurrent use; each Send issues an
// independent HTTP POST.
type Sender struct {
	platform string
	handler  alert.Handler
	diag     Diagnostic
}

// Platform returns the identifier of the platform this sender targets.
func (s *Sender) Platform() string {
	return s.platform
}

// Send validates its arguments and dispatches the alert on a background
// goroutine, returning before the HTTP exchange completes. It never
// returns an error: invalid arguments and delivery failures alike are
// reported through the Diagnostic side channel, since alerting is a
// secondary concern that must not halt the caller.
func (s *Sender) Send(title, message string, data map[string]interface{}) {
	if title == "" {
		s.diag.Error("alert not sent", &DispatchError{Reason: "title must be a non-empty string"})
		return
	}
	if message == "" {
		s.diag.Error("alert not sent", &DispatchError{Reason: "message must be a non-empty string"})
		return
	}

	n := alert.Notification{
		Title:   title,
		Message: message,
		Data:    data,
	}
	go s.handler.Handle(n)
}

// zapDiagnostic is the default side channel wired by Build when the
// caller supplies none.
type zapDiagnostic struct {
	l *zap.Logger
}

func newDefaultDiagnostic() Diagnostic {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.Lock(os.Stderr),
		zapcore.InfoLevel,
	)
	return &zapDiagnostic{l: zap.New(core)}
}

func (d *zapDiagnostic) WithContext(ctx ...keyvalue.T) Diagnostic {
	fields := make([]zap.Field, len(ctx))
	for i, kv := range ctx {
		fields[i] = zap.String(kv.Key, kv.Value)
	}
	return &zapDiagnostic{l: d.l.With(fields...)}
}

func (d *zapDiagnostic) InsecureSkipVerify() {
	d.l.Info("sender is configured to skip ssl verification")
}

func (d *zapDiagnostic) Error(msg string, err error) {
	d.l.Error(msg, zap.Error(err))
}
