// Package diagnostic implements the side channels the sender and the
// platform services declare for themselves, on top of a shared zap
// logger. Each consumer gets its own handler so log lines carry the
// component that produced them.
package diagnostic

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/alerthook/alerthook"
	"github.com/alerthook/alerthook/keyvalue"
	"github.com/alerthook/alerthook/services/discord"
)

type Config struct {
	// Minimum level written to the log. One of debug, info, warn, error.
	Level string `toml:"level"`
}

func NewConfig() Config {
	return Config{Level: "info"}
}

type Service struct {
	logger *zap.Logger
}

func NewService(c Config, w io.Writer) *Service {
	lvl := zapcore.InfoLevel
	if c.Level != "" {
		// Fall back to info on unrecognized names.
		_ = lvl.UnmarshalText([]byte(c.Level))
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(w),
		lvl,
	)
	return &Service{logger: zap.New(core)}
}

func (s *Service) Close() error {
	return s.logger.Sync()
}

func (s *Service) NewSenderHandler() alerthook.Diagnostic {
	return &SenderHandler{l: s.logger.With(zap.String("service", "sender"))}
}

func (s *Service) NewDiscordHandler() discord.Diagnostic {
	return &DiscordHandler{l: s.logger.With(zap.String("service", "discord"))}
}

func logFieldsFromContext(ctx []keyvalue.T) []zap.Field {
	fields := make([]zap.Field, len(ctx))
	for i, kv := range ctx {
		fields[i] = zap.String(kv.Key, kv.Value)
	}
	return fields
}

// Sender handler

type SenderHandler struct {
	l *zap.Logger
}

func (h *SenderHandler) WithContext(ctx ...keyvalue.T) alerthook.Diagnostic {
	return &SenderHandler{l: h.l.With(logFieldsFromContext(ctx)...)}
}

func (h *SenderHandler) InsecureSkipVerify() {
	h.l.Info("sender is configured to skip ssl verification")
}

func (h *SenderHandler) Error(msg string, err error) {
	h.l.Error(msg, zap.Error(err))
}

// Discord handler

type DiscordHandler struct {
	l *zap.Logger
}

func (h *DiscordHandler) WithContext(ctx ...keyvalue.T) discord.Diagnostic {
	return &DiscordHandler{l: h.l.With(logFieldsFromContext(ctx)...)}
}

func (h *DiscordHandler) InsecureSkipVerify() {
	h.l.Info("service is configured to skip ssl verification")
}

func (h *DiscordHandler) Error(msg string, err error) {
	h.l.Error(msg, zap.Error(err))
}
