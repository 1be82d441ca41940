package logger

import (
	"fmt"
	"log/slog"

	"github.com/fluent/fluent-logger-golang/fluent"

	"sixcities/internal/config"
)

// FromConfig builds the logger a command runs with. The returned close func
// flushes the Fluent Bit client when one was opened.
func FromConfig(cfg *config.Config) (*slog.Logger, func(), error) {
	lc := Config{
		Level:    ParseLevel(cfg.LogLevel),
		UseColor: cfg.LogColor,
		IsJSON:   !cfg.LogColor && cfg.AppEnv != "dev",
	}

	var client *fluent.Fluent
	if cfg.FluentBit.Enabled {
		var err error
		client, err = NewFluentClient(cfg.FluentBit.Host, cfg.FluentBit.Port, cfg.AppName)
		if err != nil {
			return nil, func() {}, fmt.Errorf("create fluentbit client: %w", err)
		}
		lc.Fluent = client
		lc.FluentLevel = ParseLevel(cfg.FluentBit.Level)
	}

	log := New(lc).With("service_name", cfg.AppName)
	closeFn := func() {
		if client != nil {
			_ = client.Close()
		}
	}
	return log, closeFn, nil
}
