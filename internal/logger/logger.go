package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Options selects the log format and the optional Sentry sink.
type Options struct {
	Development bool
	SentryDSN   string
	Environment string
	Output      io.Writer // Defaults to stdout
}

// New builds a logger without touching the global default.
// Development: Text format with Debug level
// Production: JSON format with Info level
// Errors are additionally sent to Sentry when a DSN is set.
func New(opts Options) (*slog.Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	var handlers []slog.Handler
	if opts.Development {
		handlers = append(handlers, slog.NewTextHandler(out, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		handlers = append(handlers, slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         opts.SentryDSN,
			Environment: opts.Environment,
		})
		if err != nil {
			return slog.New(handlers[0]), err
		}
		handlers = append(handlers, slogsentry.Option{
			Level: slog.LevelError,
		}.NewSentryHandler())
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0]), nil
	}
	return slog.New(slogmulti.Fanout(handlers...)), nil
}

// Init installs the logger as the slog default. The returned func flushes
// buffered Sentry events and should run before exit.
func Init(opts Options) func() {
	log, err := New(opts)
	slog.SetDefault(log)
	if err != nil {
		slog.Warn("sentry disabled", "error", err)
	}

	return func() {
		if opts.SentryDSN != "" {
			sentry.Flush(2 * time.Second)
		}
	}
}
