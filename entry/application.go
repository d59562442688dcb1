package entry

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

type Application interface {
	Context() context.Context
	Log() *slog.Logger
	Fail(message string, err error)
	Stop()
}

// NewApplication prepares a JSON logger that writes to w, tagged with the process ID
// and application name, along with a context that is canceled on SIGINT or SIGTERM
func NewApplication(name string, w io.Writer, level slog.Level) Application {
	pid := os.Getpid()
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})).With("app", name, "pid", pid)
	logger.Debug("Process starting")

	ctx, close := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	return &application{
		ctx:      ctx,
		closeCtx: close,
		logger:   logger,
		exit:     os.Exit,
	}
}

type application struct {
	ctx      context.Context
	closeCtx context.CancelFunc
	logger   *slog.Logger
	exit     func(code int)
}

func (a *application) Context() context.Context {
	return a.ctx
}

func (a *application) Log() *slog.Logger {
	return a.logger
}

func (a *application) Fail(message string, err error) {
	a.logger.Error(message, "error", err)
	a.closeCtx()
	a.exit(1)
}

func (a *application) Stop() {
	a.logger.Debug("Process stopping")
	a.closeCtx()
}
