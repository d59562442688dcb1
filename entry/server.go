package entry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout bounds how long in-flight requests are given to complete once the
// application context is done
const ShutdownTimeout = 10 * time.Second

// RunServer blocks while an HTTP server application runs
func RunServer(a Application, handler http.Handler, bindAddr string, listenPort int) {
	addr := fmt.Sprintf("%s:%d", bindAddr, listenPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           Middleware(a.Log())(handler),
		ErrorLog:          NewErrorLog(a.Log()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	a.Log().Info("Now listening", "bindAddr", bindAddr, "listenPort", listenPort)
	var wg errgroup.Group
	wg.Go(server.ListenAndServe)

	// ListenAndServe may fail immediately (e.g. port in use), in which case we need to
	// stop waiting on the context
	done := make(chan struct{})
	go func() {
		select {
		case <-a.Context().Done():
			a.Log().Info("Received signal; closing server")
			ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
			defer cancel()
			server.Shutdown(ctx)
		case <-done:
		}
	}()

	err := wg.Wait()
	close(done)
	if errors.Is(err, http.ErrServerClosed) {
		a.Log().Info("Server closed")
	} else {
		a.Fail("error running server", err)
	}
}

// NewErrorLog adapts an slog.Logger to the simpler log.Logger interface used by
// http.Server's ErrorLog field
func NewErrorLog(s *slog.Logger) *log.Logger {
	w := errorLogWriter{s}
	return log.New(w, "", 0)
}

// errorLogWriter is an implementation of io.Writer that handles http server errors by
// writing them to an underlying slog.Logger
type errorLogWriter struct {
	logger *slog.Logger
}

func (w errorLogWriter) Write(data []byte) (int, error) {
	w.logger.Error("http.Server error", "error", string(data))
	return len(data), nil
}
