package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gork-labs/dustdoc/pkg/dustdoc"
	"github.com/spf13/cobra"
)

// ServeConfig holds configuration for the documentation server.
type ServeConfig struct {
	Root    string `validate:"required,dir"`
	Addr    string `validate:"required"`
	Title   string
	Verbose bool
}

func newServeCommand(stderr io.Writer) *cobra.Command {
	var config ServeConfig

	cmd := &cobra.Command{
		Use:   "serve <dir>",
		Short: "Serve rendered documentation for a source directory over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Root = args[0]
			return Serve(cmd.Context(), &config, newLogger(stderr, config.Verbose), nil)
		},
	}

	cmd.Flags().StringVar(&config.Addr, "addr", ":8080", "Address to listen on")
	cmd.Flags().StringVar(&config.Title, "title", "", "Title shown in the documentation pages")
	cmd.Flags().BoolVarP(&config.Verbose, "verbose", "v", false, "Log requests and errors to stderr")

	return cmd
}

// Serve runs the documentation server until ctx is done. When ready is not
// nil it receives the listener address once the server accepts connections.
func Serve(ctx context.Context, config *ServeConfig, logger *slog.Logger, ready chan<- net.Addr) error {
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ln, err := net.Listen("tcp", config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", config.Addr, err)
	}

	docs := dustdoc.NewDocsServer(config.Root, dustdoc.DocsConfig{Title: config.Title, Logger: logger})
	srv := &http.Server{
		Handler:           logRequests(docs, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	logger.Info("serving documentation", "root", config.Root, "addr", ln.Addr().String())
	if ready != nil {
		ready <- ln.Addr()
	}

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func logRequests(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
