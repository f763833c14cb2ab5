// Comando fakemux sobe uma plataforma de vídeo falsa para validar o gateway
// localmente: guarda assets e uploads em memória e loga quantas chamadas
// chegaram em cada segundo, o que permite conferir o teto de vazão.
//
//	go run ./cmd/fakemux --addr :8081
//	MUX_BASE_URL=http://localhost:8081 videoadmin serve
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"videoadmin/logging"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		addr    string
		latency time.Duration
	)

	cmd := &cobra.Command{
		Use:           "fakemux",
		Short:         "In-memory stand-in for the video platform API",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if latency < 0 {
				return fmt.Errorf("--latency must be >= 0, got %s", latency)
			}
			logging.Init(logging.Config{Level: "info", Format: "console", Output: cmd.ErrOrStderr()})

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return run(ctx, addr, latency)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8081", "listen address")
	cmd.Flags().DurationVar(&latency, "latency", 50*time.Millisecond, "artificial latency per call")
	return cmd
}

func run(ctx context.Context, addr string, latency time.Duration) error {
	p := newPlatform(latency)
	go p.reportRate(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           p.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logging.Info().Str("addr", addr).Dur("latency", latency).Msg("fake video platform listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("fakemux: %w", err)
	}
	return nil
}
