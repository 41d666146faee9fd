package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/panicdrop/altscan/internal/application/scanner"
	httpapi "github.com/panicdrop/altscan/internal/interfaces/http"
	"github.com/panicdrop/altscan/internal/telemetry"
)

type scanRefresher interface {
	Refresh(ctx context.Context) (*scanner.ScanResult, error)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API with periodic background refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			metrics := telemetry.NewMetrics()
			sc, err := buildScanner(cfg, metrics)
			if err != nil {
				return err
			}

			srv := httpapi.NewServer(cfg.Server, sc, metrics)

			ctx, stop := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer stop()

			go refreshLoop(ctx, sc, srv, cfg.Scanner.RefreshInterval)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

// refreshLoop runs an immediate scan and then one per interval,
// broadcasting each summary to websocket clients. A zero interval
// disables auto-refresh; POST /refresh still works.
func refreshLoop(ctx context.Context, sc scanRefresher, srv *httpapi.Server, interval time.Duration) {
	refresh := func() {
		result, err := sc.Refresh(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Msg("Background refresh failed")
			return
		}
		if !result.Superseded {
			srv.Hub().Broadcast(result)
		}
	}

	refresh()
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}
