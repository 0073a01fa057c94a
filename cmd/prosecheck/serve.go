package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/avandersen/prosecheck/internal/api"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Start the HTTP service exposing one-shot checks, the document
store, persisted check results, health, and Prometheus metrics.

The server shuts down gracefully on SIGINT or SIGTERM, waiting for
in-flight checks to finish.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (overrides configuration)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	addr := a.cfg.Server.Addr
	if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
		addr = flagAddr
	}

	srv := api.NewServer(api.Config{
		Addr:    addr,
		Checker: a.checker,
		Store:   a.store,
		Metrics: a.metrics,
		Logger:  a.log,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		a.log.Info("shutting down", zap.String("signal", sig.String()))
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		return err
	}
	return <-errChan
}
