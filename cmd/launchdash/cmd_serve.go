package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"launchdash/internal/logging"
	"launchdash/internal/metrics"
)

func (c *cli) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the dataset and serve the dashboard over HTTP",
		RunE:  c.runServe,
	}
	cmd.Flags().String("addr", ":8050", "Listen address")
	c.bindFlags(cmd.Flags(), map[string]string{"addr": "server.addr"})
	return cmd
}

func (c *cli) runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Log, cmd.ErrOrStderr())

	table, err := loadTable(cmd.Context(), cfg, logging.Component(logger, "dataset"))
	if err != nil {
		logger.Error().Err(err).Msg("dataset unavailable")
		return err
	}
	metrics.SetDatasetRows(table.Len())

	h := NewHandler(table, logging.Component(logger, "http"))
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h.Routes(cfg.Server.RequestTimeout),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		shutdownErr <- server.Shutdown(ctx)
	}()

	logger.Info().
		Str("addr", cfg.Server.Addr).
		Str("dataset_id", h.DatasetID).
		Msg("dashboard listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	logger.Info().Msg("dashboard stopped")
	return nil
}
