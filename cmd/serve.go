package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/genau-project/speisecheck/internal/pipeline"
	"github.com/genau-project/speisecheck/internal/server"
	"github.com/genau-project/speisecheck/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for plan analysis and food lookup",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		analyzer, err := pipeline.New(cfg)
		if err != nil {
			return err
		}

		// The foods endpoints share one long-lived store handle; analysis
		// runs still open their own per request.
		var foods store.FoodStore
		foods, err = store.Open(ctx, store.Config{
			Driver:      cfg.Store.Driver,
			DatabaseURL: cfg.Store.DatabaseURL,
		})
		if err != nil {
			zap.L().Warn("serve: lookup store unavailable, /foods disabled", zap.Error(err))
			foods = nil
		} else {
			defer foods.Close()
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: server.New(analyzer, foods).Router(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
