package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/myfit/internal/api"
	"github.com/terraincognita07/myfit/internal/config"
	"github.com/terraincognita07/myfit/internal/services"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(state *command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, state)
		},
	}
	cmd.Flags().String("port", "", "listen port")
	_ = state.viper.BindPFlag("port", cmd.Flags().Lookup("port"))
	return cmd
}

func runServe(ctx context.Context, state *command) error {
	rt, err := openRuntime(state.cfg, state.stderr)
	if err != nil {
		return err
	}
	defer func() {
		_ = rt.close()
	}()

	if state.cfg.SecretKey == config.DefaultSecretKey {
		rt.log.Warn("SECRET_KEY uses the built-in placeholder; set a random value before exposing the server")
	}
	time.Local = rt.location

	handler, err := api.NewHandler(rt.deps, api.Options{
		SecretKey:    state.cfg.SecretKey,
		Location:     rt.location,
		CookieSecure: state.cfg.CookieSecure,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	app := api.NewApp(handler)

	lifecycleCtx, cancelLifecycle := context.WithCancel(ctx)
	defer cancelLifecycle()

	schedule := ""
	if state.cfg.HealthEnabled() {
		schedule = state.cfg.Health.SyncSchedule
	}
	healthSync := services.NewHealthSyncService(rt.deps.HealthReader, schedule, rt.log, rt.metrics)
	if err := healthSync.Start(lifecycleCtx); err != nil {
		return fmt.Errorf("health sync init failed: %w", err)
	}
	defer healthSync.Stop()

	go func() {
		<-lifecycleCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			rt.log.WithError(err).Error("server shutdown failed")
		}
	}()

	rt.log.WithFields(logrus.Fields{
		"port":          state.cfg.Port,
		"db":            state.cfg.DBPath,
		"tz":            rt.location.String(),
		"health_bridge": state.cfg.HealthEnabled(),
	}).Info("myfit listening")

	if err := app.Listen(":" + state.cfg.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}
