package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/keycalc/internal/config"
	"github.com/zephyrtronium/keycalc/internal/logging"
	"github.com/zephyrtronium/keycalc/internal/server"
	"github.com/zephyrtronium/keycalc/internal/session"
)

func newServeCmd() *cobra.Command {
	var (
		confPath string
		port     int
	)
	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Serve calculators over HTTP",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if confPath == "" {
				confPath = os.Getenv(config.ENV_CONFIG_FILE_PATH)
			}
			conf, err := config.Load(confPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if port != 0 {
				conf.Server.Port = fmt.Sprint(port)
				if err := conf.Validate(); err != nil {
					return err
				}
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, conf)
		},
	}
	cmd.Flags().StringVar(&confPath, "config", "", "config file (default $"+config.ENV_CONFIG_FILE_PATH+")")
	cmd.Flags().IntVar(&port, "port", 0, "HTTP port (default 8080, env "+config.ENV_PORT+")")
	return cmd
}

func serve(ctx context.Context, conf *config.Config) error {
	closer := logging.Init(conf.Logging)
	defer closer.Close()

	store := session.NewStore(session.Options{
		MaxSessions: conf.Sessions.MaxSessions,
		MaxExprLen:  conf.Sessions.MaxExprLen,
	})
	go store.Run(ctx, conf.Sessions.SweepInterval, conf.Sessions.IdleTimeout)

	srv := server.New(store, server.Options{
		AllowOrigins: conf.Server.AllowOrigins,
		Debug:        conf.Server.DebugMode,
	})
	if conf.Server.DebugMode {
		if err := srv.WriteRoutes("keycalc-routes.txt"); err != nil {
			slog.Warn("could not write routes", slog.String("error", err.Error()))
		}
	}
	if err := srv.Run(ctx, conf.Addr(), 10*time.Second); err != nil {
		slog.Error("server exited", slog.String("error", err.Error()))
		return err
	}
	return nil
}
