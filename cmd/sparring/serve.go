package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/sparringlab/sparring/internal/auth"
	"github.com/sparringlab/sparring/internal/config"
	"github.com/sparringlab/sparring/internal/gateway"
	"github.com/sparringlab/sparring/internal/library"
	"github.com/sparringlab/sparring/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE:  runServe,
	}
	cmd.Flags().String("addr", "", "Listen address (overrides LISTEN_ADDR)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.ListenAddr = addr
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	client := gateway.NewClient(cfg.GatewayAPIKey)
	if cfg.GatewayBaseURL != "" {
		client = gateway.NewClientWithBaseURL(cfg.GatewayAPIKey, cfg.GatewayBaseURL)
	}

	cacheOpts := []library.CacheOption{library.WithTTL(cfg.CacheTTL)}
	if cfg.CacheDriver == string(library.CacheDriverRedis) {
		cacheOpts = append(cacheOpts, library.WithRedisClient(
			redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}),
		))
	}
	cache, err := library.NewCache(library.CacheDriver(cfg.CacheDriver), cacheOpts...)
	if err != nil {
		return err
	}

	store, err := library.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseAnonKey, cache)
	if err != nil {
		return err
	}
	verifier, err := auth.NewSupabaseVerifier(cfg.SupabaseURL, cfg.SupabaseAnonKey)
	if err != nil {
		return err
	}

	srv := server.New(server.Options{
		Chat:     client,
		Model:    cfg.Model,
		Verifier: verifier,
		Store:    store,
		Logger:   logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.ListenAddr, "model", cfg.Model)
		errCh <- srv.Listen(cfg.ListenAddr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	if err := srv.Shutdown(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
