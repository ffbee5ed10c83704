package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tableforge/tableforge/internal/broadcast"
	"github.com/tableforge/tableforge/internal/config"
	"github.com/tableforge/tableforge/internal/dice"
	"github.com/tableforge/tableforge/internal/errors"
	"github.com/tableforge/tableforge/internal/pkg/clock"
	"github.com/tableforge/tableforge/internal/pkg/idgen"
	"github.com/tableforge/tableforge/internal/redis"
	"github.com/tableforge/tableforge/internal/registry"
	"github.com/tableforge/tableforge/internal/repositories/character"
	"github.com/tableforge/tableforge/internal/repositories/gamelog"
	"github.com/tableforge/tableforge/internal/repositories/participant"
	"github.com/tableforge/tableforge/internal/repositories/session"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the websocket server",
	Long:  `Start the tableforge server: Redis-backed session state with a websocket endpoint at /ws.`,
	RunE:  runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client, err := redis.NewClient(cfg.RedisAddr, &redis.Options{
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		PoolSize: cfg.RedisPoolSize,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create redis client")
	}
	defer func() { _ = client.Close() }()

	clk := clock.New()

	sessionRepo, err := session.NewRedisRepository(&session.Config{Client: client, Clock: clk})
	if err != nil {
		return err
	}
	participantRepo, err := participant.NewRedisRepository(&participant.Config{Client: client, Clock: clk})
	if err != nil {
		return err
	}
	characterRepo, err := character.NewRedisRepository(&character.Config{Client: client, Clock: clk})
	if err != nil {
		return err
	}
	gameLogRepo, err := gamelog.NewRedisRepository(&gamelog.Config{Client: client, Clock: clk})
	if err != nil {
		return err
	}

	// The hub publishes registry events; the registry serves hub
	// commands. The hub is built first, then the loop is closed.
	hub := broadcast.NewHub(&broadcast.Config{
		Logger:      logger,
		AuthTimeout: cfg.AuthTimeout,
	})

	service, err := registry.NewService(&registry.Config{
		SessionRepo:            sessionRepo,
		ParticipantRepo:        participantRepo,
		CharacterRepo:          characterRepo,
		GameLogRepo:            gameLogRepo,
		SessionIDGenerator:     idgen.NewUUID("sess"),
		ParticipantIDGenerator: idgen.NewUUID("part"),
		CharacterIDGenerator:   idgen.NewUUID("char"),
		LogIDGenerator:         idgen.NewUUID("log"),
		Clock:                  clk,
		Roller:                 dice.New(),
		EventPublisher:         hub,
		Logger:                 logger,
		WorldWidth:             cfg.WorldWidth,
		WorldHeight:            cfg.WorldHeight,
		MaxPlayers:             cfg.MaxPlayers,
		LogTailLimit:           cfg.LogTailLimit,
	})
	if err != nil {
		return err
	}
	hub.SetService(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := client.Ping(r.Context()).Err(); err != nil {
			http.Error(w, "redis unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return errors.Wrap(err, "server failed")
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "graceful shutdown failed")
	}

	logger.Info("server stopped")
	return nil
}
