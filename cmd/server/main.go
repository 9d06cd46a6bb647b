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

	"agriis/internal/config"
	"agriis/internal/infra"
	"agriis/internal/repository"
	"agriis/internal/router"
	"agriis/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty in dev, JSON in prod
	zerolog.TimeFieldFormat = time.RFC3339
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	if cfg.MigrateOnStart {
		if err := infra.Migrar(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, !cfg.IsProduction())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Worker handlers are wired here (composition root) so that the pool
	// has full access to all infrastructure dependencies.
	mailer := infra.NewMailer(cfg)
	if !mailer.Configurado() {
		log.Warn().Msg("SMTP_HOST not set: order notifications will be skipped")
	}
	notificacaoW := worker.NewNotificacaoPedidoWorker(worker.NotificacaoPedidoWorkerConfig{
		Pedidos:      repository.NewPedidoRepository(db),
		Produtores:   repository.NewProdutorRepository(db),
		Fornecedores: repository.NewFornecedorRepository(db),
		Usuarios:     repository.NewUsuarioRepository(db),
		Catalogos:    repository.NewCatalogoRepository(db),
		Mailer:       mailer,
		CB:           infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp")),
		PDFPath:      cfg.PDFStoragePath,
	})
	pool := worker.NewPool(rdb, map[string]worker.JobHandler{
		worker.JobNotificacaoPedido: notificacaoW,
	})
	pool.Start(ctx, cfg.WorkerPoolSize)

	dispatcher := worker.NewDispatcher(rdb)
	svcs := router.NovosServicos(cfg, db, dispatcher)

	cronDone := worker.StartPrazoPedidoCron(ctx, worker.PrazoCronConfig{
		Intervalo: cfg.PedidoVerificacaoIntervalo,
		Pedidos:   svcs.Pedidos,
		Combos:    repository.NewComboRepository(db),
		Tokens:    repository.NewRefreshTokenRepository(db),
	})

	r := router.New(ctx, cfg, db, rdb, svcs)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Agriis API listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	<-cronDone
	pool.Wait()
	_ = rdb.Close()
	log.Info().Msg("server exited")
}
