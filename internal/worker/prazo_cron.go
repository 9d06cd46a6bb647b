package worker

// Background goroutine that enforces deadlines: orders still EmNegociacao
// past DataLimiteInteracao are cancelled, Ativo combos past DataFim are
// expired and expired refresh tokens are purged. Failures are logged and
// retried on the next tick. A single instance is assumed.

import (
	"context"
	"time"

	"agriis/internal/repository"

	"github.com/rs/zerolog/log"
)

const intervaloPadrao = time.Hour

// ExpiradorPedidos is implemented by service.PedidoService.
type ExpiradorPedidos interface {
	ExpirarVencidos(ctx context.Context) (int, error)
}

type PrazoCronConfig struct {
	Intervalo time.Duration
	Pedidos   ExpiradorPedidos
	Combos    repository.ComboRepository
	Tokens    repository.RefreshTokenRepository
	Relogio   func() time.Time
}

// ResultadoVarredura summarises one tick.
type ResultadoVarredura struct {
	PedidosExpirados int
	CombosExpirados  int64
	TokensRemovidos  int64
}

// StartPrazoPedidoCron runs a sweep every cfg.Intervalo until ctx is
// cancelled. The returned channel is closed once the goroutine exited.
func StartPrazoPedidoCron(ctx context.Context, cfg PrazoCronConfig) <-chan struct{} {
	if cfg.Intervalo <= 0 {
		cfg.Intervalo = intervaloPadrao
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(cfg.Intervalo)
		defer ticker.Stop()

		log.Info().Dur("intervalo", cfg.Intervalo).Msg("prazo_cron: started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("prazo_cron: shutting down")
				return
			case <-ticker.C:
				VarrerPrazos(ctx, cfg)
			}
		}
	}()
	return done
}

// VarrerPrazos performs one sweep. Each step runs even if a previous one failed.
func VarrerPrazos(ctx context.Context, cfg PrazoCronConfig) ResultadoVarredura {
	agora := time.Now().UTC()
	if cfg.Relogio != nil {
		agora = cfg.Relogio()
	}
	var res ResultadoVarredura

	if cfg.Pedidos != nil {
		n, err := cfg.Pedidos.ExpirarVencidos(ctx)
		res.PedidosExpirados = n
		if err != nil {
			log.Error().Err(err).Int("expirados", n).Msg("prazo_cron: falha ao expirar pedidos")
		}
	}
	if cfg.Combos != nil {
		n, err := cfg.Combos.ExpirarVencidos(ctx, agora)
		res.CombosExpirados = n
		if err != nil {
			log.Error().Err(err).Msg("prazo_cron: falha ao expirar combos")
		}
	}
	if cfg.Tokens != nil {
		n, err := cfg.Tokens.RemoverExpirados(ctx, agora)
		res.TokensRemovidos = n
		if err != nil {
			log.Error().Err(err).Msg("prazo_cron: falha ao remover refresh tokens")
		}
	}

	if res.PedidosExpirados > 0 || res.CombosExpirados > 0 || res.TokensRemovidos > 0 {
		log.Info().
			Int("pedidos", res.PedidosExpirados).
			Int64("combos", res.CombosExpirados).
			Int64("tokens", res.TokensRemovidos).
			Msg("prazo_cron: varredura concluída")
	}
	return res
}
