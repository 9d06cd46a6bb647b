package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// PrefixoDLQ names the list holding jobs that gave up: dlq:{fila}.
const PrefixoDLQ = "dlq:"

// EntradaDLQ is what an operator sees when inspecting a dead job.
// PedidoID is lifted from the payload so failed notifications can be
// traced back to their order without decoding it.
type EntradaDLQ struct {
	JobID      string          `json:"job_id,omitempty"`
	Fila       string          `json:"fila"`
	Tipo       string          `json:"tipo"`
	PedidoID   int             `json:"pedido_id,omitempty"`
	Payload    json.RawMessage `json:"payload"`
	Motivo     string          `json:"motivo"`
	Tentativas int             `json:"tentativas"`
	FalhouEm   time.Time       `json:"falhou_em"`
}

func novaEntradaDLQ(fila string, job Job, motivo string, em time.Time) EntradaDLQ {
	e := EntradaDLQ{
		JobID:      job.ID,
		Fila:       fila,
		Tipo:       job.Type,
		Payload:    job.Payload,
		Motivo:     motivo,
		Tentativas: job.Tentativas,
		FalhouEm:   em.UTC(),
	}
	if job.Type == JobNotificacaoPedido {
		var p NotificacaoPedidoPayload
		if json.Unmarshal(job.Payload, &p) == nil {
			e.PedidoID = p.PedidoID
		}
	}
	return e
}

// enviarParaDLQ parks the job. A push failure is only logged: the job is lost
// either way and the caller has nothing better to do with it.
func enviarParaDLQ(ctx context.Context, rdb redis.Cmdable, entrada EntradaDLQ) {
	data, err := json.Marshal(entrada)
	if err != nil {
		log.Error().Err(err).Str("fila", entrada.Fila).Msg("dlq: entrada não serializável")
		return
	}
	chave := PrefixoDLQ + entrada.Fila
	if err := rdb.LPush(ctx, chave, data).Err(); err != nil {
		log.Error().Err(err).Str("chave", chave).Int("pedido_id", entrada.PedidoID).Msg("dlq: falha ao enfileirar")
		return
	}
	log.Warn().
		Str("job_id", entrada.JobID).
		Str("tipo", entrada.Tipo).
		Int("pedido_id", entrada.PedidoID).
		Int("tentativas", entrada.Tentativas).
		Str("motivo", entrada.Motivo).
		Msg("dlq: job descartado")
}

// TamanhoDLQ is reported by the health endpoint.
func TamanhoDLQ(ctx context.Context, rdb redis.Cmdable, fila string) (int64, error) {
	return rdb.LLen(ctx, PrefixoDLQ+fila).Result()
}
