package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueNotificacoes = "jobs:notificacoes"

	JobNotificacaoPedido = "notificacao_pedido"

	// MaxTentativas is how many times a job runs before it goes to the DLQ.
	MaxTentativas = 5

	// PrefixoAgendados names the sorted set of retries waiting for their
	// backoff, scored by due time in unix milliseconds: agendados:{fila}.
	PrefixoAgendados = "agendados:"

	esperaBase   = 2 * time.Second
	esperaMaxima = time.Minute
)

// espera is the backoff before retry n (1-based): 2s, 4s, 8s... capped at one minute.
func espera(tentativas int) time.Duration {
	if tentativas < 1 {
		tentativas = 1
	}
	d := esperaBase
	for i := 1; i < tentativas && d < esperaMaxima; i++ {
		d *= 2
	}
	if d > esperaMaxima {
		d = esperaMaxima
	}
	return d
}

// Job is the generic envelope for all async tasks.
type Job struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	Tentativas int             `json:"tentativas"`
}

// JobHandler processes one job payload. A returned error schedules a retry.
type JobHandler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb redis.Cmdable
}

func NewDispatcher(rdb redis.Cmdable) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueNotificacaoPedido schedules the e-mail sent when an order reaches a final status.
func (d *Dispatcher) EnqueueNotificacaoPedido(ctx context.Context, payload NotificacaoPedidoPayload) error {
	return d.enqueue(ctx, QueueNotificacoes, Job{Type: JobNotificacaoPedido}, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue string, job Job, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job.ID = uuid.NewString()
	job.Payload = data
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Pool runs N goroutines consuming the job queues.
type Pool struct {
	rdb      redis.Cmdable
	handlers map[string]JobHandler
	queues   []string
	timeout  time.Duration
	promocao time.Duration
	relogio  func() time.Time
	wg       sync.WaitGroup
}

func NewPool(rdb redis.Cmdable, handlers map[string]JobHandler) *Pool {
	return &Pool{
		rdb:      rdb,
		handlers: handlers,
		queues:   []string{QueueNotificacoes},
		timeout:  5 * time.Second,
		promocao: time.Second,
		relogio:  time.Now,
	}
}

// Start launches numWorkers goroutines. Each one blocks on BRPOP, so idle
// workers cost nothing; they exit when ctx is cancelled.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	p.wg.Add(1)
	go p.promoverPeriodicamente(ctx)
	log.Info().Int("workers", numWorkers).Msg("worker pool started")
}

// Wait blocks until every worker returned.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		if ctx.Err() != nil {
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		}
		result, err := p.rdb.BRPop(ctx, p.timeout, p.queues...).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Error().Err(err).Int("worker", id).Msg("worker: brpop failed")
				select {
				case <-ctx.Done():
				case <-time.After(time.Second):
				}
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.processJob(ctx, result[0], result[1])
	}
}

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		bruto, _ := json.Marshal(raw)
		enviarParaDLQ(ctx, p.rdb, novaEntradaDLQ(queue, Job{Type: "desconhecido", Payload: bruto}, err.Error(), p.relogio()))
		return
	}
	h, ok := p.handlers[job.Type]
	if !ok {
		enviarParaDLQ(ctx, p.rdb, novaEntradaDLQ(queue, job, "sem handler para o tipo", p.relogio()))
		return
	}

	err := h.Process(ctx, job.Payload)
	if err == nil {
		return
	}
	job.Tentativas++
	if job.Tentativas >= MaxTentativas {
		enviarParaDLQ(ctx, p.rdb, novaEntradaDLQ(queue, job, err.Error(), p.relogio()))
		return
	}
	p.agendar(ctx, queue, job, err)
}

// agendar parks a failed job until its backoff elapses. Jobs already queued
// keep running meanwhile.
func (p *Pool) agendar(ctx context.Context, queue string, job Job, causa error) {
	encoded, err := json.Marshal(job)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal job for retry")
		return
	}
	quando := p.relogio().Add(espera(job.Tentativas))
	z := redis.Z{Score: float64(quando.UnixMilli()), Member: string(encoded)}
	if err := p.rdb.ZAdd(ctx, PrefixoAgendados+queue, z).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("failed to schedule retry")
		return
	}
	log.Warn().Err(causa).Str("type", job.Type).Str("job_id", job.ID).
		Int("tentativas", job.Tentativas).Time("retry_em", quando).Msg("job failed, retry scheduled")
}

// promoverAgendados moves retries whose backoff elapsed back onto their queue.
// ZREM decides the winner when several pools promote at once.
func (p *Pool) promoverAgendados(ctx context.Context) int {
	agora := strconv.FormatInt(p.relogio().UnixMilli(), 10)
	movidos := 0
	for _, queue := range p.queues {
		chave := PrefixoAgendados + queue
		devidos, err := p.rdb.ZRangeByScore(ctx, chave, &redis.ZRangeBy{Min: "-inf", Max: agora}).Result()
		if err != nil {
			if ctx.Err() == nil {
				log.Error().Err(err).Str("chave", chave).Msg("failed to read scheduled retries")
			}
			continue
		}
		for _, m := range devidos {
			n, err := p.rdb.ZRem(ctx, chave, m).Result()
			if err != nil || n == 0 {
				continue
			}
			if err := p.rdb.LPush(ctx, queue, m).Err(); err != nil {
				log.Error().Err(err).Str("queue", queue).Msg("failed to requeue job")
				continue
			}
			movidos++
		}
	}
	return movidos
}

func (p *Pool) promoverPeriodicamente(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.promocao)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.promoverAgendados(ctx)
		}
	}
}
