package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"agriis/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// LimiterStore keeps one token bucket per client key. Idle buckets are
// dropped by the janitor started with StartJanitor.
type LimiterStore struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewLimiterStore(rps float64, burst int) *LimiterStore {
	return &LimiterStore{
		entries: make(map[string]*limiterEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: 15 * time.Minute,
	}
}

func (s *LimiterStore) get(key string) *rate.Limiter {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}
	lim := rate.NewLimiter(s.rps, s.burst)
	s.entries[key] = &limiterEntry{lim: lim, lastSeen: now}
	return lim
}

// Limpar drops buckets not seen since idleTTL and returns how many were removed.
func (s *LimiterStore) Limpar(agora time.Time) int {
	cutoff := agora.Add(-s.idleTTL)
	s.mu.Lock()
	defer s.mu.Unlock()

	removidos := 0
	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
			removidos++
		}
	}
	return removidos
}

func (s *LimiterStore) Tamanho() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// StartJanitor purges idle buckets every interval until ctx is cancelled.
func (s *LimiterStore) StartJanitor(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case agora := <-t.C:
				if n := s.Limpar(agora); n > 0 {
					log.Debug().Int("removidos", n).Int("restantes", s.Tamanho()).Msg("rate limiter purged")
				}
			}
		}
	}()
}

// RateLimiter rejects with 429 once the client IP exhausts its bucket.
func RateLimiter(store *LimiterStore) gin.HandlerFunc {
	return limitar(store, "Muitas requisições. Tente novamente em instantes.")
}

// LoginRateLimiter is the stricter bucket applied to credential endpoints:
// 20 attempts per minute per IP with a burst of 5.
func LoginRateLimiter(store *LimiterStore) gin.HandlerFunc {
	return limitar(store, "Muitas tentativas de login. Tente novamente em 1 minuto.")
}

func NewLoginLimiterStore() *LimiterStore {
	return NewLimiterStore(20.0/60.0, 5)
}

func limitar(store *LimiterStore, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		lim := store.get(c.ClientIP())
		if !lim.Allow() {
			espera := time.Second
			if store.rps > 0 {
				espera = time.Duration(float64(time.Second) / float64(store.rps))
			}
			c.Header("Retry-After", strconv.Itoa(int(espera.Round(time.Second)/time.Second)+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}
