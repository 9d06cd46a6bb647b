//go:build integration

package router

// End-to-end tests against real Postgres and Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agriis/internal/config"
	"agriis/internal/infra"
	"agriis/internal/model"
	"agriis/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

type e2eEnv struct {
	server *httptest.Server
	db     *gorm.DB
	rdb    *redis.Client
	svcs   *Servicos
	admin  string
}

func (e *e2eEnv) do(t *testing.T, method, path, token string, body any, dest any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if dest != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
	}
	return resp.StatusCode
}

func (e *e2eEnv) login(t *testing.T, email, senha string) string {
	t.Helper()
	var out struct {
		AccessToken string `json:"access_token"`
	}
	status := e.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{"email": email, "senha": senha}, &out)
	require.Equal(t, http.StatusOK, status)
	return out.AccessToken
}

type comID struct {
	ID int `json:"id"`
}

// ── Setup ────────────────────────────────────────────────────────────────────

func setupE2E(t *testing.T) *e2eEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("agriis_test"),
		tcPostgres.WithUsername("agriis"),
		tcPostgres.WithPassword("agriis"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                   "test",
		CORSOrigins:           "*",
		JWTSecret:             "test-secret-key",
		JWTExpirationHours:    8,
		JWTRefreshHours:       24,
		DatabaseURL:           pgURL,
		RedisURL:              rdURL,
		RateLimitRPS:          1000,
		RateLimitBurst:        1000,
		PedidoPrazoLimiteDias: 7,
	}

	require.NoError(t, infra.Migrar(cfg.DatabaseURL))
	db, err := infra.NewDatabase(cfg.DatabaseURL, false)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("admin1234"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Usuario{
		Nome: "Admin E2E", Email: "admin@e2e.test", SenhaHash: string(hash),
		Rol: model.RolAdministrador, Ativo: true,
	}).Error)

	appCtx, cancel := context.WithCancel(ctx)
	t.Cleanup(cancel)
	svcs := NovosServicos(cfg, db, worker.NewDispatcher(rdb))
	srv := httptest.NewServer(New(appCtx, cfg, db, rdb, svcs))
	t.Cleanup(srv.Close)

	env := &e2eEnv{server: srv, db: db, rdb: rdb, svcs: svcs}
	env.admin = env.login(t, "admin@e2e.test", "admin1234")
	return env
}

// cadastro creates the reference data shared by the scenarios and returns
// the producer/supplier tokens plus the ids needed to open an order.
type cadastroE2E struct {
	tokenProdutor, tokenFornecedor string
	produtorID, fornecedorID       int
	produtoID                      int
}

func cadastrar(t *testing.T, env *e2eEnv) cadastroE2E {
	t.Helper()
	var out cadastroE2E
	agora := time.Now().UTC()

	var safra comID
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/v1/safras", env.admin, map[string]any{
		"plantio_inicial": agora.AddDate(0, -1, 0), "plantio_final": agora.AddDate(0, 2, 0),
		"plantio_nome": "S1", "descricao": "Safra de verão", "ano_colheita": agora.Year() + 1,
	}, &safra))

	var forn comID
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/v1/fornecedores", env.admin, map[string]any{
		"nome": "Agro Insumos", "cnpj": "11.222.333/0001-81",
	}, &forn))
	out.fornecedorID = forn.ID

	var prod comID
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/v1/produtores", env.admin, map[string]any{
		"nome": "Fazenda Boa Vista", "cpf": "529.982.247-25", "area_plantio": "350",
	}, &prod))
	out.produtorID = prod.ID
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, fmt.Sprintf("/v1/produtores/%d/validacao", prod.ID),
		env.admin, map[string]bool{"autorizado": true}, nil))

	for _, u := range []struct{ email, rol string }{
		{"produtor@e2e.test", model.RolProdutor},
		{"fornecedor@e2e.test", model.RolFornecedor},
	} {
		var usuario comID
		require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/v1/usuarios", env.admin, map[string]any{
			"nome": "Usuário " + u.rol, "email": u.email, "senha": "senha1234", "rol": u.rol,
		}, &usuario))
		if u.rol == model.RolProdutor {
			require.Equal(t, http.StatusNoContent, env.do(t, http.MethodPost, fmt.Sprintf("/v1/produtores/%d/usuarios", prod.ID),
				env.admin, map[string]any{"usuario_id": usuario.ID, "eh_proprietario": true}, nil))
		} else {
			require.Equal(t, http.StatusNoContent, env.do(t, http.MethodPost, fmt.Sprintf("/v1/fornecedores/%d/usuarios", forn.ID),
				env.admin, map[string]any{"usuario_id": usuario.ID, "role": "Admin"}, nil))
		}
	}
	out.tokenProdutor = env.login(t, "produtor@e2e.test", "senha1234")
	out.tokenFornecedor = env.login(t, "fornecedor@e2e.test", "senha1234")

	var produto comID
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/v1/produtos", out.tokenFornecedor, map[string]any{
		"fornecedor_id": forn.ID, "codigo": "SEM-01", "nome": "Semente de soja", "unidade": "SC", "categoria": "Sementes",
	}, &produto))
	out.produtoID = produto.ID

	var catalogo comID
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/v1/catalogos", out.tokenFornecedor, map[string]any{
		"fornecedor_id": forn.ID, "safra_id": safra.ID, "nome": "Tabela safra", "data_inicio": agora.AddDate(0, 0, -1),
	}, &catalogo))
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, fmt.Sprintf("/v1/catalogos/%d/itens", catalogo.ID),
		out.tokenFornecedor, map[string]any{"produto_id": produto.ID, "preco_base": "150.00"}, nil))
	return out
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_NegociacaoAteFechamento(t *testing.T) {
	env := setupE2E(t)
	c := cadastrar(t, env)

	var pedido struct {
		ID         int    `json:"id"`
		Status     string `json:"status"`
		ValorTotal string `json:"valor_total"`
	}
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/v1/pedidos", c.tokenProdutor, map[string]any{
		"produtor_id": c.produtorID, "fornecedor_id": c.fornecedorID,
		"itens": []map[string]any{{"produto_id": c.produtoID, "quantidade": "10", "percentual_desconto": "5"}},
	}, &pedido))
	assert.Equal(t, string(model.StatusPedidoEmNegociacao), pedido.Status)

	path := fmt.Sprintf("/v1/pedidos/%d", pedido.ID)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodPost, path+"/propostas/fornecedor", c.tokenFornecedor,
		map[string]string{"observacao": "Frete incluso"}, nil))
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, path+"/propostas/produtor", c.tokenProdutor,
		map[string]string{"acao": "Aceitou"}, &pedido))
	assert.Equal(t, string(model.StatusPedidoFechado), pedido.Status)

	// closed orders accept no further proposals
	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, path+"/propostas/produtor", c.tokenProdutor,
		map[string]string{"acao": "Cancelou"}, nil))

	var propostas []map[string]any
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, path+"/propostas", c.tokenFornecedor, nil, &propostas))
	assert.Len(t, propostas, 3)

	n, err := env.rdb.LLen(context.Background(), worker.QueueNotificacoes).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestE2E_ExpiracaoPorPrazo(t *testing.T) {
	env := setupE2E(t)
	c := cadastrar(t, env)

	var pedido comID
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/v1/pedidos", c.tokenProdutor, map[string]any{
		"produtor_id": c.produtorID, "fornecedor_id": c.fornecedorID,
	}, &pedido))

	require.NoError(t, env.db.Model(&model.Pedido{}).Where("id = ?", pedido.ID).
		Update("data_limite_interacao", time.Now().UTC().Add(-time.Hour)).Error)

	res := worker.VarrerPrazos(context.Background(), worker.PrazoCronConfig{Pedidos: env.svcs.Pedidos})
	assert.Equal(t, 1, res.PedidosExpirados)

	var depois struct {
		Status string `json:"status"`
	}
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, fmt.Sprintf("/v1/pedidos/%d", pedido.ID), c.tokenProdutor, nil, &depois))
	assert.Equal(t, string(model.StatusPedidoCanceladoPorTempoLimite), depois.Status)

	// a second sweep finds nothing left to expire
	res = worker.VarrerPrazos(context.Background(), worker.PrazoCronConfig{Pedidos: env.svcs.Pedidos})
	assert.Equal(t, 0, res.PedidosExpirados)
}
