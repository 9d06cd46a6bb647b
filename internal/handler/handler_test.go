package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agriis/internal/dto"
	"agriis/internal/middleware"
	"agriis/internal/model"
	"agriis/internal/repository"
	"agriis/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

// ── Helpers ───────────────────────────────────────────────────────────────────

func signToken(t *testing.T, userID int, rol string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID, "email": "teste@agriis.com", "rol": rol,
		"exp": time.Now().Add(time.Hour).Unix(), "iat": time.Now().Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func newTestRouter() (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	return r, r.Group("/v1", middleware.JWTAuth(testSecret))
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// ── Service stubs ─────────────────────────────────────────────────────────────

type stubPedidoService struct {
	service.PedidoService
	ator     service.Ator
	query    dto.ListarPedidosQuery
	proposta dto.PropostaProdutorRequest
	err      error
}

func (s *stubPedidoService) RegistrarPropostaProdutor(_ context.Context, a service.Ator, id int, req dto.PropostaProdutorRequest) (*dto.PedidoResponse, error) {
	s.ator, s.proposta = a, req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.PedidoResponse{ID: id, Status: string(model.StatusPedidoFechado)}, nil
}

func (s *stubPedidoService) Listar(_ context.Context, a service.Ator, q dto.ListarPedidosQuery) (*dto.ListaPaginada[dto.PedidoResponse], error) {
	s.ator, s.query = a, q
	return &dto.ListaPaginada[dto.PedidoResponse]{Itens: []dto.PedidoResponse{}, Pagina: 1, TamanhoPagina: 20}, s.err
}

func (s *stubPedidoService) ObterPorID(_ context.Context, _ service.Ator, _ int) (*dto.PedidoResponse, error) {
	return nil, s.err
}

type stubAuthService struct {
	service.AutenticacaoService
	err error
}

func (s *stubAuthService) Login(_ context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.LoginResponse{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer",
		Usuario: dto.UsuarioResponse{Email: req.Email}}, nil
}

type stubComboService struct {
	service.ComboService
	filtro repository.ComboFiltro
}

func (s *stubComboService) Listar(_ context.Context, f repository.ComboFiltro) ([]dto.ComboResponse, error) {
	s.filtro = f
	return []dto.ComboResponse{}, nil
}

type stubSegmentacaoService struct {
	service.SegmentacaoService
	area      decimal.Decimal
	categoria string
}

func (s *stubSegmentacaoService) ObterDesconto(_ context.Context, fid int, area decimal.Decimal, categoria string) (*dto.DescontoSegmentacaoResponse, error) {
	s.area, s.categoria = area, categoria
	return &dto.DescontoSegmentacaoResponse{FornecedorID: fid, Area: area, Categoria: categoria,
		PercentualDesconto: decimal.NewFromInt(5)}, nil
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestResponderErro_MapeiaSentinelas(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: quantidade", model.ErrArgumentoInvalido), http.StatusBadRequest, "argumento_invalido"},
		{fmt.Errorf("%w: pedido fechado", model.ErrTransicaoInvalida), http.StatusConflict, "transicao_invalida"},
		{fmt.Errorf("%w: pedido 9", service.ErrNaoEncontrado), http.StatusNotFound, "nao_encontrado"},
		{fmt.Errorf("%w: cpf", service.ErrConflito), http.StatusConflict, "conflito"},
		{fmt.Errorf("%w: sem vínculo", service.ErrProibido), http.StatusForbidden, "proibido"},
		{service.ErrCredenciaisInvalidas, http.StatusUnauthorized, "credenciais_invalidas"},
		{fmt.Errorf("conexão perdida"), http.StatusInternalServerError, ""},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			r, _ := newTestRouter()
			r.GET("/x", func(c *gin.Context) { responderErro(c, tc.err) })
			w := doJSON(t, r, http.MethodGet, "/x", "", nil)
			assert.Equal(t, tc.status, w.Code)
			body := decodeBody(t, w)
			if tc.code != "" {
				assert.Equal(t, tc.code, body["code"])
			} else {
				assert.Equal(t, "Erro interno do servidor", body["detail"])
			}
		})
	}
}

func TestPropostaProdutor_RepassaAtorDoToken(t *testing.T) {
	svc := &stubPedidoService{}
	r, v1 := newTestRouter()
	v1.POST("/pedidos/:id/propostas/produtor", NewPedidosHandler(svc).PropostaProdutor)

	w := doJSON(t, r, http.MethodPost, "/v1/pedidos/12/propostas/produtor",
		signToken(t, 7, model.RolProdutor), dto.PropostaProdutorRequest{Acao: "Aceitou"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, service.Ator{UsuarioID: 7, Rol: model.RolProdutor}, svc.ator)
	assert.Equal(t, "Aceitou", svc.proposta.Acao)
	assert.Equal(t, float64(12), decodeBody(t, w)["id"])
}

func TestPropostaProdutor_AcaoDesconhecida422(t *testing.T) {
	r, v1 := newTestRouter()
	v1.POST("/pedidos/:id/propostas/produtor", NewPedidosHandler(&stubPedidoService{}).PropostaProdutor)

	w := doJSON(t, r, http.MethodPost, "/v1/pedidos/1/propostas/produtor",
		signToken(t, 7, model.RolProdutor), dto.PropostaProdutorRequest{Acao: "Desistiu"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fields := decodeBody(t, w)["fields"].(map[string]any)
	assert.Equal(t, "oneof", fields["acao"])
}

func TestPropostaProdutor_PedidoForaDeNegociacao409(t *testing.T) {
	svc := &stubPedidoService{err: fmt.Errorf("%w: pedido já fechado", model.ErrTransicaoInvalida)}
	r, v1 := newTestRouter()
	v1.POST("/pedidos/:id/propostas/produtor", NewPedidosHandler(svc).PropostaProdutor)

	w := doJSON(t, r, http.MethodPost, "/v1/pedidos/1/propostas/produtor",
		signToken(t, 7, model.RolProdutor), dto.PropostaProdutorRequest{Acao: "Cancelou"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "transicao_invalida", decodeBody(t, w)["code"])
}

func TestPedidos_JSONMalformado400(t *testing.T) {
	r, v1 := newTestRouter()
	v1.POST("/pedidos", NewPedidosHandler(&stubPedidoService{}).Criar)

	w := doJSON(t, r, http.MethodPost, "/v1/pedidos", signToken(t, 7, model.RolProdutor), `{"produtor_id":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["detail"], "JSON inválido")
}

func TestPedidos_IDInvalido400(t *testing.T) {
	r, v1 := newTestRouter()
	v1.GET("/pedidos/:id", NewPedidosHandler(&stubPedidoService{}).ObterPorID)

	for _, id := range []string{"abc", "0", "-3"} {
		w := doJSON(t, r, http.MethodGet, "/v1/pedidos/"+id, signToken(t, 7, model.RolProdutor), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
	}
}

func TestPedidos_ListarBindQuery(t *testing.T) {
	svc := &stubPedidoService{}
	r, v1 := newTestRouter()
	v1.GET("/pedidos", NewPedidosHandler(svc).Listar)

	w := doJSON(t, r, http.MethodGet,
		"/v1/pedidos?fornecedor_id=4&status=Fechado&desde=2024-09-01&pagina=2",
		signToken(t, 3, model.RolFornecedor), nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, svc.query.FornecedorID)
	assert.Equal(t, 4, *svc.query.FornecedorID)
	assert.Nil(t, svc.query.ProdutorID)
	assert.Equal(t, "Fechado", svc.query.Status)
	assert.Equal(t, 2, svc.query.Pagina)
	require.NotNil(t, svc.query.Desde)
	assert.Equal(t, time.September, svc.query.Desde.Month())
}

func TestPedidos_SemToken401(t *testing.T) {
	r, v1 := newTestRouter()
	v1.GET("/pedidos", NewPedidosHandler(&stubPedidoService{}).Listar)

	w := doJSON(t, r, http.MethodGet, "/v1/pedidos", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin(t *testing.T) {
	t.Run("sucesso", func(t *testing.T) {
		r, _ := newTestRouter()
		r.POST("/login", NewAuthHandler(&stubAuthService{}, nil).Login)
		w := doJSON(t, r, http.MethodPost, "/login", "", dto.LoginRequest{Email: "ana@agriis.com", Senha: "segredo123"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "Bearer", decodeBody(t, w)["token_type"])
	})
	t.Run("credenciais inválidas", func(t *testing.T) {
		r, _ := newTestRouter()
		r.POST("/login", NewAuthHandler(&stubAuthService{err: service.ErrCredenciaisInvalidas}, nil).Login)
		w := doJSON(t, r, http.MethodPost, "/login", "", dto.LoginRequest{Email: "ana@agriis.com", Senha: "errada123"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
	t.Run("e-mail ausente", func(t *testing.T) {
		r, _ := newTestRouter()
		r.POST("/login", NewAuthHandler(&stubAuthService{}, nil).Login)
		w := doJSON(t, r, http.MethodPost, "/login", "", dto.LoginRequest{Senha: "segredo123"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestCombos_ListarFiltro(t *testing.T) {
	svc := &stubComboService{}
	r, v1 := newTestRouter()
	v1.GET("/combos", NewCombosHandler(svc).Listar)

	w := doJSON(t, r, http.MethodGet, "/v1/combos?safra_id=2&status=Ativo", signToken(t, 1, model.RolAdministrador), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, svc.filtro.FornecedorID)
	require.NotNil(t, svc.filtro.SafraID)
	assert.Equal(t, 2, *svc.filtro.SafraID)
	require.NotNil(t, svc.filtro.Status)
	assert.Equal(t, model.StatusComboAtivo, *svc.filtro.Status)

	w = doJSON(t, r, http.MethodGet, "/v1/combos?safra_id=x", signToken(t, 1, model.RolAdministrador), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSegmentacoes_Desconto(t *testing.T) {
	svc := &stubSegmentacaoService{}
	r, _ := newTestRouter()
	r.GET("/fornecedores/:id/desconto-segmentacao", NewSegmentacoesHandler(svc).Desconto)

	w := doJSON(t, r, http.MethodGet, "/fornecedores/3/desconto-segmentacao?area=420.5&categoria=Sementes", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decimal.RequireFromString("420.5").Equal(svc.area))
	assert.Equal(t, "Sementes", svc.categoria)

	w = doJSON(t, r, http.MethodGet, "/fornecedores/3/desconto-segmentacao?area=-1&categoria=Sementes", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, r, http.MethodGet, "/fornecedores/3/desconto-segmentacao?area=10", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth_RedisIndisponivel(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	r, _ := newTestRouter()
	r.GET("/health", Health(db, rdb))
	w := doJSON(t, r, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "connected", body["db"])
	assert.Equal(t, "error", body["redis"])
	assert.Equal(t, false, body["ok"])
}
