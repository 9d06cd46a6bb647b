package router

import (
	"context"
	"time"

	"agriis/internal/config"
	"agriis/internal/handler"
	"agriis/internal/middleware"
	"agriis/internal/model"
	"agriis/internal/repository"
	"agriis/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const intervaloLimpezaLimiter = 5 * time.Minute

// Servicos groups every domain service. main keeps a reference so the
// deadline cron shares the same PedidoService as the HTTP layer.
type Servicos struct {
	Autenticacao service.AutenticacaoService
	Usuarios     service.UsuarioService
	Culturas     service.CulturaService
	Safras       service.SafraService
	Produtores   service.ProdutorService
	Fornecedores service.FornecedorService
	Propriedades service.PropriedadeService
	Catalogos    service.CatalogoService
	Pagamentos   service.PagamentoService
	Segmentacoes service.SegmentacaoService
	Combos       service.ComboService
	Pedidos      service.PedidoService
}

// NovosServicos builds the repositories and services.
// Dependency graph: Service ← Repository ← DB
func NovosServicos(cfg *config.Config, db *gorm.DB, notificador service.NotificadorPedido) *Servicos {
	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	culturaRepo := repository.NewCulturaRepository(db)
	safraRepo := repository.NewSafraRepository(db)
	produtorRepo := repository.NewProdutorRepository(db)
	fornecedorRepo := repository.NewFornecedorRepository(db)
	propriedadeRepo := repository.NewPropriedadeRepository(db)
	catalogoRepo := repository.NewCatalogoRepository(db)
	pagamentoRepo := repository.NewPagamentoRepository(db)
	segmentacaoRepo := repository.NewSegmentacaoRepository(db)
	comboRepo := repository.NewComboRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	return &Servicos{
		Autenticacao: service.NewAutenticacaoService(usuarioRepo, tokenRepo, cfg),
		Usuarios:     service.NewUsuarioService(usuarioRepo, tokenRepo),
		Culturas:     service.NewCulturaService(culturaRepo),
		Safras:       service.NewSafraService(safraRepo),
		Produtores:   service.NewProdutorService(produtorRepo, usuarioRepo, fornecedorRepo),
		Fornecedores: service.NewFornecedorService(fornecedorRepo, usuarioRepo),
		Propriedades: service.NewPropriedadeService(propriedadeRepo, produtorRepo),
		Catalogos:    service.NewCatalogoService(catalogoRepo, safraRepo, fornecedorRepo),
		Pagamentos:   service.NewPagamentoService(pagamentoRepo, culturaRepo, fornecedorRepo),
		Segmentacoes: service.NewSegmentacaoService(segmentacaoRepo, fornecedorRepo),
		Combos:       service.NewComboService(comboRepo, safraRepo, produtorRepo, fornecedorRepo, propriedadeRepo),
		Pedidos: service.NewPedidoService(pedidoRepo, produtorRepo, fornecedorRepo, catalogoRepo,
			notificador, cfg.PrazoLimitePedido()),
	}
}

// New wires the handlers and returns a configured Gin engine. The rate
// limiter janitors stop when ctx is cancelled.
// Dependency graph: Handler ← Service
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb redis.Cmdable, svcs *Servicos) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := middleware.NewLimiterStore(cfg.RateLimitRPS, cfg.RateLimitBurst)
	loginLimiter := middleware.NewLoginLimiterStore()
	limiter.StartJanitor(ctx, intervaloLimpezaLimiter)
	loginLimiter.StartJanitor(ctx, intervaloLimpezaLimiter)

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(limiter))

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(svcs.Autenticacao, svcs.Usuarios)
	usuariosH := handler.NewUsuariosHandler(svcs.Usuarios)
	culturasH := handler.NewCulturasHandler(svcs.Culturas)
	safrasH := handler.NewSafrasHandler(svcs.Safras)
	produtoresH := handler.NewProdutoresHandler(svcs.Produtores)
	fornecedoresH := handler.NewFornecedoresHandler(svcs.Fornecedores)
	propriedadesH := handler.NewPropriedadesHandler(svcs.Propriedades)
	catalogosH := handler.NewCatalogosHandler(svcs.Catalogos)
	pagamentosH := handler.NewPagamentosHandler(svcs.Pagamentos)
	segmentacoesH := handler.NewSegmentacoesHandler(svcs.Segmentacoes)
	combosH := handler.NewCombosHandler(svcs.Combos)
	pedidosH := handler.NewPedidosHandler(svcs.Pedidos)

	const (
		admin      = model.RolAdministrador
		produtor   = model.RolProdutor
		fornecedor = model.RolFornecedor
	)
	todos := middleware.RequireRole(admin, produtor, fornecedor)
	apenasAdmin := middleware.RequireRole(admin)
	adminOuProdutor := middleware.RequireRole(admin, produtor)
	adminOuFornecedor := middleware.RequireRole(admin, fornecedor)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(loginLimiter), authH.Login)
		auth.POST("/refresh", authH.Refresh)
		auth.POST("/logout", authH.Logout)
	}

	// Protected routes
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		v1.GET("/auth/me", todos, authH.Me)

		usuarios := v1.Group("/usuarios")
		{
			usuarios.POST("", apenasAdmin, usuariosH.Criar)
			usuarios.GET("", apenasAdmin, usuariosH.Listar)
			usuarios.GET("/:id", apenasAdmin, usuariosH.ObterPorID)
			usuarios.PUT("/:id", apenasAdmin, usuariosH.Atualizar)
			usuarios.DELETE("/:id", apenasAdmin, usuariosH.Desativar)
			usuarios.PATCH("/:id/reativar", apenasAdmin, usuariosH.Reativar)
			// own password or admin reset; checked in the service
			usuarios.PUT("/:id/senha", todos, usuariosH.AlterarSenha)
		}

		// Reference data: everyone reads, administrador writes
		culturas := v1.Group("/culturas")
		{
			culturas.GET("", todos, culturasH.Listar)
			culturas.GET("/:id", todos, culturasH.ObterPorID)
			culturas.POST("", apenasAdmin, culturasH.Criar)
			culturas.PUT("/:id", apenasAdmin, culturasH.Atualizar)
			culturas.DELETE("/:id", apenasAdmin, culturasH.Remover)
		}

		safras := v1.Group("/safras")
		{
			safras.GET("", todos, safrasH.Listar)
			safras.GET("/atual", todos, safrasH.Atual)
			safras.GET("/ano/:ano", todos, safrasH.PorAnoColheita)
			safras.GET("/:id", todos, safrasH.ObterPorID)
			safras.POST("", apenasAdmin, safrasH.Criar)
			safras.PUT("/:id", apenasAdmin, safrasH.Atualizar)
			safras.DELETE("/:id", apenasAdmin, safrasH.Remover)
		}

		produtores := v1.Group("/produtores")
		{
			produtores.POST("", adminOuProdutor, produtoresH.Criar)
			produtores.GET("", adminOuFornecedor, produtoresH.Listar)
			produtores.GET("/meus", todos, produtoresH.Meus)
			produtores.GET("/documento/:documento", adminOuFornecedor, produtoresH.PorDocumento)
			produtores.GET("/:id", todos, produtoresH.ObterPorID)
			produtores.PUT("/:id", adminOuProdutor, produtoresH.Atualizar)
			produtores.DELETE("/:id", apenasAdmin, produtoresH.Remover)
			produtores.PUT("/:id/validacao", apenasAdmin, produtoresH.Validar)
			produtores.POST("/:id/usuarios", adminOuProdutor, produtoresH.VincularUsuario)
			produtores.GET("/:id/propriedades", todos, propriedadesH.PorProdutor)
			produtores.GET("/:id/area", todos, propriedadesH.Area)
			produtores.GET("/:id/combos", todos, combosH.ValidosParaProdutor)
		}

		fornecedores := v1.Group("/fornecedores")
		{
			fornecedores.POST("", apenasAdmin, fornecedoresH.Criar)
			fornecedores.GET("", todos, fornecedoresH.Listar)
			fornecedores.GET("/meus", todos, fornecedoresH.Meus)
			fornecedores.GET("/cnpj/:cnpj", todos, fornecedoresH.PorCnpj)
			fornecedores.GET("/:id", todos, fornecedoresH.ObterPorID)
			fornecedores.PUT("/:id", adminOuFornecedor, fornecedoresH.Atualizar)
			fornecedores.DELETE("/:id", apenasAdmin, fornecedoresH.Desativar)
			fornecedores.POST("/:id/usuarios", adminOuFornecedor, fornecedoresH.VincularUsuario)
			fornecedores.GET("/:id/produtos", todos, catalogosH.ProdutosPorFornecedor)
			fornecedores.GET("/:id/catalogos/vigentes", todos, catalogosH.Vigentes)
			fornecedores.GET("/:id/segmentacoes", adminOuFornecedor, segmentacoesH.PorFornecedor)
			fornecedores.GET("/:id/desconto-segmentacao", todos, segmentacoesH.Desconto)
			fornecedores.GET("/:id/culturas/:cultura_id/formas-pagamento", todos, pagamentosH.PorFornecedorCultura)
			fornecedores.DELETE("/:id/formas-pagamento/:assoc_id", adminOuFornecedor, pagamentosH.Desassociar)
		}

		propriedades := v1.Group("/propriedades", adminOuProdutor)
		{
			propriedades.POST("", propriedadesH.Criar)
			propriedades.GET("/:id", propriedadesH.ObterPorID)
			propriedades.PUT("/:id", propriedadesH.Atualizar)
			propriedades.DELETE("/:id", propriedadesH.Remover)
		}

		produtos := v1.Group("/produtos")
		{
			produtos.POST("", adminOuFornecedor, catalogosH.CriarProduto)
			produtos.GET("/:id", todos, catalogosH.ObterProduto)
			produtos.PUT("/:id", adminOuFornecedor, catalogosH.AtualizarProduto)
		}

		catalogos := v1.Group("/catalogos")
		{
			catalogos.GET("", todos, catalogosH.Listar)
			catalogos.GET("/:id", todos, catalogosH.ObterPorID)
			catalogos.GET("/:id/itens/:produto_id/preco", todos, catalogosH.Preco)
			catalogos.POST("", adminOuFornecedor, catalogosH.Criar)
			catalogos.PUT("/:id", adminOuFornecedor, catalogosH.Atualizar)
			catalogos.DELETE("/:id", adminOuFornecedor, catalogosH.Remover)
			catalogos.PUT("/:id/itens", adminOuFornecedor, catalogosH.AdicionarItem)
			catalogos.DELETE("/:id/itens/:produto_id", adminOuFornecedor, catalogosH.RemoverItem)
		}

		formas := v1.Group("/formas-pagamento")
		{
			formas.GET("", todos, pagamentosH.ListarFormas)
			formas.GET("/:id", todos, pagamentosH.ObterForma)
			formas.POST("", apenasAdmin, pagamentosH.CriarForma)
			formas.PUT("/:id", apenasAdmin, pagamentosH.AtualizarForma)
			formas.DELETE("/:id", apenasAdmin, pagamentosH.RemoverForma)
			formas.POST("/associacoes", adminOuFornecedor, pagamentosH.Associar)
		}

		segmentacoes := v1.Group("/segmentacoes", adminOuFornecedor)
		{
			segmentacoes.POST("", segmentacoesH.Criar)
			segmentacoes.GET("/:id", segmentacoesH.ObterPorID)
			segmentacoes.PUT("/:id", segmentacoesH.Atualizar)
			segmentacoes.DELETE("/:id", segmentacoesH.Remover)
		}

		combos := v1.Group("/combos")
		{
			combos.GET("", todos, combosH.Listar)
			combos.GET("/:id", todos, combosH.ObterPorID)
			combos.POST("/:id/desconto", todos, combosH.CalcularDesconto)
			combos.POST("", adminOuFornecedor, combosH.Criar)
			combos.PUT("/:id", adminOuFornecedor, combosH.Atualizar)
			combos.PATCH("/:id/status", adminOuFornecedor, combosH.AlterarStatus)
			combos.DELETE("/:id", adminOuFornecedor, combosH.Remover)
		}

		// Order access is checked against the caller's producer/supplier links
		// inside the service.
		pedidos := v1.Group("/pedidos", todos)
		{
			pedidos.POST("", pedidosH.Criar)
			pedidos.GET("", pedidosH.Listar)
			pedidos.GET("/:id", pedidosH.ObterPorID)
			pedidos.POST("/:id/itens", pedidosH.AdicionarItem)
			pedidos.PUT("/:id/itens/:item_id", pedidosH.AtualizarItem)
			pedidos.DELETE("/:id/itens/:item_id", pedidosH.RemoverItem)
			pedidos.POST("/:id/itens/:item_id/transportes", pedidosH.AgendarTransporte)
			pedidos.GET("/:id/propostas", pedidosH.ListarPropostas)
			pedidos.POST("/:id/propostas/produtor", pedidosH.PropostaProdutor)
			pedidos.POST("/:id/propostas/fornecedor", pedidosH.PropostaFornecedor)
		}
	}

	// Swagger UI only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
