package router

import (
	"time"

	"cafeops/internal/config"
	"cafeops/internal/handler"
	"cafeops/internal/middleware"
	"cafeops/internal/repository"
	"cafeops/internal/rules"
	"cafeops/internal/service"
	"cafeops/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, engine *rules.Engine) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	produtoRepo := repository.NewProdutoRepository(db)
	caixaRepo := repository.NewCaixaRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	lancamentoRepo := repository.NewLancamentoRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	produtoSvc := service.NewProdutoService(produtoRepo)
	clienteSvc := service.NewClienteService(clienteRepo)
	fidelidadeSvc := service.NewFidelidadeService(clienteRepo)
	caixaSvc := service.NewCaixaService(caixaRepo, dispatcher)
	pedidoSvc := service.NewPedidoService(pedidoRepo, produtoRepo, caixaSvc, fidelidadeSvc)
	importacaoSvc := service.NewImportacaoService(lancamentoRepo, engine)
	conciliacaoSvc := service.NewConciliacaoService(lancamentoRepo)
	relatorioSvc := service.NewRelatorioService(lancamentoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	produtosH := handler.NewProdutoHandler(produtoSvc)
	caixaH := handler.NewCaixaHandler(caixaSvc)
	pedidosH := handler.NewPedidoHandler(pedidoSvc)
	clientesH := handler.NewClienteHandler(clienteSvc)
	financeiroH := handler.NewFinanceiroHandler(importacaoSvc, conciliacaoSvc, relatorioSvc, dispatcher)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: barista, supervisor, administrador — declared per-endpoint
		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", authH.CriarUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.PUT("/:id", authH.AtualizarUsuario)
			usuarios.DELETE("/:id", authH.DesativarUsuario)
			usuarios.PATCH("/:id/reativar", authH.ReativarUsuario)
		}

		// GET catalog — every authenticated role can read
		v1.GET("/produtos", middleware.RequireRole("barista", "supervisor", "administrador"), produtosH.Listar)
		v1.GET("/produtos/:id", middleware.RequireRole("barista", "supervisor", "administrador"), produtosH.Obter)
		// Write operations — supervisor or administrador
		prods := v1.Group("/produtos", middleware.RequireRole("supervisor", "administrador"))
		{
			prods.POST("", produtosH.Criar)
			prods.PUT("/:id", produtosH.Atualizar)
			prods.DELETE("/:id", produtosH.Desativar)
			prods.PATCH("/:id/reativar", produtosH.Reativar)
		}

		caixa := v1.Group("/caixa")
		{
			caixa.POST("/abrir", middleware.RequireRole("barista", "supervisor", "administrador"), caixaH.Abrir)
			caixa.POST("/operacao", middleware.RequireRole("barista", "supervisor", "administrador"), caixaH.RegistrarOperacao)
			caixa.POST("/conferencia", middleware.RequireRole("barista", "supervisor", "administrador"), caixaH.AtualizarConferencia)
			caixa.POST("/fechar", middleware.RequireRole("barista", "supervisor", "administrador"), caixaH.Fechar)
			caixa.GET("/ativo", middleware.RequireRole("barista", "supervisor", "administrador"), caixaH.Ativo)
			caixa.GET("/historico", middleware.RequireRole("supervisor", "administrador"), caixaH.Historico)
			caixa.GET("/:id", middleware.RequireRole("supervisor", "administrador"), caixaH.Obter)
			caixa.GET("/:id/relatorio", middleware.RequireRole("supervisor", "administrador"), caixaH.Relatorio)
		}

		pedidos := v1.Group("/pedidos", middleware.RequireRole("barista", "supervisor", "administrador"))
		{
			pedidos.POST("", pedidosH.Criar)
			pedidos.GET("", pedidosH.Listar)
			pedidos.GET("/:id", pedidosH.Obter)
			pedidos.POST("/:id/itens", pedidosH.AdicionarItem)
			pedidos.DELETE("/:id/itens/:itemId", pedidosH.RemoverItem)
			pedidos.PATCH("/:id/status", pedidosH.AtualizarStatus)
			pedidos.POST("/:id/pagamentos", pedidosH.AdicionarPagamento)
			pedidos.POST("/:id/cashback", pedidosH.UsarCashback)
			pedidos.POST("/:id/cancelar", pedidosH.Cancelar)
		}

		clientes := v1.Group("/clientes", middleware.RequireRole("barista", "supervisor", "administrador"))
		{
			clientes.POST("", clientesH.Criar)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.Obter)
			clientes.GET("/:id/cashback", clientesH.Cashback)
			clientes.PUT("/:id", clientesH.Atualizar)
		}

		// Financeiro — administrador only
		fin := v1.Group("/financeiro", middleware.RequireRole("administrador"))
		{
			fin.POST("/importar", financeiroH.Importar)
			fin.POST("/categorizar-pendentes", financeiroH.CategorizarPendentes)
			fin.GET("/pendentes", financeiroH.ListarPendentes)
			fin.PUT("/lancamentos/:id", financeiroH.Categorizar)
			fin.POST("/reconciliar", financeiroH.Reconciliar)
			fin.GET("/reconciliacoes", financeiroH.ListarReconciliacoes)
			fin.GET("/dre", financeiroH.DRE)
			fin.POST("/relatorio", financeiroH.GerarRelatorio)
			fin.GET("/exportar", financeiroH.ExportarCSV)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
