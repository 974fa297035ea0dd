package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	// Infraestrutura e utilitários
	"govitrine/config"
	_ "govitrine/docs"
	"govitrine/internal/pkg/cache"
	"govitrine/internal/pkg/database"
	"govitrine/internal/pkg/logger"
	"govitrine/internal/pkg/middleware"
	"govitrine/internal/pkg/token"

	// Camadas para Injeção de Dependências
	"govitrine/internal/api/cart"
	"govitrine/internal/api/catalog"
	"govitrine/internal/api/router"
	"govitrine/internal/catalog/view"
	"govitrine/internal/repository/cartrepo"
	"govitrine/internal/repository/catalogrepo"
	"govitrine/internal/service/cartservice"
	"govitrine/internal/service/catalogservice"
)

func main() {
	// 0. Variáveis de ambiente (.env é opcional: em Docker vêm do sistema)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	// 1. Configuração e Logger
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Erro de Configuração: %v", err)
	}
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("⚡ Inicializando serviço GoVitrine...", map[string]interface{}{"env": cfg.Environment})

	locale, err := language.Parse(cfg.CatalogLocale)
	if err != nil {
		log.Warn("CATALOG_LOCALE inválido; usando pt-BR.", map[string]interface{}{"value": cfg.CatalogLocale})
		locale = language.BrazilianPortuguese
	}

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	pool := database.DefaultPoolConfig()
	pool.MaxOpenConns = cfg.DBMaxOpenConns
	pool.MaxIdleConns = cfg.DBMaxIdleConns
	pool.PingTimeout = cfg.DBTimeout

	db, err := database.NewPostgresDB(cfg.DatabaseURL, pool)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient, err := cache.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		log.Fatal("Falha ao conectar ao Redis.", err)
	}
	defer cacheClient.Close()
	log.Info("Conexão Redis estabelecida.", nil)

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler

	// A. Repositórios
	catalogRepo := catalogrepo.NewCatalogRepository(db, cacheClient, cfg.DBTimeout, cfg.CatalogSnapshotTTL, log)
	cartRepo := cartrepo.NewCartRepository(cacheClient, cfg.CartSessionTTL, cfg.CacheTimeout, log)
	log.Debug("Repositórios inicializados.", nil)

	// B. Serviços
	catalogSvc := catalogservice.NewService(catalogRepo, log, catalogservice.Options{
		Locale: locale,
		Thresholds: view.Thresholds{
			PopularViews: cfg.PopularViewsThreshold,
			PopularLikes: cfg.PopularLikesThreshold,
			LowStock:     cfg.LowStockThreshold,
			RecentDays:   cfg.RecentWindowDays,
		},
		DefaultPageSize: cfg.CatalogPageSize,
		MaxPageSize:     cfg.CatalogMaxPageSize,
	})
	cartSvc := cartservice.NewService(catalogRepo, cartRepo, log)
	log.Debug("Serviços inicializados.", nil)

	// C. Tokens (JWT emitidos pelo serviço de autenticação)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	// D. Handlers
	catalogHandler := catalog.NewHandler(catalogSvc, log)
	cartHandler := cart.NewHandler(cartSvc, log)

	// 4. Roteador e Servidor
	r := router.NewRouter(router.Deps{
		Catalog:   catalogHandler,
		Cart:      cartHandler,
		TokenSvc:  tokenSvc,
		RateLimit: middleware.RateLimiter(cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod, log),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Sessões ociosas saem da memória; o estado continua no Redis.
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go cartSvc.RunJanitor(janitorCtx, cfg.CartJanitorEvery, cfg.CartSessionIdle)

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor GoVitrine ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)
	stopJanitor()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
