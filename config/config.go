package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config armazena todas as configurações do serviço GoVitrine.
// Os campos cobrem infraestrutura (DB, Cache, Segurança) e os parâmetros do catálogo e do carrinho.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string

	// Banco de Dados (PostgreSQL)
	DatabaseURL    string
	DBTimeout      time.Duration
	DBMaxOpenConns int
	DBMaxIdleConns int

	// Cache (Redis)
	RedisAddr    string
	CacheTimeout time.Duration

	// Segurança (JWT)
	JWTSecretKey string
	TokenExpiry  time.Duration

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration

	// Catálogo
	CatalogLocale         string
	CatalogSnapshotTTL    time.Duration
	CatalogPageSize       int
	CatalogMaxPageSize    int
	PopularViewsThreshold int
	PopularLikesThreshold int
	LowStockThreshold     int
	RecentWindowDays      int

	// Carrinho / Wishlist
	CartSessionTTL   time.Duration
	CartSessionIdle  time.Duration
	CartJanitorEvery time.Duration
}

// LoadConfig lê as configurações das variáveis de ambiente.
// Variáveis obrigatórias ausentes e valores malformados são reunidos em um único erro.
func LoadConfig() (*Config, error) {
	env := &envReader{}

	cfg := &Config{
		// 1. Geral
		Port:        env.str("PORT", "8080"),
		Environment: env.str("ENV", "development"),
		LogLevel:    env.str("LOG_LEVEL", "info"),

		// 2. Banco de Dados (PostgreSQL)
		DatabaseURL:    env.required("DATABASE_URL"),
		DBTimeout:      env.duration("DB_TIMEOUT_SEC", 5, time.Second),
		DBMaxOpenConns: env.integer("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: env.integer("DB_MAX_IDLE_CONNS", 10),

		// 3. Cache (Redis)
		RedisAddr:    env.str("REDIS_ADDR", "localhost:6379"),
		CacheTimeout: env.duration("CACHE_TIMEOUT_SEC", 10, time.Second),

		// 4. Segurança (JWT)
		JWTSecretKey: env.required("JWT_SECRET_KEY"),
		TokenExpiry:  env.duration("JWT_EXPIRY_MIN", 60, time.Minute),

		// 5. Rate Limiting
		RateLimitMaxRequests: env.integer("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      env.duration("RATE_LIMIT_PERIOD_MIN", 1, time.Minute),

		// 6. Catálogo
		CatalogLocale:         env.str("CATALOG_LOCALE", "pt-BR"),
		CatalogSnapshotTTL:    env.duration("CATALOG_SNAPSHOT_TTL_SEC", 60, time.Second),
		CatalogPageSize:       env.integer("CATALOG_PAGE_SIZE", 12),
		CatalogMaxPageSize:    env.integer("CATALOG_MAX_PAGE_SIZE", 100),
		PopularViewsThreshold: env.integer("POPULAR_VIEWS_THRESHOLD", 100),
		PopularLikesThreshold: env.integer("POPULAR_LIKES_THRESHOLD", 50),
		LowStockThreshold:     env.integer("LOW_STOCK_THRESHOLD", 5),
		RecentWindowDays:      env.integer("RECENT_WINDOW_DAYS", 7),

		// 7. Carrinho
		CartSessionTTL:   env.duration("CART_SESSION_TTL_HOURS", 72, time.Hour),
		CartSessionIdle:  env.duration("CART_SESSION_IDLE_MIN", 30, time.Minute),
		CartJanitorEvery: env.duration("CART_JANITOR_INTERVAL_MIN", 5, time.Minute),
	}

	if cfg.CatalogMaxPageSize < cfg.CatalogPageSize {
		env.fail("CATALOG_MAX_PAGE_SIZE (%d) menor que CATALOG_PAGE_SIZE (%d)", cfg.CatalogMaxPageSize, cfg.CatalogPageSize)
	}

	if err := env.err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envReader lê variáveis acumulando os problemas encontrados.
type envReader struct {
	problems []string
}

func (e *envReader) fail(format string, args ...interface{}) {
	e.problems = append(e.problems, fmt.Sprintf(format, args...))
}

func (e *envReader) err() error {
	if len(e.problems) == 0 {
		return nil
	}
	return errors.New("configuração inválida: " + strings.Join(e.problems, "; "))
}

func (e *envReader) str(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func (e *envReader) required(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		e.fail("%s deve ser definida", key)
	}
	return value
}

func (e *envReader) integer(key string, defaultValue int) int {
	raw := e.str(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		e.fail("%s deve ser um inteiro não negativo, recebido %q", key, raw)
		return defaultValue
	}
	return value
}

// duration lê um inteiro na unidade informada (e.g. DB_TIMEOUT_SEC em segundos).
func (e *envReader) duration(key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(e.integer(key, defaultValue)) * unit
}
