package router

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"govitrine/internal/api/cart"
	"govitrine/internal/api/catalog"
	"govitrine/internal/catalog/view"
	"govitrine/internal/domain"
	"govitrine/internal/pkg/metrics"
	"govitrine/internal/pkg/middleware"
)

// Deps reúne os handlers e middlewares já inicializados por injeção de dependências.
type Deps struct {
	Catalog   *catalog.Handler
	Cart      *cart.Handler
	TokenSvc  middleware.TokenService
	RateLimit func(http.Handler) http.Handler
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	authMiddleware := middleware.NewAuthMiddleware(d.TokenSvc)
	adminOnly := func(next http.HandlerFunc) http.HandlerFunc {
		return authMiddleware(middleware.PermissionMiddleware(domain.RoleAdmin)(next))
	}
	withSession := middleware.NewSessionMiddleware(d.TokenSvc)

	// --- 1. Health check, métricas e documentação ---
	mux.HandleFunc("GET /ping", PingHandler)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// --- 2. Catálogo (v1) ---
	// Pedidos e comentários expõem dados de clientes: apenas administradores.
	for _, name := range view.All {
		list := d.Catalog.ListHandler(name)
		stats := d.Catalog.StatsHandler(name)
		if name.Restricted() {
			list = adminOnly(list)
			stats = adminOnly(stats)
		}
		mux.HandleFunc("GET /v1/catalog/"+string(name), list)
		mux.HandleFunc("GET /v1/stats/"+string(name), stats)
		mux.HandleFunc("POST /v1/catalog/"+string(name)+"/refresh", adminOnly(d.Catalog.RefreshHandler(name)))
	}

	// --- 3. Carrinho e Wishlist (v1) ---
	mux.HandleFunc("GET /v1/cart", withSession(d.Cart.GetCartHandler))
	mux.HandleFunc("DELETE /v1/cart", withSession(d.Cart.ClearCartHandler))
	mux.HandleFunc("POST /v1/cart/items", withSession(d.Cart.AddToCartHandler))
	mux.HandleFunc("PUT /v1/cart/items/{productId}", withSession(d.Cart.UpdateCartItemHandler))
	mux.HandleFunc("DELETE /v1/cart/items/{productId}", withSession(d.Cart.RemoveCartItemHandler))

	mux.HandleFunc("GET /v1/wishlist", withSession(d.Cart.GetWishlistHandler))
	mux.HandleFunc("DELETE /v1/wishlist", withSession(d.Cart.ClearWishlistHandler))
	mux.HandleFunc("POST /v1/wishlist/toggle", withSession(d.Cart.ToggleWishlistHandler))
	mux.HandleFunc("DELETE /v1/wishlist/items/{productId}", withSession(d.Cart.RemoveWishlistItemHandler))

	// --- 4. Middlewares globais ---
	var handler http.Handler = mux
	if d.RateLimit != nil {
		handler = d.RateLimit(handler)
	}
	return handler
}

// PingHandler é o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
