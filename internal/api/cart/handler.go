package cart

import (
	"context"
	"net/http"

	"govitrine/internal/api/response"
	"govitrine/internal/domain"
	apperror "govitrine/internal/errors"
	"govitrine/internal/pkg/logger"
	"govitrine/internal/pkg/middleware"
)

// CartService define o contrato que o Handler espera da camada de Serviço.
type CartService interface {
	Cart(ctx context.Context, sessionID string) domain.CartSnapshot
	AddToCart(ctx context.Context, sessionID string, req domain.AddToCartRequest) (domain.CartSnapshot, error)
	UpdateCartQuantity(ctx context.Context, sessionID, productID string, quantity int) (domain.CartSnapshot, error)
	RemoveFromCart(ctx context.Context, sessionID, productID string) domain.CartSnapshot
	ClearCart(ctx context.Context, sessionID string) domain.CartSnapshot

	Wishlist(ctx context.Context, sessionID string) domain.CartSnapshot
	ToggleWishlist(ctx context.Context, sessionID string, req domain.ToggleWishlistRequest) (domain.ToggleResult, error)
	RemoveFromWishlist(ctx context.Context, sessionID, productID string) domain.CartSnapshot
	ClearWishlist(ctx context.Context, sessionID string) domain.CartSnapshot
}

// Handler agrupa os handlers de carrinho e wishlist.
// Todas as rotas exigem a sessão resolvida por middleware.NewSessionMiddleware.
type Handler struct {
	Service CartService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc CartService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// session extrai o id da sessão do contexto ou responde 401.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok || sess.ID == "" {
		h.Logger.Warn("Requisição de carrinho sem sessão no contexto.", map[string]interface{}{"path": r.URL.Path})
		response.Write(h.Logger, w, r, nil, apperror.NewUnauthorizedError("Sessão ausente."), http.StatusOK)
		return "", false
	}
	return sess.ID, true
}

// --- Carrinho ---

// GetCartHandler lida com GET /v1/cart.
// @Summary Carrinho da sessão
// @Tags cart
// @Produce json
// @Param X-Session-ID header string false "Sessão de visitante (uuid)"
// @Success 200 {object} domain.CartSnapshot
// @Router /cart [get]
func (h *Handler) GetCartHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}
	response.Write(h.Logger, w, r, h.Service.Cart(r.Context(), sessionID), nil, http.StatusOK)
}

// AddToCartHandler lida com POST /v1/cart/items.
// @Summary Adiciona um produto ao carrinho
// @Description Acumula a quantidade na linha existente, limitada ao estoque do produto.
// @Tags cart
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Sessão de visitante (uuid)"
// @Param item body domain.AddToCartRequest true "Produto e quantidade (0 ou ausente vale 1)"
// @Success 200 {object} domain.CartSnapshot
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Produto não encontrado"
// @Failure 422 {object} domain.ErrorResponse "Produto fora de estoque"
// @Router /cart/items [post]
func (h *Handler) AddToCartHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	var req domain.AddToCartRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.Write(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}

	snap, err := h.Service.AddToCart(r.Context(), sessionID, req)
	response.Write(h.Logger, w, r, snap, err, http.StatusOK)
}

// UpdateCartItemHandler lida com PUT /v1/cart/items/{productId}.
// @Summary Altera a quantidade de uma linha
// @Tags cart
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Sessão de visitante (uuid)"
// @Param productId path string true "ID do produto"
// @Param body body domain.UpdateQuantityRequest true "Nova quantidade"
// @Success 200 {object} domain.CartSnapshot
// @Failure 404 {object} domain.ErrorResponse "Produto não está no carrinho"
// @Failure 422 {object} domain.ErrorResponse "Quantidade fora de [1, estoque]"
// @Router /cart/items/{productId} [put]
func (h *Handler) UpdateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	var req domain.UpdateQuantityRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.Write(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}

	snap, err := h.Service.UpdateCartQuantity(r.Context(), sessionID, r.PathValue("productId"), req.Quantity)
	response.Write(h.Logger, w, r, snap, err, http.StatusOK)
}

// RemoveCartItemHandler lida com DELETE /v1/cart/items/{productId}.
// @Summary Remove uma linha do carrinho
// @Tags cart
// @Produce json
// @Param X-Session-ID header string false "Sessão de visitante (uuid)"
// @Param productId path string true "ID do produto"
// @Success 200 {object} domain.CartSnapshot
// @Router /cart/items/{productId} [delete]
func (h *Handler) RemoveCartItemHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}
	snap := h.Service.RemoveFromCart(r.Context(), sessionID, r.PathValue("productId"))
	response.Write(h.Logger, w, r, snap, nil, http.StatusOK)
}

// ClearCartHandler lida com DELETE /v1/cart.
// @Summary Esvazia o carrinho
// @Tags cart
// @Produce json
// @Param X-Session-ID header string false "Sessão de visitante (uuid)"
// @Success 200 {object} domain.CartSnapshot
// @Router /cart [delete]
func (h *Handler) ClearCartHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}
	response.Write(h.Logger, w, r, h.Service.ClearCart(r.Context(), sessionID), nil, http.StatusOK)
}

// --- Wishlist ---

// GetWishlistHandler lida com GET /v1/wishlist.
// @Summary Wishlist da sessão
// @Tags wishlist
// @Produce json
// @Param X-Session-ID header string false "Sessão de visitante (uuid)"
// @Success 200 {object} domain.CartSnapshot
// @Router /wishlist [get]
func (h *Handler) GetWishlistHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}
	response.Write(h.Logger, w, r, h.Service.Wishlist(r.Context(), sessionID), nil, http.StatusOK)
}

// ToggleWishlistHandler lida com POST /v1/wishlist/toggle.
// @Summary Inverte a presença de um produto na wishlist
// @Tags wishlist
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Sessão de visitante (uuid)"
// @Param body body domain.ToggleWishlistRequest true "Produto"
// @Success 200 {object} domain.ToggleResult
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Produto não encontrado"
// @Router /wishlist/toggle [post]
func (h *Handler) ToggleWishlistHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	var req domain.ToggleWishlistRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.Write(h.Logger, w, r, nil, err, http.StatusOK)
		return
	}

	result, err := h.Service.ToggleWishlist(r.Context(), sessionID, req)
	response.Write(h.Logger, w, r, result, err, http.StatusOK)
}

// RemoveWishlistItemHandler lida com DELETE /v1/wishlist/items/{productId}.
// @Summary Remove um produto da wishlist
// @Tags wishlist
// @Produce json
// @Param X-Session-ID header string false "Sessão de visitante (uuid)"
// @Param productId path string true "ID do produto"
// @Success 200 {object} domain.CartSnapshot
// @Router /wishlist/items/{productId} [delete]
func (h *Handler) RemoveWishlistItemHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}
	snap := h.Service.RemoveFromWishlist(r.Context(), sessionID, r.PathValue("productId"))
	response.Write(h.Logger, w, r, snap, nil, http.StatusOK)
}

// ClearWishlistHandler lida com DELETE /v1/wishlist.
// @Summary Esvazia a wishlist
// @Tags wishlist
// @Produce json
// @Param X-Session-ID header string false "Sessão de visitante (uuid)"
// @Success 200 {object} domain.CartSnapshot
// @Router /wishlist [delete]
func (h *Handler) ClearWishlistHandler(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}
	response.Write(h.Logger, w, r, h.Service.ClearWishlist(r.Context(), sessionID), nil, http.StatusOK)
}
