package domain

import "time"

// CartKind identifica a instância do store (carrinho ou wishlist).
type CartKind string

const (
	KindCart     CartKind = "cart"
	KindWishlist CartKind = "wishlist"
)

// LineItem é o pedido de inclusão de um produto em um carrinho/wishlist.
// MaxQuantity nil significa sem limite superior; 0 significa fora de estoque.
type LineItem struct {
	ProductID       string  `json:"product_id" validate:"required"`
	UnitPrice       float64 `json:"unit_price" validate:"gte=0"`
	MaxQuantity     *int    `json:"max_quantity,omitempty" validate:"omitempty,gte=0"`
	InitialQuantity int     `json:"initial_quantity" validate:"gte=0"`
}

// CartLine é uma linha (produto + quantidade) do carrinho ou da wishlist.
// UnitPrice é capturado no momento da inclusão e não é relido do catálogo.
type CartLine struct {
	ProductID   string    `json:"product_id"`
	UnitPrice   float64   `json:"unit_price"`
	Quantity    int       `json:"quantity"`
	MaxQuantity *int      `json:"max_quantity,omitempty"`
	AddedAt     time.Time `json:"added_at"`
}

// Subtotal retorna UnitPrice * Quantity.
func (l CartLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// CartSnapshot é a fotografia ordenada do estado de um store.
// Os totais são recalculados a cada chamada de Snapshot.
type CartSnapshot struct {
	Kind           CartKind   `json:"kind"`
	Lines          []CartLine `json:"lines"`
	TotalItemCount int        `json:"total_item_count"`
	TotalPrice     float64    `json:"total_price"`
	Version        uint64     `json:"version"`
}

// Contains indica se o produto está presente na fotografia.
func (s CartSnapshot) Contains(productID string) bool {
	for _, l := range s.Lines {
		if l.ProductID == productID {
			return true
		}
	}
	return false
}

// AddToCartRequest é o payload de POST /v1/cart/items.
type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

// UpdateQuantityRequest é o payload de PUT /v1/cart/items/{id}.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// ToggleWishlistRequest é o payload de POST /v1/wishlist/toggle.
type ToggleWishlistRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// ToggleResult informa o estado de presença após um toggle.
type ToggleResult struct {
	ProductID string       `json:"product_id"`
	Present   bool         `json:"present"`
	Snapshot  CartSnapshot `json:"snapshot"`
}
