package domain

import (
	"time"
)

// Product representa o item principal do catálogo da vitrine.
// CategoryName e ArtisanName são desnormalizados na leitura (JOIN) para a busca textual.
type Product struct {
	ID           string    `json:"id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Tags         []string  `json:"tags"`
	CategoryID   string    `json:"category_id"`
	CategorySlug string    `json:"category_slug"`
	CategoryName string    `json:"category_name"`
	ArtisanID    string    `json:"artisan_id"`
	ArtisanName  string    `json:"artisan_name"`
	Status       string    `json:"status"` // active | inactive
	Featured     bool      `json:"featured"`
	InStock      bool      `json:"in_stock"`
	Price        float64   `json:"price"`
	Stock        int       `json:"stock"`
	Views        int       `json:"views"`
	Likes        int       `json:"likes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MaxQuantity converte o estoque no limite superior usado pelo carrinho.
// Um produto marcado como fora de estoque tem limite 0, independentemente do campo Stock.
func (p Product) MaxQuantity() int {
	if !p.InStock || p.Stock < 0 {
		return 0
	}
	return p.Stock
}

// Category representa uma categoria (raiz ou subcategoria) do catálogo.
type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	ParentSlug   string    `json:"parent_slug,omitempty"`
	Status       string    `json:"status"` // active | inactive
	ProductCount int       `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Artisan representa o artesão/vendedor responsável pelos produtos.
type Artisan struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Bio          string    `json:"bio"`
	Specialty    string    `json:"specialty"`
	Location     string    `json:"location"`
	Status       string    `json:"status"` // active | inactive
	Featured     bool      `json:"featured"`
	Rating       float64   `json:"rating"`
	Likes        int       `json:"likes"`
	ProductCount int       `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Status conhecidos das entidades do catálogo.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)
