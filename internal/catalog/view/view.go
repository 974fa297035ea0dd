// Package view liga as entidades do catálogo ao motor de consulta e ao compositor de
// estatísticas: cada listagem declara seus acessores de campo e seus cards de estatística.
package view

import (
	"strings"
	"time"

	"govitrine/internal/catalog/query"
	"govitrine/internal/catalog/stats"
	"govitrine/internal/domain"
)

// Name identifica uma listagem exposta em /v1/catalog/{view}.
type Name string

const (
	Products   Name = "products"
	Artisans   Name = "artisans"
	Categories Name = "categories"
	Orders     Name = "orders"
	Comments   Name = "comments"
)

// All lista as visões na ordem em que aparecem no painel.
var All = []Name{Products, Artisans, Categories, Orders, Comments}

// Parse valida o nome vindo da URL.
func Parse(raw string) (Name, bool) {
	name := Name(strings.ToLower(strings.TrimSpace(raw)))
	for _, v := range All {
		if v == name {
			return name, true
		}
	}
	return "", false
}

// Restricted indica as visões do painel administrativo (dados de clientes).
func (n Name) Restricted() bool {
	return n == Orders || n == Comments
}

// Thresholds são os limites dos status derivados ("popular", "low-stock") e da janela recente.
type Thresholds struct {
	PopularViews int
	PopularLikes int
	LowStock     int
	RecentDays   int
}

// Status derivados aceitos em ?status=.
const (
	StatusFeatured   = "featured"
	StatusPopular    = "popular"
	StatusInStock    = "in-stock"
	StatusOutOfStock = "out-of-stock"
	StatusLowStock   = "low-stock"
)

// --- Produtos ---

func (t Thresholds) productPopular(p domain.Product) bool {
	return p.Views >= t.PopularViews || p.Likes >= t.PopularLikes
}

func (t Thresholds) productLowStock(p domain.Product) bool {
	return p.InStock && p.Stock > 0 && p.Stock <= t.LowStock
}

func productOutOfStock(p domain.Product) bool { return p.MaxQuantity() == 0 }

// ProductFields mapeia Product para o motor de consulta.
func ProductFields(t Thresholds) query.Fields[domain.Product] {
	return query.Fields[domain.Product]{
		Text: func(p domain.Product) []string {
			return append([]string{p.Name, p.Description, p.SKU, p.CategoryName, p.ArtisanName}, p.Tags...)
		},
		Category:  func(p domain.Product) string { return p.CategorySlug },
		Status:    func(p domain.Product) string { return p.Status },
		Price:     func(p domain.Product) float64 { return p.Price },
		CreatedAt: func(p domain.Product) time.Time { return p.CreatedAt },
		Name:      func(p domain.Product) string { return p.Name },
		Featured:  func(p domain.Product) bool { return p.Featured },
		Predicates: map[string]func(domain.Product) bool{
			StatusFeatured:   func(p domain.Product) bool { return p.Featured },
			StatusPopular:    t.productPopular,
			StatusInStock:    func(p domain.Product) bool { return !productOutOfStock(p) },
			StatusOutOfStock: productOutOfStock,
			StatusLowStock:   t.productLowStock,
		},
	}
}

// ProductStats monta os cards da listagem de produtos.
func ProductStats(t Thresholds, now time.Time) stats.Spec[domain.Product] {
	return stats.Spec[domain.Product]{
		CountWhere: map[string]func(domain.Product) bool{
			domain.StatusActive:   func(p domain.Product) bool { return p.Status == domain.StatusActive },
			domain.StatusInactive: func(p domain.Product) bool { return p.Status == domain.StatusInactive },
			StatusFeatured:        func(p domain.Product) bool { return p.Featured },
			StatusOutOfStock:      productOutOfStock,
			StatusLowStock:        t.productLowStock,
			StatusPopular:         t.productPopular,
		},
		Sum: map[string]func(domain.Product) float64{
			"stock": func(p domain.Product) float64 { return float64(p.Stock) },
			"views": func(p domain.Product) float64 { return float64(p.Views) },
		},
		Average: map[string]func(domain.Product) float64{
			"price": func(p domain.Product) float64 { return p.Price },
		},
		RecentWithinDays: t.RecentDays,
		Timestamp:        func(p domain.Product) time.Time { return p.CreatedAt },
		Now:              now,
	}
}

// --- Artesãos ---

// ArtisanFields mapeia Artisan para o motor de consulta. Artesãos não têm preço.
func ArtisanFields(t Thresholds) query.Fields[domain.Artisan] {
	return query.Fields[domain.Artisan]{
		Text: func(a domain.Artisan) []string {
			return []string{a.Name, a.Bio, a.Specialty, a.Location}
		},
		Category:  func(a domain.Artisan) string { return a.Specialty },
		Status:    func(a domain.Artisan) string { return a.Status },
		CreatedAt: func(a domain.Artisan) time.Time { return a.CreatedAt },
		Name:      func(a domain.Artisan) string { return a.Name },
		Featured:  func(a domain.Artisan) bool { return a.Featured },
		Predicates: map[string]func(domain.Artisan) bool{
			StatusFeatured: func(a domain.Artisan) bool { return a.Featured },
			StatusPopular:  func(a domain.Artisan) bool { return a.Likes >= t.PopularLikes },
		},
	}
}

func ArtisanStats(t Thresholds, now time.Time) stats.Spec[domain.Artisan] {
	return stats.Spec[domain.Artisan]{
		CountWhere: map[string]func(domain.Artisan) bool{
			domain.StatusActive:   func(a domain.Artisan) bool { return a.Status == domain.StatusActive },
			domain.StatusInactive: func(a domain.Artisan) bool { return a.Status == domain.StatusInactive },
			StatusFeatured:        func(a domain.Artisan) bool { return a.Featured },
		},
		Sum: map[string]func(domain.Artisan) float64{
			"products": func(a domain.Artisan) float64 { return float64(a.ProductCount) },
		},
		Average: map[string]func(domain.Artisan) float64{
			"rating": func(a domain.Artisan) float64 { return a.Rating },
			"likes":  func(a domain.Artisan) float64 { return float64(a.Likes) },
		},
		RecentWithinDays: t.RecentDays,
		Timestamp:        func(a domain.Artisan) time.Time { return a.CreatedAt },
		Now:              now,
	}
}

// --- Categorias ---

// CategoryFields agrupa categorias pela categoria-pai ("" para raízes).
func CategoryFields() query.Fields[domain.Category] {
	return query.Fields[domain.Category]{
		Text:      func(c domain.Category) []string { return []string{c.Name, c.Description, c.Slug} },
		Category:  func(c domain.Category) string { return c.ParentSlug },
		Status:    func(c domain.Category) string { return c.Status },
		CreatedAt: func(c domain.Category) time.Time { return c.CreatedAt },
		Name:      func(c domain.Category) string { return c.Name },
	}
}

func CategoryStats(t Thresholds, now time.Time) stats.Spec[domain.Category] {
	return stats.Spec[domain.Category]{
		CountWhere: map[string]func(domain.Category) bool{
			domain.StatusActive:   func(c domain.Category) bool { return c.Status == domain.StatusActive },
			domain.StatusInactive: func(c domain.Category) bool { return c.Status == domain.StatusInactive },
			"root":                func(c domain.Category) bool { return c.ParentSlug == "" },
		},
		Sum: map[string]func(domain.Category) float64{
			"products": func(c domain.Category) float64 { return float64(c.ProductCount) },
		},
		Average: map[string]func(domain.Category) float64{
			"products": func(c domain.Category) float64 { return float64(c.ProductCount) },
		},
		RecentWithinDays: t.RecentDays,
		Timestamp:        func(c domain.Category) time.Time { return c.CreatedAt },
		Now:              now,
	}
}

// --- Pedidos ---

// OrderFields usa o total do pedido como preço e o meio de pagamento como categoria.
func OrderFields() query.Fields[domain.Order] {
	return query.Fields[domain.Order]{
		Text:      func(o domain.Order) []string { return []string{o.ID, o.CustomerName, o.CustomerEmail} },
		Category:  func(o domain.Order) string { return o.PaymentMethod },
		Status:    func(o domain.Order) string { return o.Status },
		Price:     func(o domain.Order) float64 { return o.Total },
		CreatedAt: func(o domain.Order) time.Time { return o.CreatedAt },
		Name:      func(o domain.Order) string { return o.CustomerName },
	}
}

var orderStatuses = []string{
	domain.OrderPending,
	domain.OrderProcessing,
	domain.OrderShipped,
	domain.OrderCompleted,
	domain.OrderCancelled,
}

func OrderStats(t Thresholds, now time.Time) stats.Spec[domain.Order] {
	byStatus := make(map[string]func(domain.Order) bool, len(orderStatuses))
	for _, status := range orderStatuses {
		byStatus[status] = func(o domain.Order) bool { return o.Status == status }
	}

	return stats.Spec[domain.Order]{
		CountWhere: byStatus,
		Sum: map[string]func(domain.Order) float64{
			"revenue": func(o domain.Order) float64 { return o.Total },
			"items":   func(o domain.Order) float64 { return float64(o.ItemCount) },
		},
		Average: map[string]func(domain.Order) float64{
			"ticket": func(o domain.Order) float64 { return o.Total },
		},
		DropOffs: map[string]stats.DropOff{
			"pending_to_completed": {From: domain.OrderPending, To: domain.OrderCompleted},
		},
		RecentWithinDays: t.RecentDays,
		Timestamp:        func(o domain.Order) time.Time { return o.CreatedAt },
		Now:              now,
	}
}

// --- Comentários ---

// CommentFields agrupa comentários pelo produto comentado.
func CommentFields(t Thresholds) query.Fields[domain.Comment] {
	return query.Fields[domain.Comment]{
		Text:      func(c domain.Comment) []string { return []string{c.Content, c.AuthorName, c.ProductName} },
		Category:  func(c domain.Comment) string { return c.ProductID },
		Status:    func(c domain.Comment) string { return c.Status },
		CreatedAt: func(c domain.Comment) time.Time { return c.CreatedAt },
		Name:      func(c domain.Comment) string { return c.AuthorName },
		Predicates: map[string]func(domain.Comment) bool{
			StatusPopular: func(c domain.Comment) bool { return c.Likes >= t.PopularLikes },
		},
	}
}

func CommentStats(t Thresholds, now time.Time) stats.Spec[domain.Comment] {
	return stats.Spec[domain.Comment]{
		CountWhere: map[string]func(domain.Comment) bool{
			domain.CommentApproved: func(c domain.Comment) bool { return c.Status == domain.CommentApproved },
			domain.CommentPending:  func(c domain.Comment) bool { return c.Status == domain.CommentPending },
			domain.CommentSpam:     func(c domain.Comment) bool { return c.Status == domain.CommentSpam },
		},
		Average: map[string]func(domain.Comment) float64{
			"rating": func(c domain.Comment) float64 { return float64(c.Rating) },
			"likes":  func(c domain.Comment) float64 { return float64(c.Likes) },
		},
		RecentWithinDays: t.RecentDays,
		Timestamp:        func(c domain.Comment) time.Time { return c.CreatedAt },
		Now:              now,
	}
}
