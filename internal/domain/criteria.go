package domain

import (
	"math"
	"strings"
)

// FilterAll é o valor sentinela que desativa os filtros de categoria e status.
const FilterAll = "all"

// SortKey define a ordenação do resultado de uma consulta ao catálogo.
type SortKey string

const (
	SortRelevance SortKey = "relevance" // destaques primeiro, ordem original como desempate
	SortNewest    SortKey = "newest"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortName      SortKey = "name"
)

// ParseSortKey traduz o parâmetro de query para um SortKey.
// Valores desconhecidos ou vazios resultam em SortRelevance.
func ParseSortKey(raw string) SortKey {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "newest", "recent":
		return SortNewest
	case "price-asc", "price_asc", "price-low":
		return SortPriceAsc
	case "price-desc", "price_desc", "price-high":
		return SortPriceDesc
	case "name", "alphabetical", "name-asc":
		return SortName
	default:
		return SortRelevance
	}
}

// PriceRange é um intervalo fechado [Min, Max].
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains indica se o preço está dentro do intervalo (limites inclusivos).
func (r PriceRange) Contains(price float64) bool {
	return r.Min <= price && price <= r.Max
}

// FilterCriteria é o conjunto imutável de critérios de uma consulta.
// É construído por NewFilterCriteria e nunca alterado depois; mudar um campo significa
// construir um novo valor.
type FilterCriteria struct {
	searchText   string
	categoryKey  string
	statusFilter string
	priceRange   *PriceRange
	sortKey      SortKey
}

// CriteriaOption configura um campo do FilterCriteria durante a construção.
type CriteriaOption func(*FilterCriteria)

// WithSearchText define o texto livre (comparação por substring, sem diferenciar maiúsculas).
func WithSearchText(text string) CriteriaOption {
	return func(c *FilterCriteria) { c.searchText = text }
}

// WithCategory define o filtro exato de categoria. "all" ou vazio desativa o filtro.
func WithCategory(key string) CriteriaOption {
	return func(c *FilterCriteria) { c.categoryKey = key }
}

// WithStatus define o filtro de status (exato ou predicado derivado). "all" ou vazio desativa o filtro.
func WithStatus(status string) CriteriaOption {
	return func(c *FilterCriteria) { c.statusFilter = status }
}

// WithPriceRange define o intervalo de preço. Intervalos invertidos são corrigidos na construção.
func WithPriceRange(min, max float64) CriteriaOption {
	return func(c *FilterCriteria) { c.priceRange = &PriceRange{Min: min, Max: max} }
}

// WithSort define a ordenação.
func WithSort(key SortKey) CriteriaOption {
	return func(c *FilterCriteria) { c.sortKey = key }
}

// NewFilterCriteria constrói e normaliza os critérios.
// Nenhuma entrada é rejeitada: valores malformados são corrigidos (clamp), pois sliders
// de preço da UI produzem estados transitórios inválidos durante o arraste.
func NewFilterCriteria(opts ...CriteriaOption) FilterCriteria {
	c := FilterCriteria{}
	for _, opt := range opts {
		opt(&c)
	}

	c.searchText = strings.ToLower(strings.TrimSpace(c.searchText))
	c.categoryKey = normalizeSentinel(c.categoryKey)
	c.statusFilter = strings.ToLower(normalizeSentinel(c.statusFilter))

	if c.priceRange != nil {
		r := *c.priceRange
		if math.IsNaN(r.Min) || r.Min < 0 {
			r.Min = 0
		}
		if math.IsNaN(r.Max) {
			r.Max = math.MaxFloat64
		}
		// max < min: o limite superior é puxado até o inferior
		if r.Max < r.Min {
			r.Max = r.Min
		}
		c.priceRange = &r
	}

	switch c.sortKey {
	case SortRelevance, SortNewest, SortPriceAsc, SortPriceDesc, SortName:
	default:
		c.sortKey = SortRelevance
	}

	return c
}

func normalizeSentinel(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, FilterAll) {
		return ""
	}
	return value
}

// SearchText retorna o texto de busca já normalizado (minúsculo, sem espaços nas bordas).
func (c FilterCriteria) SearchText() string { return c.searchText }

// CategoryKey retorna a categoria filtrada e se o filtro está ativo.
func (c FilterCriteria) CategoryKey() (string, bool) { return c.categoryKey, c.categoryKey != "" }

// StatusFilter retorna o status filtrado e se o filtro está ativo.
func (c FilterCriteria) StatusFilter() (string, bool) { return c.statusFilter, c.statusFilter != "" }

// PriceRange retorna o intervalo de preço e se o filtro está ativo.
func (c FilterCriteria) PriceRange() (PriceRange, bool) {
	if c.priceRange == nil {
		return PriceRange{}, false
	}
	return *c.priceRange, true
}

// SortKey retorna a ordenação escolhida.
func (c FilterCriteria) SortKey() SortKey { return c.sortKey }

// PageRequest seleciona a fatia [Index*Size, Index*Size+Size) do resultado ordenado.
type PageRequest struct {
	Index int `json:"index"`
	Size  int `json:"size"`
}

// NewPageRequest aplica os limites de paginação: índice >= 0 e 1 <= tamanho <= maxSize.
func NewPageRequest(index, size, maxSize int) PageRequest {
	if index < 0 {
		index = 0
	}
	if size < 1 {
		size = 1
	}
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	return PageRequest{Index: index, Size: size}
}

// PageInfo descreve a página devolvida em um QueryResult.
type PageInfo struct {
	Index      int `json:"index"`
	Size       int `json:"size"`
	TotalPages int `json:"total_pages"`
}

// QueryResult é a visão filtrada, ordenada e paginada de uma coleção.
type QueryResult[T any] struct {
	Items           []T            `json:"items"`
	TotalMatching   int            `json:"total_matching"`
	TotalUnfiltered int            `json:"total_unfiltered"`
	Facets          map[string]int `json:"facets"`
	Page            *PageInfo      `json:"page,omitempty"`
}
