// Package query implementa o motor de consulta do catálogo: busca textual, filtros de
// categoria, preço e status, contagem de facetas, ordenação estável e paginação.
//
// O motor é genérico sobre o tipo da coleção. Cada visão (produtos, artesãos, pedidos...)
// fornece um Fields[T] com os acessores de campo; a lógica de filtro e ordenação é única.
package query

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"govitrine/internal/domain"
)

// Fields descreve como extrair de T os campos usados pela consulta.
// Acessores nil desligam o critério correspondente para a visão.
type Fields[T any] struct {
	// Text retorna os campos de exibição pesquisáveis (nome, descrição, tags, nomes relacionados).
	Text func(T) []string
	// Category retorna a chave de categoria usada no filtro exato e nas facetas.
	Category func(T) string
	// Status retorna o status literal do item.
	Status func(T) string
	// Price retorna o preço. Visões sem preço ignoram o filtro de faixa.
	Price     func(T) float64
	CreatedAt func(T) time.Time
	Name      func(T) string
	Featured  func(T) bool
	// Predicates são status derivados (e.g. "popular", "low-stock"), avaliados antes do status literal.
	Predicates map[string]func(T) bool
}

// Engine executa consultas sobre coleções de T.
// É imutável após a construção e pode ser compartilhado entre goroutines.
type Engine[T any] struct {
	fields     Fields[T]
	predicates map[string]func(T) bool
	locale     language.Tag
}

// Option configura o Engine.
type Option func(*options)

type options struct {
	locale language.Tag
}

// WithLocale define o idioma usado na ordenação por nome.
func WithLocale(tag language.Tag) Option {
	return func(o *options) { o.locale = tag }
}

// New cria um Engine para os acessores informados.
func New[T any](fields Fields[T], opts ...Option) *Engine[T] {
	o := options{locale: language.BrazilianPortuguese}
	for _, opt := range opts {
		opt(&o)
	}

	predicates := make(map[string]func(T) bool, len(fields.Predicates))
	for key, fn := range fields.Predicates {
		predicates[strings.ToLower(key)] = fn
	}

	return &Engine[T]{fields: fields, predicates: predicates, locale: o.locale}
}

// Query aplica os critérios à coleção e devolve a visão resultante.
// page nil devolve a sequência ordenada completa. A coleção de entrada não é alterada.
func (e *Engine[T]) Query(collection []T, criteria domain.FilterCriteria, page *domain.PageRequest) domain.QueryResult[T] {
	category, byCategory := criteria.CategoryKey()

	facets := make(map[string]int)
	matched := make([]T, 0, len(collection))

	for _, item := range collection {
		// 1. busca, preço e status
		if !e.matchesSearch(item, criteria.SearchText()) ||
			!e.matchesPrice(item, criteria) ||
			!e.matchesStatus(item, criteria) {
			continue
		}

		// 2. facetas contam antes do filtro de categoria
		itemCategory := ""
		if e.fields.Category != nil {
			itemCategory = e.fields.Category(item)
			facets[itemCategory]++
		}

		// 3. categoria
		if byCategory && (e.fields.Category == nil || itemCategory != category) {
			continue
		}
		matched = append(matched, item)
	}

	e.sort(matched, criteria.SortKey())

	result := domain.QueryResult[T]{
		Items:           matched,
		TotalMatching:   len(matched),
		TotalUnfiltered: len(collection),
		Facets:          facets,
	}

	if page != nil {
		return Paginate(result, *page)
	}
	return result
}

func (e *Engine[T]) matchesSearch(item T, search string) bool {
	if search == "" || e.fields.Text == nil {
		return true
	}
	for _, field := range e.fields.Text(item) {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func (e *Engine[T]) matchesPrice(item T, criteria domain.FilterCriteria) bool {
	priceRange, ok := criteria.PriceRange()
	if !ok || e.fields.Price == nil {
		return true
	}
	return priceRange.Contains(e.fields.Price(item))
}

func (e *Engine[T]) matchesStatus(item T, criteria domain.FilterCriteria) bool {
	status, ok := criteria.StatusFilter()
	if !ok {
		return true
	}
	if predicate, found := e.predicates[status]; found {
		return predicate(item)
	}
	if e.fields.Status == nil {
		return false
	}
	return strings.EqualFold(e.fields.Status(item), status)
}

// sort ordena em lugar, de forma estável: itens com a mesma chave mantêm a ordem de entrada.
func (e *Engine[T]) sort(items []T, key domain.SortKey) {
	var compare func(a, b T) int

	switch key {
	case domain.SortNewest:
		if e.fields.CreatedAt != nil {
			compare = func(a, b T) int { return e.fields.CreatedAt(b).Compare(e.fields.CreatedAt(a)) }
		}
	case domain.SortPriceAsc:
		if e.fields.Price != nil {
			compare = func(a, b T) int { return cmp.Compare(e.fields.Price(a), e.fields.Price(b)) }
		}
	case domain.SortPriceDesc:
		if e.fields.Price != nil {
			compare = func(a, b T) int { return cmp.Compare(e.fields.Price(b), e.fields.Price(a)) }
		}
	case domain.SortName:
		if e.fields.Name != nil {
			// collate.Collator não é seguro para uso concorrente; um por consulta.
			collator := collate.New(e.locale, collate.IgnoreCase)
			compare = func(a, b T) int { return collator.CompareString(e.fields.Name(a), e.fields.Name(b)) }
		}
	default:
		if e.fields.Featured != nil {
			compare = func(a, b T) int { return featuredRank(e.fields.Featured(a)) - featuredRank(e.fields.Featured(b)) }
		}
	}

	if compare != nil {
		slices.SortStableFunc(items, compare)
	}
}

func featuredRank(featured bool) int {
	if featured {
		return 0
	}
	return 1
}

// Paginate recorta a fatia [Index*Size, Index*Size+Size) de um resultado completo.
// Os totais e as facetas não mudam; uma página além do fim devolve Items vazio.
func Paginate[T any](result domain.QueryResult[T], page domain.PageRequest) domain.QueryResult[T] {
	size := max(page.Size, 1)
	index := max(page.Index, 0)

	items := result.Items
	result.Page = &domain.PageInfo{
		Index:      index,
		Size:       size,
		TotalPages: (len(items) + size - 1) / size,
	}

	start := index * size
	if start >= len(items) {
		result.Items = []T{}
		return result
	}
	end := min(start+size, len(items))
	result.Items = items[start:end]
	return result
}
