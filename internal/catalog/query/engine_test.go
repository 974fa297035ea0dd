package query_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"govitrine/internal/catalog/query"
	"govitrine/internal/domain"
)

type item struct {
	id       string
	name     string
	tags     []string
	category string
	status   string
	price    float64
	views    int
	featured bool
	created  time.Time
}

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newEngine() *query.Engine[item] {
	return query.New(query.Fields[item]{
		Text:      func(i item) []string { return append([]string{i.name}, i.tags...) },
		Category:  func(i item) string { return i.category },
		Status:    func(i item) string { return i.status },
		Price:     func(i item) float64 { return i.price },
		CreatedAt: func(i item) time.Time { return i.created },
		Name:      func(i item) string { return i.name },
		Featured:  func(i item) bool { return i.featured },
		Predicates: map[string]func(item) bool{
			"popular": func(i item) bool { return i.views >= 100 },
		},
	}, query.WithLocale(language.BrazilianPortuguese))
}

func ids(items []item) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.id)
	}
	return out
}

func sample() []item {
	return []item{
		{id: "a", name: "Vaso de Cerâmica", tags: []string{"barro"}, category: "ceramica", status: "active", price: 10, views: 150, created: base.Add(-4 * time.Hour)},
		{id: "b", name: "Cesto de Palha", tags: []string{"trançado"}, category: "cestaria", status: "active", price: 25, views: 20, featured: true, created: base.Add(-1 * time.Hour)},
		{id: "c", name: "Prato Pintado", tags: []string{"barro", "pintura"}, category: "ceramica", status: "inactive", price: 40, views: 300, created: base.Add(-3 * time.Hour)},
		{id: "d", name: "bolsa de Couro", tags: []string{"couro"}, category: "couro", status: "active", price: 55, views: 5, featured: true, created: base.Add(-2 * time.Hour)},
		{id: "e", name: "Árvore de Madeira", tags: []string{"entalhe"}, category: "madeira", status: "active", price: 80, views: 99, created: base.Add(-5 * time.Hour)},
	}
}

func TestQuery_PriceRangeKeepsInputOrder(t *testing.T) {
	collection := sample()
	for i := range collection {
		collection[i].featured = false
	}

	result := newEngine().Query(collection, domain.NewFilterCriteria(domain.WithPriceRange(20, 60)), nil)

	assert.Equal(t, []string{"b", "c", "d"}, ids(result.Items))
	assert.Equal(t, 3, result.TotalMatching)
	assert.Equal(t, 5, result.TotalUnfiltered)
	assert.Nil(t, result.Page)
}

func TestQuery_PriceRangeIsInclusive(t *testing.T) {
	result := newEngine().Query(sample(), domain.NewFilterCriteria(domain.WithPriceRange(25, 55)), nil)
	assert.ElementsMatch(t, []string{"b", "c", "d"}, ids(result.Items))
}

func TestQuery_InvertedPriceRangeIsClamped(t *testing.T) {
	// max < min vira [40, 40]
	result := newEngine().Query(sample(), domain.NewFilterCriteria(domain.WithPriceRange(40, 10)), nil)
	assert.Equal(t, []string{"c"}, ids(result.Items))
}

func TestQuery_SearchIsCaseInsensitiveOverAllTextFields(t *testing.T) {
	engine := newEngine()

	byName := engine.Query(sample(), domain.NewFilterCriteria(domain.WithSearchText("  CESTO ")), nil)
	assert.Equal(t, []string{"b"}, ids(byName.Items))

	byTag := engine.Query(sample(), domain.NewFilterCriteria(domain.WithSearchText("Barro")), nil)
	assert.Equal(t, []string{"a", "c"}, ids(byTag.Items))

	blank := engine.Query(sample(), domain.NewFilterCriteria(domain.WithSearchText("   ")), nil)
	assert.Equal(t, 5, blank.TotalMatching)
}

func TestQuery_FacetsIgnoreOwnCategoryFilter(t *testing.T) {
	criteria := domain.NewFilterCriteria(domain.WithCategory("ceramica"))

	result := newEngine().Query(sample(), criteria, nil)

	assert.Equal(t, []string{"a", "c"}, ids(result.Items))
	assert.Equal(t, map[string]int{"ceramica": 2, "cestaria": 1, "couro": 1, "madeira": 1}, result.Facets)
	// sem outros filtros, a faceta da categoria selecionada é igual ao total
	assert.Equal(t, result.TotalMatching, result.Facets["ceramica"])
}

func TestQuery_FacetsRespectOtherFilters(t *testing.T) {
	criteria := domain.NewFilterCriteria(
		domain.WithCategory("couro"),
		domain.WithStatus("active"),
		domain.WithPriceRange(0, 60),
	)

	result := newEngine().Query(sample(), criteria, nil)

	assert.Equal(t, []string{"d"}, ids(result.Items))
	assert.Equal(t, map[string]int{"ceramica": 1, "cestaria": 1, "couro": 1}, result.Facets)
	for _, count := range result.Facets {
		assert.LessOrEqual(t, count, result.TotalUnfiltered)
	}
}

func TestQuery_AllSentinelDisablesFilters(t *testing.T) {
	criteria := domain.NewFilterCriteria(domain.WithCategory("ALL"), domain.WithStatus("all"))
	result := newEngine().Query(sample(), criteria, nil)
	assert.Equal(t, 5, result.TotalMatching)
}

func TestQuery_UnknownCategoryIsEmptyNotError(t *testing.T) {
	result := newEngine().Query(sample(), domain.NewFilterCriteria(domain.WithCategory("vidro")), nil)
	assert.Empty(t, result.Items)
	assert.Equal(t, 0, result.TotalMatching)
	assert.Equal(t, 5, result.TotalUnfiltered)
}

func TestQuery_StatusLiteralAndDerived(t *testing.T) {
	engine := newEngine()

	inactive := engine.Query(sample(), domain.NewFilterCriteria(domain.WithStatus("Inactive")), nil)
	assert.Equal(t, []string{"c"}, ids(inactive.Items))

	popular := engine.Query(sample(), domain.NewFilterCriteria(domain.WithStatus("popular")), nil)
	assert.Equal(t, []string{"a", "c"}, ids(popular.Items))
}

func TestQuery_Sorts(t *testing.T) {
	engine := newEngine()

	cases := []struct {
		name string
		key  domain.SortKey
		want []string
	}{
		{"relevance puts featured first", domain.SortRelevance, []string{"b", "d", "a", "c", "e"}},
		{"newest", domain.SortNewest, []string{"b", "d", "c", "a", "e"}},
		{"price ascending", domain.SortPriceAsc, []string{"a", "b", "c", "d", "e"}},
		{"price descending", domain.SortPriceDesc, []string{"e", "d", "c", "b", "a"}},
		{"name ignores case and accents", domain.SortName, []string{"e", "d", "b", "c", "a"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := engine.Query(sample(), domain.NewFilterCriteria(domain.WithSort(tc.key)), nil)
			assert.Equal(t, tc.want, ids(result.Items))
		})
	}
}

func TestQuery_SortIsStable(t *testing.T) {
	collection := []item{
		{id: "1", price: 30, created: base},
		{id: "2", price: 10, created: base},
		{id: "3", price: 30, created: base},
		{id: "4", price: 10, created: base},
		{id: "5", price: 30, created: base},
	}
	engine := newEngine()

	asc := engine.Query(collection, domain.NewFilterCriteria(domain.WithSort(domain.SortPriceAsc)), nil)
	assert.Equal(t, []string{"2", "4", "1", "3", "5"}, ids(asc.Items))

	desc := engine.Query(collection, domain.NewFilterCriteria(domain.WithSort(domain.SortPriceDesc)), nil)
	assert.Equal(t, []string{"1", "3", "5", "2", "4"}, ids(desc.Items))

	newest := engine.Query(collection, domain.NewFilterCriteria(domain.WithSort(domain.SortNewest)), nil)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(newest.Items))
}

func TestQuery_Pagination(t *testing.T) {
	engine := newEngine()
	criteria := domain.NewFilterCriteria(domain.WithSort(domain.SortPriceAsc))

	page := domain.NewPageRequest(1, 2, 100)
	result := engine.Query(sample(), criteria, &page)

	assert.Equal(t, []string{"c", "d"}, ids(result.Items))
	assert.Equal(t, 5, result.TotalMatching)
	require.NotNil(t, result.Page)
	assert.Equal(t, 3, result.Page.TotalPages)

	last := domain.NewPageRequest(2, 2, 100)
	assert.Equal(t, []string{"e"}, ids(engine.Query(sample(), criteria, &last).Items))

	beyond := domain.NewPageRequest(9, 2, 100)
	out := engine.Query(sample(), criteria, &beyond)
	assert.NotNil(t, out.Items)
	assert.Empty(t, out.Items)
	assert.Equal(t, 5, out.TotalMatching)
}

func TestQuery_TotalMatchingEqualsUnpaginatedLength(t *testing.T) {
	engine := newEngine()
	criterias := []domain.FilterCriteria{
		domain.NewFilterCriteria(),
		domain.NewFilterCriteria(domain.WithSearchText("de")),
		domain.NewFilterCriteria(domain.WithStatus("active"), domain.WithPriceRange(20, 100)),
		domain.NewFilterCriteria(domain.WithCategory("ceramica"), domain.WithSort(domain.SortName)),
	}

	for _, criteria := range criterias {
		result := engine.Query(sample(), criteria, nil)
		assert.Equal(t, len(result.Items), result.TotalMatching)
	}
}

func TestQuery_EmptyCollection(t *testing.T) {
	page := domain.NewPageRequest(0, 10, 100)
	result := newEngine().Query(nil, domain.NewFilterCriteria(domain.WithSearchText("x")), &page)

	assert.NotNil(t, result.Items)
	assert.Empty(t, result.Items)
	assert.Equal(t, 0, result.TotalMatching)
	assert.Equal(t, 0, result.TotalUnfiltered)
	assert.Empty(t, result.Facets)
	assert.Equal(t, 0, result.Page.TotalPages)
}

func TestQuery_DoesNotMutateInput(t *testing.T) {
	collection := sample()
	before := ids(collection)

	newEngine().Query(collection, domain.NewFilterCriteria(domain.WithSort(domain.SortPriceDesc)), nil)

	assert.Equal(t, before, ids(collection))
}

func TestQuery_ViewWithoutPriceIgnoresRange(t *testing.T) {
	engine := query.New(query.Fields[item]{
		Name: func(i item) string { return i.name },
	})

	result := engine.Query(sample(), domain.NewFilterCriteria(domain.WithPriceRange(1000, 2000)), nil)
	assert.Equal(t, 5, result.TotalMatching)
}
