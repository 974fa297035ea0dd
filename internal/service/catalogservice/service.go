package catalogservice

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"

	"govitrine/internal/catalog/query"
	"govitrine/internal/catalog/stats"
	"govitrine/internal/catalog/view"
	"govitrine/internal/domain"
	apperror "govitrine/internal/errors"
	"govitrine/internal/pkg/logger"
	"govitrine/internal/pkg/metrics"
)

// CatalogRepository é o contrato de leitura das coleções do catálogo.
type CatalogRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListArtisans(ctx context.Context) ([]domain.Artisan, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListComments(ctx context.Context) ([]domain.Comment, error)
	InvalidateSnapshot(ctx context.Context, view string) error
}

// Options reúne os parâmetros do catálogo vindos da configuração.
type Options struct {
	Locale          language.Tag
	Thresholds      view.Thresholds
	DefaultPageSize int
	MaxPageSize     int
	// Now é o relógio das janelas "recentes" (time.Now quando nil).
	Now func() time.Time
}

// ListRequest são os parâmetros de uma listagem. Page começa em 1; Limit 0 usa o padrão.
// MinPrice/MaxPrice nil deixam o lado correspondente da faixa aberto.
type ListRequest struct {
	Search   string
	Category string
	Status   string
	MinPrice *float64
	MaxPrice *float64
	Sort     string
	Page     int
	Limit    int
}

// CatalogPage é a resposta de uma listagem: a página, totais, facetas e os
// agregados calculados sobre todos os itens que passaram nos filtros.
type CatalogPage struct {
	View            string                `json:"view"`
	Items           interface{}           `json:"items"`
	TotalMatching   int                   `json:"total_matching"`
	TotalUnfiltered int                   `json:"total_unfiltered"`
	Facets          map[string]int        `json:"facets"`
	Page            *domain.PageInfo      `json:"page,omitempty"`
	Sort            domain.SortKey        `json:"sort"`
	Stats           domain.AggregateStats `json:"stats"`
}

// Service executa o motor de consulta e o compositor de estatísticas sobre as coleções.
type Service struct {
	repo   CatalogRepository
	logger logger.Logger
	opts   Options
	group  singleflight.Group

	products   *query.Engine[domain.Product]
	artisans   *query.Engine[domain.Artisan]
	categories *query.Engine[domain.Category]
	orders     *query.Engine[domain.Order]
	comments   *query.Engine[domain.Comment]
}

// NewService cria o serviço e os motores de cada visão.
func NewService(repo CatalogRepository, logger logger.Logger, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultPageSize < 1 {
		opts.DefaultPageSize = 12
	}
	if opts.MaxPageSize < opts.DefaultPageSize {
		opts.MaxPageSize = opts.DefaultPageSize
	}
	locale := query.WithLocale(opts.Locale)

	return &Service{
		repo:       repo,
		logger:     logger,
		opts:       opts,
		products:   query.New(view.ProductFields(opts.Thresholds), locale),
		artisans:   query.New(view.ArtisanFields(opts.Thresholds), locale),
		categories: query.New(view.CategoryFields(), locale),
		orders:     query.New(view.OrderFields(), locale),
		comments:   query.New(view.CommentFields(opts.Thresholds), locale),
	}
}

// List filtra, ordena e pagina a visão pedida.
func (s *Service) List(ctx context.Context, name view.Name, req ListRequest) (CatalogPage, error) {
	s.logger.Debug("Listando catálogo.", map[string]interface{}{
		"view":     name,
		"search":   req.Search,
		"category": req.Category,
		"status":   req.Status,
		"sort":     req.Sort,
		"page":     req.Page,
	})

	criteria := buildCriteria(req)
	page := s.pageRequest(req)
	now := s.opts.Now()
	t := s.opts.Thresholds
	start := time.Now()

	var (
		out CatalogPage
		err error
	)

	switch name {
	case view.Products:
		out, err = list(ctx, s, name, s.repo.ListProducts, s.products, view.ProductStats(t, now), criteria, page)
	case view.Artisans:
		out, err = list(ctx, s, name, s.repo.ListArtisans, s.artisans, view.ArtisanStats(t, now), criteria, page)
	case view.Categories:
		out, err = list(ctx, s, name, s.repo.ListCategories, s.categories, view.CategoryStats(t, now), criteria, page)
	case view.Orders:
		out, err = list(ctx, s, name, s.repo.ListOrders, s.orders, view.OrderStats(t, now), criteria, page)
	case view.Comments:
		out, err = list(ctx, s, name, s.repo.ListComments, s.comments, view.CommentStats(t, now), criteria, page)
	default:
		return CatalogPage{}, apperror.NewNotFoundError(fmt.Sprintf("visão %q não existe", name))
	}
	if err != nil {
		return CatalogPage{}, err
	}

	metrics.ObserveQuery(string(name), string(criteria.SortKey()), time.Since(start))
	s.logger.Info("Listagem concluída.", map[string]interface{}{
		"view":           name,
		"total_matching": out.TotalMatching,
		"total":          out.TotalUnfiltered,
	})
	return out, nil
}

// Stats calcula os cards de estatística sobre a coleção inteira (sem filtros).
func (s *Service) Stats(ctx context.Context, name view.Name) (domain.AggregateStats, error) {
	now := s.opts.Now()
	t := s.opts.Thresholds

	switch name {
	case view.Products:
		return summarize(ctx, s, name, s.repo.ListProducts, view.ProductStats(t, now))
	case view.Artisans:
		return summarize(ctx, s, name, s.repo.ListArtisans, view.ArtisanStats(t, now))
	case view.Categories:
		return summarize(ctx, s, name, s.repo.ListCategories, view.CategoryStats(t, now))
	case view.Orders:
		return summarize(ctx, s, name, s.repo.ListOrders, view.OrderStats(t, now))
	case view.Comments:
		return summarize(ctx, s, name, s.repo.ListComments, view.CommentStats(t, now))
	default:
		return domain.AggregateStats{}, apperror.NewNotFoundError(fmt.Sprintf("visão %q não existe", name))
	}
}

// Refresh descarta a fotografia em cache da visão; a próxima leitura vai ao banco.
func (s *Service) Refresh(ctx context.Context, name view.Name) error {
	if _, ok := view.Parse(string(name)); !ok {
		return apperror.NewNotFoundError(fmt.Sprintf("visão %q não existe", name))
	}
	if err := s.repo.InvalidateSnapshot(ctx, string(name)); err != nil {
		s.logger.Error("Falha ao invalidar fotografia do catálogo.", err)
		return apperror.NewInternalError("Falha ao atualizar o catálogo.", err)
	}
	s.logger.Info("Fotografia do catálogo invalidada.", map[string]interface{}{"view": name})
	return nil
}

func (s *Service) pageRequest(req ListRequest) domain.PageRequest {
	limit := req.Limit
	if limit == 0 {
		limit = s.opts.DefaultPageSize
	}
	return domain.NewPageRequest(req.Page-1, limit, s.opts.MaxPageSize)
}

func buildCriteria(req ListRequest) domain.FilterCriteria {
	opts := []domain.CriteriaOption{
		domain.WithSearchText(req.Search),
		domain.WithCategory(req.Category),
		domain.WithStatus(req.Status),
		domain.WithSort(domain.ParseSortKey(req.Sort)),
	}
	if req.MinPrice != nil || req.MaxPrice != nil {
		lo, hi := 0.0, math.MaxFloat64
		if req.MinPrice != nil {
			lo = *req.MinPrice
		}
		if req.MaxPrice != nil {
			hi = *req.MaxPrice
		}
		opts = append(opts, domain.WithPriceRange(lo, hi))
	}
	return domain.NewFilterCriteria(opts...)
}

// load lê a coleção deduplicando cargas concorrentes da mesma visão.
func load[T any](ctx context.Context, s *Service, name view.Name, fetch func(context.Context) ([]T, error)) ([]T, error) {
	v, err, shared := s.group.Do(string(name), func() (interface{}, error) {
		return fetch(ctx)
	})
	if err != nil {
		s.logger.Error(fmt.Sprintf("Falha ao carregar a coleção %s.", name), err)
		return nil, apperror.NewInternalError("Falha ao carregar o catálogo.", err)
	}
	if shared {
		s.logger.Debug("Carga da coleção compartilhada.", map[string]interface{}{"view": name})
	}
	return v.([]T), nil
}

func list[T any](
	ctx context.Context,
	s *Service,
	name view.Name,
	fetch func(context.Context) ([]T, error),
	engine *query.Engine[T],
	spec stats.Spec[T],
	criteria domain.FilterCriteria,
	page domain.PageRequest,
) (CatalogPage, error) {
	collection, err := load(ctx, s, name, fetch)
	if err != nil {
		return CatalogPage{}, err
	}

	// Resultado completo primeiro: os agregados cobrem todos os itens filtrados, não só a página.
	full := engine.Query(collection, criteria, nil)
	aggregate := stats.Summarize(full.Items, spec)
	paged := query.Paginate(full, page)

	return CatalogPage{
		View:            string(name),
		Items:           paged.Items,
		TotalMatching:   paged.TotalMatching,
		TotalUnfiltered: paged.TotalUnfiltered,
		Facets:          paged.Facets,
		Page:            paged.Page,
		Sort:            criteria.SortKey(),
		Stats:           aggregate,
	}, nil
}

func summarize[T any](ctx context.Context, s *Service, name view.Name, fetch func(context.Context) ([]T, error), spec stats.Spec[T]) (domain.AggregateStats, error) {
	collection, err := load(ctx, s, name, fetch)
	if err != nil {
		return domain.AggregateStats{}, err
	}
	return stats.Summarize(collection, spec), nil
}
