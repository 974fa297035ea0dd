package catalog

import (
	"context"
	"net/http"
	"strconv"

	"govitrine/internal/api/response"
	"govitrine/internal/catalog/view"
	"govitrine/internal/domain"
	apperror "govitrine/internal/errors"
	"govitrine/internal/pkg/logger"
	"govitrine/internal/service/catalogservice"
)

// CatalogService define o contrato que o Handler espera da camada de Serviço.
type CatalogService interface {
	List(ctx context.Context, name view.Name, req catalogservice.ListRequest) (catalogservice.CatalogPage, error)
	Stats(ctx context.Context, name view.Name) (domain.AggregateStats, error)
	Refresh(ctx context.Context, name view.Name) error
}

// Handler agrupa os handlers de listagem e estatísticas do catálogo.
type Handler struct {
	Service CatalogService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc CatalogService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// ListHandler devolve o handler de GET /v1/catalog/{view}.
// @Summary Lista uma visão do catálogo
// @Description Busca textual, filtros de categoria, preço e status, ordenação e paginação. A resposta inclui facetas por categoria e os cards de estatística do conjunto filtrado.
// @Tags catalog
// @Produce json
// @Param view path string true "Visão" Enums(products, artisans, categories, orders, comments)
// @Param q query string false "Busca textual (case-insensitive)"
// @Param category query string false "Chave de categoria ou 'all'"
// @Param status query string false "Status literal ou derivado (featured, popular, in-stock, out-of-stock, low-stock) ou 'all'"
// @Param min_price query number false "Preço mínimo (inclusive)"
// @Param max_price query number false "Preço máximo (inclusive)"
// @Param sort query string false "Ordenação" Enums(relevance, newest, price-asc, price-desc, name)
// @Param page query int false "Página (começa em 1)"
// @Param limit query int false "Itens por página"
// @Success 200 {object} catalogservice.CatalogPage
// @Failure 400 {object} domain.ErrorResponse "Parâmetro inválido"
// @Failure 403 {object} domain.ErrorResponse "Visão restrita a administradores"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /catalog/{view} [get]
func (h *Handler) ListHandler(name view.Name) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := parseListRequest(r)
		if err != nil {
			response.Write(h.Logger, w, r, nil, err, http.StatusOK)
			return
		}

		page, err := h.Service.List(r.Context(), name, req)
		response.Write(h.Logger, w, r, page, err, http.StatusOK)
	}
}

// StatsHandler devolve o handler de GET /v1/stats/{view}.
// @Summary Cards de estatística de uma visão
// @Description Contagens por status, percentuais, somas, médias, taxas de abandono e variação da janela recente sobre a coleção inteira.
// @Tags catalog
// @Produce json
// @Param view path string true "Visão" Enums(products, artisans, categories, orders, comments)
// @Success 200 {object} domain.AggregateStats
// @Failure 403 {object} domain.ErrorResponse "Visão restrita a administradores"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /stats/{view} [get]
func (h *Handler) StatsHandler(name view.Name) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := h.Service.Stats(r.Context(), name)
		response.Write(h.Logger, w, r, out, err, http.StatusOK)
	}
}

// RefreshHandler devolve o handler de POST /v1/catalog/{view}/refresh.
// @Summary Descarta a fotografia em cache da visão
// @Tags catalog
// @Security BearerAuth
// @Param view path string true "Visão" Enums(products, artisans, categories, orders, comments)
// @Success 204 "Fotografia descartada"
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Failure 403 {object} domain.ErrorResponse "Permissão negada"
// @Router /catalog/{view}/refresh [post]
func (h *Handler) RefreshHandler(name view.Name) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h.Service.Refresh(r.Context(), name)
		response.Write(h.Logger, w, r, nil, err, http.StatusNoContent)
	}
}

// parseListRequest lê os parâmetros de query da listagem.
// Números malformados são rejeitados; ausentes ficam no valor zero (padrão do serviço).
func parseListRequest(r *http.Request) (catalogservice.ListRequest, error) {
	q := r.URL.Query()

	req := catalogservice.ListRequest{
		Search:   q.Get("q"),
		Category: q.Get("category"),
		Status:   q.Get("status"),
		Sort:     q.Get("sort"),
	}

	var err error
	if req.MinPrice, err = optionalFloat(q.Get("min_price"), "min_price"); err != nil {
		return req, err
	}
	if req.MaxPrice, err = optionalFloat(q.Get("max_price"), "max_price"); err != nil {
		return req, err
	}
	if req.Page, err = optionalInt(q.Get("page"), "page"); err != nil {
		return req, err
	}
	if req.Limit, err = optionalInt(q.Get("limit"), "limit"); err != nil {
		return req, err
	}
	return req, nil
}

func optionalFloat(raw, param string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperror.NewValidationError(param + " deve ser numérico")
	}
	return &v, nil
}

func optionalInt(raw, param string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, apperror.NewValidationError(param + " deve ser um inteiro não negativo")
	}
	return v, nil
}
