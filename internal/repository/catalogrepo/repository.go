package catalogrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"govitrine/internal/domain"
	apperror "govitrine/internal/errors"
	"govitrine/internal/pkg/cache"
	"govitrine/internal/pkg/logger"
	"govitrine/internal/pkg/metrics"
)

// Chaves de cache das coleções completas (fotografias) e dos produtos individuais.
const (
	snapshotCacheKey = "catalog:snapshot:%s"
	productCacheKey  = "catalog:product:%s"
)

// Repository carrega as coleções do catálogo do PostgreSQL com cache-aside no Redis.
// A ordem do ORDER BY de cada consulta é a ordem de entrada do motor de consulta.
type Repository struct {
	DB          *sql.DB
	Cache       cache.Client
	DBTimeout   time.Duration
	SnapshotTTL time.Duration
	Logger      logger.Logger
}

// NewCatalogRepository cria o repositório com as dependências de infraestrutura.
func NewCatalogRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, snapshotTTL time.Duration, log logger.Logger) *Repository {
	return &Repository{
		DB:          db,
		Cache:       cacheClient,
		DBTimeout:   dbTimeout,
		SnapshotTTL: snapshotTTL,
		Logger:      log,
	}
}

const productColumns = `
	SELECT p.id, p.sku, p.name, p.description, p.tags, p.category_id, c.slug, c.name,
	       COALESCE(p.artisan_id, ''), COALESCE(a.name, ''), p.status, p.featured, p.in_stock,
	       p.price, p.stock, p.views, p.likes, p.created_at, p.updated_at
	FROM products p
	JOIN categories c ON c.id = p.category_id
	LEFT JOIN artisans a ON a.id = p.artisan_id`

func scanProduct(row interface{ Scan(dest ...any) error }) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description, pq.Array(&p.Tags), &p.CategoryID, &p.CategorySlug, &p.CategoryName,
		&p.ArtisanID, &p.ArtisanName, &p.Status, &p.Featured, &p.InStock,
		&p.Price, &p.Stock, &p.Views, &p.Likes, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// ListProducts retorna todos os produtos, mais recentes primeiro.
func (r *Repository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return loadSnapshot(ctx, r, "products", func(ctx context.Context) ([]domain.Product, error) {
		return queryAll(ctx, r, productColumns+` ORDER BY p.created_at DESC, p.id`, scanProduct)
	})
}

// FindProductByID busca um produto pelo ID (usado na inclusão no carrinho).
func (r *Repository) FindProductByID(ctx context.Context, id string) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(productCacheKey, id)

	// 1. Cache-aside (leitura)
	var product domain.Product
	if r.readCache(ctxTimeout, key, &product) {
		return product, nil
	}

	// 2. Banco de dados
	product, err := scanProduct(r.DB.QueryRowContext(ctxTimeout, productColumns+` WHERE p.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe.", id))
	}
	if err != nil {
		return domain.Product{}, apperror.NewDBError("Falha ao buscar produto", err)
	}

	// 3. Cache-aside (escrita)
	r.writeCache(ctxTimeout, key, product)
	return product, nil
}

// ListArtisans retorna os artesãos com a contagem de produtos.
func (r *Repository) ListArtisans(ctx context.Context) ([]domain.Artisan, error) {
	const q = `
		SELECT a.id, a.name, a.bio, a.specialty, a.location, a.status, a.featured, a.rating, a.likes,
		       COUNT(p.id), a.created_at
		FROM artisans a
		LEFT JOIN products p ON p.artisan_id = a.id
		GROUP BY a.id
		ORDER BY a.created_at DESC, a.id`

	return loadSnapshot(ctx, r, "artisans", func(ctx context.Context) ([]domain.Artisan, error) {
		return queryAll(ctx, r, q, func(row interface{ Scan(dest ...any) error }) (domain.Artisan, error) {
			var a domain.Artisan
			err := row.Scan(&a.ID, &a.Name, &a.Bio, &a.Specialty, &a.Location, &a.Status, &a.Featured,
				&a.Rating, &a.Likes, &a.ProductCount, &a.CreatedAt)
			return a, err
		})
	})
}

// ListCategories retorna as categorias com o slug da categoria-pai.
func (r *Repository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const q = `
		SELECT c.id, c.name, c.slug, c.description, COALESCE(parent.slug, ''), c.status,
		       COUNT(p.id), c.created_at
		FROM categories c
		LEFT JOIN categories parent ON parent.id = c.parent_id
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id, parent.slug
		ORDER BY c.position, c.name`

	return loadSnapshot(ctx, r, "categories", func(ctx context.Context) ([]domain.Category, error) {
		return queryAll(ctx, r, q, func(row interface{ Scan(dest ...any) error }) (domain.Category, error) {
			var c domain.Category
			err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentSlug, &c.Status, &c.ProductCount, &c.CreatedAt)
			return c, err
		})
	})
}

// ListOrders retorna os pedidos, mais recentes primeiro.
func (r *Repository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	const q = `
		SELECT id, customer_name, customer_email, status, payment_method, total, item_count, created_at
		FROM orders
		ORDER BY created_at DESC, id`

	return loadSnapshot(ctx, r, "orders", func(ctx context.Context) ([]domain.Order, error) {
		return queryAll(ctx, r, q, func(row interface{ Scan(dest ...any) error }) (domain.Order, error) {
			var o domain.Order
			err := row.Scan(&o.ID, &o.CustomerName, &o.CustomerEmail, &o.Status, &o.PaymentMethod, &o.Total, &o.ItemCount, &o.CreatedAt)
			return o, err
		})
	})
}

// ListComments retorna os comentários com o nome do produto comentado.
func (r *Repository) ListComments(ctx context.Context) ([]domain.Comment, error) {
	const q = `
		SELECT m.id, m.author_name, m.content, m.product_id, p.name, m.status, m.rating, m.likes, m.created_at
		FROM comments m
		JOIN products p ON p.id = m.product_id
		ORDER BY m.created_at DESC, m.id`

	return loadSnapshot(ctx, r, "comments", func(ctx context.Context) ([]domain.Comment, error) {
		return queryAll(ctx, r, q, func(row interface{ Scan(dest ...any) error }) (domain.Comment, error) {
			var m domain.Comment
			err := row.Scan(&m.ID, &m.AuthorName, &m.Content, &m.ProductID, &m.ProductName, &m.Status, &m.Rating, &m.Likes, &m.CreatedAt)
			return m, err
		})
	})
}

// InvalidateSnapshot remove a fotografia em cache de uma coleção.
func (r *Repository) InvalidateSnapshot(ctx context.Context, view string) error {
	if err := r.Cache.Delete(ctx, fmt.Sprintf(snapshotCacheKey, view)); err != nil {
		return apperror.NewInternalError("Falha ao invalidar cache do catálogo", err)
	}
	return nil
}

// --- Helpers ---

// loadSnapshot aplica cache-aside sobre a coleção inteira de uma visão.
func loadSnapshot[T any](ctx context.Context, r *Repository, view string, load func(context.Context) ([]T, error)) ([]T, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(snapshotCacheKey, view)

	var items []T
	if r.readCache(ctxTimeout, key, &items) {
		metrics.SnapshotLoaded(view, "cache")
		return items, nil
	}

	items, err := load(ctxTimeout)
	if err != nil {
		metrics.SnapshotLoaded(view, "error")
		return nil, apperror.NewDBError(fmt.Sprintf("Falha ao carregar %s", view), err)
	}
	metrics.SnapshotLoaded(view, "db")

	r.Logger.Debug("Coleção carregada do banco", map[string]interface{}{"view": view, "count": len(items)})
	r.writeCache(ctxTimeout, key, items)
	return items, nil
}

func queryAll[T any](ctx context.Context, r *Repository, query string, scan func(interface{ Scan(dest ...any) error }) (T, error)) ([]T, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// readCache tenta desserializar a chave em dest. Falhas do Redis não interrompem a leitura do DB.
func (r *Repository) readCache(ctx context.Context, key string, dest interface{}) bool {
	cached, err := r.Cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			r.Logger.Warn("Falha ao ler do cache, consultando o banco", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return false
	}
	if err := json.Unmarshal([]byte(cached), dest); err != nil {
		r.Logger.Warn("Entrada de cache corrompida", map[string]interface{}{"key": key})
		return false
	}
	return true
}

func (r *Repository) writeCache(ctx context.Context, key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		r.Logger.Error("Falha ao serializar para cache", err)
		return
	}
	if err := r.Cache.Set(ctx, key, payload, r.SnapshotTTL); err != nil {
		r.Logger.Warn("Falha ao gravar no cache", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
