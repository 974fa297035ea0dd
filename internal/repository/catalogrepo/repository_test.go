package catalogrepo_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"govitrine/internal/domain"
	apperror "govitrine/internal/errors"
	"govitrine/internal/pkg/cache"
	"govitrine/internal/pkg/logger"
	"govitrine/internal/repository/catalogrepo"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCache) GetInt(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

func (m *MockCache) Incr(ctx context.Context, key string, expiration time.Duration) (int, error) {
	args := m.Called(ctx, key, expiration)
	return args.Int(0), args.Error(1)
}

var created = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

var productCols = []string{
	"id", "sku", "name", "description", "tags", "category_id", "slug", "category_name",
	"artisan_id", "artisan_name", "status", "featured", "in_stock",
	"price", "stock", "views", "likes", "created_at", "updated_at",
}

func newRepo(t *testing.T) (*catalogrepo.Repository, sqlmock.Sqlmock, *MockCache) {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	client := new(MockCache)
	repo := catalogrepo.NewCatalogRepository(db, client, time.Second, time.Minute, logger.NewNopLogger())
	return repo, sqlMock, client
}

func TestListProducts_CacheMissLoadsFromDBAndPopulatesCache(t *testing.T) {
	repo, sqlMock, client := newRepo(t)

	client.On("Get", mock.Anything, "catalog:snapshot:products").Return("", cache.ErrCacheMiss)
	client.On("Set", mock.Anything, "catalog:snapshot:products", mock.Anything, time.Minute).Return(nil)

	sqlMock.ExpectQuery("FROM products p").WillReturnRows(
		sqlmock.NewRows(productCols).
			AddRow("p1", "SKU-1", "Vaso", "Vaso de barro", "{barro,cozinha}", "c1", "ceramica", "Cerâmica",
				"a1", "Dona Maria", "active", true, true, 40.0, 3, 120, 8, created, created).
			AddRow("p2", "SKU-2", "Cesto", "", "{}", "c2", "cestaria", "Cestaria",
				"", "", "inactive", false, false, 25.0, 0, 0, 0, created, created),
	)

	products, err := repo.ListProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, []string{"barro", "cozinha"}, products[0].Tags)
	assert.Equal(t, "Dona Maria", products[0].ArtisanName)
	assert.Equal(t, 3, products[0].MaxQuantity())
	assert.Equal(t, 0, products[1].MaxQuantity())
	assert.NoError(t, sqlMock.ExpectationsWereMet())
	client.AssertExpectations(t)
}

func TestListProducts_CacheHitSkipsDB(t *testing.T) {
	repo, sqlMock, client := newRepo(t)

	cached, _ := json.Marshal([]domain.Product{{ID: "p9", Name: "Do cache"}})
	client.On("Get", mock.Anything, "catalog:snapshot:products").Return(string(cached), nil)

	products, err := repo.ListProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p9", products[0].ID)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
	client.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListOrders_CacheFailureFallsBackToDB(t *testing.T) {
	repo, sqlMock, client := newRepo(t)

	client.On("Get", mock.Anything, "catalog:snapshot:orders").Return("", errors.New("redis: connection refused"))
	client.On("Set", mock.Anything, "catalog:snapshot:orders", mock.Anything, time.Minute).Return(errors.New("redis: connection refused"))

	sqlMock.ExpectQuery("FROM orders").WillReturnRows(
		sqlmock.NewRows([]string{"id", "customer_name", "customer_email", "status", "payment_method", "total", "item_count", "created_at"}).
			AddRow("o1", "Ana", "ana@exemplo.com", "pending", "pix", 150.5, 2, created),
	)

	orders, err := repo.ListOrders(context.Background())

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 150.5, orders[0].Total)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestListComments_DBErrorIsInternal(t *testing.T) {
	repo, sqlMock, client := newRepo(t)

	client.On("Get", mock.Anything, "catalog:snapshot:comments").Return("", cache.ErrCacheMiss)
	sqlMock.ExpectQuery("FROM comments m").WillReturnError(errors.New("pq: relation does not exist"))

	_, err := repo.ListComments(context.Background())

	var internal *apperror.InternalError
	assert.ErrorAs(t, err, &internal)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestListCategoriesAndArtisans(t *testing.T) {
	repo, sqlMock, client := newRepo(t)

	client.On("Get", mock.Anything, mock.Anything).Return("", cache.ErrCacheMiss)
	client.On("Set", mock.Anything, mock.Anything, mock.Anything, time.Minute).Return(nil)

	sqlMock.ExpectQuery("FROM categories c").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "slug", "description", "parent_slug", "status", "count", "created_at"}).
			AddRow("c1", "Cerâmica", "ceramica", "", "", "active", 4, created).
			AddRow("c2", "Vasos", "vasos", "", "ceramica", "active", 2, created),
	)
	sqlMock.ExpectQuery("FROM artisans a").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "bio", "specialty", "location", "status", "featured", "rating", "likes", "count", "created_at"}).
			AddRow("a1", "Dona Maria", "bio", "ceramica", "Cunha", "active", true, 4.8, 60, 12, created),
	)

	categories, err := repo.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ceramica", categories[1].ParentSlug)

	artisans, err := repo.ListArtisans(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, artisans[0].ProductCount)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestFindProductByID_NotFound(t *testing.T) {
	repo, sqlMock, client := newRepo(t)

	client.On("Get", mock.Anything, "catalog:product:ghost").Return("", cache.ErrCacheMiss)
	sqlMock.ExpectQuery("WHERE p.id = \\$1").WithArgs("ghost").WillReturnRows(sqlmock.NewRows(productCols))

	_, err := repo.FindProductByID(context.Background(), "ghost")

	assert.IsType(t, &apperror.NotFoundError{}, err)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestFindProductByID_Found(t *testing.T) {
	repo, sqlMock, client := newRepo(t)

	client.On("Get", mock.Anything, "catalog:product:p1").Return("", cache.ErrCacheMiss)
	client.On("Set", mock.Anything, "catalog:product:p1", mock.Anything, time.Minute).Return(nil)
	sqlMock.ExpectQuery("WHERE p.id = \\$1").WithArgs("p1").WillReturnRows(
		sqlmock.NewRows(productCols).AddRow("p1", "SKU-1", "Vaso", "", "{}", "c1", "ceramica", "Cerâmica",
			"", "", "active", false, true, 40.0, 5, 0, 0, created, created),
	)

	product, err := repo.FindProductByID(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, 40.0, product.Price)
	assert.Equal(t, 5, product.MaxQuantity())
	client.AssertExpectations(t)
}

func TestInvalidateSnapshot(t *testing.T) {
	repo, _, client := newRepo(t)
	client.On("Delete", mock.Anything, "catalog:snapshot:orders").Return(nil)

	assert.NoError(t, repo.InvalidateSnapshot(context.Background(), "orders"))
	client.AssertExpectations(t)
}
