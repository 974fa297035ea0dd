package cartservice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"govitrine/internal/cart"
	"govitrine/internal/domain"
	apperror "govitrine/internal/errors"
	"govitrine/internal/pkg/logger"
	"govitrine/internal/pkg/metrics"
	"govitrine/internal/pkg/validation"
)

// ProductLookup resolve preço e estoque do produto no momento da inclusão.
type ProductLookup interface {
	FindProductByID(ctx context.Context, id string) (domain.Product, error)
}

// SnapshotStore persiste as fotografias entre reinícios e requisições.
type SnapshotStore interface {
	Save(ctx context.Context, sessionID string, snap domain.CartSnapshot) error
	Load(ctx context.Context, sessionID string, kind domain.CartKind) (domain.CartSnapshot, bool, error)
	Delete(ctx context.Context, sessionID string, kind domain.CartKind) error
}

type session struct {
	once     sync.Once
	cart     *cart.Store
	wishlist *cart.Store
	lastSeen atomic.Int64
}

// Service mantém um carrinho e uma wishlist por sessão.
// Cada mutação é aplicada em memória e depois persistida; falha de persistência não desfaz a mutação.
type Service struct {
	products  ProductLookup
	snapshots SnapshotStore
	logger    logger.Logger
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewService cria o serviço de carrinho.
func NewService(products ProductLookup, snapshots SnapshotStore, logger logger.Logger) *Service {
	return &Service{
		products:  products,
		snapshots: snapshots,
		logger:    logger,
		now:       time.Now,
		sessions:  make(map[string]*session),
	}
}

// --- Carrinho ---

// Cart retorna a fotografia do carrinho da sessão.
func (s *Service) Cart(ctx context.Context, sessionID string) domain.CartSnapshot {
	return s.session(ctx, sessionID).cart.Snapshot()
}

// AddToCart inclui o produto com o preço e o estoque atuais do catálogo.
func (s *Service) AddToCart(ctx context.Context, sessionID string, req domain.AddToCartRequest) (domain.CartSnapshot, error) {
	s.logger.Debug("Adicionando ao carrinho.", map[string]interface{}{
		"session":    sessionID,
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	})

	if err := validation.Struct(req); err != nil {
		return domain.CartSnapshot{}, err
	}

	item, err := s.lineItem(ctx, req.ProductID, req.Quantity)
	if err != nil {
		return domain.CartSnapshot{}, err
	}

	store := s.session(ctx, sessionID).cart
	line, err := store.Add(item)
	s.record(store, "add", err)
	if err != nil {
		return domain.CartSnapshot{}, err
	}

	snap := s.persist(ctx, sessionID, store)
	s.logger.Info("Produto adicionado ao carrinho.", map[string]interface{}{
		"session":    sessionID,
		"product_id": line.ProductID,
		"quantity":   line.Quantity,
		"total":      snap.TotalPrice,
	})
	return snap, nil
}

// UpdateCartQuantity substitui a quantidade de uma linha dentro de [1, estoque na inclusão].
func (s *Service) UpdateCartQuantity(ctx context.Context, sessionID, productID string, quantity int) (domain.CartSnapshot, error) {
	store := s.session(ctx, sessionID).cart
	err := store.SetQuantity(productID, quantity)
	s.record(store, "set_quantity", err)
	if err != nil {
		s.logger.Debug("Quantidade rejeitada.", map[string]interface{}{
			"session":    sessionID,
			"product_id": productID,
			"quantity":   quantity,
		})
		return domain.CartSnapshot{}, err
	}
	return s.persist(ctx, sessionID, store), nil
}

// RemoveFromCart remove a linha (produto ausente é no-op).
func (s *Service) RemoveFromCart(ctx context.Context, sessionID, productID string) domain.CartSnapshot {
	store := s.session(ctx, sessionID).cart
	store.Remove(productID)
	s.record(store, "remove", nil)
	return s.persist(ctx, sessionID, store)
}

// ClearCart esvazia o carrinho (checkout concluído ou logout).
func (s *Service) ClearCart(ctx context.Context, sessionID string) domain.CartSnapshot {
	return s.clear(ctx, sessionID, s.session(ctx, sessionID).cart)
}

// --- Wishlist ---

// Wishlist retorna a fotografia da wishlist da sessão.
func (s *Service) Wishlist(ctx context.Context, sessionID string) domain.CartSnapshot {
	return s.session(ctx, sessionID).wishlist.Snapshot()
}

// ToggleWishlist inverte a presença do produto na wishlist.
// Produtos fora de estoque são aceitos.
func (s *Service) ToggleWishlist(ctx context.Context, sessionID string, req domain.ToggleWishlistRequest) (domain.ToggleResult, error) {
	if err := validation.Struct(req); err != nil {
		return domain.ToggleResult{}, err
	}

	store := s.session(ctx, sessionID).wishlist

	// Remoção não precisa consultar o catálogo.
	var item domain.LineItem
	if store.Contains(req.ProductID) {
		item = domain.LineItem{ProductID: req.ProductID}
	} else {
		var err error
		item, err = s.lineItem(ctx, req.ProductID, 1)
		if err != nil {
			return domain.ToggleResult{}, err
		}
	}

	present, err := store.Toggle(item)
	s.record(store, "toggle", err)
	if err != nil {
		return domain.ToggleResult{}, err
	}

	snap := s.persist(ctx, sessionID, store)
	s.logger.Info("Wishlist alterada.", map[string]interface{}{
		"session":    sessionID,
		"product_id": req.ProductID,
		"present":    present,
	})
	return domain.ToggleResult{ProductID: req.ProductID, Present: present, Snapshot: snap}, nil
}

// RemoveFromWishlist remove o produto da wishlist (ausente é no-op).
func (s *Service) RemoveFromWishlist(ctx context.Context, sessionID, productID string) domain.CartSnapshot {
	store := s.session(ctx, sessionID).wishlist
	store.Remove(productID)
	s.record(store, "remove", nil)
	return s.persist(ctx, sessionID, store)
}

// ClearWishlist esvazia a wishlist.
func (s *Service) ClearWishlist(ctx context.Context, sessionID string) domain.CartSnapshot {
	return s.clear(ctx, sessionID, s.session(ctx, sessionID).wishlist)
}

// EvictIdle descarta da memória as sessões sem acesso há mais de maxIdle.
// O estado continua no SnapshotStore e é reidratado no próximo acesso.
func (s *Service) EvictIdle(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle).UnixNano()

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Load() < cutoff {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		s.logger.Debug("Sessões ociosas descartadas da memória.", map[string]interface{}{"evicted": evicted})
	}
	return evicted
}

// RunJanitor executa EvictIdle a cada interval até o contexto ser cancelado.
// interval <= 0 desliga a limpeza.
func (s *Service) RunJanitor(ctx context.Context, interval, maxIdle time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.EvictIdle(maxIdle)
		}
	}
}

// --- Helpers ---

// session devolve (criando uma única vez) os stores da sessão, reidratados do SnapshotStore.
func (s *Service) session(ctx context.Context, sessionID string) *session {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		s.mu.Lock()
		sess, ok = s.sessions[sessionID]
		if !ok {
			sess = &session{cart: cart.NewCart(), wishlist: cart.NewWishlist()}
			s.sessions[sessionID] = sess
		}
		s.mu.Unlock()
	}

	sess.once.Do(func() {
		s.rehydrate(ctx, sessionID, sess.cart)
		s.rehydrate(ctx, sessionID, sess.wishlist)
	})
	sess.lastSeen.Store(s.now().UnixNano())
	return sess
}

func (s *Service) rehydrate(ctx context.Context, sessionID string, store *cart.Store) {
	snap, found, err := s.snapshots.Load(ctx, sessionID, store.Kind())
	if err != nil {
		s.logger.Warn("Falha ao reidratar sessão; iniciando vazia.", map[string]interface{}{
			"session": sessionID,
			"kind":    store.Kind(),
			"error":   err.Error(),
		})
		return
	}
	if found {
		store.Restore(snap)
	}
}

func (s *Service) lineItem(ctx context.Context, productID string, quantity int) (domain.LineItem, error) {
	product, err := s.products.FindProductByID(ctx, productID)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return domain.LineItem{}, err
		}
		s.logger.Error("Falha ao consultar produto.", err)
		return domain.LineItem{}, apperror.NewInternalError("Falha ao consultar o catálogo.", err)
	}
	if product.Status != domain.StatusActive {
		return domain.LineItem{}, apperror.NewValidationError(fmt.Sprintf("produto %s não está disponível", productID))
	}

	maxQuantity := product.MaxQuantity()
	return domain.LineItem{
		ProductID:       product.ID,
		UnitPrice:       product.Price,
		MaxQuantity:     &maxQuantity,
		InitialQuantity: quantity,
	}, nil
}

func (s *Service) persist(ctx context.Context, sessionID string, store *cart.Store) domain.CartSnapshot {
	snap := store.Snapshot()
	if err := s.snapshots.Save(ctx, sessionID, snap); err != nil {
		metrics.CartPersistFailed(string(store.Kind()))
		s.logger.Error(fmt.Sprintf("Falha ao persistir %s da sessão %s.", store.Kind(), sessionID), err)
	}
	return snap
}

func (s *Service) clear(ctx context.Context, sessionID string, store *cart.Store) domain.CartSnapshot {
	store.Clear()
	s.record(store, "clear", nil)
	if err := s.snapshots.Delete(ctx, sessionID, store.Kind()); err != nil {
		metrics.CartPersistFailed(string(store.Kind()))
		s.logger.Error(fmt.Sprintf("Falha ao remover %s persistido da sessão %s.", store.Kind(), sessionID), err)
	}
	return store.Snapshot()
}

func (s *Service) record(store *cart.Store, operation string, err error) {
	result := "ok"
	var appErr apperror.AppError
	if errors.As(err, &appErr) {
		result = appErr.Category()
	} else if err != nil {
		result = "error"
	}
	metrics.CartOperation(string(store.Kind()), operation, result)
}
