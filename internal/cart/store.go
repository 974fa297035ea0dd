// Package cart implementa o estado de carrinho e de wishlist de uma sessão.
//
// Um único Store serve as duas instâncias: no carrinho a quantidade é limitada pelo
// estoque informado na inclusão; na wishlist cada linha é apenas presença (quantidade 1).
// As mutações são serializadas por um mutex, então chamadas concorrentes nunca se perdem.
package cart

import (
	"container/list"
	"sync"
	"time"

	"govitrine/internal/domain"
	apperror "govitrine/internal/errors"
)

// Store guarda as linhas indexadas por produto, em ordem de inclusão.
type Store struct {
	mu      sync.Mutex
	kind    domain.CartKind
	order   *list.List               // *domain.CartLine em ordem de inclusão
	lines   map[string]*list.Element // productID -> elemento em order
	version uint64
	now     func() time.Time
}

// Option configura o Store.
type Option func(*Store)

// WithClock substitui o relógio usado em AddedAt (testes).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewCart cria um carrinho vazio.
func NewCart(opts ...Option) *Store {
	return newStore(domain.KindCart, opts...)
}

// NewWishlist cria uma wishlist vazia.
func NewWishlist(opts ...Option) *Store {
	return newStore(domain.KindWishlist, opts...)
}

func newStore(kind domain.CartKind, opts ...Option) *Store {
	s := &Store{
		kind:  kind,
		order: list.New(),
		lines: make(map[string]*list.Element),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Kind retorna a instância (carrinho ou wishlist).
func (s *Store) Kind() domain.CartKind { return s.kind }

// Add inclui o produto ou acumula a quantidade na linha existente, limitando a [1, MaxQuantity].
// O preço unitário é o da primeira inclusão; o limite é atualizado para o mais recente.
// No carrinho, um produto com MaxQuantity 0 (fora de estoque) é recusado com InvalidQuantityError.
func (s *Store) Add(item domain.LineItem) (domain.CartLine, error) {
	if err := validateItem(item); err != nil {
		return domain.CartLine{}, err
	}

	quantity := item.InitialQuantity
	if quantity == 0 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.kind == domain.KindWishlist {
		return s.upsertLocked(item, 1, nil), nil
	}

	if item.MaxQuantity != nil && *item.MaxQuantity == 0 {
		return domain.CartLine{}, apperror.NewInvalidQuantityError(item.ProductID, quantity, cloneInt(item.MaxQuantity))
	}

	if el, ok := s.lines[item.ProductID]; ok {
		quantity += el.Value.(*domain.CartLine).Quantity
	}
	return s.upsertLocked(item, clamp(quantity, item.MaxQuantity), cloneInt(item.MaxQuantity)), nil
}

func (s *Store) upsertLocked(item domain.LineItem, quantity int, maxQuantity *int) domain.CartLine {
	s.version++

	if el, ok := s.lines[item.ProductID]; ok {
		line := el.Value.(*domain.CartLine)
		line.Quantity = quantity
		line.MaxQuantity = maxQuantity
		return copyLine(line)
	}

	line := &domain.CartLine{
		ProductID:   item.ProductID,
		UnitPrice:   item.UnitPrice,
		Quantity:    quantity,
		MaxQuantity: maxQuantity,
		AddedAt:     s.now(),
	}
	s.lines[item.ProductID] = s.order.PushBack(line)
	return copyLine(line)
}

// Remove apaga a linha do produto. Produto ausente é no-op.
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(productID)
}

func (s *Store) removeLocked(productID string) bool {
	el, ok := s.lines[productID]
	if !ok {
		return false
	}
	s.order.Remove(el)
	delete(s.lines, productID)
	s.version++
	return true
}

// SetQuantity substitui a quantidade da linha.
// Fora de [1, MaxQuantity] retorna InvalidQuantityError e o estado não muda.
// Na wishlist o único valor aceito é 1.
func (s *Store) SetQuantity(productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.lines[productID]
	if !ok {
		return apperror.NewNotFoundError("produto " + productID + " não está no " + s.label())
	}
	line := el.Value.(*domain.CartLine)

	upper := cloneInt(line.MaxQuantity)
	if s.kind == domain.KindWishlist {
		one := 1
		upper = &one
	}

	if quantity < 1 || (upper != nil && quantity > *upper) {
		return apperror.NewInvalidQuantityError(productID, quantity, upper)
	}

	if line.Quantity != quantity {
		line.Quantity = quantity
		s.version++
	}
	return nil
}

// Toggle inverte a presença do produto: remove se presente, inclui com quantidade 1 se ausente.
// Retorna a presença resultante.
func (s *Store) Toggle(item domain.LineItem) (bool, error) {
	if err := validateItem(item); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.removeLocked(item.ProductID) {
		return false, nil
	}
	// Toggle sempre inclui com quantidade 1, inclusive no carrinho; o limite fica registrado.
	var maxQuantity *int
	if s.kind == domain.KindCart {
		if item.MaxQuantity != nil && *item.MaxQuantity == 0 {
			return false, apperror.NewInvalidQuantityError(item.ProductID, 1, cloneInt(item.MaxQuantity))
		}
		maxQuantity = cloneInt(item.MaxQuantity)
	}
	s.upsertLocked(item, 1, maxQuantity)
	return true, nil
}

// Contains indica se o produto está presente.
func (s *Store) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.lines[productID]
	return ok
}

// Clear esvazia o store (checkout concluído ou logout).
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.order.Len() == 0 {
		return
	}
	s.order.Init()
	clear(s.lines)
	s.version++
}

// Snapshot devolve as linhas em ordem de inclusão com os totais recalculados.
func (s *Store) Snapshot() domain.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := domain.CartSnapshot{
		Kind:    s.kind,
		Lines:   make([]domain.CartLine, 0, s.order.Len()),
		Version: s.version,
	}
	for el := s.order.Front(); el != nil; el = el.Next() {
		line := copyLine(el.Value.(*domain.CartLine))
		snap.Lines = append(snap.Lines, line)
		snap.TotalItemCount += line.Quantity
		snap.TotalPrice += line.Subtotal()
	}
	return snap
}

// Restore substitui o estado pelo de uma fotografia persistida (reidratação da sessão).
// Linhas duplicadas ou inválidas são descartadas; quantidades são relimitadas.
func (s *Store) Restore(snap domain.CartSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order.Init()
	clear(s.lines)

	for _, l := range snap.Lines {
		if l.ProductID == "" || l.UnitPrice < 0 {
			continue
		}
		if _, dup := s.lines[l.ProductID]; dup {
			continue
		}
		if s.kind == domain.KindCart && l.MaxQuantity != nil && *l.MaxQuantity == 0 {
			continue
		}
		line := copyLine(&l)
		if s.kind == domain.KindWishlist {
			line.Quantity = 1
			line.MaxQuantity = nil
		} else {
			line.Quantity = clamp(line.Quantity, line.MaxQuantity)
		}
		s.lines[line.ProductID] = s.order.PushBack(&line)
	}
	s.version = snap.Version
}

func (s *Store) label() string {
	if s.kind == domain.KindWishlist {
		return "wishlist"
	}
	return "carrinho"
}

func validateItem(item domain.LineItem) error {
	if item.ProductID == "" {
		return apperror.NewValidationError("product_id é obrigatório")
	}
	if item.UnitPrice < 0 {
		return apperror.NewValidationError("unit_price não pode ser negativo")
	}
	if item.InitialQuantity < 0 {
		return apperror.NewInvalidQuantityError(item.ProductID, item.InitialQuantity, cloneInt(item.MaxQuantity))
	}
	if item.MaxQuantity != nil && *item.MaxQuantity < 0 {
		return apperror.NewValidationError("max_quantity não pode ser negativo")
	}
	return nil
}

// clamp limita a quantidade a [1, max]; max nil não tem limite superior.
func clamp(quantity int, max *int) int {
	if max != nil && quantity > *max {
		quantity = *max
	}
	if quantity < 1 {
		quantity = 1
	}
	return quantity
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyLine(l *domain.CartLine) domain.CartLine {
	c := *l
	c.MaxQuantity = cloneInt(l.MaxQuantity)
	return c
}
