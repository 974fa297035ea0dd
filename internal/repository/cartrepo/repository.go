package cartrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"govitrine/internal/domain"
	apperror "govitrine/internal/errors"
	"govitrine/internal/pkg/cache"
	"govitrine/internal/pkg/logger"
)

// cartCacheKey é a chave da fotografia: <kind>:<sessão>, e.g. "cart:guest:3f2a...".
const cartCacheKey = "%s:%s"

// Repository persiste as fotografias de carrinho e wishlist no Redis.
// A persistência é um passo explícito do serviço, depois de cada mutação bem-sucedida.
type Repository struct {
	Cache   cache.Client
	TTL     time.Duration
	Timeout time.Duration
	Logger  logger.Logger
}

// NewCartRepository cria o repositório. ttl é a vida da sessão sem atividade.
func NewCartRepository(cacheClient cache.Client, ttl, timeout time.Duration, log logger.Logger) *Repository {
	return &Repository{Cache: cacheClient, TTL: ttl, Timeout: timeout, Logger: log}
}

func key(kind domain.CartKind, sessionID string) string {
	return fmt.Sprintf(cartCacheKey, kind, sessionID)
}

// Save grava a fotografia renovando o TTL da sessão.
func (r *Repository) Save(ctx context.Context, sessionID string, snap domain.CartSnapshot) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	payload, err := json.Marshal(snap)
	if err != nil {
		return apperror.NewInternalError("Falha ao serializar carrinho", err)
	}
	if err := r.Cache.Set(ctxTimeout, key(snap.Kind, sessionID), payload, r.TTL); err != nil {
		return apperror.NewInternalError("Falha ao persistir carrinho", err)
	}
	return nil
}

// Load lê a fotografia persistida. found=false quando a sessão não tem estado salvo.
func (r *Repository) Load(ctx context.Context, sessionID string, kind domain.CartKind) (domain.CartSnapshot, bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	raw, err := r.Cache.Get(ctxTimeout, key(kind, sessionID))
	if errors.Is(err, cache.ErrCacheMiss) {
		return domain.CartSnapshot{}, false, nil
	}
	if err != nil {
		return domain.CartSnapshot{}, false, apperror.NewInternalError("Falha ao ler carrinho", err)
	}

	var snap domain.CartSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		// Fotografia corrompida é descartada: a sessão recomeça vazia.
		r.Logger.Warn("Fotografia de carrinho inválida descartada", map[string]interface{}{"session": sessionID, "kind": kind})
		return domain.CartSnapshot{}, false, nil
	}
	snap.Kind = kind
	return snap, true, nil
}

// Delete remove a fotografia (clear após checkout ou logout).
func (r *Repository) Delete(ctx context.Context, sessionID string, kind domain.CartKind) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	if err := r.Cache.Delete(ctxTimeout, key(kind, sessionID)); err != nil {
		return apperror.NewInternalError("Falha ao remover carrinho", err)
	}
	return nil
}
