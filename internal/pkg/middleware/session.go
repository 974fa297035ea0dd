package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"govitrine/internal/domain"
	apperror "govitrine/internal/errors"
)

// SessionHeader transporta o id da sessão de visitantes.
const SessionHeader = "X-Session-ID"

// NewSessionMiddleware resolve a sessão dona do carrinho.
// Um Bearer válido identifica o usuário; sem token, vale o X-Session-ID (uuid), gerado e
// devolvido no header de resposta quando ausente. Token presente mas inválido é 401.
func NewSessionMiddleware(tokenSvc TokenService) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if tokenString, ok := bearerToken(r); ok {
				claims, err := tokenSvc.ValidateToken(tokenString)
				if err != nil {
					writeError(w, apperror.NewUnauthorizedError("Token inválido ou expirado."))
					return
				}
				userClaims := UserClaims{UserID: claims.UserID, Role: domain.UserRole(claims.Role)}
				ctx = context.WithValue(ctx, UserClaimsKey, userClaims)
				ctx = context.WithValue(ctx, SessionKey, domain.Session{
					ID:     "user:" + claims.UserID,
					UserID: claims.UserID,
					Role:   userClaims.Role,
				})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			sessionID := r.Header.Get(SessionHeader)
			if sessionID == "" {
				sessionID = uuid.NewString()
			} else if _, err := uuid.Parse(sessionID); err != nil {
				writeError(w, apperror.NewValidationError(SessionHeader+" deve ser um UUID."))
				return
			}

			w.Header().Set(SessionHeader, sessionID)
			ctx = context.WithValue(ctx, SessionKey, domain.Session{ID: "guest:" + sessionID, Role: domain.RoleGuest})
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// GetSessionFromContext recupera a sessão anexada por NewSessionMiddleware.
func GetSessionFromContext(ctx context.Context) (domain.Session, bool) {
	session, ok := ctx.Value(SessionKey).(domain.Session)
	return session, ok
}
