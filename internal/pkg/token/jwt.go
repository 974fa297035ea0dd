package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"govitrine/internal/domain"
)

// Issuer é o emissor gravado e exigido nos tokens.
const Issuer = "GoVitrine-API"

// ErrMissingUserID indica um token válido que não identifica o usuário.
var ErrMissingUserID = errors.New("token sem user_id")

// TokenService define o contrato para emissão e validação de JWTs.
// O user_id do token identifica a sessão dona do carrinho e da wishlist.
type TokenService interface {
	GenerateToken(userID string, userRole string) (string, error)
	ValidateToken(tokenString string) (*CustomClaims, error)
}

// CustomClaims são as claims da vitrine sobre as claims registradas do JWT.
type CustomClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Service assina e valida tokens HS256 com uma chave compartilhada.
type Service struct {
	secretKey []byte
	expiry    time.Duration
	parser    *jwt.Parser
	now       func() time.Time
}

// NewService cria o serviço de tokens. Tokens de outros emissores são recusados;
// tokens sem issuer (emitidos pelo serviço de autenticação externo) são aceitos.
func NewService(secretKey string, expiry time.Duration) *Service {
	return &Service{
		secretKey: []byte(secretKey),
		expiry:    expiry,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithLeeway(30*time.Second),
		),
		now: time.Now,
	}
}

// GenerateToken emite um token para o usuário com a role informada.
func (s *Service) GenerateToken(userID string, userRole string) (string, error) {
	if userID == "" {
		return "", ErrMissingUserID
	}

	issuedAt := s.now()
	claims := CustomClaims{
		UserID: userID,
		Role:   string(normalizeRole(userRole)),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.expiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("falha ao assinar o token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifica assinatura, validade e emissor e devolve as claims.
// Sem user_id, o subject identifica o usuário. Roles desconhecidas viram customer.
func (s *Service) ValidateToken(tokenString string) (*CustomClaims, error) {
	claims := &CustomClaims{}

	parsed, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token inválido: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("token não é válido")
	}
	if claims.Issuer != "" && claims.Issuer != Issuer {
		return nil, fmt.Errorf("token inválido: emissor %q não reconhecido", claims.Issuer)
	}

	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	claims.Role = string(normalizeRole(claims.Role))
	return claims, nil
}

func normalizeRole(role string) domain.UserRole {
	switch r := domain.UserRole(role); r {
	case domain.RoleAdmin, domain.RoleCustomer:
		return r
	default:
		return domain.RoleCustomer
	}
}
