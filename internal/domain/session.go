package domain

// UserRole é o papel carregado no JWT.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleCustomer UserRole = "customer"
	RoleGuest    UserRole = "guest"
)

// Session identifica o dono de um carrinho/wishlist.
// Usuários autenticados usam o user_id do token; visitantes usam o X-Session-ID.
type Session struct {
	ID     string   `json:"id"`
	UserID string   `json:"user_id,omitempty"`
	Role   UserRole `json:"role"`
}

// IsGuest indica se a sessão não possui usuário autenticado.
func (s Session) IsGuest() bool { return s.UserID == "" }
