package domain

import "time"

// Order é a visão de listagem de um pedido no painel administrativo.
type Order struct {
	ID            string    `json:"id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	Total         float64   `json:"total"`
	ItemCount     int       `json:"item_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Status do ciclo de vida de um pedido.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

// Comment é um comentário/avaliação de produto sujeito à moderação.
type Comment struct {
	ID          string    `json:"id"`
	AuthorName  string    `json:"author_name"`
	Content     string    `json:"content"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Status      string    `json:"status"`
	Rating      int       `json:"rating"`
	Likes       int       `json:"likes"`
	CreatedAt   time.Time `json:"created_at"`
}

// Status de moderação de comentários.
const (
	CommentApproved = "approved"
	CommentPending  = "pending"
	CommentSpam     = "spam"
)
