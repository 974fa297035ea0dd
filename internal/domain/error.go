package domain

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Code     int    `json:"code" example:"422"`
	Category string `json:"category" example:"INVALID_QUANTITY"`
	Message  string `json:"message" example:"Quantidade inválida para p1: apenas 3 em estoque"`
}
