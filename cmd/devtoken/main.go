package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"govitrine/internal/pkg/token"
)

// Emite um JWT assinado com JWT_SECRET_KEY para testes locais.
// Uso: go run ./cmd/devtoken -user u-1 -role admin
func main() {
	_ = godotenv.Load()

	var (
		userID string
		role   string
		ttl    time.Duration
	)
	flag.StringVar(&userID, "user", "", "id do usuário (obrigatório)")
	flag.StringVar(&role, "role", "customer", "role: admin ou customer")
	flag.DurationVar(&ttl, "ttl", time.Hour, "validade do token")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		log.Fatal("JWT_SECRET_KEY não definida")
	}

	signed, err := token.NewService(secret, ttl).GenerateToken(userID, role)
	if err != nil {
		log.Fatalf("falha ao emitir token: %v", err)
	}
	fmt.Println(signed)
}
