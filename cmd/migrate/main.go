package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"govitrine/config"
	"govitrine/internal/pkg/database"
)

// Uso: go run ./cmd/migrate [-dir ./sql] [-seed] up|down|status|redo|version
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ Aviso: .env não encontrado; usando apenas o ambiente do sistema: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("goose: %v", err)
	}

	var (
		migrationsDir string
		withSeed      bool
	)
	flag.StringVar(&migrationsDir, "dir", "./sql", "diretório das migrações")
	flag.BoolVar(&withSeed, "seed", false, "aplica também os dados de exemplo de ./sql/seed")
	flag.Parse()

	db, err := database.NewPostgresDB(cfg.DatabaseURL, database.DefaultPoolConfig())
	if err != nil {
		log.Fatalf("goose: falha ao conectar ao DB: %v\n", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Fatalf("goose: falha ao fechar o DB: %v\n", err)
		}
	}()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("goose: %v", err)
	}

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}
	command, args := arguments[0], arguments[1:]

	if err := goose.Run(command, db, migrationsDir, args...); err != nil {
		log.Fatalf("goose %v: %v", command, err)
	}

	// Seed usa tabela de versão própria para não se misturar ao schema.
	if withSeed && command == "up" {
		goose.SetTableName("goose_seed_version")
		if err := goose.Run("up", db, migrationsDir+"/seed"); err != nil {
			log.Fatalf("goose seed: %v", err)
		}
	}

	fmt.Printf("goose %s success\n", command)
}
