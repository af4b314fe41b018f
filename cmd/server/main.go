package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/mzaytsev/authd/internal/server"
	"github.com/mzaytsev/authd/internal/server/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on the environment")
	}

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
