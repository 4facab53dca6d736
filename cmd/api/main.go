package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/petstore/go-petstore-server/internal/app/api"
)

func main() {
	// optional .env for local development; real deployments set the environment
	_ = godotenv.Load()

	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("api exited: %v", err)
	}
}
