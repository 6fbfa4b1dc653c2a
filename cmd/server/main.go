package main

import (
	"log"

	"github.com/227007/E-commerce-backend/internal/app"
	"github.com/227007/E-commerce-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if err := app.New(cfg).Run(); err != nil {
		log.Fatal(err)
	}
}
