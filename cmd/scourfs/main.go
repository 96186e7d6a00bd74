package main

import (
	"log"

	"scourfs/internal/app"
)

func main() {
	log.SetFlags(0)
	if err := app.Run(); err != nil {
		log.Fatalf("scourfs: %v", err)
	}
}
