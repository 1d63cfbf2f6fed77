package main

import (
	"log"
	"net/http"

	"vqabuild/internal/api"
	"vqabuild/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	h := api.NewServer(cfg)
	log.Printf("vqabuild api listening on %s parser=%q", cfg.APIAddr, cfg.Parser)
	if err := http.ListenAndServe(cfg.APIAddr, h.Routes()); err != nil {
		log.Fatal(err)
	}
}
