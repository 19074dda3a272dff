package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"podium/internal/api"
	"podium/internal/config"
	"podium/internal/pipeline"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()

	ctx := context.Background()
	session, err := pipeline.NewSession(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer session.Close()

	if cfg.DataPath != "" {
		f, err := os.Open(cfg.DataPath)
		if err != nil {
			log.Fatal(err)
		}
		snap, err := session.LoadDataset(ctx, f)
		f.Close()
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("loaded %s rows=%d columns=%d", cfg.DataPath, snap.Dataset.Len(), len(snap.Dataset.Columns))
	}

	h := api.NewServer(cfg, session)
	log.Printf("podium api listening on %s llm_providers=%q embed_providers=%q", cfg.APIAddr, cfg.LLMProviders, cfg.EmbedProviders)
	if err := http.ListenAndServe(cfg.APIAddr, h.Routes()); err != nil {
		log.Fatal(err)
	}
}
