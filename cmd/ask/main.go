package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"podium/internal/config"
	"podium/internal/pipeline"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")

	dataPath := flag.String("data", "", "CSV file to load (overrides PODIUM_DATA_PATH)")
	question := flag.String("q", "", "question to ask")
	matcher := flag.String("matcher", "", "entity matcher: semantic or fuzzy")
	asJSON := flag.Bool("json", false, "print the full outcome as JSON")
	flag.Parse()

	if *question == "" {
		fmt.Fprintln(os.Stderr, "usage: ask -q \"question\" [-data file.csv] [-matcher semantic|fuzzy] [-json]")
		os.Exit(2)
	}

	cfg := config.Load()
	if *dataPath != "" {
		cfg.DataPath = *dataPath
	}
	if *matcher != "" {
		cfg.Matcher = *matcher
	}

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
		if _, err := session.LoadDataset(ctx, f); err != nil {
			f.Close()
			log.Fatal(err)
		}
		f.Close()
	}

	out, err := session.Process(ctx, *question)
	if err != nil {
		log.Fatal(err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			log.Fatal(err)
		}
		return
	}
	fmt.Println(out.Answer)
}
