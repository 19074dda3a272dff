package config

import (
	"os"
	"strconv"
)

type Config struct {
	APIAddr         string
	DataPath        string
	RolesFile       string
	LLMProviders    string
	EmbedProviders  string
	EmbedDim        int
	EmbedCachePath  string
	Matcher         string
	MatchThreshold  float64
	IntentThreshold float64
	FuzzyRatio      int
	DefaultLimit    int
	MaxPromptRows   int
}

func Load() Config {
	return Config{
		APIAddr:         getenv("PODIUM_API_ADDR", ":8080"),
		DataPath:        getenv("PODIUM_DATA_PATH", ""),
		RolesFile:       getenv("PODIUM_ROLES_FILE", ""),
		LLMProviders:    getenv("PODIUM_LLM_PROVIDERS", "mock"),
		EmbedProviders:  getenv("PODIUM_EMBED_PROVIDERS", "mock"),
		EmbedDim:        getenvInt("PODIUM_EMBED_DIM", 384),
		EmbedCachePath:  getenv("PODIUM_EMBED_CACHE", ""),
		Matcher:         getenv("PODIUM_MATCHER", "semantic"),
		MatchThreshold:  getenvFloat("PODIUM_MATCH_THRESHOLD", 0.6),
		IntentThreshold: getenvFloat("PODIUM_INTENT_THRESHOLD", 0.6),
		FuzzyRatio:      getenvInt("PODIUM_FUZZY_RATIO", 70),
		DefaultLimit:    getenvInt("PODIUM_DEFAULT_LIMIT", 10),
		MaxPromptRows:   getenvInt("PODIUM_MAX_PROMPT_ROWS", 20),
	}
}

func getenv(k, fallback string) string {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	return v
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvFloat(k string, fallback float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
