package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port string

	// Shopify
	ShopDomain            string
	StorefrontAccessToken string
	AdminAccessToken      string
	ShopifyAPIVersion     string
	ProductLimit          int

	// Store identity fed into the composer system prompt
	StoreName string
	StoreInfo string

	// Gemini. GeminiAPIKeys may hold several comma-separated keys; the
	// service rotates to the next one when a key runs out of quota.
	GeminiAPIKeys            string
	GeminiModel              string
	GeminiFallbackModel      string
	GeminiTemperature        float32
	GeminiMaxOutputTokens    int
	GeminiExtractTemperature float32
	GeminiExtractMaxTokens   int

	// Composer context bounds
	HistoryTokenBudget int

	// Recommendations persistence
	RecommendationsDBPath string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getFloatEnv(key string, def float32) float32 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return def
	}
	return float32(f)
}

// Load reads all env vars and builds the config.
func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		ShopDomain:            getEnv("SHOPIFY_SHOP_DOMAIN", ""),
		StorefrontAccessToken: getEnv("SHOPIFY_STOREFRONT_TOKEN", ""),
		AdminAccessToken:      getEnv("SHOPIFY_ADMIN_TOKEN", ""),
		ShopifyAPIVersion:     getEnv("SHOPIFY_API_VERSION", "2023-01"),
		ProductLimit:          getIntEnv("PRODUCT_LIMIT", 75),

		StoreName: getEnv("STORE_NAME", "Aloha Shopping"),
		StoreInfo: getEnv("STORE_INFO", "Aloha Shopping - Your personal shopping assistant"),

		GeminiAPIKeys:            getEnv("GEMINI_API_KEYS", getEnv("GEMINI_API_KEY", "")),
		GeminiModel:              getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiFallbackModel:      getEnv("GEMINI_FALLBACK_MODEL", "gemini-2.5-flash-lite"),
		GeminiTemperature:        getFloatEnv("GEMINI_TEMPERATURE", 0.7),
		GeminiMaxOutputTokens:    getIntEnv("GEMINI_MAX_OUTPUT_TOKENS", 300),
		GeminiExtractTemperature: getFloatEnv("GEMINI_EXTRACT_TEMPERATURE", 0.2),
		GeminiExtractMaxTokens:   getIntEnv("GEMINI_EXTRACT_MAX_TOKENS", 150),

		HistoryTokenBudget: getIntEnv("HISTORY_TOKEN_BUDGET", 2000),

		RecommendationsDBPath: getEnv("RECOMMENDATIONS_DB_PATH", "recommendations.db"),
	}

	if cfg.ShopDomain == "" {
		log.Println("⚠️  SHOPIFY_SHOP_DOMAIN is not set - catalog requests will fail")
	}
	if cfg.GeminiAPIKeys == "" {
		log.Println("⚠️  GEMINI_API_KEYS is not set - language model requests will fail")
	}

	return cfg
}
