package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com"
	defaultFoodBaseURL   = "https://world.openfoodfacts.org"
)

// envOr returns the environment variable's value, or fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	log.SetPrefix("savr-api: ")
	log.SetFlags(0)

	// .env is optional in deployed environments where config comes from the
	// platform.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	h := &Handler{
		db:            getDBPool(),
		openAIBaseURL: envOr("OPENAI_BASE_URL", defaultOpenAIBaseURL),
		foodBaseURL:   envOr("FOOD_API_BASE_URL", defaultFoodBaseURL),
	}

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	addr := ":" + envOr("PORT", "8080")
	fmt.Printf("Starting savr API on %s\n", addr)
	if err := router.Run(addr); err != nil {
		log.Fatal(err)
	}
}
