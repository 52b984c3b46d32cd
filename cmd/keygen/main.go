package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/arnavshah/double-bubble-api-go/pkg/auth"
	"github.com/arnavshah/double-bubble-api-go/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: keygen <userID>")
		os.Exit(1)
	}

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		fmt.Printf("Error: could not load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.APIMasterSecret == "" {
		fmt.Println("Error: API_MASTER_SECRET not found in environment or .env")
		os.Exit(1)
	}

	userID := os.Args[1]
	if strings.Contains(userID, ".") {
		fmt.Println("Error: userID may not contain '.'")
		os.Exit(1)
	}

	apiKey := auth.NewSigner(cfg.JWTSecret, cfg.APIMasterSecret).GenerateHMACKey(userID)
	fmt.Printf("Generated Key for %s:\n%s\n", userID, apiKey)
}
