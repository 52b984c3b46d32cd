package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/arnavshah/double-bubble-api-go/pkg/config"
	"github.com/arnavshah/double-bubble-api-go/pkg/logging"
	"github.com/arnavshah/double-bubble-api-go/pkg/server"
	"github.com/gin-gonic/gin"
)

var r *gin.Engine

func init() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}

	// Serverless instances are short-lived; without REDIS_URL run handles
	// only survive within one warm instance.
	h, _, err := server.NewHandler(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("could not initialize dependencies: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	r = server.NewRouter(h)
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
