package main

import (
	"log"

	mcpadapter "github.com/mkravchenko/claimflow/internal/adapters/mcp"
	"github.com/mkravchenko/claimflow/internal/bootstrap"
	"github.com/mkravchenko/claimflow/internal/config"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	app, err := bootstrap.New(cfg, "claimflow-mcp")
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	server := mcpadapter.NewServer(app.Processor, version)
	if err := server.ServeStdio(); err != nil {
		log.Fatalf("mcp server error: %v", err)
	}
}
