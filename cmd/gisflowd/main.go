package main

import (
	"context"
	"log"

	"gisflow/internal/config"
	"gisflow/internal/daemonrun"
)

func main() {
	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := daemonrun.Run(context.Background(), cfg, daemonrun.Options{}); err != nil {
		log.Fatalf("gisflowd: %v", err)
	}
}
