package config_test

import (
	"context"
	"fmt"
	"log"

	"github.com/gradlemirror/gradlemirror/config"
)

func ExampleLoad() {
	// Load with defaults only (no config file)
	cfg, err := config.Load(nil, nil)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Addr: %s, Backend: %s\n", cfg.Server.Addr, cfg.Store.Backend)
	// Output: Addr: :8080, Backend: fs
}

func ExampleWithContext() {
	cfg, _ := config.Load(nil, nil)

	// Store config in context
	ctx := config.WithContext(context.Background(), cfg)

	// Retrieve later (e.g., in a subcommand)
	retrieved, err := config.FromContext(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Retrieved addr: %s\n", retrieved.Server.Addr)
	// Output: Retrieved addr: :8080
}
