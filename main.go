package main

import (
	"flag"
	"log"

	"github.com/haguru/yelpcamp/config"
	"github.com/haguru/yelpcamp/internal/app"
)

func main() {
	configPath := flag.String("config", config.CONFIG_PATH, "path to the service configuration file")
	flag.Parse()

	// create and initialize the app
	app, err := app.NewApp(*configPath)
	if err != nil {
		log.Fatalf("failed to initialize app: %v", err)
	}

	// Run blocks until SIGINT/SIGTERM or a listener failure.
	if err := app.Run(); err != nil {
		log.Fatalf("app stopped with error: %v", err)
	}
}
