package main

import (
	"os"
	"slices"

	"ferry/internal/logger"

	// Explicitly import backend implementations to ensure their init() functions run and they register themselves
	_ "ferry/pkg/storage/gcs"
	_ "ferry/pkg/storage/s3"
)

func main() {
	debug := slices.Contains(os.Args[1:], "--debug")
	log := logger.NewLogger(debug)

	app, err := newApp(log)
	if err != nil {
		log.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	Execute(app)
}
