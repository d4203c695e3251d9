package main

import (
	"fmt"
	"os"

	"github.com/shotline/shotline-backend/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	a.Log.Info("Starting server", "port", port)
	if err := a.Run(":" + port); err != nil {
		a.Log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
