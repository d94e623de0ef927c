package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/ashrotd/singcoach/cmd"
)

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
