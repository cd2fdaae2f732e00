package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/solhub/solarsched/cmd"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
