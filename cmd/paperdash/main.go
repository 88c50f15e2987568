package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"paperdash/internal/cli"
)

func main() {
	// Optional .env for PAPERDASH_PIPELINE and friends.
	_ = godotenv.Load()

	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
