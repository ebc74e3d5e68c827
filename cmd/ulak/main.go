package main

import (
	"os"

	"github.com/ulak-labs/ulak/internal/client"
)

func main() {
	if err := client.Execute(); err != nil {
		os.Exit(1)
	}
}
