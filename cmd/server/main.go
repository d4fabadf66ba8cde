package main

import (
	"fmt"
	"os"

	"github.com/labellens/backend/internal/bootstrap"
)

func main() {
	if err := bootstrap.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "labellens: %v\n", err)
		os.Exit(1)
	}
}
