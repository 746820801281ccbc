// Command storefront-e2e runs end-to-end checks against the storefront and
// renders their results.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/devicelab-dev/storefront-e2e/pkg/cli"
)

func main() {
	// Variables already in the environment win over .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: .env: %v\n", err)
	}
	cli.Execute()
}
