// Package main is the checksums CLI entrypoint.
package main

import (
	"os"

	"checksums/internal/app"
)

func main() {
	application := app.New()
	os.Exit(application.Run(os.Args[1:]))
}
