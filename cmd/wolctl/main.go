// Package main provides wolctl, the operator CLI for the widget server.
//
// Usage:
//
//	wolctl seed --file fixtures.yaml
//	wolctl parse https://app.example.com/widget/abc123.js
//	wolctl render --api http://localhost:8080 --widget abc123
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
