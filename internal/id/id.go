// Package id generates public identifiers for widgets and testimonials.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// alphabet keeps identifiers safe inside URLs, DOM ids and CSS selectors.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// size of the random part; 16 chars of a 62-symbol alphabet is ~95 bits.
const size = 16

// Generate creates a prefixed identifier, e.g. "wgt_3fJq9LrT0aZ8kPxm".
func Generate(prefix string) (string, error) {
	raw, err := gonanoid.Generate(alphabet, size)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	if prefix == "" {
		return raw, nil
	}
	return prefix + "_" + raw, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
