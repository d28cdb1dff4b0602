// Package codegen produces random alphanumeric short codes.
//
// Codes come from math/rand and are not suitable as secrets. Uniqueness is
// ultimately enforced by the store's constraint; the existence check done by
// Generator only reduces how often an insert trips over it.
package codegen

import (
	"context"
	"math/rand/v2"
)

const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const (
	MaxAttempts    = 10
	CodeLength     = 6
	FallbackLength = 8
)

// RandomCode returns length characters drawn uniformly from Alphabet.
func RandomCode(length int) string {
	return randomCode(length, rand.IntN)
}

func randomCode(length int, intn func(int) int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = Alphabet[intn(len(Alphabet))]
	}
	return string(b)
}

// ExistsFunc reports whether a code is already taken.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

type Generator struct {
	exists ExistsFunc
	intn   func(int) int
}

type Option func(*Generator)

// WithIntN replaces the random index source.
func WithIntN(intn func(int) int) Option {
	return func(g *Generator) { g.intn = intn }
}

func NewGenerator(exists ExistsFunc, opts ...Option) *Generator {
	g := &Generator{exists: exists, intn: rand.IntN}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// UniqueCode tries MaxAttempts codes of CodeLength characters and returns the
// first one exists reports as free. If every attempt collides it returns a
// FallbackLength code without checking it; a collision there surfaces later as
// a duplicate-code error from the store.
func (g *Generator) UniqueCode(ctx context.Context) (string, error) {
	for range MaxAttempts {
		candidate := randomCode(CodeLength, g.intn)
		taken, err := g.exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return randomCode(FallbackLength, g.intn), nil
}
