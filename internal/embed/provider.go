// Package embed defines the embedding provider contract and its concrete
// backends. Per spec, the embedding model itself is always an external
// collaborator — a local subprocess speaking HTTP, or a remote API — never
// something this module computes in-process.
package embed

import (
	"context"
	"math"
)

// Mode specifies whether text is being embedded as a search query or as a
// passage being indexed. Some models produce better vectors when told
// which one they're doing.
type Mode string

const (
	ModeQuery   Mode = "query"
	ModePassage Mode = "passage"
)

// Provider converts text into L2-normalized embedding vectors.
type Provider interface {
	// Embed converts texts into vectors. Implementations normalize each
	// vector to unit length so cosine similarity reduces to a dot product
	// at query time.
	Embed(ctx context.Context, texts []string, mode Mode) ([][]float32, error)

	// Dimensions returns the vector width this provider produces.
	Dimensions() int

	// Close releases any resources (a subprocess, an HTTP client pool).
	Close() error
}

// normalize scales v to unit L2 length in place. A zero vector is left
// unchanged rather than dividing by zero.
func normalize(v []float32) {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		return
	}
	norm := math.Sqrt(sumSq)
	for i, x := range v {
		v[i] = float32(float64(x) / norm)
	}
}
