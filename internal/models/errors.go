// ABOUTME: Error taxonomy shared across the retrieval and evaluation pipeline
// ABOUTME: Sentinel errors are wrapped at call sites and checked with errors.Is
package models

import "errors"

var (
	// ErrEmbeddingService indicates a transport or quota failure from the
	// embedding service after retries were exhausted.
	ErrEmbeddingService = errors.New("embedding service failure")

	// ErrGeneration indicates the generation service call failed.
	ErrGeneration = errors.New("generation failure")

	// ErrMalformedResponse indicates a generation response that could not be
	// parsed into the required recommendation schema, including fabricated
	// citations and actions outside the decision spec vocabulary.
	ErrMalformedResponse = errors.New("malformed generation response")

	// ErrInvalidScore indicates a judge response with a missing dimension or
	// a score outside the declared 1-5 bound. Such scores are discarded,
	// never clamped.
	ErrInvalidScore = errors.New("invalid judge score")

	// ErrIndexUnavailable indicates the vector index could not be opened.
	// An open but empty index is not unavailable; it returns zero matches.
	ErrIndexUnavailable = errors.New("vector index unavailable")
)
