// Package embedding holds what the embedding provider adapters share:
// mapping transport failures onto the domain's provider errors.
//
// The providers themselves live in subpackages (openai, ollama, compat,
// hashed) and the decorators in ratelimit and retry.
package embedding
