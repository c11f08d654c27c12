// Package similarity provides the pure scoring primitives used by the
// matcher: cosine similarity between embedding vectors and Jaccard overlap
// between the token sets of two text spans.
//
// All functions are free of side effects and safe for concurrent use.
package similarity
