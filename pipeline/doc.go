// Package pipeline orchestrates one note through classification,
// extraction, derivation and persistence.
//
// Each Submit call is an independent run:
//
//	Classifying → Extracting → Deriving → Persisting → Done
//
// with Failed reachable from every state. Extraction finishes before any
// derivation starts. The summary, keyphrase and question stages then run
// concurrently on a shared ants worker pool and are joined before
// persistence. If any stage fails the run fails and nothing is persisted.
//
// Runs are safe to execute concurrently. Cancelling a run's context
// abandons it at the next provider, cache or database call without leaving
// partial rows behind.
package pipeline
