// Package cache memoizes pipeline stage results behind content-addressed keys.
//
// A StageCache maps a fingerprint of (stage name, exact input, parameters)
// to a previously computed payload with an expiry. It is an optimization
// only: lookups that fail or find an expired entry are misses, and store
// failures are logged and swallowed, so every stage computes the same result
// with the cache disabled.
//
// # Concurrent misses
//
// Two runs that look up the same key at the same time may both miss and
// both recompute. Both then store equivalent payloads and the later write
// wins. This is a relaxed guarantee: the cache bounds redundant work to one
// computation per concurrent caller per expiry window and is not a
// mutual-exclusion primitive.
package cache
