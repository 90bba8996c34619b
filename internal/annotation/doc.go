// Package annotation is a typed side-table for derived facts.
//
// A Store maps (namespace, category, name) keys to arbitrary values and can
// remember which element a value came from. Tokens and lines each embed one
// so analysis passes can stash results without widening the core types.
package annotation
