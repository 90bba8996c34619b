// Package testsupport holds fixtures shared by tests: sandboxed configs,
// spine files on disk, and an opened analysis cache.
package testsupport
