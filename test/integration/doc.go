// Package integration contains integration tests for the Uppi client.
//
// These tests use testcontainers to start a real Redis server and exercise
// the Redis storage backend, session persistence across client instances and
// the shared watch rate limit against it.
package integration
