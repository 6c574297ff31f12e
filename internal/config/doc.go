// Package config handles configuration loading, parsing, and validation
// from various sources (.env file, config.yaml, environment variables). It
// provides type-safe access to the settings needed by the warehouse client,
// the competitor browser session, the extraction endpoint and the task
// runner while keeping configuration details separate from business logic.
package config
