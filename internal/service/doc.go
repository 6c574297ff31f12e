// Package service exposes the application operations behind the HTTP API
// and the CLI: competitor search orchestration, product group listing and
// demand import.
//
// Services hold no per-request state. Every call receives the caller's
// warehouse credential, and the credential doubles as the owner key that
// scopes task records in the registry.
package service
