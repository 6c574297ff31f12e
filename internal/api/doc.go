// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between external clients
// and the internal application services, translating HTTP concerns to
// business operations.
//
// Every route under /api/v1 requires a bearer token. The token is passed
// through to the warehouse and also scopes the caller's task records.
package api
