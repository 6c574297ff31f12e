// Package openai implements extraction.Completer on top of any
// OpenAI-compatible chat completions endpoint.
package openai
