// Package gemini implements extraction.Completer using Google's Gemini API.
package gemini
