// Package extraction turns scraped page markup into validated structured
// data by asking a language model completion endpoint for JSON. It
// abstracts the concrete endpoint behind the Completer interface so the
// competitor search does not depend on a specific provider.
package extraction
