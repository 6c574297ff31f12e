package extraction

import "context"

// Role identifies the author of a chat message.
type Role string

// Chat roles understood by every completer.
const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one chat turn sent to the model.
type Message struct {
	Role    Role
	Content string
}

// Completer defines the boundary to a language model completion endpoint.
// Implementations must request a JSON-typed response and return the raw
// text of the first choice.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
