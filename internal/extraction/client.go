package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"
)

const systemPrompt = "You are an extraction agent. Answer strictly from the provided markup " +
	"and reply with JSON only."

// Client extracts structured data from markup through a Completer.
type Client struct {
	completer Completer
	logger    *slog.Logger
	timeout   time.Duration
}

// NewClient creates an extraction client. A zero timeout leaves the
// deadline to the caller's context.
func NewClient(completer Completer, logger *slog.Logger, timeout time.Duration) (*Client, error) {
	if completer == nil {
		return nil, errors.New("completer cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Client{
		completer: completer,
		logger:    logger.With("component", "extraction"),
		timeout:   timeout,
	}, nil
}

// Extract asks the model to read markup according to instructions, checks
// the reply against shape and decodes it into out.
//
// Every failure is returned as a *ParsingError, which matches ErrParsing.
func (c *Client) Extract(ctx context.Context, markup, instructions string, shape *Shape, out any) error {
	if strings.TrimSpace(markup) == "" {
		return &ParsingError{Shape: shape.Name(), Err: errors.New("markup is empty")}
	}

	c.logger.DebugContext(ctx, "extracting structured data from markup",
		"shape", shape.Name(),
		"instruction_length", len(instructions),
		"markup_length", len(markup))

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: "Instructions: " + instructions + "\n\nMarkup:\n" + markup},
	}

	reply, err := c.completer.Complete(ctx, messages)
	if err != nil {
		return c.fail(ctx, shape, err)
	}

	document := trimCodeFence(reply)
	if err := shape.validate(document); err != nil {
		return c.fail(ctx, shape, err)
	}
	if err := json.Unmarshal([]byte(document), out); err != nil {
		return c.fail(ctx, shape, err)
	}
	return nil
}

func (c *Client) fail(ctx context.Context, shape *Shape, err error) error {
	c.logger.WarnContext(ctx, "extraction failed",
		"shape", shape.Name(),
		"error", err)
	return &ParsingError{Shape: shape.Name(), Err: err}
}

// trimCodeFence strips a markdown code fence some models wrap JSON in.
func trimCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
