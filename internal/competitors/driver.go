package competitors

import (
	"context"
	"time"

	"github.com/apridachin/girya-storekeeper/internal/extraction"
)

// Driver launches browsers.
type Driver interface {
	Launch(ctx context.Context) (Browser, error)
}

// Browser is a running browser with one shared context.
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Page is a single tab. Errors caused by a dead browser must wrap
// ErrTransportClosed.
type Page interface {
	Goto(ctx context.Context, url string) error
	WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error
	InnerHTML(ctx context.Context, selector string) (string, error)
	Close() error
}

// Extractor turns markup into structured data.
type Extractor interface {
	Extract(ctx context.Context, markup, instructions string, shape *extraction.Shape, out any) error
}
