package llm

import "context"

// Client is the provider capability: one prompt in, raw text out. The rest
// of the application never branches on provider identity.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
