package llm

import (
	"context"
)

// Client runs the structuring call: prompt in, raw model text out.
type Client interface {
	Structure(ctx context.Context, prompt string) (string, error)
}
