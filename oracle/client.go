// Package oracle is the boundary to the hosted language-model service.
// Everything behind Client is a black box: callers hand it instructions
// and content, and parse whatever judgment comes back.
package oracle

import "context"

// Client sends one prompt to the oracle and returns its raw reply.
type Client interface {
	Chat(ctx context.Context, systemInstruction, userPrompt string) (string, error)
}
