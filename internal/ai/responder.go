package ai

import (
	"context"

	"github.com/spigell/replica-matcher/internal/replica"
)

// Reply is an assistant message produced for a user query.
type Reply struct {
	// Text is the message as the replica wrote it, trigger markers included.
	Text string
	// Model identifies the model that produced the reply.
	Model string
}

// Responder produces replica replies.
type Responder interface {
	Reply(ctx context.Context, persona replica.Persona, query string) (*Reply, error)
}
