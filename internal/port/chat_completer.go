package port

import "context"

// ChatCompleter abstracts a single-turn completion against a hosted reasoning
// model. Used by the verifier and the policy chat assistant.
type ChatCompleter interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
