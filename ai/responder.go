// Package ai defines the external auto-responder boundary and its
// Gemini-backed implementation.
package ai

import "context"

// Responder produces a reply for a chat prompt. Implementations wrap an
// external completion service; failure is an expected outcome and never
// reaches the sender as an error.
type Responder interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// FallbackReply is appended in place of a reply when the responder fails.
const FallbackReply = "عذراً، واجهت مشكلة تقنية بسيطة. جرب مرة أخرى لاحقاً."
