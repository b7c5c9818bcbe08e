// Package reasoning drives a tool-calling LLM through a turn-bounded loop.
//
// The model is an opaque dependency: it receives instructions, a task prompt
// and a set of zero-argument tools, and must call tools before it may answer.
package reasoning

import "context"

// DefaultMaxTurns is used when a Request does not set MaxTurns.
const DefaultMaxTurns = 5

// ToolFunc produces a tool result. Tools take no arguments.
type ToolFunc func(ctx context.Context) (string, error)

// Tool is a capability the model may call.
type Tool struct {
	Name        string
	Description string
	Call        ToolFunc
}

// Request describes one reasoning invocation.
type Request struct {
	// Instructions is the system prompt.
	Instructions string
	// Prompt is the task script sent as the first user message.
	Prompt string
	// Tools are the capabilities registered with the model.
	Tools []Tool
	// MaxTurns bounds the number of model calls.
	MaxTurns int
}

// Completion is the outcome of a reasoning invocation.
type Completion struct {
	// Output is the model's final text, or the latest partial text when the
	// turn limit was hit.
	Output string
	// Turns is the number of model calls made.
	Turns int
	// ToolCalls lists tool names in call order.
	ToolCalls []string
}

// Reasoner completes a Request.
type Reasoner interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}
