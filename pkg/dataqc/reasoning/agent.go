package reasoning

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/ukaji3/dataqc-go/internal/logger"
)

const (
	toolChoiceRequired = "required"
	toolChoiceAuto     = "auto"
)

// retrievalReminder is sent when the model answers before calling any tool.
const retrievalReminder = "You have not retrieved any content yet. Call the available tools before writing the report."

// Agent runs a Request against an llms.Model.
//
// A turn is one GenerateContent call plus the tool calls it returned. Tool
// choice is "required" until every tool has been called once, then "auto".
// A text answer ends the loop only after at least one registered tool was called.
type Agent struct {
	model       llms.Model
	temperature float64
	maxTokens   int
}

// Option configures an Agent.
type Option func(*Agent)

// WithTemperature sets the sampling temperature. Zero leaves the provider default.
func WithTemperature(t float64) Option {
	return func(a *Agent) {
		a.temperature = t
	}
}

// WithMaxTokens caps tokens per model call. Zero leaves the provider default.
func WithMaxTokens(n int) Option {
	return func(a *Agent) {
		a.maxTokens = n
	}
}

// NewAgent creates an Agent over the given model.
func NewAgent(model llms.Model, opts ...Option) *Agent {
	a := &Agent{model: model}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Complete implements Reasoner.
func (a *Agent) Complete(ctx context.Context, req Request) (*Completion, error) {
	if len(req.Tools) == 0 {
		return nil, ErrNoTools
	}
	maxTurns := req.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	log := logger.FromContext(ctx)

	tools := make(map[string]Tool, len(req.Tools))
	for _, t := range req.Tools {
		tools[t.Name] = t
	}
	definitions := toolDefinitions(req.Tools)

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.Instructions),
		llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt),
	}

	completion := &Completion{}
	called := make(map[string]bool, len(tools))
	var partial string

	for turn := 1; turn <= maxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			completion.Output = partial
			return completion, err
		}
		completion.Turns = turn

		choice := toolChoiceAuto
		if len(called) < len(tools) {
			choice = toolChoiceRequired
		}
		log.Debug("reasoning turn", "turn", turn, "max_turns", maxTurns, "tool_choice", choice)

		resp, err := a.model.GenerateContent(ctx, messages, a.callOptions(definitions, choice)...)
		if err != nil {
			return nil, fmt.Errorf("reasoning turn %d: %w", turn, err)
		}
		if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
			return nil, fmt.Errorf("reasoning turn %d: %w", turn, ErrEmptyResponse)
		}
		out := resp.Choices[0]
		if out.Content != "" {
			partial = out.Content
		}

		if len(out.ToolCalls) == 0 {
			// Only calls to registered tools count as retrieval.
			if len(called) == 0 {
				log.Warn("model answered before retrieving content", "turn", turn)
				if out.Content != "" {
					messages = append(messages, llms.TextParts(llms.ChatMessageTypeAI, out.Content))
				}
				messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, retrievalReminder))
				continue
			}
			completion.Output = out.Content
			log.Debug("reasoning finished", "turns", turn, "tool_calls", len(completion.ToolCalls))
			return completion, nil
		}

		messages = append(messages, assistantMessage(out))
		for _, tc := range out.ToolCalls {
			name, result := a.invoke(ctx, tools, tc)
			log.Debug("tool call", "turn", turn, "tool", name, "result_bytes", len(result))
			completion.ToolCalls = append(completion.ToolCalls, name)
			if _, ok := tools[name]; ok {
				called[name] = true
			}
			messages = append(messages, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{
					llms.ToolCallResponse{
						ToolCallID: tc.ID,
						Name:       name,
						Content:    result,
					},
				},
			})
		}
	}

	completion.Output = partial
	return completion, &TurnLimitError{MaxTurns: maxTurns, Partial: partial}
}

func (a *Agent) callOptions(definitions []llms.Tool, choice string) []llms.CallOption {
	opts := []llms.CallOption{
		llms.WithTools(definitions),
		llms.WithToolChoice(choice),
	}
	if a.temperature > 0 {
		opts = append(opts, llms.WithTemperature(a.temperature))
	}
	if a.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(a.maxTokens))
	}
	return opts
}

// invoke runs a tool call. Failures are reported to the model as the tool result.
func (a *Agent) invoke(ctx context.Context, tools map[string]Tool, tc llms.ToolCall) (string, string) {
	if tc.FunctionCall == nil {
		return "", "Error: tool call without function"
	}
	name := tc.FunctionCall.Name
	tool, ok := tools[name]
	if !ok {
		return name, fmt.Sprintf("Error: unknown tool %q", name)
	}
	result, err := tool.Call(ctx)
	if err != nil {
		return name, fmt.Sprintf("Error: %v", err)
	}
	return name, result
}

func assistantMessage(choice *llms.ContentChoice) llms.MessageContent {
	msg := llms.MessageContent{Role: llms.ChatMessageTypeAI}
	if choice.Content != "" {
		msg.Parts = append(msg.Parts, llms.TextContent{Text: choice.Content})
	}
	for _, tc := range choice.ToolCalls {
		msg.Parts = append(msg.Parts, tc)
	}
	return msg
}

func toolDefinitions(tools []Tool) []llms.Tool {
	defs := make([]llms.Tool, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters: map[string]any{
					"type":       "object",
					"properties": map[string]any{},
				},
			},
		})
	}
	return defs
}
