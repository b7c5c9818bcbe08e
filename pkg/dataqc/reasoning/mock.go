package reasoning

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// FinishFunc builds the final answer of a MockModel from the tool results it
// received, keyed by tool name.
type FinishFunc func(results map[string]string) string

// MockModel is an offline llms.Model. It calls each offered tool once, in the
// order offered, one per turn, then answers with its FinishFunc.
type MockModel struct {
	finish FinishFunc
}

// NewMockModel creates a MockModel. A nil finish lists the tool results sizes.
func NewMockModel(finish FinishFunc) *MockModel {
	if finish == nil {
		finish = summarizeResults
	}
	return &MockModel{finish: finish}
}

// GenerateContent implements llms.Model.
func (m *MockModel) GenerateContent(
	ctx context.Context,
	messages []llms.MessageContent,
	options ...llms.CallOption,
) (*llms.ContentResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var opts llms.CallOptions
	for _, opt := range options {
		opt(&opts)
	}

	results := toolResults(messages)
	for _, tool := range opts.Tools {
		if tool.Function == nil {
			continue
		}
		if _, done := results[tool.Function.Name]; done {
			continue
		}
		return &llms.ContentResponse{
			Choices: []*llms.ContentChoice{{
				ToolCalls: []llms.ToolCall{{
					ID:   fmt.Sprintf("call_%d", len(results)+1),
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name:      tool.Function.Name,
						Arguments: "{}",
					},
				}},
			}},
		}, nil
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.finish(results)}},
	}, nil
}

// Call implements the legacy Call interface.
func (m *MockModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func toolResults(messages []llms.MessageContent) map[string]string {
	results := make(map[string]string)
	for _, msg := range messages {
		if msg.Role != llms.ChatMessageTypeTool {
			continue
		}
		for _, part := range msg.Parts {
			if resp, ok := part.(llms.ToolCallResponse); ok {
				results[resp.Name] = resp.Content
			}
		}
	}
	return results
}

func summarizeResults(results map[string]string) string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("EXECUTIVE SUMMARY\n")
	b.WriteString("- Offline run: no analysis performed.\n\n")
	b.WriteString("RETRIEVED CONTENT\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- %s: %d bytes\n", name, len(results[name]))
	}
	return b.String()
}
