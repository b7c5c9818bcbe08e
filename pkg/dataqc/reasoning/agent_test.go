package reasoning

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// googleai pulls in opencensus, which starts a worker at init.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// scriptedModel replays canned responses and records what each call saw.
type scriptedModel struct {
	responses []*llms.ContentResponse
	err       error

	calls    int
	choices  []any
	messages [][]llms.MessageContent
}

func (m *scriptedModel) GenerateContent(
	_ context.Context,
	messages []llms.MessageContent,
	options ...llms.CallOption,
) (*llms.ContentResponse, error) {
	var opts llms.CallOptions
	for _, opt := range options {
		opt(&opts)
	}
	m.choices = append(m.choices, opts.ToolChoice)
	m.messages = append(m.messages, append([]llms.MessageContent(nil), messages...))

	if m.err != nil {
		return nil, m.err
	}
	if m.calls >= len(m.responses) {
		return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "done"}}}, nil
	}
	resp := m.responses[m.calls]
	m.calls++
	return resp, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func toolCallResponse(names ...string) *llms.ContentResponse {
	calls := make([]llms.ToolCall, 0, len(names))
	for i, name := range names {
		calls = append(calls, llms.ToolCall{
			ID:           name + "_" + string(rune('a'+i)),
			Type:         "function",
			FunctionCall: &llms.FunctionCall{Name: name, Arguments: "{}"},
		})
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{ToolCalls: calls}}}
}

func textResponse(text string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: text}}}
}

func staticTool(name, result string) Tool {
	return Tool{
		Name:        name,
		Description: "returns " + result,
		Call: func(context.Context) (string, error) {
			return result, nil
		},
	}
}

func twoTools() []Tool {
	return []Tool{staticTool("read_a", "alpha"), staticTool("read_b", "beta")}
}

// lastToolResults collects tool responses from the final message list a model saw.
func lastToolResults(m *scriptedModel) map[string]string {
	out := make(map[string]string)
	if len(m.messages) == 0 {
		return out
	}
	for _, msg := range m.messages[len(m.messages)-1] {
		for _, part := range msg.Parts {
			if r, ok := part.(llms.ToolCallResponse); ok {
				out[r.Name] = r.Content
			}
		}
	}
	return out
}

func TestAgent_Complete(t *testing.T) {
	t.Run("Should call tools then answer", func(t *testing.T) {
		model := &scriptedModel{responses: []*llms.ContentResponse{
			toolCallResponse("read_a"),
			toolCallResponse("read_b"),
			textResponse("final report"),
		}}

		completion, err := NewAgent(model).Complete(context.Background(), Request{
			Instructions: "be thorough",
			Prompt:       "analyze",
			Tools:        twoTools(),
			MaxTurns:     5,
		})
		require.NoError(t, err)
		assert.Equal(t, "final report", completion.Output)
		assert.Equal(t, 3, completion.Turns)
		assert.Equal(t, []string{"read_a", "read_b"}, completion.ToolCalls)
		assert.Equal(t, map[string]string{"read_a": "alpha", "read_b": "beta"}, lastToolResults(model))
	})

	t.Run("Should require tools until each was called once", func(t *testing.T) {
		model := &scriptedModel{responses: []*llms.ContentResponse{
			toolCallResponse("read_a"),
			toolCallResponse("read_b"),
			textResponse("final report"),
		}}

		_, err := NewAgent(model).Complete(context.Background(), Request{Tools: twoTools(), MaxTurns: 5})
		require.NoError(t, err)
		assert.Equal(t, []any{toolChoiceRequired, toolChoiceRequired, toolChoiceAuto}, model.choices)
	})

	t.Run("Should send instructions and prompt first", func(t *testing.T) {
		model := &scriptedModel{responses: []*llms.ContentResponse{
			toolCallResponse("read_a", "read_b"),
			textResponse("ok"),
		}}

		_, err := NewAgent(model).Complete(context.Background(), Request{
			Instructions: "system text",
			Prompt:       "task text",
			Tools:        twoTools(),
		})
		require.NoError(t, err)

		first := model.messages[0]
		require.Len(t, first, 2)
		assert.Equal(t, llms.ChatMessageTypeSystem, first[0].Role)
		assert.Equal(t, llms.TextContent{Text: "system text"}, first[0].Parts[0])
		assert.Equal(t, llms.ChatMessageTypeHuman, first[1].Role)
		assert.Equal(t, llms.TextContent{Text: "task text"}, first[1].Parts[0])
	})

	t.Run("Should remind a model that answers before retrieving content", func(t *testing.T) {
		model := &scriptedModel{responses: []*llms.ContentResponse{
			textResponse("I guess everything is fine"),
			toolCallResponse("read_a", "read_b"),
			textResponse("grounded report"),
		}}

		completion, err := NewAgent(model).Complete(context.Background(), Request{Tools: twoTools(), MaxTurns: 5})
		require.NoError(t, err)
		assert.Equal(t, "grounded report", completion.Output)
		assert.Equal(t, 3, completion.Turns)

		second := model.messages[1]
		last := second[len(second)-1]
		assert.Equal(t, llms.ChatMessageTypeHuman, last.Role)
		assert.Equal(t, llms.TextContent{Text: retrievalReminder}, last.Parts[0])
	})

	t.Run("Should report an unknown tool back to the model", func(t *testing.T) {
		model := &scriptedModel{responses: []*llms.ContentResponse{
			toolCallResponse("read_c"),
			toolCallResponse("read_a", "read_b"),
			textResponse("report"),
		}}

		completion, err := NewAgent(model).Complete(context.Background(), Request{Tools: twoTools(), MaxTurns: 5})
		require.NoError(t, err)
		assert.Equal(t, []string{"read_c", "read_a", "read_b"}, completion.ToolCalls)
		assert.Equal(t, toolChoiceRequired, model.choices[1], "an unknown tool does not count as retrieval of a known one")

		second := model.messages[1]
		resp, ok := second[len(second)-1].Parts[0].(llms.ToolCallResponse)
		require.True(t, ok)
		assert.Contains(t, resp.Content, `unknown tool "read_c"`)
	})

	t.Run("Should not accept an answer after only unknown tool calls", func(t *testing.T) {
		model := &scriptedModel{responses: []*llms.ContentResponse{
			toolCallResponse("made_up_tool"),
			textResponse("fabricated report"),
			toolCallResponse("read_a"),
			textResponse("grounded report"),
		}}

		completion, err := NewAgent(model).Complete(context.Background(), Request{Tools: twoTools(), MaxTurns: 5})
		require.NoError(t, err)
		assert.Equal(t, "grounded report", completion.Output)
		assert.Equal(t, 4, completion.Turns)
		assert.Equal(t, []string{"made_up_tool", "read_a"}, completion.ToolCalls)

		third := model.messages[2]
		last := third[len(third)-1]
		assert.Equal(t, llms.ChatMessageTypeHuman, last.Role)
		assert.Equal(t, llms.TextContent{Text: retrievalReminder}, last.Parts[0])
	})

	t.Run("Should end at the turn limit when only unknown tools are called", func(t *testing.T) {
		model := &scriptedModel{responses: []*llms.ContentResponse{
			toolCallResponse("made_up_tool"),
			textResponse("fabricated report"),
			textResponse("fabricated report"),
		}}

		completion, err := NewAgent(model).Complete(context.Background(), Request{Tools: twoTools(), MaxTurns: 3})
		assert.ErrorIs(t, err, ErrMaxTurnsExceeded)
		require.NotNil(t, completion)
		assert.Equal(t, 3, completion.Turns)
	})

	t.Run("Should not send an empty assistant message with the reminder", func(t *testing.T) {
		model := &scriptedModel{responses: []*llms.ContentResponse{
			textResponse(""),
			toolCallResponse("read_a", "read_b"),
			textResponse("report"),
		}}

		_, err := NewAgent(model).Complete(context.Background(), Request{Tools: twoTools(), MaxTurns: 5})
		require.NoError(t, err)

		second := model.messages[1]
		require.Len(t, second, 3)
		assert.Equal(t, llms.ChatMessageTypeHuman, second[2].Role)
		assert.Equal(t, llms.TextContent{Text: retrievalReminder}, second[2].Parts[0])
		for _, msg := range second {
			if msg.Role == llms.ChatMessageTypeAI {
				t.Errorf("unexpected assistant message: %+v", msg)
			}
		}
	})

	t.Run("Should pass tool failures to the model as results", func(t *testing.T) {
		failing := Tool{Name: "read_a", Call: func(context.Context) (string, error) {
			return "", errors.New("disk on fire")
		}}
		model := &scriptedModel{responses: []*llms.ContentResponse{
			toolCallResponse("read_a"),
			textResponse("report"),
		}}

		_, err := NewAgent(model).Complete(context.Background(), Request{Tools: []Tool{failing}})
		require.NoError(t, err)
		assert.Equal(t, "Error: disk on fire", lastToolResults(model)["read_a"])
	})

	t.Run("Should stop at the turn limit with the partial text", func(t *testing.T) {
		first := toolCallResponse("read_a")
		first.Choices[0].Content = "Looking at the specification"
		model := &scriptedModel{responses: []*llms.ContentResponse{
			first,
			toolCallResponse("read_b"),
			toolCallResponse("read_a"),
		}}

		completion, err := NewAgent(model).Complete(context.Background(), Request{Tools: twoTools(), MaxTurns: 3})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMaxTurnsExceeded)

		var limit *TurnLimitError
		require.ErrorAs(t, err, &limit)
		assert.Equal(t, 3, limit.MaxTurns)
		assert.Equal(t, "Looking at the specification", limit.Partial)

		require.NotNil(t, completion)
		assert.Equal(t, limit.Partial, completion.Output)
		assert.Equal(t, 3, completion.Turns)
		assert.Equal(t, 3, model.calls)
	})

	t.Run("Should default the turn limit", func(t *testing.T) {
		model := &scriptedModel{responses: []*llms.ContentResponse{
			toolCallResponse("read_a"), toolCallResponse("read_a"), toolCallResponse("read_a"),
			toolCallResponse("read_a"), toolCallResponse("read_a"), toolCallResponse("read_a"),
		}}

		completion, err := NewAgent(model).Complete(context.Background(), Request{Tools: twoTools()})
		assert.ErrorIs(t, err, ErrMaxTurnsExceeded)
		assert.Equal(t, DefaultMaxTurns, completion.Turns)
	})

	t.Run("Should wrap model errors", func(t *testing.T) {
		boom := errors.New("rate limited")
		model := &scriptedModel{err: boom}

		completion, err := NewAgent(model).Complete(context.Background(), Request{Tools: twoTools()})
		assert.Nil(t, completion)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "reasoning turn 1")
	})

	t.Run("Should reject an empty response", func(t *testing.T) {
		model := &scriptedModel{responses: []*llms.ContentResponse{{}}}

		_, err := NewAgent(model).Complete(context.Background(), Request{Tools: twoTools()})
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("Should reject a request without tools", func(t *testing.T) {
		model := &scriptedModel{}

		_, err := NewAgent(model).Complete(context.Background(), Request{Prompt: "analyze"})
		assert.ErrorIs(t, err, ErrNoTools)
		assert.Zero(t, model.calls)
		assert.Empty(t, model.choices)
	})

	t.Run("Should stop when the context is canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewAgent(&scriptedModel{}).Complete(ctx, Request{Tools: twoTools()})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestAgent_CallOptions(t *testing.T) {
	a := NewAgent(&scriptedModel{}, WithTemperature(0.2), WithMaxTokens(512))

	var opts llms.CallOptions
	for _, opt := range a.callOptions(toolDefinitions(twoTools()), toolChoiceAuto) {
		opt(&opts)
	}
	assert.InDelta(t, 0.2, opts.Temperature, 1e-9)
	assert.Equal(t, 512, opts.MaxTokens)
	assert.Equal(t, toolChoiceAuto, opts.ToolChoice)
	require.Len(t, opts.Tools, 2)
	assert.Equal(t, "read_a", opts.Tools[0].Function.Name)
	assert.Equal(t, "function", opts.Tools[0].Type)
}
