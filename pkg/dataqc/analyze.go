package dataqc

import (
	"context"
	"errors"
	"time"

	"github.com/ukaji3/dataqc-go/internal/logger"
	"github.com/ukaji3/dataqc-go/pkg/dataqc/reasoning"
	"github.com/ukaji3/dataqc-go/pkg/dataqc/session"
)

// Report is the outcome of one analysis.
type Report struct {
	// SessionID identifies the session that held the extracted content.
	SessionID string
	// Text is the model's report, returned unmodified.
	Text string
	// Turns is the number of reasoning turns used.
	Turns int
	// ToolCalls lists the retrievals the model made, in order.
	ToolCalls []string
	// Partial is set when the turn limit cut the reasoning short.
	Partial bool
}

// Analyzer loads both documents into a session and asks the reasoning model
// for a data-quality report.
type Analyzer struct {
	reasoner reasoning.Reasoner
	opts     Options
	maxTurns int
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithOptions sets the extraction options.
func WithOptions(opts Options) AnalyzerOption {
	return func(a *Analyzer) {
		a.opts = opts
	}
}

// WithMaxTurns bounds the reasoning invocation.
func WithMaxTurns(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n > 0 {
			a.maxTurns = n
		}
	}
}

// NewAnalyzer creates an Analyzer backed by the given reasoner.
func NewAnalyzer(r reasoning.Reasoner, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		reasoner: r,
		opts:     DefaultOptions(),
		maxTurns: DefaultMaxTurns,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze returns the report text for a specification and a workbook.
// When the turn limit is hit the partial text is returned together with an
// error wrapping reasoning.ErrMaxTurnsExceeded.
func (a *Analyzer) Analyze(ctx context.Context, specification, workbook []byte) (string, error) {
	report, err := a.Run(ctx, session.New(), specification, workbook)
	if report == nil {
		return "", err
	}
	return report.Text, err
}

// Run loads both documents into sess and runs the reasoning invocation.
func (a *Analyzer) Run(ctx context.Context, sess *session.Session, specification, workbook []byte) (*Report, error) {
	log := logger.FromContext(ctx).With("session", sess.ID())
	ctx = logger.ContextWithLogger(ctx, log)

	start := time.Now()
	spec := ExtractDocument(specification)
	if !spec.IsOK() {
		log.Warn("specification could not be read", "error", spec.Err)
	}
	sess.StoreSpecification(spec)
	log.Info("specification loaded", "bytes", len(specification), "chars", len(spec.Value), "elapsed", time.Since(start))

	start = time.Now()
	wb := Normalize(workbook, a.opts)
	if wb.IsOK() {
		log.Info("workbook loaded", "bytes", len(workbook), "sheets", wb.Value.SheetNames(), "elapsed", time.Since(start))
	} else {
		log.Warn("workbook could not be read", "error", wb.Err)
	}
	sess.StoreWorkbook(wb)

	completion, err := a.reasoner.Complete(ctx, reasoning.Request{
		Instructions: Instructions(a.opts.ExcludeSheets),
		Prompt:       TaskPrompt(),
		Tools:        a.tools(sess),
		MaxTurns:     a.maxTurns,
	})
	if err != nil {
		var limit *reasoning.TurnLimitError
		if errors.As(err, &limit) && completion != nil {
			log.Warn("reasoning hit the turn limit", "max_turns", limit.MaxTurns)
			return &Report{
				SessionID: sess.ID(),
				Text:      completion.Output,
				Turns:     completion.Turns,
				ToolCalls: completion.ToolCalls,
				Partial:   true,
			}, err
		}
		log.Error("reasoning failed", "error", err)
		return nil, err
	}

	log.Info("analysis complete", "turns", completion.Turns, "tool_calls", completion.ToolCalls)
	return &Report{
		SessionID: sess.ID(),
		Text:      completion.Output,
		Turns:     completion.Turns,
		ToolCalls: completion.ToolCalls,
	}, nil
}

func (a *Analyzer) tools(sess *session.Session) []reasoning.Tool {
	return []reasoning.Tool{
		{
			Name:        ToolReadSpecification,
			Description: "Read PDF specification content that was previously loaded.",
			Call: func(context.Context) (string, error) {
				return sess.RetrieveSpecificationText(), nil
			},
		},
		{
			Name:        ToolReadWorkbook,
			Description: "Read Excel data content that was previously loaded.",
			Call: func(context.Context) (string, error) {
				return sess.RetrieveWorkbookSnapshot(), nil
			},
		},
	}
}
