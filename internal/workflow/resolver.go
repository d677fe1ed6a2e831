package workflow

import (
	"context"
	"errors"
	"fmt"

	"flowsight/internal/diagram"
	"flowsight/internal/llm"
)

// maxAttempts caps the generate/parse loop: one initial attempt plus two
// corrections. The bound is a design constant, not a knob, so worst-case
// latency and spend stay predictable.
const maxAttempts = 3

// maxOutputTokens is the generation budget per attempt.
const maxOutputTokens = 65536

// maxDiagnosticLen bounds how much of a parse diagnostic is echoed back
// to the model in a correction prompt.
const maxDiagnosticLen = 512

// Request is one top-level analysis request.
type Request struct {
	Code          string
	FilePaths     []string
	Metadata      []FunctionMeta
	FrameworkHint string
}

// Result is the terminal artifact: the graph plus the usage and cost
// accumulated across every attempt, failed ones included.
type Result struct {
	Graph    diagram.Graph `json:"graph"`
	Usage    llm.Usage     `json:"usage"`
	Cost     llm.Cost      `json:"cost"`
	Attempts int           `json:"attempts"`
}

// AnalysisError means none of the attempts produced a parseable reply.
type AnalysisError struct {
	Attempts       int
	LastDiagnostic string
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("workflow: could not interpret any of %d attempts (last problem: %s)",
		e.Attempts, e.LastDiagnostic)
}

// Resolver drives the generate -> normalize -> parse -> correct loop.
type Resolver struct {
	Client  llm.Client
	Pricing llm.Pricing

	// OnReply, when set, observes every raw model reply before parsing.
	// Used to archive attempts for later inspection.
	OnReply func(attempt int, raw string)
}

// Resolve asks the model for a diagram and keeps correcting it until it
// parses or the attempt budget runs out. Usage from every attempt is
// accumulated unconditionally and returned with the result; on failure
// the partial Result still carries it so billing is never lost. A failed
// generation call is fatal for the request and is not treated as a parse
// failure.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Result, error) {
	userPrompt := BuildUserPrompt(req)
	prompt := userPrompt

	var total llm.Usage
	var lastDiag string
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, usage, err := r.Client.GenerateText(ctx, SystemInstruction, prompt, maxOutputTokens)
		total.Add(usage)
		if err != nil {
			return r.partial(total, attempt), fmt.Errorf("workflow: generation failed: %w", err)
		}
		if r.OnReply != nil {
			r.OnReply(attempt, text)
		}

		graph, perr := diagram.Parse(diagram.Normalize(text))
		if perr == nil {
			diagram.ReconcilePaths(&graph, req.FilePaths)
			return &Result{
				Graph:    graph,
				Usage:    total,
				Cost:     llm.CostOf(total, r.Pricing),
				Attempts: attempt,
			}, nil
		}

		lastDiag = diagnosticOf(perr)
		prompt = userPrompt + "\n\n" + BuildCorrectionPrompt(lastDiag)
	}
	return r.partial(total, maxAttempts), &AnalysisError{Attempts: maxAttempts, LastDiagnostic: lastDiag}
}

func (r *Resolver) partial(usage llm.Usage, attempts int) *Result {
	return &Result{Usage: usage, Cost: llm.CostOf(usage, r.Pricing), Attempts: attempts}
}

func diagnosticOf(err error) string {
	diag := err.Error()
	var pe *diagram.ParseError
	if errors.As(err, &pe) {
		diag = pe.Diagnostic
	}
	if len(diag) > maxDiagnosticLen {
		diag = diag[:maxDiagnosticLen]
	}
	return diag
}
