package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// ReportKind names one of the built-in analyses.
type ReportKind string

const (
	ReportHealth       ReportKind = "health"
	ReportStandup      ReportKind = "standup"
	ReportOptimization ReportKind = "optimization"
	ReportRisk         ReportKind = "risk"
)

// ParseReportKind validates a caller-supplied report name.
func ParseReportKind(s string) (ReportKind, error) {
	k := ReportKind(s)
	switch k {
	case ReportHealth, ReportStandup, ReportOptimization, ReportRisk:
		return k, nil
	}
	return "", fmt.Errorf("invalid report %q (valid: health, standup, optimization, risk)", s)
}

const systemPrompt = `You are a senior project analyst reviewing live task data.
The reports below are computed from the real task list; every task ID, assignee,
and count in them is factual. Ground every statement in that data. Reference
specific task IDs and team member names. Never invent tasks or people.`

var analysisPrompts = map[ReportKind]string{
	ReportHealth: "Analyze the current project health by examining the task distribution, " +
		"blocked items, high-priority work, and team workloads above. Provide specific " +
		"recommendations with task IDs and team member names for improving project flow " +
		"and addressing bottlenecks.",
	ReportStandup: "Create a daily standup briefing that highlights the most important " +
		"tasks to focus on today, current blockers that need resolution, and priorities " +
		"for the team. Include specific task IDs and current assignees.",
	ReportOptimization: "Analyze the task workflow above and identify specific " +
		"opportunities for optimization. Look for bottlenecks, workload imbalances, and " +
		"process improvements that can be implemented immediately.",
	ReportRisk: "Perform a risk assessment based on the current task statuses, " +
		"priorities, and blockers above. Identify specific project risks and suggest " +
		"concrete mitigation strategies with responsible team members.",
}

// Analyst turns rendered reports into narrative analysis via an LLM.
type Analyst struct {
	model  llms.Model
	logger *zap.Logger
}

// NewAnalyst creates an analyst backed by an OpenAI-compatible model. The API
// key comes from the environment (OPENAI_API_KEY).
func NewAnalyst(modelName string, logger *zap.Logger) (*Analyst, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var opts []openai.Option
	if modelName != "" {
		opts = append(opts, openai.WithModel(modelName))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create llm client: %w", err)
	}
	return &Analyst{model: llm, logger: logger}, nil
}

// Analyze sends the rendered reports plus the analysis question and returns
// the model's narrative.
func (a *Analyst) Analyze(ctx context.Context, reports []string, question string) (string, error) {
	data := strings.Join(reports, "\n\n---\n\n")
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, data+"\n\n---\n\n"+question),
	}

	a.logger.Debug("requesting analysis", zap.Int("report_bytes", len(data)))
	resp, err := a.model.GenerateContent(ctx, content, llms.WithTemperature(0.2))
	if err != nil {
		return "", fmt.Errorf("llm generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm returned no choices")
	}
	return resp.Choices[0].Content, nil
}

// AnalysisPrompt returns the canned question for a report kind.
func AnalysisPrompt(kind ReportKind) string {
	return analysisPrompts[kind]
}

// SearchPrompt builds the prioritization question for a search analysis.
func SearchPrompt(query string) string {
	return fmt.Sprintf("Review the tasks matching %q above and provide prioritization "+
		"recommendations based on their status, priority, and team capacity.", query)
}
