// Taskagent analyzes live SimpleTask data through the bridge.
//
// It spawns taskbridged, drains the task list over MCP, renders deterministic
// reports, and optionally asks an LLM (OPENAI_API_KEY) to interpret them.
//
// Usage:
//
//	# Project health analysis of the active project
//	taskagent -report health
//
//	# Standup briefing for one project, reports only
//	taskagent -report standup -project payments -no-llm
//
//	# Search analysis
//	taskagent -query "authentication" -project payments
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/taskbridge/internal/agent"
)

func main() {
	bridge := flag.String("bridge", "taskbridged", "Path to the taskbridged binary")
	report := flag.String("report", "health", "Analysis to run: health, standup, optimization, risk")
	project := flag.String("project", "", "Project to analyze (default: bridge's active project)")
	query := flag.String("query", "", "Search terms; runs a search analysis instead of -report")
	model := flag.String("model", "gpt-4o", "LLM model for analysis")
	noLLM := flag.Bool("no-llm", false, "Print the raw reports without LLM analysis")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	logLevel := zapcore.InfoLevel
	if *verbose {
		logLevel = zapcore.DebugLevel
	}
	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(logLevel),
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	logger, err := config.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(context.Background(), logger, *bridge, *report, *project, *query, *model, *noLLM); err != nil {
		logger.Fatal("Analysis failed", zap.Error(err))
	}
}

func run(ctx context.Context, logger *zap.Logger, bridge, report, project, query, model string, noLLM bool) error {
	kind, err := agent.ParseReportKind(report)
	if err != nil {
		return err
	}

	client, err := agent.Connect(ctx, bridge, nil, logger)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if project != "" {
		if err := client.SwitchProject(ctx, project); err != nil {
			return err
		}
		logger.Info("Switched project", zap.String("project", project))
	}

	tasks, err := client.AllTasks(ctx, "")
	if err != nil {
		return err
	}
	logger.Info("Fetched tasks", zap.Int("count", len(tasks)))

	var reports []string
	var question string
	if query != "" {
		reports = []string{agent.SearchReport(tasks, query)}
		question = agent.SearchPrompt(query)
	} else {
		reports = []string{
			agent.Overview(tasks, project),
			agent.BlockedReport(tasks),
			agent.HighPriorityReport(tasks),
			agent.WorkloadReport(tasks),
		}
		question = agent.AnalysisPrompt(kind)
	}

	if noLLM {
		fmt.Println(strings.Join(reports, "\n\n---\n\n"))
		return nil
	}

	analyst, err := agent.NewAnalyst(model, logger)
	if err != nil {
		return err
	}
	analysis, err := analyst.Analyze(ctx, reports, question)
	if err != nil {
		return err
	}
	fmt.Println(analysis)
	return nil
}
