package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Veraticus/physician-notetaker/internal/classify"
	"github.com/Veraticus/physician-notetaker/internal/cli"
	"github.com/Veraticus/physician-notetaker/internal/common"
	"github.com/Veraticus/physician-notetaker/internal/keywords"
	"github.com/Veraticus/physician-notetaker/internal/llm"
	"github.com/Veraticus/physician-notetaker/internal/report"
	"github.com/Veraticus/physician-notetaker/internal/summary"
)

// newLLMClient creates the language model client. Tests replace it.
var newLLMClient = llm.NewClient

// newAssembler wires the report assembler from configuration. When the
// language model backend is enabled it is tried first for every statement,
// with the rule tables as fallback.
func (a *app) newAssembler(onStep report.StepFunc) (*report.Assembler, error) {
	analysis := a.cfg.Analysis

	sentimentRules, intentRules, err := report.RuleClassifiers(analysis.Policy)
	if err != nil {
		return nil, err
	}

	var sentiment, intent classify.Analyzer = sentimentRules, intentRules
	var narrator summary.Narrator

	if a.cfg.Backend.Enabled {
		llmCfg := a.cfg.Backend.LLM()
		client, err := newLLMClient(llmCfg)
		if err != nil {
			a.logger.Warn("Language model backend unavailable, using rule-based analysis",
				"provider", llmCfg.Provider,
				"error", err)
		} else {
			sentiment = classify.NewResilient(
				llm.NewBackend(client, sentimentRules.Table(), llmCfg, a.logger), sentimentRules, a.logger)
			intent = classify.NewResilient(
				llm.NewBackend(client, intentRules.Table(), llmCfg, a.logger), intentRules, a.logger)
			narrator = llm.NewNarrator(client, llmCfg, a.logger)
			a.logger.Info("Language model backend enabled", "provider", llmCfg.Provider, "model", llmCfg.Model)
		}
	}

	return report.New(report.Config{
		Sentiment:      sentiment,
		Intent:         intent,
		SentimentEmpty: sentimentRules.Table().Empty(),
		Ranker:         keywords.NewRanker(analysis.TopN),
		Summarizer:     summary.New(narrator, a.logger),
		Logger:         a.logger,
		OnStep:         onStep,
		Concurrency:    analysis.Concurrency,
		EvidenceLimit:  analysis.OverallEvidenceLimit,
		Narrative:      analysis.Narrative,
	})
}

// loadTranscript reads the transcript named by args. Without an argument, or
// when the file does not exist, the built-in sample visit is used.
func (a *app) loadTranscript(ctx context.Context, args []string, stdin io.Reader) (string, error) {
	if len(args) == 0 {
		a.logger.Info("No transcript given, using the sample visit")
		return report.SampleTranscript, nil
	}

	path := args[0]
	if path != "-" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			a.logger.Warn("Transcript file not found, using the sample visit", "path", path)
			return report.SampleTranscript, nil
		}
	}

	transcript, err := cli.ReadTranscript(ctx, path, stdin)
	if err != nil {
		return "", common.NewUserError("Could not read the transcript", err)
	}
	if strings.TrimSpace(transcript) == "" {
		return "", common.NewUserError(fmt.Sprintf("The transcript %s is empty", path), common.ErrEmptyTranscript)
	}
	return transcript, nil
}
