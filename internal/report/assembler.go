package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/physician-notetaker/internal/aggregate"
	"github.com/Veraticus/physician-notetaker/internal/classify"
	"github.com/Veraticus/physician-notetaker/internal/common"
	"github.com/Veraticus/physician-notetaker/internal/dialogue"
	"github.com/Veraticus/physician-notetaker/internal/entities"
	"github.com/Veraticus/physician-notetaker/internal/keywords"
	"github.com/Veraticus/physician-notetaker/internal/lexicon"
	"github.com/Veraticus/physician-notetaker/internal/soap"
	"github.com/Veraticus/physician-notetaker/internal/summary"
)

// Steps names the analyses in the order Analyze runs them.
var Steps = []string{
	"Extracting medical entities",
	"Generating structured summary",
	"Extracting medical keywords",
	"Analyzing patient sentiment",
	"Detecting patient intents",
	"Generating SOAP note",
}

// StepFunc is called before each analysis step. step counts from 1.
type StepFunc func(step, total int, name string)

// Config wires an Assembler.
type Config struct {
	// Sentiment and Intent classify single statements. Required.
	Sentiment classify.Analyzer
	Intent    classify.Analyzer
	// SentimentEmpty is the overall sentiment of a transcript without
	// patient statements.
	SentimentEmpty string
	Ranker         *keywords.Ranker
	Summarizer     *summary.Summarizer
	Logger         *slog.Logger
	OnStep         StepFunc
	Concurrency    int
	EvidenceLimit  int
	// Narrative adds a narrative to the structured summary.
	Narrative bool
}

// Assembler runs every analysis over a transcript.
type Assembler struct {
	sentiment  classify.Analyzer
	intent     classify.Analyzer
	ranker     *keywords.Ranker
	summarizer *summary.Summarizer
	logger     *slog.Logger
	onStep     StepFunc
	now        func() time.Time
	newID      func() string
	sentOpts   aggregate.Options
	intentOpts aggregate.Options
	narrative  bool
}

// New creates an Assembler from cfg.
func New(cfg Config) (*Assembler, error) {
	if cfg.Sentiment == nil || cfg.Intent == nil {
		return nil, fmt.Errorf("%w: sentiment and intent analyzers are required", common.ErrMissingConfig)
	}

	logger := common.OrDefault(cfg.Logger)
	a := &Assembler{
		sentiment:  cfg.Sentiment,
		intent:     cfg.Intent,
		ranker:     cfg.Ranker,
		summarizer: cfg.Summarizer,
		logger:     logger,
		onStep:     cfg.OnStep,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
		narrative:  cfg.Narrative,
	}
	if a.ranker == nil {
		a.ranker = keywords.NewRanker(keywords.DefaultTopN)
	}
	if a.summarizer == nil {
		a.summarizer = summary.New(nil, logger)
	}

	empty := cfg.SentimentEmpty
	if empty == "" {
		empty = lexicon.SentimentNeutral
	}
	a.sentOpts = aggregate.DefaultOptions(empty)
	a.intentOpts = aggregate.DefaultOptions("")
	for _, opts := range []*aggregate.Options{&a.sentOpts, &a.intentOpts} {
		if cfg.Concurrency > 0 {
			opts.Concurrency = cfg.Concurrency
		}
		if cfg.EvidenceLimit > 0 {
			opts.EvidenceLimit = cfg.EvidenceLimit
		}
	}
	return a, nil
}

// NewDefault creates an Assembler backed only by the rule-based tables.
func NewDefault(policy classify.Policy, logger *slog.Logger) (*Assembler, error) {
	sentiment, intent, err := RuleClassifiers(policy)
	if err != nil {
		return nil, err
	}
	return New(Config{
		Sentiment:      sentiment,
		Intent:         intent,
		SentimentEmpty: sentiment.Table().Empty(),
		Logger:         logger,
	})
}

// RuleClassifiers builds the rule-based sentiment and intent classifiers.
func RuleClassifiers(policy classify.Policy) (sentiment, intent *classify.Classifier, err error) {
	sentimentTable, err := lexicon.SentimentTable(policy)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build sentiment table: %w", err)
	}
	intentTable, err := lexicon.IntentTable(policy)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build intent table: %w", err)
	}
	return classify.New(sentimentTable), classify.New(intentTable), nil
}

// Analyze runs the six analyses over transcript.
func (a *Assembler) Analyze(ctx context.Context, transcript string) (*Report, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, common.ErrEmptyTranscript
	}

	start := a.now()
	turns := dialogue.Segment(transcript)
	a.logger.Debug("transcript segmented", "turns", len(turns), "chars", len(transcript))

	r := &Report{ID: a.newID(), GeneratedAt: start.UTC()}

	a.step(0)
	found := entities.Extract(transcript)
	r.MedicalEntities = found.Record()

	a.step(1)
	r.StructuredSummary = a.summarizer.Summarize(ctx, transcript, found, a.narrative)

	a.step(2)
	kw := a.ranker.Extract(transcript)
	r.Keywords = Keywords{
		MedicalPhrases: append([]string{}, kw.MedicalPhrases...),
		TopKeywords:    append([]keywords.Keyword{}, kw.Keywords[:min(topKeywords, len(kw.Keywords))]...),
	}

	a.step(3)
	sent := aggregate.Summarize(ctx, turns, a.sentiment, a.sentOpts)
	r.Sentiment = Sentiment{
		Sentiment:  sent.Overall.Label,
		Confidence: round(sent.Overall.Confidence, 3),
		Indicators: sent.Overall.Evidence,
	}

	a.step(4)
	r.Intent = intentAnalysis(aggregate.Summarize(ctx, turns, a.intent, a.intentOpts))

	a.step(5)
	r.SOAP = soap.FromTurns(turns, transcript)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}

	a.logger.Info("transcript analyzed",
		"id", r.ID,
		"turns", len(turns),
		"sentiment", r.Sentiment.Sentiment,
		"duration", a.now().Sub(start))
	return r, nil
}

// AnalyzeStatement classifies the sentiment and intent of a single statement.
func (a *Assembler) AnalyzeStatement(ctx context.Context, text string) StatementAnalysis {
	sentiment := a.sentiment.Analyze(ctx, text)
	intent := a.intent.Analyze(ctx, text)
	return StatementAnalysis{
		Sentiment:           sentiment.Primary,
		Intent:              intent.Primary,
		SentimentConfidence: round(sentiment.Confidence, 2),
		IntentConfidence:    round(intent.Confidence, 2),
	}
}

func (a *Assembler) step(i int) {
	a.logger.Debug("analysis step", "step", i+1, "name", Steps[i])
	if a.onStep != nil {
		a.onStep(i+1, len(Steps), Steps[i])
	}
}

func intentAnalysis(s aggregate.Summary) IntentAnalysis {
	labels := s.Labels()
	out := IntentAnalysis{
		PrimaryIntents:   labels[:min(topIntents, len(labels))],
		SampleDetections: make([]Detection, 0, sampleDetections),
	}
	for _, st := range s.Statements {
		if len(out.SampleDetections) == sampleDetections {
			break
		}
		out.SampleDetections = append(out.SampleDetections, Detection{
			Statement:  dialogue.Excerpt(st.Text),
			Intent:     st.Result.Primary,
			Confidence: round(st.Result.Confidence, 2),
		})
	}
	return out
}
