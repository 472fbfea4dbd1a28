package corrector

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/address-corrector/app/models"
	"github.com/address-corrector/internal/stats"
	"github.com/agnivade/levenshtein"
	"github.com/avast/retry-go/v4"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/xrash/smetrics"
	"go.uber.org/zap"
)

const correctionPrompt = `You are an expert on Nigerian addresses. Correct the spelling of the address the user sends and complete obviously missing components (town, local government area, state) when they can be inferred. Respond with only a JSON object of the form {"correctedAddress": string, "corrections": [string], "confidence": number between 0 and 1}. List one entry per change in corrections. Do not add commentary.`

const defaultModel = openai.ChatModelGPT4oMini

// Config holds the settings for the language-model correction call.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string        // optional, for tests and proxies
	Timeout     time.Duration // per-call budget, on top of the caller's ctx
	MaxAttempts uint          // transient-failure retries before degrading
	RetryDelay  time.Duration

	// Similarity weights for the confidence estimate used when the
	// model omits the confidence field.
	JWWeight  float64
	LevWeight float64
}

// completeFn issues one completion call and returns the raw model text.
type completeFn func(ctx context.Context, address string) (string, error)

// Corrector wraps the correction capability. Correct never fails to its
// caller: any transport, timeout or parse problem degrades to the
// original text with zero confidence so downstream stages can proceed.
type Corrector struct {
	complete   completeFn
	tracker    *stats.Tracker
	logger     *zap.Logger
	timeout    time.Duration
	attempts   uint
	retryDelay time.Duration
	jwWeight   float64
	levWeight  float64
}

// NewCorrector creates a Corrector backed by the OpenAI chat
// completions API.
func NewCorrector(cfg Config, tracker *stats.Tracker, logger *zap.Logger) *Corrector {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// retry-go owns the retry policy; keep the SDK out of it.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	model := openai.ChatModel(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	complete := func(ctx context.Context, address string) (string, error) {
		resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: model,
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(correctionPrompt),
				openai.UserMessage(address),
			},
			Temperature: openai.Float(0),
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("completion returned no choices")
		}
		return resp.Choices[0].Message.Content, nil
	}

	return newCorrectorWithCompleter(cfg, complete, tracker, logger)
}

// newCorrectorWithCompleter is the injection point used by tests.
func newCorrectorWithCompleter(cfg Config, complete completeFn, tracker *stats.Tracker, logger *zap.Logger) *Corrector {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 2
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	if cfg.JWWeight <= 0 {
		cfg.JWWeight = 0.6
	}
	if cfg.LevWeight <= 0 {
		cfg.LevWeight = 0.4
	}

	return &Corrector{
		complete:   complete,
		tracker:    tracker,
		logger:     logger,
		timeout:    cfg.Timeout,
		attempts:   cfg.MaxAttempts,
		retryDelay: cfg.RetryDelay,
		jwWeight:   cfg.JWWeight,
		levWeight:  cfg.LevWeight,
	}
}

// Correct runs one correction call and records it in the stats tracker.
// It never returns an error; failures degrade to the input text with
// confidence 0 and an empty corrections list.
func (c *Corrector) Correct(ctx context.Context, address string) *models.CorrectionResult {
	result := c.correct(ctx, address)
	c.tracker.Record(address, result.CorrectedAddress, result.Corrections)
	return result
}

func (c *Corrector) correct(ctx context.Context, address string) *models.CorrectionResult {
	fallback := &models.CorrectionResult{
		CorrectedAddress: address,
		Corrections:      []string{},
		Confidence:       0,
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var raw string
	err := retry.Do(
		func() error {
			out, err := c.complete(ctx, address)
			if err != nil {
				return err
			}
			raw = out
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		c.logger.Warn("Correction call failed, degrading to raw input",
			zap.String("address", address),
			zap.Error(err))
		return fallback
	}

	payload, ok := parseModelOutput(raw)
	if !ok {
		c.logger.Warn("Correction output unparseable, degrading to raw input",
			zap.String("address", address),
			zap.String("raw_output", truncate(raw, 200)))
		return fallback
	}

	confidence := 0.0
	if payload.Confidence != nil {
		confidence = clamp01(*payload.Confidence)
	} else {
		confidence = c.estimateConfidence(address, payload.CorrectedAddress)
	}

	corrections := payload.Corrections
	if corrections == nil {
		corrections = []string{}
	}

	return &models.CorrectionResult{
		CorrectedAddress: payload.CorrectedAddress,
		Corrections:      corrections,
		Confidence:       confidence,
	}
}

// estimateConfidence scores how plausible a correction is from string
// similarity when the model did not report its own confidence: a blend
// of Jaro-Winkler similarity and normalized Levenshtein distance, so a
// wholesale rewrite scores low and a small spelling fix scores high.
func (c *Corrector) estimateConfidence(original, corrected string) float64 {
	a := strings.ToLower(strings.TrimSpace(original))
	b := strings.ToLower(strings.TrimSpace(corrected))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	jw := smetrics.JaroWinkler(a, b, 0.7, 4)

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	lev := 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
	if lev < 0 {
		lev = 0
	}

	return clamp01(c.jwWeight*jw + c.levWeight*lev)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
