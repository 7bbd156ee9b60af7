package markvis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Enhancement defaults.
const (
	DefaultModel             = "gemini-2.5-flash"
	DefaultInstruction       = "Fix formatting, improve grammar, and organize this document better."
	DefaultSystemInstruction = "You are a helpful assistant that improves markdown formatting, fixes grammar, and enhances clarity."
)

// promptTemplate frames the user instruction and the current document.
const promptTemplate = `You are an expert technical writer and markdown editor.

User Instruction: %s

Current Markdown Content:
%s

Please return ONLY the improved/corrected Markdown content. Do not add conversational text.`

// BuildPrompt returns the prompt sent to the model for one improvement.
func BuildPrompt(instruction, markdown string) string {
	return fmt.Sprintf(promptTemplate, instruction, markdown)
}

// TextGenerator sends one prompt to a hosted model and returns its text.
type TextGenerator interface {
	Generate(ctx context.Context, model, systemInstruction, prompt string) (string, error)
}

// EnhancerConfig configures an Enhancer. APIKey is required for Improve to
// reach the model; the other fields fall back to the package defaults.
type EnhancerConfig struct {
	APIKey            string
	Model             string
	SystemInstruction string
}

// Enhancer asks a hosted model to rewrite markdown.
type Enhancer struct {
	cfg    EnhancerConfig
	gen    TextGenerator
	logger *zap.Logger
}

// NewEnhancer creates an Enhancer. Without WithGenerator, a Gemini client
// is used, created on the first Improve call.
func NewEnhancer(cfg EnhancerConfig, opts ...Option) *Enhancer {
	s := newSettings(opts)

	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.SystemInstruction == "" {
		cfg.SystemInstruction = DefaultSystemInstruction
	}

	gen := s.generator
	if gen == nil && cfg.APIKey != "" {
		gen = newGeminiGenerator(cfg.APIKey)
	}

	return &Enhancer{cfg: cfg, gen: gen, logger: s.logger}
}

// HasCredential reports whether Improve can reach the model.
func (e *Enhancer) HasCredential() bool {
	return e.cfg.APIKey != "" && e.gen != nil
}

// Model returns the configured model name.
func (e *Enhancer) Model() string {
	return e.cfg.Model
}

// Improve returns the model's rewrite of markdown following instruction.
// An empty instruction uses DefaultInstruction. Without a credential it
// fails with ErrMissingCredential before any network call. A blank model
// answer returns markdown unchanged. The caller's input is never modified.
func (e *Enhancer) Improve(ctx context.Context, markdown, instruction string) (string, error) {
	if !e.HasCredential() {
		return "", ErrMissingCredential
	}
	if strings.TrimSpace(instruction) == "" {
		instruction = DefaultInstruction
	}

	start := time.Now()
	text, err := e.gen.Generate(ctx, e.cfg.Model, e.cfg.SystemInstruction, BuildPrompt(instruction, markdown))
	if err != nil {
		e.logger.Error("model call failed",
			zap.String("model", e.cfg.Model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: %v", ErrEnhancement, err)
	}

	if strings.TrimSpace(text) == "" {
		e.logger.Warn("model returned no text, keeping source", zap.String("model", e.cfg.Model))
		return markdown, nil
	}

	e.logger.Info("document improved",
		zap.String("model", e.cfg.Model),
		zap.Int("input_bytes", len(markdown)),
		zap.Int("output_bytes", len(text)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return text, nil
}
