// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

const (
	defaultTimeout   = 120 * time.Second
	defaultMaxTokens = 2048
	maxRetryAttempts = 3
	baseRetryDelay   = 1 * time.Second
)

// BedrockConfig configures the Bedrock-backed generation service.
type BedrockConfig struct {
	ModelID   string        // Bedrock model ID (required)
	Region    string        // AWS region (required)
	Profile   string        // AWS credential profile (optional)
	Timeout   time.Duration // Per-call timeout (default 120s)
	MaxTokens int           // Response token cap (default 2048)
}

// BedrockAPI abstracts the ConverseStream call for testing.
type BedrockAPI interface {
	ConverseStream(ctx context.Context, params *bedrockruntime.ConverseStreamInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseStreamOutput, error)
}

// Bedrock implements Service against the AWS Bedrock runtime.
type Bedrock struct {
	api       BedrockAPI
	modelID   string
	timeout   time.Duration
	maxTokens int
	log       *slog.Logger
}

// NewBedrock creates the service using the standard AWS credential
// chain.
func NewBedrock(ctx context.Context, cfg BedrockConfig, log *slog.Logger) (*Bedrock, error) {
	if cfg.ModelID == "" {
		return nil, fmt.Errorf("%w: model ID is required", ErrProviderUnavailable)
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("%w: region is required", ErrProviderUnavailable)
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: loading AWS config: %v", ErrProviderUnavailable, err)
	}

	return NewBedrockWithAPI(bedrockruntime.NewFromConfig(awsCfg), cfg, log), nil
}

// NewBedrockWithAPI creates the service with a pre-configured API
// implementation. Used by tests with mocks.
func NewBedrockWithAPI(api BedrockAPI, cfg BedrockConfig, log *slog.Logger) *Bedrock {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Bedrock{
		api:       api,
		modelID:   cfg.ModelID,
		timeout:   timeout,
		maxTokens: maxTokens,
		log:       log,
	}
}

// Generate implements Service: renders the template, calls
// ConverseStream with throttling retries, and returns the accumulated
// text.
func (b *Bedrock) Generate(ctx context.Context, req Request) Result {
	prompt, err := RenderPrompt(req.Template, req.Fields)
	if err != nil {
		return Errv(err)
	}

	text, err := b.sendWithRetry(ctx, prompt)
	if err != nil {
		b.log.Warn("generation call failed", "template", req.Template, "error", err)
		return Errv(err)
	}
	if strings.TrimSpace(text) == "" {
		return Errv(fmt.Errorf("%w: empty response for template %q", ErrSchemaViolation, req.Template))
	}
	return Okv(text)
}

// sendWithRetry calls ConverseStream with exponential backoff on
// throttling.
func (b *Bedrock) sendWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetryAttempts; attempt++ {
		if attempt > 0 {
			delay := baseRetryDelay * time.Duration(math.Pow(2, float64(attempt-1)))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: cancelled during retry: %v", ErrTimeout, ctx.Err())
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, b.timeout)

		input := &bedrockruntime.ConverseStreamInput{
			ModelId: aws.String(b.modelID),
			Messages: []brtypes.Message{{
				Role: brtypes.ConversationRoleUser,
				Content: []brtypes.ContentBlock{
					&brtypes.ContentBlockMemberText{Value: prompt},
				},
			}},
			InferenceConfig: &brtypes.InferenceConfiguration{
				MaxTokens: aws.Int32(int32(b.maxTokens)),
			},
		}

		output, err := b.api.ConverseStream(callCtx, input)
		if err != nil {
			cancel()

			var throttle *brtypes.ThrottlingException
			if errors.As(err, &throttle) {
				lastErr = err
				continue
			}
			return "", b.classifyError(err)
		}

		text := consumeStream(callCtx, output.GetStream())
		cancel()
		return text, nil
	}

	return "", fmt.Errorf("%w: rate limited after %d retries: %v", ErrProviderUnavailable, maxRetryAttempts, lastErr)
}

// classifyError maps Bedrock failures onto the package taxonomy.
func (b *Bedrock) classifyError(err error) error {
	var accessDenied *brtypes.AccessDeniedException
	if errors.As(err, &accessDenied) {
		return fmt.Errorf("%w: credential or permission issue: %v", ErrProviderUnavailable, err)
	}

	var notFound *brtypes.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: model not found: %s", ErrProviderUnavailable, b.modelID)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request exceeded %s", ErrTimeout, b.timeout)
	}

	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}

// EventStream abstracts the ConverseStream event stream for testing.
type EventStream interface {
	Events() <-chan brtypes.ConverseStreamOutput
	Close() error
	Err() error
}

// consumeStream accumulates text deltas until the stream closes or the
// context is cancelled; on cancellation it returns what arrived so far.
func consumeStream(ctx context.Context, stream EventStream) string {
	var text strings.Builder

	events := stream.Events()
	for {
		select {
		case <-ctx.Done():
			stream.Close()
			return text.String()

		case event, ok := <-events:
			if !ok {
				return text.String()
			}
			if block, ok := event.(*brtypes.ConverseStreamOutputMemberContentBlockDelta); ok {
				if delta, ok := block.Value.Delta.(*brtypes.ContentBlockDeltaMemberText); ok {
					text.WriteString(delta.Value)
				}
			}
		}
	}
}
