// Package extractor implements the article delay extraction service: it
// prompts a hosted language model to read a delay duration out of each
// article and returns one value in minutes per parseable article.
package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/flightcast/flightcast/pkg/logger"
)

const promptTemplate = `%s

Instructions: Analyze the provided text to infer flight delay duration, if any, for the flight source and destination mentioned below. Only return a dict with key delay and value as the expected delay in minutes. Return expected delay 0 if nothing is found. Return -1 if the flight is expected to be cancelled.
Source: %s
Destination: %s

Use inference to come up with delay. Use your best guess. If there is severe weather at one of the airports, flight could be cancelled or delayed. If the flight crew is on protest, flight could be cancelled.
Delay Dict:`

// ChatCompleter abstracts the LLM call for testability
type ChatCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// openaiCompleter backs ChatCompleter with the OpenAI chat completions API
type openaiCompleter struct {
	client openai.Client
	model  string
}

// NewOpenAICompleter creates a completer over the OpenAI API
func NewOpenAICompleter(apiKey, model string) ChatCompleter {
	return &openaiCompleter{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (c *openaiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Service extracts delay estimates from article texts
type Service struct {
	completer      ChatCompleter
	requestTimeout time.Duration
	logger         *logger.Logger
}

// NewService creates the extraction service
func NewService(completer ChatCompleter, requestTimeout time.Duration, logger *logger.Logger) *Service {
	return &Service{
		completer:      completer,
		requestTimeout: requestTimeout,
		logger:         logger.Named("extractor"),
	}
}

// ExtractDelays returns one delay value in minutes per article the model
// could read a delay out of. Articles the model answers unparseably are
// skipped; a model call failure (rate limit, resource exhaustion) stops the
// batch and returns what was extracted so far.
func (s *Service) ExtractDelays(ctx context.Context, articles []string, source, destination string) []float64 {
	delays := make([]float64, 0, len(articles))

	for i, article := range articles {
		prompt := fmt.Sprintf(promptTemplate, article, source, destination)

		callCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
		response, err := s.completer.Complete(callCtx, prompt)
		cancel()
		if err != nil {
			s.logger.Warn("Model call failed, returning partial batch",
				logger.Int("article", i),
				logger.Int("extracted", len(delays)),
				logger.Error(err))
			return delays
		}

		delay, err := parseDelay(response)
		if err != nil {
			s.logger.Debug("Unparseable model answer, skipping article",
				logger.Int("article", i),
				logger.Error(err))
			continue
		}
		delays = append(delays, delay)
	}

	return delays
}

// parseDelay reads the delay value out of the model's answer. The answer is
// expected to contain a dict like {"delay": 30}; models sometimes emit
// single quotes, which are normalized before decoding.
func parseDelay(response string) (float64, error) {
	start := strings.Index(response, "{")
	end := strings.Index(response, "}")
	if start < 0 || end < start {
		return 0, fmt.Errorf("no delay dict in response")
	}

	span := strings.ReplaceAll(response[start:end+1], "'", `"`)

	var parsed struct {
		Delay *float64 `json:"delay"`
	}
	if err := json.Unmarshal([]byte(span), &parsed); err != nil {
		return 0, fmt.Errorf("failed to decode delay dict: %w", err)
	}
	if parsed.Delay == nil {
		return 0, fmt.Errorf("delay dict has no delay key")
	}

	return *parsed.Delay, nil
}
