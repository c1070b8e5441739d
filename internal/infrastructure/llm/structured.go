package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const jsonReminder = "\n\nYour previous reply was not valid JSON. Respond with ONLY the JSON object, no prose and no code fences."

// parseJSON extracts the first {...} block from a model response and
// unmarshals it, tolerating surrounding markdown or commentary.
func parseJSON[T any](response string) (T, error) {
	var zero T

	start := strings.IndexByte(response, '{')
	end := strings.LastIndexByte(response, '}')
	if start == -1 || end == -1 || start >= end {
		return zero, fmt.Errorf("no JSON object found in response")
	}

	var result T
	if err := json.Unmarshal([]byte(response[start:end+1]), &result); err != nil {
		return zero, fmt.Errorf("unmarshal response: %w", err)
	}
	return result, nil
}

// generateStructured asks the client for JSON conforming to T, retrying a
// bounded number of times on malformed output. The returned error carries
// the total attempt count so callers can wrap it as an extraction failure.
func generateStructured[T any](ctx context.Context, client Client, prompt string, maxRetries int) (T, int, error) {
	var zero T
	if maxRetries < 0 {
		maxRetries = 0
	}

	attempt := 0
	currentPrompt := prompt
	var lastErr error

	for attempt <= maxRetries {
		if ctx.Err() != nil {
			return zero, attempt, ctx.Err()
		}
		attempt++

		response, err := client.Generate(ctx, currentPrompt)
		if err != nil {
			lastErr = err
			continue
		}

		result, err := parseJSON[T](response)
		if err != nil {
			lastErr = err
			currentPrompt = prompt + jsonReminder
			continue
		}

		return result, attempt, nil
	}

	return zero, attempt, lastErr
}
