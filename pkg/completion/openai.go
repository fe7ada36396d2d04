// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// OpenAI defaults
const (
	DefaultOpenAIBaseURL    = "https://api.openai.com/v1"
	DefaultOpenAIModel      = "gpt-4o"
	DefaultAzureAPIVersion  = "2024-06-01"
	defaultRequestTimeout   = 5 * time.Minute
	defaultMaxRetries       = 3
	defaultRetryBaseBackoff = time.Second
)

// 🔧 OpenAIConfig configures an OpenAI-compatible chat completions client
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int

	// AzureDeployment switches the client to Azure OpenAI addressing
	AzureDeployment string
	AzureAPIVersion string

	retryBackoff time.Duration
}

// 🤖 OpenAIClient talks to /chat/completions and asks for a JSON object reply
type OpenAIClient struct {
	cfg        OpenAIConfig
	httpClient *http.Client
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

type openAIRequest struct {
	Model          string                `json:"model,omitempty"`
	Messages       []openAIMessage       `json:"messages"`
	Temperature    float64               `json:"temperature"`
	ResponseFormat *openAIResponseFormat `json:"response_format,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// 🏭 NewOpenAIClient creates a client, filling in defaults
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenAIBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" && cfg.AzureDeployment == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if cfg.AzureDeployment != "" && cfg.AzureAPIVersion == "" {
		cfg.AzureAPIVersion = DefaultAzureAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRequestTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	} else if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.retryBackoff <= 0 {
		cfg.retryBackoff = defaultRetryBaseBackoff
	}

	return &OpenAIClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *OpenAIClient) endpoint() string {
	if c.cfg.AzureDeployment != "" {
		return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
			c.cfg.BaseURL, url.PathEscape(c.cfg.AzureDeployment), url.QueryEscape(c.cfg.AzureAPIVersion))
	}
	return c.cfg.BaseURL + "/chat/completions"
}

// 🎯 Complete sends one request, retrying on rate limits, server errors and
// transport failures
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	logger := zerolog.Ctx(ctx)

	body, err := json.Marshal(openAIRequest{
		Model: c.cfg.Model,
		Messages: []openAIMessage{
			{Role: "system", Content: SystemPrompt(req)},
			{Role: "user", Content: UserPrompt(req)},
		},
		Temperature:    0,
		ResponseFormat: &openAIResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", errors.Errorf("marshaling request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.cfg.retryBackoff * time.Duration(1<<uint(attempt-1))
			logger.Debug().Int("attempt", attempt).Dur("backoff", backoff).Err(lastErr).Msg("retrying completion request")
			select {
			case <-ctx.Done():
				return "", errors.Errorf("waiting to retry: %w", ctx.Err())
			case <-time.After(backoff):
			}
		}

		content, retry, err := c.do(ctx, body)
		if err == nil {
			return content, nil
		}
		if !retry {
			return "", err
		}
		lastErr = err
	}

	return "", errors.Errorf("max retries exceeded: %w", lastErr)
}

func (c *OpenAIClient) do(ctx context.Context, body []byte) (string, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", false, errors.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.AzureDeployment != "" {
		httpReq.Header.Set("api-key", c.cfg.APIKey)
	} else {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, errors.Errorf("request failed: %w", ctx.Err())
		}
		return "", true, errors.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, errors.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", true, errors.Errorf("rate limit exceeded (429)")
	case resp.StatusCode >= 500:
		return "", true, errors.Errorf("server error %d: %s", resp.StatusCode, string(data))
	case resp.StatusCode != http.StatusOK:
		return "", false, errors.Errorf("request failed with status %d: %s", resp.StatusCode, string(data))
	}

	var parsed openAIResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", false, errors.Errorf("parsing response envelope: %w", err)
	}
	if parsed.Error != nil {
		return "", false, errors.Errorf("api error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", false, nil
	}

	choice := parsed.Choices[0]
	zerolog.Ctx(ctx).Debug().
		Str("finish_reason", choice.FinishReason).
		Int("bytes", len(choice.Message.Content)).
		Msg("completion finished")

	return choice.Message.Content, false, nil
}
