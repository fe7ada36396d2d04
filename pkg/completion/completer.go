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
	"context"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"
)

// 📨 Request is what gets sent to the completion service for one file
type Request struct {
	Instructions   string // rewrite convention from the preset
	FileContent    string
	PromptAppendix string
}

// 🔌 Completer is a completion transport. It returns the raw reply text, which
// may be empty.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a function to Completer
type CompleterFunc func(ctx context.Context, req Request) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Provider names accepted by NewCompleter
const (
	ProviderOpenAI = "openai"
	ProviderAzure  = "azure"
	ProviderGemini = "gemini"
)

// 🔧 Options configures a completion transport
type Options struct {
	Provider   string
	Model      string
	BaseURL    string
	APIKey     string
	Deployment string // azure only
	APIVersion string // azure only
	Timeout    time.Duration
	MaxRetries int
}

// 🏭 NewCompleter builds the transport named by opts.Provider
func NewCompleter(ctx context.Context, opts Options) (Completer, error) {
	if opts.APIKey == "" {
		return nil, errors.Errorf("api key for provider %q is not set", opts.Provider)
	}

	switch strings.ToLower(opts.Provider) {
	case ProviderOpenAI, "":
		return NewOpenAIClient(OpenAIConfig{
			APIKey:     opts.APIKey,
			BaseURL:    opts.BaseURL,
			Model:      opts.Model,
			Timeout:    opts.Timeout,
			MaxRetries: opts.MaxRetries,
		}), nil
	case ProviderAzure:
		if opts.BaseURL == "" || opts.Deployment == "" {
			return nil, errors.New("azure provider requires base_url and deployment")
		}
		return NewOpenAIClient(OpenAIConfig{
			APIKey:          opts.APIKey,
			BaseURL:         opts.BaseURL,
			Model:           opts.Model,
			Timeout:         opts.Timeout,
			MaxRetries:      opts.MaxRetries,
			AzureDeployment: opts.Deployment,
			AzureAPIVersion: opts.APIVersion,
		}), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey:  opts.APIKey,
			BaseURL: opts.BaseURL,
			Model:   opts.Model,
			Timeout: opts.Timeout,
		})
	default:
		return nil, errors.Errorf("unknown completion provider %q", opts.Provider)
	}
}
