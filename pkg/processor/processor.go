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

// Package processor turns one source file into a TransformResult by way of the
// completion service.
package processor

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/i18nmigrate/pkg/completion"
	"github.com/walteh/i18nmigrate/pkg/model"
	"github.com/walteh/i18nmigrate/pkg/preset"
	"gitlab.com/tozd/go/errors"
)

// ⚙️ FileProcessor rewrites files following one preset
type FileProcessor struct {
	preset    preset.Preset
	validator *completion.Validator
}

// 🏭 New creates a processor for p that sends requests through completer
func New(p preset.Preset, completer completion.Completer) *FileProcessor {
	return &FileProcessor{
		preset:    p,
		validator: completion.NewValidator(completer, p.Instructions),
	}
}

// Preset returns the preset this processor applies
func (fp *FileProcessor) Preset() preset.Preset {
	return fp.preset
}

// 🎯 ProcessFile reads path and returns the rewritten content and extracted keys.
// It never writes to disk.
func (fp *FileProcessor) ProcessFile(ctx context.Context, path, appendixPath string) (*model.TransformResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("file", path).
		Str("preset", fp.preset.Name).
		Int("bytes", len(content)).
		Msg("sending file for migration")

	return fp.validator.Complete(ctx, string(content), appendixPath)
}
