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
	_ "embed"
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/i18nmigrate/pkg/model"
	"github.com/xeipuuv/gojsonschema"
	"gitlab.com/tozd/go/errors"
)

//go:embed response.schema.json
var responseSchema []byte

var loadSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(responseSchema))
})

// ✅ Validator turns completion replies into typed results or classified errors
type Validator struct {
	completer    Completer
	instructions string
}

// 🏭 NewValidator wraps a transport. instructions carry the rewrite convention.
func NewValidator(completer Completer, instructions string) *Validator {
	return &Validator{completer: completer, instructions: instructions}
}

// 🎯 Complete sends fileContent (plus the optional appendix file) to the
// completion service and validates the reply.
func (v *Validator) Complete(ctx context.Context, fileContent, appendixPath string) (*model.TransformResult, error) {
	appendix, err := LoadAppendix(appendixPath)
	if err != nil {
		return nil, err
	}

	raw, err := v.completer.Complete(ctx, Request{
		Instructions:   v.instructions,
		FileContent:    fileContent,
		PromptAppendix: appendix,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Errorf("requesting completion: %w", ctx.Err())
		}
		return nil, model.NewError(model.KindNoResponse, "", err)
	}

	if strings.TrimSpace(raw) == "" {
		return nil, model.NewError(model.KindNoResponse, "", nil)
	}

	zerolog.Ctx(ctx).Trace().Int("bytes", len(raw)).Msg("completion received")

	return ParseResponse(raw)
}

// 📎 LoadAppendix reads the prompt appendix. An empty path means no appendix.
func LoadAppendix(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", model.NewError(model.KindAppendixLoad, path, err)
	}
	return string(data), nil
}

// 🔍 ParseResponse decodes and schema-checks a raw completion reply.
//
// Syntax errors and schema violations become KindResponseParse; anything else
// is returned without reclassification.
func ParseResponse(raw string) (*model.TransformResult, error) {
	data := []byte(raw)

	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, classifyDecodeError(err)
	}
	if dec.More() {
		return nil, model.NewError(model.KindResponseParse, "", errors.New("unexpected data after JSON object"))
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, errors.Errorf("loading response schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, errors.Errorf("validating response: %w", err)
	}
	if !result.Valid() {
		return nil, model.NewError(model.KindResponseParse, "", schemaError(result.Errors()))
	}

	var out model.TransformResult
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, classifyDecodeError(err)
	}
	if out.Keys == nil {
		out.Keys = []model.Key{}
	}

	return &out, nil
}

func classifyDecodeError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return model.NewError(model.KindResponseParse, "", err)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return model.NewError(model.KindResponseParse, "", err)
	default:
		return errors.Errorf("decoding response: %w", err)
	}
}

func schemaError(errs []gojsonschema.ResultError) error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.String())
	}
	return errors.Errorf("response does not match schema: %s", strings.Join(msgs, "; "))
}
