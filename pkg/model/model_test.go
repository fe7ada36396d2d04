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
package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestStatusEntryMarshalsEmptyKeys(t *testing.T) {
	data, err := json.Marshal(StatusMap{"a.tsx": {Migrated: false}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a.tsx": {"migrated": false, "keys": []}}`, string(data))
}

func TestTransformResultWireNames(t *testing.T) {
	var r TransformResult
	require.NoError(t, json.Unmarshal([]byte(`{
		"keys": [{"name": "welcome-message", "description": "Greeting", "default": "Welcome!"}],
		"newFileContents": "<T keyName=\"welcome-message\" />"
	}`), &r))

	assert.Equal(t, "<T keyName=\"welcome-message\" />", r.RewrittenContent)
	assert.Equal(t, []string{"welcome-message"}, r.KeyNames())
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "unclassified", err: errors.New("boom"), want: KindFileProcessing},
		{name: "direct", err: NewError(KindNoResponse, "", nil), want: KindNoResponse},
		{name: "wrapped", err: errors.Errorf("processing a.tsx: %w", NewError(KindResponseParse, "", errors.New("bad json"))), want: KindResponseParse},
		{name: "appendix", err: NewError(KindAppendixLoad, "appendix.md", errors.New("missing")), want: KindAppendixLoad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorMatching(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := errors.Errorf("wrapped: %w", NewError(KindResponseParse, "", cause))

	assert.True(t, errors.Is(err, &Error{Kind: KindResponseParse}))
	assert.False(t, errors.Is(err, &Error{Kind: KindNoResponse}))
	assert.True(t, errors.Is(err, cause), "cause stays reachable")
	assert.Contains(t, err.Error(), "parsing completion response: unexpected end of JSON input")

	appendix := NewError(KindAppendixLoad, "docs/appendix.md", nil)
	assert.Equal(t, "loading prompt appendix docs/appendix.md", appendix.Error())
	assert.Equal(t, "appendix_load", KindAppendixLoad.String())
}
