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

import "strings"

const basePrompt = `You are migrating a source file so that every user-facing text literal is
replaced with a reference to a named translation key.

For each literal you replace, produce one key with:
- "name": a short, unique, kebab-case identifier
- "description": one sentence describing where and why the text is shown
- "default": the original text, unchanged

Leave code that is not user-facing exactly as it is. Do not reformat the file.
If the file has no user-facing text, return an empty "keys" array and the file
contents unchanged.`

const responseFormatPrompt = `Reply with a single JSON object and nothing else, shaped exactly as:
{"keys": [{"name": "...", "description": "...", "default": "..."}], "newFileContents": "..."}
No other fields are allowed.`

// SystemPrompt assembles the instruction text for a request
func SystemPrompt(req Request) string {
	parts := []string{basePrompt}
	if s := strings.TrimSpace(req.Instructions); s != "" {
		parts = append(parts, s)
	}
	parts = append(parts, responseFormatPrompt)
	if s := strings.TrimSpace(req.PromptAppendix); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n\n")
}

// UserPrompt returns the message carrying the file itself
func UserPrompt(req Request) string {
	return req.FileContent
}
