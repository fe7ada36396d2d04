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
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Kind classifies every failure the pipeline knows about
type Kind int

const (
	KindFileProcessing   Kind = iota // catch-all for anything unclassified
	KindNoFilesFound                 // informational, pattern matched nothing
	KindWorkingTreeDirty             // run aborted before touching anything
	KindAppendixLoad                 // prompt appendix could not be read
	KindNoResponse                   // completion service returned nothing
	KindResponseParse                // completion reply was not a valid payload
)

// String returns the stable name of the kind
func (k Kind) String() string {
	switch k {
	case KindNoFilesFound:
		return "no_files_found"
	case KindWorkingTreeDirty:
		return "working_tree_dirty"
	case KindAppendixLoad:
		return "appendix_load"
	case KindNoResponse:
		return "no_response"
	case KindResponseParse:
		return "response_parse"
	default:
		return "file_processing"
	}
}

// ❌ Error is a classified pipeline failure
type Error struct {
	Kind Kind
	Path string // file or appendix path, when one applies
	Err  error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindNoFilesFound:
		msg = "no files found"
	case KindWorkingTreeDirty:
		msg = "working tree is not clean"
	case KindAppendixLoad:
		msg = fmt.Sprintf("loading prompt appendix %s", e.Path)
	case KindNoResponse:
		msg = "no response from completion service"
	case KindResponseParse:
		msg = "parsing completion response"
	default:
		msg = "processing file"
		if e.Path != "" {
			msg = fmt.Sprintf("processing file %s", e.Path)
		}
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, &Error{Kind: k}) works
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewError builds a classified error with a stack trace attached
func NewError(kind Kind, path string, cause error) error {
	return errors.WithStack(&Error{Kind: kind, Path: path, Err: cause})
}

// KindOf returns the classification of err, defaulting to KindFileProcessing
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindFileProcessing
}
