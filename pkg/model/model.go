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

// Package model holds the types shared by the migration pipeline.
package model

import "encoding/json"

// 🔑 Key is a named, described, default-valued unit of translatable text
type Key struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     string `json:"default"`
}

// 🔄 TransformResult is what a file processor hands back for one file
type TransformResult struct {
	RewrittenContent string `json:"newFileContents"`
	Keys             []Key  `json:"keys"`
}

// KeyNames returns the names of the result's keys in order
func (r *TransformResult) KeyNames() []string {
	names := make([]string, 0, len(r.Keys))
	for _, k := range r.Keys {
		names = append(names, k.Name)
	}
	return names
}

// 📊 StatusEntry is the durable migration record for a single file
type StatusEntry struct {
	Migrated bool     `json:"migrated"`
	Keys     []string `json:"keys"`
}

// MarshalJSON keeps keys as an array even when nil
func (e StatusEntry) MarshalJSON() ([]byte, error) {
	type plain StatusEntry
	if e.Keys == nil {
		e.Keys = []string{}
	}
	return json.Marshal(plain(e))
}

// StatusMap maps a file path to its migration record
type StatusMap map[string]StatusEntry

// CatalogMap maps a file path to the keys discovered in it
type CatalogMap map[string][]Key
