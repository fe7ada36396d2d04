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

// Package preset defines the rewrite conventions a migration can target.
package preset

import (
	"sort"
	"strings"
	"sync"

	"gitlab.com/tozd/go/errors"
)

// 🎛️ Preset selects how extracted text is referenced in rewritten files
type Preset struct {
	Name           string
	Description    string
	DefaultPattern string // glob used when no pattern is given
	Instructions   string // convention-specific prompt text
}

var (
	mu      sync.RWMutex
	presets = map[string]Preset{}
)

// 📝 Register adds or replaces a preset
func Register(p Preset) {
	mu.Lock()
	defer mu.Unlock()
	presets[strings.ToLower(p.Name)] = p
}

// 🎯 Get returns the preset with the given name
func Get(name string) (Preset, error) {
	mu.RLock()
	defer mu.RUnlock()
	p, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Preset{}, errors.Errorf("unknown preset %q (available: %s)", name, strings.Join(namesLocked(), ", "))
	}
	return p, nil
}

// Names lists registered presets in lexical order
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
