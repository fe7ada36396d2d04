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

package preset

// DefaultName is the preset used when none is configured
const DefaultName = "react"

func init() {
	Register(Preset{
		Name:           "react",
		Description:    "React: <T keyName> in JSX, useTranslate() for attributes and props",
		DefaultPattern: "src/**/*.tsx",
		Instructions: `The file is a React component.
- Replace text rendered as JSX children with <T keyName="..." />, importing T from '@tolgee/react'.
- Replace text used in attributes, props or plain strings with t('...') from
  const { t } = useTranslate(); importing useTranslate from '@tolgee/react'.
- Only call useTranslate inside components or hooks.`,
	})

	Register(Preset{
		Name:           "react-hook",
		Description:    "React: useTranslate() everywhere",
		DefaultPattern: "src/**/*.tsx",
		Instructions: `The file is a React component.
- Replace every user-facing string with t('...') from const { t } = useTranslate();
  importing useTranslate from '@tolgee/react'. Do not use the T component.`,
	})

	Register(Preset{
		Name:           "vue",
		Description:    "Vue single file components with $t and <T>",
		DefaultPattern: "src/**/*.vue",
		Instructions: `The file is a Vue single file component.
- In templates, replace text with {{ $t('...') }} or :attr="$t('...')".
- In <script setup>, use const { t } = useTranslate() from '@tolgee/vue'.`,
	})

	Register(Preset{
		Name:           "svelte",
		Description:    "Svelte components with $t store",
		DefaultPattern: "src/**/*.svelte",
		Instructions: `The file is a Svelte component.
- Import { getTranslate } from '@tolgee/svelte' and const { t } = getTranslate();
- Replace text with {$t('...')} in markup and $t('...') in script.`,
	})

	Register(Preset{
		Name:           "angular",
		Description:    "Angular templates with the translate pipe",
		DefaultPattern: "src/**/*.html",
		Instructions: `The file is an Angular template.
- Replace text with {{ '...' | translate }} and bound attributes with [attr]="'...' | translate".
- Do not touch component TypeScript code.`,
	})
}
