/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package element defines the typed screenplay element stream that every
// downstream component (outline, browser, location grouping) consumes.
// Elements are produced by a grammar layer (internal/fountain or an external
// codec) and are immutable from the core's point of view.
package element

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind classifies a single screenplay element.
type Kind int

const (
	KindUnknown Kind = iota
	KindSceneHeading
	KindAction
	KindCharacter
	KindDialogue
	KindParenthetical
	KindTransition
	KindSectionHeading
	KindSynopsis
	KindComment
	KindBoneyard
	KindLyrics
	KindPageBreak
)

var kindNames = map[Kind]string{
	KindUnknown:        "unknown",
	KindSceneHeading:   "sceneHeading",
	KindAction:         "action",
	KindCharacter:      "character",
	KindDialogue:       "dialogue",
	KindParenthetical:  "parenthetical",
	KindTransition:     "transition",
	KindSectionHeading: "sectionHeading",
	KindSynopsis:       "synopsis",
	KindComment:        "comment",
	KindBoneyard:       "boneyard",
	KindLyrics:         "lyrics",
	KindPageBreak:      "pageBreak",
}

// String returns the stable wire name of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// KindFromString parses a wire name back into a Kind. Unrecognized names
// map to KindUnknown rather than an error; the stream stays readable.
func KindFromString(s string) Kind {
	for k, n := range kindNames {
		if strings.EqualFold(n, s) {
			return k
		}
	}
	return KindUnknown
}

// MarshalJSON writes the kind as its wire name.
func (k Kind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }

// UnmarshalJSON reads a wire name; unknown names degrade to KindUnknown.
func (k *Kind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("element kind: %w", err)
	}
	*k = KindFromString(s)
	return nil
}

// ScriptElement is one classified line (or block) of a screenplay.
// SceneID is a stable opaque identity assigned once per scene heading; it is
// what disambiguates duplicate sluglines downstream.
type ScriptElement struct {
	Kind           Kind   `json:"kind"`
	Text           string `json:"text"`
	IsCentered     bool   `json:"isCentered,omitempty"`
	IsDualDialogue bool   `json:"isDualDialogue,omitempty"`
	SceneNumber    string `json:"sceneNumber,omitempty"`
	SectionDepth   int    `json:"sectionDepth,omitempty"`
	SceneID        string `json:"sceneId,omitempty"`
	Summary        string `json:"summary,omitempty"`
}

// Metadata carries script-level information from the title page plus the
// optional source filename. The core only uses it for the synthetic-title
// fallback when a script has no level-1 section heading.
type Metadata struct {
	TitlePage map[string]string `json:"titlePage,omitempty"`
	Filename  string            `json:"filename,omitempty"`
}

// Title resolves the best available script title: title-page "title" entry,
// then the filename stripped of its extension, then "Untitled Script".
func (m Metadata) Title() string {
	for k, v := range m.TitlePage {
		if strings.EqualFold(strings.TrimSpace(k), "title") && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	if f := strings.TrimSpace(m.Filename); f != "" {
		if i := strings.LastIndex(f, "."); i > 0 {
			f = f[:i]
		}
		if f != "" {
			return f
		}
	}
	return "Untitled Script"
}
