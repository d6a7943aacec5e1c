/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package outline

import (
	"encoding/json"
	"strings"
)

// Category classifies an outline node.
type Category int

const (
	CategorySectionHeader Category = iota
	CategorySceneHeader
	CategoryNote
	CategoryBlank
)

var categoryNames = map[Category]string{
	CategorySectionHeader: "sectionHeader",
	CategorySceneHeader:   "sceneHeader",
	CategoryNote:          "note",
	CategoryBlank:         "blank",
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return "sectionHeader"
}

// MarshalJSON writes the category as its wire name.
func (c Category) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }

// UnmarshalJSON reads a wire name back into a Category.
func (c *Category) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*c = CategorySectionHeader
	for k, n := range categoryNames {
		if strings.EqualFold(n, s) {
			*c = k
			break
		}
	}
	return nil
}

// Node is one entry of the flat outline. Parent/child links are string ids
// rather than pointers; the node list is the arena and Tree materializes the
// object graph on demand.
//
// Levels: 1 = title, 2 = chapter, 3 = scene group / directive, 4+ = scene or
// note. The trailing sentinel carries level -1.
type Node struct {
	ID                        string   `json:"id"`
	Index                     int      `json:"index"`
	Level                     int      `json:"level"`
	CharStart                 int      `json:"charStart"`
	CharLen                   int      `json:"charLen"`
	RawText                   string   `json:"rawText"`
	DisplayText               string   `json:"displayText"`
	Category                  Category `json:"category"`
	SceneDirective            string   `json:"sceneDirective,omitempty"`
	SceneDirectiveDescription string   `json:"sceneDirectiveDescription,omitempty"`
	ParentID                  string   `json:"parentId,omitempty"`
	ChildIDs                  []string `json:"childIds,omitempty"`
	IsEndMarker               bool     `json:"isEndMarker,omitempty"`
	SceneID                   string   `json:"sceneId,omitempty"`
	IsSynthetic               bool     `json:"isSynthetic,omitempty"`
	HasHierarchyError         bool     `json:"hasHierarchyError,omitempty"`
}

// Camera and editing directives that disqualify a level-2 header from being
// a chapter and mark it as a likely authoring mistake.
var technicalDirectives = []string{
	"SHOT:",
	"CUT TO:",
	"FADE IN:",
	"FADE OUT:",
	"DISSOLVE TO:",
	"MATCH CUT:",
	"SMASH CUT:",
}

// startsWithTechnicalDirective reports whether the text opens with a known
// camera/editing directive token.
func startsWithTechnicalDirective(text string) bool {
	t := strings.ToUpper(strings.TrimSpace(text))
	for _, d := range technicalDirectives {
		if strings.HasPrefix(t, d) {
			return true
		}
	}
	return false
}

// IsChapter is the derived chapter predicate: a real level-2 section header
// that is neither an END marker nor a camera directive. It is computed, not
// stored.
func (n Node) IsChapter() bool {
	return n.Level == 2 &&
		n.Category == CategorySectionHeader &&
		!n.IsEndMarker &&
		!startsWithTechnicalDirective(n.RawText)
}

// isEndMarkerText reports whether the first whitespace-delimited word of the
// text is exactly END, case-insensitive.
func isEndMarkerText(text string) bool {
	fields := strings.Fields(text)
	return len(fields) > 0 && strings.EqualFold(fields[0], "END")
}

// directiveMarker separates a level-3 directive from its trailing metadata,
// e.g. "ESTABLISHING S#12 - DRONE" -> directive "ESTABLISHING",
// description "S#12 - DRONE".
const directiveMarker = "S#"

// extractDirective splits a level-3 header into directive keyword and
// trailing description. The directive is the text before a colon or before
// the S# marker; the description is the text from the S# marker onward.
func extractDirective(text string) (directive, description string) {
	t := strings.TrimSpace(text)
	if i := strings.Index(t, directiveMarker); i >= 0 {
		directive = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t[:i]), ":"))
		description = strings.TrimSpace(t[i:])
		return directive, description
	}
	if i := strings.Index(t, ":"); i >= 0 {
		return strings.TrimSpace(t[:i]), ""
	}
	return "", ""
}
