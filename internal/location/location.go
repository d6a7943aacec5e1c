/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package location decomposes scene-heading sluglines into their lighting,
// place, setup and time-of-day facets, and derives the canonical location key
// used to group scenes that share a physical set across lighting and
// time-of-day variants.
package location

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Lighting is the INT/EXT facet of a slugline.
type Lighting int

const (
	LightingUnknown Lighting = iota
	LightingInterior
	LightingExterior
	LightingInteriorExterior      // INT/EXT
	LightingInteriorExteriorAlt   // INT./EXT
	LightingInteriorExteriorShort // I/E
)

var lightingNames = map[Lighting]string{
	LightingUnknown:               "unknown",
	LightingInterior:              "interior",
	LightingExterior:              "exterior",
	LightingInteriorExterior:      "interiorExterior",
	LightingInteriorExteriorAlt:   "interiorExteriorAlt",
	LightingInteriorExteriorShort: "interiorExteriorShort",
}

func (l Lighting) String() string {
	if s, ok := lightingNames[l]; ok {
		return s
	}
	return "unknown"
}

// MarshalJSON writes the lighting as its wire name.
func (l Lighting) MarshalJSON() ([]byte, error) { return json.Marshal(l.String()) }

// UnmarshalJSON reads a wire name; unknown names degrade to LightingUnknown.
func (l *Lighting) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*l = LightingUnknown
	for k, n := range lightingNames {
		if strings.EqualFold(n, s) {
			*l = k
			break
		}
	}
	return nil
}

// SceneLocation is the parsed decomposition of one slugline.
// FullLocation and LocationKey are derived at parse time and never
// recomputed; LocationKey is deliberately independent of Lighting and
// TimeOfDay so that "INT. COFFEE SHOP - DAY" and "EXT. COFFEE SHOP - NIGHT"
// group under the same physical set.
type SceneLocation struct {
	Lighting     Lighting `json:"lighting"`
	Scene        string   `json:"scene"`
	Setup        string   `json:"setup,omitempty"`
	TimeOfDay    string   `json:"timeOfDay,omitempty"`
	Modifiers    []string `json:"modifiers,omitempty"`
	OriginalText string   `json:"originalText"`
	FullLocation string   `json:"fullLocation"`
	LocationKey  string   `json:"locationKey"`
}

// Standalone time-of-day keywords recognized as the slugline's time facet.
var timeOfDayKeywords = map[string]bool{
	"DAY":           true,
	"NIGHT":         true,
	"DAWN":          true,
	"DUSK":          true,
	"MORNING":       true,
	"AFTERNOON":     true,
	"EVENING":       true,
	"SUNSET":        true,
	"SUNRISE":       true,
	"MAGIC HOUR":    true,
	"CONTINUOUS":    true,
	"LATER":         true,
	"MOMENTS LATER": true,
	"SAME":          true,
	"SAME TIME":     true,
}

var (
	reLighting      = regexp.MustCompile(`(?i)^\s*(INT\.?/EXT\.?|EXT\.?/INT\.?|I/E\.?|INT\b\.?|EXT\b\.?)\s*`)
	reTrailingGroup = regexp.MustCompile(`\s*(\(([^()]*)\)|\[([^\[\]]*)\])\s*$`)
	reNonKeyRunes   = regexp.MustCompile(`[^A-Z0-9 ]+`)
	reSpaces        = regexp.MustCompile(`\s+`)
)

// Parse decomposes a scene-heading string. It is total: ambiguous input
// yields LightingUnknown and a best-effort Scene equal to the remaining text.
func Parse(heading string) SceneLocation {
	loc := SceneLocation{OriginalText: heading}
	work := strings.TrimSpace(heading)

	// Trailing (...) and [...] groups become ordered modifiers.
	var trailing []string
	for {
		m := reTrailingGroup.FindStringSubmatchIndex(work)
		if m == nil {
			break
		}
		inner := strings.TrimSpace(strings.Trim(work[m[2]:m[3]], "()[]"))
		if inner != "" {
			trailing = append([]string{inner}, trailing...)
		}
		work = strings.TrimSpace(work[:m[0]])
	}

	if m := reLighting.FindStringSubmatch(work); m != nil {
		loc.Lighting = classifyLighting(m[1])
		work = strings.TrimSpace(work[len(m[0]):])
		work = strings.TrimSpace(strings.TrimPrefix(work, "-"))
	}

	segments := splitSegments(work)
	var place []string
	for i, seg := range segments {
		if i > 0 && loc.TimeOfDay == "" && timeOfDayKeywords[strings.ToUpper(seg)] {
			loc.TimeOfDay = strings.ToUpper(seg)
			continue
		}
		if loc.TimeOfDay != "" {
			// Anything after the time facet is a continuity tag.
			loc.Modifiers = append(loc.Modifiers, seg)
			continue
		}
		place = append(place, seg)
	}
	loc.Modifiers = append(loc.Modifiers, trailing...)

	if len(place) > 0 {
		loc.Scene = place[0]
		if len(place) > 1 {
			loc.Setup = strings.Join(place[1:], " - ")
		}
	} else {
		// Best effort: never leave Scene empty when any text remains.
		loc.Scene = work
	}

	loc.FullLocation = loc.Scene
	if loc.Setup != "" {
		loc.FullLocation = loc.Scene + " - " + loc.Setup
	}
	loc.LocationKey = NormalizeKey(loc.FullLocation)
	return loc
}

// NormalizeKey produces the canonical grouping key for a place description:
// upper-cased, apostrophes unified then stripped with all other punctuation,
// whitespace collapsed.
func NormalizeKey(full string) string {
	key := strings.ToUpper(full)
	key = strings.NewReplacer("’", "'", "‘", "'").Replace(key)
	key = reNonKeyRunes.ReplaceAllString(key, "")
	key = reSpaces.ReplaceAllString(key, " ")
	return strings.TrimSpace(key)
}

func classifyLighting(token string) Lighting {
	t := strings.ToUpper(strings.TrimSpace(token))
	switch {
	case strings.HasPrefix(t, "I/E"):
		return LightingInteriorExteriorShort
	case strings.Contains(t, "/"):
		if strings.HasPrefix(t, "INT./") {
			return LightingInteriorExteriorAlt
		}
		return LightingInteriorExterior
	case strings.HasPrefix(t, "INT"):
		return LightingInterior
	case strings.HasPrefix(t, "EXT"):
		return LightingExterior
	}
	return LightingUnknown
}

// splitSegments splits a slugline remainder on " - " style separators,
// tolerating missing surrounding spaces around double hyphens.
func splitSegments(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	raw := strings.Split(s, " - ")
	if len(raw) == 1 {
		raw = strings.Split(s, "--")
	}
	out := make([]string, 0, len(raw))
	for _, seg := range raw {
		seg = strings.TrimSpace(strings.Trim(seg, "-"))
		seg = strings.TrimSpace(seg)
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}
