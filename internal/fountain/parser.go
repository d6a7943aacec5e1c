/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package fountain turns Fountain-formatted screenplay text into the typed
// element stream the core consumes. The grammar here is a deliberately small
// subset; a full codec can replace this package entirely by producing the
// same element stream (see the JSON document form in document.go).
//
// Supported syntax:
//   - Title page: leading "Key: value" block terminated by a blank line.
//   - Section headings: "#" runs, depth = number of hashes.
//   - Scene headings: INT/EXT/EST/I/E prefixes or a forcing ".", optional
//     trailing "#number#" scene numbers. Each heading receives a stable
//     scene id in document order.
//   - Transitions: "> TEXT" or upper-case lines ending in "TO:".
//   - Centered action: "> text <".
//   - Character cues: upper-case line followed by dialogue; "(...)" lines in
//     a dialogue block are parentheticals; a trailing "^" marks dual dialogue.
//   - Synopses "=", lyrics "~", page breaks "===", notes "[[...]]",
//     boneyards "/* ... */".
//   - Everything else is action.
package fountain

import (
	"fmt"
	"regexp"
	"strings"

	"screenwright/internal/element"
)

var (
	reTitleKV    = regexp.MustCompile(`^([A-Za-z][A-Za-z ]*):\s*(.*)$`)
	reSection    = regexp.MustCompile(`^(#+)\s*(.*)$`)
	reSceneStart = regexp.MustCompile(`(?i)^(INT\.?/EXT\.?|EXT\.?/INT\.?|I/E\.?|INT\b\.?|EXT\b\.?|EST\b\.?)`)
	reSceneNum   = regexp.MustCompile(`\s*#([^#\s]+)#\s*$`)
	rePageBreak  = regexp.MustCompile(`^===+$`)
	reNoteLine   = regexp.MustCompile(`^\[\[(.*)\]\]$`)
	reUpper      = regexp.MustCompile(`^[^a-z]*[A-Z][^a-z]*$`)
)

// Parse classifies Fountain text into elements plus script metadata.
// filename is only recorded for the downstream synthetic-title fallback.
func Parse(input, filename string) ([]element.ScriptElement, element.Metadata) {
	meta := element.Metadata{Filename: filename}
	lines := strings.Split(strings.ReplaceAll(input, "\r\n", "\n"), "\n")

	i := parseTitlePage(lines, &meta)

	var out []element.ScriptElement
	sceneSeq := 0
	inBoneyard := false
	inDialogue := false

	for ; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], " \t")
		trim := strings.TrimSpace(line)

		if inBoneyard {
			if idx := strings.Index(trim, "*/"); idx >= 0 {
				inBoneyard = false
				out = append(out, element.ScriptElement{Kind: element.KindBoneyard, Text: strings.TrimSpace(trim[:idx])})
			} else if trim != "" {
				out = append(out, element.ScriptElement{Kind: element.KindBoneyard, Text: trim})
			}
			continue
		}

		if trim == "" {
			inDialogue = false
			continue
		}

		if strings.HasPrefix(trim, "/*") {
			rest := strings.TrimSpace(strings.TrimPrefix(trim, "/*"))
			if idx := strings.Index(rest, "*/"); idx >= 0 {
				out = append(out, element.ScriptElement{Kind: element.KindBoneyard, Text: strings.TrimSpace(rest[:idx])})
			} else {
				inBoneyard = true
				if rest != "" {
					out = append(out, element.ScriptElement{Kind: element.KindBoneyard, Text: rest})
				}
			}
			continue
		}

		if m := reNoteLine.FindStringSubmatch(trim); m != nil {
			out = append(out, element.ScriptElement{Kind: element.KindComment, Text: strings.TrimSpace(m[1])})
			inDialogue = false
			continue
		}

		if rePageBreak.MatchString(trim) {
			out = append(out, element.ScriptElement{Kind: element.KindPageBreak})
			inDialogue = false
			continue
		}

		if m := reSection.FindStringSubmatch(trim); m != nil {
			out = append(out, element.ScriptElement{
				Kind:         element.KindSectionHeading,
				Text:         strings.TrimSpace(m[2]),
				SectionDepth: len(m[1]),
			})
			inDialogue = false
			continue
		}

		if strings.HasPrefix(trim, "=") {
			out = append(out, element.ScriptElement{Kind: element.KindSynopsis, Text: strings.TrimSpace(strings.TrimPrefix(trim, "="))})
			inDialogue = false
			continue
		}

		if strings.HasPrefix(trim, "~") {
			out = append(out, element.ScriptElement{Kind: element.KindLyrics, Text: strings.TrimSpace(strings.TrimPrefix(trim, "~"))})
			continue
		}

		// Forced or detected scene heading.
		if forced := strings.HasPrefix(trim, ".") && !strings.HasPrefix(trim, ".."); forced || reSceneStart.MatchString(trim) {
			text := trim
			if forced {
				text = strings.TrimSpace(strings.TrimPrefix(trim, "."))
			}
			el := element.ScriptElement{Kind: element.KindSceneHeading}
			if m := reSceneNum.FindStringSubmatch(text); m != nil {
				el.SceneNumber = m[1]
				text = strings.TrimSpace(reSceneNum.ReplaceAllString(text, ""))
			}
			sceneSeq++
			el.Text = text
			el.SceneID = fmt.Sprintf("scene-%d", sceneSeq)
			out = append(out, el)
			inDialogue = false
			continue
		}

		if strings.HasPrefix(trim, ">") {
			inner := strings.TrimSpace(strings.TrimPrefix(trim, ">"))
			if strings.HasSuffix(inner, "<") {
				out = append(out, element.ScriptElement{
					Kind:       element.KindAction,
					Text:       strings.TrimSpace(strings.TrimSuffix(inner, "<")),
					IsCentered: true,
				})
			} else {
				out = append(out, element.ScriptElement{Kind: element.KindTransition, Text: inner})
			}
			inDialogue = false
			continue
		}

		if reUpper.MatchString(trim) && strings.HasSuffix(trim, "TO:") {
			out = append(out, element.ScriptElement{Kind: element.KindTransition, Text: trim})
			inDialogue = false
			continue
		}

		if inDialogue {
			if strings.HasPrefix(trim, "(") && strings.HasSuffix(trim, ")") {
				out = append(out, element.ScriptElement{Kind: element.KindParenthetical, Text: trim})
			} else {
				out = append(out, element.ScriptElement{Kind: element.KindDialogue, Text: trim})
			}
			continue
		}

		// Character cue: upper-case line with spoken content on the next line.
		if reUpper.MatchString(trim) && hasContentNext(lines, i) {
			dual := strings.HasSuffix(trim, "^")
			out = append(out, element.ScriptElement{
				Kind:           element.KindCharacter,
				Text:           strings.TrimSpace(strings.TrimSuffix(trim, "^")),
				IsDualDialogue: dual,
			})
			inDialogue = true
			continue
		}

		out = append(out, element.ScriptElement{Kind: element.KindAction, Text: trim})
	}

	return out, meta
}

// parseTitlePage consumes a leading key/value block and returns the index of
// the first body line. A script without a title page starts at line 0.
func parseTitlePage(lines []string, meta *element.Metadata) int {
	if len(lines) == 0 || !reTitleKV.MatchString(strings.TrimSpace(lines[0])) {
		return 0
	}
	// A leading scene heading like "INT. HOUSE: DAY" must not be mistaken
	// for a title page entry.
	if reSceneStart.MatchString(strings.TrimSpace(lines[0])) {
		return 0
	}

	kv := make(map[string]string)
	lastKey := ""
	i := 0
	for ; i < len(lines); i++ {
		trim := strings.TrimSpace(lines[i])
		if trim == "" {
			i++
			break
		}
		if m := reTitleKV.FindStringSubmatch(trim); m != nil && !strings.HasPrefix(lines[i], " ") && !strings.HasPrefix(lines[i], "\t") {
			lastKey = strings.ToLower(strings.TrimSpace(m[1]))
			kv[lastKey] = strings.TrimSpace(m[2])
			continue
		}
		if lastKey != "" {
			if kv[lastKey] == "" {
				kv[lastKey] = trim
			} else {
				kv[lastKey] += "\n" + trim
			}
			continue
		}
		// Not a title page after all.
		return 0
	}
	if len(kv) > 0 {
		meta.TitlePage = kv
	}
	return i
}

// hasContentNext reports whether the following line holds non-blank text.
func hasContentNext(lines []string, i int) bool {
	return i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != ""
}
