/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package outline builds the multi-level structural hierarchy implied by a
// flat screenplay element stream: title, chapters, scene groups and scenes,
// as a flat node list linked by parent/child ids. Missing intermediate
// levels are synthesized rather than reported; the builder never fails.
package outline

import (
	"fmt"
	"strings"

	"screenwright/internal/element"
)

const (
	noteLevel     = 5
	sentinelLevel = -1
)

type builder struct {
	nodes    []Node
	stack    []int // arena indices of currently open ancestors
	synthSeq int
}

// Build runs a single left-to-right pass over the element stream and returns
// the flat outline node list. Metadata is used only for the synthetic title
// fallback when the script has no level-1 section heading.
func Build(elements []element.ScriptElement, meta element.Metadata) []Node {
	b := &builder{}

	// Pre-scan: a script without a level-1 section heading still gets a
	// title node so every chapter has a root to hang from.
	hasTitle := false
	for _, el := range elements {
		if el.Kind == element.KindSectionHeading && el.SectionDepth <= 1 {
			hasTitle = true
			break
		}
	}
	if !hasTitle {
		idx := b.appendNode(Node{
			Level:       1,
			RawText:     meta.Title(),
			DisplayText: meta.Title(),
			Category:    CategorySectionHeader,
			IsSynthetic: true,
		})
		b.stack = append(b.stack, idx)
	}

	charPos := 0
	emitted := false
	for _, el := range elements {
		start := charPos
		charPos += len(el.Text) + 1

		node, ok := b.classify(el)
		if !ok {
			continue
		}
		node.CharStart = start
		node.CharLen = len(el.Text) + 1
		b.insert(node)
		emitted = true
	}

	if emitted {
		b.appendNode(Node{
			Level:       sentinelLevel,
			Category:    CategoryBlank,
			IsSynthetic: true,
		})
	}
	return b.nodes
}

// classify decides whether an element belongs in the outline and at which
// level. Elements that are excluded still advance the character position in
// the caller.
func (b *builder) classify(el element.ScriptElement) (Node, bool) {
	switch el.Kind {
	case element.KindSectionHeading:
		level := el.SectionDepth
		if level < 1 {
			level = 1
		}
		n := Node{
			Level:       level,
			RawText:     el.Text,
			DisplayText: strings.TrimSpace(el.Text),
			Category:    CategorySectionHeader,
		}
		if level == 2 {
			n.IsEndMarker = isEndMarkerText(el.Text)
			n.HasHierarchyError = startsWithTechnicalDirective(el.Text)
		}
		if level == 3 {
			n.SceneDirective, n.SceneDirectiveDescription = extractDirective(el.Text)
		}
		return n, true

	case element.KindSceneHeading:
		return Node{
			Level:       b.sceneLevel(),
			RawText:     el.Text,
			DisplayText: strings.TrimSpace(el.Text),
			Category:    CategorySceneHeader,
			SceneID:     el.SceneID,
		}, true

	case element.KindComment:
		trimmed := strings.TrimSpace(el.Text)
		if !strings.HasPrefix(strings.ToUpper(trimmed), "NOTE:") {
			return Node{}, false
		}
		return Node{
			Level:       noteLevel,
			RawText:     el.Text,
			DisplayText: strings.TrimSpace(trimmed[len("NOTE:"):]),
			Category:    CategoryNote,
		}, true
	}
	return Node{}, false
}

// sceneLevel resolves the target level of a scene heading from the nearest
// open non-scene ancestor below level 4: under a scene group the scene sits
// at level 4; under a bare chapter it keeps level 4 and gap filling supplies
// the shared synthetic group; with only a title open it is promoted to
// level 3 and stands in for its own group.
func (b *builder) sceneLevel() int {
	nearest := 0
	for i := len(b.stack) - 1; i >= 0; i-- {
		n := b.nodes[b.stack[i]]
		if n.Level < 4 && n.Category != CategorySceneHeader {
			nearest = n.Level
			break
		}
	}
	switch {
	case nearest >= 3:
		return nearest + 1
	case nearest == 2:
		return 4
	default:
		return 3
	}
}

// insert closes deeper scopes, fills any level gap with (shared) synthetic
// nodes, attaches the node to its parent and opens its scope.
func (b *builder) insert(node Node) {
	for len(b.stack) > 0 && b.nodes[b.stack[len(b.stack)-1]].Level >= node.Level {
		b.stack = b.stack[:len(b.stack)-1]
	}

	// Fill missing intermediate levels. A synthetic sibling already created
	// under the same parent is reused so scenes sharing a gap share one
	// filler.
	for node.Level > b.topLevel()+1 && node.Level > 1 {
		fillLevel := b.topLevel() + 1
		idx := b.findSyntheticChild(fillLevel)
		if idx < 0 {
			idx = b.appendNode(Node{
				Level:       fillLevel,
				Category:    CategorySectionHeader,
				IsSynthetic: true,
			})
			b.link(idx)
		}
		b.stack = append(b.stack, idx)
	}

	idx := b.appendNode(node)
	b.link(idx)
	if !node.IsEndMarker {
		b.stack = append(b.stack, idx)
	}
}

func (b *builder) topLevel() int {
	if len(b.stack) == 0 {
		return 0
	}
	return b.nodes[b.stack[len(b.stack)-1]].Level
}

// findSyntheticChild looks for an existing synthetic filler at the given
// level under the current stack top (or among the roots when the stack is
// empty) and returns its arena index, or -1.
func (b *builder) findSyntheticChild(level int) int {
	if len(b.stack) == 0 {
		for i, n := range b.nodes {
			if n.ParentID == "" && n.IsSynthetic && n.Level == level && n.Category == CategorySectionHeader {
				return i
			}
		}
		return -1
	}
	parent := b.nodes[b.stack[len(b.stack)-1]]
	for i, n := range b.nodes {
		if n.ParentID == parent.ID && n.IsSynthetic && n.Level == level && n.Category == CategorySectionHeader {
			return i
		}
	}
	return -1
}

// link attaches the node at idx to the current stack top, keeping ParentID
// and ChildIDs mutually consistent.
func (b *builder) link(idx int) {
	if len(b.stack) == 0 {
		return
	}
	top := b.stack[len(b.stack)-1]
	b.nodes[idx].ParentID = b.nodes[top].ID
	b.nodes[top].ChildIDs = append(b.nodes[top].ChildIDs, b.nodes[idx].ID)
}

// appendNode assigns the node's id and index and adds it to the arena.
func (b *builder) appendNode(n Node) int {
	n.Index = len(b.nodes)
	if n.IsSynthetic {
		b.synthSeq++
		n.ID = fmt.Sprintf("synthetic-%d", b.synthSeq)
	} else {
		n.ID = fmt.Sprintf("node-%d", n.Index)
	}
	b.nodes = append(b.nodes, n)
	return len(b.nodes) - 1
}
