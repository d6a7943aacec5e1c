/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package browser materializes the nested browsing structure over an outline
// and its element stream: chapters own scene groups, scene groups own scenes,
// and every scene carries its resolved content slice, optional pre-scene
// content and parsed location. Like the builder, assembly never fails;
// missing structure degrades to synthesized containers.
package browser

import (
	"strings"

	"screenwright/internal/element"
	"screenwright/internal/location"
	"screenwright/internal/outline"
)

// overBlackMarker identifies convention headings whose content belongs to the
// following real scene.
const overBlackMarker = "OVER BLACK"

// SceneData is one browsable scene with its resolved content slice.
type SceneData struct {
	ID               string                  `json:"id"`
	Slugline         string                  `json:"slugline"`
	SceneID          string                  `json:"sceneId,omitempty"`
	SceneElements    []element.ScriptElement `json:"sceneElements"`
	PreSceneElements []element.ScriptElement `json:"preSceneElements,omitempty"`
	SceneLocation    *location.SceneLocation `json:"sceneLocation,omitempty"`
}

// HasPreScene reports whether cold-open content precedes the scene.
func (s SceneData) HasPreScene() bool { return len(s.PreSceneElements) > 0 }

// IsOverBlack reports whether the slugline is an OVER BLACK convention
// heading. Only a trailing pseudo-scene surfaces with this set; interior
// OVER BLACK content is folded into the next scene instead.
func (s SceneData) IsOverBlack() bool {
	return strings.Contains(strings.ToUpper(s.Slugline), overBlackMarker)
}

// SceneGroupData is a level-3 container: a narrative beat or directive
// between a chapter and its scenes.
type SceneGroupData struct {
	ID        string      `json:"id,omitempty"`
	Title     string      `json:"title"`
	Directive string      `json:"directive,omitempty"`
	Synthetic bool        `json:"synthetic,omitempty"`
	Scenes    []SceneData `json:"scenes"`
}

// ChapterData is a level-2 container of scene groups.
type ChapterData struct {
	ID          string           `json:"id,omitempty"`
	Title       string           `json:"title"`
	Synthetic   bool             `json:"synthetic,omitempty"`
	SceneGroups []SceneGroupData `json:"sceneGroups"`
}

// BrowserData is the fully owned nesting handed to UI and export
// collaborators. It holds no references back into the outline beyond copied
// ids and the content slices it embeds.
type BrowserData struct {
	Title    string        `json:"title,omitempty"`
	TitleID  string        `json:"titleId,omitempty"`
	Chapters []ChapterData `json:"chapters"`
}

type assembler struct {
	nodes    []outline.Node
	byID     map[string]int
	elements []element.ScriptElement

	// OVER BLACK content buffered until the next scene in the same group
	// pass claims it.
	pendingPre  []element.ScriptElement
	pendingNode *outline.Node
}

// Assemble builds the browsing structure from a finished outline and the
// element stream it was built from.
func Assemble(nodes []outline.Node, elements []element.ScriptElement) BrowserData {
	a := &assembler{nodes: nodes, byID: make(map[string]int, len(nodes)), elements: elements}
	for i := range nodes {
		a.byID[nodes[i].ID] = i
	}

	var data BrowserData
	if t := a.titleNode(); t != nil {
		data.Title = t.DisplayText
		data.TitleID = t.ID
	}

	chapters := a.chapterNodes()
	if len(chapters) == 0 {
		// No real chapters: one synthesized chapter carries every group.
		ch := ChapterData{Title: "Scenes", Synthetic: true, SceneGroups: a.groupsUnderAnyParent()}
		data.Chapters = []ChapterData{ch}
		return data
	}

	for _, cn := range chapters {
		ch := ChapterData{ID: cn.ID, Title: cn.DisplayText, Synthetic: cn.IsSynthetic}
		if ch.Title == "" && cn.IsSynthetic {
			ch.Title = "Scenes"
		}
		var loose []outline.Node
		for _, gid := range cn.ChildIDs {
			gi, ok := a.byID[gid]
			if !ok {
				continue
			}
			gn := a.nodes[gi]
			switch {
			case gn.Level == 3 && gn.Category == outline.CategorySectionHeader:
				ch.SceneGroups = append(ch.SceneGroups, a.buildGroup(gn))
			case gn.Category == outline.CategorySceneHeader:
				// Scene standing in for its own group; gathered below.
				loose = append(loose, gn)
			}
		}
		if len(loose) > 0 {
			main := SceneGroupData{Title: "Main", Synthetic: true}
			main.Scenes = a.buildScenes(a.withNestedScenes(loose))
			ch.SceneGroups = append(ch.SceneGroups, main)
		}
		data.Chapters = append(data.Chapters, ch)
	}
	return data
}

// titleNode picks the main level-1 node, preferring a real one over a
// synthesized title.
func (a *assembler) titleNode() *outline.Node {
	var fallback *outline.Node
	for i := range a.nodes {
		n := &a.nodes[i]
		if n.Level != 1 {
			continue
		}
		if !n.IsSynthetic {
			return n
		}
		if fallback == nil {
			fallback = n
		}
	}
	return fallback
}

func (a *assembler) chapterNodes() []outline.Node {
	var out []outline.Node
	for _, n := range a.nodes {
		if n.IsChapter() {
			out = append(out, n)
		}
	}
	return out
}

// groupsUnderAnyParent serves the chapterless case: every level-3 section
// header becomes a group, and level-3 scene headers (scenes standing in for
// their own group) are gathered into one synthetic "Main" group.
func (a *assembler) groupsUnderAnyParent() []SceneGroupData {
	var groups []SceneGroupData
	var loose []outline.Node
	for _, n := range a.nodes {
		if n.Level != 3 {
			continue
		}
		switch n.Category {
		case outline.CategorySectionHeader:
			groups = append(groups, a.buildGroup(n))
		case outline.CategorySceneHeader:
			loose = append(loose, n)
		}
	}
	if len(loose) > 0 || len(groups) == 0 {
		main := SceneGroupData{Title: "Main", Synthetic: true}
		main.Scenes = a.buildScenes(a.withNestedScenes(loose))
		groups = append(groups, main)
	}
	return groups
}

// withNestedScenes expands a list of scene nodes with any scenes mis-nested
// beneath them, preserving document order.
func (a *assembler) withNestedScenes(sceneNodes []outline.Node) []outline.Node {
	var out []outline.Node
	for _, n := range sceneNodes {
		out = append(out, n)
		out = append(out, a.nestedScenesOf(n.ChildIDs)...)
	}
	return out
}

func (a *assembler) buildGroup(gn outline.Node) SceneGroupData {
	g := SceneGroupData{
		ID:        gn.ID,
		Title:     gn.DisplayText,
		Directive: gn.SceneDirective,
		Synthetic: gn.IsSynthetic,
	}
	g.Scenes = a.buildScenes(a.sceneNodesOf(gn))
	return g
}

// sceneNodesOf collects the group's scene headings, pulling scenes that were
// mis-nested under a sibling scene back up into the group, recursively.
func (a *assembler) sceneNodesOf(gn outline.Node) []outline.Node {
	return a.nestedScenesOf(gn.ChildIDs)
}

func (a *assembler) nestedScenesOf(childIDs []string) []outline.Node {
	var out []outline.Node
	for _, id := range childIDs {
		i, ok := a.byID[id]
		if !ok {
			continue
		}
		n := a.nodes[i]
		if n.Category != outline.CategorySceneHeader {
			continue
		}
		out = append(out, n)
		out = append(out, a.nestedScenesOf(n.ChildIDs)...)
	}
	return out
}

// buildScenes produces the owned scene list for one group pass, folding
// OVER BLACK headings into the following scene's pre-scene content. A
// trailing OVER BLACK with nothing after it surfaces as a pseudo-scene so
// its content is not lost.
func (a *assembler) buildScenes(sceneNodes []outline.Node) []SceneData {
	a.pendingPre = nil
	a.pendingNode = nil

	var scenes []SceneData
	for i := range sceneNodes {
		n := sceneNodes[i]
		slice := a.resolveSlice(n)

		if strings.Contains(strings.ToUpper(n.RawText), overBlackMarker) {
			a.pendingPre = slice
			a.pendingNode = &sceneNodes[i]
			continue
		}

		sd := SceneData{
			ID:            n.ID,
			Slugline:      strings.TrimSpace(n.RawText),
			SceneID:       n.SceneID,
			SceneElements: slice,
		}
		if len(a.pendingPre) > 0 {
			sd.PreSceneElements = a.pendingPre
		}
		a.pendingPre = nil
		a.pendingNode = nil
		loc := location.Parse(sd.Slugline)
		sd.SceneLocation = &loc
		scenes = append(scenes, sd)
	}

	if a.pendingNode != nil {
		sd := SceneData{
			ID:            a.pendingNode.ID,
			Slugline:      strings.TrimSpace(a.pendingNode.RawText),
			SceneID:       a.pendingNode.SceneID,
			SceneElements: a.pendingPre,
		}
		loc := location.Parse(sd.Slugline)
		sd.SceneLocation = &loc
		scenes = append(scenes, sd)
		a.pendingPre = nil
		a.pendingNode = nil
	}
	return scenes
}

// resolveSlice finds the scene's content in the element stream: everything
// after its heading up to the next scene heading. Matching by scene id is
// authoritative and disambiguates duplicate sluglines; trimmed-text equality
// is the fallback for streams without stable ids.
func (a *assembler) resolveSlice(n outline.Node) []element.ScriptElement {
	if n.SceneID != "" {
		for i, el := range a.elements {
			if el.Kind == element.KindSceneHeading && el.SceneID == n.SceneID {
				return a.collectFrom(i)
			}
		}
	}
	want := strings.TrimSpace(n.RawText)
	for i, el := range a.elements {
		if el.Kind == element.KindSceneHeading && strings.TrimSpace(el.Text) == want {
			return a.collectFrom(i)
		}
	}
	return nil
}

func (a *assembler) collectFrom(headingIdx int) []element.ScriptElement {
	var out []element.ScriptElement
	for i := headingIdx + 1; i < len(a.elements); i++ {
		if a.elements[i].Kind == element.KindSceneHeading {
			break
		}
		out = append(out, a.elements[i])
	}
	return out
}
