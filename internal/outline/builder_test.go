/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package outline

import (
	"testing"

	"screenwright/internal/element"
)

func sec(depth int, text string) element.ScriptElement {
	return element.ScriptElement{Kind: element.KindSectionHeading, SectionDepth: depth, Text: text}
}

func scn(text, id string) element.ScriptElement {
	return element.ScriptElement{Kind: element.KindSceneHeading, Text: text, SceneID: id}
}

func act(text string) element.ScriptElement {
	return element.ScriptElement{Kind: element.KindAction, Text: text}
}

// byID builds the id lookup used by the consistency checks.
func byID(nodes []Node) map[string]Node {
	m := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		m[n.ID] = n
	}
	return m
}

func findByText(t *testing.T, nodes []Node, text string) Node {
	t.Helper()
	for _, n := range nodes {
		if n.DisplayText == text {
			return n
		}
	}
	t.Fatalf("no node with text %q", text)
	return Node{}
}

// checkHierarchy asserts level monotonicity and parent/child link consistency
// for every non-sentinel node.
func checkHierarchy(t *testing.T, nodes []Node) {
	t.Helper()
	m := byID(nodes)
	for _, n := range nodes {
		if n.Level == sentinelLevel {
			continue
		}
		if n.ParentID != "" {
			p, ok := m[n.ParentID]
			if !ok {
				t.Fatalf("node %s has unknown parent %s", n.ID, n.ParentID)
			}
			if n.Level <= p.Level {
				t.Fatalf("node %s level %d not below parent %s level %d", n.ID, n.Level, p.ID, p.Level)
			}
			found := false
			for _, cid := range p.ChildIDs {
				if cid == n.ID {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("parent %s does not list child %s", p.ID, n.ID)
			}
		}
		for _, cid := range n.ChildIDs {
			c, ok := m[cid]
			if !ok {
				t.Fatalf("node %s lists unknown child %s", n.ID, cid)
			}
			if c.ParentID != n.ID {
				t.Fatalf("child %s does not point back at %s", cid, n.ID)
			}
		}
	}
}

func TestBuildFullHierarchy(t *testing.T) {
	elements := []element.ScriptElement{
		sec(1, "# My Screenplay"),
		sec(2, "CHAPTER 1"),
		sec(3, "PROLOGUE"),
		scn("INT. ROOM - DAY", "scene-1"),
		act("A beat."),
		scn("EXT. STREET - NIGHT", "scene-2"),
	}
	nodes := Build(elements, element.Metadata{})
	checkHierarchy(t, nodes)

	title := findByText(t, nodes, "# My Screenplay")
	if title.Level != 1 || title.IsSynthetic {
		t.Fatalf("title node wrong: %+v", title)
	}
	chapter := findByText(t, nodes, "CHAPTER 1")
	if chapter.Level != 2 || chapter.ParentID != title.ID {
		t.Fatalf("chapter node wrong: %+v", chapter)
	}
	group := findByText(t, nodes, "PROLOGUE")
	if group.Level != 3 || group.ParentID != chapter.ID {
		t.Fatalf("group node wrong: %+v", group)
	}
	s1 := findByText(t, nodes, "INT. ROOM - DAY")
	s2 := findByText(t, nodes, "EXT. STREET - NIGHT")
	if s1.Level != 4 || s1.ParentID != group.ID || s1.Category != CategorySceneHeader {
		t.Fatalf("scene 1 wrong: %+v", s1)
	}
	if s2.Level != 4 || s2.ParentID != group.ID {
		t.Fatalf("scene 2 wrong: %+v", s2)
	}
	if s1.SceneID != "scene-1" || s2.SceneID != "scene-2" {
		t.Fatalf("scene ids not carried: %q %q", s1.SceneID, s2.SceneID)
	}

	last := nodes[len(nodes)-1]
	if last.Level != sentinelLevel || !last.IsSynthetic || last.Category != CategoryBlank {
		t.Fatalf("trailing sentinel missing, got %+v", last)
	}
}

func TestBuildSynthesizesTitle(t *testing.T) {
	elements := []element.ScriptElement{
		scn("INT. KITCHEN - DAY", "scene-1"),
	}
	meta := element.Metadata{TitlePage: map[string]string{"Title": "Breakfast"}}
	nodes := Build(elements, meta)
	checkHierarchy(t, nodes)

	if len(nodes) == 0 {
		t.Fatalf("no nodes built")
	}
	title := nodes[0]
	if title.Level != 1 || !title.IsSynthetic || title.DisplayText != "Breakfast" {
		t.Fatalf("expected synthetic title from metadata, got %+v", title)
	}
}

func TestBuildSyntheticTitleFallsBackToFilename(t *testing.T) {
	nodes := Build([]element.ScriptElement{scn("INT. A - DAY", "scene-1")},
		element.Metadata{Filename: "draft3.fountain"})
	if nodes[0].DisplayText != "draft3" {
		t.Fatalf("title = %q, want draft3", nodes[0].DisplayText)
	}

	nodes = Build([]element.ScriptElement{scn("INT. A - DAY", "scene-1")}, element.Metadata{})
	if nodes[0].DisplayText != "Untitled Script" {
		t.Fatalf("title = %q, want Untitled Script", nodes[0].DisplayText)
	}
}

func TestGapRepairSharesOneSyntheticGroup(t *testing.T) {
	elements := []element.ScriptElement{
		sec(2, "Chapter 1"),
		scn("INT. X - DAY", "scene-1"),
	}
	nodes := Build(elements, element.Metadata{})
	checkHierarchy(t, nodes)

	count := 0
	var filler Node
	for _, n := range nodes {
		if n.IsSynthetic && n.Level == 3 {
			count++
			filler = n
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one synthetic level-3 node, got %d", count)
	}
	s1 := findByText(t, nodes, "INT. X - DAY")
	if s1.Level != 4 || s1.ParentID != filler.ID {
		t.Fatalf("scene not under synthetic filler: %+v", s1)
	}

	// A second scene sharing the gap reuses the same filler.
	elements = append(elements, scn("INT. Y - DAY", "scene-2"))
	nodes = Build(elements, element.Metadata{})
	checkHierarchy(t, nodes)
	count = 0
	for _, n := range nodes {
		if n.IsSynthetic && n.Level == 3 {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("second scene grew a second filler, got %d", count)
	}
	s1 = findByText(t, nodes, "INT. X - DAY")
	s2 := findByText(t, nodes, "INT. Y - DAY")
	if s1.ParentID != s2.ParentID {
		t.Fatalf("scenes do not share the synthetic group: %s vs %s", s1.ParentID, s2.ParentID)
	}
}

func TestSceneUnderTitleOnlyPromotedToGroupLevel(t *testing.T) {
	elements := []element.ScriptElement{
		sec(1, "# Title"),
		scn("INT. LOBBY - DAY", "scene-1"),
	}
	nodes := Build(elements, element.Metadata{})
	checkHierarchy(t, nodes)
	s := findByText(t, nodes, "INT. LOBBY - DAY")
	if s.Level != 3 {
		t.Fatalf("scene under bare title should sit at level 3, got %d", s.Level)
	}
}

func TestEndMarkerClosesScopeWithoutOpeningOne(t *testing.T) {
	elements := []element.ScriptElement{
		sec(1, "# Title"),
		sec(2, "CHAPTER 1"),
		sec(3, "OPENING"),
		scn("INT. BAR - NIGHT", "scene-1"),
		sec(2, "END CHAPTER 1"),
		scn("EXT. ALLEY - NIGHT", "scene-2"),
	}
	nodes := Build(elements, element.Metadata{})
	checkHierarchy(t, nodes)

	end := findByText(t, nodes, "END CHAPTER 1")
	if !end.IsEndMarker {
		t.Fatalf("END CHAPTER 1 not flagged as end marker")
	}
	if end.IsChapter() {
		t.Fatalf("end marker must not count as a chapter")
	}
	if len(end.ChildIDs) != 0 {
		t.Fatalf("end marker must not adopt children, got %v", end.ChildIDs)
	}
	// The scene after the marker must not land inside the closed chapter.
	s2 := findByText(t, nodes, "EXT. ALLEY - NIGHT")
	ch := findByText(t, nodes, "CHAPTER 1")
	m := byID(nodes)
	for p := s2; p.ParentID != ""; p = m[p.ParentID] {
		if p.ParentID == ch.ID {
			t.Fatalf("scene after END still nested under closed chapter")
		}
	}
}

func TestCameraDirectiveAtChapterLevelFlagged(t *testing.T) {
	elements := []element.ScriptElement{
		sec(1, "# Title"),
		sec(2, "SHOT: Close-up"),
		sec(2, "CHAPTER 2"),
	}
	nodes := Build(elements, element.Metadata{})
	checkHierarchy(t, nodes)

	shot := findByText(t, nodes, "SHOT: Close-up")
	if !shot.HasHierarchyError {
		t.Fatalf("camera directive not flagged as hierarchy error")
	}
	if shot.IsChapter() {
		t.Fatalf("camera directive must not count as a chapter")
	}
	ch := findByText(t, nodes, "CHAPTER 2")
	if !ch.IsChapter() || ch.HasHierarchyError {
		t.Fatalf("real chapter misclassified: %+v", ch)
	}
}

func TestDirectiveExtractionOnGroupHeaders(t *testing.T) {
	elements := []element.ScriptElement{
		sec(1, "# Title"),
		sec(2, "CHAPTER 1"),
		sec(3, "ESTABLISHING S#12 - DRONE"),
		sec(3, "FLASHBACK: The wedding"),
	}
	nodes := Build(elements, element.Metadata{})

	est := findByText(t, nodes, "ESTABLISHING S#12 - DRONE")
	if est.SceneDirective != "ESTABLISHING" || est.SceneDirectiveDescription != "S#12 - DRONE" {
		t.Fatalf("marker split wrong: %q / %q", est.SceneDirective, est.SceneDirectiveDescription)
	}
	fb := findByText(t, nodes, "FLASHBACK: The wedding")
	if fb.SceneDirective != "FLASHBACK" || fb.SceneDirectiveDescription != "" {
		t.Fatalf("colon split wrong: %q / %q", fb.SceneDirective, fb.SceneDirectiveDescription)
	}
}

func TestNoteCommentsBecomeLeafNodes(t *testing.T) {
	elements := []element.ScriptElement{
		sec(1, "# Title"),
		sec(2, "CHAPTER 1"),
		sec(3, "OPENING"),
		scn("INT. BAR - NIGHT", "scene-1"),
		{Kind: element.KindComment, Text: "NOTE: check continuity with scene 4"},
		{Kind: element.KindComment, Text: "just a remark"},
	}
	nodes := Build(elements, element.Metadata{})
	checkHierarchy(t, nodes)

	note := findByText(t, nodes, "check continuity with scene 4")
	if note.Level != noteLevel || note.Category != CategoryNote {
		t.Fatalf("note node wrong: %+v", note)
	}
	s := findByText(t, nodes, "INT. BAR - NIGHT")
	if note.ParentID != s.ID {
		t.Fatalf("note not attached to enclosing scene")
	}
	for _, n := range nodes {
		if n.DisplayText == "just a remark" {
			t.Fatalf("plain comment leaked into the outline")
		}
	}
}

func TestCharOffsetsCountExcludedElements(t *testing.T) {
	elements := []element.ScriptElement{
		sec(1, "# Title"), // 7 chars + 1
		act("Some action text."),
		scn("INT. HALL - DAY", "scene-1"),
	}
	nodes := Build(elements, element.Metadata{})

	title := findByText(t, nodes, "# Title")
	if title.CharStart != 0 || title.CharLen != len("# Title")+1 {
		t.Fatalf("title offsets wrong: %d/%d", title.CharStart, title.CharLen)
	}
	s := findByText(t, nodes, "INT. HALL - DAY")
	wantStart := len("# Title") + 1 + len("Some action text.") + 1
	if s.CharStart != wantStart {
		t.Fatalf("scene CharStart = %d, want %d", s.CharStart, wantStart)
	}
}

func TestMultipleLevelOneHeadersStayIndependentRoots(t *testing.T) {
	elements := []element.ScriptElement{
		sec(1, "# Part One"),
		sec(2, "CHAPTER 1"),
		sec(1, "# Part Two"),
		sec(2, "CHAPTER 2"),
	}
	nodes := Build(elements, element.Metadata{})
	checkHierarchy(t, nodes)

	p1 := findByText(t, nodes, "# Part One")
	p2 := findByText(t, nodes, "# Part Two")
	if p1.Level != 1 || p2.Level != 1 {
		t.Fatalf("level-1 headers demoted: %d %d", p1.Level, p2.Level)
	}
	if p1.ParentID != "" || p2.ParentID != "" {
		t.Fatalf("level-1 headers must both be roots")
	}
	c2 := findByText(t, nodes, "CHAPTER 2")
	if c2.ParentID != p2.ID {
		t.Fatalf("chapter after second root attached to %s", c2.ParentID)
	}
}

func TestSyntheticIdempotence(t *testing.T) {
	elements := []element.ScriptElement{
		sec(2, "Chapter 1"),
		scn("INT. X - DAY", "scene-1"),
		scn("INT. Y - DAY", "scene-2"),
		sec(2, "Chapter 2"),
		scn("EXT. Z - NIGHT", "scene-3"),
	}
	a := Build(elements, element.Metadata{})
	b := Build(elements, element.Metadata{})

	if len(a) != len(b) {
		t.Fatalf("rebuild changed node count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].IsSynthetic != b[i].IsSynthetic || a[i].Level != b[i].Level ||
			a[i].RawText != b[i].RawText || a[i].Category != b[i].Category {
			t.Fatalf("rebuild diverged at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestEmptyStreamYieldsNoSentinel(t *testing.T) {
	nodes := Build(nil, element.Metadata{})
	for _, n := range nodes {
		if n.Level == sentinelLevel {
			t.Fatalf("sentinel emitted for empty stream")
		}
	}
}
