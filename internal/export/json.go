/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export serializes the core's in-memory structures (outline node
// list, browser data, location groupings) into pretty-printed, key-sorted
// JSON documents and a PDF production report. It holds no logic of its own;
// the structures are emitted as built.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"screenwright/internal/browser"
	"screenwright/internal/location"
	"screenwright/internal/outline"
)

// OutlineDocument is the persisted outline form. Synthetic nodes are
// omitted: they are filler and must be re-derivable by re-running the
// builder, so links into them are stripped as well.
type OutlineDocument struct {
	Nodes []outline.Node `json:"nodes"`
}

// StripSynthetic returns the persistable subset of an outline: synthetic
// nodes removed and any parent/child link that referenced one cleared.
func StripSynthetic(nodes []outline.Node) []outline.Node {
	synthetic := make(map[string]bool)
	for _, n := range nodes {
		if n.IsSynthetic {
			synthetic[n.ID] = true
		}
	}
	out := make([]outline.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.IsSynthetic {
			continue
		}
		if synthetic[n.ParentID] {
			n.ParentID = ""
		}
		var kept []string
		for _, id := range n.ChildIDs {
			if !synthetic[id] {
				kept = append(kept, id)
			}
		}
		n.ChildIDs = kept
		out = append(out, n)
	}
	return out
}

// WriteOutline emits the outline as a pretty-printed, key-sorted JSON
// document with synthetic nodes omitted.
func WriteOutline(w io.Writer, nodes []outline.Node) error {
	return writeSorted(w, OutlineDocument{Nodes: StripSynthetic(nodes)})
}

// WriteBrowser emits the assembled browsing structure.
func WriteBrowser(w io.Writer, data browser.BrowserData) error {
	return writeSorted(w, data)
}

// LocationReport is the serialized location breakdown, ordered either by
// frequency or by first appearance.
type LocationReport struct {
	Order  string            `json:"order"`
	Groups []*location.Group `json:"groups"`
}

// WriteLocationsByFrequency emits the location breakdown ordered by
// descending scene count.
func WriteLocationsByFrequency(w io.Writer, groups map[string]*location.Group) error {
	return writeSorted(w, LocationReport{Order: "frequency", Groups: location.ByFrequency(groups)})
}

// WriteLocationsByAppearance emits the location breakdown in first-appearance
// order.
func WriteLocationsByAppearance(w io.Writer, groups map[string]*location.Group) error {
	return writeSorted(w, LocationReport{Order: "firstAppearance", Groups: location.ByFirstAppearance(groups)})
}

// writeSorted round-trips the value through a generic map so that object
// keys come out sorted regardless of struct field order.
func writeSorted(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	pretty, err := json.MarshalIndent(generic, "", "  ")
	if err != nil {
		return fmt.Errorf("indent: %w", err)
	}
	pretty = append(pretty, '\n')
	if _, err := w.Write(pretty); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
