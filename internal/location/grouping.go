/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package location

import (
	"sort"

	"screenwright/internal/element"
)

// SceneRef ties one scene heading to its parsed location and position in the
// element stream.
type SceneRef struct {
	SceneIndex   int           `json:"sceneIndex"`
	Location     SceneLocation `json:"location"`
	SceneHeading string        `json:"sceneHeading"`
	SceneNumber  string        `json:"sceneNumber,omitempty"`
}

// Group collects every scene that shares one canonical location key.
// RepresentativeLocation is the first scene's parsed location.
type Group struct {
	LocationKey            string        `json:"locationKey"`
	RepresentativeLocation SceneLocation `json:"representativeLocation"`
	Scenes                 []SceneRef    `json:"scenes"`
}

// SceneCount reports how many scenes play at this location.
func (g *Group) SceneCount() int { return len(g.Scenes) }

// LightingTypes reports the distinct lighting facets seen across the group.
func (g *Group) LightingTypes() map[Lighting]bool {
	out := make(map[Lighting]bool)
	for _, s := range g.Scenes {
		out[s.Location.Lighting] = true
	}
	return out
}

// TimesOfDay reports the distinct time-of-day facets seen across the group.
func (g *Group) TimesOfDay() map[string]bool {
	out := make(map[string]bool)
	for _, s := range g.Scenes {
		if s.Location.TimeOfDay != "" {
			out[s.Location.TimeOfDay] = true
		}
	}
	return out
}

// HasMultipleLightingTypes reports whether the set mixes INT and EXT variants.
func (g *Group) HasMultipleLightingTypes() bool { return len(g.LightingTypes()) > 1 }

// firstSceneIndex is the stream index of the group's earliest scene.
func (g *Group) firstSceneIndex() int {
	if len(g.Scenes) == 0 {
		return 0
	}
	return g.Scenes[0].SceneIndex
}

// GroupByLocation buckets every scene heading in the stream by canonical
// location key, in document order. It works on the element stream directly
// and does not require the outline builder.
func GroupByLocation(elements []element.ScriptElement) map[string]*Group {
	groups := make(map[string]*Group)
	sceneIdx := 0
	for _, el := range elements {
		if el.Kind != element.KindSceneHeading {
			continue
		}
		loc := Parse(el.Text)
		g, ok := groups[loc.LocationKey]
		if !ok {
			g = &Group{LocationKey: loc.LocationKey, RepresentativeLocation: loc}
			groups[loc.LocationKey] = g
		}
		g.Scenes = append(g.Scenes, SceneRef{
			SceneIndex:   sceneIdx,
			Location:     loc,
			SceneHeading: el.Text,
			SceneNumber:  el.SceneNumber,
		})
		sceneIdx++
	}
	return groups
}

// ByFrequency orders groups by descending scene count. Ties fall back to
// first appearance so the order stays deterministic.
func ByFrequency(groups map[string]*Group) []*Group {
	out := collect(groups)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SceneCount() != out[j].SceneCount() {
			return out[i].SceneCount() > out[j].SceneCount()
		}
		return out[i].firstSceneIndex() < out[j].firstSceneIndex()
	})
	return out
}

// ByFirstAppearance orders groups by the stream position of their first scene.
func ByFirstAppearance(groups map[string]*Group) []*Group {
	out := collect(groups)
	sort.Slice(out, func(i, j int) bool {
		return out[i].firstSceneIndex() < out[j].firstSceneIndex()
	})
	return out
}

func collect(groups map[string]*Group) []*Group {
	out := make([]*Group, 0, len(groups))
	for _, g := range groups {
		out = append(out, g)
	}
	return out
}
