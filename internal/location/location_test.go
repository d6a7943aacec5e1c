/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package location

import "testing"

func TestParseStandardSlugline(t *testing.T) {
	loc := Parse("INT. COFFEE SHOP - DAY")
	if loc.Lighting != LightingInterior {
		t.Fatalf("lighting = %v, want interior", loc.Lighting)
	}
	if loc.Scene != "COFFEE SHOP" {
		t.Fatalf("scene = %q", loc.Scene)
	}
	if loc.TimeOfDay != "DAY" {
		t.Fatalf("timeOfDay = %q", loc.TimeOfDay)
	}
	if loc.Setup != "" {
		t.Fatalf("setup = %q, want empty", loc.Setup)
	}
	if loc.OriginalText != "INT. COFFEE SHOP - DAY" {
		t.Fatalf("originalText = %q", loc.OriginalText)
	}
}

func TestParseSetupSegment(t *testing.T) {
	loc := Parse("INT. HOUSE - KITCHEN - NIGHT")
	if loc.Scene != "HOUSE" || loc.Setup != "KITCHEN" || loc.TimeOfDay != "NIGHT" {
		t.Fatalf("got scene=%q setup=%q time=%q", loc.Scene, loc.Setup, loc.TimeOfDay)
	}
	if loc.FullLocation != "HOUSE - KITCHEN" {
		t.Fatalf("fullLocation = %q", loc.FullLocation)
	}
}

func TestParseLightingVariants(t *testing.T) {
	cases := []struct {
		in   string
		want Lighting
	}{
		{"INT. ROOM - DAY", LightingInterior},
		{"INT ROOM - DAY", LightingInterior},
		{"EXT. FIELD - DAWN", LightingExterior},
		{"EXT FIELD - DAWN", LightingExterior},
		{"INT/EXT. CAR - DAY", LightingInteriorExterior},
		{"INT./EXT. CAR - DAY", LightingInteriorExteriorAlt},
		{"I/E CAR - DAY", LightingInteriorExteriorShort},
		{"OVER BLACK", LightingUnknown},
		{"", LightingUnknown},
	}
	for _, tc := range cases {
		if got := Parse(tc.in).Lighting; got != tc.want {
			t.Fatalf("Parse(%q).Lighting = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseTrailingModifiers(t *testing.T) {
	loc := Parse("EXT. BEACH - DAY (FLASHBACK)")
	if loc.TimeOfDay != "DAY" {
		t.Fatalf("timeOfDay = %q", loc.TimeOfDay)
	}
	if len(loc.Modifiers) != 1 || loc.Modifiers[0] != "FLASHBACK" {
		t.Fatalf("modifiers = %v", loc.Modifiers)
	}
	loc = Parse("INT. LAB - NIGHT [DREAM] (YEAR 2041)")
	if len(loc.Modifiers) != 2 || loc.Modifiers[0] != "DREAM" || loc.Modifiers[1] != "YEAR 2041" {
		t.Fatalf("modifiers = %v", loc.Modifiers)
	}
}

func TestParseContinuityTagAfterTime(t *testing.T) {
	loc := Parse("INT. OFFICE - DAY - CONTINUOUS")
	if loc.TimeOfDay != "DAY" {
		t.Fatalf("timeOfDay = %q", loc.TimeOfDay)
	}
	if len(loc.Modifiers) != 1 || loc.Modifiers[0] != "CONTINUOUS" {
		t.Fatalf("modifiers = %v", loc.Modifiers)
	}
}

func TestParseIsTotal(t *testing.T) {
	// Never empty Scene while any text remains, never a panic.
	for _, in := range []string{"OVER BLACK", "LATER", "- - -", "???", "int garage"} {
		loc := Parse(in)
		if in != "- - -" && loc.Scene == "" && loc.OriginalText != "" && loc.Lighting == LightingUnknown {
			t.Fatalf("Parse(%q) lost all place text: %+v", in, loc)
		}
	}
}

func TestLocationKeyEquivalence(t *testing.T) {
	a := Parse("INT. COFFEE SHOP - DAY").LocationKey
	b := Parse("EXT. COFFEE SHOP - NIGHT").LocationKey
	c := Parse("INT. Coffee Shop - DAY").LocationKey
	if a != b || b != c {
		t.Fatalf("keys differ: %q %q %q", a, b, c)
	}
}

func TestNormalizeKey(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Mel's Diner", "MELS DINER"},
		{"Mel’s Diner", "MELS DINER"},
		{"ST. MARY'S  CHURCH", "ST MARYS CHURCH"},
		{"  Warehouse #3  ", "WAREHOUSE 3"},
	}
	for _, tc := range cases {
		if got := NormalizeKey(tc.in); got != tc.want {
			t.Fatalf("NormalizeKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseDoubleHyphenSeparators(t *testing.T) {
	loc := Parse("INT. SHIP--BRIDGE--NIGHT")
	if loc.Scene != "SHIP" || loc.Setup != "BRIDGE" || loc.TimeOfDay != "NIGHT" {
		t.Fatalf("got scene=%q setup=%q time=%q", loc.Scene, loc.Setup, loc.TimeOfDay)
	}
}
