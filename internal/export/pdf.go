/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"screenwright/internal/location"
)

// PDFReportOptions controls the location breakdown report.
// Built-in Helvetica keeps text vector without font embedding.
type PDFReportOptions struct {
	Title            string
	ByFirstAppear    bool // default is frequency order
	IncludeSluglines bool
}

// WriteLocationReportPDF renders a per-location production breakdown to a
// multi-page PDF at outPath: one block per physical location with its scene
// count, lighting and time-of-day variants, and optionally every slugline.
func WriteLocationReportPDF(groups map[string]*location.Group, outPath string, opt PDFReportOptions) error {
	ordered := location.ByFrequency(groups)
	if opt.ByFirstAppear {
		ordered = location.ByFirstAppearance(groups)
	}

	title := opt.Title
	if strings.TrimSpace(title) == "" {
		title = "Location Breakdown"
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetTitle(title, false)
	pdf.SetAuthor("Screenwright", false)
	pdf.SetMargins(54, 54, 54)
	pdf.SetAutoPageBreak(true, 54)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 24, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 14, fmt.Sprintf("%d locations", len(ordered)), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	for _, g := range ordered {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 18, g.LocationKey, "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		summary := fmt.Sprintf("Scenes: %d    Lighting: %s    Times: %s",
			g.SceneCount(), joinLighting(g.LightingTypes()), joinTimes(g.TimesOfDay()))
		pdf.CellFormat(0, 14, summary, "", 1, "L", false, 0, "")

		if opt.IncludeSluglines {
			pdf.SetFont("Helvetica", "", 9)
			for _, s := range g.Scenes {
				line := fmt.Sprintf("  %d. %s", s.SceneIndex+1, s.SceneHeading)
				if s.SceneNumber != "" {
					line += fmt.Sprintf("  (#%s)", s.SceneNumber)
				}
				pdf.CellFormat(0, 12, line, "", 1, "L", false, 0, "")
			}
		}
		pdf.Ln(6)
	}

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write location report pdf: %w", err)
	}
	return nil
}

func joinLighting(set map[location.Lighting]bool) string {
	var names []string
	for l := range set {
		names = append(names, l.String())
	}
	sort.Strings(names)
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

func joinTimes(set map[string]bool) string {
	var names []string
	for t := range set {
		names = append(names, t)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
