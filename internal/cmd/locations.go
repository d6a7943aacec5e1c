/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"screenwright/internal/export"
	"screenwright/internal/location"
	applog "screenwright/internal/log"
)

var (
	locationsOrder string
	locationsPDF   string
)

var locationsCmd = &cobra.Command{
	Use:   "locations <screenplay>",
	Short: "Group scenes by shooting location",
	Long: `locations parses every scene heading, normalizes the location into a
lighting-independent key and groups scenes that share a physical place. The
default JSON report orders groups by scene count; --order appearance orders
them by first use. --pdf additionally writes a printable breakdown report.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := applog.WithOperation(applog.WithComponent("cli"), "locations")
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}
		groups := location.GroupByLocation(doc.Elements)
		log.Info("locations grouped", "groups", len(groups))

		if locationsPDF != "" {
			opt := export.PDFReportOptions{
				Title:            doc.Metadata.Title(),
				ByFirstAppear:    locationsOrder == "appearance",
				IncludeSluglines: true,
			}
			if err := export.WriteLocationReportPDF(groups, locationsPDF, opt); err != nil {
				return err
			}
			log.Info("pdf report written", "path", locationsPDF)
		}

		w, closeOut, err := openOutput()
		if err != nil {
			return err
		}
		defer func() { _ = closeOut() }()
		switch locationsOrder {
		case "frequency":
			return export.WriteLocationsByFrequency(w, groups)
		case "appearance":
			return export.WriteLocationsByAppearance(w, groups)
		default:
			return fmt.Errorf("unknown order %q (want frequency or appearance)", locationsOrder)
		}
	},
}

func init() {
	locationsCmd.Flags().StringVar(&locationsOrder, "order", "frequency", "group order: frequency or appearance")
	locationsCmd.Flags().StringVar(&locationsPDF, "pdf", "", "also write a PDF breakdown report to this path")
	rootCmd.AddCommand(locationsCmd)
}
