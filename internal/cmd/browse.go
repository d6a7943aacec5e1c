/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package cmd

import (
	"github.com/spf13/cobra"

	"screenwright/internal/browser"
	"screenwright/internal/export"
	applog "screenwright/internal/log"
	"screenwright/internal/outline"
)

var browseCmd = &cobra.Command{
	Use:   "browse <screenplay>",
	Short: "Assemble the chapter/group/scene browser view",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := applog.WithOperation(applog.WithComponent("cli"), "browse")
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}
		nodes := outline.Build(doc.Elements, doc.Metadata)
		data := browser.Assemble(nodes, doc.Elements)
		log.Info("browser assembled", "chapters", len(data.Chapters))

		w, closeOut, err := openOutput()
		if err != nil {
			return err
		}
		defer func() { _ = closeOut() }()
		return export.WriteBrowser(w, data)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
