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
	"strings"

	"github.com/spf13/cobra"

	"screenwright/internal/export"
	applog "screenwright/internal/log"
	"screenwright/internal/outline"
)

var outlineTree bool

var outlineCmd = &cobra.Command{
	Use:   "outline <screenplay>",
	Short: "Build the hierarchical outline of a screenplay",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := applog.WithOperation(applog.WithComponent("cli"), "outline")
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}
		nodes := outline.Build(doc.Elements, doc.Metadata)
		log.Info("outline built", "nodes", len(nodes))

		w, closeOut, err := openOutput()
		if err != nil {
			return err
		}
		defer func() { _ = closeOut() }()

		if outlineTree {
			tree := outline.BuildTree(nodes)
			tree.Walk(func(n *outline.TreeNode, depth int) bool {
				marker := ""
				if n.Node.IsSynthetic {
					marker = " *"
				}
				fmt.Fprintf(w, "%s%s%s\n", strings.Repeat("  ", depth), n.Node.DisplayText, marker)
				return true
			})
			return nil
		}
		return export.WriteOutline(w, nodes)
	},
}

func init() {
	outlineCmd.Flags().BoolVar(&outlineTree, "tree", false, "print an indented tree instead of JSON")
	rootCmd.AddCommand(outlineCmd)
}
