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

	applog "screenwright/internal/log"
	"screenwright/internal/storage"
)

var initCmd = &cobra.Command{
	Use:   "init <dir> <screenplay>",
	Short: "Create a project directory from a screenplay file",
	Long: `init parses the given screenplay, writes the project manifest
(screenplay.json) plus the standard subdirectories into <dir> and builds the
embedded index.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := applog.WithOperation(applog.WithComponent("cli"), "init")
		doc, err := loadDocument(args[1])
		if err != nil {
			return err
		}
		ph, err := storage.InitProject(args[0], doc)
		if err != nil {
			return err
		}
		if err := storage.RebuildIndex(cmd.Context(), ph.Root, ph.Document); err != nil {
			return err
		}
		log.Info("project initialized", "root", ph.Root)
		fmt.Fprintf(cmd.OutOrStdout(), "initialized project at %s\n", ph.Root)
		return nil
	},
}

var indexCmd = &cobra.Command{
	Use:   "index <dir>",
	Short: "Rebuild the project index and list its scenes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := applog.WithOperation(applog.WithComponent("cli"), "index")
		ph, err := storage.Open(args[0])
		if err != nil {
			return err
		}
		if err := storage.RebuildIndex(cmd.Context(), ph.Root, ph.Document); err != nil {
			return err
		}
		scenes, err := storage.ListScenes(cmd.Context(), ph.Root)
		if err != nil {
			return err
		}
		log.Info("index rebuilt", "scenes", len(scenes))
		out := cmd.OutOrStdout()
		for _, s := range scenes {
			fmt.Fprintf(out, "%3d  %-40s %s\n", s.SceneIdx, s.LocationKey, s.Slugline)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(indexCmd)
}
