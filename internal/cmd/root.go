/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package cmd wires the screenwright CLI: reading screenplays (Fountain text
// or element-stream JSON), emitting outline/browser/location exports, and
// managing project directories with their embedded index.
package cmd

import (
	"github.com/spf13/cobra"

	"screenwright/internal/config"
	applog "screenwright/internal/log"
)

// Global flags
var (
	outputPath string
	asJSONIn   bool
)

var appCfg config.AppConfig

var rootCmd = &cobra.Command{
	Use:   "screenwright",
	Short: "Screenplay structure tools",
	Long: `screenwright reconstructs the structural hierarchy of a screenplay
(title, chapters, scene groups, scenes) from a classified element stream and
derives production views such as per-location scene groupings.

Input is either Fountain text or an element-stream JSON document produced by
an external grammar layer.

Environment Variables:
  SWR_LOG_LEVEL   debug|info|warn|error
  SWR_LOG_FORMAT  console|json
  SWR_LOG_FILE    path for rotated file logging`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			// A missing config is not fatal; defaults apply.
			cfg = config.Defaults()
		}
		appCfg = cfg
		applog.Init(applog.Options{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.Source,
			File:      cfg.Logging.File,
		})
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "write output to file instead of stdout")
	rootCmd.PersistentFlags().BoolVar(&asJSONIn, "json", false, "treat input file as element-stream JSON")
}
