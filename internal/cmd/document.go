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
	"io"
	"os"
	"path/filepath"
	"strings"

	"screenwright/internal/fountain"
	applog "screenwright/internal/log"
)

// loadDocument reads a screenplay from path. Fountain text is parsed into an
// element stream; a .json file (or --json) is decoded as an element-stream
// document produced by an earlier run or an external classifier.
func loadDocument(path string) (fountain.Document, error) {
	log := applog.WithComponent("cli")
	if asJSONIn || strings.EqualFold(filepath.Ext(path), ".json") {
		f, err := os.Open(path)
		if err != nil {
			return fountain.Document{}, fmt.Errorf("open %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		doc, err := fountain.ReadDocument(f)
		if err != nil {
			return fountain.Document{}, err
		}
		log.Debug("loaded element-stream document", "path", path, "elements", len(doc.Elements))
		return doc, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return fountain.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	doc := fountain.ParseDocument(string(b), filepath.Base(path))
	log.Debug("parsed fountain document", "path", path, "elements", len(doc.Elements))
	return doc, nil
}

// openOutput returns the writer for command output. A relative --output path
// is resolved against the configured export directory when one is set. The
// caller must call the returned close func.
func openOutput() (io.Writer, func() error, error) {
	if outputPath == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	path := outputPath
	if dir := appCfg.General.ExportDir; dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}
