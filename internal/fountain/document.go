/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import (
	"encoding/json"
	"fmt"
	"io"

	"screenwright/internal/element"
)

// Document is the interchange form of a classified screenplay: metadata plus
// the ordered element stream. An external grammar layer (FDX, Highland) can
// hand the core a Document without going through this package's parser.
type Document struct {
	Metadata element.Metadata        `json:"metadata"`
	Elements []element.ScriptElement `json:"elements"`
}

// ParseDocument classifies Fountain text into a Document.
func ParseDocument(input, filename string) Document {
	elements, meta := Parse(input, filename)
	return Document{Metadata: meta, Elements: elements}
}

// ReadDocument decodes a JSON element-stream document.
func ReadDocument(r io.Reader) (Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode element stream: %w", err)
	}
	return doc, nil
}

// WriteDocument encodes a Document as indented JSON.
func WriteDocument(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode element stream: %w", err)
	}
	return nil
}
