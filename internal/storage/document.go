/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"goannotate/internal/shape"
)

// DocumentVersion is the current document format version.
const DocumentVersion = 1

var ErrInvalidDocument = errors.New("storage: invalid document")

// Document is the persisted form of one canvas.
type Document struct {
	Version int              `json:"version"`
	Width   float64          `json:"width"`
	Height  float64          `json:"height"`
	Shapes  []shape.Snapshot `json:"shapes"`
}

func NewDocument(width, height float64, shapes []shape.Snapshot) Document {
	if shapes == nil {
		shapes = []shape.Snapshot{}
	}
	return Document{Version: DocumentVersion, Width: width, Height: height, Shapes: shapes}
}

// language=JSON
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "goannotate document",
  "type": "object",
  "required": ["version", "width", "height", "shapes"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "width": {"type": "number", "minimum": 0},
    "height": {"type": "number", "minimum": 0},
    "shapes": {"type": "array", "items": {"$ref": "#/definitions/shape"}}
  },
  "definitions": {
    "point": {
      "type": "object",
      "required": ["x", "y"],
      "properties": {"x": {"type": "number"}, "y": {"type": "number"}}
    },
    "shape": {
      "type": "object",
      "required": ["kind", "id", "line_width", "line_style", "color"],
      "properties": {
        "kind": {"enum": ["rectangle", "ellipse", "line", "polyline", "text"]},
        "id": {"type": "string", "minLength": 1},
        "left": {"type": "number"},
        "top": {"type": "number"},
        "right": {"type": "number"},
        "bottom": {"type": "number"},
        "start": {"$ref": "#/definitions/point"},
        "end": {"$ref": "#/definitions/point"},
        "points": {"type": "array", "items": {"$ref": "#/definitions/point"}},
        "text": {"type": "string"},
        "font_family": {"type": "string"},
        "font_size": {"type": "number", "minimum": 0},
        "line_width": {"type": "number", "minimum": 0},
        "line_style": {"enum": ["solid", "dashed"]},
        "color": {"type": "string", "pattern": "^#([0-9a-fA-F]{6}|[0-9a-fA-F]{8})$"},
        "scale": {"type": "number"},
        "selected": {"type": "boolean"}
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(documentSchema)

// ValidateDocument checks raw JSON against the document schema.
func ValidateDocument(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
	}
	return nil
}

// DecodeDocument validates data and checks that every snapshot rebuilds into a shape.
func DecodeDocument(data []byte) (Document, error) {
	if err := ValidateDocument(data); err != nil {
		return Document{}, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Version > DocumentVersion {
		return Document{}, fmt.Errorf("%w: version %d is newer than %d", ErrInvalidDocument, doc.Version, DocumentVersion)
	}
	if _, err := shape.FromSnapshots(doc.Shapes); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return doc, nil
}

// EncodeDocument marshals doc in human-readable form.
func EncodeDocument(doc Document) ([]byte, error) {
	if doc.Version == 0 {
		doc.Version = DocumentVersion
	}
	if doc.Shapes == nil {
		doc.Shapes = []shape.Snapshot{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return append(data, '\n'), nil
}
