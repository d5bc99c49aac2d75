/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package render

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

//go:embed compose.schema.json
var composeSchema []byte

// Validate checks a compose request against the outbound contract schema
// before it goes on the wire. A failing request is an engine bug (the editor
// is supposed to keep geometry valid), so the error lists every violation.
func Validate(req ComposeRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal compose request: %w", err)
	}
	schemaLoader := gojsonschema.NewBytesLoader(composeSchema)
	docLoader := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var b strings.Builder
	for i, e := range result.Errors() {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(e.String())
	}
	return fmt.Errorf("compose request invalid: %s", b.String())
}
