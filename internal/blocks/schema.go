package blocks

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// pageSchema is the contract for one page_*.json file. The layout stage
// is a separate process; validating here turns silent shape drift into
// a loud load error.
const pageSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "page_index": {"type": "integer", "minimum": 0},
    "parsing_res_list": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "block_content": {"type": "string"},
          "block_label": {"type": "string"},
          "inside_box": {"type": "boolean"},
          "box_id": {"type": ["integer", "null"]}
        },
        "required": ["block_content"]
      }
    }
  },
  "required": ["page_index", "parsing_res_list"]
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func compiled() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("page.json", strings.NewReader(pageSchema)); err != nil {
			compileErr = fmt.Errorf("failed to load page schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("page.json")
	})
	return compiledSchema, compileErr
}

// validatePage checks raw page JSON against the block contract.
func validatePage(data []byte) error {
	schema, err := compiled()
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid page JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("page blocks do not match schema: %w", err)
	}
	return nil
}
