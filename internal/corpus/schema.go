package corpus

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const chunkFileSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "content":  {"type": ["string", "null"]},
      "title":    {"type": ["string", "null"]},
      "source":   {"type": ["string", "null"]},
      "category": {"type": ["string", "null"]},
      "type":     {"type": ["string", "null"]},
      "book":     {"type": ["string", "null"]}
    }
  }
}`

var chunkSchema = mustSchema(chunkFileSchema)

func mustSchema(raw string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("compile chunk schema: %v", err))
	}
	return schema
}

func validateChunkFile(data []byte) error {
	result, err := chunkSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate chunk file: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, item := range result.Errors() {
		msgs = append(msgs, item.String())
		if len(msgs) >= 3 {
			break
		}
	}
	return fmt.Errorf("chunk file schema mismatch: %s", strings.Join(msgs, "; "))
}
