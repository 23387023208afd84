package exprfmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// documentSchema describes the JSON form of a Document. Operator tables
// and literal ranges are checked when the tree is rebuilt.
const documentSchema = `{
  "type": "object",
  "required": ["format", "version", "root"],
  "additionalProperties": false,
  "properties": {
    "format": {"const": "opal-expr-ast"},
    "version": {"type": "string", "pattern": "^v[0-9]+\\.[0-9]+\\.[0-9]+$"},
    "root": {"$ref": "#/$defs/node"}
  },
  "$defs": {
    "node": {
      "type": "object",
      "required": ["type"],
      "additionalProperties": false,
      "properties": {
        "type": {"enum": ["literal", "variable", "unary", "binary", "group", "object",
                          "assign", "member", "indexer", "call", "ternary", "lambda"]},
        "op": {"type": "string", "minLength": 1, "maxLength": 2},
        "name": {"type": "string", "minLength": 1},
        "value": {"$ref": "#/$defs/value"},
        "operand": {"$ref": "#/$defs/node"},
        "left": {"$ref": "#/$defs/node"},
        "right": {"$ref": "#/$defs/node"},
        "target": {"$ref": "#/$defs/node"},
        "key": {"$ref": "#/$defs/node"},
        "arguments": {"type": "array", "items": {"$ref": "#/$defs/node"}},
        "condition": {"$ref": "#/$defs/node"},
        "when_true": {"$ref": "#/$defs/node"},
        "when_false": {"$ref": "#/$defs/node"},
        "elements": {"type": "array", "items": {"$ref": "#/$defs/node"}},
        "members": {"type": "array", "items": {"$ref": "#/$defs/node"}},
        "params": {"type": "array", "items": {"type": "string", "minLength": 1}},
        "body": {"$ref": "#/$defs/node"}
      },
      "allOf": [
        {"if": {"properties": {"type": {"const": "literal"}}}, "then": {"required": ["value"]}},
        {"if": {"properties": {"type": {"const": "variable"}}}, "then": {"required": ["name"]}},
        {"if": {"properties": {"type": {"const": "unary"}}}, "then": {"required": ["op", "operand"]}},
        {"if": {"properties": {"type": {"const": "binary"}}}, "then": {"required": ["op", "left", "right"]}},
        {"if": {"properties": {"type": {"const": "assign"}}}, "then": {"required": ["name", "operand"]}},
        {"if": {"properties": {"type": {"const": "member"}}}, "then": {"required": ["target", "name"]}},
        {"if": {"properties": {"type": {"const": "indexer"}}}, "then": {"required": ["target", "key"]}},
        {"if": {"properties": {"type": {"const": "call"}}}, "then": {"required": ["target"]}},
        {"if": {"properties": {"type": {"const": "ternary"}}}, "then": {"required": ["condition", "when_true", "when_false"]}},
        {"if": {"properties": {"type": {"const": "lambda"}}}, "then": {"required": ["body"]}}
      ]
    },
    "value": {
      "type": "object",
      "required": ["kind"],
      "additionalProperties": false,
      "properties": {
        "kind": {"enum": ["null", "bool", "int", "float", "string"]},
        "bool": {"type": "boolean"},
        "int": {"type": "integer"},
        "float": {"type": "number"},
        "str": {"type": "string"}
      }
    }
  }
}`

const schemaURL = "schema://exprfmt/document.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, strings.NewReader(documentSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaURL)
})

// validateJSON checks raw JSON against the document schema.
func validateJSON(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("document schema compilation failed: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return nil
}
