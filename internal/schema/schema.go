// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

// Package schema generates JSON Schemas from Go types and validates
// documents against them.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// CodeInvalid marks a document that does not satisfy its schema. The
// error's public message is safe to return to callers.
const CodeInvalid = "SCHEMA_INVALID"

// Meta describes a generated schema document.
type Meta struct {
	ID          string
	Title       string
	Description string
}

// Generate reflects v into an indented JSON Schema document.
func Generate(v any, meta Meta) ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}
	s := r.Reflect(v)
	if meta.ID != "" {
		s.ID = jsonschema.ID(meta.ID)
	}
	s.Title = meta.Title
	s.Description = meta.Description

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, oops.Code("SCHEMA_GENERATE_FAILED").With("type", fmt.Sprintf("%T", v)).Wrap(err)
	}
	return data, nil
}

// Messages maps "field.keyword" or "field" to the message reported when that
// field fails validation. The keyword is the last segment of the failing
// schema keyword path, for example "required", "format" or "minLength".
type Messages map[string]string

// Validator checks documents against a compiled schema.
type Validator struct {
	schema   *jschema.Schema
	messages Messages
	fallback string
}

// Compile reflects v and compiles the result. Formats such as "email" are
// asserted, not just annotated.
func Compile(v any, messages Messages) (*Validator, error) {
	data, err := Generate(v, Meta{})
	if err != nil {
		return nil, err
	}
	doc, err := jschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, oops.Code("SCHEMA_COMPILE_FAILED").With("operation", "parse generated schema").Wrap(err)
	}

	c := jschema.NewCompiler()
	c.AssertFormat()
	if err := c.AddResource("schema.json", doc); err != nil {
		return nil, oops.Code("SCHEMA_COMPILE_FAILED").With("operation", "add schema resource").Wrap(err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, oops.Code("SCHEMA_COMPILE_FAILED").With("operation", "compile schema").Wrap(err)
	}
	return &Validator{schema: compiled, messages: messages, fallback: "Invalid request body."}, nil
}

// MustCompile is Compile for package-level validators.
func MustCompile(v any, messages Messages) *Validator {
	val, err := Compile(v, messages)
	if err != nil {
		panic(err)
	}
	return val
}

// ValidateJSON decodes r and validates the result.
func (v *Validator) ValidateJSON(r io.Reader) error {
	doc, err := jschema.UnmarshalJSON(r)
	if err != nil {
		return oops.Code(CodeInvalid).Public("Request body must be valid JSON.").Wrap(err)
	}
	return v.Validate(doc)
}

// ValidateYAML parses YAML data and validates the result.
func (v *Validator) ValidateYAML(data []byte) error {
	doc, err := ParseYAML(data)
	if err != nil {
		return err
	}
	return v.Validate(doc)
}

// Validate checks an already decoded document. The first failure is
// reported through the error's public message.
func (v *Validator) Validate(doc any) error {
	err := v.schema.Validate(doc)
	if err == nil {
		return nil
	}
	var verr *jschema.ValidationError
	if !errors.As(err, &verr) {
		return oops.Code(CodeInvalid).Public(v.fallback).Wrap(err)
	}
	field, keyword := firstFailure(verr)
	return oops.Code(CodeInvalid).
		With("field", field).
		With("keyword", keyword).
		Public(v.message(field, keyword)).
		Wrap(err)
}

func (v *Validator) message(field, keyword string) string {
	if msg, ok := v.messages[field+"."+keyword]; ok {
		return msg
	}
	if msg, ok := v.messages[field]; ok {
		return msg
	}
	return v.fallback
}

// firstFailure walks to the first leaf cause. A missing property is reported
// against the property itself rather than its parent object.
func firstFailure(verr *jschema.ValidationError) (field, keyword string) {
	leaf := verr
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	if len(leaf.InstanceLocation) > 0 {
		field = leaf.InstanceLocation[len(leaf.InstanceLocation)-1]
	}
	if leaf.ErrorKind == nil {
		return field, ""
	}
	if req, ok := leaf.ErrorKind.(*kind.Required); ok && len(req.Missing) > 0 {
		return req.Missing[0], "required"
	}
	if path := leaf.ErrorKind.KeywordPath(); len(path) > 0 {
		keyword = path[len(path)-1]
	}
	return field, keyword
}

// ParseYAML decodes YAML into the JSON data model the validator expects.
func ParseYAML(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, oops.Code(CodeInvalid).Public("Document is empty.").Errorf("empty document")
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, oops.Code(CodeInvalid).Public("Document is not valid YAML.").Wrap(err)
	}
	return toJSONTypes(doc), nil
}

// toJSONTypes normalizes nested YAML values. yaml.v3 already produces
// map[string]any for string keys; anything exotic goes through a JSON round
// trip.
func toJSONTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = toJSONTypes(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = toJSONTypes(item)
		}
		return out
	case nil, string, bool, int, int64, float64:
		return val
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return val
		}
		var out any
		if err := json.Unmarshal(b, &out); err != nil {
			return val
		}
		return out
	}
}
