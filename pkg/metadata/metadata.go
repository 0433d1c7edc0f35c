// Package metadata builds the token metadata document served as a data URI.
package metadata

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Mindburn-Labs/floot/pkg/canonicalize"
	"github.com/Mindburn-Labs/floot/pkg/generator"
)

const (
	JSONPrefix = "data:application/json;base64,"
	SVGPrefix  = "data:image/svg+xml;base64,"

	Description = "Floot is randomized adventurer gear generated after the distribution closes. " +
		"Stats, images, and other functionality are intentionally omitted for others to interpret."

	schemaURL = "https://floot.schemas.local/metadata/token.schema.json"
)

var (
	ErrInvalidURI      = errors.New("invalid metadata uri")
	ErrInvalidDocument = errors.New("metadata document invalid")
)

//go:embed token.schema.json
var schemaJSON string

var schema = mustCompile()

func mustCompile() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("metadata schema load failed: %v", err))
	}
	return c.MustCompile(schemaURL)
}

// Attribute is one trait in marketplace form.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Document is the decoded token metadata.
type Document struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
}

// Build assembles the document for a rendered bag.
func Build(bag generator.Bag, svg []byte) Document {
	attrs := make([]Attribute, 0, len(bag.Items))
	for _, it := range bag.Items {
		attrs = append(attrs, Attribute{TraitType: it.Category.Title(), Value: it.Name})
	}
	return Document{
		Name:        fmt.Sprintf("Bag #%d", bag.ID),
		Description: Description,
		Image:       SVGPrefix + base64.StdEncoding.EncodeToString(svg),
		Attributes:  attrs,
	}
}

// TokenURI canonicalises doc and wraps it in a base64 JSON data URI.
func TokenURI(doc Document) (string, error) {
	raw, err := canonicalize.JCS(doc)
	if err != nil {
		return "", fmt.Errorf("canonicalize metadata: %w", err)
	}
	if err := Validate(raw); err != nil {
		return "", err
	}
	return JSONPrefix + base64.StdEncoding.EncodeToString(raw), nil
}

// Decode reverses TokenURI and validates the embedded document.
func Decode(uri string) (Document, error) {
	payload, ok := strings.CutPrefix(uri, JSONPrefix)
	if !ok {
		return Document{}, fmt.Errorf("%w: missing %q prefix", ErrInvalidURI, JSONPrefix)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}
	if err := Validate(raw); err != nil {
		return Document{}, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return doc, nil
}

// SVG returns the decoded image of d.
func (d Document) SVG() ([]byte, error) {
	payload, ok := strings.CutPrefix(d.Image, SVGPrefix)
	if !ok {
		return nil, fmt.Errorf("%w: image is not an svg data uri", ErrInvalidDocument)
	}
	return base64.StdEncoding.DecodeString(payload)
}

// Validate checks raw JSON against the token metadata schema.
func Validate(raw []byte) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}
