package openapi

import (
	_ "embed"

	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-signup/pkg/registration"
	"github.com/goliatone/go-signup/pkg/render"
)

// RegisterOperationID identifies the registration operation.
const RegisterOperationID = "registerUser"

const (
	extLabel        = "x-signup-label"
	extOrder        = "x-signup-order"
	extAutocomplete = "x-signup-autocomplete"
)

//go:embed api/registration.yaml
var embeddedDocument []byte

// ErrOperationNotFound is returned when the document lacks the registration
// operation or its JSON request body.
var ErrOperationNotFound = errors.New("openapi: registration operation not found")

// Document is a parsed and validated API description.
type Document struct {
	spec *openapi3.T
	path string
}

// Load parses the embedded document.
func Load(ctx context.Context) (*Document, error) {
	return Parse(ctx, embeddedDocument)
}

// Parse loads and validates an OpenAPI 3 document from YAML or JSON.
func Parse(ctx context.Context, data []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}

	doc := &Document{spec: spec}
	if _, err := doc.registerOperation(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Fields loads the embedded document and returns its field specs.
func Fields(ctx context.Context) ([]render.FieldSpec, error) {
	doc, err := Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Fields()
}

// JSON loads the embedded document and returns it encoded as JSON.
func JSON(ctx context.Context) ([]byte, error) {
	doc, err := Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.JSON()
}

// Path returns the URL path the registration operation is mounted on.
func (d *Document) Path() string {
	return d.path
}

// JSON encodes the document.
func (d *Document) JSON() ([]byte, error) {
	payload, err := d.spec.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("openapi: encode document: %w", err)
	}
	return payload, nil
}

// Fields returns the request body properties as render field specs, ordered
// by x-signup-order and then by name. Every property must name a known field.
func (d *Document) Fields() ([]render.FieldSpec, error) {
	op, err := d.registerOperation()
	if err != nil {
		return nil, err
	}
	schema := requestSchema(op)
	if schema == nil {
		return nil, fmt.Errorf("%w: missing application/json request schema", ErrOperationNotFound)
	}

	type ordered struct {
		spec  render.FieldSpec
		order int
	}
	items := make([]ordered, 0, len(schema.Properties))
	for name, ref := range schema.Properties {
		field, ok := registration.ParseField(name)
		if !ok {
			return nil, fmt.Errorf("openapi: unknown field %q", name)
		}
		if ref == nil || ref.Value == nil {
			return nil, fmt.Errorf("openapi: field %q has no schema", name)
		}
		prop := ref.Value
		items = append(items, ordered{
			spec: render.FieldSpec{
				Name:         field,
				Label:        stringExtension(prop.Extensions, extLabel),
				InputType:    inputType(prop.Format),
				Autocomplete: stringExtension(prop.Extensions, extAutocomplete),
			},
			order: intExtension(prop.Extensions, extOrder),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].order != items[j].order {
			return items[i].order < items[j].order
		}
		return items[i].spec.Name < items[j].spec.Name
	})

	out := make([]render.FieldSpec, len(items))
	for i, item := range items {
		out[i] = item.spec
	}
	return out, nil
}

func (d *Document) registerOperation() (*openapi3.Operation, error) {
	if d.spec.Paths != nil {
		for path, item := range d.spec.Paths.Map() {
			if item == nil || item.Post == nil {
				continue
			}
			if item.Post.OperationID == RegisterOperationID {
				d.path = path
				return item.Post, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: operationId %q", ErrOperationNotFound, RegisterOperationID)
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	mt := op.RequestBody.Value.Content.Get("application/json")
	if mt == nil || mt.Schema == nil {
		return nil
	}
	return mt.Schema.Value
}

func inputType(format string) string {
	switch format {
	case "email":
		return "email"
	case "password":
		return "password"
	default:
		return "text"
	}
}

func stringExtension(ext map[string]any, key string) string {
	value, ok := ext[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

func intExtension(ext map[string]any, key string) int {
	switch v := ext[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		n, err := v.Int64()
		if err == nil {
			return int(n)
		}
	case string:
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return 0
}
