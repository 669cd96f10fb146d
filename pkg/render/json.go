package render

import (
	"context"
	"encoding/json"
	"fmt"
)

// JSONRenderer serialises the View for script clients. Field values for
// password inputs are blanked.
type JSONRenderer struct{}

var _ Renderer = JSONRenderer{}

func (JSONRenderer) Name() string {
	return "json"
}

func (JSONRenderer) ContentType() string {
	return "application/json"
}

func (JSONRenderer) Render(ctx context.Context, view View) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	redacted := view
	redacted.Fields = make([]FieldView, len(view.Fields))
	for i, field := range view.Fields {
		if field.Type == "password" {
			field.Value = ""
		}
		redacted.Fields[i] = field
	}
	payload, err := json.Marshal(redacted)
	if err != nil {
		return nil, fmt.Errorf("render: encode view: %w", err)
	}
	return payload, nil
}
