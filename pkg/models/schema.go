package models

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/qri-io/jsonschema"
)

// schemaValidator wraps a compiled JSON schema.
type schemaValidator struct {
	rs *jsonschema.Schema
}

func newSchemaValidator(raw string) (*schemaValidator, error) {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(raw), rs); err != nil {
		return nil, fmt.Errorf("invalid schema json: %w", err)
	}

	return &schemaValidator{rs: rs}, nil
}

// validate runs the schema against data and folds key errors into a single
// message suitable for surfacing to the user.
func (v *schemaValidator) validate(ctx context.Context, data []byte) error {
	keyErrs, err := v.rs.ValidateBytes(ctx, data)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if len(keyErrs) > 0 {
		return fmt.Errorf("invalid payload: %s", keyErrs[0].Message)
	}

	return nil
}
