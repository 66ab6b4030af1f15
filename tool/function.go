package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// FunctionTool is a generic adapter that exposes a plain Go function as a tool.
//
// The parameter schema is reflected once from the argument struct T at
// construction time (json tags name the properties, jsonschema tags describe
// them, fields without omitempty are required). Every call validates the raw
// model arguments against that schema before decoding them into T.
//
// Error Semantics:
//
//	*ToolError (returned by fn)  -> forwarded unchanged
//	malformed / invalid args     -> *ToolError{Code: "VALIDATION_ERROR"}
//	other error                  -> *ToolError{Code: "EXECUTION_ERROR"}
//
// A FunctionTool has no mutable state after construction and is safe for
// concurrent use.
type FunctionTool struct {
	name        string
	description string
	parameters  map[string]any
	resolved    *jsonschema.Resolved
	invoke      func(ctx context.Context, args json.RawMessage) (any, error)
}

// NewFunctionTool derives the schema from T and wraps fn.
//
// Example:
//
//	type weatherArgs struct {
//	  City string `json:"city" jsonschema:"The name of the city"`
//	}
//
//	weather, err := tool.NewFunctionTool("get_weather", "Get the current weather for a city.",
//	  func(_ context.Context, a weatherArgs) (any, error) { return lookup(a.City), nil })
func NewFunctionTool[T any](
	name, description string,
	fn func(ctx context.Context, args T) (any, error),
) (*FunctionTool, error) {
	if name == "" {
		return nil, errors.New("tool: name must not be empty")
	}
	if fn == nil {
		return nil, fmt.Errorf("tool %s: function must not be nil", name)
	}

	parameters, resolved, err := reflectSchema[T]()
	if err != nil {
		return nil, fmt.Errorf("tool %s: schema: %w", name, err)
	}

	return &FunctionTool{
		name:        name,
		description: description,
		parameters:  parameters,
		resolved:    resolved,
		invoke: func(ctx context.Context, args json.RawMessage) (any, error) {
			var v T
			if err := json.Unmarshal(args, &v); err != nil {
				return nil, NewToolError(name, fmt.Sprintf("decode arguments: %v", err), CodeValidationError)
			}
			return fn(ctx, v)
		},
	}, nil
}

// MustFunctionTool is like NewFunctionTool but panics on error. Intended for
// package level tool declarations whose argument types are known to be valid.
func MustFunctionTool[T any](
	name, description string,
	fn func(ctx context.Context, args T) (any, error),
) *FunctionTool {
	t, err := NewFunctionTool(name, description, fn)
	if err != nil {
		panic(err)
	}
	return t
}

// reflectSchema produces the JSON Schema map handed to models plus a resolved
// validator for the same schema.
func reflectSchema[T any]() (map[string]any, *jsonschema.Resolved, error) {
	schema, err := jsonschema.For[T](&jsonschema.ForOptions{})
	if err != nil {
		return nil, nil, err
	}

	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, nil, err
	}

	data, err := json.Marshal(schema)
	if err != nil {
		return nil, nil, err
	}

	var params map[string]any
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, nil, err
	}
	delete(params, "$schema")
	delete(params, "$id")

	return params, resolved, nil
}

// Name returns the unique tool name used in function call declarations and routing.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the short natural language description exposed to models.
func (t *FunctionTool) Description() string { return t.description }

// Parameters returns the JSON schema describing expected arguments.
func (t *FunctionTool) Parameters() map[string]any { return t.parameters }

// Call validates the provided args against the declared schema then invokes the
// underlying function.
func (t *FunctionTool) Call(ctx context.Context, args json.RawMessage) (any, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	var instance any
	if err := json.Unmarshal(args, &instance); err != nil {
		return nil, &ToolError{
			Tool:    t.name,
			Message: fmt.Sprintf("arguments are not valid JSON: %v", err),
			Code:    CodeValidationError,
		}
	}

	if err := t.resolved.Validate(instance); err != nil {
		return nil, &ToolError{
			Tool:    t.name,
			Message: fmt.Sprintf("parameter validation failed: %v", err),
			Code:    CodeValidationError,
			Details: err.Error(),
		}
	}

	result, err := t.invoke(ctx, args)
	if err != nil {
		var toolErr *ToolError
		if errors.As(err, &toolErr) {
			return nil, toolErr
		}
		return nil, &ToolError{
			Tool:    t.name,
			Message: err.Error(),
			Code:    CodeExecutionError,
		}
	}

	return result, nil
}
