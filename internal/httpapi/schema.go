package httpapi

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/reaction_event.schema.json
var reactionEventSchemaJSON string

//go:embed schemas/command_event.schema.json
var commandEventSchemaJSON string

//go:embed schemas/message_event.schema.json
var messageEventSchemaJSON string

type eventSchemas struct {
	reaction *jsonschema.Schema
	command  *jsonschema.Schema
	message  *jsonschema.Schema
}

var (
	schemaOnce     sync.Once
	compiledEvents *eventSchemas
	compiledErr    error
)

func loadEventSchemas() (*eventSchemas, error) {
	schemaOnce.Do(func() {
		compiled := &eventSchemas{}
		sources := []struct {
			name   string
			source string
			dest   **jsonschema.Schema
		}{
			{"reaction_event.schema.json", reactionEventSchemaJSON, &compiled.reaction},
			{"command_event.schema.json", commandEventSchemaJSON, &compiled.command},
			{"message_event.schema.json", messageEventSchemaJSON, &compiled.message},
		}
		for _, entry := range sources {
			compiler := jsonschema.NewCompiler()
			compiler.Draft = jsonschema.Draft2020
			compiler.AssertFormat = true

			if err := compiler.AddResource(entry.name, strings.NewReader(entry.source)); err != nil {
				compiledErr = fmt.Errorf("add schema resource %s: %w", entry.name, err)
				return
			}
			schema, err := compiler.Compile(entry.name)
			if err != nil {
				compiledErr = fmt.Errorf("compile schema %s: %w", entry.name, err)
				return
			}
			*entry.dest = schema
		}
		compiledEvents = compiled
	})

	if compiledErr != nil {
		return nil, compiledErr
	}
	if compiledEvents == nil {
		return nil, fmt.Errorf("event schemas not initialized")
	}
	return compiledEvents, nil
}

// decodeEvent reads the request body, validates it against the schema,
// and unmarshals the normalized document into dest.
func decodeEvent(c echo.Context, schema *jsonschema.Schema, dest any) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}

	value, err := decodeStrictJSON(raw)
	if err != nil {
		return err
	}
	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("normalize payload JSON: %w", err)
	}
	if err := json.Unmarshal(normalized, dest); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	return nil
}

// decodeJSONBody strictly decodes a request body into dest. Used by the
// administrative handlers, which validate fields by hand instead of
// through a schema.
func decodeJSONBody(c echo.Context, dest any) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return errors.New("request body is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body contains trailing content")
	}
	return nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("request body is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("body contains trailing content")
	}
	return value, nil
}
