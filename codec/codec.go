// Package codec encodes reports for machine consumption.
//
// Classification and clustering reports are plain structs with json tags;
// a Codec streams them to the CLI output or reads stored run summaries back.
package codec

import (
	"encoding/json"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"
)

// Codec streams values to and from a wire format.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Name returns the stable name accepted by ByName.
	Name() string
	// Encode writes v to w as one indented document followed by a newline.
	Encode(w io.Writer, v any) error
	// Decode reads one document from r into v.
	Decode(r io.Reader, v any) error
}

// GoJSON is backed by github.com/goccy/go-json.
type GoJSON struct{}

func (GoJSON) Name() string { return "go-json" }

func (GoJSON) Encode(w io.Writer, v any) error {
	enc := gojson.NewEncoder(w)
	enc.SetIndent("", "  ")
	return wrap("go-json", "encode", enc.Encode(v))
}

func (GoJSON) Decode(r io.Reader, v any) error {
	return wrap("go-json", "decode", gojson.NewDecoder(r).Decode(v))
}

// JSON is backed by encoding/json. Its output matches GoJSON for the report
// types in this module.
type JSON struct{}

func (JSON) Name() string { return "json" }

func (JSON) Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return wrap("json", "encode", enc.Encode(v))
}

func (JSON) Decode(r io.Reader, v any) error {
	return wrap("json", "decode", json.NewDecoder(r).Decode(v))
}

// Default is the codec used for reports.
var Default Codec = GoJSON{}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

func wrap(name, op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("codec %s: %s: %w", name, op, err)
}
