package events

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/parceltrack/parceltrack/pkg/errors"
	"github.com/parceltrack/parceltrack/pkg/types"
)

// Decoder validates raw event payloads against the catalog schema and
// decodes them into their typed shapes. Unknown events and payloads that
// fail validation are rejected.
type Decoder struct {
	schemas map[Name]*jsonschema.Schema
}

// NewDecoder compiles the embedded catalog schema.
func NewDecoder() (*Decoder, error) {
	schemas, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	return &Decoder{schemas: schemas}, nil
}

// Decode returns a pointer to the payload shape registered for name.
func (d *Decoder) Decode(name Name, raw json.RawMessage) (any, error) {
	s, ok := catalog[name]
	if !ok {
		return nil, errors.NewDecodeError(name.String(), "", "event is not in the catalog", nil)
	}
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.NewDecodeError(name.String(), "", "payload is not JSON", err)
	}

	if err := d.schemas[name].Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			cause := firstCause(verr)
			return nil, errors.NewDecodeError(name.String(), cause.InstanceLocation, cause.Message, err)
		}
		return nil, errors.WrapDecode(name.String(), err)
	}

	out := s.new()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     out,
		TagName:    "json",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(refHook, timeHook),
	})
	if err != nil {
		return nil, errors.WrapDecode(name.String(), err)
	}
	if err := decoder.Decode(doc); err != nil {
		return nil, errors.WrapDecode(name.String(), err)
	}
	return out, nil
}

var (
	refType  = reflect.TypeOf(types.Ref{})
	timeType = reflect.TypeOf(time.Time{})
)

// refHook normalizes the string-or-object reference shapes.
func refHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != refType {
		return data, nil
	}
	return types.NewRef(data), nil
}

// timeHook parses ISO-8601 timestamps; empty strings become the zero time.
func timeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != timeType || from.Kind() != reflect.String {
		return data, nil
	}
	s := data.(string)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
