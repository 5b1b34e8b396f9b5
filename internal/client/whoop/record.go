package whoop

import (
	"reflect"
	"strings"
	"sync"

	go_json "github.com/goccy/go-json"
)

// Extra holds the fields of a record this package has no struct field for,
// as raw JSON keyed by name.
type Extra map[string]go_json.RawMessage

var knownFieldsCache sync.Map // reflect.Type -> map[string]struct{}

// knownFields returns the lower-cased JSON names of the exported fields of
// t. Keys match case-insensitively, as they do when decoding.
func knownFields(t reflect.Type) map[string]struct{} {
	if cached, ok := knownFieldsCache.Load(t); ok {
		return cached.(map[string]struct{})
	}

	fields := make(map[string]struct{}, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = f.Name
		}
		fields[strings.ToLower(name)] = struct{}{}
	}

	knownFieldsCache.Store(t, fields)
	return fields
}

// unmarshalRecord decodes data into dst, which must point to an alias of
// the record struct so its UnmarshalJSON is not re-entered, and returns the
// fields dst does not declare.
func unmarshalRecord[T any](data []byte, dst *T) (Extra, error) {
	if err := go_json.Unmarshal(data, dst); err != nil {
		return nil, err
	}

	var raw map[string]go_json.RawMessage
	if err := go_json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	known := knownFields(reflect.TypeFor[T]())
	var extra Extra
	for name, value := range raw {
		if _, ok := known[strings.ToLower(name)]; ok {
			continue
		}
		if extra == nil {
			extra = make(Extra)
		}
		extra[name] = value
	}
	return extra, nil
}

// marshalRecord encodes src, again an alias of the record struct, with the
// extra fields merged back in. Declared fields win over extras of the same name.
func marshalRecord[T any](src *T, extra Extra) ([]byte, error) {
	data, err := go_json.Marshal(src)
	if err != nil || len(extra) == 0 {
		return data, err
	}

	var merged map[string]go_json.RawMessage
	if err := go_json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}

	for name, value := range extra {
		if _, ok := merged[name]; !ok {
			merged[name] = value
		}
	}
	return go_json.Marshal(merged)
}

// validator is implemented by records with required fields.
type validator interface {
	validate() error
}

func validateRecord[T any](rec *T) error {
	if v, ok := any(rec).(validator); ok {
		return v.validate()
	}
	return nil
}
