package gotemplate

import (
	"encoding/json"
	"reflect"

	"github.com/flosch/pongo2/v6"
)

// contextFor turns template data into a pongo2 context. Top-level funcs and
// scalars are kept as they are; every other value goes through its JSON form
// so templates address struct fields by their json tags.
func contextFor(data any) (pongo2.Context, error) {
	var in map[string]any
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		in = v
	case map[string]any:
		in = v
	default:
		if err := viaJSON(v, &in); err != nil {
			return nil, err
		}
		return pongo2.Context(in), nil
	}

	out := make(pongo2.Context, len(in))
	for key, value := range in {
		switch value.(type) {
		case nil, string, bool, int, int64, float64:
			out[key] = value
			continue
		}
		if reflect.ValueOf(value).Kind() == reflect.Func {
			out[key] = value
			continue
		}
		var decoded any
		if err := viaJSON(value, &decoded); err != nil {
			return nil, err
		}
		out[key] = decoded
	}
	return out, nil
}

func viaJSON(in any, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, out)
}
