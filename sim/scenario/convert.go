package scenario

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/NkanyeziNgobese/PortSimulation/sim/dist"
)

// field describes one Config field by its external key.
type field struct {
	key   string
	index int
	kind  reflect.Kind
}

var configFields = func() []field {
	t := reflect.TypeOf(Config{})
	out := make([]field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("yaml")
		key, _, _ := strings.Cut(tag, ",")
		if key == "" || key == "-" {
			continue
		}
		out = append(out, field{key: key, index: i, kind: t.Field(i).Type.Kind()})
	}
	return out
}()

// Keys returns every config key in declaration order.
func Keys() []string {
	keys := make([]string, len(configFields))
	for i, f := range configFields {
		keys[i] = f.key
	}
	return keys
}

// ToMap flattens c into a key → value map. Scalars keep their Go kind
// (bool, int, float64, string); tables become [][]float64 or []float64.
// The result shares nothing with c.
func ToMap(c Config) map[string]any {
	v := reflect.ValueOf(c)
	m := make(map[string]any, len(configFields))
	for _, f := range configFields {
		fv := v.Field(f.index)
		switch val := fv.Interface().(type) {
		case []dist.Band:
			rows := make([][]float64, len(val))
			for i, b := range val {
				rows[i] = []float64{b.Start, b.End, b.Prob}
			}
			m[f.key] = rows
		case []dist.Weight:
			rows := make([][]float64, len(val))
			for i, w := range val {
				rows[i] = []float64{float64(w.Value), w.Prob}
			}
			m[f.key] = rows
		case []float64:
			m[f.key] = append([]float64(nil), val...)
		default:
			m[f.key] = val
		}
	}
	return m
}

// FromMap builds a Config from a key → value map such as the output of
// ApplyOverrides. Unknown keys are rejected; missing keys keep their zero
// value, so callers normally start from ToMap of a preset.
func FromMap(m map[string]any) (Config, error) {
	raw, err := yaml.Marshal(m)
	if err != nil {
		return Config{}, fmt.Errorf("%w: encode config map: %w", ErrInvalidConfig, err)
	}
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("%w: decode config map: %w", ErrInvalidConfig, err)
	}
	return c, nil
}
