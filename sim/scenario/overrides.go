package scenario

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrInvalidOverride marks an override map that was rejected.
var ErrInvalidOverride = errors.New("invalid override")

// ResourceKeys are the capacity knobs external tools may tune. Each must stay
// an int >= 1 after a merge.
var ResourceKeys = []string{
	"num_cranes",
	"num_gate_in",
	"num_gate_out",
	"num_loaders",
	"num_scanners",
	"yard_equipment_capacity",
}

var allowedOverrideKeys = func() map[string]reflect.Kind {
	m := make(map[string]reflect.Kind, len(configFields))
	for _, f := range configFields {
		m[f.key] = f.kind
	}
	return m
}()

// ApplyOverrides merges overrides into a copy of base and returns it. base is
// never modified. Every override key must be a known config key already
// present in base, and its value must match the base value's type: bools
// must be bools, ints must be integers (not bools or floats), floats accept
// integers or floats, strings must be strings and tables must be lists.
func ApplyOverrides(base, overrides map[string]any) (map[string]any, error) {
	if len(base) == 0 {
		return nil, fmt.Errorf("%w: base config must be a non-empty map", ErrInvalidOverride)
	}
	merged := make(map[string]any, len(base))
	for k, v := range base {
		merged[k] = v
	}
	if len(overrides) == 0 {
		return merged, nil
	}

	var unknown []string
	for key := range overrides {
		if _, ok := allowedOverrideKeys[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: unknown override keys: %s", ErrInvalidOverride, strings.Join(unknown, ", "))
	}

	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		current, ok := merged[key]
		if !ok {
			return nil, fmt.Errorf("%w: override key not in base config: %s", ErrInvalidOverride, key)
		}
		value := overrides[key]
		if err := checkOverrideType(key, value, current); err != nil {
			return nil, err
		}
		logrus.Debugf("override %s: %v -> %v", key, current, value)
		merged[key] = value
	}

	for _, key := range ResourceKeys {
		value, ok := merged[key]
		if !ok {
			continue
		}
		n, isInt := asInt(value)
		if !isInt || n < 1 {
			return nil, fmt.Errorf("%w: %s must be an int >= 1, got %v", ErrInvalidOverride, key, value)
		}
	}
	return merged, nil
}

func checkOverrideType(key string, value, expected any) error {
	ev := reflect.ValueOf(expected)
	if !ev.IsValid() {
		return nil
	}
	vv := reflect.ValueOf(value)
	mismatch := func(want string) error {
		return fmt.Errorf("%w: override %q must be %s, got %T", ErrInvalidOverride, key, want, value)
	}
	if !vv.IsValid() {
		return mismatch(ev.Kind().String())
	}
	switch {
	case ev.Kind() == reflect.Bool:
		if vv.Kind() != reflect.Bool {
			return mismatch("bool")
		}
	case isIntKind(ev.Kind()):
		if !isIntKind(vv.Kind()) {
			return mismatch("int")
		}
	case isFloatKind(ev.Kind()):
		if !isIntKind(vv.Kind()) && !isFloatKind(vv.Kind()) {
			return mismatch("float")
		}
	case ev.Kind() == reflect.String:
		if vv.Kind() != reflect.String {
			return mismatch("string")
		}
	case ev.Kind() == reflect.Slice:
		if vv.Kind() != reflect.Slice {
			return mismatch("list")
		}
	}
	return nil
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func asInt(v any) (int64, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return 0, false
	}
	switch {
	case rv.CanInt():
		return rv.Int(), true
	case rv.CanUint():
		return int64(rv.Uint()), true
	}
	return 0, false
}

// WithOverrides returns a validated copy of c with overrides applied.
func (c Config) WithOverrides(overrides map[string]any) (Config, error) {
	merged, err := ApplyOverrides(ToMap(c), overrides)
	if err != nil {
		return Config{}, err
	}
	out, err := FromMap(merged)
	if err != nil {
		return Config{}, err
	}
	if err := out.Validate(); err != nil {
		return Config{}, err
	}
	return out, nil
}
