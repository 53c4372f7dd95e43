package utils

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
)

// AttributeMap is a free-form map of configuration attributes as decoded from JSON.
type AttributeMap map[string]interface{}

// Has returns whether or not the given name is in the map.
func (am AttributeMap) Has(name string) bool {
	_, has := am[name]
	return has
}

// String returns the value at name as a string, or "" if it is missing or not convertible.
func (am AttributeMap) String(name string) string {
	return cast.ToString(am[name])
}

// Int returns the value at name as an int, falling back to def when missing or not convertible.
// JSON numbers decode as float64, which cast truncates.
func (am AttributeMap) Int(name string, def int) int {
	if !am.Has(name) {
		return def
	}
	v, err := cast.ToIntE(am[name])
	if err != nil {
		return def
	}
	return v
}

// Float64 returns the value at name as a float64, falling back to def when missing or not
// convertible.
func (am AttributeMap) Float64(name string, def float64) float64 {
	if !am.Has(name) {
		return def
	}
	v, err := cast.ToFloat64E(am[name])
	if err != nil {
		return def
	}
	return v
}

// Bool returns the value at name as a bool, falling back to def when missing or not convertible.
func (am AttributeMap) Bool(name string, def bool) bool {
	if !am.Has(name) {
		return def
	}
	v, err := cast.ToBoolE(am[name])
	if err != nil {
		return def
	}
	return v
}

// Decode converts the attribute map into a native config struct using its `json` tags. Numeric
// strings and float-valued integers are converted, unknown keys are rejected.
func (am AttributeMap) Decode(to interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           to,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(am)
}
