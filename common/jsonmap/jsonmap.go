// Package jsonmap provides helpers for working with raw JSON objects during
// strict schema validation, where unknown properties must be detected before
// decoding into typed models.
package jsonmap

import (
	"encoding/json"
	"fmt"
)

// JSONMap represents a JSON object as a map.
type JSONMap map[string]interface{}

// FromBytes parses data into a JSONMap. It fails if data is not a JSON object.
func FromBytes(data []byte) (JSONMap, error) {
	var m JSONMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON object: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("JSON value is not an object")
	}
	return m, nil
}

// FromValue converts an already-decoded JSON value into a JSONMap.
func FromValue(v interface{}) (JSONMap, bool) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, false
	}
	return JSONMap(m), true
}

// UnknownKey returns the first key of m not contained in allowed.
func (m JSONMap) UnknownKey(allowed ...string) (string, bool) {
	for k := range m {
		found := false
		for _, a := range allowed {
			if k == a {
				found = true
				break
			}
		}
		if !found {
			return k, true
		}
	}
	return "", false
}

// StringValue returns the value for key if it is present and a string.
func (m JSONMap) StringValue(key string) (string, bool) {
	s, ok := m[key].(string)
	return s, ok
}

// ArrayValue returns the value for key if it is present and an array.
func (m JSONMap) ArrayValue(key string) ([]interface{}, bool) {
	a, ok := m[key].([]interface{})
	return a, ok
}
