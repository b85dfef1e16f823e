// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"bytes"
	"encoding/json"
	"errors"
)

var jsonNull = []byte("null")

// decodeList accepts either a bare JSON array or an object wrapping the
// array under one of keys (first present key wins). An object with none of
// the keys decodes to an empty list.
func decodeList[T any](data []byte, keys ...string) ([]T, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty response body")
	}

	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
		return nonNil(items), nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	for _, k := range keys {
		raw, ok := envelope[k]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
			continue
		}
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return nonNil(items), nil
	}
	return []T{}, nil
}

// decodeOne accepts a bare object or one wrapped under one of keys.
func decodeOne[T any](data []byte, keys ...string) (T, error) {
	var zero T
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return zero, errors.New("expected a JSON object")
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return zero, err
	}
	for _, k := range keys {
		raw, ok := envelope[k]
		if !ok {
			continue
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) > 0 && raw[0] == '{' {
			var v T
			err := json.Unmarshal(raw, &v)
			return v, err
		}
	}

	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}

// errorMessage extracts {"error": "..."} or {"message": "..."} from body.
func errorMessage(body []byte) string {
	var e struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(body, &e) != nil {
		return ""
	}
	var s string
	if json.Unmarshal(e.Error, &s) == nil && s != "" {
		return s
	}
	var nested struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(e.Error, &nested) == nil && nested.Message != "" {
		return nested.Message
	}
	return e.Message
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
