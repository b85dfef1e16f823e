// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var jsonNull = []byte("null")

// flexString accepts a JSON string or number.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, jsonNull) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*s = flexString(n.String())
	return nil
}

// flexName accepts a string or an object carrying "name", "key" or "slug".
type flexName string

func (s *flexName) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, jsonNull) {
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Name string `json:"name"`
			Key  string `json:"key"`
			Slug string `json:"slug"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*s = flexName(firstNonEmpty(obj.Key, obj.Slug, obj.Name))
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = flexName(strings.TrimSpace(v))
	return nil
}

// flexTags accepts an array of strings or a comma separated string.
// Blank entries are dropped.
type flexTags []string

func (t *flexTags) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, jsonNull) {
		return nil
	}
	var parts []string
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		parts = strings.Split(v, ",")
	} else if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*t = out
	return nil
}

// timeLayouts are tried in order for string timestamps.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// flexTime accepts RFC 3339 and a few looser layouts, epoch milliseconds,
// and {"_seconds": n} objects. Null, empty and unparseable values decode to
// the zero time rather than failing the whole record.
type flexTime time.Time

func (ft *flexTime) UnmarshalJSON(data []byte) error {
	*ft = flexTime{}
	if bytes.Equal(data, jsonNull) || len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*ft = flexTime(ParseTime(v))
	case '{':
		var obj struct {
			Seconds int64 `json:"_seconds"`
		}
		if err := json.Unmarshal(data, &obj); err == nil && obj.Seconds > 0 {
			*ft = flexTime(time.Unix(obj.Seconds, 0).UTC())
		}
	default:
		if ms, err := strconv.ParseInt(string(data), 10, 64); err == nil && ms > 0 {
			*ft = flexTime(time.UnixMilli(ms).UTC())
		}
	}
	return nil
}

// ParseTime parses a timestamp in any of the accepted layouts. It returns
// the zero time for empty or unrecognized input.
func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
