// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
)

// MetricSample is one point of the training metrics series.
// A nil Accuracy or Loss is a gap in that series.
type MetricSample struct {
	Name     string   `json:"name"`
	Accuracy *float64 `json:"accuracy"`
	Loss     *float64 `json:"loss"`
}

// UnmarshalJSON decodes a sample leniently. Missing, null or non-numeric
// accuracy/loss values become nil. A name that is not a JSON string keeps
// its raw JSON text so numeric epochs still label the axis.
func (s *MetricSample) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = MetricSample{}
	if name, ok := raw["name"]; ok {
		var str string
		if err := json.Unmarshal(name, &str); err == nil {
			s.Name = str
		} else if !isNull(name) {
			s.Name = string(bytes.TrimSpace(name))
		}
	}
	s.Accuracy = lenientFloat(raw["accuracy"])
	s.Loss = lenientFloat(raw["loss"])
	return nil
}

func lenientFloat(raw json.RawMessage) *float64 {
	if len(raw) == 0 || isNull(raw) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Float returns a pointer to f, for building samples in code.
func Float(f float64) *float64 {
	return &f
}
