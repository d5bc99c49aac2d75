/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package session

import (
	"fmt"
	"strconv"
	"strings"
)

// Moment is a detected highlight inside the source video. Start and End are
// seconds from the start of the source.
type Moment struct {
	Start      float64 `json:"start_time"`
	End        float64 `json:"end_time"`
	Title      string  `json:"title"`
	Reason     string  `json:"reason,omitempty"`
	ViralScore float64 `json:"viral_score,omitempty"`
}

// Duration returns the moment's length in seconds.
func (m Moment) Duration() float64 { return m.End - m.Start }

// Clip is one editable clip of the session: a moment plus its position in the
// clip list. Region geometry lives in the RegionStore, keyed by Index.
type Clip struct {
	Index  int    `json:"index"`
	Moment Moment `json:"moment"`
}

// ParseTimestamp parses "SS", "MM:SS" or "HH:MM:SS" into seconds. Fractional
// seconds in the last component are accepted.
func ParseTimestamp(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}
	var total float64
	for i, p := range parts {
		var v float64
		var err error
		if i == len(parts)-1 {
			v, err = strconv.ParseFloat(p, 64)
		} else {
			var n int
			n, err = strconv.Atoi(p)
			v = float64(n)
		}
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		if i > 0 && v >= 60 {
			return 0, fmt.Errorf("invalid timestamp %q: component %q out of range", s, p)
		}
		total = total*60 + v
	}
	return total, nil
}

// FormatTimestamp renders seconds as "MM:SS", or "HH:MM:SS" above an hour.
// Fractions are truncated.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
