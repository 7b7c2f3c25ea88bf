// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package smhi

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Parameter is a measured quantity exposed by the API, e.g. "2" for the daily mean air temperature.
type Parameter struct {
	Key     string `json:"key" yaml:"key"`
	Title   string `json:"title" yaml:"title"`
	Summary string `json:"summary" yaml:"summary"`
}

// Station is a weather station measuring a parameter.
type Station struct {
	Key       string  `json:"key" yaml:"key"`
	Name      string  `json:"name" yaml:"name"`
	Active    bool    `json:"active" yaml:"active"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	// Updated is the last update time in milliseconds since the epoch.
	Updated float64 `json:"updated" yaml:"updated"`
}

// UpdatedAt returns the last update time truncated to the second.
func (s Station) UpdatedAt() time.Time {
	return time.Unix(int64(s.Updated)/1000, 0).UTC()
}

// Temperature is a value in degrees Celsius; infinite values mark missing data.
type Temperature float64

// Missing reports whether the value marks missing data.
func (t Temperature) Missing() bool {
	return math.IsInf(float64(t), 0) || math.IsNaN(float64(t))
}

// MarshalJSON encodes missing values as null, that JSON cannot represent.
func (t Temperature) MarshalJSON() ([]byte, error) {
	if t.Missing() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(t), 'f', -1, 64)), nil
}

// MarshalYAML encodes missing values as null like MarshalJSON.
func (t Temperature) MarshalYAML() (any, error) {
	if t.Missing() {
		return nil, nil
	}
	return float64(t), nil
}

// StationTemp is the latest temperature read by a station.
type StationTemp struct {
	Key  string      `json:"key" yaml:"key"`
	Name string      `json:"name" yaml:"name"`
	Temp Temperature `json:"temperature" yaml:"temperature"`
}

// Extremes holds the stations with the highest and the lowest temperature.
type Extremes struct {
	Highest StationTemp `json:"highest" yaml:"highest"`
	Lowest  StationTemp `json:"lowest" yaml:"lowest"`
	// Stations is the number of stations with a valid temperature.
	Stations int `json:"stations" yaml:"stations"`
	// Skipped is the number of stations ignored because not updated recently.
	Skipped int `json:"skipped" yaml:"skipped"`
}

const notAvailable = "N/A"

func newExtremes() *Extremes {
	return &Extremes{
		Highest: StationTemp{Name: notAvailable, Temp: Temperature(math.Inf(-1))},
		Lowest:  StationTemp{Name: notAvailable, Temp: Temperature(math.Inf(1))},
	}
}

// add replaces an extreme only when temp is strictly greater or smaller.
func (e *Extremes) add(temp StationTemp) {
	e.Stations++
	if temp.Temp > e.Highest.Temp {
		e.Highest = temp
	}
	if temp.Temp < e.Lowest.Temp {
		e.Lowest = temp
	}
}

type parametersResponse struct {
	Resource []Parameter `json:"resource"`
}

type stationsResponse struct {
	Station []Station `json:"station"`
}

type stationDataResponse struct {
	Station struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	} `json:"station"`
	Value []struct {
		Value json.RawMessage `json:"value"`
	} `json:"value"`
}

// temperature returns the first value, accepting both numbers and numeric strings.
func (r stationDataResponse) temperature() (float64, bool) {
	if len(r.Value) == 0 || len(r.Value[0].Value) == 0 {
		return 0, false
	}

	raw := r.Value[0].Value
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		text = string(raw)
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(value) {
		return 0, false
	}
	return value, true
}
