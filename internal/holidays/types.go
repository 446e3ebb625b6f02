package holidays

import (
	"encoding/json"
)

// Everyyear is the year key of observances that recur every Hijri year.
const Everyyear = "*"

// Observance is a single entry in the observances JSON data, keyed by the
// Hijri date "MM-DD".
type Observance struct {
	Name    string `json:"name"`
	Holiday bool   `json:"holiday"`
	// Optional fields
	Note string `json:"note,omitempty"`
}

// UnmarshalJSON accepts a holiday field that is either a boolean or a string
// (for compatibility with hand-edited files).
func (o *Observance) UnmarshalJSON(data []byte) error {
	type Alias Observance
	aux := &struct {
		Holiday interface{} `json:"holiday"`
		*Alias
	}{
		Alias: (*Alias)(o),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	switch v := aux.Holiday.(type) {
	case bool:
		o.Holiday = v
	case string:
		o.Holiday = v != "" && v != "false"
	default:
		o.Holiday = false
	}
	return nil
}

// Table maps Hijri "MM-DD" dates to observances.
type Table map[string]*Observance

// Data maps a Hijri year, or Everyyear, to its observances. Entries for a
// specific year take precedence over the recurring ones.
type Data map[string]Table

// fileFormat is the layout of an observances JSON file.
type fileFormat []struct {
	Year        string `json:"year"`
	Observances Table  `json:"observances"`
}

// Info describes the observance falling on a particular Hijri date.
type Info struct {
	Name    string
	Holiday bool // a public holiday rather than a day of note
}
