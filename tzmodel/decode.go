package tzmodel

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Decode reads a Database from its YAML form.
//
// The document is the hand-over format of the upstream parser:
//
//	version: 2018i
//	policies:
//	  US:
//	    - {from: 2007, to: 9999, in: 3, on: {form: after, num: 8, weekday: 0}, at: {time: 2h}, save: 1h, letter: D}
//	zones:
//	  America/New_York:
//	    - {offset: -5h, rules: {form: name, name: US}, format: E%sT}
//
// Durations use Go duration syntax. Unknown keys are rejected.
func Decode(r io.Reader) (*Database, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var db Database
	if err := dec.Decode(&db); err != nil {
		if err == io.EOF {
			return &db, nil
		}
		return nil, fmt.Errorf("decode database: %w", err)
	}
	return &db, nil
}
