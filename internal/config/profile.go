package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is a YAML parse profile. Keys left out of the file keep the value
// already configured.
//
//	parametric: parametric
//	metrics: [min, max, avg]
//	begin_from_parametric: false
//	nulls: ["N/A", "NULL", "-", ""]
//	key: key
//	sheet: Limits
type Profile struct {
	Parametric          *string  `yaml:"parametric"`
	Metrics             []string `yaml:"metrics"`
	BeginFromParametric *bool    `yaml:"begin_from_parametric"`
	Nulls               []string `yaml:"nulls"`
	BlankIsNull         *bool    `yaml:"blank_is_null"`
	Key                 *string  `yaml:"key"`
	Sheet               *string  `yaml:"sheet"`
}

// LoadProfile reads the YAML profile at path. Unknown keys are an error.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes a YAML profile.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return &p, nil
}

// Apply overlays the profile on pc. A "nulls" list replaces the configured
// null values as written, so an explicit "" entry keeps blank cells null.
func (p *Profile) Apply(pc *ParseConfig) {
	if p.Parametric != nil {
		pc.ParametricMarker = *p.Parametric
	}
	if p.Metrics != nil {
		pc.Metrics = p.Metrics
	}
	if p.BeginFromParametric != nil {
		pc.BeginFromParametric = *p.BeginFromParametric
	}
	if p.Nulls != nil {
		pc.NullValues = p.Nulls
		pc.BlankIsNull = false
	}
	if p.BlankIsNull != nil {
		pc.BlankIsNull = *p.BlankIsNull
	}
	if p.Key != nil {
		pc.KeyMarker = *p.Key
	}
	if p.Sheet != nil {
		pc.Sheet = *p.Sheet
	}
}
