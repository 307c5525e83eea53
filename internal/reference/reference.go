// Package reference holds the static option lists the intake form offers:
// Nigerian states, countries, Ogun State LGAs, facilitation services and
// "how did you hear about us" sources.
package reference

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

// OtherOption is the option value that reveals a free-text follow-up field.
const OtherOption = "Others"

//go:embed data.yaml
var embedded []byte

// Data is the full set of option lists.
type Data struct {
	States               []string `yaml:"states" json:"states"`
	Countries            []string `yaml:"countries" json:"countries"`
	LGAs                 []string `yaml:"lgas" json:"lgas"`
	FacilitationServices []string `yaml:"facilitation_services" json:"facilitation_services"`
	HowHeard             []string `yaml:"how_heard" json:"how_heard"`
}

// Kind names one option list.
type Kind string

const (
	KindStates               Kind = "states"
	KindCountries            Kind = "countries"
	KindLGAs                 Kind = "lgas"
	KindFacilitationServices Kind = "facilitation_services"
	KindHowHeard             Kind = "how_heard"
)

// Kinds lists every option list in display order.
var Kinds = []Kind{KindStates, KindCountries, KindLGAs, KindFacilitationServices, KindHowHeard}

var (
	defaultOnce sync.Once
	defaultData *Data
)

// Default returns the embedded option lists. The embedded file is part of the
// binary, so a parse failure is a build defect and panics.
func Default() *Data {
	defaultOnce.Do(func() {
		d, err := Parse(embedded)
		if err != nil {
			panic(fmt.Sprintf("reference: embedded data: %v", err))
		}
		defaultData = d
	})
	return defaultData
}

// Load returns the embedded data when path is empty, otherwise parses the
// file at path.
func Load(path string) (*Data, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses option lists from r.
func Read(r io.Reader) (*Data, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read reference data: %w", err)
	}
	return Parse(raw)
}

// Parse decodes YAML option lists and checks none is empty.
func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode reference data: %w", err)
	}
	for _, k := range Kinds {
		if len(d.List(k)) == 0 {
			return nil, fmt.Errorf("reference list %q is empty", k)
		}
	}
	return &d, nil
}

// List returns the option list for k, or nil for an unknown kind.
func (d *Data) List(k Kind) []string {
	switch k {
	case KindStates:
		return d.States
	case KindCountries:
		return d.Countries
	case KindLGAs:
		return d.LGAs
	case KindFacilitationServices:
		return d.FacilitationServices
	case KindHowHeard:
		return d.HowHeard
	}
	return nil
}

// Contains reports whether value is one of the options of kind k.
func (d *Data) Contains(k Kind, value string) bool {
	return slices.Contains(d.List(k), value)
}
