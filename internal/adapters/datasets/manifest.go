package datasets

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Dataset kinds.
const (
	KindVisitors      = "visitors"
	KindMetros        = "metros"
	KindWorldCities   = "world_cities"
	KindNationalParks = "national_parks"
	KindSkiResorts    = "ski_resorts"
	KindWonders       = "wonders"
	KindHighPoints    = "high_points"
	KindPeaks         = "peaks"
	KindRoutes        = "routes"
)

// Entry is one dataset file. Path is a file path, relative to the manifest, or
// an http(s) URL.
type Entry struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
}

type Manifest struct {
	Datasets []Entry `yaml:"datasets"`
}

// ParseManifest decodes and validates a manifest. Exactly one visitors dataset
// is required.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}

	primary := 0
	for i, e := range m.Datasets {
		if e.Path == "" {
			return Manifest{}, fmt.Errorf("parse manifest: dataset %d (%s) has no path", i, e.Kind)
		}
		if e.Kind == KindVisitors {
			primary++
			continue
		}
		if e.Kind == KindRoutes {
			continue
		}
		if _, ok := locationAdapters[e.Kind]; !ok {
			return Manifest{}, fmt.Errorf("parse manifest: dataset %d: unknown kind %q", i, e.Kind)
		}
	}

	switch {
	case primary == 0:
		return Manifest{}, errors.New("parse manifest: no visitors dataset")
	case primary > 1:
		return Manifest{}, fmt.Errorf("parse manifest: %d visitors datasets, want 1", primary)
	}

	return m, nil
}
