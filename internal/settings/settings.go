// Package settings holds the process-wide Option configuration: loaded
// once, mutated only via
// `Option` statements, read through a single getter, with a small
// evaluator-local cache of the two hot flags (ShortCircuit, SpecialChar)
// to avoid a lock on every expression evaluation.
package settings

import (
	"sync"

	"github.com/goccy/go-yaml"
)

// LogFileKind is the 0..4 logging-verbosity knob named.
type LogFileKind int

const (
	LogNone LogFileKind = iota
	LogStdout
	LogFileOnly
	LogFileAndPanic
	LogFileAndInfo
)

// Settings is the full set of recognised process-wide options.
type Settings struct {
	ExplicitDeclaration bool `yaml:"explicitDeclaration"`
	SameStr             bool `yaml:"sameStr"`
	ShortCircuit        bool `yaml:"shortCircuit"`
	ForceBool           bool `yaml:"forceBool"`
	ConditionLegacy     bool `yaml:"conditionLegacy"`
	FinallyAlways       bool `yaml:"finallyAlways"`
	GUIPrint            bool `yaml:"guiPrint"`
	LogFileKind         LogFileKind `yaml:"logFileKind"`
	LogLines            int  `yaml:"logLines"`
	DefaultFont         string `yaml:"defaultFont"`
	Position            string `yaml:"position"`
}

// Default returns the settings a fresh process starts with.
func Default() *Settings {
	return &Settings{
		LogLines:    400,
		DefaultFont: "Yu Gothic UI,15",
	}
}

var (
	mu      sync.RWMutex
	current = Default()
)

// Current returns the process-wide singleton. Callers that need to read
// many fields should call this once and read the returned copy rather than
// calling Current() per field.
func Current() Settings {
	mu.RLock()
	defer mu.RUnlock()
	return *current
}

// Set replaces the process-wide singleton wholesale (used by `Option`
// statement handling and by test setup).
func Set(s Settings) {
	mu.Lock()
	defer mu.Unlock()
	current = &s
}

// Update applies fn to a copy of the current settings and stores the
// result, returning the new value.
func Update(fn func(*Settings)) Settings {
	mu.Lock()
	defer mu.Unlock()
	cp := *current
	fn(&cp)
	current = &cp
	return cp
}

// LoadYAML parses a uwscr.yaml-style Option block into the process-wide
// singleton.
func LoadYAML(data []byte) error {
	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return err
	}
	Set(*s)
	return nil
}

// MarshalYAML serialises the current settings, e.g. for `uwscr option dump`.
func MarshalYAML() ([]byte, error) {
	s := Current()
	return yaml.Marshal(&s)
}
