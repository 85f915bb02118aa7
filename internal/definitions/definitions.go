// Package definitions reads status and passive data files.
package definitions

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	dnderr "github.com/KirkDiggler/combat-rules-engine/internal/errors"
	"github.com/KirkDiggler/combat-rules-engine/internal/functors"
	"github.com/KirkDiggler/combat-rules-engine/internal/passives"
	"github.com/KirkDiggler/combat-rules-engine/internal/statuses"
	"gopkg.in/yaml.v3"
)

// Set is the content of one or more definition files
type Set struct {
	Statuses []*statuses.Definition `yaml:"statuses"`
	Passives []*passives.Definition `yaml:"passives"`
}

// StatusRegistrar accepts status definitions
type StatusRegistrar interface {
	RegisterStatus(def *statuses.Definition) error
}

// PassiveRegistrar accepts passive definitions
type PassiveRegistrar interface {
	RegisterPassive(def *passives.Definition) error
}

// Parse decodes one YAML document
func Parse(data []byte) (*Set, error) {
	set := &Set{}
	if err := yaml.Unmarshal(data, set); err != nil {
		return nil, dnderr.Malformedf("parsing definitions: %v", err)
	}
	set.normalize()
	return set, nil
}

// LoadFile reads one definition file
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definitions %s: %w", path, err)
	}
	set, err := Parse(data)
	if err != nil {
		return nil, dnderr.Wrapf(err, "file %s", path)
	}
	return set, nil
}

// LoadDir reads every .yaml and .yml file in dir in name order. A missing
// directory yields an empty set.
func LoadDir(dir string) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return &Set{}, nil
		}
		return nil, fmt.Errorf("reading definitions dir %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !entry.IsDir() && (ext == ".yaml" || ext == ".yml") {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)

	set := &Set{}
	for _, name := range names {
		file, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		set.Merge(file)
	}
	return set, nil
}

// Merge appends other's definitions. Later definitions win on install.
func (s *Set) Merge(other *Set) {
	if other == nil {
		return
	}
	s.Statuses = append(s.Statuses, other.Statuses...)
	s.Passives = append(s.Passives, other.Passives...)
}

func (s *Set) normalize() {
	s.Statuses = slices.DeleteFunc(s.Statuses, func(d *statuses.Definition) bool { return d == nil })
	s.Passives = slices.DeleteFunc(s.Passives, func(d *passives.Definition) bool { return d == nil })
	for _, def := range s.Statuses {
		def.Normalize()
	}
	for _, def := range s.Passives {
		def.Normalize()
	}
}

// Validate reports every structural problem in the set: invalid statuses,
// passives without ids, and functor text that does not parse cleanly.
// Functor problems do not stop a set from installing.
func (s *Set) Validate() error {
	var errs []error
	for _, def := range s.Statuses {
		if err := def.Validate(); err != nil {
			errs = append(errs, err)
		}
		for _, text := range def.TickEffects {
			errs = append(errs, functorErrors("status "+def.ID, text)...)
		}
		for point, text := range def.Triggers {
			errs = append(errs, functorErrors(fmt.Sprintf("status %s %s", def.ID, point), text)...)
		}
	}
	for _, def := range s.Passives {
		if def.ID == "" {
			errs = append(errs, dnderr.InvalidArgumentf("passive definition requires an id"))
			continue
		}
		errs = append(errs, functorErrors("passive "+def.ID, def.Functors)...)
		errs = append(errs, functorErrors("passive "+def.ID+" toggle on", def.ToggleOnFunctors)...)
		errs = append(errs, functorErrors("passive "+def.ID+" toggle off", def.ToggleOffFunctors)...)
	}
	return errors.Join(errs...)
}

func functorErrors(owner, text string) []error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	log := dnderr.NewLog()
	functors.Parse(text, log)

	var out []error
	for _, err := range log.Errors() {
		out = append(out, dnderr.Wrap(err, owner))
	}
	return out
}

// Install registers every definition. It stops at the first definition
// the registrar rejects.
func (s *Set) Install(st StatusRegistrar, pv PassiveRegistrar) error {
	for _, def := range s.Statuses {
		if err := st.RegisterStatus(def); err != nil {
			return dnderr.Wrapf(err, "installing status %s", def.ID)
		}
	}
	for _, def := range s.Passives {
		if err := pv.RegisterPassive(def); err != nil {
			return dnderr.Wrapf(err, "installing passive %s", def.ID)
		}
	}
	return nil
}
