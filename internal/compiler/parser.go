// Package compiler turns machine definition files into registered state
// types and initial values.
package compiler

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/cascade/internal/dto"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/updates"
)

// Registry is the engine surface the compiler drives.
type Registry interface {
	Register(st *domain.StateType, cfg domain.StateConfig)
	Initialize(target domain.Target, st *domain.StateType, initial domain.Repr)
}

// Parser converts raw definition bytes into a typed Definition.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes a YAML machine definition. The document is unmarshalled
// loosely first, then decoded through mapstructure so unknown keys are
// tolerated and numeric types stay predictable.
func (p *Parser) Parse(data []byte) (*dto.Definition, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}

	var def dto.Definition
	if err := mapstructure.Decode(raw, &def); err != nil {
		return nil, fmt.Errorf("failed to decode definition: %w", err)
	}

	if len(def.States) == 0 {
		return nil, fmt.Errorf("definition declares no states")
	}
	return &def, nil
}

// Compile registers every declared state on the registry and queues the
// initial values on the global context. Parents must be declared before
// their substates. The returned map indexes the built state types by name.
func Compile(def *dto.Definition, reg Registry) (map[string]*domain.StateType, error) {
	built := make(map[string]*domain.StateType, len(def.States))

	for _, spec := range def.States {
		if spec.Name == "" {
			return nil, fmt.Errorf("state declaration missing name")
		}
		if _, dup := built[spec.Name]; dup {
			return nil, fmt.Errorf("state %q is declared twice", spec.Name)
		}

		st, err := buildState(spec, built)
		if err != nil {
			return nil, err
		}
		built[spec.Name] = st
		reg.Register(st, buildConfig(spec.Config))
	}

	// Initialize after all registrations so substates can start absent while
	// their parents seed real values.
	for _, spec := range def.States {
		st := built[spec.Name]
		switch spec.Kind {
		case "substate":
			reg.Initialize(domain.Global(), st, domain.None())
		default:
			if spec.Initial == nil {
				continue
			}
			reg.Initialize(domain.Global(), st, domain.Some(spec.Initial))
		}
	}

	return built, nil
}

func buildState(spec dto.StateSpec, built map[string]*domain.StateType) (*domain.StateType, error) {
	switch spec.Kind {
	case "root", "":
		return domain.NewRootState(spec.Name), nil

	case "substate":
		parent, ok := built[spec.Parent]
		if !ok {
			return nil, fmt.Errorf("substate %q references undeclared parent %q", spec.Name, spec.Parent)
		}
		if spec.ActiveWhen == nil {
			return nil, fmt.Errorf("substate %q missing active_when", spec.Name)
		}
		if spec.Persistent {
			return updates.NewPersistentSubstate(spec.Name, parent, spec.ActiveWhen, spec.Default), nil
		}
		return domain.NewSubstate(spec.Name, parent, spec.ActiveWhen, spec.Default), nil

	case "stack":
		return updates.NewStackState(spec.Name), nil

	case "shift":
		if len(spec.Variants) == 0 {
			return nil, fmt.Errorf("shift state %q declares no variants", spec.Name)
		}
		return updates.NewShiftState(spec.Name, spec.Variants), nil

	default:
		return nil, fmt.Errorf("state %q has unknown kind %q", spec.Name, spec.Kind)
	}
}

func buildConfig(spec *dto.ConfigSpec) domain.StateConfig {
	cfg := domain.DefaultStateConfig()
	if spec == nil {
		return cfg
	}
	apply := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&cfg.OnInit, spec.OnInit)
	apply(&cfg.OnDeinit, spec.OnDeinit)
	apply(&cfg.OnEnter, spec.OnEnter)
	apply(&cfg.OnExit, spec.OnExit)
	apply(&cfg.OnReenter, spec.OnReenter)
	apply(&cfg.OnReexit, spec.OnReexit)
	return cfg
}
