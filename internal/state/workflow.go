// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/mcpstack/mcpstack-tool/internal/engine"
)

// workflowFile records the current workflow phase.
const workflowFile = "workflow.json"

// Phase is a step of the bootstrap workflow.
type Phase string

// Workflow phases, in the order a template normally moves through them.
const (
	PhaseUninitialized Phase = "uninitialized"
	PhasePreviewed     Phase = "previewed"
	PhaseApplied       Phase = "applied"
	PhaseValidated     Phase = "validated"
)

// ErrInvalidTransition is returned by Advance for a move the workflow
// does not allow.
var ErrInvalidTransition = errors.New("invalid workflow transition")

var transitions = map[Phase][]Phase{
	PhaseUninitialized: {PhasePreviewed, PhaseApplied},
	PhasePreviewed:     {PhaseApplied},
	PhaseApplied:       {PhaseValidated, PhaseUninitialized},
	PhaseValidated:     {PhaseApplied, PhaseUninitialized},
}

// Workflow is the persisted workflow phase.
type Workflow struct {
	Phase     Phase     `json:"phase"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanTransition reports whether the workflow may move from one phase to
// another. Staying in the same phase is always allowed.
func CanTransition(from, to Phase) bool {
	if from == to {
		return true
	}
	for _, p := range transitions[from] {
		if p == to {
			return true
		}
	}
	return false
}

// LoadWorkflow returns the persisted workflow, or an uninitialized one when
// nothing has been recorded yet.
func LoadWorkflow(root string) (*Workflow, error) {
	data, err := FS.ReadFile(filepath.Join(Dir(root), workflowFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Workflow{Phase: PhaseUninitialized}, nil
		}
		return nil, fmt.Errorf("read workflow: %w", err)
	}
	var w Workflow
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parse workflow: %w", err)
	}
	if _, ok := transitions[w.Phase]; !ok {
		return nil, fmt.Errorf("parse workflow: unknown phase %q", w.Phase)
	}
	return &w, nil
}

// Advance moves the workflow of root to phase and returns the phase it
// left. A disallowed move returns ErrInvalidTransition and changes nothing.
func Advance(root string, to Phase) (Phase, error) {
	w, err := LoadWorkflow(root)
	if err != nil {
		return "", err
	}
	from := w.Phase
	if !CanTransition(from, to) {
		return from, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if from == to {
		return from, nil
	}

	if err := FS.MkdirAll(Dir(root), 0o750); err != nil {
		return from, fmt.Errorf("create state directory: %w", err)
	}
	data, err := json.MarshalIndent(Workflow{Phase: to, UpdatedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return from, err
	}
	if err := engine.WriteFileAtomic(filepath.Join(Dir(root), workflowFile), append(data, '\n'), 0o644); err != nil {
		return from, fmt.Errorf("write workflow: %w", err)
	}
	return from, nil
}
