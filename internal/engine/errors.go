// Copyright 2026 The MCPStack Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched with errors.Is.
var (
	ErrPathCollision   = errors.New("path collision")
	ErrIOFailure       = errors.New("i/o failure")
	ErrTemplateMissing = errors.New("template tree missing")
	ErrDirNotEmpty     = errors.New("directory holds entries outside the template")
)

// PathCollisionError reports template paths whose substituted path is
// already taken, either by another template path or by an existing entry.
type PathCollisionError struct {
	Path    string   // target path after substitution
	Sources []string // template paths that would land on Path
}

func (e *PathCollisionError) Error() string {
	return fmt.Sprintf("path collision: %s <- %s", e.Path, strings.Join(e.Sources, ", "))
}

// Is lets errors.Is(err, ErrPathCollision) match.
func (e *PathCollisionError) Is(target error) bool {
	return target == ErrPathCollision
}

// IOError wraps a read or write failure on a single path.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrIOFailure) match.
func (e *IOError) Is(target error) bool {
	return target == ErrIOFailure
}
