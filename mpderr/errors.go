// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mpderr defines the typed error kinds surfaced by every MPD core
// component, layered on top of gosl/chk's error helper.
package mpderr

import (
	"fmt"

	"github.com/cpmech/gosl/chk"
)

// Kind identifies which documented failure mode produced an error.
type Kind int

// Recognised error kinds. Every core component aborts with exactly one of
// these; none are recovered internally.
const (
	InvalidArgument Kind = iota
	InvalidMesh
	InvalidChemistry
	NumericalError
	FileSystemError
	ExternalToolFailure
	ConfigError
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "InvalidArgument"
	case InvalidMesh:
		return "InvalidMesh"
	case InvalidChemistry:
		return "InvalidChemistry"
	case NumericalError:
		return "NumericalError"
	case FileSystemError:
		return "FileSystemError"
	case ExternalToolFailure:
		return "ExternalToolFailure"
	case ConfigError:
		return "ConfigError"
	default:
		return "UnknownKind"
	}
}

// Error wraps a typed failure: which component raised it, what invariant or
// tool failed, and the offending value. Component and Value are used to
// build the single diagnostic line reported before the process exits.
type Error struct {
	Kind      Kind
	Component string
	Message   string
	Value     interface{}
}

func (e *Error) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s[%s]: %s (value=%v)", e.Component, e.Kind, e.Message, e.Value)
	}
	return fmt.Sprintf("%s[%s]: %s", e.Component, e.Kind, e.Message)
}

// New builds an *Error, formatting Message the way chk.Err does.
func New(kind Kind, component string, value interface{}, format string, args ...interface{}) error {
	return &Error{
		Kind:      kind,
		Component: component,
		Message:   fmt.Sprintf(format, args...),
		Value:     value,
	}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}

// Wrap converts a generic error from a collaborator (e.g. a failed
// gosl/io.ReadFile) into an *Error of the given kind unless it already
// carries a kind, in which case it is returned unchanged.
func Wrap(kind Kind, component string, err error) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return New(kind, component, nil, "%v", err)
}

// Panic mirrors chk.Panic for contract violations at API boundaries that a
// caller cannot plausibly recover from (e.g. an out-of-range 0-based index
// reaching an internal helper that trusts its invariants, per the Design
// Notes on "exception-for-error-code" replacement).
func Panic(format string, args ...interface{}) {
	chk.Panic(format, args...)
}
