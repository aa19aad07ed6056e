// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package status implements the error taxonomy shared by every operator and
// store in the adaptation engine. Every fallible call returns a *S (or nil
// on success) instead of panicking; only truly unrecoverable conditions
// (detected by the caller, never by status itself) propagate further.
package status

import (
	"runtime"

	"github.com/cpmech/gosl/io"
)

// Kind enumerates the error taxonomy of §7.
type Kind int

const (
	// InvalidArgument marks a caller-supplied value outside its valid domain.
	InvalidArgument Kind = iota
	// NotFound marks a lookup (global id, association, cad entity) that failed.
	NotFound
	// DivByZero marks a degenerate algebraic operation (zero-length edge, singular metric).
	DivByZero
	// ImplementMissing marks a code path intentionally left unimplemented (e.g. hex/prism adaptation).
	ImplementMissing
	// InvariantViolated marks a local, recoverable rejection: no mutation occurred.
	InvariantViolated
	// IOFailure marks a failed read/write of mesh, metric or CAD files.
	IOFailure
	// CADFailure marks a CAD kernel evaluation failure (e.g. NaN from eval/inverse_eval).
	CADFailure
)

// String names a Kind for diagnostics.
func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "InvalidArgument"
	case NotFound:
		return "NotFound"
	case DivByZero:
		return "DivByZero"
	case ImplementMissing:
		return "ImplementMissing"
	case InvariantViolated:
		return "InvariantViolated"
	case IOFailure:
		return "IOFailure"
	case CADFailure:
		return "CADFailure"
	}
	return "Unknown"
}

// Recoverable reports whether the pass loop should simply skip the entity
// and retry next pass (true) or abort the run (false).
func (k Kind) Recoverable() bool {
	return k == InvariantViolated
}

// S is the status carried by every two-return operator call: kind, message
// and the call site that raised it.
type S struct {
	Kind Kind
	Msg  string
	File string
	Line int
	Func string
}

// Error implements the error interface so *S can be passed wherever Go code
// expects one.
func (s *S) Error() string {
	if s == nil {
		return ""
	}
	return io.Sf("%s:%d: %s: %s (in %s)", s.File, s.Line, s.Kind, s.Msg, s.Func)
}

// New builds a status at the caller's location, mirroring gofem's
// utl.CallerInfo convention.
func New(kind Kind, msg string, prm ...interface{}) *S {
	pc, file, line, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	fname := "?"
	if fn != nil {
		fname = fn.Name()
	}
	return &S{Kind: kind, Msg: io.Sf(msg, prm...), File: file, Line: line, Func: fname}
}

// Ok is the canonical "no error" status: a nil *S.
var Ok *S

// Report prints the §7 user-visible single-line diagnostic: filename, line,
// function, kind and message.
func Report(s *S) {
	if s == nil {
		return
	}
	io.PfRed("ERROR %s:%d %s: [%s] %s\n", s.File, s.Line, s.Func, s.Kind, s.Msg)
}
