// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ioformat

import (
	"os"
	"path/filepath"

	"github.com/ISCDtoolbox/MPD-sub002/config"
	"github.com/ISCDtoolbox/MPD-sub002/mpderr"
)

// ScopedRename performs the atomic rename dance the orchestrator needs
// around every external-tool invocation: a user's `X.mesh` is renamed to a
// reserved working name (`metric.mesh`) before the external tool runs, and
// renamed back
// on every exit path, so a crash mid-tool-run never leaves a half-renamed
// file observable. Plain os.Rename is used here rather than a gosl helper:
// gosl/io has no atomic-rename wrapper, and os.Rename already is an atomic
// syscall on every platform this engine targets.
type ScopedRename struct {
	original string
	working  string
	active   bool
}

// BeginRename renames original to working, after checking that the
// user-supplied original does not itself collide with a reserved
// orchestrator file name — a collision must be rejected before any file is
// touched.
func BeginRename(original, working string) (*ScopedRename, error) {
	const comp = "ioformat.BeginRename"
	if err := config.CheckReservedName(filepath.Base(original)); err != nil {
		return nil, err
	}
	if err := os.Rename(original, working); err != nil {
		return nil, mpderr.New(mpderr.FileSystemError, comp, original, "cannot rename to working file: %v", err)
	}
	return &ScopedRename{original: original, working: working, active: true}, nil
}

// Close renames the working file back to its original name. It is safe to
// call more than once; only the first call performs the rename. Callers
// should defer Close immediately after a successful BeginRename so every
// exit path — including a panic recovered higher up, or an early error
// return — restores the original name.
func (s *ScopedRename) Close() error {
	const comp = "ioformat.ScopedRename.Close"
	if s == nil || !s.active {
		return nil
	}
	s.active = false
	if err := os.Rename(s.working, s.original); err != nil {
		return mpderr.New(mpderr.FileSystemError, comp, s.working, "cannot rename working file back: %v", err)
	}
	return nil
}
