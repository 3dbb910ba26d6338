// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ioformat

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/stretchr/testify/assert"

	"github.com/ISCDtoolbox/MPD-sub002/mesh"
)

func Test_mesh_round_trip(tst *testing.T) {
	chk.PrintTitle("writing then reading a .mesh file round-trips vertices and hexahedra exactly")

	dir := tst.TempDir()
	path := filepath.Join(dir, "sample.mesh")

	original := &MeditMesh{
		Dimension: 3,
		Vertices: []mesh.Vertex{
			{X: 0, Y: 0, Z: 0},
			{X: 1.23456789, Y: -2.3456789, Z: 3.456789},
			{X: -1, Y: 1, Z: -1},
		},
		Hexahedra: []LabeledHex{
			{Vertices: [8]int{1, 2, 3, 1, 1, 2, 3, 1}, Ref: 3},
		},
		Quads: []LabeledQuad{
			{Vertices: [4]int{1, 2, 3, 1}, Ref: 2},
		},
	}

	if err := WriteMesh(path, original); err != nil {
		tst.Fatalf("WriteMesh failed: %v", err)
	}

	roundTripped, err := ReadMesh(path)
	if err != nil {
		tst.Fatalf("ReadMesh failed: %v", err)
	}

	assert.Equal(tst, len(original.Vertices), len(roundTripped.Vertices))
	for i, v := range original.Vertices {
		got := roundTripped.Vertices[i]
		if math.Abs(got.X-v.X) > 1e-7 || math.Abs(got.Y-v.Y) > 1e-7 || math.Abs(got.Z-v.Z) > 1e-7 {
			tst.Errorf("vertex %d round-trip mismatch: want %+v got %+v", i, v, got)
		}
	}
	assert.Equal(tst, original.Hexahedra, roundTripped.Hexahedra)
	assert.Equal(tst, original.Quads, roundTripped.Quads)
}

func Test_sol_round_trip(tst *testing.T) {
	chk.PrintTitle("writing then reading a .sol file round-trips scalar values")

	dir := tst.TempDir()
	path := filepath.Join(dir, "sample.sol")

	values := []float64{0.1, -2.5, 3.14159265, 0.0}
	if err := WriteSol(path, values); err != nil {
		tst.Fatalf("WriteSol failed: %v", err)
	}

	got, err := ReadSol(path)
	if err != nil {
		tst.Fatalf("ReadSol failed: %v", err)
	}
	assert.Equal(tst, len(values), len(got))
	for i, v := range values {
		if math.Abs(got[i]-v) > 1e-7 {
			tst.Errorf("value %d round-trip mismatch: want %v got %v", i, v, got[i])
		}
	}
}

func Test_scoped_rename_restores_original_name(tst *testing.T) {
	chk.PrintTitle("ScopedRename.Close renames the working file back to its original name")

	dir := tst.TempDir()
	original := filepath.Join(dir, "domain.mesh")
	working := filepath.Join(dir, "metric.mesh")
	if err := os.WriteFile(original, []byte("placeholder"), 0o644); err != nil {
		tst.Fatalf("setup failed: %v", err)
	}

	sr, err := BeginRename(original, working)
	if err != nil {
		tst.Fatalf("BeginRename failed: %v", err)
	}
	if _, err := os.Stat(working); err != nil {
		tst.Fatalf("expected working file to exist after BeginRename: %v", err)
	}
	if err := sr.Close(); err != nil {
		tst.Fatalf("Close failed: %v", err)
	}
	if _, err := os.Stat(original); err != nil {
		tst.Fatalf("expected original file restored after Close: %v", err)
	}
	if _, err := os.Stat(working); err == nil {
		tst.Fatalf("expected working file to no longer exist after Close")
	}
}

func Test_scoped_rename_close_is_idempotent(tst *testing.T) {
	chk.PrintTitle("ScopedRename.Close is a no-op on a second call")

	dir := tst.TempDir()
	original := filepath.Join(dir, "domain.mesh")
	working := filepath.Join(dir, "metric.mesh")
	if err := os.WriteFile(original, []byte("placeholder"), 0o644); err != nil {
		tst.Fatalf("setup failed: %v", err)
	}

	sr, err := BeginRename(original, working)
	if err != nil {
		tst.Fatalf("BeginRename failed: %v", err)
	}
	if err := sr.Close(); err != nil {
		tst.Fatalf("first Close failed: %v", err)
	}
	if err := sr.Close(); err != nil {
		tst.Fatalf("second Close should be a no-op, got: %v", err)
	}
}

func Test_begin_rename_rejects_reserved_original_name(tst *testing.T) {
	chk.PrintTitle("BeginRename rejects a user-supplied name equal to a reserved working name")

	dir := tst.TempDir()
	original := filepath.Join(dir, "metric.mesh")
	if err := os.WriteFile(original, []byte("placeholder"), 0o644); err != nil {
		tst.Fatalf("setup failed: %v", err)
	}

	if _, err := BeginRename(original, filepath.Join(dir, "metric.mesh.working")); err == nil {
		tst.Errorf("expected a FileSystemError for a reserved original name")
	}
	if _, err := os.Stat(original); err != nil {
		tst.Errorf("the original file must be left untouched when BeginRename rejects it")
	}
}
