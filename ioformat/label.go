// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ioformat

import (
	"github.com/ISCDtoolbox/MPD-sub002/mesh"
	"github.com/ISCDtoolbox/MPD-sub002/mpderr"
)

// LabelToRef converts a mesh.CellLabel into its signed-integer Medit
// hexahedron reference: 2/3 for Exterior/Interior, or -2/-3 when Marked is
// set under `trick_matrix`. This conversion is isolated to the IO layer;
// the engine itself only ever sees the tagged Region+Marked value.
func LabelToRef(l mesh.CellLabel) int {
	n := int(l.Region)
	if l.Marked {
		n = -n
	}
	return n
}

// RefToLabel is LabelToRef's inverse. It fails with InvalidMesh if ref is
// not one of {2, 3, -2, -3}.
func RefToLabel(ref int) (mesh.CellLabel, error) {
	const comp = "ioformat.RefToLabel"
	switch ref {
	case int(mesh.Exterior):
		return mesh.CellLabel{Region: mesh.Exterior}, nil
	case int(mesh.Interior):
		return mesh.CellLabel{Region: mesh.Interior}, nil
	case -int(mesh.Exterior):
		return mesh.CellLabel{Region: mesh.Exterior, Marked: true}, nil
	case -int(mesh.Interior):
		return mesh.CellLabel{Region: mesh.Interior, Marked: true}, nil
	default:
		return mesh.CellLabel{}, mpderr.New(mpderr.InvalidMesh, comp, ref, "hex label must be one of {2, 3, -2, -3}")
	}
}

// HexMeshToMedit converts a mesh.HexMesh into the MeditMesh the .mesh
// writer consumes, applying the trick-matrix-aware label encoding.
func HexMeshToMedit(m *mesh.HexMesh) *MeditMesh {
	mm := &MeditMesh{Dimension: 3}
	mm.Vertices = append([]mesh.Vertex(nil), m.Vertices...)
	mm.Hexahedra = make([]LabeledHex, len(m.HexVerts))
	for i, hv := range m.HexVerts {
		var lh LabeledHex
		for k, vi := range hv {
			lh.Vertices[k] = vi + 1 // 1-based on the wire
		}
		lh.Ref = LabelToRef(m.HexLabels[i])
		mm.Hexahedra[i] = lh
	}
	return mm
}

// MeditToHexLabels re-ingests a remeshed MeditMesh's vertex coordinates and
// hexahedron references into an existing mesh.HexMesh, in place, provided
// the remesher preserved the uniform grid's vertex and hex counts (the case
// this engine's "met" and "ls" remesh steps rely on; a topology-changing
// remesh would require the TetMesh variant instead, out of this helper's
// scope). Fails with InvalidMesh on a count mismatch or an unrecognised
// hex reference.
func MeditToHexLabels(mm *MeditMesh, m *mesh.HexMesh) error {
	const comp = "ioformat.MeditToHexLabels"
	if len(mm.Vertices) != len(m.Vertices) {
		return mpderr.New(mpderr.InvalidMesh, comp, len(mm.Vertices),
			"remeshed vertex count must match the uniform grid vertex count")
	}
	if len(mm.Hexahedra) != len(m.HexVerts) {
		return mpderr.New(mpderr.InvalidMesh, comp, len(mm.Hexahedra),
			"remeshed hexahedron count must match the uniform grid hex count")
	}
	for i, v := range mm.Vertices {
		m.Vertices[i].X, m.Vertices[i].Y, m.Vertices[i].Z = v.X, v.Y, v.Z
	}
	for i, hx := range mm.Hexahedra {
		lbl, err := RefToLabel(hx.Ref)
		if err != nil {
			return err
		}
		m.HexLabels[i] = lbl
	}
	return nil
}
