// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ioformat reads and writes the external file formats the
// adaptation loop round-trips: the Medit `.mesh` mesh format and its
// companion `.sol` scalar-per-vertex format, plus the scoped rename helper
// the orchestrator uses around the external remesher call. The wire format
// is a fixed-keyword ASCII grammar, so the decoder is a small hand-written
// scanner built on bufio/strconv rather than encoding/json.
package ioformat

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/io"

	"github.com/ISCDtoolbox/MPD-sub002/mesh"
	"github.com/ISCDtoolbox/MPD-sub002/mpderr"
)

// LabeledQuad is a Medit "Quadrilaterals" entry: four 1-based vertex
// indices plus a reference label (here, the Exterior/Interior CellLabel
// cast to int).
type LabeledQuad struct {
	Vertices [4]int
	Ref      int
}

// LabeledHex is a Medit "Hexahedra" entry: eight 1-based vertex indices plus
// a reference label.
type LabeledHex struct {
	Vertices [8]int
	Ref      int
}

// MeditMesh is the subset of the Medit `.mesh` grammar this engine reads and
// writes: vertices plus hexahedra and/or quadrilaterals. Other sections
// (Triangles, Tetrahedra, Edges, Normals, Tangents) are skipped by ReadMesh
// and not kept, so WriteMesh does not write them back.
type MeditMesh struct {
	Dimension int
	Vertices  []mesh.Vertex // Value is unused here; kept only for X,Y,Z
	Hexahedra []LabeledHex
	Quads     []LabeledQuad
}

// ReadMesh parses a Medit `.mesh` file's Dimension, Vertices, Hexahedra and
// Quadrilaterals sections. Unrecognized keywords are skipped, not
// rejected, since a real upstream `.mesh` may carry sections (Triangles,
// Tetrahedra, ...) this engine's hexahedral path never touches.
func ReadMesh(path string) (*MeditMesh, error) {
	const comp = "ioformat.ReadMesh"
	raw, err := io.ReadFile(path)
	if err != nil {
		return nil, mpderr.New(mpderr.FileSystemError, comp, path, "cannot read mesh file: %v", err)
	}

	m := &MeditMesh{Dimension: 3}
	sc := bufio.NewScanner(bytes.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	readInt := func() (int, bool) {
		for sc.Scan() {
			tok := strings.TrimSpace(sc.Text())
			if tok == "" {
				continue
			}
			n, convErr := strconv.Atoi(tok)
			return n, convErr == nil
		}
		return 0, false
	}

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case "Dimension":
			n, ok := readInt()
			if !ok {
				return nil, mpderr.New(mpderr.InvalidMesh, comp, path, "malformed Dimension section")
			}
			m.Dimension = n
		case "Vertices":
			n, ok := readInt()
			if !ok {
				return nil, mpderr.New(mpderr.InvalidMesh, comp, path, "malformed Vertices count")
			}
			m.Vertices = make([]mesh.Vertex, n)
			for i := 0; i < n; i++ {
				if !sc.Scan() {
					return nil, mpderr.New(mpderr.InvalidMesh, comp, path, "truncated Vertices section")
				}
				fields := strings.Fields(sc.Text())
				if len(fields) < 3 {
					return nil, mpderr.New(mpderr.InvalidMesh, comp, sc.Text(), "malformed vertex line")
				}
				x, ex := strconv.ParseFloat(fields[0], 64)
				y, ey := strconv.ParseFloat(fields[1], 64)
				z, ez := strconv.ParseFloat(fields[2], 64)
				if ex != nil || ey != nil || ez != nil {
					return nil, mpderr.New(mpderr.InvalidMesh, comp, sc.Text(), "malformed vertex coordinates")
				}
				m.Vertices[i] = mesh.Vertex{X: x, Y: y, Z: z}
			}
		case "Hexahedra":
			n, ok := readInt()
			if !ok {
				return nil, mpderr.New(mpderr.InvalidMesh, comp, path, "malformed Hexahedra count")
			}
			m.Hexahedra = make([]LabeledHex, n)
			for i := 0; i < n; i++ {
				if !sc.Scan() {
					return nil, mpderr.New(mpderr.InvalidMesh, comp, path, "truncated Hexahedra section")
				}
				fields := strings.Fields(sc.Text())
				if len(fields) < 9 {
					return nil, mpderr.New(mpderr.InvalidMesh, comp, sc.Text(), "malformed hexahedron line")
				}
				var hx LabeledHex
				for k := 0; k < 8; k++ {
					v, convErr := strconv.Atoi(fields[k])
					if convErr != nil {
						return nil, mpderr.New(mpderr.InvalidMesh, comp, sc.Text(), "malformed hexahedron vertex index")
					}
					hx.Vertices[k] = v
				}
				ref, convErr := strconv.Atoi(fields[8])
				if convErr != nil {
					return nil, mpderr.New(mpderr.InvalidMesh, comp, sc.Text(), "malformed hexahedron reference")
				}
				hx.Ref = ref
				m.Hexahedra[i] = hx
			}
		case "Quadrilaterals":
			n, ok := readInt()
			if !ok {
				return nil, mpderr.New(mpderr.InvalidMesh, comp, path, "malformed Quadrilaterals count")
			}
			m.Quads = make([]LabeledQuad, n)
			for i := 0; i < n; i++ {
				if !sc.Scan() {
					return nil, mpderr.New(mpderr.InvalidMesh, comp, path, "truncated Quadrilaterals section")
				}
				fields := strings.Fields(sc.Text())
				if len(fields) < 5 {
					return nil, mpderr.New(mpderr.InvalidMesh, comp, sc.Text(), "malformed quadrilateral line")
				}
				var q LabeledQuad
				for k := 0; k < 4; k++ {
					v, convErr := strconv.Atoi(fields[k])
					if convErr != nil {
						return nil, mpderr.New(mpderr.InvalidMesh, comp, sc.Text(), "malformed quadrilateral vertex index")
					}
					q.Vertices[k] = v
				}
				ref, convErr := strconv.Atoi(fields[4])
				if convErr != nil {
					return nil, mpderr.New(mpderr.InvalidMesh, comp, sc.Text(), "malformed quadrilateral reference")
				}
				q.Ref = ref
				m.Quads[i] = q
			}
		case "End":
			return m, nil
		default:
			// skip any unrecognized section/keyword line verbatim.
		}
	}
	return m, nil
}

// WriteMesh serializes m to Medit ASCII `.mesh` format, 1-based indices,
// coordinates at 8 significant figures so a write-then-read round trip
// reproduces them.
func WriteMesh(path string, m *MeditMesh) error {
	const comp = "ioformat.WriteMesh"
	var b strings.Builder
	fmt.Fprintf(&b, "MeshVersionFormatted 2\n\nDimension %d\n\n", m.Dimension)

	fmt.Fprintf(&b, "Vertices\n%d\n", len(m.Vertices))
	for _, v := range m.Vertices {
		fmt.Fprintf(&b, "%.8e %.8e %.8e 0\n", v.X, v.Y, v.Z)
	}
	b.WriteString("\n")

	if len(m.Hexahedra) > 0 {
		fmt.Fprintf(&b, "Hexahedra\n%d\n", len(m.Hexahedra))
		for _, h := range m.Hexahedra {
			for _, vi := range h.Vertices {
				fmt.Fprintf(&b, "%d ", vi)
			}
			fmt.Fprintf(&b, "%d\n", h.Ref)
		}
		b.WriteString("\n")
	}

	if len(m.Quads) > 0 {
		fmt.Fprintf(&b, "Quadrilaterals\n%d\n", len(m.Quads))
		for _, q := range m.Quads {
			for _, vi := range q.Vertices {
				fmt.Fprintf(&b, "%d ", vi)
			}
			fmt.Fprintf(&b, "%d\n", q.Ref)
		}
		b.WriteString("\n")
	}

	b.WriteString("End\n")
	if err := writeFile(path, b.String()); err != nil {
		return mpderr.New(mpderr.FileSystemError, comp, path, "cannot write mesh file: %v", err)
	}
	return nil
}
