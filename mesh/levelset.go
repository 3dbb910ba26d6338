// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"math"

	"github.com/cpmech/gosl/gm"
	"github.com/cpmech/gosl/utl"

	"github.com/ISCDtoolbox/MPD-sub002/mpderr"
)

// ShapeKind selects the starting-domain shape.
type ShapeKind int

const (
	ShapeCube ShapeKind = iota
	ShapeSphere
)

// Shape describes a centered cube of side r, or a sphere of radius r.
type Shape struct {
	Kind       ShapeKind
	Cx, Cy, Cz float64
	R          float64
}

// NewShape validates r > 0.
func NewShape(kind ShapeKind, cx, cy, cz, r float64) (Shape, error) {
	if r <= 0 {
		return Shape{}, mpderr.New(mpderr.InvalidArgument, "mesh.NewShape", r, "shape radius/side r must be > 0")
	}
	return Shape{Kind: kind, Cx: cx, Cy: cy, Cz: cz, R: r}, nil
}

// SignedDistance evaluates Φ(x) at an arbitrary point.
//
// Sphere: Φ(x) = ‖x − c‖ − r.
// Cube (exact signed distance): let d_α = max(x_α−(c_α+r/2), (c_α−r/2)−x_α).
// Outside: Φ = ‖max(d,0)‖₂; inside: Φ = max(d_α).
func (s Shape) SignedDistance(x, y, z float64) float64 {
	switch s.Kind {
	case ShapeSphere:
		return gm.DistPointPoint(&gm.Point{X: x, Y: y, Z: z}, &gm.Point{X: s.Cx, Y: s.Cy, Z: s.Cz}) - s.R
	default: // ShapeCube
		half := s.R / 2
		dxv := utl.Max(x-(s.Cx+half), (s.Cx-half)-x)
		dyv := utl.Max(y-(s.Cy+half), (s.Cy-half)-y)
		dzv := utl.Max(z-(s.Cz+half), (s.Cz-half)-z)
		inside := dxv <= 0 && dyv <= 0 && dzv <= 0
		if inside {
			return utl.Max(dxv, utl.Max(dyv, dzv))
		}
		ox, oy, oz := utl.Max(dxv, 0), utl.Max(dyv, 0), utl.Max(dzv, 0)
		return math.Sqrt(ox*ox + oy*oy + oz*oz)
	}
}

// Inside reports whether the point lies strictly inside the shape.
func (s Shape) Inside(x, y, z float64) bool {
	return s.SignedDistance(x, y, z) < 0
}

// BuildLevelSetTet samples Φ at every vertex of a TetMesh.
func BuildLevelSetTet(t *TetMesh, s Shape) {
	for i := range t.Vertices {
		v := &t.Vertices[i]
		v.Value = s.SignedDistance(v.X, v.Y, v.Z)
	}
}

// BuildLevelSetHex labels every hex of a HexMesh Interior or Exterior
// based on whether its centroid lies inside the shape.
func BuildLevelSetHex(m *HexMesh, s Shape) {
	for i := range m.HexLabels {
		c := m.Centroid(i)
		if s.Inside(c.X, c.Y, c.Z) {
			m.HexLabels[i] = CellLabel{Region: Interior}
		} else {
			m.HexLabels[i] = CellLabel{Region: Exterior}
		}
	}
}
