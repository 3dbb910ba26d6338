// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package overlap

import (
	"math"

	"github.com/ISCDtoolbox/MPD-sub002/gauss"
)

// tetNode is one quadrature node in barycentric coordinates over a
// tetrahedron (the four coordinates sum to 1), paired with its weight as a
// fraction of the tetrahedron's volume.
type tetNode struct {
	bary   [4]float64
	weight float64
}

// keast24 is the pre-tabulated 24-point symmetric tetrahedron rule of
// polynomial degree 6 (Keast 1986): exact for every monomial up to the f·f
// product degree. Three fully-symmetric orbits of 4 points plus one orbit
// of 12.
var keast24 = buildKeast24()

func buildKeast24() []tetNode {
	nodes := make([]tetNode, 0, 24)
	s31 := func(a, w float64) {
		d := 1 - 3*a
		nodes = append(nodes,
			tetNode{bary: [4]float64{d, a, a, a}, weight: w},
			tetNode{bary: [4]float64{a, d, a, a}, weight: w},
			tetNode{bary: [4]float64{a, a, d, a}, weight: w},
			tetNode{bary: [4]float64{a, a, a, d}, weight: w},
		)
	}
	s211 := func(a, b, w float64) {
		c := 1 - 2*a - b
		for pb := 0; pb < 4; pb++ {
			for pc := 0; pc < 4; pc++ {
				if pb == pc {
					continue
				}
				n := tetNode{bary: [4]float64{a, a, a, a}, weight: w}
				n.bary[pb] = b
				n.bary[pc] = c
				nodes = append(nodes, n)
			}
		}
	}
	s31(0.2146028712591520, 0.0399227502581679)
	s31(0.0406739585346113, 0.0100772110553207)
	s31(0.3223378901422757, 0.0553571815436544)
	s211(0.0636610018750175, 0.2696723314583159, 0.0482142857142857)
	return nodes
}

// tetVolume returns the (unsigned) volume of the tetrahedron with the given
// corners.
func tetVolume(v0, v1, v2, v3 gauss.Vec3) float64 {
	ax, ay, az := v1.X-v0.X, v1.Y-v0.Y, v1.Z-v0.Z
	bx, by, bz := v2.X-v0.X, v2.Y-v0.Y, v2.Z-v0.Z
	cx, cy, cz := v3.X-v0.X, v3.Y-v0.Y, v3.Z-v0.Z
	det := ax*(by*cz-bz*cy) - ay*(bx*cz-bz*cx) + az*(bx*cy-by*cx)
	if det < 0 {
		det = -det
	}
	return det / 6.0
}

func midpoint(a, b gauss.Vec3) gauss.Vec3 {
	return gauss.Vec3{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2, Z: (a.Z + b.Z) / 2}
}

// beySplit subdivides a tetrahedron into 8 equal-volume sub-tetrahedra via
// its edge midpoints: the four corner tetrahedra plus four carved from the
// inner octahedron along the m02-m13 diagonal. Every edge length halves per
// level, so the degree-6 rule's error contracts by roughly 2^-7 per split —
// the fast, monotone convergence the adaptive driver relies on.
func beySplit(v0, v1, v2, v3 gauss.Vec3) [8][4]gauss.Vec3 {
	m01 := midpoint(v0, v1)
	m02 := midpoint(v0, v2)
	m03 := midpoint(v0, v3)
	m12 := midpoint(v1, v2)
	m13 := midpoint(v1, v3)
	m23 := midpoint(v2, v3)
	return [8][4]gauss.Vec3{
		{v0, m01, m02, m03},
		{v1, m01, m12, m13},
		{v2, m02, m12, m23},
		{v3, m03, m13, m23},
		{m01, m02, m12, m13},
		{m01, m02, m03, m13},
		{m02, m03, m13, m23},
		{m02, m12, m13, m23},
	}
}

// integrateTet applies the degree-6 rule to f over one tetrahedron.
func integrateTet(v0, v1, v2, v3 gauss.Vec3, f func(gauss.Vec3) float64) float64 {
	vol := tetVolume(v0, v1, v2, v3)
	sum := 0.0
	for _, n := range keast24 {
		p := gauss.Vec3{
			X: n.bary[0]*v0.X + n.bary[1]*v1.X + n.bary[2]*v2.X + n.bary[3]*v3.X,
			Y: n.bary[0]*v0.Y + n.bary[1]*v1.Y + n.bary[2]*v2.Y + n.bary[3]*v3.Y,
			Z: n.bary[0]*v0.Z + n.bary[1]*v1.Z + n.bary[2]*v2.Z + n.bary[3]*v3.Z,
		}
		sum += n.weight * f(p)
	}
	return sum * vol
}

// QuadratureTol is the absolute tolerance each primitive-pair integral over
// a tetrahedralized domain is refined to. It sits well below the 1e-6
// precision the whole-system checks demand, leaving headroom for primitive
// coefficients and pair counts.
const QuadratureTol = 1e-9

// maxRefineDepth bounds the adaptive recursion; 12 halvings shrink edges by
// 4096x, past any sensible integrand scale for this engine.
const maxRefineDepth = 12

// integrateTetAdaptive refines one tetrahedron until the difference between
// the one-level and eight-sub-tetrahedra estimates drops below tol, then
// returns the fine estimate. Sub-tetrahedra that still disagree recurse
// with an eighth of the budget each, so the per-tet error bound is
// preserved down the tree.
func integrateTetAdaptive(t [4]gauss.Vec3, f func(gauss.Vec3) float64, tol float64, depth int) float64 {
	coarse := integrateTet(t[0], t[1], t[2], t[3], f)
	kids := beySplit(t[0], t[1], t[2], t[3])
	fine := 0.0
	for _, k := range kids {
		fine += integrateTet(k[0], k[1], k[2], k[3], f)
	}
	if math.Abs(fine-coarse) <= tol || depth >= maxRefineDepth {
		return fine
	}
	sum := 0.0
	for _, k := range kids {
		sum += integrateTetAdaptive(k, f, tol/8, depth+1)
	}
	return sum
}

// IntegrateOverTets sums f over a set of tetrahedra, adaptively refining
// each one until its share of the absolute tolerance tol is met. Regions
// where the integrand is flat (or already decayed to zero) pass on the
// first estimate; only tetrahedra straddling the integrand's support pay
// for depth.
func IntegrateOverTets(corners [][4]gauss.Vec3, tol float64, f func(gauss.Vec3) float64) float64 {
	if len(corners) == 0 {
		return 0
	}
	perTet := tol / float64(len(corners))
	total := 0.0
	for _, t := range corners {
		total += integrateTetAdaptive(t, f, perTet, 0)
	}
	return total
}
