// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package overlap

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ISCDtoolbox/MPD-sub002/chem"
	"github.com/ISCDtoolbox/MPD-sub002/gauss"
	"github.com/ISCDtoolbox/MPD-sub002/mesh"
	"github.com/ISCDtoolbox/MPD-sub002/mpderr"
)

// Box is one axis-aligned cell of the interior domain. Over such a cell the
// integral of a fused Gaussian times Cartesian monomials separates into a
// product of one-dimensional Gaussian moments known in closed form, so the
// hexahedral path needs no numerical quadrature at all: PairOverlapBoxes is
// exact up to floating-point rounding.
type Box struct {
	Lo, Hi gauss.Vec3
}

// InteriorBoxes collects the Interior-labeled cells of a uniform grid as
// axis-aligned boxes, in hex-index order.
func InteriorBoxes(m *mesh.HexMesh) []Box {
	var out []Box
	for h, verts := range m.HexVerts {
		if m.HexLabels[h].Region != mesh.Interior {
			continue
		}
		v0 := m.Vertices[verts[0]]
		out = append(out, Box{
			Lo: gauss.Vec3{X: v0.X, Y: v0.Y, Z: v0.Z},
			Hi: gauss.Vec3{X: v0.X + m.DX, Y: v0.Y + m.DY, Z: v0.Z + m.DZ},
		})
	}
	return out
}

// binom holds the binomial coefficients up to the f·f per-axis monomial
// degree (3+3).
var binom = [7][7]float64{
	{1},
	{1, 1},
	{1, 2, 1},
	{1, 3, 3, 1},
	{1, 4, 6, 4, 1},
	{1, 5, 10, 10, 5, 1},
	{1, 6, 15, 20, 15, 6, 1},
}

// intPow returns d^n for small n >= 0, with d^0 == 1 even when d == 0.
func intPow(d float64, n int) float64 {
	r := 1.0
	for i := 0; i < n; i++ {
		r *= d
	}
	return r
}

// gaussMoments fills M[k] = ∫_l^h u^k exp(-gamma·u²) du for k = 0..len(M)-1,
// seeded by erf and advanced by the integration-by-parts recurrence
//
//	M_k = (l^{k-1} e^{-γl²} - h^{k-1} e^{-γh²})/(2γ) + (k-1)/(2γ)·M_{k-2}.
func gaussMoments(gamma, l, h float64, M []float64) {
	sg := math.Sqrt(gamma)
	M[0] = 0.5 * math.Sqrt(math.Pi/gamma) * (math.Erf(sg*h) - math.Erf(sg*l))
	if len(M) == 1 {
		return
	}
	el := math.Exp(-gamma * l * l)
	eh := math.Exp(-gamma * h * h)
	M[1] = (el - eh) / (2 * gamma)
	lp, hp := 1.0, 1.0 // l^{k-1}, h^{k-1}
	for k := 2; k < len(M); k++ {
		lp *= l
		hp *= h
		M[k] = (lp*el-hp*eh)/(2*gamma) + float64(k-1)/(2*gamma)*M[k-2]
	}
}

// axisIntegral returns ∫_lo^hi (x-a)^ea · (x-b)^eb · exp(-gamma·(x-p)²) dx:
// the monomials are shifted to the fused center p and expanded binomially,
// then contracted against the moments of the centered Gaussian.
func axisIntegral(gamma, p, a, b float64, ea, eb int, lo, hi float64) float64 {
	var M [7]float64
	gaussMoments(gamma, lo-p, hi-p, M[:ea+eb+1])
	da, db := p-a, p-b
	s := 0.0
	for i := 0; i <= ea; i++ {
		for j := 0; j <= eb; j++ {
			s += binom[ea][i] * binom[eb][j] * intPow(da, ea-i) * intPow(db, eb-j) * M[i+j]
		}
	}
	return s
}

// PairOverlapBoxes computes ⟨φ_i|φ_j⟩ over a union of axis-aligned boxes as
// a sum, over every pair of non-zero primitives, of products of
// one-dimensional Gaussian moments. No quadrature error is incurred; the
// result is exact up to floating-point rounding.
func PairOverlapBoxes(centers gauss.Centers, oi, oj chem.MolecularOrbital, boxes []Box) (float64, error) {
	const comp = "overlap.PairOverlapBoxes"
	total := 0.0
	for _, ip := range oi.PGauss {
		p := oi.Primitives[ip]
		if p.NucleusRef < 0 || p.NucleusRef >= len(centers) {
			return 0, mpderr.New(mpderr.InvalidChemistry, comp, p.NucleusRef, "primitive nucleus reference out of range")
		}
		ea, ok := gauss.MonomialExponents(p.Type)
		if !ok {
			return 0, mpderr.New(mpderr.InvalidChemistry, comp, int(p.Type), "primitive angular type must be in [1, 20]")
		}
		for _, jq := range oj.PGauss {
			q := oj.Primitives[jq]
			if q.NucleusRef < 0 || q.NucleusRef >= len(centers) {
				return 0, mpderr.New(mpderr.InvalidChemistry, comp, q.NucleusRef, "primitive nucleus reference out of range")
			}
			eb, ok := gauss.MonomialExponents(q.Type)
			if !ok {
				return 0, mpderr.New(mpderr.InvalidChemistry, comp, int(q.Type), "primitive angular type must be in [1, 20]")
			}
			A, B := centers[p.NucleusRef], centers[q.NucleusRef]
			fp := fusePrimitives(p, q, A, B)
			for _, bx := range boxes {
				v := fp.Prefactor
				v *= axisIntegral(fp.Gamma, fp.P.X, A.X, B.X, ea[0], eb[0], bx.Lo.X, bx.Hi.X)
				v *= axisIntegral(fp.Gamma, fp.P.Y, A.Y, B.Y, ea[1], eb[1], bx.Lo.Y, bx.Hi.Y)
				v *= axisIntegral(fp.Gamma, fp.P.Z, A.Z, B.Z, ea[2], eb[2], bx.Lo.Z, bx.Hi.Z)
				total += v
			}
		}
	}
	return total, nil
}

// PairwiseOverlapsBoxes computes O_ij for every orbital pair i<=j over the
// interior boxes and mirrors the symmetric entries.
func PairwiseOverlapsBoxes(centers gauss.Centers, cs chem.ChemicalSystem, boxes []Box) (*mat.SymDense, error) {
	n := cs.NMorb()
	O := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v, err := PairOverlapBoxes(centers, cs.MolecularOrb[i], cs.MolecularOrb[j], boxes)
			if err != nil {
				return nil, err
			}
			O.SetSym(i, j, v)
		}
	}
	return O, nil
}
