// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package overlap implements the overlap-matrix engine: Gaussian-exact
// primitive-pair fusion, integration over Ω, per-determinant matrix
// assembly, and spectral storage. Two integration paths are provided: the
// hexahedral interior is a union of axis-aligned cells, over which each
// fused-Gaussian integral separates into closed-form one-dimensional
// Gaussian moments (moments.go — exact, no quadrature error), while a
// tetrahedralized interior uses a pre-tabulated degree-6 tetrahedron rule
// under adaptive refinement to a stated tolerance (quadrature.go). The
// eigendecomposition uses gonum.org/v1/gonum/mat's dense symmetric
// eigensolver (the same numeric concern gosl/la.Jacobi covers at 3x3 scale
// in package metric, but here at n_u x n_u scale, where a general-purpose
// dense solver fits).
package overlap

import (
	"math"

	"github.com/cpmech/gosl/utl"
	"gonum.org/v1/gonum/mat"

	"github.com/ISCDtoolbox/MPD-sub002/chem"
	"github.com/ISCDtoolbox/MPD-sub002/gauss"
	"github.com/ISCDtoolbox/MPD-sub002/mesh"
	"github.com/ISCDtoolbox/MPD-sub002/mpderr"
)

// TetCorners resolves a mesh's interior tetrahedra (as returned by
// mesh.TetrahedralizeInterior) into their vertex coordinates, the shape
// IntegrateOverTets and PairOverlap consume.
func TetCorners(m *mesh.HexMesh, tets []mesh.Tetrahedron) [][4]gauss.Vec3 {
	out := make([][4]gauss.Vec3, len(tets))
	for i, t := range tets {
		for k, vi := range t {
			v := m.Vertices[vi]
			out[i][k] = gauss.Vec3{X: v.X, Y: v.Y, Z: v.Z}
		}
	}
	return out
}

// fusedPair is the result of the Gaussian product theorem applied to two
// primitives: a single Gaussian at the weighted center P with
// exponent γ = α+β, times exp(−αβ‖A−B‖²/(α+β)).
type fusedPair struct {
	P         gauss.Vec3
	Gamma     float64
	Prefactor float64
}

func fusePrimitives(a, b chem.Primitive, centerA, centerB gauss.Vec3) fusedPair {
	alpha, beta := a.Exponent, b.Exponent
	gamma := alpha + beta
	wA, wB := alpha/gamma, beta/gamma
	P := gauss.Vec3{
		X: wA*centerA.X + wB*centerB.X,
		Y: wA*centerA.Y + wB*centerB.Y,
		Z: wA*centerA.Z + wB*centerB.Z,
	}
	dx, dy, dz := centerA.X-centerB.X, centerA.Y-centerB.Y, centerA.Z-centerB.Z
	d2 := dx*dx + dy*dy + dz*dz
	prefactor := a.Coeff * b.Coeff * math.Exp(-alpha*beta*d2/gamma)
	return fusedPair{P: P, Gamma: gamma, Prefactor: prefactor}
}

// PairOverlap computes ⟨φ_i|φ_j⟩_Ω by summing, over every pair of non-zero
// primitives (p ∈ φ_i, q ∈ φ_j), the fused-Gaussian integral over the
// interior tetrahedra, each refined adaptively to QuadratureTol. For an
// axis-aligned hexahedral interior, PairOverlapBoxes is exact and cheaper.
func PairOverlap(centers gauss.Centers, oi, oj chem.MolecularOrbital, tets [][4]gauss.Vec3) (float64, error) {
	total := 0.0
	for _, ip := range oi.PGauss {
		p := oi.Primitives[ip]
		if p.NucleusRef < 0 || p.NucleusRef >= len(centers) {
			return 0, mpderr.New(mpderr.InvalidChemistry, "overlap.PairOverlap", p.NucleusRef, "primitive nucleus reference out of range")
		}
		for _, jq := range oj.PGauss {
			q := oj.Primitives[jq]
			if q.NucleusRef < 0 || q.NucleusRef >= len(centers) {
				return 0, mpderr.New(mpderr.InvalidChemistry, "overlap.PairOverlap", q.NucleusRef, "primitive nucleus reference out of range")
			}
			fp := fusePrimitives(p, q, centers[p.NucleusRef], centers[q.NucleusRef])
			Ap, Bq := centers[p.NucleusRef], centers[q.NucleusRef]
			integrand := func(x gauss.Vec3) float64 {
				mp, ok := gauss.MonomialValue(p.Type, x.X-Ap.X, x.Y-Ap.Y, x.Z-Ap.Z)
				if !ok {
					return 0
				}
				mq, ok := gauss.MonomialValue(q.Type, x.X-Bq.X, x.Y-Bq.Y, x.Z-Bq.Z)
				if !ok {
					return 0
				}
				dx, dy, dz := x.X-fp.P.X, x.Y-fp.P.Y, x.Z-fp.P.Z
				return mp * mq * math.Exp(-fp.Gamma*(dx*dx+dy*dy+dz*dz))
			}
			total += fp.Prefactor * IntegrateOverTets(tets, QuadratureTol, integrand)
		}
	}
	return total, nil
}

// PairwiseOverlaps computes O_ij for every orbital pair i<=j and mirrors the
// symmetric entries, returning a dense nmorb x nmorb matrix.
func PairwiseOverlaps(centers gauss.Centers, cs chem.ChemicalSystem, tets [][4]gauss.Vec3) (*mat.SymDense, error) {
	n := cs.NMorb()
	O := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v, err := PairOverlap(centers, cs.MolecularOrb[i], cs.MolecularOrb[j], tets)
			if err != nil {
				return nil, err
			}
			O.SetSym(i, j, v)
		}
	}
	return O, nil
}

// Matrix is a per-determinant-pair n_u x n_u overlap matrix plus its
// eigendecomposition and metadata.
type Matrix struct {
	NU   int
	DetI int
	DetJ int
	RHF  bool
	Cmat float64    // multiplicative prefactor (product of the two determinant coefficients)
	Coef *mat.Dense // orthonormal eigenvectors, column-major (V)
	Diag []float64  // eigenvalues (D)

	// LVect and RVect are the left/right auxiliary buffers the probability
	// engine swaps between while evaluating the characteristic polynomial.
	// They are scratch owned by this matrix and released with it; no
	// content outlives one evaluation.
	LVect []float64
	RVect []float64
}

// BuildDeterminantMatrix assembles O^(D,D') from the pairwise orbital
// overlaps using the determinants' canonically reordered orbital
// references, and eigendecomposes it.
//
// Fails with NumericalError if the symmetric eigensolver does not converge.
func BuildDeterminantMatrix(pairwise *mat.SymDense, di, dj int, detI, detJ chem.Determinant) (Matrix, error) {
	const comp = "overlap.BuildDeterminantMatrix"
	nu := len(detI.OrbitalRefs)
	if nu != len(detJ.OrbitalRefs) {
		return Matrix{}, mpderr.New(mpderr.InvalidChemistry, comp, nu, "paired determinants must reference the same number of orbitals")
	}

	// Determinants are stored with an arbitrary but fixed orbital order,
	// and swapping two orbitals flips cdet's sign; sorting both here makes
	// every (k,l) index below independent of the order the input file
	// happened to list orbitals in.
	detI = detI.Canonical()
	detJ = detJ.Canonical()

	sub := utl.Alloc(nu, nu)
	for k := 0; k < nu; k++ {
		for l := 0; l < nu; l++ {
			sub[k][l] = pairwise.At(detI.OrbitalRefs[k], detJ.OrbitalRefs[l])
		}
	}
	// symmetrize defensively: O^(D,D) is exactly symmetric; O^(D,D') for
	// D != D' need not be, but the spectral storage this package offers is
	// only meaningful for the symmetric case the probability functional
	// uses (one determinant at a time).
	sym := mat.NewSymDense(nu, nil)
	for k := 0; k < nu; k++ {
		for l := k; l < nu; l++ {
			sym.SetSym(k, l, (sub[k][l]+sub[l][k])/2)
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(sym, true); !ok {
		return Matrix{}, mpderr.New(mpderr.NumericalError, comp, nil, "symmetric eigensolver did not converge")
	}
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	return Matrix{
		NU:    nu,
		DetI:  di,
		DetJ:  dj,
		RHF:   detI.RHF && detJ.RHF,
		Cmat:  detI.Coeff * detJ.Coeff,
		Coef:  &vectors,
		Diag:  append([]float64(nil), eig.Values(nil)...),
		LVect: make([]float64, nu+1),
		RVect: make([]float64, nu+1),
	}, nil
}

// Trace returns trace(O), which must equal the sum of the per-orbital
// self-overlaps the matrix was assembled from.
func (m Matrix) Trace() float64 {
	s := 0.0
	for _, d := range m.Diag {
		s += d
	}
	return s
}
