// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package population implements the probability functional P_{n_u}(Ω) and
// its shape derivative, plus an optional per-nucleus population breakdown.
// It consumes the spectral data package overlap produces — eigenvalues,
// eigenvectors and the lvect/rvect evaluation buffers — directly.
package population

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ISCDtoolbox/MPD-sub002/chem"
	"github.com/ISCDtoolbox/MPD-sub002/gauss"
	"github.com/ISCDtoolbox/MPD-sub002/mpderr"
	"github.com/ISCDtoolbox/MPD-sub002/overlap"
)

// charPolyCoeff returns the coefficient of z^nu in ∏_k ((1−λ_k) + λ_k·z),
// built by iterative convolution between the two swap buffers. Each
// eigenvalue λ_k contributes a factor whose constant term is the
// probability of NOT finding that natural orbital's electron in Ω and
// whose z term is the probability of finding it, so the z^{n_u}
// coefficient is the probability of exactly n_u electrons inside. The
// buffers are the matrix's own lvect/rvect scratch when available.
func charPolyCoeff(diag []float64, nu int, lvect, rvect []float64) float64 {
	n := len(diag)
	if len(lvect) < n+1 {
		lvect = make([]float64, n+1)
	}
	if len(rvect) < n+1 {
		rvect = make([]float64, n+1)
	}
	for i := 0; i <= n; i++ {
		lvect[i] = 0
	}
	lvect[0] = 1
	cur, next := lvect, rvect
	for deg, lambda := range diag {
		for i := 0; i <= deg+1; i++ {
			next[i] = 0
		}
		for i := 0; i <= deg; i++ {
			next[i] += cur[i] * (1 - lambda)
			next[i+1] += cur[i] * lambda
		}
		cur, next = next, cur
	}
	return cur[nu]
}

// DeterminantProbability returns the probability contribution of a single
// determinant-pair overlap matrix, already weighted by its stored
// determinant-coefficient product (Matrix.Cmat). For a normalised single
// determinant the contributions over nu = 0..n_u sum to 1.
func DeterminantProbability(m overlap.Matrix, nu int) (float64, error) {
	if nu < 0 || nu > m.NU {
		return 0, mpderr.New(mpderr.InvalidArgument, "population.DeterminantProbability", nu,
			"nu_electrons must be in [0, n_u] for this determinant")
	}
	return m.Cmat * charPolyCoeff(m.Diag, nu, m.LVect, m.RVect), nil
}

// Probability sums DeterminantProbability over every determinant pair: the
// multi-determinant probability is a bilinear form in the determinant
// coefficients.
func Probability(matrices []overlap.Matrix, nu int) (float64, error) {
	total := 0.0
	for _, m := range matrices {
		p, err := DeterminantProbability(m, nu)
		if err != nil {
			return 0, err
		}
		total += p
	}
	return total, nil
}

// adjugateEigenvalues returns, for each eigenvalue index, the product of all
// the OTHER eigenvalues: the eigenvalue Adj(O) carries in the same
// eigenbasis as O, since a symmetric matrix and its adjugate commute and
// therefore share eigenvectors.
func adjugateEigenvalues(diag []float64) []float64 {
	n := len(diag)
	adj := make([]float64, n)
	for k := 0; k < n; k++ {
		prod := 1.0
		for j := 0; j < n; j++ {
			if j != k {
				prod *= diag[j]
			}
		}
		adj[k] = prod
	}
	return adj
}

// AdjugateMatrix reconstructs Adj(O) = V·diag(adjEig)·Vᵀ from a Matrix's
// stored eigenbasis.
func AdjugateMatrix(m overlap.Matrix) *mat.Dense {
	adjEig := adjugateEigenvalues(m.Diag)
	n := m.NU
	adj := mat.NewDense(n, n, nil)
	for k := 0; k < n; k++ {
		for l := 0; l < n; l++ {
			s := 0.0
			for p := 0; p < n; p++ {
				s += m.Coef.At(k, p) * adjEig[p] * m.Coef.At(l, p)
			}
			adj.Set(k, l, s)
		}
	}
	return adj
}

// boundarySpeed evaluates trace(Adj(O)·(φ_i·φ_j)(s)) at one boundary vertex
// for a single determinant, summing over every pair of its occupied
// orbitals. Only the orbital product value at s is needed (not its
// gradient/Hessian — those drive the metric in package metric, a different
// consumer of gauss.Product).
func boundarySpeed(centers gauss.Centers, cs chem.ChemicalSystem, det chem.Determinant, adj *mat.Dense, point gauss.Vec3) (float64, error) {
	n := len(det.OrbitalRefs)
	total := 0.0
	for k := 0; k < n; k++ {
		oi := cs.MolecularOrb[det.OrbitalRefs[k]]
		for l := 0; l < n; l++ {
			oj := cs.MolecularOrb[det.OrbitalRefs[l]]
			v, _, _, err := gauss.Product(centers, oi, oj, point)
			if err != nil {
				return 0, err
			}
			total += adj.At(k, l) * v
		}
	}
	return total, nil
}

// ShapeDerivativeField evaluates G(s) at every boundary vertex: a sum over
// determinant pairs of trace(Adj(O)·(φ_i·φ_j)(s)) contributions.
//
// Off-diagonal determinant pairs (D != D') are excluded:
// overlap.BuildDeterminantMatrix symmetrizes O^(D,D') defensively for every
// pair, but the adjugate-in-
// eigenbasis identity this function relies on only holds for a genuinely
// symmetric operator, which O^(D,D) always is and O^(D,D') for D != D'
// generally is not.
func ShapeDerivativeField(centers gauss.Centers, cs chem.ChemicalSystem, matrices []overlap.Matrix, boundaryVertices []gauss.Vec3) ([]float64, error) {
	g := make([]float64, len(boundaryVertices))
	for _, m := range matrices {
		if m.DetI != m.DetJ {
			continue
		}
		// m's rows and columns follow the canonical orbital order
		det := cs.Determinants[m.DetI].Canonical()
		adj := AdjugateMatrix(m)
		for v, p := range boundaryVertices {
			s, err := boundarySpeed(centers, cs, det, adj, p)
			if err != nil {
				return nil, err
			}
			g[v] += m.Cmat * s
		}
	}
	return g, nil
}

// AtomicPopulation restricts the determinant-pair trace to primitives
// centered on a single nucleus. For each occupied orbital k, its weight on
// nucleus is the fraction of |coeff| mass its primitives place on that
// nucleus; the atomic share of trace(O) is the corresponding weighted
// diagonal sum, a Mulliken-style partition of the whole-system population.
func AtomicPopulation(cs chem.ChemicalSystem, det chem.Determinant, m overlap.Matrix, nucleus int) (float64, error) {
	const comp = "population.AtomicPopulation"
	if nucleus < 0 || nucleus >= cs.NNucl() {
		return 0, mpderr.New(mpderr.InvalidArgument, comp, nucleus, "nucleus index out of range")
	}
	if len(det.OrbitalRefs) != m.NU {
		return 0, mpderr.New(mpderr.InvalidChemistry, comp, m.NU, "determinant orbital count must match the matrix size")
	}
	// m's rows and columns follow the canonical orbital order
	det = det.Canonical()

	weight := make([]float64, m.NU)
	for k, ref := range det.OrbitalRefs {
		o := cs.MolecularOrb[ref]
		var onNucleus, total float64
		for _, idx := range o.PGauss {
			p := o.Primitives[idx]
			w := p.Coeff
			if w < 0 {
				w = -w
			}
			total += w
			if p.NucleusRef == nucleus {
				onNucleus += w
			}
		}
		if total > 0 {
			weight[k] = onNucleus / total
		}
	}

	share := 0.0
	for k := 0; k < m.NU; k++ {
		var diagEntry float64
		for p := 0; p < m.NU; p++ {
			diagEntry += m.Coef.At(k, p) * m.Diag[p] * m.Coef.At(k, p)
		}
		share += weight[k] * diagEntry
	}
	return m.Cmat * share, nil
}
