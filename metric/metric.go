// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metric builds the per-vertex anisotropic metric from the Hessian
// spectra of all orbital products. The per-vertex 3x3 symmetric eigensolve
// uses gosl/la.Jacobi.
package metric

import (
	"math"

	"github.com/cpmech/gosl/la"

	"github.com/ISCDtoolbox/MPD-sub002/chem"
	"github.com/ISCDtoolbox/MPD-sub002/config"
	"github.com/ISCDtoolbox/MPD-sub002/gauss"
	"github.com/ISCDtoolbox/MPD-sub002/mpderr"
)

// Builder accumulates the per-vertex size field h(v) as successive orbital
// pairs are folded in. The construction is monotone in v — h only
// decreases as more pairs are considered — so Builder keeps a running
// L(v) = max(...) rather than collecting every pair first and reducing
// once.
type Builder struct {
	params config.MetricParams
	nv     int
	lmax   []float64 // running L(v), seeded with 1/h_max^2
}

// NewBuilder seeds L with 1/h_max^2 so the clamp in H is never vacuous.
func NewBuilder(params config.MetricParams, nv int) (*Builder, error) {
	if params.Err <= 0 || params.Min <= 0 || params.Max <= params.Min {
		return nil, mpderr.New(mpderr.InvalidArgument, "metric.NewBuilder", params,
			"metric parameters require met_err>0, met_min>0, met_max>met_min")
	}
	b := &Builder{params: params, nv: nv, lmax: make([]float64, nv)}
	seed := 1.0 / (params.Max * params.Max)
	for i := range b.lmax {
		b.lmax[i] = seed
	}
	return b, nil
}

// eigSym3 returns the eigenvalues of the symmetric 3x3 matrix stored as a
// Hess6 ([xx,yy,zz,xy,xz,yz]), via gosl/la.Jacobi. gosl's numerics panic on
// failure (chk.Panic); the recover converts a non-converging rotation into
// a NumericalError.
func eigSym3(h gauss.Hess6) (lam [3]float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = mpderr.New(mpderr.NumericalError, "metric.eigSym3", nil,
				"symmetric eigensolver failed: %v", r)
		}
	}()
	A := la.NewMatrix(3, 3)
	A.Set(0, 0, h[0])
	A.Set(1, 1, h[1])
	A.Set(2, 2, h[2])
	A.Set(0, 1, h[3])
	A.Set(1, 0, h[3])
	A.Set(0, 2, h[4])
	A.Set(2, 0, h[4])
	A.Set(1, 2, h[5])
	A.Set(2, 1, h[5])

	Q := la.NewMatrix(3, 3)
	v := la.NewVector(3)
	la.Jacobi(Q, v, A)
	return [3]float64{v[0], v[1], v[2]}, nil
}

// Fold folds the Hessian of one orbital product ψ_ij at vertex v into the
// running L(v), and returns the updated per-vertex size h(v) = clamp(
// 1/sqrt(L(v)), h_min, h_max ).
func (b *Builder) Fold(v int, prodHess gauss.Hess6) (float64, error) {
	lambda, err := eigSym3(prodHess)
	if err != nil {
		return 0, err
	}
	for _, l := range lambda {
		candidate := (config.MetCst * math.Abs(l)) / b.params.Err
		if candidate > b.lmax[v] {
			b.lmax[v] = candidate
		}
	}
	return b.H(v), nil
}

// H returns the current clamped size h(v) without folding in a new pair.
func (b *Builder) H(v int) float64 {
	h := 1.0 / math.Sqrt(b.lmax[v])
	if h < b.params.Min {
		return b.params.Min
	}
	if h > b.params.Max {
		return b.params.Max
	}
	return h
}

// BuildAll runs the full metric construction over every vertex and every
// spin-compatible orbital pair (i<=j), returning the final per-vertex size
// field. centers resolves nucleus positions; rhf selects the RHF
// pairing convention (only the positive-spin half participates).
func BuildAll(params config.MetricParams, vertices []gauss.Vec3, cs chem.ChemicalSystem, centers gauss.Centers, rhf bool) ([]float64, error) {
	b, err := NewBuilder(params, len(vertices))
	if err != nil {
		return nil, err
	}
	n := cs.NMorb()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if !cs.SpinCompatible(i, j, rhf) {
				continue
			}
			for v, p := range vertices {
				_, _, hess, err := gauss.Product(centers, cs.MolecularOrb[i], cs.MolecularOrb[j], p)
				if err != nil {
					return nil, err
				}
				if _, err := b.Fold(v, hess); err != nil {
					return nil, err
				}
			}
		}
	}
	out := make([]float64, len(vertices))
	for v := range out {
		out[v] = b.H(v)
	}
	return out, nil
}
