// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gauss

import (
	"github.com/ISCDtoolbox/MPD-sub002/chem"
	"github.com/ISCDtoolbox/MPD-sub002/mpderr"
)

// Centers resolves nucleus positions once so repeated orbital evaluations at
// many mesh vertices don't re-walk the nuclei slice per primitive.
type Centers []Vec3

// NewCenters builds a Centers lookup from a ChemicalSystem's nuclei.
func NewCenters(cs chem.ChemicalSystem) Centers {
	c := make(Centers, len(cs.Nuclei))
	for i, n := range cs.Nuclei {
		c[i] = Vec3{X: n.X, Y: n.Y, Z: n.Z}
	}
	return c
}

// EvalOrbital sums every primitive of orbital `o` at `point`, returning its
// value, gradient and Hessian.
func EvalOrbital(centers Centers, o chem.MolecularOrbital, point Vec3) (value float64, grad Vec3, hess Hess6, err error) {
	for _, idx := range o.PGauss {
		p := o.Primitives[idx]
		if p.NucleusRef < 0 || p.NucleusRef >= len(centers) {
			return 0, Vec3{}, Hess6{}, mpderr.New(mpderr.InvalidChemistry, "gauss.EvalOrbital", p.NucleusRef,
				"primitive nucleus reference out of range")
		}
		v, evalErr := EvalPrimitive(centers[p.NucleusRef], point, p, &grad, &hess)
		if evalErr != nil {
			return 0, Vec3{}, Hess6{}, evalErr
		}
		value += v
	}
	return value, grad, hess, nil
}

// Product is the exact value/gradient/Hessian of the pointwise product of
// two orbitals ψ = φ_i·φ_j at a point, built from their individually
// evaluated value/gradient/Hessian via the product rule:
//
//	H_ab(ψ) = H_ab(φ_i)·φ_j + ∂_a φ_i·∂_b φ_j + ∂_b φ_i·∂_a φ_j + φ_i·H_ab(φ_j)
func Product(centers Centers, oi, oj chem.MolecularOrbital, point Vec3) (value float64, grad Vec3, hess Hess6, err error) {
	vi, gi, hi, err := EvalOrbital(centers, oi, point)
	if err != nil {
		return 0, Vec3{}, Hess6{}, err
	}
	vj, gj, hj, err := EvalOrbital(centers, oj, point)
	if err != nil {
		return 0, Vec3{}, Hess6{}, err
	}

	value = vi * vj
	grad = Vec3{
		X: gi.X*vj + vi*gj.X,
		Y: gi.Y*vj + vi*gj.Y,
		Z: gi.Z*vj + vi*gj.Z,
	}

	// index map: 0:xx 1:yy 2:zz 3:xy 4:xz 5:yz
	hess[0] = hi[0]*vj + 2*gi.X*gj.X + vi*hj[0]
	hess[1] = hi[1]*vj + 2*gi.Y*gj.Y + vi*hj[1]
	hess[2] = hi[2]*vj + 2*gi.Z*gj.Z + vi*hj[2]
	hess[3] = hi[3]*vj + gi.X*gj.Y + gi.Y*gj.X + vi*hj[3]
	hess[4] = hi[4]*vj + gi.X*gj.Z + gi.Z*gj.X + vi*hj[4]
	hess[5] = hi[5]*vj + gi.Y*gj.Z + gi.Z*gj.Y + vi*hj[5]

	return value, grad, hess, nil
}
