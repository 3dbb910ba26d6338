// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gauss implements the primitive and orbital/product evaluators:
// closed-form value, gradient and Hessian of Gaussian-times-Cartesian-
// monomial primitives, accumulated into caller-provided buffers. All twenty
// angular types share one closed form parameterised by a (nx,ny,nz)
// monomial exponent table; a type outside the table is rejected rather than
// silently scored as s-type.
package gauss

import (
	"math"

	"github.com/ISCDtoolbox/MPD-sub002/chem"
	"github.com/ISCDtoolbox/MPD-sub002/mpderr"
)

// monomialExponents maps each angular type to its Cartesian monomial
// exponent triple (nx, ny, nz).
var monomialExponents = map[chem.AngularType][3]int{
	chem.OrbS:    {0, 0, 0},
	chem.OrbPX:   {1, 0, 0},
	chem.OrbPY:   {0, 1, 0},
	chem.OrbPZ:   {0, 0, 1},
	chem.OrbDXX:  {2, 0, 0},
	chem.OrbDYY:  {0, 2, 0},
	chem.OrbDZZ:  {0, 0, 2},
	chem.OrbDXY:  {1, 1, 0},
	chem.OrbDXZ:  {1, 0, 1},
	chem.OrbDYZ:  {0, 1, 1},
	chem.OrbFXXX: {3, 0, 0},
	chem.OrbFYYY: {0, 3, 0},
	chem.OrbFZZZ: {0, 0, 3},
	chem.OrbFXXY: {2, 1, 0},
	chem.OrbFXXZ: {2, 0, 1},
	chem.OrbFYYZ: {0, 2, 1},
	chem.OrbFXYY: {1, 2, 0},
	chem.OrbFXZZ: {1, 0, 2},
	chem.OrbFYZZ: {0, 1, 2},
	chem.OrbFXYZ: {1, 1, 1},
}

// Vec3 is a 3D point or vector.
type Vec3 struct{ X, Y, Z float64 }

// Hess6 stores a symmetric 3x3 Hessian as [xx, yy, zz, xy, xz, yz].
type Hess6 [6]float64

// pow0 returns d^n for n >= 0, with d^0 == 1 even when d == 0.
func pow0(d float64, n int) float64 {
	r := 1.0
	for i := 0; i < n; i++ {
		r *= d
	}
	return r
}

// diff1 returns d/dd (d^n) = n*d^(n-1), or 0 when n == 0.
func diff1(d float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(n) * pow0(d, n-1)
}

// diff2 returns d^2/dd^2 (d^n) = n*(n-1)*d^(n-2), or 0 when n < 2.
func diff2(d float64, n int) float64 {
	if n < 2 {
		return 0
	}
	return float64(n) * float64(n-1) * pow0(d, n-2)
}

// MonomialExponents returns the (nx, ny, nz) Cartesian exponent triple for
// angular type t, or false for an unrecognised type. The overlap engine's
// closed-form moment integration expands these exponents binomially per
// axis rather than evaluating the monomial pointwise.
func MonomialExponents(t chem.AngularType) ([3]int, bool) {
	e, ok := monomialExponents[t]
	return e, ok
}

// MonomialValue returns the Cartesian monomial factor P_τ(point-center) for
// angular type t, without the Gaussian envelope — used by the overlap
// engine's fused-Gaussian quadrature, which evaluates each primitive's
// monomial against its own center while sharing one fused exponential per
// primitive pair.
func MonomialValue(t chem.AngularType, dx, dy, dz float64) (float64, bool) {
	exps, ok := monomialExponents[t]
	if !ok {
		return 0, false
	}
	return pow0(dx, exps[0]) * pow0(dy, exps[1]) * pow0(dz, exps[2]), true
}

// EvalPrimitive computes the value, gradient and Hessian of a single
// Gaussian primitive centred at `center` and evaluated at `point`, and
// accumulates the gradient/Hessian into grad and hess. The caller must zero
// grad and hess before the first primitive of a sum is evaluated. The
// primitive's own value is returned, not accumulated.
//
// A coefficient of exactly zero short-circuits to zero without touching the
// accumulators. An angular type outside [1,20] is an InvalidChemistry
// error: scoring an unknown type as spherically symmetric would mask
// corrupt input.
func EvalPrimitive(center, point Vec3, p chem.Primitive, grad *Vec3, hess *Hess6) (float64, error) {
	if p.Coeff == 0 {
		return 0, nil
	}
	if p.Exponent <= 0 {
		return 0, mpderr.New(mpderr.NumericalError, "gauss.EvalPrimitive", p.Exponent, "Gaussian exponent must be > 0")
	}
	exps, ok := monomialExponents[p.Type]
	if !ok {
		return 0, mpderr.New(mpderr.InvalidChemistry, "gauss.EvalPrimitive", int(p.Type),
			"primitive angular type must be in [1, 20]")
	}

	dx := point.X - center.X
	dy := point.Y - center.Y
	dz := point.Z - center.Z
	d2 := dx*dx + dy*dy + dz*dz
	alpha := p.Exponent
	g := math.Exp(-alpha * d2)

	nx, ny, nz := exps[0], exps[1], exps[2]
	Mx0, My0, Mz0 := pow0(dx, nx), pow0(dy, ny), pow0(dz, nz)
	M := Mx0 * My0 * Mz0

	Mi := Vec3{
		X: diff1(dx, nx) * My0 * Mz0,
		Y: Mx0 * diff1(dy, ny) * Mz0,
		Z: Mx0 * My0 * diff1(dz, nz),
	}
	Mii := Vec3{
		X: diff2(dx, nx) * My0 * Mz0,
		Y: Mx0 * diff2(dy, ny) * Mz0,
		Z: Mx0 * My0 * diff2(dz, nz),
	}
	Mxy := diff1(dx, nx) * diff1(dy, ny) * Mz0
	Mxz := diff1(dx, nx) * My0 * diff1(dz, nz)
	Myz := Mx0 * diff1(dy, ny) * diff1(dz, nz)

	L := Vec3{X: -2 * alpha * dx, Y: -2 * alpha * dy, Z: -2 * alpha * dz}
	Lxx := -2 * alpha // second derivative of -alpha*d^2 along any single axis (isotropic)

	c := p.Coeff
	value := c * M * g

	grad.X += c * g * (Mi.X + M*L.X)
	grad.Y += c * g * (Mi.Y + M*L.Y)
	grad.Z += c * g * (Mi.Z + M*L.Z)

	hess[0] += c * g * (Mii.X + 2*Mi.X*L.X + M*Lxx + M*L.X*L.X)
	hess[1] += c * g * (Mii.Y + 2*Mi.Y*L.Y + M*Lxx + M*L.Y*L.Y)
	hess[2] += c * g * (Mii.Z + 2*Mi.Z*L.Z + M*Lxx + M*L.Z*L.Z)
	hess[3] += c * g * (Mxy + Mi.X*L.Y + Mi.Y*L.X + M*L.X*L.Y)
	hess[4] += c * g * (Mxz + Mi.X*L.Z + Mi.Z*L.X + M*L.X*L.Z)
	hess[5] += c * g * (Myz + Mi.Y*L.Z + Mi.Z*L.Y + M*L.Y*L.Z)

	return value, nil
}
