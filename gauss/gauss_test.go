// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gauss

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/ISCDtoolbox/MPD-sub002/chem"
)

func hydrogen1s(tst *testing.T) chem.MolecularOrbital {
	c := math.Pow(2.0/math.Pi, 0.75)
	prim, err := chem.NewPrimitive(0, chem.OrbS, 1.0, c)
	if err != nil {
		tst.Fatalf("bad primitive: %v", err)
	}
	mo, err := chem.NewMolecularOrbital([]chem.Primitive{prim}, chem.SpinUp)
	if err != nil {
		tst.Fatalf("bad orbital: %v", err)
	}
	return mo
}

func Test_eval_primitive_unknown_type_fails(tst *testing.T) {
	chk.PrintTitle("unknown angular type fails closed")

	var grad Vec3
	var hess Hess6
	p := chem.Primitive{NucleusRef: 0, Type: chem.AngularType(99), Exponent: 1, Coeff: 1}
	if _, err := EvalPrimitive(Vec3{}, Vec3{}, p, &grad, &hess); err == nil {
		tst.Errorf("type 99 must be rejected instead of silently treated as s-type")
	}
}

func Test_eval_primitive_zero_coeff_fast_path(tst *testing.T) {
	chk.PrintTitle("zero coefficient is a fast path")

	var grad Vec3
	var hess Hess6
	p := chem.Primitive{NucleusRef: 0, Type: chem.OrbPX, Exponent: 1, Coeff: 0}
	v, err := EvalPrimitive(Vec3{}, Vec3{1, 2, 3}, p, &grad, &hess)
	if err != nil {
		tst.Fatalf("unexpected error: %v", err)
	}
	if v != 0 || grad != (Vec3{}) || hess != (Hess6{}) {
		tst.Errorf("zero-coefficient primitive must not touch accumulators")
	}
}

func Test_eval_primitive_linear_in_coefficient(tst *testing.T) {
	chk.PrintTitle("evaluator is linear in coefficient")

	p1 := chem.Primitive{NucleusRef: 0, Type: chem.OrbDXY, Exponent: 0.7, Coeff: 1.0}
	p2 := chem.Primitive{NucleusRef: 0, Type: chem.OrbDXY, Exponent: 0.7, Coeff: 3.0}
	point := Vec3{0.3, -0.4, 0.1}

	var g1 Vec3
	var h1 Hess6
	v1, err := EvalPrimitive(Vec3{}, point, p1, &g1, &h1)
	if err != nil {
		tst.Fatalf("eval error: %v", err)
	}

	var g2 Vec3
	var h2 Hess6
	v2, err := EvalPrimitive(Vec3{}, point, p2, &g2, &h2)
	if err != nil {
		tst.Fatalf("eval error: %v", err)
	}

	tol := 1e-12
	if math.Abs(v2-3*v1) > tol {
		tst.Errorf("value not linear: v1=%v v2=%v", v1, v2)
	}
	if math.Abs(g2.X-3*g1.X) > tol || math.Abs(g2.Y-3*g1.Y) > tol || math.Abs(g2.Z-3*g1.Z) > tol {
		tst.Errorf("gradient not linear: g1=%v g2=%v", g1, g2)
	}
	for k := 0; k < 6; k++ {
		if math.Abs(h2[k]-3*h1[k]) > tol {
			tst.Errorf("hessian component %d not linear: h1=%v h2=%v", k, h1[k], h2[k])
		}
	}
}

func Test_hessian_symmetry_via_product(tst *testing.T) {
	chk.PrintTitle("product hessian is (numerically) symmetric by construction")

	mo := hydrogen1s(tst)
	centers := Centers{{X: 0, Y: 0, Z: 0}}
	_, _, h, err := Product(centers, mo, mo, Vec3{0.2, 0.3, -0.1})
	if err != nil {
		tst.Fatalf("product error: %v", err)
	}
	// Hess6 only stores the six independent components (xx,yy,zz,xy,xz,yz);
	// symmetry is structural. Sanity-check they are finite and non-NaN.
	for k, v := range h {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			tst.Errorf("hessian component %d is not finite: %v", k, v)
		}
	}
}

func Test_hydrogen_1s_value_at_origin(tst *testing.T) {
	chk.PrintTitle("hydrogen 1s value at its own center")

	mo := hydrogen1s(tst)
	centers := Centers{{X: 0, Y: 0, Z: 0}}
	v, _, _, err := EvalOrbital(centers, mo, Vec3{0, 0, 0})
	if err != nil {
		tst.Fatalf("eval error: %v", err)
	}
	expect := math.Pow(2.0/math.Pi, 0.75)
	if math.Abs(v-expect) > 1e-12 {
		tst.Errorf("1s orbital at its own center should equal its normalisation constant: got %v want %v", v, expect)
	}
}

func Test_orbital_product_self_overlap_positive(tst *testing.T) {
	chk.PrintTitle("self product is non-negative everywhere sampled")

	mo := hydrogen1s(tst)
	centers := Centers{{X: 0, Y: 0, Z: 0}}
	for _, pt := range []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 1}, {-2, 0.5, 0.3}} {
		v, _, _, err := Product(centers, mo, mo, pt)
		if err != nil {
			tst.Fatalf("product error: %v", err)
		}
		if v < 0 {
			tst.Errorf("phi*phi must be non-negative at %v, got %v", pt, v)
		}
	}
}
