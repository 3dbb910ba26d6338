// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metric

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/ISCDtoolbox/MPD-sub002/chem"
	"github.com/ISCDtoolbox/MPD-sub002/config"
	"github.com/ISCDtoolbox/MPD-sub002/gauss"
)

func oneOrbitalSystem(tst *testing.T) (chem.ChemicalSystem, gauss.Centers) {
	nuc, _ := chem.NewNucleus(0, 0, 0, 1)
	prim, _ := chem.NewPrimitive(0, chem.OrbS, 1.0, math.Pow(2.0/math.Pi, 0.75))
	mo, _ := chem.NewMolecularOrbital([]chem.Primitive{prim}, chem.SpinUp)
	cs, err := chem.New([]chem.Nucleus{nuc}, []chem.MolecularOrbital{mo}, nil)
	if err != nil {
		tst.Fatalf("system build failed: %v", err)
	}
	return cs, gauss.NewCenters(cs)
}

func twoOrbitalSystem(tst *testing.T) (chem.ChemicalSystem, gauss.Centers) {
	nuc, _ := chem.NewNucleus(0, 0, 0, 1)
	prim1, _ := chem.NewPrimitive(0, chem.OrbS, 1.0, math.Pow(2.0/math.Pi, 0.75))
	prim2, _ := chem.NewPrimitive(0, chem.OrbPX, 0.8, 1.0)
	mo1, _ := chem.NewMolecularOrbital([]chem.Primitive{prim1}, chem.SpinUp)
	mo2, _ := chem.NewMolecularOrbital([]chem.Primitive{prim2}, chem.SpinUp)
	cs, err := chem.New([]chem.Nucleus{nuc}, []chem.MolecularOrbital{mo1, mo2}, nil)
	if err != nil {
		tst.Fatalf("system build failed: %v", err)
	}
	return cs, gauss.NewCenters(cs)
}

func samplePoints() []gauss.Vec3 {
	var pts []gauss.Vec3
	for _, x := range []float64{-1, 0, 1} {
		for _, y := range []float64{-1, 0, 1} {
			for _, z := range []float64{-1, 0, 1} {
				pts = append(pts, gauss.Vec3{X: x, Y: y, Z: z})
			}
		}
	}
	return pts
}

func Test_metric_bounded(tst *testing.T) {
	chk.PrintTitle("metric is bounded by h_min and h_max")

	params := config.MetricParams{Err: 0.1, Min: 0.05, Max: 1.0}
	cs, centers := oneOrbitalSystem(tst)
	pts := samplePoints()

	h, err := BuildAll(params, pts, cs, centers, false)
	if err != nil {
		tst.Fatalf("metric build failed: %v", err)
	}
	for v, hv := range h {
		if hv < params.Min-1e-12 || hv > params.Max+1e-12 {
			tst.Errorf("h(%d)=%v outside [%v,%v]", v, hv, params.Min, params.Max)
		}
	}
}

func Test_metric_monotone_in_pairs(tst *testing.T) {
	chk.PrintTitle("metric is monotone as more orbital pairs are folded in")

	params := config.MetricParams{Err: 0.1, Min: 0.01, Max: 1.0}
	pts := samplePoints()

	csSmall, centersSmall := oneOrbitalSystem(tst)
	hSmall, err := BuildAll(params, pts, csSmall, centersSmall, false)
	if err != nil {
		tst.Fatalf("small metric build failed: %v", err)
	}

	csLarge, centersLarge := twoOrbitalSystem(tst)
	hLarge, err := BuildAll(params, pts, csLarge, centersLarge, false)
	if err != nil {
		tst.Fatalf("large metric build failed: %v", err)
	}

	for v := range pts {
		if hLarge[v] > hSmall[v]+1e-12 {
			tst.Errorf("vertex %d: adding an orbital pair must not increase h (small=%v large=%v)", v, hSmall[v], hLarge[v])
		}
	}
}

func Test_builder_fold_is_monotone_nonincreasing(tst *testing.T) {
	chk.PrintTitle("Builder.Fold only shrinks h as pairs accumulate")

	params := config.MetricParams{Err: 0.05, Min: 0.01, Max: 2.0}
	b, err := NewBuilder(params, 1)
	if err != nil {
		tst.Fatalf("builder build failed: %v", err)
	}
	prev := b.H(0)
	hesses := []gauss.Hess6{
		{1, 1, 1, 0, 0, 0},
		{5, 0.5, 2, 0.1, 0.2, 0.3},
		{0.01, 0.01, 0.01, 0, 0, 0},
	}
	for _, h := range hesses {
		cur, err := b.Fold(0, h)
		if err != nil {
			tst.Fatalf("fold failed: %v", err)
		}
		if cur > prev+1e-12 {
			tst.Errorf("h must not increase after folding another pair: prev=%v cur=%v", prev, cur)
		}
		prev = cur
	}
}
