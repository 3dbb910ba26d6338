// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chem holds the chemistry data model: nuclei, Gaussian
// primitives, molecular orbitals, Slater determinants, and the
// ChemicalSystem bundle. It is deliberately a pure data layer — reading
// and writing .chem/.wfn files belongs to external collaborators; this
// package only builds and validates in-memory values.
package chem

import (
	"github.com/ISCDtoolbox/MPD-sub002/mpderr"
)

// AngularType enumerates the 20 Cartesian Gaussian angular types the
// primitive evaluator supports.
type AngularType int

// Fixed angular-type codes: s, p, d and f shells in Cartesian order.
const (
	OrbS AngularType = 1 + iota
	OrbPX
	OrbPY
	OrbPZ
	OrbDXX
	OrbDYY
	OrbDZZ
	OrbDXY
	OrbDXZ
	OrbDYZ
	OrbFXXX
	OrbFYYY
	OrbFZZZ
	OrbFXXY
	OrbFXXZ
	OrbFYYZ
	OrbFXYY
	OrbFXZZ
	OrbFYZZ
	OrbFXYZ
)

// Valid reports whether t is one of the 20 recognised angular types.
func (t AngularType) Valid() bool { return t >= OrbS && t <= OrbFXYZ }

// Spin is either spin-up or spin-down.
type Spin int

const (
	SpinDown Spin = -1
	SpinUp   Spin = 1
)

// Nucleus is immutable after load.
type Nucleus struct {
	X, Y, Z float64
	Charge  float64 // must be in [1, 100]
}

// NewNucleus validates the charge range.
func NewNucleus(x, y, z, charge float64) (Nucleus, error) {
	if charge < 1 || charge > 100 {
		return Nucleus{}, mpderr.New(mpderr.InvalidChemistry, "chem.NewNucleus", charge,
			"nucleus charge must be in [1, 100]")
	}
	return Nucleus{X: x, Y: y, Z: z, Charge: charge}, nil
}

// Primitive is a single Gaussian-times-Cartesian-monomial term centered on
// a nucleus.
type Primitive struct {
	NucleusRef int // index into ChemicalSystem.Nuclei
	Type       AngularType
	Exponent   float64
	Coeff      float64
}

// NewPrimitive validates exponent and type.
func NewPrimitive(nucleusRef int, t AngularType, exponent, coeff float64) (Primitive, error) {
	if exponent <= 0 {
		return Primitive{}, mpderr.New(mpderr.NumericalError, "chem.NewPrimitive", exponent,
			"Gaussian exponent must be > 0")
	}
	if !t.Valid() {
		return Primitive{}, mpderr.New(mpderr.InvalidChemistry, "chem.NewPrimitive", int(t),
			"primitive angular type must be in [1, 20]")
	}
	return Primitive{NucleusRef: nucleusRef, Type: t, Exponent: exponent, Coeff: coeff}, nil
}

// MolecularOrbital is a linear combination of primitives plus a spin label.
// PGauss is the sparse index (positions into Primitives) of the non-zero
// coefficients, a pure evaluation-time optimisation, not a correctness
// requirement.
type MolecularOrbital struct {
	Primitives []Primitive
	Spin       Spin
	PGauss     []int
}

// NewMolecularOrbital rejects identically-zero orbitals and builds PGauss.
func NewMolecularOrbital(prims []Primitive, spin Spin) (MolecularOrbital, error) {
	if spin != SpinUp && spin != SpinDown {
		return MolecularOrbital{}, mpderr.New(mpderr.InvalidChemistry, "chem.NewMolecularOrbital", int(spin),
			"spin must be -1 or +1")
	}
	pgauss := make([]int, 0, len(prims))
	for i, p := range prims {
		if p.Coeff != 0 {
			pgauss = append(pgauss, i)
		}
	}
	if len(pgauss) == 0 {
		return MolecularOrbital{}, mpderr.New(mpderr.InvalidChemistry, "chem.NewMolecularOrbital", len(prims),
			"molecular orbital must not be identically zero")
	}
	return MolecularOrbital{Primitives: prims, Spin: spin, PGauss: pgauss}, nil
}

// NGauss returns the number of non-zero primitives.
func (m MolecularOrbital) NGauss() int { return len(m.PGauss) }

// Determinant is an ordered sequence of orbital references plus a non-zero
// coefficient. RHF marks a restricted-Hartree-Fock spin-pair layout.
type Determinant struct {
	OrbitalRefs []int
	Coeff       float64
	RHF         bool
}

// NewDeterminant validates the non-zero coefficient invariant.
func NewDeterminant(orbitalRefs []int, coeff float64, rhf bool) (Determinant, error) {
	if coeff == 0 {
		return Determinant{}, mpderr.New(mpderr.InvalidChemistry, "chem.NewDeterminant", coeff,
			"determinant coefficient must be non-zero")
	}
	return Determinant{OrbitalRefs: orbitalRefs, Coeff: coeff, RHF: rhf}, nil
}

// Swap exchanges the orbitals at positions i and j and flips the sign of
// Coeff, preserving the antisymmetry of the wavefunction. It is a
// value-returning operation; Determinant is treated as immutable by every
// other package.
func (d Determinant) Swap(i, j int) Determinant {
	refs := append([]int(nil), d.OrbitalRefs...)
	refs[i], refs[j] = refs[j], refs[i]
	d.OrbitalRefs = refs
	d.Coeff = -d.Coeff
	return d
}

// Canonical returns the determinant with its orbital references sorted
// ascending, flipping the coefficient's sign once per transposition so the
// antisymmetric wavefunction is preserved. Overlap-matrix assembly indexes
// determinants in this canonical order only.
func (d Determinant) Canonical() Determinant {
	refs := append([]int(nil), d.OrbitalRefs...)
	coeff := d.Coeff
	for i := 1; i < len(refs); i++ {
		for j := i; j > 0 && refs[j-1] > refs[j]; j-- {
			refs[j-1], refs[j] = refs[j], refs[j-1]
			coeff = -coeff
		}
	}
	d.OrbitalRefs = refs
	d.Coeff = coeff
	return d
}

// ChemicalSystem bundles nuclei, molecular orbitals and determinants, plus
// their derived counts.
type ChemicalSystem struct {
	Nuclei       []Nucleus
	MolecularOrb []MolecularOrbital
	Determinants []Determinant
}

// New validates cross references (orbital refs in range, consistent ne
// across determinants) and returns a ChemicalSystem.
func New(nuclei []Nucleus, orbitals []MolecularOrbital, dets []Determinant) (ChemicalSystem, error) {
	const comp = "chem.New"
	for _, p := range orbitalPrimitives(orbitals) {
		if p.NucleusRef < 0 || p.NucleusRef >= len(nuclei) {
			return ChemicalSystem{}, mpderr.New(mpderr.InvalidChemistry, comp, p.NucleusRef,
				"primitive nucleus reference out of range")
		}
	}
	ne := -1
	for _, d := range dets {
		for _, ref := range d.OrbitalRefs {
			if ref < 0 || ref >= len(orbitals) {
				return ChemicalSystem{}, mpderr.New(mpderr.InvalidChemistry, comp, ref,
					"determinant orbital reference out of range")
			}
		}
		if ne == -1 {
			ne = len(d.OrbitalRefs)
		} else if ne != len(d.OrbitalRefs) {
			return ChemicalSystem{}, mpderr.New(mpderr.InvalidChemistry, comp, len(d.OrbitalRefs),
				"all determinants must reference the same number of orbitals (ne)")
		}
	}
	return ChemicalSystem{Nuclei: nuclei, MolecularOrb: orbitals, Determinants: dets}, nil
}

func orbitalPrimitives(orbitals []MolecularOrbital) []Primitive {
	var out []Primitive
	for _, o := range orbitals {
		out = append(out, o.Primitives...)
	}
	return out
}

// NNucl, NMorb and NDet are the derived counts.
func (c ChemicalSystem) NNucl() int { return len(c.Nuclei) }
func (c ChemicalSystem) NMorb() int { return len(c.MolecularOrb) }
func (c ChemicalSystem) NDet() int  { return len(c.Determinants) }

// NE returns the number of electrons per determinant (0 if there are no
// determinants).
func (c ChemicalSystem) NE() int {
	if len(c.Determinants) == 0 {
		return 0
	}
	return len(c.Determinants[0].OrbitalRefs)
}

// NPrim returns the total number of primitives across all orbitals.
func (c ChemicalSystem) NPrim() int {
	n := 0
	for _, o := range c.MolecularOrb {
		n += len(o.Primitives)
	}
	return n
}

// SpinCompatible reports whether orbitals i and j may be paired when
// forming overlap/metric products: under RHF only the positive-spin half
// participates (spins are mirrored pairwise), otherwise spins must match.
func (c ChemicalSystem) SpinCompatible(i, j int, rhf bool) bool {
	oi, oj := c.MolecularOrb[i], c.MolecularOrb[j]
	if rhf {
		return oi.Spin == SpinUp && oj.Spin == SpinUp
	}
	return oi.Spin == oj.Spin
}
