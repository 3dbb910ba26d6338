// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chem

import (
	"encoding/json"

	"github.com/cpmech/gosl/io"
)

// The `.chem`/`.wfn` text grammars stay an external collaborator's job:
// this package only builds and validates in-memory values. LoadJSON is the
// one concrete reader this repository ships, a JSON rendering of the same
// Nuclei/MolecularOrbitals/Determinants shape, used by cmd/mpd.

type jsonPrimitive struct {
	NucleusRef int     `json:"nucl"`
	Type       int     `json:"type"`
	Exponent   float64 `json:"exp"`
	Coeff      float64 `json:"coeff"`
}

type jsonOrbital struct {
	Spin       int             `json:"spin"`
	Primitives []jsonPrimitive `json:"primitives"`
}

type jsonDeterminant struct {
	OrbitalRefs []int   `json:"orbitals"`
	Coeff       float64 `json:"coeff"`
	RHF         bool    `json:"rhf"`
}

type jsonDoc struct {
	Nuclei []struct {
		X, Y, Z float64
		Charge  float64
	} `json:"nuclei"`
	MolecularOrbitals []jsonOrbital     `json:"molecular_orbitals"`
	Determinants      []jsonDeterminant `json:"determinants"`
}

// LoadJSON reads a ChemicalSystem from a JSON file at path, validating
// every nucleus, primitive, orbital and determinant incrementally while
// reading, so the first bad record is reported rather than the last.
func LoadJSON(path string) (ChemicalSystem, error) {
	raw, err := io.ReadFile(path)
	if err != nil {
		return ChemicalSystem{}, err
	}
	var doc jsonDoc
	if jerr := json.Unmarshal(raw, &doc); jerr != nil {
		return ChemicalSystem{}, jerr
	}

	nuclei := make([]Nucleus, len(doc.Nuclei))
	for i, n := range doc.Nuclei {
		nu, nerr := NewNucleus(n.X, n.Y, n.Z, n.Charge)
		if nerr != nil {
			return ChemicalSystem{}, nerr
		}
		nuclei[i] = nu
	}

	orbitals := make([]MolecularOrbital, len(doc.MolecularOrbitals))
	for i, o := range doc.MolecularOrbitals {
		prims := make([]Primitive, len(o.Primitives))
		for k, p := range o.Primitives {
			pr, perr := NewPrimitive(p.NucleusRef, AngularType(p.Type), p.Exponent, p.Coeff)
			if perr != nil {
				return ChemicalSystem{}, perr
			}
			prims[k] = pr
		}
		mo, merr := NewMolecularOrbital(prims, Spin(o.Spin))
		if merr != nil {
			return ChemicalSystem{}, merr
		}
		orbitals[i] = mo
	}

	dets := make([]Determinant, len(doc.Determinants))
	for i, d := range doc.Determinants {
		det, derr := NewDeterminant(d.OrbitalRefs, d.Coeff, d.RHF)
		if derr != nil {
			return ChemicalSystem{}, derr
		}
		dets[i] = det
	}

	return New(nuclei, orbitals, dets)
}
