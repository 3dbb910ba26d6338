// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"encoding/json"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/ISCDtoolbox/MPD-sub002/mpderr"
)

// Source produces a raw Config value from some external representation.
// The `.info` keyword/value file format is the canonical one, but its
// parser is an external collaborator; this package only defines the seam a
// collaborator plugs into.
type Source interface {
	Load() (Config, error)
}

// jsonDoc mirrors Config's field layout with JSON tags, keeping Config
// itself free of serialization concerns: the in-memory value is the object
// of validation, not of direct (de)serialization.
type jsonDoc struct {
	OptMode    int `json:"opt_mode"`
	Verbose    int `json:"verbose"`
	NCPU       int `json:"n_cpu"`
	NameLength int `json:"name_length"`

	Box struct {
		Xmin, Ymin, Zmin float64
		Xmax, Ymax, Zmax float64
		Nx, Ny, Nz       int
	} `json:"box"`

	Start struct {
		Type       int `json:"ls_type"`
		X, Y, Z, R float64
	} `json:"start"`

	Metric struct {
		Err, Min, Max float64
	} `json:"metric"`

	Det struct {
		TrickMatrix bool `json:"trick_matrix"`
		ApproxMode  bool `json:"approx_mode"`
		OrbRHF      bool `json:"orb_rhf"`
	} `json:"det"`

	Opt struct {
		IterMax                            int `json:"iter_max"`
		ResidualP0, ResidualP1, ResidualP2 float64
		NuElectrons                        int `json:"nu_electrons"`
	} `json:"opt"`

	Remesh struct {
		HminIso, HmaxIso   float64
		HminMet, HmaxMet   float64
		HminLS, HmaxLS     float64
		HminLag, HmaxLag   float64
		HausdIso, HausdMet float64
		HausdLS, HausdLag  float64
		HgradIso, HgradMet float64
		HgradLS, HgradLag  float64
		HmodeLag           int
	} `json:"remesh"`

	Advect struct {
		NIter    int `json:"n_iter"`
		Residual float64
		DeltaT   float64 `json:"delta_t"`
		NoCFL    bool    `json:"no_cfl"`
	} `json:"advect"`

	Save struct {
		SaveType  int `json:"save_type"`
		SaveMesh  bool
		SaveData  bool
		SavePrint int
		SaveWhere int `json:"save_where"`
	} `json:"save"`

	Tools struct {
		Medit, Mmg3d, Mshdist, Elastic, Advect string
	} `json:"tools"`

	NumMolOrbs int `json:"nmorb"`
}

// JSONSource reads a Config from a JSON file at Path, the concrete Source
// this repository ships since the `.info` grammar itself stays an external
// collaborator's job.
type JSONSource struct {
	Path string
}

// Load reads and unmarshals the JSON document, then hands it to New for
// field-by-field validation.
func (s JSONSource) Load() (Config, error) {
	const comp = "config.JSONSource.Load"
	raw, err := io.ReadFile(s.Path)
	if err != nil {
		return Config{}, mpderr.New(mpderr.FileSystemError, comp, s.Path, "cannot read config file: %v", err)
	}
	var doc jsonDoc
	if jerr := json.Unmarshal(raw, &doc); jerr != nil {
		return Config{}, mpderr.New(mpderr.ConfigError, comp, s.Path, "malformed config JSON: %v", jerr)
	}

	cfg := Config{
		OptMode:    OptMode(doc.OptMode),
		Verbose:    doc.Verbose,
		NCPU:       doc.NCPU,
		NameLength: doc.NameLength,
		Box: Box{
			Xmin: doc.Box.Xmin, Ymin: doc.Box.Ymin, Zmin: doc.Box.Zmin,
			Xmax: doc.Box.Xmax, Ymax: doc.Box.Ymax, Zmax: doc.Box.Zmax,
			Nx: doc.Box.Nx, Ny: doc.Box.Ny, Nz: doc.Box.Nz,
		},
		Start: StartingDomain{
			Type: LevelSetType(doc.Start.Type),
			X:    doc.Start.X, Y: doc.Start.Y, Z: doc.Start.Z, R: doc.Start.R,
		},
		Metric: MetricParams{Err: doc.Metric.Err, Min: doc.Metric.Min, Max: doc.Metric.Max},
		Det: DeterminantHandling{
			TrickMatrix: doc.Det.TrickMatrix,
			ApproxMode:  doc.Det.ApproxMode,
			OrbRHF:      doc.Det.OrbRHF,
		},
		Opt: Optimization{
			IterMax:     doc.Opt.IterMax,
			ResidualP0:  doc.Opt.ResidualP0,
			ResidualP1:  doc.Opt.ResidualP1,
			ResidualP2:  doc.Opt.ResidualP2,
			NuElectrons: doc.Opt.NuElectrons,
		},
		Remesh: RemeshSizes{
			HminIso: doc.Remesh.HminIso, HmaxIso: doc.Remesh.HmaxIso,
			HminMet: doc.Remesh.HminMet, HmaxMet: doc.Remesh.HmaxMet,
			HminLS: doc.Remesh.HminLS, HmaxLS: doc.Remesh.HmaxLS,
			HminLag: doc.Remesh.HminLag, HmaxLag: doc.Remesh.HmaxLag,
			HausdIso: doc.Remesh.HausdIso, HausdMet: doc.Remesh.HausdMet,
			HausdLS: doc.Remesh.HausdLS, HausdLag: doc.Remesh.HausdLag,
			HgradIso: doc.Remesh.HgradIso, HgradMet: doc.Remesh.HgradMet,
			HgradLS: doc.Remesh.HgradLS, HgradLag: doc.Remesh.HgradLag,
			HmodeLag: doc.Remesh.HmodeLag,
		},
		Advect: Advection{
			NIter: doc.Advect.NIter, Residual: doc.Advect.Residual,
			DeltaT: doc.Advect.DeltaT, NoCFL: doc.Advect.NoCFL,
		},
		Save: SaveOptions{
			SaveType: doc.Save.SaveType, SaveMesh: doc.Save.SaveMesh,
			SaveData: doc.Save.SaveData, SavePrint: doc.Save.SavePrint,
			SaveWhere: doc.Save.SaveWhere,
		},
		Tools: ToolPaths{
			Medit: doc.Tools.Medit, Mmg3d: doc.Tools.Mmg3d,
			Mshdist: doc.Tools.Mshdist, Elastic: doc.Tools.Elastic,
			Advect: doc.Tools.Advect,
		},
		NumMolOrbs: doc.NumMolOrbs,
	}

	if chk.Verbose {
		io.Pf("config: loaded %s\n", s.Path)
	}
	return New(cfg)
}
