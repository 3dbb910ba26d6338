// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the immutable configuration value threaded through
// every core call. The `.info` keyword/value file format itself belongs to
// an external collaborator: something that knows how to produce a Source
// implements it and calls New; the types here never open a file on their
// own.
package config

import (
	"github.com/cpmech/gosl/chk"

	"github.com/ISCDtoolbox/MPD-sub002/mpderr"
)

// OptMode selects the mesh path. Negative or zero selects the hexahedral
// path; positive selects the tetrahedral path.
type OptMode int

// LevelSetType selects the starting-domain shape.
type LevelSetType int

const (
	LevelSetCube   LevelSetType = 0
	LevelSetSphere LevelSetType = 1
)

// MetCst is the fixed metric constant C_met = [d/(d+1)]^2 / 2 for d=3.
const MetCst = 9.0 / 32.0

// Box describes the computational box and its uniform grid.
type Box struct {
	Xmin, Ymin, Zmin float64
	Xmax, Ymax, Zmax float64
	Nx, Ny, Nz       int
}

// DeltaX, DeltaY, DeltaZ are the uniform grid spacings.
func (b Box) DeltaX() float64 { return (b.Xmax - b.Xmin) / float64(b.Nx-1) }
func (b Box) DeltaY() float64 { return (b.Ymax - b.Ymin) / float64(b.Ny-1) }
func (b Box) DeltaZ() float64 { return (b.Zmax - b.Zmin) / float64(b.Nz-1) }

// StartingDomain describes the initial level-set guess.
type StartingDomain struct {
	Type       LevelSetType
	X, Y, Z, R float64
}

// MetricParams controls the metric builder.
type MetricParams struct {
	Err float64 // ε_met
	Min float64 // h_min
	Max float64 // h_max
}

// DeterminantHandling controls sign/overlap conventions.
type DeterminantHandling struct {
	TrickMatrix bool // toggles the signed-label (±2/±3) convention
	ApproxMode  bool
	OrbRHF      bool
}

// Optimization controls the optimization loop.
type Optimization struct {
	IterMax                            int
	ResidualP0, ResidualP1, ResidualP2 float64
	NuElectrons                        int
}

// RemeshSizes carries the hmin/hmax/hausd/hgrad families for each remesh
// purpose: isotropic, metric-driven, level-set-driven, Lagrangian.
type RemeshSizes struct {
	HminIso, HmaxIso   float64
	HminMet, HmaxMet   float64
	HminLS, HmaxLS     float64
	HminLag, HmaxLag   float64
	HausdIso, HausdMet float64
	HausdLS, HausdLag  float64
	HgradIso, HgradMet float64
	HgradLS, HgradLag  float64
	HmodeLag           int // 0, 1, or 2
}

// Advection controls the advect external-tool invocation.
type Advection struct {
	NIter    int
	Residual float64
	DeltaT   float64
	NoCFL    bool
}

// SaveOptions controls output verbosity and formats.
type SaveOptions struct {
	SaveType  int // 0..3
	SaveMesh  bool
	SaveData  bool
	SavePrint int
	SaveWhere int // 0..8
}

// ToolPaths names the external binaries the orchestrator invokes.
type ToolPaths struct {
	Medit, Mmg3d, Mshdist, Elastic, Advect string
}

// Config is the fully validated, immutable configuration threaded through
// the core. Build it with New; it never reads a file itself.
type Config struct {
	OptMode    OptMode
	Verbose    int // 0, 1, 2
	NCPU       int
	NameLength int // [7, 501]
	Box        Box
	Start      StartingDomain
	Metric     MetricParams
	Det        DeterminantHandling
	Opt        Optimization
	Remesh     RemeshSizes
	Advect     Advection
	Save       SaveOptions
	Tools      ToolPaths
	NumMolOrbs int // nmorb, needed to validate NuElectrons range
}

// New validates raw and returns an immutable Config, or a ConfigError /
// InvalidMesh / InvalidArgument error identifying the first violated
// constraint.
func New(raw Config) (Config, error) {
	const comp = "config.New"

	if raw.NameLength < 7 || raw.NameLength > 501 {
		return Config{}, mpderr.New(mpderr.InvalidArgument, comp, raw.NameLength,
			"name_length must be in [7, 501]")
	}
	if raw.NCPU < 1 {
		return Config{}, mpderr.New(mpderr.InvalidArgument, comp, raw.NCPU, "n_cpu must be >= 1")
	}
	if raw.Verbose < 0 || raw.Verbose > 2 {
		return Config{}, mpderr.New(mpderr.InvalidArgument, comp, raw.Verbose, "verbose must be in {0,1,2}")
	}

	b := raw.Box
	if !(b.Xmin < b.Xmax) || !(b.Ymin < b.Ymax) || !(b.Zmin < b.Zmax) {
		return Config{}, mpderr.New(mpderr.InvalidArgument, comp, b, "box bounds must satisfy min < max on every axis")
	}
	if b.Nx < 3 || b.Ny < 3 || b.Nz < 3 {
		return Config{}, mpderr.New(mpderr.InvalidMesh, comp, b, "n_x, n_y, n_z must each be >= 3")
	}

	if raw.Start.Type != LevelSetCube && raw.Start.Type != LevelSetSphere {
		return Config{}, mpderr.New(mpderr.InvalidArgument, comp, raw.Start.Type, "ls_type must be 0 (cube) or 1 (sphere)")
	}
	if raw.Start.R <= 0 {
		return Config{}, mpderr.New(mpderr.InvalidArgument, comp, raw.Start.R, "ls_r must be > 0")
	}

	m := raw.Metric
	if m.Err <= 0 || m.Min <= 0 || m.Max <= m.Min {
		return Config{}, mpderr.New(mpderr.InvalidArgument, comp, m, "metric parameters require met_err>0, met_min>0, met_max>met_min")
	}

	if raw.Opt.IterMax < 0 {
		return Config{}, mpderr.New(mpderr.InvalidArgument, comp, raw.Opt.IterMax, "iter_max must be >= 0")
	}
	if raw.NumMolOrbs > 0 && (raw.Opt.NuElectrons < 1 || raw.Opt.NuElectrons > raw.NumMolOrbs) {
		return Config{}, mpderr.New(mpderr.InvalidArgument, comp, raw.Opt.NuElectrons,
			"nu_electrons must be in [1, nmorb]")
	}

	if err := raw.Remesh.validate(comp); err != nil {
		return Config{}, err
	}

	if raw.Advect.NIter < 0 || raw.Advect.Residual <= 0 || raw.Advect.DeltaT <= 0 {
		return Config{}, mpderr.New(mpderr.InvalidArgument, comp, raw.Advect, "advection parameters require n_iter>=0, residual>0, delta_t>0")
	}

	if raw.Save.SaveType < 0 || raw.Save.SaveType > 3 {
		return Config{}, mpderr.New(mpderr.InvalidArgument, comp, raw.Save.SaveType, "save_type must be in {0..3}")
	}
	if raw.Save.SaveWhere < 0 || raw.Save.SaveWhere > 8 {
		return Config{}, mpderr.New(mpderr.InvalidArgument, comp, raw.Save.SaveWhere, "save_where must be in {0..8}")
	}

	if raw.Det.OrbRHF && raw.NumMolOrbs > 0 && raw.NumMolOrbs%2 != 0 {
		return Config{}, mpderr.New(mpderr.ConfigError, comp, raw.NumMolOrbs,
			"orb_rhf=1 is contradicted by an odd number of molecular orbitals")
	}

	if chk.Verbose && raw.Verbose > 0 {
		chk.PrintTitle("config validated")
	}
	return raw, nil
}

func (r RemeshSizes) validate(comp string) error {
	pairs := []struct {
		name     string
		min, max float64
	}{
		{"iso", r.HminIso, r.HmaxIso},
		{"met", r.HminMet, r.HmaxMet},
		{"ls", r.HminLS, r.HmaxLS},
		{"lag", r.HminLag, r.HmaxLag},
	}
	for _, p := range pairs {
		if p.min <= 0 || p.max <= 0 || p.min > p.max {
			return mpderr.New(mpderr.InvalidArgument, comp, p, "remesh size parameters require 0 < hmin <= hmax for "+p.name)
		}
	}
	if r.HmodeLag < 0 || r.HmodeLag > 2 {
		return mpderr.New(mpderr.InvalidArgument, comp, r.HmodeLag, "hmode_lag must be in {0,1,2}")
	}
	return nil
}

// IsHexPath reports whether OptMode selects the hexahedral path.
func (c Config) IsHexPath() bool { return c.OptMode <= 0 }

// ReservedNames are file base names the orchestrator uses internally for
// the rename dance around the remesher; a user-supplied name colliding
// with one of these is a FileSystemError.
var ReservedNames = []string{"metric.mesh", "metric.sol"}

// CheckReservedName returns a FileSystemError if name collides with a
// reserved orchestrator working file.
func CheckReservedName(name string) error {
	for _, r := range ReservedNames {
		if name == r {
			return mpderr.New(mpderr.FileSystemError, "config.CheckReservedName", name,
				"file name collides with a reserved orchestrator working file")
		}
	}
	return nil
}
