// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package adapt sequences packages mesh, metric, overlap and population
// into the orchestrator state machine: the one place that owns the
// external-tool round trips (remesher, redistancer, elastic extension,
// advection) and the fixed per-step component order. A small state value
// plus an explicit step loop, rather than a callback graph.
package adapt

import (
	"github.com/cpmech/gosl/io"

	"github.com/ISCDtoolbox/MPD-sub002/chem"
	"github.com/ISCDtoolbox/MPD-sub002/config"
	"github.com/ISCDtoolbox/MPD-sub002/gauss"
	"github.com/ISCDtoolbox/MPD-sub002/mesh"
	"github.com/ISCDtoolbox/MPD-sub002/metric"
	"github.com/ISCDtoolbox/MPD-sub002/mpderr"
)

// State names one node of the orchestrator state machine.
type State int

const (
	StateLoadedMesh State = iota
	StateHasDomain
	StateHasMetric
	StateRemeshed
	StateHasLevelSet
	StateRemeshedPrime
	StateLoop
)

func (s State) String() string {
	switch s {
	case StateLoadedMesh:
		return "LoadedMesh"
	case StateHasDomain:
		return "HasDomain"
	case StateHasMetric:
		return "HasMetric"
	case StateRemeshed:
		return "Remeshed"
	case StateHasLevelSet:
		return "HasLevelSet"
	case StateRemeshedPrime:
		return "Remeshed'"
	case StateLoop:
		return "Loop"
	default:
		return "Unknown"
	}
}

// Orchestrator carries the mesh + chemistry + configuration state threaded
// through one optimization run: across steps, state is a pure function of
// the previous step's mesh, level-set and parameters. It is
// single-threaded and synchronous; the only suspension points are
// Runner.Run calls, which this package blocks on.
type Orchestrator struct {
	Cfg     config.Config
	Chem    chem.ChemicalSystem
	Centers gauss.Centers
	Mesh    *mesh.HexMesh
	Runner  Runner
	State   State

	// AbortRequested is the cooperative cancellation flag: polled between
	// optimization iterations, never inside one. In-flight external-tool
	// runs are never interrupted.
	AbortRequested bool

	meshPath string // base name of the .mesh file this run owns, for the rename dance
}

// New builds an Orchestrator for the hexahedral path (cfg.IsHexPath()): it
// validates the reserved-name invariant and the name length up front,
// before any file is touched, and constructs the uniform grid. The hexes
// are left unlabeled; BuildDomain seeds the starting domain.
func New(cfg config.Config, cs chem.ChemicalSystem, meshPath string, runner Runner) (*Orchestrator, error) {
	const comp = "adapt.New"
	if !cfg.IsHexPath() {
		return nil, mpderr.New(mpderr.InvalidArgument, comp, cfg.OptMode,
			"adapt.New only implements the hexahedral path (opt_mode<=0); the tetrahedral path is external-remesher output, not constructed here")
	}
	if err := config.CheckReservedName(meshPath); err != nil {
		return nil, err
	}
	if len(meshPath)+1 > cfg.NameLength {
		return nil, mpderr.New(mpderr.InvalidArgument, comp, meshPath,
			"mesh file name exceeds name_length (including terminator)")
	}

	b := cfg.Box
	hm, err := mesh.NewHexMesh(b.Xmin, b.Ymin, b.Zmin, b.Xmax, b.Ymax, b.Zmax, b.Nx, b.Ny, b.Nz)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		Cfg:      cfg,
		Chem:     cs,
		Centers:  gauss.NewCenters(cs),
		Mesh:     hm,
		Runner:   runner,
		State:    StateLoadedMesh,
		meshPath: meshPath,
	}
	return o, nil
}

// BuildDomain labels every hex Interior/Exterior from the configured
// starting shape, transitioning LoadedMesh -> HasDomain.
func (o *Orchestrator) BuildDomain() error {
	const comp = "adapt.Orchestrator.BuildDomain"
	if o.State != StateLoadedMesh {
		return mpderr.New(mpderr.InvalidArgument, comp, o.State, "BuildDomain requires state LoadedMesh")
	}
	var kind mesh.ShapeKind
	switch o.Cfg.Start.Type {
	case config.LevelSetCube:
		kind = mesh.ShapeCube
	case config.LevelSetSphere:
		kind = mesh.ShapeSphere
	}
	shape, err := mesh.NewShape(kind, o.Cfg.Start.X, o.Cfg.Start.Y, o.Cfg.Start.Z, o.Cfg.Start.R)
	if err != nil {
		return err
	}
	mesh.BuildLevelSetHex(o.Mesh, shape)
	o.State = StateHasDomain
	return nil
}

// BuildMetric runs the metric builder over every mesh vertex,
// storing the resulting size field in each Vertex.Value, transitioning
// HasDomain -> HasMetric.
func (o *Orchestrator) BuildMetric() ([]float64, error) {
	const comp = "adapt.Orchestrator.BuildMetric"
	if o.State != StateHasDomain {
		return nil, mpderr.New(mpderr.InvalidArgument, comp, o.State, "BuildMetric requires state HasDomain")
	}
	verts := make([]gauss.Vec3, len(o.Mesh.Vertices))
	for i, v := range o.Mesh.Vertices {
		verts[i] = gauss.Vec3{X: v.X, Y: v.Y, Z: v.Z}
	}
	h, err := metric.BuildAll(o.Cfg.Metric, verts, o.Chem, o.Centers, o.Cfg.Det.OrbRHF)
	if err != nil {
		return nil, err
	}
	for i := range o.Mesh.Vertices {
		o.Mesh.Vertices[i].Value = h[i]
	}
	o.State = StateHasMetric
	if o.Cfg.Verbose > 0 {
		io.Pf("adapt: metric built over %d vertices\n", len(h))
	}
	return h, nil
}

// RemeshUnderMetric writes the working `.mesh`/`.sol` pair, invokes the
// remesher in "met" mode and reloads the remeshed grid, transitioning
// HasMetric -> Remeshed. The rename dance around the external tool call is
// scoped so a crash mid-run never leaves a half-renamed file.
func (o *Orchestrator) RemeshUnderMetric() error {
	const comp = "adapt.Orchestrator.RemeshUnderMetric"
	if o.State != StateHasMetric {
		return mpderr.New(mpderr.InvalidArgument, comp, o.State, "RemeshUnderMetric requires state HasMetric")
	}
	if err := o.runTool(ModeMet); err != nil {
		return err
	}
	o.State = StateRemeshed
	return nil
}

// BuildLevelSet invokes the redistancer (mshdist) to reinitialize the
// level-set as a true signed distance after a remesh, transitioning
// Remeshed -> HasLevelSet.
func (o *Orchestrator) BuildLevelSet() error {
	const comp = "adapt.Orchestrator.BuildLevelSet"
	if o.State != StateRemeshed {
		return mpderr.New(mpderr.InvalidArgument, comp, o.State, "BuildLevelSet requires state Remeshed")
	}
	if err := o.Runner.Run(ToolMshdist, o.Cfg.Tools.Mshdist, o.meshPath); err != nil {
		return mpderr.Wrap(mpderr.ExternalToolFailure, comp, err)
	}
	o.State = StateHasLevelSet
	return nil
}

// RemeshUnderLevelSet invokes the remesher a second time, in "ls" mode,
// transitioning HasLevelSet -> Remeshed'.
func (o *Orchestrator) RemeshUnderLevelSet() error {
	const comp = "adapt.Orchestrator.RemeshUnderLevelSet"
	if o.State != StateHasLevelSet {
		return mpderr.New(mpderr.InvalidArgument, comp, o.State, "RemeshUnderLevelSet requires state HasLevelSet")
	}
	if err := o.runTool(ModeLS); err != nil {
		return err
	}
	// Remeshed' is immediately the entry point of Loop: there is no
	// separate externally-observable Remeshed' state action, so State
	// advances straight to Loop.
	o.State = StateLoop
	return nil
}
