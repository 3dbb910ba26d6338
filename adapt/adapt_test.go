// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adapt

import (
	"math"
	"os"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/ISCDtoolbox/MPD-sub002/chem"
	"github.com/ISCDtoolbox/MPD-sub002/config"
	"github.com/ISCDtoolbox/MPD-sub002/mesh"
	"github.com/ISCDtoolbox/MPD-sub002/mpderr"
)

// fakeRunner records tool invocations and leaves the round-tripped files
// exactly as the orchestrator wrote them, standing in for the four
// external binaries.
type fakeRunner struct {
	calls []string
	fail  ToolName
	bomb  bool
}

func (f *fakeRunner) Run(tool ToolName, path string, args ...string) error {
	f.calls = append(f.calls, tool.String())
	if f.bomb && tool == f.fail {
		return mpderr.New(mpderr.ExternalToolFailure, "fakeRunner", tool.String(), "simulated tool failure")
	}
	return nil
}

func testConfig() config.Config {
	cfg := config.Config{
		OptMode:    0,
		NCPU:       1,
		NameLength: 101,
		Box: config.Box{
			Xmin: -4, Ymin: -4, Zmin: -4,
			Xmax: 4, Ymax: 4, Zmax: 4,
			Nx: 5, Ny: 5, Nz: 5,
		},
		Start:  config.StartingDomain{Type: config.LevelSetSphere, R: 2},
		Metric: config.MetricParams{Err: 0.1, Min: 0.05, Max: 1.0},
		Opt:    config.Optimization{IterMax: 1, ResidualP0: 1e-9, NuElectrons: 1},
		Remesh: config.RemeshSizes{
			HminIso: 0.1, HmaxIso: 1, HminMet: 0.1, HmaxMet: 1,
			HminLS: 0.1, HmaxLS: 1, HminLag: 0.1, HmaxLag: 1,
			HausdIso: 0.01, HausdMet: 0.01, HausdLS: 0.01, HausdLag: 0.01,
			HgradIso: 1.3, HgradMet: 1.3, HgradLS: 1.3, HgradLag: 1.3,
		},
		Advect:     config.Advection{NIter: 10, Residual: 1e-6, DeltaT: 0.01},
		NumMolOrbs: 1,
	}
	out, err := config.New(cfg)
	if err != nil {
		panic(err)
	}
	return out
}

func hydrogenSystem(tst *testing.T) chem.ChemicalSystem {
	nuc, _ := chem.NewNucleus(0, 0, 0, 1)
	prim, _ := chem.NewPrimitive(0, chem.OrbS, 1.0, math.Pow(2.0/math.Pi, 0.75))
	mo, _ := chem.NewMolecularOrbital([]chem.Primitive{prim}, chem.SpinUp)
	det, _ := chem.NewDeterminant([]int{0}, 1.0, false)
	cs, err := chem.New([]chem.Nucleus{nuc}, []chem.MolecularOrbital{mo}, []chem.Determinant{det})
	if err != nil {
		tst.Fatalf("system build failed: %v", err)
	}
	return cs
}

// inTempDir runs fn with the working directory switched to a fresh temp
// dir, since the orchestrator's working file names (metric.mesh,
// metric.sol) are relative to it.
func inTempDir(tst *testing.T, fn func()) {
	old, err := os.Getwd()
	if err != nil {
		tst.Fatalf("getwd failed: %v", err)
	}
	if err := os.Chdir(tst.TempDir()); err != nil {
		tst.Fatalf("chdir failed: %v", err)
	}
	defer func() {
		if err := os.Chdir(old); err != nil {
			tst.Fatalf("chdir back failed: %v", err)
		}
	}()
	fn()
}

func Test_new_rejects_reserved_mesh_name(tst *testing.T) {
	chk.PrintTitle("orchestrator rejects a reserved mesh name before touching any file")

	cs := hydrogenSystem(tst)
	_, err := New(testConfig(), cs, "metric.mesh", &fakeRunner{})
	if err == nil {
		tst.Fatalf("expected a FileSystemError for the reserved name")
	}
	if !mpderr.Is(err, mpderr.FileSystemError) {
		tst.Errorf("wrong error kind: %v", err)
	}
}

func Test_new_rejects_overlong_mesh_name(tst *testing.T) {
	chk.PrintTitle("orchestrator rejects a mesh name beyond name_length")

	cs := hydrogenSystem(tst)
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}
	_, err := New(testConfig(), cs, string(long)+".mesh", &fakeRunner{})
	if err == nil {
		tst.Fatalf("expected an InvalidArgument error for an overlong name")
	}
	if !mpderr.Is(err, mpderr.InvalidArgument) {
		tst.Errorf("wrong error kind: %v", err)
	}
}

func Test_state_machine_enforces_order(tst *testing.T) {
	chk.PrintTitle("state machine rejects out-of-order transitions")

	cs := hydrogenSystem(tst)
	o, err := New(testConfig(), cs, "domain.mesh", &fakeRunner{})
	if err != nil {
		tst.Fatalf("New failed: %v", err)
	}
	if _, err := o.BuildMetric(); err == nil {
		tst.Errorf("BuildMetric before BuildDomain must fail")
	}
	if err := o.RemeshUnderMetric(); err == nil {
		tst.Errorf("RemeshUnderMetric before BuildMetric must fail")
	}
	if _, err := o.Step(0, 0); err == nil {
		tst.Errorf("Step before the Loop state must fail")
	}
}

func Test_full_run_with_fake_tools(tst *testing.T) {
	chk.PrintTitle("full state machine drive with stubbed external tools")

	inTempDir(tst, func() {
		cs := hydrogenSystem(tst)
		runner := &fakeRunner{}
		o, err := New(testConfig(), cs, "domain.mesh", runner)
		if err != nil {
			tst.Fatalf("New failed: %v", err)
		}

		if err := o.BuildDomain(); err != nil {
			tst.Fatalf("BuildDomain failed: %v", err)
		}
		interior := 0
		for _, l := range o.Mesh.HexLabels {
			if l.Region == mesh.Interior {
				interior++
			}
		}
		if interior != 8 {
			tst.Fatalf("radius-2 sphere on the 5-grid should capture the 8 central hexes, got %d", interior)
		}

		if _, err := o.BuildMetric(); err != nil {
			tst.Fatalf("BuildMetric failed: %v", err)
		}
		if err := o.RemeshUnderMetric(); err != nil {
			tst.Fatalf("RemeshUnderMetric failed: %v", err)
		}
		if err := o.BuildLevelSet(); err != nil {
			tst.Fatalf("BuildLevelSet failed: %v", err)
		}
		if err := o.RemeshUnderLevelSet(); err != nil {
			tst.Fatalf("RemeshUnderLevelSet failed: %v", err)
		}

		history, err := o.RunLoop()
		if err != nil {
			tst.Fatalf("RunLoop failed: %v", err)
		}
		if len(history) == 0 {
			tst.Fatalf("expected at least one iteration")
		}
		// the interior is the eight central cells, i.e. the cube [-2,2]^3,
		// whose exact 1s population is erf(2*sqrt(2))^3; the closed-form
		// moment path reproduces it to rounding.
		first := history[0]
		chk.Scalar(tst, "P_1", 1e-12, first.P, math.Pow(math.Erf(2*math.Sqrt2), 3))
		if !history[len(history)-1].Converged {
			tst.Errorf("the loop must report convergence within iter_max")
		}

		// the rename dance must leave the user's mesh name on disk
		if _, err := os.Stat("domain.mesh"); err != nil {
			tst.Errorf("expected domain.mesh restored after the run: %v", err)
		}
		if _, err := os.Stat("metric.mesh"); err == nil {
			tst.Errorf("the reserved working mesh must not survive the run")
		}
	})
}

func Test_failing_tool_surfaces_and_restores_mesh(tst *testing.T) {
	chk.PrintTitle("a failing remesher aborts the step and restores the original mesh name")

	inTempDir(tst, func() {
		cs := hydrogenSystem(tst)
		runner := &fakeRunner{fail: ToolMmg3d, bomb: true}
		o, err := New(testConfig(), cs, "domain.mesh", runner)
		if err != nil {
			tst.Fatalf("New failed: %v", err)
		}
		if err := o.BuildDomain(); err != nil {
			tst.Fatalf("BuildDomain failed: %v", err)
		}
		if _, err := o.BuildMetric(); err != nil {
			tst.Fatalf("BuildMetric failed: %v", err)
		}

		err = o.RemeshUnderMetric()
		if err == nil {
			tst.Fatalf("expected the simulated tool failure to surface")
		}
		if !mpderr.Is(err, mpderr.ExternalToolFailure) {
			tst.Errorf("wrong error kind: %v", err)
		}
		if _, serr := os.Stat("domain.mesh"); serr != nil {
			tst.Errorf("the original mesh name must be restored on failure: %v", serr)
		}
	})
}

func Test_abort_flag_stops_loop_between_iterations(tst *testing.T) {
	chk.PrintTitle("cooperative abort is polled between iterations")

	inTempDir(tst, func() {
		cs := hydrogenSystem(tst)
		o, err := New(testConfig(), cs, "domain.mesh", &fakeRunner{})
		if err != nil {
			tst.Fatalf("New failed: %v", err)
		}
		if err := o.BuildDomain(); err != nil {
			tst.Fatalf("BuildDomain failed: %v", err)
		}
		if _, err := o.BuildMetric(); err != nil {
			tst.Fatalf("BuildMetric failed: %v", err)
		}
		if err := o.RemeshUnderMetric(); err != nil {
			tst.Fatalf("RemeshUnderMetric failed: %v", err)
		}
		if err := o.BuildLevelSet(); err != nil {
			tst.Fatalf("BuildLevelSet failed: %v", err)
		}
		if err := o.RemeshUnderLevelSet(); err != nil {
			tst.Fatalf("RemeshUnderLevelSet failed: %v", err)
		}

		o.AbortRequested = true
		history, err := o.RunLoop()
		if err != nil {
			tst.Fatalf("RunLoop failed: %v", err)
		}
		if len(history) != 0 {
			tst.Errorf("an abort requested before the first iteration must run nothing, got %d iterations", len(history))
		}
	})
}
