// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adapt

import (
	"os/exec"

	"github.com/ISCDtoolbox/MPD-sub002/ioformat"
	"github.com/ISCDtoolbox/MPD-sub002/mpderr"
)

// ToolName identifies one of the bundled external binaries.
type ToolName int

const (
	ToolMmg3d ToolName = iota
	ToolMshdist
	ToolElastic
	ToolAdvect
	ToolMedit
)

func (t ToolName) String() string {
	switch t {
	case ToolMmg3d:
		return "mmg3d"
	case ToolMshdist:
		return "mshdist"
	case ToolElastic:
		return "elastic"
	case ToolAdvect:
		return "advect"
	case ToolMedit:
		return "medit"
	default:
		return "unknown"
	}
}

// RemeshMode selects one of mmg3d's three invocation modes: plain
// metric-driven remeshing, level-set remeshing, or Lagrangian motion.
type RemeshMode string

const (
	ModeMet RemeshMode = "-met"
	ModeLS  RemeshMode = "-ls"
	ModeLag RemeshMode = "-lag"
)

// Runner abstracts the single suspension point this core blocks on: an
// external-tool process invocation. The orchestrator treats the exit
// status as a value; a non-zero exit is surfaced as ExternalToolFailure.
// Production code uses ExecRunner; tests inject a fake that records calls
// without touching the filesystem or spawning a process.
type Runner interface {
	Run(tool ToolName, path string, args ...string) error
}

// ExecRunner invokes each external binary at `path` with the given
// arguments: process exec with command-line path + mesh basename.
type ExecRunner struct{}

// Run executes path with args and returns ExternalToolFailure if the
// process exits non-zero or cannot start.
func (ExecRunner) Run(tool ToolName, path string, args ...string) error {
	const comp = "adapt.ExecRunner.Run"
	cmd := exec.Command(path, args...)
	if err := cmd.Run(); err != nil {
		return mpderr.New(mpderr.ExternalToolFailure, comp, tool.String(), "external tool failed: %v", err)
	}
	return nil
}

const (
	workingMeshName = "metric.mesh"
	workingSolName  = "metric.sol"
)

// runTool performs the scoped rename dance around one mmg3d invocation:
// write `<meshPath>` from the current grid, rename it to `metric.mesh`,
// write `metric.sol` from the mesh's current per-vertex Value field, invoke
// mmg3d in the given mode, reload the remeshed grid from `metric.mesh`, and
// rename the working file back. The
// rename is guaranteed to be undone on every exit path, including an error
// from the tool itself.
func (o *Orchestrator) runTool(mode RemeshMode) (err error) {
	const comp = "adapt.Orchestrator.runTool"

	if werr := ioformat.WriteMesh(o.meshPath, ioformat.HexMeshToMedit(o.Mesh)); werr != nil {
		return werr
	}

	sol := make([]float64, len(o.Mesh.Vertices))
	for i, v := range o.Mesh.Vertices {
		sol[i] = v.Value
	}

	rn, rerr := ioformat.BeginRename(o.meshPath, workingMeshName)
	if rerr != nil {
		return rerr
	}
	defer func() {
		if cerr := rn.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if werr := ioformat.WriteSol(workingSolName, sol); werr != nil {
		return werr
	}

	if rerr := o.Runner.Run(ToolMmg3d, o.Cfg.Tools.Mmg3d, string(mode), workingMeshName); rerr != nil {
		return mpderr.Wrap(mpderr.ExternalToolFailure, comp, rerr)
	}

	remeshed, rerr := ioformat.ReadMesh(workingMeshName)
	if rerr != nil {
		return rerr
	}
	if rerr := ioformat.MeditToHexLabels(remeshed, o.Mesh); rerr != nil {
		return rerr
	}
	return nil
}
