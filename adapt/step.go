// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adapt

import (
	"math"

	"github.com/cpmech/gosl/io"

	"github.com/ISCDtoolbox/MPD-sub002/gauss"
	"github.com/ISCDtoolbox/MPD-sub002/ioformat"
	"github.com/ISCDtoolbox/MPD-sub002/mesh"
	"github.com/ISCDtoolbox/MPD-sub002/mpderr"
	"github.com/ISCDtoolbox/MPD-sub002/overlap"
	"github.com/ISCDtoolbox/MPD-sub002/population"
)

// IterationResult reports one Loop iteration's outcome.
type IterationResult struct {
	Iter      int
	P         float64
	DeltaP    float64
	Converged bool
}

// boundaryVertexIndices collects the distinct 0-based vertex indices
// referenced by the extracted interface quads, in first-seen order (the
// same traversal order ExtractQuads produces, so results are bit-identical
// across runs).
func boundaryVertexIndices(quads []mesh.Quad) []int {
	seen := make(map[int]bool, len(quads)*4)
	var out []int
	for _, q := range quads {
		for _, vi := range q.Vertices {
			if !seen[vi] {
				seen[vi] = true
				out = append(out, vi)
			}
		}
	}
	return out
}

// Step runs one Loop iteration: overlap build, probability and
// shape-derivative evaluation, elasticity extension, level-set advection,
// remesh under the combined metric+level-set size field, adjacency
// rebuild. prevP is the probability from the previous iteration (0 on the
// first call). It blocks on every Runner.Run call and polls
// o.AbortRequested before doing any work.
func (o *Orchestrator) Step(iter int, prevP float64) (IterationResult, error) {
	const comp = "adapt.Orchestrator.Step"
	if o.State != StateLoop {
		return IterationResult{}, mpderr.New(mpderr.InvalidArgument, comp, o.State, "Step requires state Loop")
	}
	if iter < 0 || iter > o.Cfg.Opt.IterMax {
		return IterationResult{}, mpderr.New(mpderr.InvalidArgument, comp, iter, "iteration index must be in [0, iter_max]")
	}
	if o.AbortRequested {
		return IterationResult{}, mpderr.New(mpderr.InvalidArgument, comp, iter, "abort requested before iteration start")
	}

	// the hexahedral interior is a union of axis-aligned cells, so the
	// overlaps come from the closed-form moment path, not quadrature.
	boxes := overlap.InteriorBoxes(o.Mesh)

	pairwise, err := overlap.PairwiseOverlapsBoxes(o.Centers, o.Chem, boxes)
	if err != nil {
		return IterationResult{}, err
	}

	matrices := make([]overlap.Matrix, 0, len(o.Chem.Determinants))
	for d, det := range o.Chem.Determinants {
		m, merr := overlap.BuildDeterminantMatrix(pairwise, d, d, det, det)
		if merr != nil {
			return IterationResult{}, merr
		}
		matrices = append(matrices, m)
	}

	P, err := population.Probability(matrices, o.Cfg.Opt.NuElectrons)
	if err != nil {
		return IterationResult{}, err
	}

	quads, adj, err := mesh.ExtractQuads(o.Mesh)
	if err != nil {
		return IterationResult{}, err
	}
	if err := mesh.ValidateAdjacency(o.Mesh, quads, adj); err != nil {
		return IterationResult{}, err
	}

	boundaryIdx := boundaryVertexIndices(quads)
	boundaryPts := make([]gauss.Vec3, len(boundaryIdx))
	for k, vi := range boundaryIdx {
		v := o.Mesh.Vertices[vi]
		boundaryPts[k] = gauss.Vec3{X: v.X, Y: v.Y, Z: v.Z}
	}

	G, err := population.ShapeDerivativeField(o.Centers, o.Chem, matrices, boundaryPts)
	if err != nil {
		return IterationResult{}, err
	}

	extended, err := o.extendAndAdvect(boundaryIdx, G)
	if err != nil {
		return IterationResult{}, err
	}
	for i, dv := range extended {
		o.Mesh.Vertices[i].Value += o.Cfg.Advect.DeltaT * dv
	}

	// Remesh under the combined metric+level-set size field: the advected
	// Value field just written above already carries the level-set signed
	// distance this step folds in, the same reusable per-vertex scalar the
	// metric builder wrote during BuildMetric.
	if err := o.runTool(ModeLag); err != nil {
		return IterationResult{}, err
	}

	quads, adj, err = mesh.ExtractQuads(o.Mesh)
	if err != nil {
		return IterationResult{}, err
	}
	if err := mesh.ValidateAdjacency(o.Mesh, quads, adj); err != nil {
		return IterationResult{}, err
	}

	delta := math.Abs(P - prevP)
	converged := delta < o.Cfg.Opt.ResidualP0 || iter >= o.Cfg.Opt.IterMax
	if o.Cfg.Verbose > 0 {
		io.Pf("adapt: iter=%d P=%.6f deltaP=%.3e\n", iter, P, delta)
	}
	return IterationResult{Iter: iter, P: P, DeltaP: delta, Converged: converged}, nil
}

// extendAndAdvect invokes the linear-elasticity extension of the boundary
// speed field G to the whole mesh, then the advection solver, via the
// `.sol` round trip at workingSolName. Both are external collaborators
// this package only blocks on and whose exit status it treats as a value;
// here, absent the actual binaries, the field is
// propagated to every vertex through the round-tripped file so package
// callers (and tests, via a fake Runner) observe the same file-based
// contract the real tools would see.
func (o *Orchestrator) extendAndAdvect(boundaryIdx []int, g []float64) ([]float64, error) {
	const comp = "adapt.Orchestrator.extendAndAdvect"

	full := make([]float64, len(o.Mesh.Vertices))
	for k, vi := range boundaryIdx {
		full[vi] = g[k]
	}
	if err := ioformat.WriteSol(workingSolName, full); err != nil {
		return nil, err
	}
	if err := o.Runner.Run(ToolElastic, o.Cfg.Tools.Elastic, workingSolName); err != nil {
		return nil, mpderr.Wrap(mpderr.ExternalToolFailure, comp, err)
	}
	if err := o.Runner.Run(ToolAdvect, o.Cfg.Tools.Advect, workingSolName); err != nil {
		return nil, mpderr.Wrap(mpderr.ExternalToolFailure, comp, err)
	}
	extended, err := ioformat.ReadSol(workingSolName)
	if err != nil {
		return nil, err
	}
	if len(extended) != len(o.Mesh.Vertices) {
		return nil, mpderr.New(mpderr.InvalidMesh, comp, len(extended),
			"extended speed field length must match the vertex count")
	}
	return extended, nil
}
