// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adapt

import "github.com/ISCDtoolbox/MPD-sub002/mpderr"

// RunLoop drives the Loop state by calling Step repeatedly until a result
// reports convergence (‖ΔP‖ < residual or iter >= iter_max) or
// o.AbortRequested is set, which is polled only between iterations — an
// in-flight external-tool call is never interrupted. It returns every
// iteration's result so a caller can inspect the convergence history.
func (o *Orchestrator) RunLoop() ([]IterationResult, error) {
	const comp = "adapt.Orchestrator.RunLoop"
	if o.State != StateLoop {
		return nil, mpderr.New(mpderr.InvalidArgument, comp, o.State, "RunLoop requires state Loop")
	}

	var history []IterationResult
	prevP := 0.0
	for iter := 0; iter <= o.Cfg.Opt.IterMax; iter++ {
		if o.AbortRequested {
			break
		}
		res, err := o.Step(iter, prevP)
		if err != nil {
			return history, err
		}
		history = append(history, res)
		prevP = res.P
		if res.Converged {
			break
		}
	}
	return history, nil
}
