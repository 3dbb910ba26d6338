// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command mpd is the thin wiring entry point this repository ships; a
// full-featured command-line driver belongs to an external collaborator,
// so this binary is kept minimal on purpose. It loads a JSON config and a
// JSON chemistry file, drives the orchestrator through its state machine
// once, and reports the optimization history.
package main

import (
	"flag"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/ISCDtoolbox/MPD-sub002/adapt"
	"github.com/ISCDtoolbox/MPD-sub002/chem"
	"github.com/ISCDtoolbox/MPD-sub002/config"
)

func main() {
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	var configPath, chemPath, meshPath string
	flag.StringVar(&configPath, "config", "", "path to a JSON config file")
	flag.StringVar(&chemPath, "chem", "", "path to a JSON chemistry file")
	flag.StringVar(&meshPath, "mesh", "domain.mesh", "working .mesh file this run owns")
	flag.Parse()

	if configPath == "" || chemPath == "" {
		chk.Panic("usage: mpd -config=<file.json> -chem=<file.json> [-mesh=domain.mesh]")
	}

	io.Pf("MPD -- Maximum Probability Domain engine\n\n")

	cs, err := chem.LoadJSON(chemPath)
	if err != nil {
		chk.Panic("%v", err)
	}

	src := config.JSONSource{Path: configPath}
	raw, err := src.Load()
	if err != nil {
		chk.Panic("%v", err)
	}
	cfg := raw
	cfg.NumMolOrbs = cs.NMorb()
	cfg, err = config.New(cfg)
	if err != nil {
		chk.Panic("%v", err)
	}

	orc, err := adapt.New(cfg, cs, meshPath, adapt.ExecRunner{})
	if err != nil {
		chk.Panic("%v", err)
	}

	if err := orc.BuildDomain(); err != nil {
		chk.Panic("%v", err)
	}
	if _, err := orc.BuildMetric(); err != nil {
		chk.Panic("%v", err)
	}
	if err := orc.RemeshUnderMetric(); err != nil {
		chk.Panic("%v", err)
	}
	if err := orc.BuildLevelSet(); err != nil {
		chk.Panic("%v", err)
	}
	if err := orc.RemeshUnderLevelSet(); err != nil {
		chk.Panic("%v", err)
	}

	history, err := orc.RunLoop()
	if err != nil {
		chk.Panic("%v", err)
	}
	for _, h := range history {
		io.Pf("iter=%d P=%.6f deltaP=%.3e converged=%v\n", h.Iter, h.P, h.DeltaP, h.Converged)
	}
}
