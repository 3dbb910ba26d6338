// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ioformat

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/io"

	"github.com/ISCDtoolbox/MPD-sub002/mpderr"
)

// ReadSol parses a `.sol` scalar-per-vertex companion file: header
// `MeshVersionFormatted 2` / `Dimension 3` / `SolAtVertices N` / `1 1`,
// then N scalar lines, then `End`.
func ReadSol(path string) ([]float64, error) {
	const comp = "ioformat.ReadSol"
	raw, err := io.ReadFile(path)
	if err != nil {
		return nil, mpderr.New(mpderr.FileSystemError, comp, path, "cannot read sol file: %v", err)
	}

	sc := bufio.NewScanner(bytes.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var n int
	var values []float64
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "SolAtVertices" {
			continue
		}
		if !sc.Scan() {
			return nil, mpderr.New(mpderr.InvalidMesh, comp, path, "truncated SolAtVertices count")
		}
		n, err = strconv.Atoi(strings.TrimSpace(sc.Text()))
		if err != nil {
			return nil, mpderr.New(mpderr.InvalidMesh, comp, sc.Text(), "malformed SolAtVertices count")
		}
		if !sc.Scan() {
			return nil, mpderr.New(mpderr.InvalidMesh, comp, path, "missing solution-type line")
		}
		values = make([]float64, n)
		for i := 0; i < n; i++ {
			if !sc.Scan() {
				return nil, mpderr.New(mpderr.InvalidMesh, comp, path, "truncated solution values")
			}
			v, convErr := strconv.ParseFloat(strings.TrimSpace(sc.Text()), 64)
			if convErr != nil {
				return nil, mpderr.New(mpderr.InvalidMesh, comp, sc.Text(), "malformed solution value")
			}
			values[i] = v
		}
		return values, nil
	}
	return nil, mpderr.New(mpderr.InvalidMesh, comp, path, "missing SolAtVertices section")
}

// WriteSol serializes values to a `.sol` file, one scalar per line at
// 8-decimal scientific precision.
func WriteSol(path string, values []float64) error {
	const comp = "ioformat.WriteSol"
	var b strings.Builder
	fmt.Fprintf(&b, "MeshVersionFormatted 2\n\nDimension 3\n\n")
	fmt.Fprintf(&b, "SolAtVertices\n%d\n1 1\n", len(values))
	for _, v := range values {
		fmt.Fprintf(&b, "%.8e\n", v)
	}
	b.WriteString("\nEnd\n")
	if err := writeFile(path, b.String()); err != nil {
		return mpderr.New(mpderr.FileSystemError, comp, path, "cannot write sol file: %v", err)
	}
	return nil
}
