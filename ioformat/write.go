// Copyright 2016 The MPD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ioformat

import (
	"fmt"
	"path/filepath"

	"github.com/cpmech/gosl/io"
)

// writeFile writes content to path via gosl/io.WriteFileSD, recovering from
// the panic gosl's IO helpers raise on failure (chk.Panic, the same
// convention mpderr.Panic mirrors) and turning it into a returned error —
// every ioformat entry point surfaces a typed error to its caller, never a
// panic.
func writeFile(path, content string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	io.WriteFileSD(dir, base, content)
	return nil
}
