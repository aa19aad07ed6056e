// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import "testing"

func Test_extOf01_extension_extraction(tst *testing.T) {
	cases := map[string]string{
		"mesh.ugrid":          "ugrid",
		"/tmp/out/final.b8.ugrid": "ugrid",
		"noext":               "",
		"dir.with.dots/file":  "",
	}
	for in, want := range cases {
		if got := extOf(in); got != want {
			tst.Errorf("extOf(%q) = %q, want %q", in, got, want)
		}
	}
}
