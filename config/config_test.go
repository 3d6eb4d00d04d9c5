// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_config01(tst *testing.T) {

	chk.PrintTitle("config01: GridConfig round-trips through JSON with defaults applied")

	f, err := ioutil.TempFile(".", "test_gridconfig_*.json")
	if err != nil {
		tst.Errorf("TempFile failed: %v", err)
		return
	}
	defer os.Remove(f.Name())
	f.WriteString(`{"dim":2,"domain":[0,10,0,10],"periodicinx":false}`)
	f.Close()

	cfg, err := ReadGridConfig(f.Name())
	if err != nil {
		tst.Errorf("ReadGridConfig failed: %v", err)
		return
	}
	chk.IntAssert(cfg.Dim, 2)
	chk.Vector(tst, "domain", 1e-12, cfg.Domain, []float64{0, 10, 0, 10})
	chk.Scalar(tst, "boxwidth default", 1e-12, cfg.BoxWidth, 1.0)
	if !cfg.CalcNeighbours {
		tst.Errorf("expected CalcNeighbours default to be true")
	}
}

func Test_config02(tst *testing.T) {

	chk.PrintTitle("config02: MeshPairConfig round-trips through JSON")

	f, err := ioutil.TempFile(".", "test_meshpairconfig_*.json")
	if err != nil {
		tst.Errorf("TempFile failed: %v", err)
		return
	}
	defer os.Remove(f.Name())
	f.WriteString(`{"fineboxwidth":0.5,"coarseboxwidth":1.0,"safemode":true}`)
	f.Close()

	cfg, err := ReadMeshPairConfig(f.Name())
	if err != nil {
		tst.Errorf("ReadMeshPairConfig failed: %v", err)
		return
	}
	chk.Scalar(tst, "fineboxwidth", 1e-12, cfg.FineBoxWidth, 0.5)
	chk.Scalar(tst, "coarseboxwidth", 1e-12, cfg.CoarseBoxWidth, 1.0)
	if !cfg.SafeMode {
		tst.Errorf("expected SafeMode true")
	}
}

func Test_config03(tst *testing.T) {

	chk.PrintTitle("config03: ReadGridConfig fails cleanly on a missing file")

	_, err := ReadGridConfig("does_not_exist.json")
	if err == nil {
		tst.Errorf("expected an error for a missing config file")
	}
}
