/*
Copyright © 2026 the GasComp authors.
This file is part of GasComp.

GasComp is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GasComp is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GasComp.  If not, see <http://www.gnu.org/licenses/>.
*/

package gascomputil

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	Root.SetOut(&buf)
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "GasComp v") {
		t.Errorf("version output = %q", buf.String())
	}
}

func TestRunCmdRequiresConfig(t *testing.T) {
	Root.SetOut(io.Discard)
	Root.SetErr(io.Discard)
	Root.SetArgs([]string{"run"})
	if err := Root.Execute(); err == nil {
		t.Fatal("expected an error without a configuration file")
	}
}

func TestRunSeries(t *testing.T) {
	cfg, err := ReadConfig(writeConfig(t, testConfig))
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "report.csv")
	log := logrus.New()
	log.SetOutput(io.Discard)
	if err := RunSeries(nil, cfg, out, log); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d report rows, want header + 2", len(rows))
	}
	for _, row := range rows[1:] {
		if row[3] != "true" {
			t.Errorf("step reported invalid: %v", row)
		}
	}
}

func TestRunCmd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.csv")
	Root.SetOut(io.Discard)
	Root.SetErr(io.Discard)
	Root.SetArgs([]string{"run",
		"--config", writeConfig(t, testConfig),
		"--LogFile", filepath.Join(t.TempDir(), "run.log"),
		"-o", out,
	})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("report not written: %v", err)
	}
}
