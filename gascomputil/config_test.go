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
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testConfig = `
Composition = {methane = 1.0}
FluidCacheSize = 100
FluidMaxRetries = 2

[Train]
Type = "VARIABLE_SPEED"
PressureControl = "DOWNSTREAM_CHOKE"

[[Train.Stages]]
InletTemperature = 300.0

[Train.Stages.Chart]
HeadUnit = "kJ/kg"
DesignRate = 2300.0
DesignHead = 95.0
Efficiency = 0.75

[[Train.Stages]]
InletTemperature = 300.0

[Train.Stages.Chart]
HeadUnit = "kJ/kg"
DesignRate = 1200.0
DesignHead = 95.0
Efficiency = 0.75

[Turbine]
Loads = [0.0, 10.0, 20.0, 30.0]
Efficiencies = [0.20, 0.30, 0.35, 0.33]
LowerHeatingValue = 40.0

[[Steps]]
Time = "2024-01-01T00:00:00Z"
Rate = 3e6
SuctionPressure = 50.0
DischargePressure = 150.0
InletTemperature = 300.0

[[Steps]]
Time = "2024-01-01T01:00:00Z"
Rate = 3e6
SuctionPressure = 50.0
DischargePressure = 160.0
InletTemperature = 300.0
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "facility.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(writeConfig(t, testConfig))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Train.Type != "VARIABLE_SPEED" {
		t.Errorf("train type = %q", cfg.Train.Type)
	}
	if len(cfg.Train.Stages) != 2 {
		t.Fatalf("got %d stages, want 2", len(cfg.Train.Stages))
	}
	if cfg.Composition["methane"] != 1 {
		t.Errorf("composition = %v", cfg.Composition)
	}
	if cfg.Turbine == nil || cfg.Turbine.LowerHeatingValue != 40 {
		t.Errorf("turbine = %+v", cfg.Turbine)
	}
	if len(cfg.Steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(cfg.Steps))
	}
}

func TestReadConfigMissingFile(t *testing.T) {
	if _, err := ReadConfig(filepath.Join(t.TempDir(), "nonexistent.toml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestBuildTrain(t *testing.T) {
	cfg, err := ReadConfig(writeConfig(t, testConfig))
	if err != nil {
		t.Fatal(err)
	}
	train, err := cfg.BuildTrain(cfg.Port())
	if err != nil {
		t.Fatal(err)
	}
	steps, err := cfg.BuildSteps()
	if err != nil {
		t.Fatal(err)
	}
	r := train.Evaluate(steps[0].Point)
	if !r.IsValid() {
		t.Fatalf("result invalid: %v", r.State)
	}
	if d := r.DischargePressure; d < 150*(1-1e-4) || d > 150*(1+1e-4) {
		t.Errorf("discharge = %g, want 150", d)
	}
}

func TestBuildTurbine(t *testing.T) {
	cfg, err := ReadConfig(writeConfig(t, testConfig))
	if err != nil {
		t.Fatal(err)
	}
	tb, err := cfg.BuildTurbine()
	if err != nil {
		t.Fatal(err)
	}
	if tb == nil {
		t.Fatal("turbine not built")
	}
	if got := tb.MaxLoad(); got != 30 {
		t.Errorf("max load = %g, want 30", got)
	}

	cfg.Turbine = nil
	tb, err = cfg.BuildTurbine()
	if err != nil || tb != nil {
		t.Errorf("without a turbine section: %v, %v", tb, err)
	}
}

func TestBuildSteps(t *testing.T) {
	cfg, err := ReadConfig(writeConfig(t, testConfig))
	if err != nil {
		t.Fatal(err)
	}
	steps, err := cfg.BuildSteps()
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
	if !steps[1].Time.Equal(want) {
		t.Errorf("step 1 time = %v, want %v", steps[1].Time, want)
	}
	if steps[1].Point.DischargePressure != 160 {
		t.Errorf("step 1 discharge target = %g, want 160", steps[1].Point.DischargePressure)
	}

	cfg.Steps[0].Time = "yesterday"
	if _, err := cfg.BuildSteps(); err == nil {
		t.Error("expected an error for an unparseable time")
	}
}

func TestBuildChartVariants(t *testing.T) {
	// A single tabulated curve yields a fixed-speed chart.
	single := &ChartConfig{
		HeadUnit: "kJ/kg",
		Curves: []CurveConfig{{
			Speed:        5500,
			Rates:        []float64{1500, 2000, 2500},
			Heads:        []float64{220, 200, 170},
			Efficiencies: []float64{0.7, 0.75, 0.72},
		}},
	}
	ch, err := single.buildChart()
	if err != nil {
		t.Fatal(err)
	}
	if got := ch.MinSpeed(); got != 5500 {
		t.Errorf("single-curve chart min speed = %g, want 5500", got)
	}

	// Several curves yield a variable-speed chart.
	multi := &ChartConfig{
		HeadUnit: "kJ/kg",
		Curves: []CurveConfig{
			{Speed: 100, Rates: []float64{10, 20}, Heads: []float64{100, 50}, Efficiencies: []float64{0.8, 0.8}},
			{Speed: 200, Rates: []float64{20, 40}, Heads: []float64{400, 200}, Efficiencies: []float64{0.6, 0.6}},
		},
	}
	ch, err = multi.buildChart()
	if err != nil {
		t.Fatal(err)
	}
	if ch.MinSpeed() != 100 || ch.MaxSpeed() != 200 {
		t.Errorf("multi-curve chart speed range = [%g, %g], want [100, 200]",
			ch.MinSpeed(), ch.MaxSpeed())
	}

	// Rate/head samples yield a generic chart sized to cover them.
	samples := &ChartConfig{
		HeadUnit:   "kJ/kg",
		Rates:      []float64{80, 100, 120},
		Heads:      []float64{40, 35, 25},
		Efficiency: 0.75,
	}
	if _, err := samples.buildChart(); err != nil {
		t.Fatal(err)
	}

	if _, err := (&ChartConfig{}).buildChart(); err == nil {
		t.Error("empty chart configuration did not error")
	}
	if _, err := (&ChartConfig{HeadUnit: "furlong", DesignRate: 1, DesignHead: 1, Efficiency: 0.7}).buildChart(); err == nil {
		t.Error("unknown head unit did not error")
	}
}

func TestBuildTrainErrors(t *testing.T) {
	cfg, err := ReadConfig(writeConfig(t, testConfig))
	if err != nil {
		t.Fatal(err)
	}

	bad := *cfg
	bad.Train.Type = "RECIPROCATING"
	if _, err := bad.BuildTrain(bad.Port()); err == nil {
		t.Error("unknown train type did not error")
	}

	bad = *cfg
	bad.Train.PressureControl = "VENT"
	if _, err := bad.BuildTrain(bad.Port()); err == nil {
		t.Error("unknown pressure control did not error")
	}
}
