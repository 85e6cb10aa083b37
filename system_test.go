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

package gascomp

import "testing"

// testSystemUnits builds two identical parallel trains, the first one
// turbine-driven.
func testSystemUnits(t *testing.T) []SystemUnit {
	t.Helper()
	return []SystemUnit{
		{Name: "A", Train: twoStageTrain(t, ControlNone), Turbine: testTurbine(t, 0)},
		{Name: "B", Train: twoStageTrain(t, ControlNone)},
	}
}

func systemBase() OperatingPoint {
	return OperatingPoint{
		SuctionPressure:   50,
		DischargePressure: 150,
		InletTemperature:  300,
	}
}

func TestSystemSettingPriority(t *testing.T) {
	// The first setting sends everything through unit A, which cannot
	// absorb 6 MSm³/day; the even split in the second setting can.
	sys, err := NewSystem(testSystemUnits(t), []OperationalSetting{
		{Fractions: []float64{1, 0}},
		{Fractions: []float64{0.5, 0.5}},
	})
	if err != nil {
		t.Fatal(err)
	}
	r := sys.Evaluate(6e6, systemBase())
	if !r.IsValid() {
		t.Fatalf("result invalid: %v", r.State)
	}
	if r.Setting != 1 {
		t.Errorf("accepted setting %d, want 1", r.Setting)
	}
	for i, tr := range r.Results {
		if different(tr.DischargePressure, 150, targetTolerance) {
			t.Errorf("unit %d discharge = %g, want 150", i, tr.DischargePressure)
		}
	}
	if want := r.Results[0].Power + r.Results[1].Power; different(r.Power(), want, testTolerance) {
		t.Errorf("system power = %g, want %g", r.Power(), want)
	}
	// Only the turbine-driven unit burns fuel.
	if r.Fuel[0] <= 0 {
		t.Errorf("unit A fuel = %g, want positive", r.Fuel[0])
	}
	if r.Fuel[1] != 0 {
		t.Errorf("unit B fuel = %g, want 0", r.Fuel[1])
	}
}

func TestSystemNoFeasibleSetting(t *testing.T) {
	sys, err := NewSystem(testSystemUnits(t), []OperationalSetting{
		{Fractions: []float64{1, 0}},
	})
	if err != nil {
		t.Fatal(err)
	}
	r := sys.Evaluate(6e6, systemBase())
	if r.IsValid() {
		t.Fatal("infeasible duty reported valid")
	}
	if r.Setting != 0 {
		t.Errorf("reported setting %d, want 0", r.Setting)
	}
	// The failing evaluation is still reported in full.
	if len(r.Results) != 2 {
		t.Fatalf("got %d unit results, want 2", len(r.Results))
	}
	if r.Results[0].IsValid() {
		t.Error("overloaded unit reported valid")
	}
}

func TestSystemCrossover(t *testing.T) {
	// Unit A takes the whole duty and spills what it cannot absorb
	// over to unit B.
	sys, err := NewSystem(testSystemUnits(t), []OperationalSetting{
		{Fractions: []float64{1, 0}, Crossover: []int{1, -1}},
	})
	if err != nil {
		t.Fatal(err)
	}
	r := sys.Evaluate(6e6, systemBase())
	if !r.IsValid() {
		t.Fatalf("result invalid: %v", r.State)
	}
	for i, tr := range r.Results {
		if different(tr.DischargePressure, 150, targetTolerance) {
			t.Errorf("unit %d discharge = %g, want 150", i, tr.DischargePressure)
		}
	}
	// A runs at its capacity boundary, B absorbs the remainder.
	if r.Results[0].Power <= r.Results[1].Power {
		t.Errorf("unit powers %g, %g: expected the crossover source to carry more",
			r.Results[0].Power, r.Results[1].Power)
	}
}

func TestSystemRateAndPressureOverrides(t *testing.T) {
	sys, err := NewSystem(testSystemUnits(t), []OperationalSetting{
		{
			Rates:              []float64{3e6, 2.5e6},
			DischargePressures: []float64{150, 140},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	// The total rate is ignored when the setting assigns absolute
	// rates.
	r := sys.Evaluate(0, systemBase())
	if !r.IsValid() {
		t.Fatalf("result invalid: %v", r.State)
	}
	if different(r.Results[0].DischargePressure, 150, targetTolerance) {
		t.Errorf("unit A discharge = %g, want 150", r.Results[0].DischargePressure)
	}
	if different(r.Results[1].DischargePressure, 140, targetTolerance) {
		t.Errorf("unit B discharge = %g, want 140", r.Results[1].DischargePressure)
	}
}

func TestNewSystemErrors(t *testing.T) {
	units := testSystemUnits(t)
	cases := []struct {
		name     string
		units    []SystemUnit
		settings []OperationalSetting
	}{
		{"no units", nil, []OperationalSetting{{Fractions: []float64{1}}}},
		{"no settings", units, nil},
		{"neither rates nor fractions", units, []OperationalSetting{{}}},
		{"fraction length mismatch", units, []OperationalSetting{{Fractions: []float64{1}}}},
		{"pressure length mismatch", units, []OperationalSetting{
			{Fractions: []float64{0.5, 0.5}, DischargePressures: []float64{150}},
		}},
		{"crossover length mismatch", units, []OperationalSetting{
			{Fractions: []float64{0.5, 0.5}, Crossover: []int{1}},
		}},
		{"crossover to itself", units, []OperationalSetting{
			{Fractions: []float64{0.5, 0.5}, Crossover: []int{0, -1}},
		}},
		{"crossover out of range", units, []OperationalSetting{
			{Fractions: []float64{0.5, 0.5}, Crossover: []int{2, -1}},
		}},
		{"crossover cycle", units, []OperationalSetting{
			{Fractions: []float64{0.5, 0.5}, Crossover: []int{1, 0}},
		}},
	}
	for _, c := range cases {
		if _, err := NewSystem(c.units, c.settings); err == nil {
			t.Errorf("%s: expected error but got none", c.name)
		}
	}
}
