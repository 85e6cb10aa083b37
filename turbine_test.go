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

func testTurbine(t *testing.T, powerAdjustment float64) *Turbine {
	t.Helper()
	tb, err := NewTurbine(
		[]float64{0, 10, 20, 30},
		[]float64{0.20, 0.30, 0.35, 0.33},
		40, powerAdjustment)
	if err != nil {
		t.Fatal(err)
	}
	return tb
}

func TestTurbineEfficiency(t *testing.T) {
	tb := testTurbine(t, 0)
	cases := []struct{ load, want float64 }{
		{0, 0.20},
		{10, 0.30},
		{15, 0.325},
		{30, 0.33},
		// Clamped outside the table.
		{-5, 0.20},
		{50, 0.33},
	}
	for _, c := range cases {
		if got := tb.Efficiency(c.load); different(got, c.want, testTolerance) {
			t.Errorf("Efficiency(%g) = %g, want %g", c.load, got, c.want)
		}
	}
}

func TestTurbineFuelUsage(t *testing.T) {
	tb := testTurbine(t, 0)
	if got := tb.FuelUsage(0); got != 0 {
		t.Errorf("FuelUsage(0) = %g, want 0", got)
	}
	// 10 MW at 30% efficiency from 40 MJ/Sm³ fuel:
	// 10 * 86400 / (40 * 0.30) = 72000 Sm³/day.
	if got := tb.FuelUsage(10); different(got, 72000, testTolerance) {
		t.Errorf("FuelUsage(10) = %g, want 72000", got)
	}
	// Fuel usage grows with load.
	prev := 0.
	for _, load := range []float64{5, 10, 15, 20, 25, 30} {
		fuel := tb.FuelUsage(load)
		if fuel <= prev {
			t.Errorf("FuelUsage(%g) = %g, not above %g", load, fuel, prev)
		}
		prev = fuel
	}
}

func TestTurbinePowerAdjustment(t *testing.T) {
	tb := testTurbine(t, 2)
	// The adjusted load drives both the lookup and the fuel energy.
	want := 12 * secondsPerDay / (40 * tb.Efficiency(12))
	if got := tb.FuelUsage(10); different(got, want, testTolerance) {
		t.Errorf("FuelUsage(10) = %g, want %g", got, want)
	}
	if got := tb.FuelUsage(0); got != 0 {
		t.Errorf("FuelUsage(0) = %g, want 0", got)
	}
}

func TestTurbineMaxLoad(t *testing.T) {
	if got := testTurbine(t, 0).MaxLoad(); got != 30 {
		t.Errorf("MaxLoad = %g, want 30", got)
	}
}

func TestNewTurbineErrors(t *testing.T) {
	cases := []struct {
		name        string
		loads, effs []float64
		lhv         float64
	}{
		{"length mismatch", []float64{0, 10}, []float64{0.2}, 40},
		{"single point", []float64{0}, []float64{0.2}, 40},
		{"nonzero first load", []float64{5, 10}, []float64{0.2, 0.3}, 40},
		{"non-increasing loads", []float64{0, 10, 10}, []float64{0.2, 0.3, 0.3}, 40},
		{"efficiency above one", []float64{0, 10}, []float64{0.2, 1.3}, 40},
		{"negative efficiency", []float64{0, 10}, []float64{-0.1, 0.3}, 40},
		{"zero heating value", []float64{0, 10}, []float64{0.2, 0.3}, 0},
	}
	for _, c := range cases {
		if _, err := NewTurbine(c.loads, c.effs, c.lhv, 0); err == nil {
			t.Errorf("%s: expected error but got none", c.name)
		}
	}
}
