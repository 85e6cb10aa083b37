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

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// Turbine converts shaft power to fuel consumption through a
// load/efficiency table. Composing a Turbine with a Train gives a
// turbine-driven compressor unit.
type Turbine struct {
	loads        []float64 // [MW], starting at 0, strictly increasing
	efficiencies []float64 // fraction of fuel energy reaching the shaft

	// LowerHeatingValue of the fuel gas [MJ/Sm³].
	LowerHeatingValue float64

	// PowerAdjustment is a constant shift [MW] applied to the train's
	// shaft power before the turbine lookup.
	PowerAdjustment float64

	eff interp.PiecewiseLinear
}

// NewTurbine creates a turbine model. The load table must start at
// load 0 and increase strictly; efficiencies are fractions in [0,1].
func NewTurbine(loads, efficiencies []float64, lowerHeatingValue, powerAdjustment float64) (*Turbine, error) {
	if len(loads) != len(efficiencies) {
		return nil, fmt.Errorf("gascomp: turbine table lengths differ: %d loads, %d efficiencies",
			len(loads), len(efficiencies))
	}
	if len(loads) < 2 {
		return nil, fmt.Errorf("gascomp: turbine table requires at least 2 points but has %d", len(loads))
	}
	if loads[0] != 0 {
		return nil, fmt.Errorf("gascomp: turbine load table must start at 0 but starts at %g", loads[0])
	}
	for i := range loads {
		if i > 0 && loads[i] <= loads[i-1] {
			return nil, fmt.Errorf("gascomp: turbine loads must be strictly increasing at index %d", i)
		}
		if efficiencies[i] < 0 || efficiencies[i] > 1 {
			return nil, fmt.Errorf("gascomp: turbine efficiency must be in [0,1] but is %g at index %d",
				efficiencies[i], i)
		}
	}
	if lowerHeatingValue <= 0 {
		return nil, fmt.Errorf("gascomp: turbine lower heating value must be positive, got %g", lowerHeatingValue)
	}
	t := &Turbine{
		loads:             append([]float64{}, loads...),
		efficiencies:      append([]float64{}, efficiencies...),
		LowerHeatingValue: lowerHeatingValue,
		PowerAdjustment:   powerAdjustment,
	}
	if err := t.eff.Fit(t.loads, t.efficiencies); err != nil {
		return nil, fmt.Errorf("gascomp: fitting turbine efficiency table: %v", err)
	}
	return t, nil
}

// Efficiency returns the turbine efficiency at the given load [MW],
// clamped to the table range.
func (t *Turbine) Efficiency(loadMW float64) float64 {
	if loadMW <= t.loads[0] {
		return t.efficiencies[0]
	}
	if max := t.loads[len(t.loads)-1]; loadMW >= max {
		return t.efficiencies[len(t.efficiencies)-1]
	}
	return t.eff.Predict(loadMW)
}

// FuelUsage returns the fuel gas consumed [Sm³/day] to deliver the
// given shaft power [MW]. Zero shaft power consumes no fuel regardless
// of the table or the power adjustment.
func (t *Turbine) FuelUsage(shaftPowerMW float64) float64 {
	if shaftPowerMW == 0 {
		return 0
	}
	load := shaftPowerMW + t.PowerAdjustment
	eff := t.Efficiency(load)
	if eff <= 0 {
		return 0
	}
	return load * secondsPerDay / (t.LowerHeatingValue * eff)
}

// MaxLoad returns the highest tabulated turbine load [MW].
func (t *Turbine) MaxLoad() float64 { return t.loads[len(t.loads)-1] }
