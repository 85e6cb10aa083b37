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

package chart

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// DesignPoint is the rate/head scaling that turns the unified curve
// shape into a concrete generic chart. Head is in J/kg.
type DesignPoint struct {
	Rate float64 // actual inlet flow rate [m³/h]
	Head float64 // polytropic head [J/kg]
}

// NewGenericFromDesignPoint synthesizes a variable-speed chart from the
// unified curve shape scaled by the given design point, with a fixed
// polytropic efficiency. The design head is supplied in the given unit.
// Speeds on the returned chart are normalized: the design speed is 1.
func NewGenericFromDesignPoint(designRate, designHead float64, unit HeadUnit, efficiency float64) (*VariableSpeed, error) {
	conv, err := unit.toJoulePerKg()
	if err != nil {
		return nil, err
	}
	return synthesize(DesignPoint{Rate: designRate, Head: designHead * conv}, efficiency)
}

// NewGenericFromInput derives a design point from sampled (rate, head)
// operating data and synthesizes the corresponding generic chart. The
// derived design point is the minimal scaling of the unified shape that
// admits every sample at or below the chart's capacity; it is fixed here
// at build time and the chart thereafter behaves exactly as one built
// from a supplied design point.
func NewGenericFromInput(rates, heads []float64, unit HeadUnit, efficiency float64) (*VariableSpeed, error) {
	dp, err := DeriveDesignPoint(rates, heads, unit)
	if err != nil {
		return nil, err
	}
	return synthesize(dp, efficiency)
}

// DeriveDesignPoint computes the minimal design point such that every
// (rate, head) sample lies within the capacity of the synthesized chart
// at its maximum speed. The result is monotone in the input: increasing
// any sample's rate or head can only increase or hold the design point.
func DeriveDesignPoint(rates, heads []float64, unit HeadUnit) (DesignPoint, error) {
	if len(rates) == 0 || len(rates) != len(heads) {
		return DesignPoint{}, fmt.Errorf("chart: design point derivation requires equal nonzero sample counts, got %d rates and %d heads",
			len(rates), len(heads))
	}
	conv, err := unit.toJoulePerKg()
	if err != nil {
		return DesignPoint{}, err
	}
	for i := range rates {
		if rates[i] <= 0 || heads[i] <= 0 {
			return DesignPoint{}, fmt.Errorf("chart: sample %d (%g, %g) is not positive", i, rates[i], heads[i])
		}
	}

	sMax := floats.Max(Unified.Speeds)
	uMaxRate := Unified.Rates[len(Unified.Rates)-1]

	// The design rate is set so the largest sampled rate sits exactly
	// on the maximum-flow boundary at maximum speed.
	dp := DesignPoint{Rate: floats.Max(rates) / (uMaxRate * sMax)}

	var shape interp.PiecewiseLinear
	if err := shape.Fit(Unified.Rates, Unified.Heads); err != nil {
		return DesignPoint{}, fmt.Errorf("chart: unified shape: %v", err)
	}
	// The design head is the smallest value for which the max-speed
	// curve covers every sample.
	for i := range rates {
		u := clamp(rates[i]/(dp.Rate*sMax), Unified.Rates[0], uMaxRate)
		need := heads[i] * conv / (sMax * sMax * shape.Predict(u))
		if need > dp.Head {
			dp.Head = need
		}
	}
	return dp, nil
}

// synthesize builds the speed curves for a generic chart from the
// unified shape and a design point using the fan affinity laws.
func synthesize(dp DesignPoint, efficiency float64) (*VariableSpeed, error) {
	if dp.Rate <= 0 || dp.Head <= 0 {
		return nil, fmt.Errorf("chart: design point rate and head must be positive, got (%g, %g)", dp.Rate, dp.Head)
	}
	if efficiency <= 0 || efficiency > 1 {
		return nil, fmt.Errorf("chart: generic chart efficiency must be in (0,1] but is %g", efficiency)
	}
	curves := make([]*Curve, len(Unified.Speeds))
	for i, s := range Unified.Speeds {
		rates := make([]float64, len(Unified.Rates))
		heads := make([]float64, len(Unified.Heads))
		effs := make([]float64, len(Unified.Rates))
		for j := range Unified.Rates {
			rates[j] = Unified.Rates[j] * dp.Rate * s
			heads[j] = Unified.Heads[j] * dp.Head * s * s
			effs[j] = efficiency
		}
		c, err := NewCurve(s, rates, heads, effs, JoulePerKg)
		if err != nil {
			return nil, fmt.Errorf("chart: synthesizing generic curve at speed %g: %v", s, err)
		}
		curves[i] = c
	}
	return NewVariableSpeed(curves, 0)
}
