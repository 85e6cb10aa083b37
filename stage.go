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
	"errors"
	"fmt"
	"math"

	"github.com/flowmodel/gascomp/chart"
	"github.com/flowmodel/gascomp/fluid"
)

// Stage is one compression stage in a train: a chart, the temperature
// the gas enters the impeller at, and an optional pressure drop ahead
// of it (suction scrubber, piping). A stage belongs to exactly one
// train and is immutable after construction.
type Stage struct {
	// InletTemperature is the gas temperature at the stage inlet [K]
	// (intercooling brings every stage back to a known temperature).
	// Zero means the operating point's inlet temperature applies.
	InletTemperature float64

	Chart chart.Chart

	// PressureDrop is subtracted from the incoming pressure before
	// compression [bar].
	PressureDrop float64
}

func (s *Stage) validate() error {
	if s.Chart == nil {
		return errors.New("gascomp: stage requires a chart")
	}
	if s.InletTemperature < 0 {
		return fmt.Errorf("gascomp: stage inlet temperature must be non-negative, got %g", s.InletTemperature)
	}
	if s.PressureDrop < 0 {
		return fmt.Errorf("gascomp: stage pressure drop must be non-negative, got %g", s.PressureDrop)
	}
	return nil
}

// polytropicExponentRatio returns (n-1)/n for a gas with isentropic
// exponent kappa compressed at polytropic efficiency eff.
func polytropicExponentRatio(kappa, eff float64) float64 {
	return (kappa - 1) / (kappa * eff)
}

// headForPressureRatio returns the polytropic head [J/kg] required to
// compress the fluid by the pressure ratio pr at the given inlet
// temperature [K] and polytropic efficiency.
func headForPressureRatio(props fluid.Properties, temperature, pr, eff float64) float64 {
	x := polytropicExponentRatio(props.Kappa, eff)
	return props.Z * fluid.UniversalGasConstant * temperature /
		props.MolarMass / x * (math.Pow(pr, x) - 1)
}

// pressureRatioForHead inverts headForPressureRatio: the pressure ratio
// achieved by applying the given polytropic head [J/kg].
func pressureRatioForHead(props fluid.Properties, temperature, head, eff float64) float64 {
	x := polytropicExponentRatio(props.Kappa, eff)
	return math.Pow(1+head*x*props.MolarMass/
		(props.Z*fluid.UniversalGasConstant*temperature), 1/x)
}

// shaftPower returns the power [MW] to move chartMassRate [kg/h] of gas
// against the given polytropic head [J/kg] at the given efficiency.
func shaftPower(chartMassRate, head, eff float64) float64 {
	return chartMassRate / 3600 * head / eff / 1e6
}

// evaluate runs the stage forward at the given shaft speed: the stage
// pressure drop is applied, the fluid port queried for inlet
// conditions, the chart queried for head and efficiency at the
// resulting actual flow rate, and the outlet pressure, power and
// feasibility derived from them. massRate is the net flow through the
// stage [kg/h]; extraMassRate is recirculation imposed from outside
// (common anti-surge loops) that loads the chart without passing
// downstream. speed 0 means the chart's own fixed speed.
//
// A non-nil error is returned only when the fluid port fails; chart
// infeasibility is reported in the result state.
func (s *Stage) evaluate(port fluid.Port, comp fluid.Composition, massRate, extraMassRate,
	inletPressure, fallbackTemperature, speed float64) (StageResult, error) {

	r := StageResult{State: Valid}
	p := inletPressure - s.PressureDrop
	if p <= 0 {
		r.InletPressure = p
		r.State = InvalidCapacityExceeded
		return r, nil
	}
	r.InletPressure = p

	temperature := s.InletTemperature
	if temperature == 0 {
		temperature = fallbackTemperature
	}

	props, err := port.Properties(p, temperature, comp)
	if err != nil {
		r.State = InvalidFluidProperties
		return r, err
	}

	r.ActualRate = (massRate + extraMassRate) / props.Density
	r.ChartRate = r.ActualRate

	// Recirculation through the stage's own anti-surge valve lifts
	// the chart rate to the (margin-shifted) minimum-flow boundary.
	if min := s.Chart.MinFlow(speed); r.ChartRate < min {
		r.ChartRate = min
		r.State = InvalidBelowMinimumFlow
	}

	head, eff, err := s.Chart.HeadAndEfficiency(r.ChartRate, speed)
	if errors.Is(err, chart.ErrOutOfEnvelope) {
		// Evaluate at the maximum-flow boundary so that chained
		// solvers still see a continuous discharge pressure, but
		// mark the stage infeasible.
		r.State = InvalidCapacityExceeded
		r.ChartRate = s.Chart.MaxFlow(speed)
		head, eff, err = s.Chart.HeadAndEfficiency(r.ChartRate, speed)
	}
	if err != nil {
		r.State = InvalidCapacityExceeded
		return r, nil
	}

	r.Head = head
	r.Efficiency = eff
	r.OutletPressure = p * pressureRatioForHead(props, temperature, head, eff)
	r.Power = shaftPower(r.ChartRate*props.Density, head, eff)
	return r, nil
}

// evaluateAtHead runs the stage at the given shaft speed but targets a
// specific polytropic head instead of accepting whatever the chart
// produces at the through rate: recirculation is added until the chart
// head falls to the target (IndividualASVPressure control). The target
// must not exceed the head the chart gives at the through rate.
func (s *Stage) evaluateAtHead(port fluid.Port, comp fluid.Composition, massRate,
	inletPressure, fallbackTemperature, speed, targetHead float64) (StageResult, error) {

	r, err := s.evaluate(port, comp, massRate, 0, inletPressure, fallbackTemperature, speed)
	if err != nil || r.State == InvalidCapacityExceeded {
		return r, err
	}
	if targetHead >= r.Head {
		// No recirculation can raise the head; the natural result
		// stands.
		return r, nil
	}

	temperature := s.InletTemperature
	if temperature == 0 {
		temperature = fallbackTemperature
	}
	props, err := port.Properties(r.InletPressure, temperature, comp)
	if err != nil {
		r.State = InvalidFluidProperties
		return r, err
	}

	// Recirculate down the curve to the rate where the chart
	// delivers the target head.
	rate, cerr := s.Chart.RateAtHead(targetHead, speed)
	if cerr != nil {
		r.State = InvalidCapacityExceeded
		return r, nil
	}
	if rate < r.ChartRate {
		rate = r.ChartRate
	}
	head, eff, cerr := s.Chart.HeadAndEfficiency(rate, speed)
	if cerr != nil {
		r.State = InvalidCapacityExceeded
		return r, nil
	}
	if head > targetHead*(1+solverTolerance) && rate >= s.Chart.MaxFlow(speed) {
		// Even fully recirculated the stage overshoots the target.
		r.State = InvalidCapacityExceeded
	}
	r.ChartRate = rate
	r.Head = head
	r.Efficiency = eff
	r.OutletPressure = r.InletPressure * pressureRatioForHead(props, temperature, head, eff)
	r.Power = shaftPower(rate*props.Density, head, eff)
	return r, nil
}
