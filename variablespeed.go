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

	"github.com/flowmodel/gascomp/fluid"
)

// VariableSpeedTrain is a train of one or more stages coupled on one
// variable-speed shaft. Evaluation finds the shaft speed at which the
// chained stages deliver the requested discharge pressure.
type VariableSpeedTrain struct {
	stages []Stage
	port   fluid.Port
	comp   fluid.Composition

	// control resolves the overshoot when the requested pressure is
	// below what the train delivers even at minimum speed. ControlNone
	// reports the bound violation instead.
	control PressureControl
}

// NewVariableSpeedTrain creates a variable-speed train. control may be
// ControlNone, in which case operating points below the minimum-speed
// capability are reported invalid rather than resolved by choking or
// recirculation.
func NewVariableSpeedTrain(stages []Stage, port fluid.Port, comp fluid.Composition,
	control PressureControl) (*VariableSpeedTrain, error) {
	if err := validateStages(stages); err != nil {
		return nil, err
	}
	if port == nil {
		return nil, fmt.Errorf("gascomp: variable-speed train requires a fluid port")
	}
	min, max := speedRange(stages)
	if min >= max {
		return nil, fmt.Errorf("gascomp: stage charts share no speed interval (%g >= %g)", min, max)
	}
	return &VariableSpeedTrain{
		stages:  append([]Stage{}, stages...),
		port:    port,
		comp:    comp,
		control: control,
	}, nil
}

// Stages returns the train's stages in shaft order.
func (t *VariableSpeedTrain) Stages() []Stage { return t.stages }

// Evaluate implements the Train interface. The discharge pressure is
// assumed to increase monotonically with shaft speed at fixed rate,
// which licenses a bisection search over the shared speed interval.
func (t *VariableSpeedTrain) Evaluate(point OperatingPoint) TrainResult {
	massRate, err := trainMassRate(t.port, t.comp, point.Rate)
	if err != nil {
		return invalidResult(InvalidFluidProperties)
	}

	minSpeed, maxSpeed := speedRange(t.stages)
	chain := func(speed float64) TrainResult {
		return evaluateChain(t.stages, t.port, t.comp, massRate, 0,
			point.SuctionPressure, point.InletTemperature, speed)
	}

	target := point.DischargePressure

	atMax := chain(maxSpeed)
	if atMax.State == InvalidFluidProperties {
		return atMax
	}
	if atMax.DischargePressure < target*(1-solverTolerance) {
		// The duty is reachable only above the chart envelope. The
		// max-speed operating point is still reported.
		atMax.State = combineStates(atMax.State, InvalidAboveMaximumSpeed)
		return atMax
	}

	atMin := chain(minSpeed)
	if atMin.State == InvalidFluidProperties {
		return atMin
	}
	if atMin.DischargePressure > target*(1+solverTolerance) {
		// Even the minimum speed overshoots: the system is
		// over-determined and a pressure control strategy, if
		// configured, absorbs the excess at the bounding speed.
		if t.control == ControlNone {
			atMin.State = combineStates(atMin.State, InvalidBelowMinimumSpeed)
			return atMin
		}
		cc := &controlContext{
			stages:           t.stages,
			port:             t.port,
			comp:             t.comp,
			massRate:         massRate,
			suctionPressure:  point.SuctionPressure,
			inletTemperature: point.InletTemperature,
			target:           target,
			speed:            minSpeed,
		}
		return cc.resolve(t.control, atMin)
	}

	// Bracketed root search on speed.
	result, converged := bisectSpeed(chain, minSpeed, maxSpeed, target)
	if result.State == InvalidFluidProperties {
		return result
	}
	if !converged {
		// The bracket did not collapse onto the target within the
		// iteration cap; treat as infeasible rather than loop on.
		result.State = combineStates(result.State, InvalidCapacityExceeded)
	}
	return result
}
