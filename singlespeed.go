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

	"github.com/flowmodel/gascomp/chart"
	"github.com/flowmodel/gascomp/fluid"
)

// SingleSpeedTrain is a train whose shaft runs at one fixed speed. The
// pressure requirement is then over-determined, so every evaluation
// goes through a pressure control strategy to reconcile the chart's
// natural discharge pressure with the requested one.
type SingleSpeedTrain struct {
	stages  []Stage
	port    fluid.Port
	comp    fluid.Composition
	control PressureControl
}

// NewSingleSpeedTrain creates a fixed-speed train. Every stage must
// carry a single-speed chart. If control is ControlNone, a downstream
// choke is assumed, which accepts the natural discharge pressure
// whenever it reaches the target.
func NewSingleSpeedTrain(stages []Stage, port fluid.Port, comp fluid.Composition,
	control PressureControl) (*SingleSpeedTrain, error) {
	if err := validateStages(stages); err != nil {
		return nil, err
	}
	if port == nil {
		return nil, fmt.Errorf("gascomp: single-speed train requires a fluid port")
	}
	for i := range stages {
		if _, ok := stages[i].Chart.(*chart.SingleSpeed); !ok {
			return nil, fmt.Errorf("gascomp: stage %d of a single-speed train requires a single-speed chart", i)
		}
	}
	if control == ControlNone {
		control = ControlDownstreamChoke
	}
	return &SingleSpeedTrain{
		stages:  append([]Stage{}, stages...),
		port:    port,
		comp:    comp,
		control: control,
	}, nil
}

// Stages returns the train's stages in shaft order.
func (t *SingleSpeedTrain) Stages() []Stage { return t.stages }

// Evaluate implements the Train interface.
func (t *SingleSpeedTrain) Evaluate(point OperatingPoint) TrainResult {
	massRate, err := trainMassRate(t.port, t.comp, point.Rate)
	if err != nil {
		return invalidResult(InvalidFluidProperties)
	}

	// Speed 0 selects each chart's own fixed speed.
	natural := evaluateChain(t.stages, t.port, t.comp, massRate, 0,
		point.SuctionPressure, point.InletTemperature, 0)
	if natural.State == InvalidFluidProperties {
		return natural
	}

	cc := &controlContext{
		stages:           t.stages,
		port:             t.port,
		comp:             t.comp,
		massRate:         massRate,
		suctionPressure:  point.SuctionPressure,
		inletTemperature: point.InletTemperature,
		target:           point.DischargePressure,
		speed:            0,
	}
	return cc.resolve(t.control, natural)
}
