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
	"math"

	"github.com/flowmodel/gascomp/fluid"
)

// SimplifiedTrain approximates a variable-speed train by assuming an
// equal pressure ratio across the stages and evaluating each stage
// independently, without enforcing the shared-speed constraint. This is
// a deliberate, documented inaccuracy kept as its own variant: it is
// what makes generic charts usable before real vendor charts exist.
type SimplifiedTrain struct {
	stages []Stage
	port   fluid.Port
	comp   fluid.Composition

	// maxPressureRatioPerStage, when positive, replaces the fixed
	// stage list: the stage count becomes the smallest number of
	// copies of the template stage for which the per-stage ratio
	// stays at or below this value.
	maxPressureRatioPerStage float64
	template                 Stage
}

// NewSimplifiedTrain creates a simplified train with a fixed set of
// stages.
func NewSimplifiedTrain(stages []Stage, port fluid.Port, comp fluid.Composition) (*SimplifiedTrain, error) {
	if err := validateStages(stages); err != nil {
		return nil, err
	}
	if port == nil {
		return nil, fmt.Errorf("gascomp: simplified train requires a fluid port")
	}
	return &SimplifiedTrain{
		stages: append([]Stage{}, stages...),
		port:   port,
		comp:   comp,
	}, nil
}

// NewSimplifiedTrainWithMaxRatio creates a simplified train whose stage
// count is derived per operating point: the smallest count for which
// the per-stage pressure ratio does not exceed maxRatio. Every stage is
// a copy of template.
func NewSimplifiedTrainWithMaxRatio(template Stage, maxRatio float64,
	port fluid.Port, comp fluid.Composition) (*SimplifiedTrain, error) {
	if err := template.validate(); err != nil {
		return nil, err
	}
	if maxRatio <= 1 {
		return nil, fmt.Errorf("gascomp: maximum pressure ratio per stage must exceed 1, got %g", maxRatio)
	}
	if port == nil {
		return nil, fmt.Errorf("gascomp: simplified train requires a fluid port")
	}
	return &SimplifiedTrain{
		port:                     port,
		comp:                     comp,
		maxPressureRatioPerStage: maxRatio,
		template:                 template,
	}, nil
}

// stageCount returns the number of stages used for the given overall
// pressure ratio.
func (t *SimplifiedTrain) stageCount(overallRatio float64) int {
	if t.maxPressureRatioPerStage == 0 {
		return len(t.stages)
	}
	n := 1
	for math.Pow(overallRatio, 1/float64(n)) > t.maxPressureRatioPerStage {
		n++
	}
	return n
}

// stage returns stage i for an evaluation with n stages.
func (t *SimplifiedTrain) stage(i int) *Stage {
	if t.maxPressureRatioPerStage != 0 {
		return &t.template
	}
	return &t.stages[i]
}

// Evaluate implements the Train interface. Each stage is assigned the
// n-th root of the overall pressure ratio and evaluated on its own;
// per-stage feasibility is judged against the chart's capacity at the
// best available speed, and powers are summed.
func (t *SimplifiedTrain) Evaluate(point OperatingPoint) TrainResult {
	massRate, err := trainMassRate(t.port, t.comp, point.Rate)
	if err != nil {
		return invalidResult(InvalidFluidProperties)
	}
	overall := point.DischargePressure / point.SuctionPressure
	if overall <= 0 {
		return invalidResult(InvalidCapacityExceeded)
	}
	// A discharge target at or below the suction pressure needs no
	// compression: the stages idle at zero head instead of producing a
	// negative one.
	if overall < 1 {
		overall = 1
	}
	n := t.stageCount(overall)
	ratio := math.Pow(overall, 1/float64(n))

	r := TrainResult{
		Stages: make([]StageResult, 0, n),
		State:  Valid,
	}
	p := point.SuctionPressure
	for i := 0; i < n; i++ {
		st := t.stage(i)
		sr, err := t.evaluateStageAtRatio(st, massRate, p, point.InletTemperature, ratio)
		r.Stages = append(r.Stages, sr)
		r.State = combineStates(r.State, sr.State)
		if err != nil {
			return r
		}
		r.Power += sr.Power
		p *= ratio
	}
	r.DischargePressure = p
	return r
}

// evaluateStageAtRatio evaluates one stage against a required pressure
// ratio without a shared-speed constraint: the head requirement is
// computed from the ratio and checked against the chart's capacity at
// whatever speed suits the rate best.
func (t *SimplifiedTrain) evaluateStageAtRatio(st *Stage, massRate, inletPressure,
	fallbackTemperature, ratio float64) (StageResult, error) {

	r := StageResult{State: Valid}
	p := inletPressure - st.PressureDrop
	if p <= 0 {
		r.InletPressure = p
		r.State = InvalidCapacityExceeded
		return r, nil
	}
	r.InletPressure = p
	temperature := st.InletTemperature
	if temperature == 0 {
		temperature = fallbackTemperature
	}
	props, err := t.port.Properties(p, temperature, t.comp)
	if err != nil {
		r.State = InvalidFluidProperties
		return r, err
	}
	r.ActualRate = massRate / props.Density
	r.ChartRate = r.ActualRate

	// Pick the speed at the top of the envelope: the simplified
	// variant only asks whether the chart can deliver the head at
	// all, not at which shared speed.
	speed := st.Chart.MaxSpeed()
	if min := st.Chart.MinFlow(speed); r.ChartRate < min {
		r.ChartRate = min
		r.State = InvalidBelowMinimumFlow
	}

	eff := 0.75
	var head float64
	for i := 0; i < 10; i++ {
		head = headForPressureRatio(props, temperature, ratio, eff)
		chartEff, cerr := stageEfficiencyAt(st, r.ChartRate, speed)
		if cerr != nil {
			r.State = InvalidCapacityExceeded
			return r, nil
		}
		if math.Abs(chartEff-eff) <= 1e-3 {
			eff = chartEff
			break
		}
		eff = chartEff
	}
	head = headForPressureRatio(props, temperature, ratio, eff)
	if !st.Chart.IsWithinCapacity(r.ChartRate, head, speed) {
		r.State = combineStates(r.State, InvalidCapacityExceeded)
	}
	r.Head = head
	r.Efficiency = eff
	r.OutletPressure = p * ratio
	r.Power = shaftPower(r.ChartRate*props.Density, head, eff)
	return r, nil
}

func stageEfficiencyAt(st *Stage, rate, speed float64) (float64, error) {
	_, eff, err := st.Chart.HeadAndEfficiency(rate, speed)
	return eff, err
}
