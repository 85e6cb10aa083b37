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

	"github.com/flowmodel/gascomp/fluid"
)

// Solver iteration limits and tolerance. Root searches that fail to
// converge within the cap report infeasibility rather than looping.
const (
	solverTolerance = 1e-6
	maxIterations   = 100
)

// A Train evaluates operating points against a compressor train. All
// train variants are immutable after construction and safe for
// concurrent use from multiple workers.
type Train interface {
	Evaluate(point OperatingPoint) TrainResult
}

func validateStages(stages []Stage) error {
	if len(stages) == 0 {
		return errors.New("gascomp: a train requires at least one stage")
	}
	for i := range stages {
		if err := stages[i].validate(); err != nil {
			return fmt.Errorf("stage %d: %v", i, err)
		}
	}
	return nil
}

// trainMassRate converts a standard-condition volumetric rate
// [Sm³/day] to a mass rate [kg/h] using the composition's standard
// density.
func trainMassRate(port fluid.Port, comp fluid.Composition, rate float64) (float64, error) {
	std, err := fluid.StandardDensity(port, comp)
	if err != nil {
		return 0, err
	}
	return rate * std / hoursPerDay, nil
}

// evaluateChain runs every stage in order at the given shared shaft
// speed: stage i's outlet pressure, minus stage i+1's pressure drop,
// is stage i+1's inlet pressure. extraMassRate flows through every
// stage in addition to massRate without leaving the train (a common
// anti-surge loop). speed 0 means each chart's own fixed speed.
func evaluateChain(stages []Stage, port fluid.Port, comp fluid.Composition,
	massRate, extraMassRate, suctionPressure, inletTemperature, speed float64) TrainResult {

	r := TrainResult{
		Stages: make([]StageResult, 0, len(stages)),
		Speed:  speed,
		State:  Valid,
	}
	p := suctionPressure
	for i := range stages {
		sr, err := stages[i].evaluate(port, comp, massRate, extraMassRate, p, inletTemperature, speed)
		r.Stages = append(r.Stages, sr)
		r.State = combineStates(r.State, sr.State)
		if err != nil {
			return r
		}
		r.Power += sr.Power
		p = sr.OutletPressure
	}
	r.DischargePressure = p
	return r
}

// speedRange returns the shaft speed interval shared by all stage
// charts on one shaft.
func speedRange(stages []Stage) (min, max float64) {
	min = stages[0].Chart.MinSpeed()
	max = stages[0].Chart.MaxSpeed()
	for _, s := range stages[1:] {
		if v := s.Chart.MinSpeed(); v > min {
			min = v
		}
		if v := s.Chart.MaxSpeed(); v < max {
			max = v
		}
	}
	return min, max
}

// invalidResult returns a result for an evaluation that could not be
// carried out at all, for example because the fluid port failed before
// the first stage.
func invalidResult(state ResultState) TrainResult {
	return TrainResult{State: state}
}

// bisectSpeed searches the speed interval [lo, hi] for the point where
// chain's discharge pressure meets target, assuming discharge pressure
// increases monotonically with speed. The second return value reports
// whether the search converged within the iteration cap; either way the
// last evaluation is returned.
func bisectSpeed(chain func(speed float64) TrainResult, lo, hi, target float64) (TrainResult, bool) {
	var result TrainResult
	for i := 0; i < maxIterations; i++ {
		mid := (lo + hi) / 2
		result = chain(mid)
		if result.State == InvalidFluidProperties {
			return result, false
		}
		if math.Abs(result.DischargePressure-target) <= solverTolerance*target {
			return result, true
		}
		if result.DischargePressure < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return result, false
}
