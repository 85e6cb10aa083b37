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

// StreamConnection attaches a gas stream to a train at a stage
// boundary. Ingoing streams carry their own composition and a fraction
// of the operating point's total rate; outgoing streams remove a
// fraction of the flow arriving at their stage.
type StreamConnection struct {
	Name string

	// Stage is the index of the stage at whose inlet the stream
	// connects.
	Stage int

	Ingoing bool

	// Composition of an ingoing stream. Ignored for outgoing
	// streams, which leave with the mixed train composition.
	Composition fluid.Composition

	// RateFraction is, for ingoing streams, the stream's share of
	// the operating point rate (ingoing fractions sum to 1); for
	// outgoing streams, the share of the flow arriving at the stage
	// that leaves the train.
	RateFraction float64
}

// MultiStreamTrain is a variable-speed train where streams with
// independent compositions join or leave at stage boundaries and where
// a pressure target may apply at an interior stage boundary, not only
// at the train outlet. The shaft speed solve targets the outermost
// constraint (the final discharge pressure); the interior constraint is
// enforced per candidate speed by choking at the constrained boundary.
type MultiStreamTrain struct {
	stages  []Stage
	port    fluid.Port
	streams []StreamConnection

	// intermediateStage is the stage index whose inlet pressure is
	// constrained to the operating point's IntermediatePressure, or
	// -1.
	intermediateStage int
}

// NewMultiStreamTrain creates a multiple-streams-and-pressures train.
// intermediateStage is the index of the stage whose inlet pressure has
// its own target, or -1 for none.
func NewMultiStreamTrain(stages []Stage, port fluid.Port, streams []StreamConnection,
	intermediateStage int) (*MultiStreamTrain, error) {
	if err := validateStages(stages); err != nil {
		return nil, err
	}
	if port == nil {
		return nil, fmt.Errorf("gascomp: multi-stream train requires a fluid port")
	}
	if len(streams) == 0 {
		return nil, fmt.Errorf("gascomp: multi-stream train requires at least one stream")
	}
	var inSum float64
	var frontIngoing bool
	for i, s := range streams {
		if s.Stage < 0 || s.Stage >= len(stages) {
			return nil, fmt.Errorf("gascomp: stream %q connects to stage %d of %d", s.Name, s.Stage, len(stages))
		}
		if s.Ingoing {
			if len(s.Composition) == 0 {
				return nil, fmt.Errorf("gascomp: ingoing stream %q requires a composition", s.Name)
			}
			if s.RateFraction <= 0 {
				return nil, fmt.Errorf("gascomp: ingoing stream %q requires a positive rate fraction", s.Name)
			}
			inSum += s.RateFraction
			if s.Stage == 0 {
				frontIngoing = true
			}
		} else {
			if s.RateFraction <= 0 || s.RateFraction > 1 {
				return nil, fmt.Errorf("gascomp: outgoing stream %q rate fraction must be in (0,1], got %g",
					s.Name, s.RateFraction)
			}
			if s.Stage == 0 {
				return nil, fmt.Errorf("gascomp: outgoing stream %q cannot leave ahead of the first stage (stream %d)", s.Name, i)
			}
		}
	}
	if math.Abs(inSum-1) > 1e-9 {
		return nil, fmt.Errorf("gascomp: ingoing stream rate fractions must sum to 1, got %g", inSum)
	}
	if !frontIngoing {
		return nil, fmt.Errorf("gascomp: the first stage requires an ingoing stream")
	}
	if intermediateStage != -1 && (intermediateStage < 1 || intermediateStage >= len(stages)) {
		return nil, fmt.Errorf("gascomp: intermediate pressure stage %d out of range", intermediateStage)
	}
	min, max := speedRange(stages)
	if min >= max {
		return nil, fmt.Errorf("gascomp: stage charts share no speed interval (%g >= %g)", min, max)
	}
	return &MultiStreamTrain{
		stages:            append([]Stage{}, stages...),
		port:              port,
		streams:           append([]StreamConnection{}, streams...),
		intermediateStage: intermediateStage,
	}, nil
}

// mixCompositions blends two compositions by their standard volumetric
// rates. Standard volume is proportional to moles, so volume-weighted
// blending of mole fractions is exact.
func mixCompositions(a fluid.Composition, rateA float64, b fluid.Composition, rateB float64) fluid.Composition {
	total := rateA + rateB
	if total <= 0 {
		return nil
	}
	an, bn := a.Normalized(), b.Normalized()
	o := make(fluid.Composition)
	for k, v := range an {
		o[k] += v * rateA / total
	}
	for k, v := range bn {
		o[k] += v * rateB / total
	}
	return o
}

// chain evaluates the full train at one candidate shaft speed,
// applying stream joins and exits and the interior pressure constraint
// along the way.
func (t *MultiStreamTrain) chain(point OperatingPoint, speed float64) TrainResult {
	r := TrainResult{
		Stages: make([]StageResult, 0, len(t.stages)),
		Speed:  speed,
		State:  Valid,
	}
	var stdRate float64
	var comp fluid.Composition
	p := point.SuctionPressure
	for i := range t.stages {
		for _, s := range t.streams {
			if s.Stage != i {
				continue
			}
			if s.Ingoing {
				in := s.RateFraction * point.Rate
				comp = mixCompositions(comp, stdRate, s.Composition, in)
				stdRate += in
			} else {
				stdRate -= s.RateFraction * stdRate
			}
		}
		if i == t.intermediateStage && point.IntermediatePressure > 0 {
			target := point.IntermediatePressure
			if p >= target*(1-solverTolerance) {
				r.ChokeDrop += p - target
				p = target
			} else {
				// The interior target cannot be raised by a
				// choke; the constraint is unmet.
				r.State = combineStates(r.State, InvalidCapacityExceeded)
			}
		}
		massRate, err := trainMassRate(t.port, comp, stdRate)
		if err != nil {
			r.State = combineStates(r.State, InvalidFluidProperties)
			r.Stages = append(r.Stages, StageResult{State: InvalidFluidProperties})
			return r
		}
		sr, err := t.stages[i].evaluate(t.port, comp, massRate, 0, p, point.InletTemperature, speed)
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

// Evaluate implements the Train interface. The root search runs
// outside-in: the shaft speed is solved against the outermost
// constraint (final discharge pressure) while each candidate evaluation
// enforces the interior pressure constraint by choking.
func (t *MultiStreamTrain) Evaluate(point OperatingPoint) TrainResult {
	minSpeed, maxSpeed := speedRange(t.stages)
	target := point.DischargePressure
	chain := func(speed float64) TrainResult { return t.chain(point, speed) }

	atMax := chain(maxSpeed)
	if atMax.State == InvalidFluidProperties {
		return atMax
	}
	if atMax.DischargePressure < target*(1-solverTolerance) {
		atMax.State = combineStates(atMax.State, InvalidAboveMaximumSpeed)
		return atMax
	}
	atMin := chain(minSpeed)
	if atMin.State == InvalidFluidProperties {
		return atMin
	}
	if atMin.DischargePressure > target*(1+solverTolerance) {
		// Overshoot at minimum speed is absorbed by a discharge
		// choke, the only control compatible with per-stream
		// bookkeeping.
		atMin.ChokeDrop += atMin.DischargePressure - target
		atMin.DischargePressure = target
		return atMin
	}

	result, converged := bisectSpeed(chain, minSpeed, maxSpeed, target)
	if result.State == InvalidFluidProperties {
		return result
	}
	if !converged {
		result.State = combineStates(result.State, InvalidCapacityExceeded)
	}
	return result
}
