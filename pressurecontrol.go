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
	"strings"

	"github.com/flowmodel/gascomp/fluid"
)

// PressureControl selects the policy that resolves an over-determined
// pressure requirement: a fixed-speed train (or a variable-speed train
// pinned at a speed bound) whose natural discharge pressure differs
// from the requested one.
type PressureControl int

const (
	// ControlNone reports the mismatch as invalid instead of
	// resolving it.
	ControlNone PressureControl = iota
	// ControlDownstreamChoke dissipates excess discharge pressure in
	// a choke after the train.
	ControlDownstreamChoke
	// ControlUpstreamChoke dissipates the excess ahead of the train
	// by throttling the suction pressure down.
	ControlUpstreamChoke
	// ControlIndividualASVPressure recirculates over each stage's own
	// anti-surge valve until the train meets the requested pressure,
	// dividing the pressure ratio equally over the stages.
	ControlIndividualASVPressure
	// ControlIndividualASVRate recirculates the same additional rate
	// over each stage's own anti-surge valve.
	ControlIndividualASVRate
	// ControlCommonASV recirculates from the train discharge back to
	// the train suction through a single valve.
	ControlCommonASV
)

func (pc PressureControl) String() string {
	switch pc {
	case ControlNone:
		return "NONE"
	case ControlDownstreamChoke:
		return "DOWNSTREAM_CHOKE"
	case ControlUpstreamChoke:
		return "UPSTREAM_CHOKE"
	case ControlIndividualASVPressure:
		return "INDIVIDUAL_ASV_PRESSURE"
	case ControlIndividualASVRate:
		return "INDIVIDUAL_ASV_RATE"
	case ControlCommonASV:
		return "COMMON_ASV"
	default:
		return "UNKNOWN"
	}
}

// ParsePressureControl parses a pressure control name as it appears in
// facility configuration.
func ParsePressureControl(s string) (PressureControl, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE":
		return ControlNone, nil
	case "DOWNSTREAM_CHOKE":
		return ControlDownstreamChoke, nil
	case "UPSTREAM_CHOKE":
		return ControlUpstreamChoke, nil
	case "INDIVIDUAL_ASV_PRESSURE":
		return ControlIndividualASVPressure, nil
	case "INDIVIDUAL_ASV_RATE":
		return ControlIndividualASVRate, nil
	case "COMMON_ASV":
		return ControlCommonASV, nil
	default:
		return ControlNone, fmt.Errorf("gascomp: unknown pressure control %q", s)
	}
}

// controlContext carries everything a control strategy needs to
// re-evaluate the stage chain under modified conditions.
type controlContext struct {
	stages           []Stage
	port             fluid.Port
	comp             fluid.Composition
	massRate         float64 // [kg/h]
	suctionPressure  float64 // [bara]
	inletTemperature float64 // [K]
	target           float64 // requested discharge pressure [bara]
	speed            float64 // shaft speed, 0 for fixed-speed charts
}

// resolve applies the selected strategy to a natural (uncontrolled)
// evaluation whose discharge pressure is at or above the target.
// Strategies never panic or error on infeasibility: the point comes
// back invalid with a reason.
func (cc *controlContext) resolve(pc PressureControl, natural TrainResult) TrainResult {
	switch pc {
	case ControlDownstreamChoke:
		return cc.downstreamChoke(natural)
	case ControlUpstreamChoke:
		return cc.upstreamChoke(natural)
	case ControlIndividualASVPressure:
		return cc.individualASVPressure(natural)
	case ControlIndividualASVRate:
		return cc.individualASVRate(natural)
	case ControlCommonASV:
		return cc.commonASV(natural)
	default:
		return natural
	}
}

// downstreamChoke accepts the chart's natural discharge pressure and
// lets a choke after the train absorb the excess. It fails only when
// the natural pressure is below the target.
func (cc *controlContext) downstreamChoke(natural TrainResult) TrainResult {
	if natural.DischargePressure < cc.target*(1-solverTolerance) {
		natural.State = combineStates(natural.State, InvalidCapacityExceeded)
		return natural
	}
	natural.ChokeDrop = natural.DischargePressure - cc.target
	natural.DischargePressure = cc.target
	return natural
}

// upstreamChoke throttles the pressure ahead of the train until the
// chain lands on the target. Discharge pressure increases with inlet
// pressure, so the search is a bisection over the inlet pressure.
func (cc *controlContext) upstreamChoke(natural TrainResult) TrainResult {
	if natural.DischargePressure < cc.target*(1-solverTolerance) {
		natural.State = combineStates(natural.State, InvalidCapacityExceeded)
		return natural
	}
	lo, hi := cc.suctionPressure*1e-2, cc.suctionPressure
	result := natural
	for i := 0; i < maxIterations; i++ {
		mid := (lo + hi) / 2
		result = evaluateChain(cc.stages, cc.port, cc.comp, cc.massRate, 0,
			mid, cc.inletTemperature, cc.speed)
		if result.State == InvalidFluidProperties {
			return result
		}
		if math.Abs(result.DischargePressure-cc.target) <= solverTolerance*cc.target {
			result.ChokeDrop = cc.suctionPressure - mid
			return result
		}
		if result.DischargePressure < cc.target {
			lo = mid
		} else {
			hi = mid
		}
	}
	result.State = combineStates(result.State, InvalidCapacityExceeded)
	return result
}

// individualASVPressure divides the required overall pressure ratio
// over the stages and recirculates each stage down its curve until it
// produces exactly its share. The per-stage solve iterates because
// recirculation changes the downstream inlet state.
func (cc *controlContext) individualASVPressure(natural TrainResult) TrainResult {
	if natural.DischargePressure < cc.target*(1-solverTolerance) {
		natural.State = combineStates(natural.State, InvalidCapacityExceeded)
		return natural
	}
	r := TrainResult{
		Stages: make([]StageResult, 0, len(cc.stages)),
		Speed:  cc.speed,
		State:  Valid,
	}
	p := cc.suctionPressure
	n := len(cc.stages)
	for i := range cc.stages {
		st := &cc.stages[i]
		pIn := p - st.PressureDrop
		if pIn <= 0 {
			r.State = combineStates(r.State, InvalidCapacityExceeded)
			r.Stages = append(r.Stages, StageResult{InletPressure: pIn, State: InvalidCapacityExceeded})
			return r
		}
		// Divide the remaining ratio equally over the remaining
		// stages; earlier stages that missed their share shift
		// the burden onto later ones.
		ratio := math.Pow(cc.target/pIn, 1/float64(n-i))
		temperature := st.InletTemperature
		if temperature == 0 {
			temperature = cc.inletTemperature
		}
		props, err := cc.port.Properties(pIn, temperature, cc.comp)
		if err != nil {
			r.State = combineStates(r.State, InvalidFluidProperties)
			r.Stages = append(r.Stages, StageResult{InletPressure: pIn, State: InvalidFluidProperties})
			return r
		}
		// The required head depends on efficiency, which depends
		// on the rate the stage ends up at; a fixed-point loop
		// settles the pair.
		eff := 0.75
		var sr StageResult
		for iter := 0; iter < 10; iter++ {
			th := headForPressureRatio(props, temperature, ratio, eff)
			var serr error
			sr, serr = st.evaluateAtHead(cc.port, cc.comp, cc.massRate, p, cc.inletTemperature, cc.speed, th)
			if serr != nil {
				r.State = combineStates(r.State, sr.State)
				r.Stages = append(r.Stages, sr)
				return r
			}
			if math.Abs(sr.Efficiency-eff) <= 1e-3 {
				break
			}
			eff = sr.Efficiency
		}
		r.Stages = append(r.Stages, sr)
		r.State = combineStates(r.State, sr.State)
		r.Power += sr.Power
		p = sr.OutletPressure
	}
	r.DischargePressure = p
	if p < cc.target*(1-solverTolerance) || p > cc.target*(1+solverTolerance) {
		r.State = combineStates(r.State, InvalidCapacityExceeded)
	}
	return r
}

// individualASVRate finds one additional recirculation rate, applied
// over every stage's own valve, that brings the train discharge down to
// the target. More recirculation means more rate, less head and less
// discharge pressure, so the search is a bisection.
func (cc *controlContext) individualASVRate(natural TrainResult) TrainResult {
	return cc.recirculationSolve(natural, false)
}

// commonASV recirculates from the train discharge back to the suction
// through one valve around the whole train. The solve is the same
// bisection on recirculated rate as individualASVRate, but only the
// front stage is held against its minimum-flow boundary: the common
// loop cannot protect individual downstream stages.
func (cc *controlContext) commonASV(natural TrainResult) TrainResult {
	return cc.recirculationSolve(natural, true)
}

func (cc *controlContext) recirculationSolve(natural TrainResult, common bool) TrainResult {
	if natural.DischargePressure < cc.target*(1-solverTolerance) {
		natural.State = combineStates(natural.State, InvalidCapacityExceeded)
		return natural
	}
	chain := func(extra float64) TrainResult {
		r := evaluateChain(cc.stages, cc.port, cc.comp, cc.massRate, extra,
			cc.suctionPressure, cc.inletTemperature, cc.speed)
		if common {
			r = dropRearSurgeFlags(r)
		}
		return r
	}
	if math.Abs(natural.DischargePressure-cc.target) <= solverTolerance*cc.target {
		if common {
			return dropRearSurgeFlags(natural)
		}
		return natural
	}

	// The recirculated rate is bounded by the chart running out of
	// maximum flow; ten times the through rate is far beyond any
	// curve and a safe bracket end.
	lo, hi := 0., 10*cc.massRate
	result := natural
	for i := 0; i < maxIterations; i++ {
		mid := (lo + hi) / 2
		result = chain(mid)
		if result.State == InvalidFluidProperties {
			return result
		}
		if math.Abs(result.DischargePressure-cc.target) <= solverTolerance*cc.target {
			return result
		}
		if result.DischargePressure > cc.target {
			lo = mid
		} else {
			hi = mid
		}
	}
	result.State = combineStates(result.State, InvalidCapacityExceeded)
	return result
}

// dropRearSurgeFlags clears below-minimum-flow flags on all stages
// after the first. A common anti-surge loop protects the train front;
// rear stages sit where the shared recirculation puts them.
func dropRearSurgeFlags(r TrainResult) TrainResult {
	state := Valid
	for i := range r.Stages {
		if i > 0 && r.Stages[i].State == InvalidBelowMinimumFlow {
			r.Stages[i].State = Valid
		}
		state = combineStates(state, r.Stages[i].State)
	}
	if r.State == InvalidBelowMinimumFlow {
		r.State = state
	}
	return r
}
