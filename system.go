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

	"golang.org/x/sync/errgroup"
)

// SystemUnit is one compressor train operating in parallel with others
// in a compressor system, optionally driven by its own turbine.
type SystemUnit struct {
	Name    string
	Train   Train
	Turbine *Turbine
}

// OperationalSetting is one candidate distribution of the system duty
// over the units. Settings are tried in priority order.
type OperationalSetting struct {
	// Fractions assigns each unit its share of the total system
	// rate. Rates, when non-nil, assigns absolute rates [Sm³/day]
	// instead.
	Fractions []float64
	Rates     []float64

	// SuctionPressures and DischargePressures override the
	// system-level boundary pressures per unit when non-nil.
	SuctionPressures   []float64
	DischargePressures []float64

	// Crossover[i] is the index of the unit that receives the flow
	// unit i cannot absorb, or -1. The crossover graph is directed
	// and must be acyclic.
	Crossover []int
}

// System is a set of parallel compressor trains with a prioritized
// list of operational settings. For each evaluation the settings are
// tried in order and the first one where every unit reports a valid
// result is selected.
type System struct {
	units    []SystemUnit
	settings []OperationalSetting
}

// SystemResult is the outcome of one system evaluation.
type SystemResult struct {
	// Setting is the index of the accepted operational setting. If
	// no setting was feasible it is the last (lowest-priority) one,
	// and State reports the failure; the result is never silently
	// dropped.
	Setting int
	Results []TrainResult
	Fuel    []float64 // per-unit fuel usage [Sm³/day], 0 without a turbine
	State   ResultState
}

// Power returns the total system shaft power [MW].
func (r *SystemResult) Power() float64 {
	var p float64
	for i := range r.Results {
		p += r.Results[i].Power
	}
	return p
}

// IsValid aggregates validity bottom-up over all unit results.
func (r *SystemResult) IsValid() bool {
	if !r.State.IsValid() {
		return false
	}
	for i := range r.Results {
		if !r.Results[i].IsValid() {
			return false
		}
	}
	return true
}

// NewSystem creates a compressor system from parallel units and a
// prioritized list of operational settings.
func NewSystem(units []SystemUnit, settings []OperationalSetting) (*System, error) {
	if len(units) == 0 {
		return nil, fmt.Errorf("gascomp: a system requires at least one unit")
	}
	if len(settings) == 0 {
		return nil, fmt.Errorf("gascomp: a system requires at least one operational setting")
	}
	for i, s := range settings {
		if s.Rates == nil && s.Fractions == nil {
			return nil, fmt.Errorf("gascomp: setting %d assigns neither rates nor fractions", i)
		}
		for _, f := range [][]float64{s.Fractions, s.Rates, s.SuctionPressures, s.DischargePressures} {
			if f != nil && len(f) != len(units) {
				return nil, fmt.Errorf("gascomp: setting %d assigns %d units but the system has %d",
					i, len(f), len(units))
			}
		}
		if s.Crossover != nil {
			if len(s.Crossover) != len(units) {
				return nil, fmt.Errorf("gascomp: setting %d crossover covers %d units but the system has %d",
					i, len(s.Crossover), len(units))
			}
			for from, to := range s.Crossover {
				if to < -1 || to >= len(units) || to == from {
					return nil, fmt.Errorf("gascomp: setting %d has invalid crossover %d -> %d", i, from, to)
				}
			}
			if hasCrossoverCycle(s.Crossover) {
				return nil, fmt.Errorf("gascomp: setting %d crossover graph has a cycle", i)
			}
		}
	}
	return &System{
		units:    append([]SystemUnit{}, units...),
		settings: append([]OperationalSetting{}, settings...),
	}, nil
}

func hasCrossoverCycle(crossover []int) bool {
	for start := range crossover {
		seen := 0
		for at := start; at != -1; at = crossover[at] {
			seen++
			if seen > len(crossover) {
				return true
			}
		}
	}
	return false
}

// point assembles the operating point for unit i under setting s.
func (s *OperationalSetting) point(i int, totalRate float64, base OperatingPoint) OperatingPoint {
	p := base
	if s.Rates != nil {
		p.Rate = s.Rates[i]
	} else {
		p.Rate = s.Fractions[i] * totalRate
	}
	if s.SuctionPressures != nil {
		p.SuctionPressure = s.SuctionPressures[i]
	}
	if s.DischargePressures != nil {
		p.DischargePressure = s.DischargePressures[i]
	}
	return p
}

// Evaluate distributes the total system rate [Sm³/day] over the units.
// base supplies the boundary pressures and inlet temperature shared by
// all units unless a setting overrides them. Settings are tried in
// priority order; within a tier the unit evaluations run concurrently.
func (s *System) Evaluate(totalRate float64, base OperatingPoint) SystemResult {
	var last SystemResult
	for tier := range s.settings {
		setting := &s.settings[tier]
		points := make([]OperatingPoint, len(s.units))
		for i := range s.units {
			points[i] = setting.point(i, totalRate, base)
		}
		results := s.evaluateTier(points)

		if setting.Crossover != nil {
			s.applyCrossover(setting, points, results)
		}

		state := Valid
		for i := range results {
			state = combineStates(state, results[i].State)
		}
		last = SystemResult{Setting: tier, Results: results, State: state}
		if allValid(results) {
			break
		}
	}
	last.Fuel = make([]float64, len(s.units))
	for i := range s.units {
		if s.units[i].Turbine != nil {
			last.Fuel[i] = s.units[i].Turbine.FuelUsage(last.Results[i].Power)
		}
	}
	return last
}

func (s *System) evaluateTier(points []OperatingPoint) []TrainResult {
	results := make([]TrainResult, len(s.units))
	var g errgroup.Group
	for i := range s.units {
		i := i
		g.Go(func() error {
			results[i] = s.units[i].Train.Evaluate(points[i])
			return nil
		})
	}
	_ = g.Wait() // the workers never error; results carry the outcomes
	return results
}

// applyCrossover redirects the rate an invalid unit cannot absorb to
// its crossover partner and re-evaluates both. Partners are processed
// in unit order; the graph is acyclic so a redirected unit never sends
// flow back.
func (s *System) applyCrossover(setting *OperationalSetting, points []OperatingPoint, results []TrainResult) {
	for i := range s.units {
		to := setting.Crossover[i]
		if to == -1 || results[i].IsValid() {
			continue
		}
		feasible := s.maxFeasibleRate(i, points[i])
		excess := points[i].Rate - feasible
		if excess <= 0 {
			continue
		}
		points[i].Rate = feasible
		results[i] = s.units[i].Train.Evaluate(points[i])
		points[to].Rate += excess
		results[to] = s.units[to].Train.Evaluate(points[to])
	}
}

// maxFeasibleRate finds the highest rate at or below the assigned one
// that the unit can absorb, by bisection on the rate. Zero is returned
// when even a trickle is infeasible.
func (s *System) maxFeasibleRate(i int, point OperatingPoint) float64 {
	if r := s.units[i].Train.Evaluate(point); r.IsValid() {
		return point.Rate
	}
	lo, hi := 0., point.Rate
	for iter := 0; iter < 40; iter++ {
		mid := (lo + hi) / 2
		point.Rate = mid
		if r := s.units[i].Train.Evaluate(point); r.IsValid() {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

func allValid(results []TrainResult) bool {
	for i := range results {
		if !results[i].IsValid() {
			return false
		}
	}
	return true
}

// Units returns the system's units.
func (s *System) Units() []SystemUnit { return s.units }
