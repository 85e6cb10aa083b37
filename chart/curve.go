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

// Package chart implements compressor performance charts: the
// rate/head/efficiency surfaces that describe what a compressor stage
// can do at a given shaft speed.
package chart

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// HeadUnit identifies the unit that chart head values are supplied in.
// Heads are converted to J/kg once, when a curve is constructed.
type HeadUnit int

const (
	// JoulePerKg is polytropic head in J/kg.
	JoulePerKg HeadUnit = iota
	// KJoulePerKg is polytropic head in kJ/kg.
	KJoulePerKg
	// Meter is polytropic head as a fluid column in m.
	Meter
)

// standard gravity [m/s²], used to convert head in m to J/kg.
const gravity = 9.80665

// toJoulePerKg returns the factor that converts a head value in unit u
// to J/kg.
func (u HeadUnit) toJoulePerKg() (float64, error) {
	switch u {
	case JoulePerKg:
		return 1, nil
	case KJoulePerKg:
		return 1000, nil
	case Meter:
		return gravity, nil
	default:
		return 0, fmt.Errorf("chart: unknown head unit %d", u)
	}
}

// ParseHeadUnit converts a head unit name, as it would appear in a
// configuration file, to a HeadUnit.
func ParseHeadUnit(s string) (HeadUnit, error) {
	switch s {
	case "J/kg", "JOULE_PER_KG":
		return JoulePerKg, nil
	case "kJ/kg", "KJ_PER_KG":
		return KJoulePerKg, nil
	case "m", "M", "METER":
		return Meter, nil
	default:
		return 0, fmt.Errorf("chart: unknown head unit %q", s)
	}
}

// Curve is the performance of a compressor stage at one shaft speed:
// polytropic head [J/kg] and polytropic efficiency [fraction] as
// functions of actual volumetric inlet flow rate [m³/h].
type Curve struct {
	Speed        float64   // shaft speed [rpm]
	Rates        []float64 // actual inlet flow rates [m³/h], increasing
	Heads        []float64 // polytropic heads [J/kg], decreasing
	Efficiencies []float64 // polytropic efficiencies (0,1]

	head, eff interp.PiecewiseLinear

	// rateFromHead inverts the head curve. It is fit against the
	// reversed samples because heads decrease with rate.
	rateFromHead interp.PiecewiseLinear
}

// NewCurve creates a performance curve from tabulated samples, converting
// heads from the given unit to J/kg. The samples must satisfy the chart
// invariants: at least two points, strictly increasing rate, strictly
// decreasing head, and efficiency in (0,1].
func NewCurve(speed float64, rates, heads, efficiencies []float64, unit HeadUnit) (*Curve, error) {
	if len(rates) != len(heads) || len(rates) != len(efficiencies) {
		return nil, fmt.Errorf("chart: mismatched curve lengths: %d rates, %d heads, %d efficiencies",
			len(rates), len(heads), len(efficiencies))
	}
	if len(rates) < 2 {
		return nil, fmt.Errorf("chart: a curve requires at least 2 points but has %d", len(rates))
	}
	conv, err := unit.toJoulePerKg()
	if err != nil {
		return nil, err
	}
	c := &Curve{
		Speed:        speed,
		Rates:        append([]float64{}, rates...),
		Heads:        make([]float64, len(heads)),
		Efficiencies: append([]float64{}, efficiencies...),
	}
	for i, h := range heads {
		c.Heads[i] = h * conv
	}
	for i := range c.Rates {
		if i > 0 {
			if c.Rates[i] <= c.Rates[i-1] {
				return nil, fmt.Errorf("chart: curve rates must be strictly increasing at index %d (%g <= %g)",
					i, c.Rates[i], c.Rates[i-1])
			}
			if c.Heads[i] >= c.Heads[i-1] {
				return nil, fmt.Errorf("chart: curve heads must be strictly decreasing at index %d (%g >= %g)",
					i, c.Heads[i], c.Heads[i-1])
			}
		}
		if e := c.Efficiencies[i]; e <= 0 || e > 1 {
			return nil, fmt.Errorf("chart: efficiency must be in (0,1] but is %g at index %d", e, i)
		}
	}
	if err := c.head.Fit(c.Rates, c.Heads); err != nil {
		return nil, fmt.Errorf("chart: fitting head curve: %v", err)
	}
	if err := c.eff.Fit(c.Rates, c.Efficiencies); err != nil {
		return nil, fmt.Errorf("chart: fitting efficiency curve: %v", err)
	}
	revHeads := make([]float64, len(c.Heads))
	revRates := make([]float64, len(c.Rates))
	for i := range c.Heads {
		revHeads[i] = c.Heads[len(c.Heads)-1-i]
		revRates[i] = c.Rates[len(c.Rates)-1-i]
	}
	if err := c.rateFromHead.Fit(revHeads, revRates); err != nil {
		return nil, fmt.Errorf("chart: fitting inverse head curve: %v", err)
	}
	return c, nil
}

// MinRate returns the lowest tabulated rate on the curve
// (the surge point at this speed, before any control margin).
func (c *Curve) MinRate() float64 { return c.Rates[0] }

// MaxRate returns the highest tabulated rate on the curve
// (the choke point at this speed).
func (c *Curve) MaxRate() float64 { return c.Rates[len(c.Rates)-1] }

// MaxHead returns the head at the surge point, which is the highest
// head the curve produces.
func (c *Curve) MaxHead() float64 { return c.Heads[0] }

// MinHead returns the head at the choke point.
func (c *Curve) MinHead() float64 { return c.Heads[len(c.Heads)-1] }

// HeadAt returns the polytropic head [J/kg] at the given rate, clamped
// to the tabulated rate range.
func (c *Curve) HeadAt(rate float64) float64 {
	return c.head.Predict(clamp(rate, c.MinRate(), c.MaxRate()))
}

// EfficiencyAt returns the polytropic efficiency at the given rate,
// clamped to the tabulated rate range.
func (c *Curve) EfficiencyAt(rate float64) float64 {
	return c.eff.Predict(clamp(rate, c.MinRate(), c.MaxRate()))
}

// RateAtHead returns the rate at which the curve produces the given
// head. The result is clamped to the tabulated head range, so callers
// must check the head against MaxHead separately if exceeding the curve
// matters to them.
func (c *Curve) RateAtHead(head float64) float64 {
	return c.rateFromHead.Predict(clamp(head, c.MinHead(), c.MaxHead()))
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(x, hi))
}
