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
	"errors"
	"fmt"
	"sort"
)

// ErrOutOfEnvelope is returned when a requested operating point falls
// outside the region a chart is defined for: a shaft speed outside the
// tabulated speed range or a rate above the maximum-flow boundary.
// Speeds between tabulated curves are interpolated; speeds outside the
// tabulated range are never extrapolated.
var ErrOutOfEnvelope = errors.New("chart: operating point outside chart envelope")

// A Chart describes the performance envelope of one compressor stage:
// polytropic head and efficiency as a function of flow rate and shaft
// speed. Implementations are immutable after construction and safe for
// concurrent use.
type Chart interface {
	// MinSpeed and MaxSpeed bound the shaft speeds the chart is
	// defined for [rpm].
	MinSpeed() float64
	MaxSpeed() float64

	// HeadAndEfficiency returns the polytropic head [J/kg] and
	// efficiency the stage produces at the given actual inlet flow
	// rate [m³/h] and shaft speed [rpm]. Rates below the tabulated
	// range evaluate at the low-rate end of the curve (the machine
	// cannot move less gas than its surge limit; recirculation
	// supplies the difference). Speeds outside [MinSpeed, MaxSpeed]
	// and rates above the maximum-flow boundary return
	// ErrOutOfEnvelope.
	HeadAndEfficiency(rate, speed float64) (head, efficiency float64, err error)

	// IsWithinCapacity reports whether the chart can deliver the
	// given head [J/kg] at the given rate [m³/h] and speed [rpm].
	IsWithinCapacity(rate, head, speed float64) bool

	// MinFlow returns the minimum-flow (surge-control) boundary at
	// the given speed [m³/h], including any control margin.
	MinFlow(speed float64) float64

	// MaxFlow returns the maximum-flow boundary at the given speed
	// [m³/h].
	MaxFlow(speed float64) float64

	// MaxHead returns the highest head the chart produces at the
	// given rate and speed [J/kg].
	MaxHead(rate, speed float64) float64

	// RateAtHead returns the rate [m³/h] at which the chart produces
	// the given head [J/kg] at the given speed. The result is
	// clamped to the flow boundaries; ErrOutOfEnvelope is returned
	// only for speeds outside the chart.
	RateAtHead(head, speed float64) (float64, error)
}

// SingleSpeed is a chart for a fixed-speed machine: one curve at one
// shaft speed.
type SingleSpeed struct {
	curve *Curve
}

// NewSingleSpeed creates a single-speed chart from one curve.
func NewSingleSpeed(curve *Curve) (*SingleSpeed, error) {
	if curve == nil {
		return nil, fmt.Errorf("chart: single-speed chart requires a curve")
	}
	return &SingleSpeed{curve: curve}, nil
}

// Speed returns the fixed shaft speed of the chart.
func (c *SingleSpeed) Speed() float64 { return c.curve.Speed }

// MinSpeed implements the Chart interface.
func (c *SingleSpeed) MinSpeed() float64 { return c.curve.Speed }

// MaxSpeed implements the Chart interface.
func (c *SingleSpeed) MaxSpeed() float64 { return c.curve.Speed }

// HeadAndEfficiency implements the Chart interface. The speed argument
// is ignored except that it must equal the chart's fixed speed when
// nonzero.
func (c *SingleSpeed) HeadAndEfficiency(rate, speed float64) (float64, float64, error) {
	if speed != 0 && speed != c.curve.Speed {
		return 0, 0, ErrOutOfEnvelope
	}
	if rate > c.curve.MaxRate() {
		return 0, 0, ErrOutOfEnvelope
	}
	return c.curve.HeadAt(rate), c.curve.EfficiencyAt(rate), nil
}

// IsWithinCapacity implements the Chart interface.
func (c *SingleSpeed) IsWithinCapacity(rate, head, speed float64) bool {
	h, _, err := c.HeadAndEfficiency(rate, speed)
	return err == nil && head <= h
}

// MinFlow implements the Chart interface.
func (c *SingleSpeed) MinFlow(speed float64) float64 { return c.curve.MinRate() }

// MaxFlow implements the Chart interface.
func (c *SingleSpeed) MaxFlow(speed float64) float64 { return c.curve.MaxRate() }

// MaxHead implements the Chart interface.
func (c *SingleSpeed) MaxHead(rate, speed float64) float64 {
	return c.curve.HeadAt(rate)
}

// RateAtHead implements the Chart interface.
func (c *SingleSpeed) RateAtHead(head, speed float64) (float64, error) {
	if speed != 0 && speed != c.curve.Speed {
		return 0, ErrOutOfEnvelope
	}
	return c.curve.RateAtHead(head), nil
}

// VariableSpeed is a chart made up of curves at several shaft speeds.
// Head and efficiency between tabulated speeds are interpolated linearly
// between the two bracketing curves.
type VariableSpeed struct {
	curves []*Curve

	// controlMargin shifts the minimum-flow boundary outward
	// (toward higher rates) by this fraction of the rate span
	// between minimum and maximum flow at each speed. The shift is
	// applied once here; surge-control logic downstream sees only
	// the shifted boundary.
	controlMargin float64
}

// NewVariableSpeed creates a variable-speed chart from curves at two or
// more distinct speeds. controlMargin is the surge-control margin as a
// fraction in [0,1) of the rate span at each speed.
func NewVariableSpeed(curves []*Curve, controlMargin float64) (*VariableSpeed, error) {
	if len(curves) < 2 {
		return nil, fmt.Errorf("chart: a variable-speed chart requires at least 2 curves but has %d", len(curves))
	}
	if controlMargin < 0 || controlMargin >= 1 {
		return nil, fmt.Errorf("chart: control margin must be in [0,1) but is %g", controlMargin)
	}
	cs := append([]*Curve{}, curves...)
	sort.Slice(cs, func(i, j int) bool { return cs[i].Speed < cs[j].Speed })
	for i := 1; i < len(cs); i++ {
		if cs[i].Speed == cs[i-1].Speed {
			return nil, fmt.Errorf("chart: duplicate curve speed %g", cs[i].Speed)
		}
	}
	return &VariableSpeed{curves: cs, controlMargin: controlMargin}, nil
}

// MinSpeed implements the Chart interface.
func (c *VariableSpeed) MinSpeed() float64 { return c.curves[0].Speed }

// MaxSpeed implements the Chart interface.
func (c *VariableSpeed) MaxSpeed() float64 { return c.curves[len(c.curves)-1].Speed }

// bracket returns the curves below and above the given speed and the
// interpolation fraction between them. At a tabulated speed both curves
// are the same and the fraction is 0.
func (c *VariableSpeed) bracket(speed float64) (lo, hi *Curve, frac float64, err error) {
	if speed < c.MinSpeed() || speed > c.MaxSpeed() {
		return nil, nil, 0, ErrOutOfEnvelope
	}
	i := sort.Search(len(c.curves), func(i int) bool { return c.curves[i].Speed >= speed })
	if c.curves[i].Speed == speed {
		return c.curves[i], c.curves[i], 0, nil
	}
	lo, hi = c.curves[i-1], c.curves[i]
	return lo, hi, (speed - lo.Speed) / (hi.Speed - lo.Speed), nil
}

// HeadAndEfficiency implements the Chart interface.
func (c *VariableSpeed) HeadAndEfficiency(rate, speed float64) (float64, float64, error) {
	lo, hi, f, err := c.bracket(speed)
	if err != nil {
		return 0, 0, err
	}
	if rate > c.MaxFlow(speed) {
		return 0, 0, ErrOutOfEnvelope
	}
	head := (1-f)*lo.HeadAt(rate) + f*hi.HeadAt(rate)
	eff := (1-f)*lo.EfficiencyAt(rate) + f*hi.EfficiencyAt(rate)
	return head, eff, nil
}

// IsWithinCapacity implements the Chart interface.
func (c *VariableSpeed) IsWithinCapacity(rate, head, speed float64) bool {
	h, _, err := c.HeadAndEfficiency(rate, speed)
	return err == nil && head <= h
}

// MinFlow implements the Chart interface. The control margin, if any,
// is included in the returned boundary.
func (c *VariableSpeed) MinFlow(speed float64) float64 {
	lo, hi, f, err := c.bracket(speed)
	if err != nil {
		return 0
	}
	minLo := lo.MinRate() + c.controlMargin*(lo.MaxRate()-lo.MinRate())
	minHi := hi.MinRate() + c.controlMargin*(hi.MaxRate()-hi.MinRate())
	return (1-f)*minLo + f*minHi
}

// MaxFlow implements the Chart interface.
func (c *VariableSpeed) MaxFlow(speed float64) float64 {
	lo, hi, f, err := c.bracket(speed)
	if err != nil {
		return 0
	}
	return (1-f)*lo.MaxRate() + f*hi.MaxRate()
}

// MaxHead implements the Chart interface.
func (c *VariableSpeed) MaxHead(rate, speed float64) float64 {
	h, _, err := c.HeadAndEfficiency(rate, speed)
	if err != nil {
		return 0
	}
	return h
}

// RateAtHead implements the Chart interface. The inverse lookups of the
// bracketing curves are interpolated; on a tabulated speed the lookup
// is exact.
func (c *VariableSpeed) RateAtHead(head, speed float64) (float64, error) {
	lo, hi, f, err := c.bracket(speed)
	if err != nil {
		return 0, err
	}
	return (1-f)*lo.RateAtHead(head) + f*hi.RateAtHead(head), nil
}

// Curves returns the tabulated speed curves in increasing speed order.
func (c *VariableSpeed) Curves() []*Curve { return c.curves }
