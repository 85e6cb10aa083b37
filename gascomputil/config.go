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

package gascomputil

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/flowmodel/gascomp"
	"github.com/flowmodel/gascomp/chart"
	"github.com/flowmodel/gascomp/fluid"
)

// Config describes one facility: a compressor train, optionally its
// driving turbine, the gas composition, and the operating time series
// to evaluate.
type Config struct {
	Train   TrainConfig
	Turbine *TurbineConfig

	// Composition maps component names to mole fractions. It is
	// normalized before use.
	Composition map[string]float64

	// FluidCacheSize is the number of fluid property results kept in
	// memory. Zero selects the default.
	FluidCacheSize int
	// FluidMaxRetries bounds retries of failed fluid property
	// queries.
	FluidMaxRetries int

	Steps []StepConfig
}

// TrainConfig describes a compressor train.
type TrainConfig struct {
	// Type is one of "VARIABLE_SPEED", "SINGLE_SPEED", "SIMPLIFIED",
	// or "MULTIPLE_STREAMS".
	Type string

	PressureControl string

	Stages []StageConfig

	// MaxPressureRatioPerStage, when nonzero, makes a simplified
	// train derive its stage count per operating point; the first
	// stage serves as the template.
	MaxPressureRatioPerStage float64

	// Streams and IntermediateStage apply to multiple-streams
	// trains only.
	Streams           []StreamConfig
	IntermediateStage int
}

// StageConfig describes one compression stage.
type StageConfig struct {
	// InletTemperature [K]. Zero defers to the operating point.
	InletTemperature float64
	// PressureDrop ahead of the impeller [bar].
	PressureDrop float64
	Chart        ChartConfig
}

// ChartConfig describes a stage's performance chart. Exactly one of
// Curves, the design point, or the rate/head samples must be given.
type ChartConfig struct {
	// HeadUnit is "J/kg", "kJ/kg", or "m".
	HeadUnit      string
	ControlMargin float64

	// Curves gives tabulated performance directly. A single curve
	// yields a single-speed chart.
	Curves []CurveConfig

	// DesignRate [m³/h] and DesignHead synthesize a generic chart
	// from one design point.
	DesignRate float64
	DesignHead float64
	// Efficiency is the constant efficiency of a generic chart.
	Efficiency float64

	// Rates and Heads synthesize a generic chart covering sampled
	// operating conditions.
	Rates []float64
	Heads []float64
}

// CurveConfig is one tabulated speed line.
type CurveConfig struct {
	Speed        float64
	Rates        []float64
	Heads        []float64
	Efficiencies []float64
}

// StreamConfig describes one stream of a multiple-streams train.
type StreamConfig struct {
	Name         string
	Stage        int
	Ingoing      bool
	Composition  map[string]float64
	RateFraction float64
}

// TurbineConfig describes the gas turbine driving a train.
type TurbineConfig struct {
	Loads             []float64
	Efficiencies      []float64
	LowerHeatingValue float64
	PowerAdjustment   float64
}

// StepConfig is one entry of the operating time series.
type StepConfig struct {
	// Time in RFC 3339 format.
	Time                 string
	Rate                 float64
	SuctionPressure      float64
	DischargePressure    float64
	InletTemperature     float64
	IntermediatePressure float64
}

// ReadConfig reads and decodes a TOML facility configuration.
func ReadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gascomputil: opening configuration file: %v", err)
	}
	defer f.Close()
	cfg := new(Config)
	if _, err := toml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("gascomputil: decoding configuration file %s: %v", path, err)
	}
	return cfg, nil
}

// Port builds the fluid property port for the configuration: the gas
// model wrapped in a retry policy and a result cache.
func (cfg *Config) Port() fluid.Port {
	retrier := fluid.NewRetrier(fluid.GasModel{}, uint64(cfg.FluidMaxRetries))
	return fluid.NewCache(retrier, cfg.FluidCacheSize)
}

// buildChart creates the chart a stage configuration describes.
func (c *ChartConfig) buildChart() (chart.Chart, error) {
	unit := chart.JoulePerKg
	if c.HeadUnit != "" {
		var err error
		unit, err = chart.ParseHeadUnit(c.HeadUnit)
		if err != nil {
			return nil, err
		}
	}
	switch {
	case len(c.Curves) == 1:
		curve, err := chart.NewCurve(c.Curves[0].Speed, c.Curves[0].Rates,
			c.Curves[0].Heads, c.Curves[0].Efficiencies, unit)
		if err != nil {
			return nil, err
		}
		return chart.NewSingleSpeed(curve)
	case len(c.Curves) > 1:
		curves := make([]*chart.Curve, len(c.Curves))
		for i, cc := range c.Curves {
			curve, err := chart.NewCurve(cc.Speed, cc.Rates, cc.Heads, cc.Efficiencies, unit)
			if err != nil {
				return nil, err
			}
			curves[i] = curve
		}
		return chart.NewVariableSpeed(curves, c.ControlMargin)
	case c.DesignRate != 0 || c.DesignHead != 0:
		return chart.NewGenericFromDesignPoint(c.DesignRate, c.DesignHead, unit, c.Efficiency)
	case len(c.Rates) != 0:
		return chart.NewGenericFromInput(c.Rates, c.Heads, unit, c.Efficiency)
	default:
		return nil, fmt.Errorf("gascomputil: chart configuration gives neither curves, a design point, nor samples")
	}
}

func (cfg *TrainConfig) buildStages() ([]gascomp.Stage, error) {
	stages := make([]gascomp.Stage, len(cfg.Stages))
	for i, sc := range cfg.Stages {
		ch, err := sc.Chart.buildChart()
		if err != nil {
			return nil, fmt.Errorf("gascomputil: stage %d: %v", i, err)
		}
		stages[i] = gascomp.Stage{
			InletTemperature: sc.InletTemperature,
			PressureDrop:     sc.PressureDrop,
			Chart:            ch,
		}
	}
	return stages, nil
}

// BuildTrain creates the train the configuration describes, using port
// for fluid properties.
func (cfg *Config) BuildTrain(port fluid.Port) (gascomp.Train, error) {
	comp := fluid.Composition(cfg.Composition).Normalized()
	stages, err := cfg.Train.buildStages()
	if err != nil {
		return nil, err
	}
	control, err := gascomp.ParsePressureControl(cfg.Train.PressureControl)
	if err != nil {
		return nil, err
	}
	switch cfg.Train.Type {
	case "", "VARIABLE_SPEED":
		return gascomp.NewVariableSpeedTrain(stages, port, comp, control)
	case "SINGLE_SPEED":
		return gascomp.NewSingleSpeedTrain(stages, port, comp, control)
	case "SIMPLIFIED":
		if cfg.Train.MaxPressureRatioPerStage != 0 {
			if len(stages) != 1 {
				return nil, fmt.Errorf("gascomputil: a simplified train with a per-stage ratio limit takes exactly one template stage, got %d", len(stages))
			}
			return gascomp.NewSimplifiedTrainWithMaxRatio(stages[0],
				cfg.Train.MaxPressureRatioPerStage, port, comp)
		}
		return gascomp.NewSimplifiedTrain(stages, port, comp)
	case "MULTIPLE_STREAMS":
		streams := make([]gascomp.StreamConnection, len(cfg.Train.Streams))
		for i, sc := range cfg.Train.Streams {
			streams[i] = gascomp.StreamConnection{
				Name:         sc.Name,
				Stage:        sc.Stage,
				Ingoing:      sc.Ingoing,
				Composition:  fluid.Composition(sc.Composition).Normalized(),
				RateFraction: sc.RateFraction,
			}
		}
		// Stage 0's inlet is the train suction, so an omitted (zero)
		// intermediate stage means no interior pressure target.
		inter := cfg.Train.IntermediateStage
		if inter == 0 {
			inter = -1
		}
		return gascomp.NewMultiStreamTrain(stages, port, streams, inter)
	default:
		return nil, fmt.Errorf("gascomputil: unknown train type %q", cfg.Train.Type)
	}
}

// BuildTurbine creates the configured turbine, or nil if the
// configuration has none.
func (cfg *Config) BuildTurbine() (*gascomp.Turbine, error) {
	if cfg.Turbine == nil {
		return nil, nil
	}
	return gascomp.NewTurbine(cfg.Turbine.Loads, cfg.Turbine.Efficiencies,
		cfg.Turbine.LowerHeatingValue, cfg.Turbine.PowerAdjustment)
}

// BuildSteps converts the configured time series to model time steps.
func (cfg *Config) BuildSteps() ([]gascomp.TimeStep, error) {
	steps := make([]gascomp.TimeStep, len(cfg.Steps))
	for i, sc := range cfg.Steps {
		t, err := time.Parse(time.RFC3339, sc.Time)
		if err != nil {
			return nil, fmt.Errorf("gascomputil: step %d: parsing time %q: %v", i, sc.Time, err)
		}
		steps[i] = gascomp.TimeStep{
			Time: t,
			Point: gascomp.OperatingPoint{
				Rate:                 sc.Rate,
				SuctionPressure:      sc.SuctionPressure,
				DischargePressure:    sc.DischargePressure,
				InletTemperature:     sc.InletTemperature,
				IntermediatePressure: sc.IntermediatePressure,
			},
		}
	}
	return steps, nil
}
