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
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// TimeStep is one entry in an operational time series.
type TimeStep struct {
	Time  time.Time
	Point OperatingPoint
}

// StepResult pairs a time step with its evaluation outcome.
type StepResult struct {
	Time   time.Time
	Point  OperatingPoint
	Result TrainResult
	// Fuel is the turbine fuel usage [Sm³/day] for this step, or
	// zero when the run has no turbine.
	Fuel float64
}

// Run evaluates a train over a time series of operating points.
// Steps are independent, so the work is striped over GOMAXPROCS
// goroutines. turbine may be nil. log may be nil to disable progress
// reporting.
func Run(ctx context.Context, train Train, turbine *Turbine, steps []TimeStep, log logrus.FieldLogger) ([]StepResult, error) {
	results := make([]StepResult, len(steps))
	nprocs := runtime.GOMAXPROCS(-1)
	var wg sync.WaitGroup
	for proc := 0; proc < nprocs; proc++ {
		wg.Add(1)
		go func(proc int) {
			defer wg.Done()
			for i := proc; i < len(steps); i += nprocs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				r := train.Evaluate(steps[i].Point)
				results[i] = StepResult{Time: steps[i].Time, Point: steps[i].Point, Result: r}
				if turbine != nil {
					results[i].Fuel = turbine.FuelUsage(r.Power)
				}
			}
		}(proc)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if log != nil {
		valid := 0
		for i := range results {
			if results[i].Result.IsValid() {
				valid++
			}
		}
		log.WithFields(logrus.Fields{
			"steps": len(steps),
			"valid": valid,
		}).Info("finished time series evaluation")
	}
	return results, nil
}
