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

package fluid

import (
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// Retrier wraps a Port and retries failed property queries a bounded
// number of times with exponential backoff. Queries are idempotent, so
// each attempt repeats the identical input. When the retry budget is
// exhausted the last error is returned and the owning evaluation is
// marked invalid by the caller.
type Retrier struct {
	Port Port

	// MaxRetries is the number of retries after the first attempt.
	// Zero means a single attempt.
	MaxRetries uint64

	// Log receives retry notifications. If nil, the standard logger
	// is used.
	Log logrus.FieldLogger
}

// NewRetrier wraps port with a bounded retry policy.
func NewRetrier(port Port, maxRetries uint64) *Retrier {
	return &Retrier{Port: port, MaxRetries: maxRetries, Log: logrus.StandardLogger()}
}

// Properties implements the Port interface.
func (r *Retrier) Properties(pressure, temperature float64, composition Composition) (Properties, error) {
	var props Properties
	log := r.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	err := backoff.RetryNotify(
		func() error {
			var err error
			props, err = r.Port.Properties(pressure, temperature, composition)
			return err
		},
		backoff.WithMaxRetries(b, r.MaxRetries),
		func(err error, d time.Duration) {
			log.WithFields(logrus.Fields{
				"pressure":    pressure,
				"temperature": temperature,
			}).Warnf("fluid: %v: retrying in %v", err, d)
		},
	)
	return props, err
}
