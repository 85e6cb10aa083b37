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
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/ctessum/requestcache"
)

// Cache wraps a Port and memoizes property results keyed on the exact
// input tuple. Identical queries are deduplicated, so a port backed by
// a single-threaded external process can be used concurrently from many
// solver workers without repeated evaluations of the same state.
type Cache struct {
	Port Port

	// Size is the number of property results to hold in memory.
	// If zero, a default of 10000 is used.
	Size int

	once  sync.Once
	cache *requestcache.Cache
}

// NewCache wraps port with an in-memory memoizing cache holding up to
// size results.
func NewCache(port Port, size int) *Cache {
	return &Cache{Port: port, Size: size}
}

type propertyRequest struct {
	pressure, temperature float64
	composition           Composition
}

// Properties implements the Port interface.
func (c *Cache) Properties(pressure, temperature float64, composition Composition) (Properties, error) {
	c.once.Do(func() {
		size := c.Size
		if size <= 0 {
			size = 10000
		}
		c.cache = requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
			r := request.(propertyRequest)
			return c.Port.Properties(r.pressure, r.temperature, r.composition)
		}, runtime.GOMAXPROCS(-1),
			requestcache.Deduplicate(), requestcache.Memory(size))
	})
	req := c.cache.NewRequest(context.TODO(),
		propertyRequest{pressure: pressure, temperature: temperature, composition: composition},
		fmt.Sprintf("%.12e_%.12e_%s", pressure, temperature, composition.Key()),
	)
	result, err := req.Result()
	if err != nil {
		return Properties{}, err
	}
	return result.(Properties), nil
}
