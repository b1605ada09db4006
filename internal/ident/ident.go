// Package ident issues process-wide unique identifiers to graph elements.
package ident

import (
	"strconv"
	"sync/atomic"
)

// ID identifies one unit or sink for the lifetime of the process.
type ID int64

// None is the source reported for impulses that originate outside the graph.
const None ID = -1

var counter atomic.Int64

// Next returns an ID strictly greater than every ID returned before it.
// The first call returns 0.
func Next() ID {
	return ID(counter.Add(1) - 1)
}

func (id ID) Valid() bool {
	return id >= 0
}

func (id ID) String() string {
	if id == None {
		return "none"
	}
	return strconv.FormatInt(int64(id), 10)
}
