package engine

import "errors"

// ErrInvalidArgument marks boundary input outside the accepted domain:
// bad constructor parameters or an incompatible combination partner.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrInvalidState marks a specialization contract breach detected by
// the engine: a wrong-sized initial population, an empty or nil
// offspring batch, or a selected parent that is not a population
// member. These indicate defects in the specialization, not transient
// faults, and are never retried.
var ErrInvalidState = errors.New("invalid state")
