package idgen

import "github.com/google/uuid"

// NewFunc generates identifiers; replace it in tests for stable output.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new globally unique identifier.
func New() string { return NewFunc() }
