package memory

import "github.com/m-mizutani/atelier/pkg/domain/interfaces"

// ErrNotFound is returned when a requested record does not exist. It is
// the shared interfaces.ErrRecordNotFound sentinel, so callers holding
// only the interface can still classify absence.
var ErrNotFound = interfaces.ErrRecordNotFound
