package interfaces

import "github.com/m-mizutani/goerr/v2"

// ErrRecordNotFound marks explicit absence of a record. Repository
// backends return errors wrapping this sentinel from Get so that callers
// can tell "the ID is unknown" apart from a failing medium.
var ErrRecordNotFound = goerr.New("record not found")
