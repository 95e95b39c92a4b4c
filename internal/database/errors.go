package database

import "errors"

// ErrStaleSnapshot is returned when a conditional write matched zero rows
// because the record changed after the caller's snapshot was read. The caller
// is expected to re-read and retry a bounded number of times.
var ErrStaleSnapshot = errors.New("snapshot is stale, re-read and retry")

// MaxRetries is the number of attempts services make on ErrStaleSnapshot
// before surfacing it to the client.
const MaxRetries = 3
