package archive

import "errors"

// ErrNotFound reports that an entry is absent from the archive. It is
// a normal outcome for probes, not a structural failure.
var ErrNotFound = errors.New("archive: entry not found")

// ErrClosed reports an operation on a disposed reader.
var ErrClosed = errors.New("archive: reader closed")
