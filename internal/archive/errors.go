package archive

import "errors"

// Failure taxonomy for partition loading. Callers distinguish these
// with errors.Is to message the user accurately; none of them aborts a
// batch load.
var (
	// ErrPartitionUnavailable: the partition's bytes could not be
	// retrieved or decoded (network, storage, corrupt stream).
	ErrPartitionUnavailable = errors.New("partition unavailable")

	// ErrUnsupportedEncoding: the partition is published in an
	// encoding this build cannot decode. Distinct from a transient
	// retrieval failure.
	ErrUnsupportedEncoding = errors.New("unsupported partition encoding")

	// ErrDirectoryUnavailable: index.json itself could not be
	// obtained; the caller degrades to hot-only mode.
	ErrDirectoryUnavailable = errors.New("partition directory unavailable")
)
