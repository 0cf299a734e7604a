package media

import "errors"

// Sentinel errors for the ingest service.
var (
	ErrProviderUnavailable = errors.New("storage provider unavailable")
	ErrAssetTooLarge       = errors.New("asset exceeds size limit")
)
