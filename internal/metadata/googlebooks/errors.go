package googlebooks

import "errors"

// Sentinel errors for Google Books API operations.
var (
	ErrNotFound    = errors.New("googlebooks: no matching volume")
	ErrRateLimited = errors.New("googlebooks: rate limited by server")
	ErrBadRequest  = errors.New("googlebooks: bad request")
	ErrServer      = errors.New("googlebooks: server error")
)
