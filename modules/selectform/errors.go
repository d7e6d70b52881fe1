package selectform

import "errors"

var (
	ErrNoRepository    = errors.New("selectform: repository is required")
	ErrNoCookieManager = errors.New("selectform: cookie manager is required")
)
