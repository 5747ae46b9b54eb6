package loader

import "errors"

var (
	ErrSchemeUnsupported  = errors.New("unsupported scheme")
	ErrSourceNotAvailable = errors.New("source not available")
	ErrInputEmpty         = errors.New("input is empty")
)
