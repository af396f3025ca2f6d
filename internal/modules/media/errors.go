package media

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported media type")
	ErrDecode          = errors.New("media decode failed")
)
