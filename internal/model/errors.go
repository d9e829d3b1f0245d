package model

import "errors"

var (
	ErrUnknownPart      = errors.New("unknown response part")
	ErrEmptyResponse    = errors.New("empty response")
	ErrPermissionDenied = errors.New("permission denied")
)
