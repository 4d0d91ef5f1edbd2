package core

import "errors"

var (
	ErrNoCredentials = errors.New("no credentials stored")
	ErrStoreFailed   = errors.New("credential store operation failed")
)
