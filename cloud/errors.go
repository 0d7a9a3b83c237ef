/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package cloud

import "errors"

var (
	ErrClosed    = errors.New("hub is closed")
	ErrNoFreeID  = errors.New("unable to generate unused session id")
	ErrInvalidID = errors.New("invalid session id")
)
