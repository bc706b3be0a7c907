package goShop

import "errors"

var (
	// ErrBuilderUsed is an exported constant or variable used by the shop client engine.
	ErrBuilderUsed = errors.New("builder already used")
	// ErrStorageRequired is an exported constant or variable used by the shop client engine.
	ErrStorageRequired = errors.New("storage mirror required")
	// ErrAPINotConfigured is an exported constant or variable used by the shop client engine.
	ErrAPINotConfigured = errors.New("remote api client not configured")
	// ErrLoginFailed is an exported constant or variable used by the shop client engine.
	ErrLoginFailed = errors.New("login failed")
)
