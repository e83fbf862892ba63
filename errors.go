package main

import (
	"errors"
	"fmt"
)

var (
	ErrNodeNotFound       = errors.New("node not found")
	ErrConnectionNotFound = errors.New("connection not found")

	// ErrInvalidOperation is reported to the user; the errors below wrap it.
	ErrInvalidOperation = errors.New("invalid operation")

	ErrSelfLoop            = fmt.Errorf("%w: a node cannot connect to itself", ErrInvalidOperation)
	ErrNoSelection         = fmt.Errorf("%w: select a node to connect from", ErrInvalidOperation)
	ErrDuplicateConnection = errors.New("connection already exists")
)
