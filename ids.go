package main

import (
	"strconv"

	"github.com/google/uuid"
)

type NodeID string

type ConnectionID string

// IDGenerator hands out identifiers that are never reused by a Graph.
type IDGenerator interface {
	NextNodeID() NodeID
	NextConnectionID() ConnectionID
}

// CounterIDs numbers nodes and connections from 1. The zero value is ready to use.
type CounterIDs struct {
	nodes int
	conns int
}

func NewCounterIDs() *CounterIDs {
	return &CounterIDs{}
}

func (c *CounterIDs) NextNodeID() NodeID {
	c.nodes++
	return NodeID("node-" + strconv.Itoa(c.nodes))
}

func (c *CounterIDs) NextConnectionID() ConnectionID {
	c.conns++
	return ConnectionID("conn-" + strconv.Itoa(c.conns))
}

// UUIDs generates random identifiers.
type UUIDs struct{}

func (UUIDs) NextNodeID() NodeID {
	return NodeID("node-" + uuid.New().String())
}

func (UUIDs) NextConnectionID() ConnectionID {
	return ConnectionID("conn-" + uuid.New().String())
}

// newIDGenerator maps the config id_scheme to a generator.
func newIDGenerator(scheme string) IDGenerator {
	if scheme == IDSchemeUUID {
		return UUIDs{}
	}
	return NewCounterIDs()
}
