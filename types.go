package main

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"
)

type model struct {
	width      int
	height     int
	cursorX    int
	cursorY    int
	panX       int
	panY       int
	zPanMode   bool
	mode       Mode
	help       bool
	helpScroll int

	editor *Editor
	canvas *Canvas
	rng    *rand.Rand

	editNodeID       NodeID
	editConnID       ConnectionID
	editText         string
	editCursorPos    int
	originalEditText string

	// set while the keyboard pointer (space) holds a node
	pointerHeld bool

	filename      string
	fileOp        FileOperation
	confirmAction ConfirmAction
	confirmNodeID NodeID
	confirmConnID ConnectionID

	errorMessage   string
	successMessage string

	config *Config
	logger *log.Logger
}
