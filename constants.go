package main

type Mode int

const (
	ModeNormal Mode = iota
	ModeEditNode
	ModeEditLabel
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSavePNG FileOperation = iota
	FileOpSaveVisualTXT
)

type ConfirmAction int

const (
	ConfirmDeleteNode ConfirmAction = iota
	ConfirmDeleteConnection
	ConfirmQuit
)

// Model units per terminal cell. PNG export draws one unit per pixel.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

const (
	placementMargin = 2 * cellWidth
	// Manhattan distance within which the cursor picks up a connection.
	connectionHitDistance = 2 * cellWidth
)

const (
	IDSchemeCounter = "counter"
	IDSchemeUUID    = "uuid"
)

const (
	minNodeWidth  = 8
	minNodeHeight = 3
)
