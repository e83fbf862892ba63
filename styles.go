package main

import "github.com/charmbracelet/lipgloss"

var (
	colorOrange = lipgloss.Color("208") // condition nodes and links
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorDim    = lipgloss.Color("240")
)

type cellStyle int

const (
	styleNone cellStyle = iota
	styleNode
	styleCondition
	styleSelected
	styleEdge
	styleConditionEdge
	styleLabel
	stylePlaceholder
	stylePort
	styleCursor
)

var cellStyles = map[cellStyle]lipgloss.Style{
	styleNode:          lipgloss.NewStyle().Foreground(colorWhite),
	styleCondition:     lipgloss.NewStyle().Foreground(colorOrange),
	styleSelected:      lipgloss.NewStyle().Bold(true).Foreground(colorCyan),
	styleEdge:          lipgloss.NewStyle().Foreground(colorWhite),
	styleConditionEdge: lipgloss.NewStyle().Foreground(colorOrange),
	styleLabel:         lipgloss.NewStyle().Foreground(colorCyan),
	stylePlaceholder:   lipgloss.NewStyle().Foreground(colorDim).Italic(true),
	stylePort:          lipgloss.NewStyle().Bold(true).Foreground(colorGreen),
	styleCursor:        lipgloss.NewStyle().Reverse(true),
}

var (
	statusStyle      = lipgloss.NewStyle().Foreground(colorDim)
	statusModeStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	statusErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
	statusOKStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	connectingStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorOrange)
	helpTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
)
