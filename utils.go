package main

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// worldPoint maps a screen cell to model units.
func (m *model) worldPoint(screenX, screenY int) Point {
	return Point{
		X: float64(screenX+m.panX) * cellWidth,
		Y: float64(screenY+m.panY) * cellHeight,
	}
}

func (m *model) cursorPoint() Point {
	return m.worldPoint(m.cursorX, m.cursorY)
}

// visibleWorld is the part of the diagram currently on screen, in model units.
func (m *model) visibleWorld() Rect {
	return Rect{
		X:      float64(m.panX) * cellWidth,
		Y:      float64(m.panY) * cellHeight,
		Width:  float64(m.width) * cellWidth,
		Height: float64(m.canvasHeight()) * cellHeight,
	}
}

func (m *model) canvasHeight() int {
	h := m.height - 1 // status line
	if h < 1 {
		h = 1
	}
	return h
}

// readRawClipboard is swapped out in tests.
var readRawClipboard = func() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func readClipboardText() (string, error) {
	text, err := readRawClipboard()
	if err != nil {
		return "", err
	}
	return cleanClipboardText(text), nil
}

func writeClipboardText(text string) error {
	return clipboard.WriteAll(text)
}

// cleanClipboardText drops RTF markup and control characters and normalises
// line endings to \n.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	text = stripRTF(text)
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' || r >= 32 {
			result.WriteRune(r)
		}
	}
	normalized := strings.ReplaceAll(result.String(), "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.TrimRight(normalized, "\n")
}

func stripRTF(text string) string {
	if !strings.Contains(text, "\\rtf") {
		return text
	}
	var result strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '{' || r == '}':
			continue
		case r == '\\' && i+1 < len(runes):
			next := runes[i+1]
			if next == '\\' || next == '{' || next == '}' {
				result.WriteRune(next)
				i++
				continue
			}
			// skip a control word and the single space that ends it
			i++
			for i < len(runes) && runes[i] != ' ' && runes[i] != '\\' && runes[i] != '{' && runes[i] != '}' {
				i++
			}
			if i >= len(runes) || runes[i] != ' ' {
				i--
			}
		case r == '\\':
			continue
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}
