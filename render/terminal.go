package render

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "

	macosClearCmd = "clear"
)

// TerminalRenderer implements basic terminal rendering
type TerminalRenderer struct {
	out io.Writer
}

// NewTerminalRenderer writes frames to out, or stdout when out is nil
func NewTerminalRenderer(out io.Writer) *TerminalRenderer {
	if out == nil {
		out = os.Stdout
	}
	return &TerminalRenderer{out: out}
}

// Display renders the grid to the terminal
func (r *TerminalRenderer) Display(src CellSource) error {
	var b strings.Builder
	for row := range src.Height() {
		for col := range src.Width() {
			if src.Cell(row, col).IsAlive() {
				b.WriteString(gridPosBlock)
			} else {
				b.WriteString(gridPosEmpty)
			}
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(r.out, b.String())
	return err
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() {
	cmd := exec.Command(macosClearCmd)
	cmd.Stdout = r.out
	if err := cmd.Run(); err != nil {
		fmt.Fprintln(r.out, "Error clearing terminal:", err)
	}
}
