package outwriter

import (
	"os"

	"github.com/gcopen/cheetah/internal/contract"
	"golang.org/x/term"
)

// Bounds for a single text cell in table output.
const (
	minCellWidth = 8
	maxCellWidth = 40
)

// getMaxCellWidth calculates the maximum width of a text cell in table output
// based on terminal width and the number of columns.
func getMaxCellWidth(cfg *contract.Config, columns int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	if columns < 1 {
		columns = 1
	}
	// Each column costs a separator and two spaces of padding
	available := (termWidth - 1) / columns
	available -= 3
	if available < minCellWidth {
		return minCellWidth
	}
	if available > maxCellWidth {
		return maxCellWidth
	}
	return available
}
