package output

import (
	"math"

	"github.com/sdejongh/codecompass/pkg/models"
)

// BarWidth is the number of cells in the summary bar
const BarWidth = 40

// Glyph returns the status marker appended to report lines
func Glyph(s models.Status) string {
	switch s {
	case models.StatusIdentical:
		return "✅"
	case models.StatusModified:
		return "⚠️"
	case models.StatusMissing:
		return "❌"
	default:
		return "?"
	}
}

// BarCell returns the summary bar cell used for a status
func BarCell(s models.Status) string {
	switch s {
	case models.StatusIdentical:
		return "🟩"
	case models.StatusModified:
		return "🟨"
	default:
		return "🟥"
	}
}

// Label returns the summary description of a status
func Label(s models.Status) string {
	switch s {
	case models.StatusIdentical:
		return "Identical (or directory exists):"
	case models.StatusModified:
		return "Exists but content is different:"
	case models.StatusMissing:
		return "Does not exist in the target project:"
	default:
		return string(s)
	}
}

// BarCells splits width cells between the statuses in proportion to counts.
// Each share is rounded half to even; the rounding error is given to the
// largest share (first in status order on ties) so the cells sum to width.
// Empty counts yield no cells.
func BarCells(counts models.Counts, width int) map[models.Status]int {
	cells := make(map[models.Status]int, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		cells[s] = 0
	}
	if counts.Total() == 0 || width <= 0 {
		return cells
	}

	sum := 0
	for _, s := range models.AllStatuses {
		cells[s] = int(math.RoundToEven(counts.Percent(s) / 100 * float64(width)))
		sum += cells[s]
	}

	if sum != width {
		largest := models.AllStatuses[0]
		for _, s := range models.AllStatuses[1:] {
			if counts.Percent(s) > counts.Percent(largest) {
				largest = s
			}
		}
		cells[largest] += width - sum
	}

	return cells
}
