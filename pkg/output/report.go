package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sdejongh/codecompass/internal/platform"
	"github.com/sdejongh/codecompass/pkg/models"
)

// Report layout
const (
	ReportTitle = "Codebase Compass"
	reportWidth = 120
	labelWidth  = 45

	// EmptyMessage replaces the summary when nothing was compared
	EmptyMessage = "No items found to compare with the current filters."
)

// Report file formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// FileName returns comparison_<base>_<target>_<YYYYmmdd_HHMMSS>.<ext>
func FileName(baseRoot, targetRoot string, at time.Time, format string) string {
	ext := "txt"
	if format == FormatJSON {
		ext = "json"
	}
	return fmt.Sprintf("comparison_%s_%s_%s.%s",
		platform.Slug(platform.ProjectName(baseRoot)),
		platform.Slug(platform.ProjectName(targetRoot)),
		at.Format("20060102_150405"),
		ext)
}

// Save writes the report into dir, creating it if needed, and returns the file path
func Save(dir string, report *models.Report, format string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, FileName(report.BaseRoot, report.TargetRoot, report.EndTime, format))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	switch format {
	case FormatJSON:
		err = WriteJSON(file, report)
	default:
		err = WriteText(file, report)
	}
	if err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}

// WriteText renders the report in the plain-text layout: header, summary with
// percentages and bar, then the detailed tree with one status glyph per line
func WriteText(w io.Writer, report *models.Report) error {
	ew := &errWriter{w: w}

	header := strings.Repeat("=", reportWidth)
	separator := strings.Repeat("-", reportWidth)

	ew.printf("%s\n%s\n", header, header)
	ew.printf("%s\n", ReportTitle)
	ew.printf("Generated: %s\n", report.EndTime.Format("2006-01-02 15:04:05"))
	ew.printf("Base Project: %s\n", report.BaseRoot)
	ew.printf("Target Project: %s\n", report.TargetRoot)
	ew.printf("%s\n\n", header)

	ew.printf("%s\n", separator)
	ew.printf("%s\n", sectionHeader("--- COMPARISON SUMMARY "))

	counts := models.NewCounts()
	var records []models.Record
	if report.Result != nil {
		counts = report.Result.Counts
		records = report.Result.Records
	}

	total := counts.Total()
	if total == 0 {
		ew.printf("%s\n", EmptyMessage)
	} else {
		ew.printf("  Total items compared: %d\n\n", total)
		for _, s := range models.AllStatuses {
			ew.printf("  %s %-*s %5d (%5.1f%% )\n", Glyph(s), labelWidth, Label(s), counts[s], counts.Percent(s))
		}

		cells := BarCells(counts, BarWidth)
		var bar strings.Builder
		bar.WriteString("  ")
		for _, s := range models.AllStatuses {
			bar.WriteString(strings.Repeat(BarCell(s), cells[s]))
		}
		ew.printf("\n%s", bar.String())
	}
	ew.printf("\n%s\n\n", separator)

	ew.printf("%s\n", separator)
	ew.printf("%s\n", sectionHeader("--- DETAILED COMPARISON "))
	ew.printf("%s/\n", platform.ProjectName(report.BaseRoot))

	lines := make([]string, 0, len(records))
	for _, rec := range records {
		lines = append(lines, rec.Line()+" "+Glyph(rec.Status))
	}
	ew.printf("%s", strings.Join(lines, "\n"))
	ew.printf("\n%s\n", separator)

	return ew.err
}

func sectionHeader(title string) string {
	return title + strings.Repeat("-", reportWidth-len(title))
}

// jsonReport is the machine-readable report document
type jsonReport struct {
	ID          string             `json:"id"`
	Generated   time.Time          `json:"generated"`
	StartTime   time.Time          `json:"start_time"`
	Duration    string             `json:"duration"`
	DurationMs  int64              `json:"duration_ms"`
	Base        string             `json:"base"`
	Target      string             `json:"target"`
	Mode        models.ScanMode    `json:"mode"`
	Status      models.RunStatus   `json:"status"`
	Total       int                `json:"total"`
	Counts      models.Counts      `json:"counts"`
	Percentages map[string]float64 `json:"percentages"`
	Records     []models.Record    `json:"records"`
	Differences []models.Record    `json:"differences"`
}

// WriteJSON renders the report as an indented JSON document
func WriteJSON(w io.Writer, report *models.Report) error {
	counts := models.NewCounts()
	records := []models.Record{}
	differences := []models.Record{}
	if report.Result != nil {
		counts = report.Result.Counts
		if report.Result.Records != nil {
			records = report.Result.Records
		}
		if diffs := report.Result.Differences(); diffs != nil {
			differences = diffs
		}
	}

	percentages := make(map[string]float64, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		percentages[string(s)] = counts.Percent(s)
	}

	doc := jsonReport{
		ID:          report.ID,
		Generated:   report.EndTime,
		StartTime:   report.StartTime,
		Duration:    report.Duration.String(),
		DurationMs:  report.Duration.Milliseconds(),
		Base:        report.BaseRoot,
		Target:      report.TargetRoot,
		Mode:        report.Mode,
		Status:      report.Status(),
		Total:       counts.Total(),
		Counts:      counts,
		Percentages: percentages,
		Records:     records,
		Differences: differences,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(doc)
}

// errWriter keeps the first write error and skips later writes
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
