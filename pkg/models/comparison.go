package models

import "sort"

// Status is the three-way classification of a single compared item
type Status string

const (
	// StatusIdentical indicates the item exists in the target with the same content
	// (or, for directories, simply exists)
	StatusIdentical Status = "identical"
	// StatusModified indicates the file exists in the target but its content differs
	StatusModified Status = "modified"
	// StatusMissing indicates the item does not exist in the target
	StatusMissing Status = "missing"
)

// AllStatuses lists every status in report order
var AllStatuses = []Status{StatusIdentical, StatusModified, StatusMissing}

// Tree drawing glyphs used in record prefixes and connectors
const (
	ConnectorMiddle = "├── "
	ConnectorLast   = "└── "
	PrefixContinue  = "│   "
	PrefixBlank     = "    "
)

// Record is one rendered line of the comparison tree
type Record struct {
	// Prefix is the indentation accumulated from ancestor levels
	Prefix string `json:"prefix"`

	// Connector is the branch glyph (last sibling or not)
	Connector string `json:"connector"`

	// Name is the base name of the entry
	Name string `json:"name"`

	// Status is the classification against the target tree
	Status Status `json:"status"`

	// RelPath is the slash-normalized path from the base root
	RelPath string `json:"path"`

	// IsDir indicates a directory record
	IsDir bool `json:"is_dir"`

	// Depth is 0 for children of the root
	Depth int `json:"depth"`

	// Reason explains a modified status, when known
	Reason string `json:"reason,omitempty"`
}

// Line renders the record without its status marker
func (r Record) Line() string {
	return r.Prefix + r.Connector + r.Name
}

// Counts maps every status to the number of records carrying it
type Counts map[Status]int

// NewCounts returns counts with every status present at zero
func NewCounts() Counts {
	c := make(Counts, len(AllStatuses))
	for _, s := range AllStatuses {
		c[s] = 0
	}
	return c
}

// Total returns the number of counted records
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Percent returns the share of status s in percent, 0 when nothing was counted
func (c Counts) Percent(s Status) float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c[s]) / float64(total) * 100
}

// HasDrift reports whether any item is modified or missing
func (c Counts) HasDrift() bool {
	return c[StatusModified] > 0 || c[StatusMissing] > 0
}

// Result is the complete outcome of a tree comparison
type Result struct {
	Records []Record `json:"records"`
	Counts  Counts   `json:"counts"`
}

// Differences returns the records that are not identical, sorted by path
func (r *Result) Differences() []Record {
	var diffs []Record
	for _, rec := range r.Records {
		if rec.Status != StatusIdentical {
			diffs = append(diffs, rec)
		}
	}
	sort.SliceStable(diffs, func(i, j int) bool {
		return diffs[i].RelPath < diffs[j].RelPath
	})
	return diffs
}
