package metrics

import (
	"fmt"
	"sort"
	"strconv"

	"funnel-analytics/models"
)

// MetricOrder is the fixed column triple rendered under every source.
var MetricOrder = []string{"Hired", "Unique Endorsed", "Conversion Rate"}

// GroupKey identifies one aggregate cell.
type GroupKey struct {
	Source string
	Level  string // TALKSCORE_CEFR band
}

// OutcomeCell holds one (source, CEFR) aggregate. The Has flags distinguish a
// missing metric from a genuine zero; a metric absent on one side of the join
// must never collapse into zero before formatting.
type OutcomeCell struct {
	Hired       int
	HasHired    bool
	Endorsed    int
	HasEndorsed bool
	Rate        float64
	HasRate     bool
}

// OutcomeTable is the joined hired/endorsed summary before display
// formatting. Levels and Sources are sorted.
type OutcomeTable struct {
	Levels  []string
	Sources []string
	Cells   map[GroupKey]OutcomeCell
}

// Outcome computes the endorsement and hiring summary from the candidate
// rows. Hired counts candidates whose folder is exactly "hired"; endorsed
// counts candidates whose destination folder is not in the system set, which
// includes rows with a blank destination. Both are distinct counts over
// campaign invitation ids. Pure function of its input.
func Outcome(records []models.Candidate) *OutcomeTable {
	hired := distinctByGroup(records, func(c models.Candidate) bool {
		return c.FolderClean == "hired"
	})
	endorsed := distinctByGroup(records, func(c models.Candidate) bool {
		return !models.IsSystemFolder(c.FolderToClean)
	})

	// Full outer join on (source, level)
	cells := make(map[GroupKey]OutcomeCell)
	for key, n := range hired {
		cell := cells[key]
		cell.Hired = n
		cell.HasHired = true
		cells[key] = cell
	}
	for key, n := range endorsed {
		cell := cells[key]
		cell.Endorsed = n
		cell.HasEndorsed = true
		cells[key] = cell
	}

	// The rate is left undefined when either side is missing or the
	// division has a zero denominator.
	for key, cell := range cells {
		if cell.HasHired && cell.HasEndorsed && cell.Endorsed > 0 {
			cell.Rate = float64(cell.Hired) / float64(cell.Endorsed) * 100
			cell.HasRate = true
			cells[key] = cell
		}
	}

	levels := make(map[string]bool)
	sources := make(map[string]bool)
	for key := range cells {
		levels[key.Level] = true
		sources[key.Source] = true
	}

	return &OutcomeTable{
		Levels:  sortedKeys(levels),
		Sources: sortedKeys(sources),
		Cells:   cells,
	}
}

// distinctByGroup counts distinct campaign invitation ids per (source, level)
// among rows matching the predicate. Rows without a source or CEFR band are
// skipped; empty group keys are not reportable.
func distinctByGroup(records []models.Candidate, match func(models.Candidate) bool) map[GroupKey]int {
	seen := make(map[GroupKey]map[string]bool)
	for _, c := range records {
		if !match(c) || c.Source == "" || c.TalkScoreCEFR == "" {
			continue
		}
		key := GroupKey{Source: c.Source, Level: c.TalkScoreCEFR}
		ids := seen[key]
		if ids == nil {
			ids = make(map[string]bool)
			seen[key] = ids
		}
		ids[c.CampaignInvitationID] = true
	}

	counts := make(map[GroupKey]int, len(seen))
	for key, ids := range seen {
		counts[key] = len(ids)
	}
	return counts
}

// DisplayTable is the formatted pivot handed to the presentation layer: one
// row per CEFR level, the fixed metric triple under every source.
type DisplayTable struct {
	Levels  []string   `json:"levels"`
	Sources []string   `json:"sources"`
	Metrics []string   `json:"metrics"`
	Rows    [][]string `json:"rows"`
}

// Display formats the table for rendering. Every source gets all three
// columns even when one metric is entirely absent for it.
func (t *OutcomeTable) Display() *DisplayTable {
	d := &DisplayTable{
		Levels:  t.Levels,
		Sources: t.Sources,
		Metrics: MetricOrder,
		Rows:    make([][]string, 0, len(t.Levels)),
	}
	for _, level := range t.Levels {
		row := make([]string, 0, len(t.Sources)*len(MetricOrder))
		for _, source := range t.Sources {
			cell := t.Cells[GroupKey{Source: source, Level: level}]
			row = append(row,
				formatCount(cell.Hired, cell.HasHired),
				formatCount(cell.Endorsed, cell.HasEndorsed),
				formatRate(cell.Rate, cell.HasRate),
			)
		}
		d.Rows = append(d.Rows, row)
	}
	return d
}

// formatCount renders a missing count as empty. A zero also renders empty to
// declutter the table, so a true zero is indistinguishable from no data.
func formatCount(n int, ok bool) string {
	if !ok || n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// formatRate renders an undefined rate as empty, never "0%" or "inf%". A rate
// that rounds to 0% is blanked like the zero counts.
func formatRate(rate float64, ok bool) string {
	if !ok {
		return ""
	}
	s := fmt.Sprintf("%.0f%%", rate)
	if s == "0%" {
		return ""
	}
	return s
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
