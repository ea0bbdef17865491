package metrics

import (
	"fmt"
	"time"

	"funnel-analytics/models"
)

// Pseudo-conditions used by transition definitions besides literal folder
// names.
const (
	condAny          = "any"
	condEmpty        = "empty"
	condClientFolder = "client folder"
)

type transition struct {
	title string
	from  string
	to    string
}

// The fixed funnel transitions reported on the conversions page.
var funnelTransitions = []transition{
	{"Application to Completed", condAny, "completed"},
	{"Application to Passed Prescreening", condAny, "passed mq"},
	{"Passed Prescreening to Talent Pool", "passed mq", "talent pool"},
	{"Application to Talent Pool", condAny, "talent pool"},
	{"Application to Client Folder", condAny, condClientFolder},
	{"Application to Shortlisted", condAny, "shortlisted"},
	{"Application to Hired", condAny, "hired"},
	{"Talent Pool to Client Folder", "talent pool", condClientFolder},
	{"Talent Pool to Shortlisted", "talent pool", "shortlisted"},
	{"Client Folder to Shortlisted", condClientFolder, "shortlisted"},
	{"Shortlisted to Hired", "shortlisted", "hired"},
	{"Shortlisted to Rejected", "shortlisted", "rejected"},
}

// TransitionMetric is one row of the folder movement summary.
type TransitionMetric struct {
	Metric     string `json:"metric"`
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
	AvgDays    string `json:"avg_days"`
}

// Conversions computes the folder movement summary over the filtered rows.
// Percentages are relative to the number of distinct invited candidates.
func Conversions(records []models.Candidate) []TransitionMetric {
	total := distinctIDs(records)
	out := make([]TransitionMetric, 0, len(funnelTransitions))
	for _, tr := range funnelTransitions {
		out = append(out, computeTransition(records, tr, total))
	}
	return out
}

func distinctIDs(records []models.Candidate) int {
	ids := make(map[string]bool)
	for _, c := range records {
		ids[c.CampaignInvitationID] = true
	}
	return len(ids)
}

func computeTransition(records []models.Candidate, tr transition, total int) TransitionMetric {
	// Candidates that made this transition at least once
	moved := make(map[string]bool)
	for _, c := range records {
		if matchFrom(c, tr.from) && matchTo(c, tr.to) {
			moved[c.CampaignInvitationID] = true
		}
	}

	m := TransitionMetric{Metric: tr.title, Count: len(moved)}
	if total > 0 {
		m.Percentage = fmt.Sprintf("%.2f", float64(m.Count)/float64(total)*100)
	} else {
		m.Percentage = "0.00"
	}
	if m.Count == 0 {
		m.AvgDays = "N/A"
		return m
	}

	// Earliest qualifying from-activity and latest qualifying to-activity
	// per candidate that made the transition.
	fromTimes := make(map[string]time.Time)
	toTimes := make(map[string]time.Time)
	for _, c := range records {
		if !moved[c.CampaignInvitationID] || c.ActivityCreatedAt.IsZero() {
			continue
		}
		id := c.CampaignInvitationID
		if matchFromTime(c, tr.from) {
			if t, ok := fromTimes[id]; !ok || c.ActivityCreatedAt.Before(t) {
				fromTimes[id] = c.ActivityCreatedAt
			}
		}
		if matchTo(c, tr.to) {
			if t, ok := toTimes[id]; !ok || c.ActivityCreatedAt.After(t) {
				toTimes[id] = c.ActivityCreatedAt
			}
		}
	}

	var totalDays, measured int
	for id := range moved {
		from, okFrom := fromTimes[id]
		to, okTo := toTimes[id]
		if okFrom && okTo && !to.Before(from) {
			totalDays += int(to.Sub(from).Hours() / 24)
			measured++
		}
	}
	if measured == 0 {
		m.AvgDays = "N/A"
	} else {
		m.AvgDays = fmt.Sprintf("%.1f", float64(totalDays)/float64(measured))
	}
	return m
}

func matchFrom(c models.Candidate, cond string) bool {
	switch cond {
	case condEmpty:
		return c.FolderFromClean == ""
	case condAny:
		return c.FolderFromClean != ""
	case condClientFolder:
		return c.FolderFromClean != "" && !models.IsSystemFolder(c.FolderFromClean)
	default:
		return c.FolderFromClean == cond
	}
}

func matchTo(c models.Candidate, cond string) bool {
	if cond == condClientFolder {
		return c.FolderToClean != "" && !models.IsSystemFolder(c.FolderToClean)
	}
	return c.FolderToClean == cond
}

// matchFromTime mirrors matchFrom except for "any", which anchors on the
// candidate's earliest inbox or blank activity when measuring elapsed time.
func matchFromTime(c models.Candidate, cond string) bool {
	if cond == condAny {
		return c.FolderFromClean == "inbox" || c.FolderFromClean == ""
	}
	return matchFrom(c, cond)
}
