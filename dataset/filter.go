package dataset

import (
	"sort"
	"time"

	"funnel-analytics/models"
)

// Filter narrows the dataset before aggregation. From is inclusive and To
// exclusive; a zero bound disables that side of the date window.
type Filter struct {
	From     time.Time
	To       time.Time
	Site     string
	Campaign string
}

// Filtered returns the rows matching the filter. Rows without a valid
// invitation date are excluded whenever a From bound is set.
func (ds *Dataset) Filtered(f Filter) []models.Candidate {
	out := make([]models.Candidate, 0, len(ds.Candidates))
	for _, c := range ds.Candidates {
		if !f.From.IsZero() && c.InvitationDate.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !c.InvitationDate.Before(f.To) {
			continue
		}
		if f.Site != "" && c.CampaignSite != f.Site {
			continue
		}
		if f.Campaign != "" && c.CampaignTitle != f.Campaign {
			continue
		}
		out = append(out, c)
	}
	return out
}

// InvitationRange returns the earliest and latest invitation dates present,
// and false when the export has none.
func (ds *Dataset) InvitationRange() (time.Time, time.Time, bool) {
	var min, max time.Time
	for _, c := range ds.Candidates {
		if c.InvitationDate.IsZero() {
			continue
		}
		if min.IsZero() || c.InvitationDate.Before(min) {
			min = c.InvitationDate
		}
		if c.InvitationDate.After(max) {
			max = c.InvitationDate
		}
	}
	return min, max, !min.IsZero()
}

// Sites returns the distinct work locations, sorted, for the filter dropdown.
func (ds *Dataset) Sites() []string {
	return ds.distinct(func(c models.Candidate) string { return c.CampaignSite })
}

// Campaigns returns the distinct campaign titles, sorted.
func (ds *Dataset) Campaigns() []string {
	return ds.distinct(func(c models.Candidate) string { return c.CampaignTitle })
}

func (ds *Dataset) distinct(value func(models.Candidate) string) []string {
	seen := make(map[string]bool)
	for _, c := range ds.Candidates {
		if v := value(c); v != "" {
			seen[v] = true
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
