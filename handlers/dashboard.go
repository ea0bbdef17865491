package handlers

import (
	"errors"
	"net/http"
	"os"
	"time"

	"funnel-analytics/dataset"
	"funnel-analytics/metrics"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type DashboardData struct {
	Filters   FilterParams
	Sites     []string
	Campaigns []string
	Table     *metrics.DisplayTable
	RowCount  int
}

type FilterParams struct {
	From     string
	To       string
	Site     string
	Campaign string
}

// Dashboard renders the endorsement & hiring summary by source and CEFR band.
func Dashboard(c *gin.Context) {
	ds, err := dataset.Load(dataset.File())
	if err != nil {
		renderLoadError(c, err)
		return
	}

	filter, params := parseFilter(c, ds)
	rows := ds.Filtered(filter)

	data := DashboardData{
		Filters:   params,
		Sites:     ds.Sites(),
		Campaigns: ds.Campaigns(),
		Table:     metrics.Outcome(rows).Display(),
		RowCount:  len(rows),
	}

	c.HTML(http.StatusOK, "dashboard.html", data)
}

// GetOutcome returns the formatted pivot as JSON.
func GetOutcome(c *gin.Context) {
	ds, err := dataset.Load(dataset.File())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filter, _ := parseFilter(c, ds)
	c.JSON(http.StatusOK, metrics.Outcome(ds.Filtered(filter)).Display())
}

// parseFilter reads the shared query params. Missing dates default to the
// last 60 days of invitation activity.
func parseFilter(c *gin.Context, ds *dataset.Dataset) (dataset.Filter, FilterParams) {
	params := FilterParams{
		From:     c.Query("from"),
		To:       c.Query("to"),
		Site:     c.Query("site"),
		Campaign: c.Query("campaign"),
	}

	f := dataset.Filter{Site: params.Site, Campaign: params.Campaign}
	_, max, ok := ds.InvitationRange()

	if params.From != "" {
		if t, err := time.Parse(dateLayout, params.From); err == nil {
			f.From = t
		}
	} else if ok {
		f.From = max.AddDate(0, 0, -60)
		params.From = f.From.Format(dateLayout)
	}

	var to time.Time
	if params.To != "" {
		if t, err := time.Parse(dateLayout, params.To); err == nil {
			to = t
		}
	} else if ok {
		to = max
		params.To = to.Format(dateLayout)
	}
	if !to.IsZero() {
		// End date is inclusive up to end of day
		f.To = to.AddDate(0, 0, 1)
	}

	return f, params
}

// renderLoadError surfaces a dataset problem instead of a partial table.
func renderLoadError(c *gin.Context, err error) {
	hint := "Check the DATA_FILE path and restart the server."
	if errors.Is(err, os.ErrNotExist) {
		hint = "Please ensure the data file is in the working directory of the server."
	}
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"error": err.Error(),
		"hint":  hint,
	})
}
