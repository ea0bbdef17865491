package handlers

import (
	"net/http"

	"funnel-analytics/dataset"
	"funnel-analytics/metrics"

	"github.com/gin-gonic/gin"
)

type ConversionsData struct {
	Filters   FilterParams
	Sites     []string
	Campaigns []string
	Summary   []metrics.TransitionMetric
	RowCount  int
}

// Conversions renders the folder movement summary page.
func Conversions(c *gin.Context) {
	ds, err := dataset.Load(dataset.File())
	if err != nil {
		renderLoadError(c, err)
		return
	}

	filter, params := parseFilter(c, ds)
	rows := ds.Filtered(filter)

	data := ConversionsData{
		Filters:   params,
		Sites:     ds.Sites(),
		Campaigns: ds.Campaigns(),
		Summary:   metrics.Conversions(rows),
		RowCount:  len(rows),
	}

	c.HTML(http.StatusOK, "conversions.html", data)
}

// GetConversions returns the folder movement summary as JSON.
func GetConversions(c *gin.Context) {
	ds, err := dataset.Load(dataset.File())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filter, _ := parseFilter(c, ds)
	c.JSON(http.StatusOK, metrics.Conversions(ds.Filtered(filter)))
}
