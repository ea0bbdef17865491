package handlers

import (
	"net/http"
	"strconv"
	"time"

	"funnel-analytics/database"
	"funnel-analytics/dataset"
	"funnel-analytics/models"

	"github.com/gin-gonic/gin"
)

// GetCandidates lists candidate rows from the store with optional filters.
func GetCandidates(c *gin.Context) {
	if _, err := dataset.Load(dataset.File()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	source := c.Query("source")
	level := c.Query("level")
	site := c.Query("site")
	campaign := c.Query("campaign")
	folder := c.Query("folder")
	dateFrom := c.Query("from")

	query := db.Model(&models.Candidate{})

	if source != "" {
		query = query.Where("source = ?", source)
	}
	if level != "" {
		query = query.Where("talkscore_cefr = ?", level)
	}
	if site != "" {
		query = query.Where("campaign_site = ?", site)
	}
	if campaign != "" {
		query = query.Where("campaign_title = ?", campaign)
	}
	if folder != "" {
		query = query.Where("folder_clean = ?", models.NormalizeFolder(folder))
	}
	if dateFrom != "" {
		if t, err := time.Parse(dateLayout, dateFrom); err == nil {
			query = query.Where("invitation_date >= ?", t)
		}
	}

	var candidates []models.Candidate
	err := query.Order("invitation_date DESC").Limit(limit).Find(&candidates).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, candidates)
}

// GetStats returns global counts over the whole export.
func GetStats(c *gin.Context) {
	if _, err := dataset.Load(dataset.File()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var rows int64
	var candidates int64
	var hired int64
	var endorsed int64
	var sources int64
	var levels int64

	// Total activity rows
	db.Model(&models.Candidate{}).Count(&rows)

	// Distinct invited candidates
	db.Model(&models.Candidate{}).Distinct("campaign_invitation_id").Count(&candidates)

	// Distinct hired candidates
	db.Model(&models.Candidate{}).
		Where("folder_clean = ?", "hired").
		Distinct("campaign_invitation_id").Count(&hired)

	// Distinct candidates whose destination folder is outside the system set
	db.Model(&models.Candidate{}).
		Where("folder_to_clean NOT IN ?", models.SystemFolderNames).
		Distinct("campaign_invitation_id").Count(&endorsed)

	// Distinct sources and CEFR bands
	db.Model(&models.Candidate{}).Where("source <> ''").Distinct("source").Count(&sources)
	db.Model(&models.Candidate{}).Where("talkscore_cefr <> ''").Distinct("talkscore_cefr").Count(&levels)

	stats := gin.H{
		"rows":       rows,
		"candidates": candidates,
		"hired":      hired,
		"endorsed":   endorsed,
		"sources":    sources,
		"levels":     levels,
	}

	c.JSON(http.StatusOK, stats)
}
