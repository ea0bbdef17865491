package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"funnel-analytics/database"
	"funnel-analytics/metrics"
	"funnel-analytics/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var setupOnce sync.Once

const fixtureCSV = `CAMPAIGNINVITATIONID,SOURCE,TALKSCORE_CEFR,FOLDER,FOLDER_FROM_TITLE,FOLDER_TO_TITLE,CAMPAIGNTITLE,CAMPAIGN_SITE,INVITATIONDT,ACTIVITY_CREATED_AT,INSERTEDDATE
1,LinkedIn,B2,hired,Shortlisted,Hired,Camp A,Manila,2024-01-05,2024-01-10 08:30:00,2024-01-05
1,LinkedIn,B2,interview,Talent Pool,Interviewing,Camp A,Manila,2024-01-05,2024-01-03 09:00:00,2024-01-05
2,LinkedIn,B2,interview,Inbox,Interviewing,Camp A,Manila,2024-01-06,2024-01-08 10:00:00,2024-01-06
3,Indeed,A2,prescreen,Inbox,Failed MQ,Camp B,Cebu,2024-01-07,2024-01-07 10:00:00,2024-01-07
`

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	setupOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		database.InitDB()
	})

	r := gin.New()
	r.LoadHTMLGlob("../templates/*")
	r.GET("/dashboard", Dashboard)
	r.GET("/conversions", Conversions)
	api := r.Group("/api")
	{
		api.GET("/outcome", GetOutcome)
		api.GET("/conversions", GetConversions)
		api.GET("/candidates", GetCandidates)
		api.GET("/stats", GetStats)
	}
	return r
}

// One fixture file shared by the happy-path tests, so the memoized dataset is
// ingested into the store exactly once per test binary.
var fixtureOnce sync.Once
var fixturePath string

func useFixture(t *testing.T) {
	t.Helper()
	fixtureOnce.Do(func() {
		dir, err := os.MkdirTemp("", "funnel-fixture")
		require.NoError(t, err)
		fixturePath = filepath.Join(dir, "metrics.csv")
		require.NoError(t, os.WriteFile(fixturePath, []byte(fixtureCSV), 0o644))
	})
	t.Setenv("DATA_FILE", fixturePath)
}

func get(r *gin.Engine, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestGetOutcome(t *testing.T) {
	r := newRouter(t)
	useFixture(t)

	w := get(r, "/api/outcome")
	require.Equal(t, http.StatusOK, w.Code)

	var table metrics.DisplayTable
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &table))

	// Indeed rows never hire or endorse, so only LinkedIn appears
	assert.Equal(t, []string{"LinkedIn"}, table.Sources)
	assert.Equal(t, []string{"B2"}, table.Levels)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"1", "2", "50%"}, table.Rows[0])
}

func TestGetConversions(t *testing.T) {
	r := newRouter(t)
	useFixture(t)

	w := get(r, "/api/conversions")
	require.Equal(t, http.StatusOK, w.Code)

	var summary []metrics.TransitionMetric
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	require.Len(t, summary, 12)

	for _, m := range summary {
		if m.Metric == "Application to Hired" {
			assert.Equal(t, 1, m.Count)
			assert.Equal(t, "33.33", m.Percentage)
			return
		}
	}
	t.Fatal("Application to Hired missing from summary")
}

func TestGetCandidatesAndStats(t *testing.T) {
	r := newRouter(t)
	useFixture(t)

	w := get(r, "/api/candidates?source=LinkedIn&limit=10")
	require.Equal(t, http.StatusOK, w.Code)

	var candidates []models.Candidate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &candidates))
	assert.Len(t, candidates, 3)
	for _, c := range candidates {
		assert.Equal(t, "LinkedIn", c.Source)
	}

	w = get(r, "/api/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		Rows       int64 `json:"rows"`
		Candidates int64 `json:"candidates"`
		Hired      int64 `json:"hired"`
		Endorsed   int64 `json:"endorsed"`
		Sources    int64 `json:"sources"`
		Levels     int64 `json:"levels"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(4), stats.Rows)
	assert.Equal(t, int64(3), stats.Candidates)
	assert.Equal(t, int64(1), stats.Hired)
	assert.Equal(t, int64(2), stats.Endorsed)
	assert.Equal(t, int64(2), stats.Sources)
	assert.Equal(t, int64(2), stats.Levels)
}

func TestDashboardRendersPivot(t *testing.T) {
	r := newRouter(t)
	useFixture(t)

	w := get(r, "/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Outcome of Endorsed Candidates")
	assert.Contains(t, body, "LinkedIn")
	assert.Contains(t, body, "50%")

	w = get(r, "/conversions")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Folder Movement Summary")
}

func TestMissingDataFile(t *testing.T) {
	r := newRouter(t)
	missing := filepath.Join(t.TempDir(), "nope.csv")
	t.Setenv("DATA_FILE", missing)

	w := get(r, "/api/outcome")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "nope.csv")
	assert.Contains(t, w.Body.String(), "not found")

	// The page handler renders the diagnostic instead of a partial table
	w = get(r, "/dashboard")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "nope.csv")
	assert.Contains(t, w.Body.String(), "ensure the data file")
}
