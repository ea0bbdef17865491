package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"funnel-analytics/database"
	"funnel-analytics/models"
)

// DefaultFile is the metrics export the dashboards read when DATA_FILE is
// not set.
const DefaultFile = "SOURCING & EARLY STAGE METRICS.csv"

// File returns the path of the metrics export.
func File() string {
	if path := os.Getenv("DATA_FILE"); path != "" {
		return path
	}
	return DefaultFile
}

// Dataset is the parsed contents of one metrics export, loaded once per
// process and reused across page loads.
type Dataset struct {
	Path       string
	Candidates []models.Candidate
}

var (
	mu    sync.Mutex
	cache = make(map[string]*Dataset)
)

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
	"1/2/2006 15:04",
	"1/2/2006",
}

var requiredColumns = []string{
	"SOURCE", "TALKSCORE_CEFR", "FOLDER", "FOLDER_TO_TITLE", "CAMPAIGNINVITATIONID",
}

// Load reads the CSV at path, memoized per path for the lifetime of the
// process. The export is treated as immutable, so the cache is never
// invalidated. On first successful load the rows are also written to the
// database for the browsing API.
func Load(path string) (*Dataset, error) {
	mu.Lock()
	defer mu.Unlock()

	if ds, ok := cache[path]; ok {
		return ds, nil
	}

	candidates, err := parseFile(path)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Path: path, Candidates: candidates}
	cache[path] = ds

	if db := database.GetDB(); db != nil && len(candidates) > 0 {
		if err := db.CreateInBatches(&candidates, 500).Error; err != nil {
			log.Println("Failed to store candidates:", err)
		}
	}

	log.Printf("Loaded %d candidate rows from %s", len(candidates), path)
	return ds, nil
}

func parseFile(path string) ([]models.Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("data file %q was not found: %w", path, err)
		}
		return nil, fmt.Errorf("open data file %q: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads candidate rows from a conventional comma-separated export with
// a header row. Rows without a campaign invitation id are dropped, since they
// cannot be counted.
func Parse(r io.Reader) ([]models.Candidate, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("data file is missing column %s", name)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var out []models.Candidate
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		c := models.Candidate{
			CampaignInvitationID: strings.TrimSpace(field(row, "CAMPAIGNINVITATIONID")),
			Source:               strings.TrimSpace(field(row, "SOURCE")),
			TalkScoreCEFR:        strings.TrimSpace(field(row, "TALKSCORE_CEFR")),
			Folder:               field(row, "FOLDER"),
			FolderFromTitle:      field(row, "FOLDER_FROM_TITLE"),
			FolderToTitle:        field(row, "FOLDER_TO_TITLE"),
			CampaignTitle:        strings.TrimSpace(field(row, "CAMPAIGNTITLE")),
			CampaignSite:         strings.TrimSpace(field(row, "CAMPAIGN_SITE")),
			InvitationDate:       parseDate(field(row, "INVITATIONDT")),
			ActivityCreatedAt:    parseDate(field(row, "ACTIVITY_CREATED_AT")),
			InsertedDate:         parseDate(field(row, "INSERTEDDATE")),
		}
		if c.CampaignInvitationID == "" {
			continue
		}

		c.Normalize()
		out = append(out, c)
	}

	return out, nil
}

// parseDate is lenient: an unparseable date becomes the zero time and is
// treated as absent downstream.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
