package models

import (
	"strings"
	"time"
)

// Candidate is one row of the sourcing & early stage metrics export. A
// candidate can appear in several rows (one per folder-movement activity);
// CampaignInvitationID is the deduplication key.
type Candidate struct {
	ID                   uint      `json:"-" gorm:"primaryKey"`
	CampaignInvitationID string    `json:"campaign_invitation_id" gorm:"index"`
	Source               string    `json:"source"`
	TalkScoreCEFR        string    `json:"talkscore_cefr" gorm:"column:talkscore_cefr"`
	Folder               string    `json:"folder"`
	FolderFromTitle      string    `json:"folder_from_title"`
	FolderToTitle        string    `json:"folder_to_title"`
	CampaignTitle        string    `json:"campaign_title"`
	CampaignSite         string    `json:"campaign_site"`
	InvitationDate       time.Time `json:"invitation_date"`
	ActivityCreatedAt    time.Time `json:"activity_created_at"`
	InsertedDate         time.Time `json:"inserted_date"`

	// Normalized folder titles, filled at load time
	FolderClean     string `json:"-" gorm:"index"`
	FolderFromClean string `json:"-"`
	FolderToClean   string `json:"-"`
}

// SystemFolderNames are the fixed pipeline stages that do not count as
// endorsements: a candidate is endorsed only when moved to a folder outside
// this set.
var SystemFolderNames = []string{
	"inbox", "unresponsive", "completed", "unresponsive talkscore", "passed mq", "failed mq",
	"talkscore retake", "unresponsive talkscore retake", "failed talkscore", "cold leads",
	"cold leads talkscore", "cold leads talkscore retake", "on hold", "rejected",
	"talent pool", "shortlisted", "hired",
}

var systemFolders = make(map[string]bool, len(SystemFolderNames))

func init() {
	for _, name := range SystemFolderNames {
		systemFolders[name] = true
	}
}

// NormalizeFolder prepares a folder title for matching.
func NormalizeFolder(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// IsSystemFolder reports whether the title is one of the fixed system stages.
func IsSystemFolder(title string) bool {
	return systemFolders[NormalizeFolder(title)]
}

// Normalize fills the pre-normalized folder columns.
func (c *Candidate) Normalize() {
	c.FolderClean = NormalizeFolder(c.Folder)
	c.FolderFromClean = NormalizeFolder(c.FolderFromTitle)
	c.FolderToClean = NormalizeFolder(c.FolderToTitle)
}
