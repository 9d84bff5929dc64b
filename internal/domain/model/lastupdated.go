package model

import "time"

// LastUpdatedTimeData describes the most recent commit touching a content file.
type LastUpdatedTimeData struct {
	LastUpdatedTime time.Time
	LatestCommitURL string
}
