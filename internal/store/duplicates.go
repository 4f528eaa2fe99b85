package store

import (
	"github.com/jimezsa/jobfeed/internal/models"
)

// DuplicateGroup lists stored records that share a title.
type DuplicateGroup struct {
	Title   string                `json:"title"`
	Records []models.StoredRecord `json:"records"`
}

// DuplicateStats summarises a duplicate scan.
type DuplicateStats struct {
	Total      int `json:"total"`
	Untitled   int `json:"untitled"`
	Groups     int `json:"groups"`
	Redundant  int `json:"redundant"`
	UniqueKeys int `json:"unique_titles"`
}

// Duplicates groups records by exact title and returns the groups with more
// than one member, in order of first appearance. Concurrent runs against a
// store without a unique title constraint can leave such groups behind.
func Duplicates(records []models.StoredRecord) ([]DuplicateGroup, DuplicateStats) {
	stats := DuplicateStats{Total: len(records)}

	index := make(map[string]int, len(records))
	var all []DuplicateGroup
	for _, stored := range records {
		title := stored.Record.Title
		if title == "" {
			stats.Untitled++
			continue
		}
		if i, ok := index[title]; ok {
			all[i].Records = append(all[i].Records, stored)
			continue
		}
		index[title] = len(all)
		all = append(all, DuplicateGroup{Title: title, Records: []models.StoredRecord{stored}})
	}
	stats.UniqueKeys = len(all)

	var groups []DuplicateGroup
	for _, group := range all {
		if len(group.Records) < 2 {
			continue
		}
		groups = append(groups, group)
		stats.Redundant += len(group.Records) - 1
	}
	stats.Groups = len(groups)
	return groups, stats
}
