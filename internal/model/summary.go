package model

import "time"

// LabelSummary is the export shape of a labeling session
type LabelSummary struct {
	Vocabulary  string        `json:"vocabulary" yaml:"vocabulary"`     // Vocabulary used for the categories
	ItemCount   int           `json:"item_count" yaml:"item_count"`     // Number of items in the session
	GeneratedAt time.Time     `json:"generated_at" yaml:"generated_at"` // When the summary was taken
	Buckets     []LabelBucket `json:"buckets" yaml:"buckets"`           // One bucket per category, in index order
}

// LabelBucket holds the item indices tagged with one category.
// Items keep assignment order and may contain duplicates.
type LabelBucket struct {
	Index int    `json:"index" yaml:"index"`
	Name  string `json:"name" yaml:"name"`
	Items []int  `json:"items" yaml:"items"`
}

// Bucket returns the bucket for a category index
func (s LabelSummary) Bucket(index int) (LabelBucket, bool) {
	for _, b := range s.Buckets {
		if b.Index == index {
			return b, true
		}
	}
	return LabelBucket{}, false
}

// Labeled returns the total number of assignments across all buckets
func (s LabelSummary) Labeled() int {
	total := 0
	for _, b := range s.Buckets {
		total += len(b.Items)
	}
	return total
}
