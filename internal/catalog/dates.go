package catalog

import (
	"fmt"
	"sort"
	"time"

	"github.com/jinzhu/now"

	"github.com/geocine/bookcat/internal/models"
)

// recentlyAddedRangeDays is the fixed range shown before the month buckets
const recentlyAddedRangeDays = 30

// readRanges are the day ranges shown at the top of the recently-read
// section, newest first
var readRanges = []struct {
	days  int
	label string
}{
	{1, "Today"},
	{7, "Past 7 days"},
	{30, "Past 30 days"},
}

// GroupByDateAdded buckets books by Timestamp: one "Last 30 days" range,
// then calendar months, newest first.
func GroupByDateAdded(books []*models.Book, today time.Time) []models.DateBucket {
	sorted := append([]*models.Book{}, books...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	cutoff := today.AddDate(0, 0, -recentlyAddedRangeDays)
	rangeBucket := models.DateBucket{
		Label:  fmt.Sprintf("Last %d days", recentlyAddedRangeDays),
		Anchor: fmt.Sprintf("bda_%d", recentlyAddedRangeDays),
	}

	var buckets []models.DateBucket
	for _, book := range sorted {
		if book.Timestamp.IsZero() {
			continue
		}
		if book.Timestamp.After(cutoff) {
			rangeBucket.Books = append(rangeBucket.Books, book)
			continue
		}

		month := now.With(book.Timestamp).BeginningOfMonth()
		anchor := fmt.Sprintf("bda_%d-%d", month.Year(), int(month.Month()))
		if len(buckets) == 0 || buckets[len(buckets)-1].Anchor != anchor {
			buckets = append(buckets, models.DateBucket{
				Label:  month.Format("January 2006"),
				Anchor: anchor,
			})
		}
		last := &buckets[len(buckets)-1]
		last.Books = append(last.Books, book)
	}

	if len(rangeBucket.Books) > 0 {
		buckets = append([]models.DateBucket{rangeBucket}, buckets...)
	}
	return buckets
}

// GroupByDateRead buckets books by LastRead: day ranges first, then
// calendar months, newest first. Books never read are skipped.
func GroupByDateRead(books []*models.Book, today time.Time) []models.DateBucket {
	var read []*models.Book
	for _, book := range books {
		if !book.LastRead.IsZero() {
			read = append(read, book)
		}
	}
	sort.SliceStable(read, func(i, j int) bool {
		return read[i].LastRead.After(read[j].LastRead)
	})

	ranges := make([]models.DateBucket, len(readRanges))
	for i, r := range readRanges {
		ranges[i] = models.DateBucket{
			Label:  r.label,
			Anchor: fmt.Sprintf("bdr_%d", r.days),
		}
	}

	var monthBuckets []models.DateBucket
	for _, book := range read {
		if i, ok := readRangeIndex(book.LastRead, today); ok {
			ranges[i].Books = append(ranges[i].Books, book)
			continue
		}

		month := now.With(book.LastRead).BeginningOfMonth()
		anchor := fmt.Sprintf("bdr_%d-%d", month.Year(), int(month.Month()))
		if len(monthBuckets) == 0 || monthBuckets[len(monthBuckets)-1].Anchor != anchor {
			monthBuckets = append(monthBuckets, models.DateBucket{
				Label:  month.Format("January 2006"),
				Anchor: anchor,
			})
		}
		last := &monthBuckets[len(monthBuckets)-1]
		last.Books = append(last.Books, book)
	}

	var buckets []models.DateBucket
	for _, b := range ranges {
		if len(b.Books) > 0 {
			buckets = append(buckets, b)
		}
	}
	return append(buckets, monthBuckets...)
}

// readRangeIndex finds the tightest day range containing the date
func readRangeIndex(read, today time.Time) (int, bool) {
	for i, r := range readRanges {
		if read.After(today.AddDate(0, 0, -r.days)) {
			return i, true
		}
	}
	return 0, false
}
