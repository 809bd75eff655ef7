package service

import (
	"context"
	"time"

	"github.com/yourname/bioclock/internal"
	"github.com/yourname/bioclock/internal/storage"
)

// DismissInsight flips the read flag. Dismissing an already-read or unknown
// insight is a no-op.
func DismissInsight(ctx context.Context, insightRepo storage.InsightRepository, insightID string) error {
	return insightRepo.MarkInsightRead(ctx, insightID)
}

// SummarizeInsights counts insights per type over the trailing 7 days.
func SummarizeInsights(insights []internal.CircadianInsight, now time.Time) (map[internal.InsightType]int, int) {
	cutoff := now.AddDate(0, 0, -7)
	counts := map[internal.InsightType]int{}
	unread := 0

	for _, in := range insights {
		if !in.CreatedAt.After(cutoff) {
			continue
		}
		counts[in.InsightType]++
		if !in.IsRead {
			unread++
		}
	}

	return counts, unread
}
