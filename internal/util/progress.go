package util

import (
	"fmt"
	"time"
)

// BatchProgress tracks how far a sequential batch has come. Every finished
// item counts, whether it succeeded or not.
type BatchProgress struct {
	total   int
	done    int
	started time.Time
}

func NewBatchProgress(total int, started time.Time) *BatchProgress {
	return &BatchProgress{total: total, started: started}
}

// Step marks one more item as finished.
func (p *BatchProgress) Step() {
	if p.done < p.total {
		p.done++
	}
}

func (p *BatchProgress) Done() int {
	return p.done
}

// Fraction returns the progress as "done/total".
func (p *BatchProgress) Fraction() string {
	return fmt.Sprintf("%d/%d", p.done, p.total)
}

// Percentage returns the share of finished items, 0 for an empty batch.
func (p *BatchProgress) Percentage() int32 {
	if p.total <= 0 {
		return 0
	}
	return int32(int64(p.done) * 100 / int64(p.total))
}

// TimeRemaining extrapolates the average time per finished item to the rest
// of the batch. It is zero until the first item finishes.
func (p *BatchProgress) TimeRemaining(now time.Time) time.Duration {
	if p.done == 0 || p.done >= p.total {
		return 0
	}
	perItem := now.Sub(p.started) / time.Duration(p.done)
	return perItem * time.Duration(p.total-p.done)
}
