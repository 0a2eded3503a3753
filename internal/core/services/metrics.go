package services

import (
	"time"

	"github.com/SscSPs/statement_review_app/internal/core/domain"
)

// ReviewMetrics receives counters about staging and dispositions.
// platform/metrics provides the Prometheus implementation.
type ReviewMetrics interface {
	ObserveStaged(batches, records int)
	ObserveDisposition(action domain.ReviewAction, code string)
	ObserveBatch(action domain.BatchAction, result domain.BatchResult, elapsed time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) ObserveStaged(int, int)                                                {}
func (noopMetrics) ObserveDisposition(domain.ReviewAction, string)                        {}
func (noopMetrics) ObserveBatch(domain.BatchAction, domain.BatchResult, time.Duration) {}
