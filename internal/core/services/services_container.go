package services

import (
	portsrepo "github.com/SscSPs/statement_review_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/statement_review_app/internal/core/ports/services"
	"github.com/SscSPs/statement_review_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// metrics may be nil.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, metrics ReviewMetrics) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Staging = NewStagingService(
		repos.PendingRepo,
		WithStagingEventReader(repos.ReviewEventRepo),
		WithStagingMetrics(metrics),
	)

	// The approval engine goes through the staging service so edits and transitions share its guards.
	container.Approval = NewApprovalService(
		container.Staging,
		repos.LedgerRepo,
		WithReviewEventRepository(repos.ReviewEventRepo),
		WithApprovalMetrics(metrics),
		WithBatchConcurrency(cfg.BatchConcurrency),
	)

	container.Ledger = NewLedgerService(repos.LedgerRepo)

	return container
}
