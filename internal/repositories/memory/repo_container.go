package memory

import (
	portsrepo "github.com/SscSPs/statement_review_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires fresh in-memory repositories. Data is lost on restart.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		PendingRepo:     NewStagingRepository(),
		LedgerRepo:      NewLedgerRepository(),
		ReviewEventRepo: NewReviewEventRepository(),
	}
}
