// Package processor handles incoming profile messages and runs duplicate
// detection over them. It is the ingestion layer: profiles land in the
// consumers table, get scored against their fuzzy candidates, and the scored
// pairs are persisted and announced.
package processor

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	consumerrepo "github.com/Ramsey-B/aster/internal/repositories/consumer"
	"github.com/Ramsey-B/aster/pkg/dedup"
	"github.com/Ramsey-B/aster/pkg/fingerprint"
	"github.com/Ramsey-B/aster/pkg/kafka"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// Processor handles profile message processing
type Processor struct {
	logger       ectologger.Logger
	consumerRepo *consumerrepo.Repository
	dedupService *dedup.Service
}

// NewProcessor creates a new profile message processor
func NewProcessor(
	logger ectologger.Logger,
	consumerRepo *consumerrepo.Repository,
	dedupService *dedup.Service,
) *Processor {
	return &Processor{
		logger:       logger,
		consumerRepo: consumerRepo,
		dedupService: dedupService,
	}
}

// ProcessMessage handles one ingestion message: upsert the profile, then run
// a detection pass for it. Deletions soft-delete the stored profile.
func (p *Processor) ProcessMessage(ctx context.Context, msg *kafka.IncomingMessage) error {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.ProcessMessage")
	defer span.End()

	profile := msg.Profile
	log := p.logger.WithContext(ctx).WithFields(map[string]any{
		"tenant_id":   profile.TenantID,
		"consumer_id": profile.ID,
	})

	if profile.Deleted {
		if err := p.consumerRepo.Delete(ctx, profile.TenantID, profile.ID); err != nil {
			// A replayed deletion for an already-removed record is fine.
			if httperror.IsHTTPError(err) && httperror.GetStatusCode(err) == http.StatusNotFound {
				log.Debug("Consumer already deleted")
				return nil
			}
			log.WithError(err).Error("Failed to delete consumer from ingestion")
			return err
		}
		log.Info("Deleted consumer from ingestion")
		return nil
	}

	consumer := &models.Consumer{
		ID:        profile.ID,
		TenantID:  profile.TenantID,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Email:     profile.Email,
		Phone:     profile.Phone,
		Address:   profile.Address,
	}

	existing, _ := p.consumerRepo.Get(ctx, profile.TenantID, profile.ID)

	stored, err := p.consumerRepo.Upsert(ctx, consumer)
	if err != nil {
		log.WithError(err).Error("Failed to upsert consumer from ingestion")
		return err
	}

	// Unchanged replays need no re-scoring.
	if existing != nil && !fingerprint.HasChanged(existing.Fingerprint, stored.Fingerprint) {
		log.Debug("Profile unchanged, skipping duplicate detection")
		return nil
	}

	if _, err := p.dedupService.FindDuplicates(ctx, profile.TenantID, stored.Record()); err != nil {
		log.WithError(err).Error("Duplicate detection failed for ingested profile")
		return err
	}

	return nil
}
