// Package events handles event emission for duplicate lifecycle changes
package events

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/aster/pkg/tracing"

	"github.com/Ramsey-B/aster/pkg/dedup"
	"github.com/Ramsey-B/aster/pkg/kafka"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/processor"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Event types published to the output topic
const (
	EventTypeDuplicateIdentified = "duplicate.identified"
	EventTypeDuplicateMerged     = "duplicate.merged"
	EventTypeBatchCompleted      = "batch.completed"
)

// Emitter publishes duplicate lifecycle events. Emission is best-effort:
// failures are logged, never propagated into the detection path.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

var (
	_ dedup.EventEmitter     = (*Emitter)(nil)
	_ processor.BatchEmitter = (*Emitter)(nil)
)

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitDuplicateIdentified emits an event for a newly scored high-confidence pair
func (e *Emitter) EmitDuplicateIdentified(ctx context.Context, tenantID string, pair models.DuplicatePair) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitDuplicateIdentified")
	defer span.End()

	event := &kafka.DuplicateEvent{
		EventType:       EventTypeDuplicateIdentified,
		TenantID:        tenantID,
		ConsumerID:      pair.ConsumerID,
		CandidateID:     pair.CandidateID,
		SimilarityScore: pair.SimilarityScore,
		SearchScore:     pair.SearchScore,
		ConfidenceLevel: pair.ConfidenceLevel,
	}

	if err := e.producer.PublishDuplicateEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit duplicate.identified event")
	}
}

// EmitDuplicateMerged emits an event after a duplicate is merged into a master
func (e *Emitter) EmitDuplicateMerged(ctx context.Context, tenantID, masterID, duplicateID string) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitDuplicateMerged")
	defer span.End()

	event := &kafka.DuplicateEvent{
		EventType:   EventTypeDuplicateMerged,
		TenantID:    tenantID,
		ConsumerID:  masterID,
		CandidateID: duplicateID,
	}

	if err := e.producer.PublishDuplicateEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit duplicate.merged event")
	}
}

// EmitBatchCompleted emits the summary of a full deduplication sweep
func (e *Emitter) EmitBatchCompleted(ctx context.Context, tenantID string, report *models.BatchReport) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitBatchCompleted")
	defer span.End()

	event := &kafka.DuplicateEvent{
		EventType: EventTypeBatchCompleted,
		TenantID:  tenantID,
		Meta:      report.Summary,
	}

	if err := e.producer.PublishDuplicateEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit batch.completed event")
	}
}
