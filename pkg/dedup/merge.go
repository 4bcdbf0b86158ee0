package dedup

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"

	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// Merge copies the selected profile fields from the duplicate onto the master
// record, retires the duplicate, and updates the pair's review status. The
// master's remaining fields are untouched; an empty field list keeps the
// master exactly as it is.
func (s *Service) Merge(ctx context.Context, tenantID string, req models.MergeRequest) (*models.MergeResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "dedup.Service.Merge")
	defer span.End()

	if req.MasterID == req.DuplicateID {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "master and duplicate must be different records")
	}

	master, err := s.consumers.Get(ctx, tenantID, req.MasterID)
	if err != nil {
		return nil, err
	}
	duplicate, err := s.consumers.Get(ctx, tenantID, req.DuplicateID)
	if err != nil {
		return nil, err
	}

	merged := applyFieldSelection(master, duplicate, req.Fields)
	if _, err := s.consumers.Update(ctx, merged); err != nil {
		return nil, err
	}

	if err := s.consumers.MarkDuplicate(ctx, tenantID, duplicate.ID, master.ID); err != nil {
		return nil, err
	}
	if err := s.consumers.Delete(ctx, tenantID, duplicate.ID); err != nil {
		return nil, err
	}

	if pair, err := s.pairs.GetByConsumers(ctx, tenantID, master.ID, duplicate.ID); err == nil {
		if err := s.pairs.UpdateStatus(ctx, tenantID, pair.ID, models.DuplicatePairStatusMerged, ""); err != nil {
			s.log.WithContext(ctx).WithError(err).Warn("Failed to update merged pair status")
		}
	}

	if s.graph != nil {
		if err := s.graph.CollapseMerge(ctx, tenantID, master.ID, duplicate.ID); err != nil {
			s.log.WithContext(ctx).WithError(err).Warn("Failed to collapse merge in graph")
		}
	}
	if s.emitter != nil {
		s.emitter.EmitDuplicateMerged(ctx, tenantID, master.ID, duplicate.ID)
	}

	s.log.WithContext(ctx).WithFields(map[string]any{
		"master_id":    master.ID,
		"duplicate_id": duplicate.ID,
		"fields":       req.Fields,
	}).Info("Merged duplicate record")

	return &models.MergeResponse{
		Master:       *merged,
		MergedFields: req.Fields,
	}, nil
}

// applyFieldSelection overlays the chosen duplicate fields onto a copy of the
// master record.
func applyFieldSelection(master, duplicate *models.Consumer, fields []string) *models.Consumer {
	merged := *master
	for _, field := range fields {
		switch field {
		case "first_name":
			merged.FirstName = duplicate.FirstName
		case "last_name":
			merged.LastName = duplicate.LastName
		case "email":
			merged.Email = duplicate.Email
		case "phone":
			merged.Phone = duplicate.Phone
		case "address":
			merged.Address = duplicate.Address
		}
	}
	return &merged
}
