package dedup

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"

	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// ListGroups clusters persisted pairs into duplicate groups. Each consumer
// appears in at most one group; the first pair to claim an ID wins, so groups
// are stable across calls as long as the pair set is.
func (s *Service) ListGroups(ctx context.Context, tenantID string, minScore int, limit int) (*models.DuplicateGroupListResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "dedup.Service.ListGroups")
	defer span.End()

	pairs, err := s.pairs.ListAboveScore(ctx, tenantID, minScore)
	if err != nil {
		return nil, err
	}

	// Adjacency over both directions; pairs store each link once.
	partners := make(map[string][]models.DuplicatePair)
	for _, p := range pairs {
		partners[p.ConsumerID] = append(partners[p.ConsumerID], p)
		partners[p.CandidateID] = append(partners[p.CandidateID], p)
	}

	processed := make(map[string]bool)
	groups := make([]models.DuplicateGroup, 0)

	for _, p := range pairs {
		if limit > 0 && len(groups) >= limit {
			break
		}
		if processed[p.ConsumerID] {
			continue
		}

		master, err := s.consumers.Get(ctx, tenantID, p.ConsumerID)
		if err != nil {
			// Merged or deleted since the pair was written.
			if httperror.IsHTTPError(err) && httperror.GetStatusCode(err) == http.StatusNotFound {
				processed[p.ConsumerID] = true
				continue
			}
			return nil, err
		}
		processed[p.ConsumerID] = true

		group := models.DuplicateGroup{Master: master.Record()}
		for _, link := range partners[p.ConsumerID] {
			other := link.CandidateID
			if other == p.ConsumerID {
				other = link.ConsumerID
			}
			if processed[other] {
				continue
			}

			dup, err := s.consumers.Get(ctx, tenantID, other)
			if err != nil {
				if httperror.IsHTTPError(err) && httperror.GetStatusCode(err) == http.StatusNotFound {
					processed[other] = true
					continue
				}
				return nil, err
			}
			processed[other] = true

			group.Duplicates = append(group.Duplicates, dup.Record())
			if link.SimilarityScore > group.MaxSimilarity {
				group.MaxSimilarity = link.SimilarityScore
			}
		}

		if len(group.Duplicates) == 0 {
			continue
		}
		group.GroupSize = len(group.Duplicates) + 1
		groups = append(groups, group)
	}

	return &models.DuplicateGroupListResponse{
		Groups:     groups,
		TotalCount: len(groups),
	}, nil
}
