package discard

import (
	"context"
	"sort"

	"recicleaqui/apperr"
	"recicleaqui/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegisterDiscard validates and persists a new PENDING discard for clientID.
func (s *DefaultDiscardService) RegisterDiscard(ctx context.Context, clientID string, in RegisterDiscardInput) (*models.Discard, error) {
	if !in.Mode.Valid() {
		return nil, apperr.Validationf("invalid discard mode %q", in.Mode)
	}
	lines, err := models.ParseMaterialLines(in.Lines)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}

	switch in.Mode {
	case models.ModeCollectionPoint:
		if in.CollectionPointID == "" {
			return nil, apperr.Validation("collectionPointId is required for COLLECTION_POINT discards")
		}
		point, err := s.Collectors.GetCollectionPoint(ctx, in.CollectionPointID)
		if err != nil {
			return nil, notFound(err, "collection point")
		}
		if !point.IsActive {
			return nil, apperr.NotFound("collection point not found or inactive")
		}
		if missing, ok := lines.MissingFrom(point.AcceptedLines); !ok {
			return nil, apperr.Validationf("collection point does not accept line %s", missing).
				WithDetails(map[string]string{"line": string(missing)})
		}
	case models.ModePickup:
		if in.CollectionPointID != "" {
			return nil, apperr.Validation("collectionPointId must be empty for PICKUP discards")
		}
	}

	now := s.now()
	d := &models.Discard{
		ID:                uuid.New().String(),
		ClientID:          clientID,
		Mode:              in.Mode,
		Lines:             lines,
		CollectionPointID: in.CollectionPointID,
		Description:       in.Description,
		Status:            models.DiscardPending,
		CreatedAt:         now,
		EditedAt:          now,
	}
	if err := s.Discards.CreateDiscard(ctx, d); err != nil {
		return nil, err
	}
	s.log().Info("discard registered",
		zap.String("discardID", d.ID),
		zap.String("clientID", clientID),
		zap.String("mode", string(d.Mode)))
	return d, nil
}

// GetDiscard returns the discard together with its offers.
func (s *DefaultDiscardService) GetDiscard(ctx context.Context, discardID string) (*DiscardDetails, error) {
	d, err := s.Discards.GetDiscard(ctx, discardID)
	if err != nil {
		return nil, notFound(err, "discard")
	}
	offers, err := s.Offers.ListOffers(ctx, models.OfferFilter{DiscardID: discardID})
	if err != nil {
		return nil, err
	}
	return &DiscardDetails{Discard: *d, Offers: offers}, nil
}

// ListClientDiscards returns the client's discards, newest first.
func (s *DefaultDiscardService) ListClientDiscards(ctx context.Context, clientID string) ([]models.Discard, error) {
	discards, err := s.Discards.ListDiscards(ctx, models.DiscardFilter{ClientID: clientID})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(discards, func(i, j int) bool {
		return discards[i].CreatedAt.After(discards[j].CreatedAt)
	})
	return discards, nil
}

// CancelDiscard moves a discard to CANCELLED and rejects the offers still
// waiting for a decision.
func (s *DefaultDiscardService) CancelDiscard(ctx context.Context, discardID string) (*models.Discard, error) {
	var out *models.Discard
	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		d, err := s.Discards.GetDiscard(ctx, discardID)
		if err != nil {
			return notFound(err, "discard")
		}
		if d.Status.IsTerminal() {
			if d.Status == models.DiscardCancelled {
				return apperr.Conflict("discard already cancelled")
			}
			return apperr.Conflict("cannot cancel a completed discard")
		}
		if err := s.rejectPendingOffers(ctx, discardID); err != nil {
			return err
		}

		d.Status = models.DiscardCancelled
		if err := s.Discards.SaveDiscard(ctx, d); err != nil {
			return stale(err, "discard")
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, stale(err, "discard")
	}
	s.log().Info("discard cancelled", zap.String("discardID", discardID))
	return out, nil
}

// CompleteDiscard moves a discard to COMPLETED. PENDING and OFFERED
// discards may be completed directly; their pending offers are rejected.
func (s *DefaultDiscardService) CompleteDiscard(ctx context.Context, discardID string) (*models.Discard, error) {
	var out *models.Discard
	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		d, err := s.Discards.GetDiscard(ctx, discardID)
		if err != nil {
			return notFound(err, "discard")
		}
		if d.Status.IsTerminal() {
			return apperr.Conflictf("cannot complete a discard in status %s", d.Status)
		}
		if err := s.rejectPendingOffers(ctx, discardID); err != nil {
			return err
		}

		d.Status = models.DiscardCompleted
		if err := s.Discards.SaveDiscard(ctx, d); err != nil {
			return stale(err, "discard")
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, stale(err, "discard")
	}
	s.log().Info("discard completed", zap.String("discardID", discardID))
	return out, nil
}

func (s *DefaultDiscardService) rejectPendingOffers(ctx context.Context, discardID string) error {
	pending, err := s.Offers.ListOffers(ctx, models.OfferFilter{DiscardID: discardID, Status: models.OfferPending})
	if err != nil {
		return err
	}
	for i := range pending {
		pending[i].Status = models.OfferRejected
		if err := s.Offers.SaveOffer(ctx, &pending[i]); err != nil {
			return stale(err, "offer")
		}
	}
	return nil
}
