package discard

import (
	"context"
	"time"

	"recicleaqui/apperr"
	"recicleaqui/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	slotDateLayout = "2006-01-02"
	slotTimeLayout = "15:04"
)

// validateSlots checks that every slot is complete and well formed. The
// error names the first offending slot and field.
func validateSlots(slots []models.TimeSlot) error {
	if len(slots) == 0 {
		return apperr.Validation("at least one proposed slot is required")
	}
	for i, slot := range slots {
		switch {
		case slot.Date == "":
			return apperr.Validationf("slot %d: date is required", i)
		case slot.Start == "":
			return apperr.Validationf("slot %d: start is required", i)
		case slot.End == "":
			return apperr.Validationf("slot %d: end is required", i)
		}
		if _, err := time.Parse(slotDateLayout, slot.Date); err != nil {
			return apperr.Validationf("slot %d: date must be YYYY-MM-DD", i)
		}
		start, err := time.Parse(slotTimeLayout, slot.Start)
		if err != nil {
			return apperr.Validationf("slot %d: start must be HH:MM", i)
		}
		end, err := time.Parse(slotTimeLayout, slot.End)
		if err != nil {
			return apperr.Validationf("slot %d: end must be HH:MM", i)
		}
		if !end.After(start) {
			return apperr.Validationf("slot %d: end must be after start", i)
		}
	}
	return nil
}

// CreateOffer records a collector's proposal for a PENDING pickup discard
// and moves the discard to OFFERED.
func (s *DefaultDiscardService) CreateOffer(ctx context.Context, collectorID, discardID string, slots []models.TimeSlot) (*models.Offer, error) {
	if err := validateSlots(slots); err != nil {
		return nil, err
	}

	var offer *models.Offer
	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		d, err := s.Discards.GetDiscard(ctx, discardID)
		if err != nil {
			return notFound(err, "discard")
		}
		if d.Mode != models.ModePickup {
			return apperr.Conflict("offers only for PICKUP discards")
		}
		if d.Status != models.DiscardPending {
			return apperr.Conflict("discard unavailable for offer")
		}

		collector, err := s.Collectors.GetCollector(ctx, collectorID)
		if err != nil {
			return notFound(err, "collector")
		}
		if missing, ok := d.Lines.MissingFrom(collector.AcceptedLines); !ok {
			return apperr.Validationf("collector does not accept line %s", missing).
				WithDetails(map[string]string{"line": string(missing)})
		}

		now := s.now()
		o := &models.Offer{
			ID:            uuid.New().String(),
			DiscardID:     d.ID,
			CollectorID:   collectorID,
			ProposedSlots: append([]models.TimeSlot(nil), slots...),
			Status:        models.OfferPending,
			CreatedAt:     now,
			EditedAt:      now,
		}
		if err := s.Offers.CreateOffer(ctx, o); err != nil {
			return err
		}

		d.Status = models.DiscardOffered
		if err := s.Discards.SaveDiscard(ctx, d); err != nil {
			return stale(err, "discard")
		}
		offer = o
		return nil
	})
	if err != nil {
		return nil, stale(err, "discard")
	}
	s.log().Info("offer created",
		zap.String("offerID", offer.ID),
		zap.String("discardID", discardID),
		zap.String("collectorID", collectorID))
	return offer, nil
}

// AcceptOffer accepts the slot at chosenSlotIndex and schedules the discard
// for it. Nothing changes when the index is out of range.
func (s *DefaultDiscardService) AcceptOffer(ctx context.Context, offerID string, chosenSlotIndex int) (*OfferDecision, error) {
	var out *OfferDecision
	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		o, err := s.Offers.GetOffer(ctx, offerID)
		if err != nil {
			return notFound(err, "offer")
		}
		if o.Status != models.OfferPending {
			return apperr.Conflict("offer is not pending")
		}
		if chosenSlotIndex < 0 || chosenSlotIndex >= len(o.ProposedSlots) {
			return apperr.Validation("invalid slot index")
		}

		d, err := s.Discards.GetDiscard(ctx, o.DiscardID)
		if err != nil {
			return notFound(err, "discard")
		}
		if d.Status != models.DiscardOffered {
			return apperr.Conflictf("discard in status %s cannot be scheduled", d.Status)
		}

		chosen := o.ProposedSlots[chosenSlotIndex]
		accepted, scheduled := chosen, chosen
		o.Status = models.OfferAccepted
		o.AcceptedSlot = &accepted
		if err := s.Offers.SaveOffer(ctx, o); err != nil {
			return stale(err, "offer")
		}
		d.Status = models.DiscardScheduled
		d.ScheduledSlot = &scheduled
		if err := s.Discards.SaveDiscard(ctx, d); err != nil {
			return stale(err, "discard")
		}
		out = &OfferDecision{Offer: o, Discard: d}
		return nil
	})
	if err != nil {
		return nil, stale(err, "offer")
	}
	s.log().Info("offer accepted",
		zap.String("offerID", offerID),
		zap.String("discardID", out.Discard.ID),
		zap.String("status", string(out.Discard.Status)))
	return out, nil
}

// RejectOffer rejects a pending offer and reopens its discard for new
// offers. A discard that already left OFFERED is not touched.
func (s *DefaultDiscardService) RejectOffer(ctx context.Context, offerID string) (*OfferDecision, error) {
	var out *OfferDecision
	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		o, err := s.Offers.GetOffer(ctx, offerID)
		if err != nil {
			return notFound(err, "offer")
		}
		if o.Status != models.OfferPending {
			return apperr.Conflict("offer is not pending")
		}
		d, err := s.Discards.GetDiscard(ctx, o.DiscardID)
		if err != nil {
			return notFound(err, "discard")
		}

		o.Status = models.OfferRejected
		if err := s.Offers.SaveOffer(ctx, o); err != nil {
			return stale(err, "offer")
		}
		if d.Status == models.DiscardOffered {
			d.Status = models.DiscardPending
			if err := s.Discards.SaveDiscard(ctx, d); err != nil {
				return stale(err, "discard")
			}
		}
		out = &OfferDecision{Offer: o, Discard: d}
		return nil
	})
	if err != nil {
		return nil, stale(err, "offer")
	}
	s.log().Info("offer rejected",
		zap.String("offerID", offerID),
		zap.String("discardID", out.Discard.ID),
		zap.String("status", string(out.Discard.Status)))
	return out, nil
}

func (s *DefaultDiscardService) GetOffer(ctx context.Context, offerID string) (*models.Offer, error) {
	o, err := s.Offers.GetOffer(ctx, offerID)
	if err != nil {
		return nil, notFound(err, "offer")
	}
	return o, nil
}

// AcceptedOffer returns the accepted offer of a discard.
func (s *DefaultDiscardService) AcceptedOffer(ctx context.Context, discardID string) (*models.Offer, error) {
	if _, err := s.Discards.GetDiscard(ctx, discardID); err != nil {
		return nil, notFound(err, "discard")
	}
	offers, err := s.Offers.ListOffers(ctx, models.OfferFilter{DiscardID: discardID, Status: models.OfferAccepted})
	if err != nil {
		return nil, err
	}
	if len(offers) == 0 {
		return nil, apperr.Validation("no accepted offer")
	}
	return &offers[0], nil
}

// ListOffers returns every offer made on a discard, oldest first.
func (s *DefaultDiscardService) ListOffers(ctx context.Context, discardID string) ([]models.Offer, error) {
	if _, err := s.Discards.GetDiscard(ctx, discardID); err != nil {
		return nil, notFound(err, "discard")
	}
	return s.Offers.ListOffers(ctx, models.OfferFilter{DiscardID: discardID})
}
