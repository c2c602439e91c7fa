package discard

import (
	"context"

	"recicleaqui/apperr"
	"recicleaqui/models"
	"recicleaqui/services/ownership"
)

// IdentityResolver maps authenticated users to their client and collector
// profiles.
type IdentityResolver interface {
	ClientIDForUser(ctx context.Context, userID string) (string, error)
	CollectorIDForUser(ctx context.Context, userID string) (string, error)
}

// Guard wraps a DiscardService with the ownership checks of the
// authenticated caller. The HTTP layer talks to Guard only.
type Guard struct {
	Service  DiscardService
	Identity IdentityResolver
}

func NewGuard(svc DiscardService, identity IdentityResolver) *Guard {
	return &Guard{Service: svc, Identity: identity}
}

func (g *Guard) discardPolicy() ownership.Policy {
	return ownership.Policy{
		Resource: "discard",
		Role:     models.RoleClient,
		Identity: g.Identity.ClientIDForUser,
		Owner:    g.discardClient,
	}
}

func (g *Guard) offerPolicy() ownership.Policy {
	return ownership.Policy{
		Resource: "offer",
		Role:     models.RoleClient,
		Identity: g.Identity.ClientIDForUser,
		Owner:    g.offerDiscardClient,
	}
}

func (g *Guard) completionPolicy() ownership.Policy {
	return ownership.Policy{
		Resource: "discard",
		Role:     models.RoleCollector,
		Identity: g.Identity.CollectorIDForUser,
		Owner:    g.acceptedCollector,
	}
}

func (g *Guard) discardClient(ctx context.Context, discardID string) (string, error) {
	d, err := g.Service.GetDiscard(ctx, discardID)
	if err != nil {
		return "", err
	}
	return d.ClientID, nil
}

// offerDiscardClient resolves the client of the discard an offer was made on.
func (g *Guard) offerDiscardClient(ctx context.Context, offerID string) (string, error) {
	o, err := g.Service.GetOffer(ctx, offerID)
	if err != nil {
		return "", err
	}
	return g.discardClient(ctx, o.DiscardID)
}

// acceptedCollector resolves the collector whose offer was accepted on a
// discard.
func (g *Guard) acceptedCollector(ctx context.Context, discardID string) (string, error) {
	o, err := g.Service.AcceptedOffer(ctx, discardID)
	if err != nil {
		return "", err
	}
	return o.CollectorID, nil
}

func (g *Guard) clientID(ctx context.Context, actor ownership.Actor) (string, error) {
	if err := ownership.RequireRole(actor, models.RoleClient); err != nil {
		return "", err
	}
	return ownership.ResolveIdentity(ctx, actor, g.Identity.ClientIDForUser)
}

func (g *Guard) collectorID(ctx context.Context, actor ownership.Actor) (string, error) {
	if err := ownership.RequireRole(actor, models.RoleCollector); err != nil {
		return "", err
	}
	return ownership.ResolveIdentity(ctx, actor, g.Identity.CollectorIDForUser)
}

func (g *Guard) RegisterDiscardForUser(ctx context.Context, actor ownership.Actor, in RegisterDiscardInput) (*models.Discard, error) {
	clientID, err := g.clientID(ctx, actor)
	if err != nil {
		return nil, err
	}
	return g.Service.RegisterDiscard(ctx, clientID, in)
}

func (g *Guard) CreateOfferForUser(ctx context.Context, actor ownership.Actor, discardID string, slots []models.TimeSlot) (*models.Offer, error) {
	collectorID, err := g.collectorID(ctx, actor)
	if err != nil {
		return nil, err
	}
	return g.Service.CreateOffer(ctx, collectorID, discardID, slots)
}

// AcceptOfferOwnedByUser lets the client owning the offer's discard accept it.
func (g *Guard) AcceptOfferOwnedByUser(ctx context.Context, actor ownership.Actor, offerID string, chosenSlotIndex int) (*OfferDecision, error) {
	if err := ownership.Authorize(ctx, actor, offerID, g.offerPolicy()); err != nil {
		return nil, err
	}
	return g.Service.AcceptOffer(ctx, offerID, chosenSlotIndex)
}

func (g *Guard) RejectOfferOwnedByUser(ctx context.Context, actor ownership.Actor, offerID string) (*OfferDecision, error) {
	if err := ownership.Authorize(ctx, actor, offerID, g.offerPolicy()); err != nil {
		return nil, err
	}
	return g.Service.RejectOffer(ctx, offerID)
}

func (g *Guard) CancelDiscardOwnedByUser(ctx context.Context, actor ownership.Actor, discardID string) (*models.Discard, error) {
	if err := ownership.Authorize(ctx, actor, discardID, g.discardPolicy()); err != nil {
		return nil, err
	}
	return g.Service.CancelDiscard(ctx, discardID)
}

// CompleteDiscardOwnedByCollector lets the collector whose offer was
// accepted mark the discard as completed.
func (g *Guard) CompleteDiscardOwnedByCollector(ctx context.Context, actor ownership.Actor, discardID string) (*models.Discard, error) {
	if err := ownership.Authorize(ctx, actor, discardID, g.completionPolicy()); err != nil {
		return nil, err
	}
	return g.Service.CompleteDiscard(ctx, discardID)
}

func (g *Guard) ListPendingPickupForUser(ctx context.Context, actor ownership.Actor) ([]models.Discard, error) {
	collectorID, err := g.collectorID(ctx, actor)
	if err != nil {
		return nil, err
	}
	return g.Service.ListPendingPickupDiscardsForCollector(ctx, collectorID)
}

func (g *Guard) ListPendingPickupByDistanceForUser(ctx context.Context, actor ownership.Actor, radiusKm float64) ([]PickupCandidate, error) {
	collectorID, err := g.collectorID(ctx, actor)
	if err != nil {
		return nil, err
	}
	return g.Service.ListPendingPickupDiscardsByDistance(ctx, collectorID, radiusKm)
}

func (g *Guard) ListDiscardsForUser(ctx context.Context, actor ownership.Actor) ([]models.Discard, error) {
	clientID, err := g.clientID(ctx, actor)
	if err != nil {
		return nil, err
	}
	return g.Service.ListClientDiscards(ctx, clientID)
}

// GetDiscardForUser returns a discard to its client, to any collector that
// made an offer on it, and to admins.
func (g *Guard) GetDiscardForUser(ctx context.Context, actor ownership.Actor, discardID string) (*DiscardDetails, error) {
	if err := ownership.RequireRole(actor, ""); err != nil {
		return nil, err
	}
	details, err := g.Service.GetDiscard(ctx, discardID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case models.RoleAdmin:
		return details, nil
	case models.RoleClient:
		clientID, err := ownership.ResolveIdentity(ctx, actor, g.Identity.ClientIDForUser)
		if err != nil {
			return nil, err
		}
		if details.ClientID == clientID {
			return details, nil
		}
	case models.RoleCollector:
		collectorID, err := ownership.ResolveIdentity(ctx, actor, g.Identity.CollectorIDForUser)
		if err != nil {
			return nil, err
		}
		for _, o := range details.Offers {
			if o.CollectorID == collectorID {
				return details, nil
			}
		}
	}
	return nil, apperr.Forbidden("access denied to discard " + discardID)
}
