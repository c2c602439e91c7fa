package discard

import (
	"context"
	"testing"

	"recicleaqui/apperr"
	"recicleaqui/models"
	"recicleaqui/services/ownership"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeIdentity resolves identities from the same memStore the service uses.
type storeIdentity struct {
	store *memStore
}

func (i storeIdentity) ClientIDForUser(_ context.Context, userID string) (string, error) {
	for _, c := range i.store.clients {
		if c.UserID == userID {
			return c.ID, nil
		}
	}
	return "", apperr.NotFound("client not found for user")
}

func (i storeIdentity) CollectorIDForUser(_ context.Context, userID string) (string, error) {
	for _, c := range i.store.collectors {
		if c.UserID == userID {
			return c.ID, nil
		}
	}
	return "", apperr.NotFound("collector not found for user")
}

var (
	alice    = ownership.Actor{UserID: "u-alice", Role: models.RoleClient}
	bob      = ownership.Actor{UserID: "u-bob", Role: models.RoleClient}
	stranger = ownership.Actor{UserID: "u-nobody", Role: models.RoleClient}
	co1      = ownership.Actor{UserID: "u-co1", Role: models.RoleCollector}
	co2      = ownership.Actor{UserID: "u-co2", Role: models.RoleCollector}
	co3      = ownership.Actor{UserID: "u-co3", Role: models.RoleCollector}
	admin    = ownership.Actor{UserID: "u-admin", Role: models.RoleAdmin}
	noCol    = ownership.Actor{UserID: "u-nocol", Role: models.RoleCollector}
)

func newGuard() (*Guard, *memStore) {
	store := newMemStore()
	seedCollectors(store)
	store.clients["cl-alice"] = models.Client{ID: "cl-alice", UserID: "u-alice"}
	store.clients["cl-bob"] = models.Client{ID: "cl-bob", UserID: "u-bob"}
	return NewGuard(newService(store), storeIdentity{store: store}), store
}

func TestGuard_FullScenario(t *testing.T) {
	g, store := newGuard()
	ctx := context.Background()

	d, err := g.RegisterDiscardForUser(ctx, alice, RegisterDiscardInput{Mode: models.ModePickup, Lines: []string{"AZUL"}})
	require.NoError(t, err)
	assert.Equal(t, "cl-alice", d.ClientID)
	assert.Equal(t, models.DiscardPending, d.Status)

	pending, err := g.ListPendingPickupForUser(ctx, co1)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	o, err := g.CreateOfferForUser(ctx, co1, d.ID, []models.TimeSlot{morning})
	require.NoError(t, err)
	assert.Equal(t, "co1", o.CollectorID)
	assert.Equal(t, models.DiscardOffered, store.discard(d.ID).Status)

	_, err = g.AcceptOfferOwnedByUser(ctx, bob, o.ID, 0)
	require.ErrorIs(t, err, apperr.ErrForbidden)
	assert.Equal(t, models.OfferPending, store.offer(o.ID).Status)

	decision, err := g.AcceptOfferOwnedByUser(ctx, alice, o.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, models.DiscardScheduled, decision.Discard.Status)

	_, err = g.CompleteDiscardOwnedByCollector(ctx, co2, d.ID)
	require.ErrorIs(t, err, apperr.ErrForbidden)

	done, err := g.CompleteDiscardOwnedByCollector(ctx, co1, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DiscardCompleted, done.Status)

	_, err = g.CancelDiscardOwnedByUser(ctx, alice, d.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestGuard_RejectThenSecondCollector(t *testing.T) {
	g, store := newGuard()
	ctx := context.Background()

	d, err := g.RegisterDiscardForUser(ctx, alice, RegisterDiscardInput{Mode: models.ModePickup, Lines: []string{"AZUL"}})
	require.NoError(t, err)
	o, err := g.CreateOfferForUser(ctx, co1, d.ID, []models.TimeSlot{morning})
	require.NoError(t, err)

	_, err = g.RejectOfferOwnedByUser(ctx, bob, o.ID)
	require.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = g.RejectOfferOwnedByUser(ctx, alice, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferRejected, store.offer(o.ID).Status)
	assert.Equal(t, models.DiscardPending, store.discard(d.ID).Status)

	_, err = g.CreateOfferForUser(ctx, co2, d.ID, []models.TimeSlot{morning})
	require.NoError(t, err)

	_, err = g.RejectOfferOwnedByUser(ctx, alice, o.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestGuard_IdentityAndRoles(t *testing.T) {
	g, _ := newGuard()
	ctx := context.Background()
	in := RegisterDiscardInput{Mode: models.ModePickup, Lines: []string{"AZUL"}}

	_, err := g.RegisterDiscardForUser(ctx, ownership.Actor{}, in)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = g.RegisterDiscardForUser(ctx, stranger, in)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = g.RegisterDiscardForUser(ctx, co1, in)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = g.CreateOfferForUser(ctx, alice, "d1", []models.TimeSlot{morning})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = g.ListPendingPickupByDistanceForUser(ctx, ownership.Actor{UserID: "u-ghost", Role: models.RoleCollector}, 0)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = g.CancelDiscardOwnedByUser(ctx, alice, "ghost")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGuard_CompleteWithoutAcceptedOffer(t *testing.T) {
	g, _ := newGuard()
	ctx := context.Background()

	d, err := g.RegisterDiscardForUser(ctx, alice, RegisterDiscardInput{Mode: models.ModePickup, Lines: []string{"AZUL"}})
	require.NoError(t, err)
	_, err = g.CreateOfferForUser(ctx, co1, d.ID, []models.TimeSlot{morning})
	require.NoError(t, err)

	_, err = g.CompleteDiscardOwnedByCollector(ctx, co1, d.ID)
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "no accepted offer")
}

func TestGuard_GetDiscardVisibility(t *testing.T) {
	g, _ := newGuard()
	ctx := context.Background()

	d, err := g.RegisterDiscardForUser(ctx, alice, RegisterDiscardInput{Mode: models.ModePickup, Lines: []string{"AZUL"}})
	require.NoError(t, err)
	_, err = g.CreateOfferForUser(ctx, co1, d.ID, []models.TimeSlot{morning})
	require.NoError(t, err)

	tests := []struct {
		name    string
		actor   ownership.Actor
		wantErr error
	}{
		{name: "owning client", actor: alice},
		{name: "offering collector", actor: co1},
		{name: "admin", actor: admin},
		{name: "other client", actor: bob, wantErr: apperr.ErrForbidden},
		{name: "collector without offer", actor: co3, wantErr: apperr.ErrForbidden},
		{name: "anonymous", actor: ownership.Actor{}, wantErr: apperr.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details, err := g.GetDiscardForUser(ctx, tt.actor, d.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, d.ID, details.ID)
			assert.Len(t, details.Offers, 1)
		})
	}

	mine, err := g.ListDiscardsForUser(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := g.ListDiscardsForUser(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestGuard_UnresolvedIdentityIsUnauthorized(t *testing.T) {
	g, store := newGuard()
	ctx := context.Background()

	d, err := g.RegisterDiscardForUser(ctx, alice, RegisterDiscardInput{Mode: models.ModePickup, Lines: []string{"AZUL"}})
	require.NoError(t, err)
	o, err := g.CreateOfferForUser(ctx, co1, d.ID, []models.TimeSlot{morning})
	require.NoError(t, err)

	_, err = g.AcceptOfferOwnedByUser(ctx, stranger, o.ID, 0)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = g.RejectOfferOwnedByUser(ctx, stranger, o.ID)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = g.CancelDiscardOwnedByUser(ctx, stranger, d.ID)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	// No profile wins over a missing resource.
	_, err = g.CancelDiscardOwnedByUser(ctx, stranger, "ghost")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	assert.Equal(t, models.OfferPending, store.offer(o.ID).Status)
	assert.Equal(t, models.DiscardOffered, store.discard(d.ID).Status)

	_, err = g.AcceptOfferOwnedByUser(ctx, alice, o.ID, 0)
	require.NoError(t, err)

	_, err = g.CompleteDiscardOwnedByCollector(ctx, noCol, d.ID)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.Equal(t, models.DiscardScheduled, store.discard(d.ID).Status)
}
