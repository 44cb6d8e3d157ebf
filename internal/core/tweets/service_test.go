package tweets_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Vidtube/internal/core/feeds"
	"Vidtube/internal/core/identity"
	"Vidtube/internal/core/reactions"
	"Vidtube/internal/core/targets"
	"Vidtube/internal/core/tweets"
	"Vidtube/internal/core/users"
	"Vidtube/internal/db/memstore"
	"Vidtube/internal/errs"
)

func setup(t *testing.T) (tweets.Service, reactions.Service, *memstore.Store, uuid.UUID) {
	t.Helper()
	store := memstore.New()
	owner := uuid.New()
	require.NoError(t, store.Users().Create(context.Background(), &users.User{ID: owner, Username: "poster", Email: "poster@example.com"}))

	rx := reactions.NewService(store.Reactions(), nil, nil, reactions.Options{})
	svc := tweets.NewService(store.Tweets(), users.NewService(store.Users(), nil, 0, nil), rx, 0, nil)
	return svc, rx, store, owner
}

func as(actor uuid.UUID) context.Context {
	return identity.WithActor(context.Background(), actor)
}

func TestCreate_ContentLimits(t *testing.T) {
	svc, _, _, owner := setup(t)

	tw, err := svc.Create(as(owner), "hello world")
	require.NoError(t, err)
	assert.Equal(t, owner, tw.Owner)

	// Graphemes, not bytes: 280 flags fit.
	_, err = svc.Create(as(owner), strings.Repeat("🇳🇱", 280))
	require.NoError(t, err)

	_, err = svc.Create(as(owner), strings.Repeat("a", 281))
	assert.True(t, errs.IsValidation(err))

	_, err = svc.Create(as(owner), "")
	assert.True(t, errs.IsValidation(err))
}

func TestUpdateDelete_Ownership(t *testing.T) {
	svc, _, store, owner := setup(t)
	tw, err := svc.Create(as(owner), "mine")
	require.NoError(t, err)

	_, err = svc.Update(as(uuid.New()), tw.ID, "theirs")
	assert.True(t, errs.IsAuthorization(err))

	stored, err := store.Tweets().GetByID(context.Background(), tw.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", stored.Content)

	updated, err := svc.Update(as(owner), tw.ID, "still mine")
	require.NoError(t, err)
	assert.Equal(t, "still mine", updated.Content)

	assert.True(t, errs.IsAuthorization(svc.Delete(as(uuid.New()), tw.ID)))
	require.NoError(t, svc.Delete(as(owner), tw.ID))
	assert.True(t, errs.IsNotFound(svc.Delete(as(owner), tw.ID)))
}

func TestListForOwner(t *testing.T) {
	svc, rx, _, owner := setup(t)
	ctx := context.Background()

	first, err := svc.Create(as(owner), "one")
	require.NoError(t, err)
	_, err = svc.Create(as(owner), "two")
	require.NoError(t, err)

	viewer := uuid.New()
	_, err = rx.Toggle(ctx, viewer, targets.Tweet(first.ID), reactions.KindLike)
	require.NoError(t, err)

	page, err := svc.ListForOwner(as(viewer), owner, feeds.RawSpec{Query: "one"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, first.ID, page.Items[0].ID)
	assert.Equal(t, 1, page.Items[0].Likes)
	assert.Equal(t, reactions.KindLike, page.Items[0].ViewerReaction)
	assert.Equal(t, "poster", page.Items[0].Owner.Username)

	page, err = svc.ListForOwner(ctx, owner, feeds.RawSpec{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalItems)
	assert.Empty(t, page.Items[0].ViewerReaction)

	_, err = svc.ListForOwner(ctx, uuid.New(), feeds.RawSpec{})
	assert.True(t, errs.IsNotFound(err))
}

func TestCreate_IDsFollowCreationOrder(t *testing.T) {
	svc, _, _, owner := setup(t)

	var created []uuid.UUID
	for i := 0; i < 5; i++ {
		tw, err := svc.Create(as(owner), "post")
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), tw.ID.Version())
		created = append(created, tw.ID)
	}

	page, err := svc.ListForOwner(context.Background(), owner, feeds.RawSpec{})
	require.NoError(t, err)
	require.Len(t, page.Items, len(created))
	for i, item := range page.Items {
		assert.Equal(t, created[i], item.ID)
	}
}
