package counters

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Vidtube/internal/core/reactions"
	"Vidtube/internal/core/targets"
	"Vidtube/internal/core/videos"
	"Vidtube/internal/db/memstore"
)

type fixture struct {
	store *memstore.Store
	ctx   context.Context
}

func newFixture() *fixture {
	return &fixture{store: memstore.New(), ctx: context.Background()}
}

func (f *fixture) video(t *testing.T) uuid.UUID {
	t.Helper()
	id := uuid.New()
	now := time.Now().UTC()
	require.NoError(t, f.store.Videos().Create(f.ctx, &videos.Video{
		ID:          id,
		Owner:       uuid.New(),
		Title:       "clip",
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}))
	return id
}

func (f *fixture) react(t *testing.T, video, actor uuid.UUID, kind reactions.Kind) {
	t.Helper()
	require.NoError(t, f.store.Reactions().Insert(f.ctx, &reactions.Reaction{
		ID:        uuid.New(),
		Actor:     actor,
		Target:    targets.Video(video),
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}))
}

func (f *fixture) sets(t *testing.T, video uuid.UUID) (likes, dislikes []uuid.UUID) {
	t.Helper()
	v, err := f.store.Videos().GetByID(f.ctx, video)
	require.NoError(t, err)
	return v.Likes, v.Dislikes
}

func TestRepairer_InSyncVideosAreUntouched(t *testing.T) {
	f := newFixture()
	video := f.video(t)
	alice := uuid.New()
	f.react(t, video, alice, reactions.KindLike)
	require.NoError(t, f.store.Videos().SetReactors(f.ctx, video, []uuid.UUID{alice}, nil))

	report, err := NewRepairer(f.store.Reactions(), f.store.Videos(), 0, nil).Run(f.ctx, false)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Scanned)
	assert.Empty(t, report.Drifted)
	assert.Zero(t, report.Fixed)
}

func TestRepairer_DryRunReportsWithoutWriting(t *testing.T) {
	f := newFixture()
	video := f.video(t)
	alice, bob := uuid.New(), uuid.New()
	f.react(t, video, alice, reactions.KindLike)
	f.react(t, video, bob, reactions.KindDislike)

	stale := uuid.New()
	require.NoError(t, f.store.Videos().SetReactors(f.ctx, video, []uuid.UUID{stale}, nil))

	report, err := NewRepairer(f.store.Reactions(), f.store.Videos(), 0, nil).Run(f.ctx, true)
	require.NoError(t, err)

	require.Len(t, report.Drifted, 1)
	assert.Equal(t, Drift{
		Video:          video,
		StoredLikes:    1,
		StoredDislikes: 0,
		LedgerLikes:    1,
		LedgerDislikes: 1,
	}, report.Drifted[0])
	assert.Zero(t, report.Fixed)

	likes, _ := f.sets(t, video)
	assert.Equal(t, []uuid.UUID{stale}, likes)
}

func TestRepairer_RewritesDriftedSets(t *testing.T) {
	f := newFixture()
	video := f.video(t)
	alice, bob := uuid.New(), uuid.New()
	f.react(t, video, alice, reactions.KindLike)
	f.react(t, video, bob, reactions.KindDislike)

	// Same sizes, wrong members
	require.NoError(t, f.store.Videos().SetReactors(f.ctx, video, []uuid.UUID{bob}, []uuid.UUID{alice}))

	report, err := NewRepairer(f.store.Reactions(), f.store.Videos(), 0, nil).Run(f.ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Fixed)

	likes, dislikes := f.sets(t, video)
	assert.Equal(t, []uuid.UUID{alice}, likes)
	assert.Equal(t, []uuid.UUID{bob}, dislikes)

	again, err := NewRepairer(f.store.Reactions(), f.store.Videos(), 0, nil).Run(f.ctx, false)
	require.NoError(t, err)
	assert.Empty(t, again.Drifted)
}

func TestRepairer_PagesThroughEveryVideo(t *testing.T) {
	f := newFixture()
	actor := uuid.New()

	const total = 7
	for i := 0; i < total; i++ {
		video := f.video(t)
		f.react(t, video, actor, reactions.KindLike)
	}

	report, err := NewRepairer(f.store.Reactions(), f.store.Videos(), 2, nil).Run(f.ctx, false)
	require.NoError(t, err)

	assert.Equal(t, total, report.Scanned)
	assert.Equal(t, total, report.Fixed)
	assert.Len(t, report.Drifted, total)
}

func TestRepairer_CanceledContextStops(t *testing.T) {
	f := newFixture()
	f.video(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRepairer(f.store.Reactions(), f.store.Videos(), 0, nil).Run(ctx, false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSameSet(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	assert.True(t, sameSet(nil, []uuid.UUID{}))
	assert.True(t, sameSet([]uuid.UUID{a, b}, []uuid.UUID{b, a}))
	assert.False(t, sameSet([]uuid.UUID{a, b}, []uuid.UUID{a, c}))
	assert.False(t, sameSet([]uuid.UUID{a}, []uuid.UUID{a, b}))
}
