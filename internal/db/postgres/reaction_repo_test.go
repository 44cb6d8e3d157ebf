package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Vidtube/internal/core/playlists"
	"Vidtube/internal/core/reactions"
	"Vidtube/internal/core/targets"
	"Vidtube/internal/core/videos"
)

func createTestVideo(t *testing.T, repo videos.Repository, owner uuid.UUID) *videos.Video {
	t.Helper()
	now := time.Now().UTC()
	v := &videos.Video{
		ID:           uuid.New(),
		Owner:        owner,
		Title:        "clip",
		Description:  "a clip",
		Category:     "music",
		VideoURL:     "https://cdn.example.com/v.mp4",
		ThumbnailURL: "https://cdn.example.com/t.jpg",
		Tags:         []string{"rock"},
		IsPublished:  true,
		Likes:        []uuid.UUID{},
		Dislikes:     []uuid.UUID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Create(context.Background(), v))
	return v
}

func TestReactionRepo_ConditionalWrites(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	actor := createTestUser(t, db, "reactor")
	target := targets.Tweet(uuid.New())

	rx := &reactions.Reaction{ID: uuid.New(), Actor: actor.ID, Target: target, Kind: reactions.KindLike, CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Insert(ctx, rx))

	// Second insert for the same pair, even with the other kind, is stale.
	again := &reactions.Reaction{ID: uuid.New(), Actor: actor.ID, Target: target, Kind: reactions.KindDislike, CreatedAt: time.Now().UTC()}
	assert.ErrorIs(t, repo.Insert(ctx, again), reactions.ErrStale)

	n, err := repo.CountByActorAndTarget(ctx, actor.ID, target)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.ErrorIs(t, repo.SwitchKind(ctx, rx.ID, reactions.KindDislike, reactions.KindLike), reactions.ErrStale)
	require.NoError(t, repo.SwitchKind(ctx, rx.ID, reactions.KindLike, reactions.KindDislike))

	counts, err := repo.CountByTargets(ctx, []targets.Ref{target})
	require.NoError(t, err)
	assert.Equal(t, reactions.Counts{Dislikes: 1}, counts[target])

	kinds, err := repo.KindsByActor(ctx, actor.ID, []targets.Ref{target})
	require.NoError(t, err)
	assert.Equal(t, reactions.KindDislike, kinds[target])

	assert.ErrorIs(t, repo.DeleteIfKind(ctx, rx.ID, reactions.KindLike), reactions.ErrStale)
	require.NoError(t, repo.DeleteIfKind(ctx, rx.ID, reactions.KindDislike))

	_, err = repo.GetByActorAndTarget(ctx, actor.ID, target)
	assert.ErrorIs(t, err, reactions.ErrReactionNotFound)
}

func TestVideoRepo_CounterSets(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVideoRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	v := createTestVideo(t, repo, owner.ID)
	actor := uuid.New()

	require.NoError(t, repo.AddReactor(ctx, v.ID, reactions.KindLike, actor))
	require.NoError(t, repo.AddReactor(ctx, v.ID, reactions.KindLike, actor))

	got, err := repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{actor}, got.Likes)

	require.NoError(t, repo.RemoveReactor(ctx, v.ID, reactions.KindLike, actor))
	got, err = repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Likes)

	assert.ErrorIs(t, repo.AddReactor(ctx, uuid.New(), reactions.KindLike, actor), videos.ErrVideoNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, v.ID, uuid.New()), videos.ErrVideoNotFound)
	require.NoError(t, repo.Delete(ctx, v.ID, owner.ID))
}

func TestPlaylistRepo_AppendIsConditional(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "curator")
	now := time.Now().UTC()
	p := &playlists.Playlist{ID: uuid.New(), Owner: owner.ID, Name: "Mix", Videos: []uuid.UUID{}, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, p))

	dup := *p
	dup.ID = uuid.New()
	dup.Name = "mix"
	assert.ErrorIs(t, repo.Create(ctx, &dup), playlists.ErrDuplicateName)

	video := uuid.New()
	got, err := repo.AppendVideo(ctx, p.ID, owner.ID, video, now)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{video}, got.Videos)

	_, err = repo.AppendVideo(ctx, p.ID, owner.ID, video, now)
	assert.ErrorIs(t, err, playlists.ErrPlaylistNotFound)

	_, err = repo.AppendVideo(ctx, p.ID, uuid.New(), uuid.New(), now)
	assert.ErrorIs(t, err, playlists.ErrPlaylistNotFound)

	got, err = repo.RemoveVideo(ctx, p.ID, owner.ID, video, now)
	require.NoError(t, err)
	assert.Empty(t, got.Videos)
}
