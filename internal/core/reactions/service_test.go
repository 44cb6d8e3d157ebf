package reactions_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Vidtube/internal/core/reactions"
	"Vidtube/internal/core/targets"
	"Vidtube/internal/core/videos"
	"Vidtube/internal/db/memstore"
	"Vidtube/internal/errs"
)

type allowAll struct{}

func (allowAll) Check(ctx context.Context, ref targets.Ref) error { return nil }

type checkerFunc func(ctx context.Context, ref targets.Ref) error

func (f checkerFunc) Check(ctx context.Context, ref targets.Ref) error { return f(ctx, ref) }

func seedVideo(t *testing.T, store *memstore.Store) *videos.Video {
	t.Helper()
	v := &videos.Video{ID: uuid.New(), Owner: uuid.New(), Title: "clip", IsPublished: true}
	require.NoError(t, store.Videos().Create(context.Background(), v))
	return v
}

func TestToggle_AddRemoveSwitch(t *testing.T) {
	store := memstore.New()
	video := seedVideo(t, store)
	svc := reactions.NewService(store.Reactions(), store.Videos(), allowAll{}, reactions.Options{})

	ctx := context.Background()
	actor := uuid.New()
	target := targets.Video(video.ID)

	res, err := svc.Toggle(ctx, actor, target, reactions.KindLike)
	require.NoError(t, err)
	assert.Equal(t, reactions.ActionAdded, res.Action)
	assert.Equal(t, reactions.KindLike, res.Kind)

	res, err = svc.Toggle(ctx, actor, target, reactions.KindDislike)
	require.NoError(t, err)
	assert.Equal(t, reactions.ActionSwitched, res.Action)
	assert.Equal(t, reactions.KindLike, res.From)
	assert.Equal(t, reactions.KindDislike, res.To)

	state, err := svc.GetState(ctx, actor, target)
	require.NoError(t, err)
	assert.Equal(t, reactions.KindDislike, state)

	stored, err := store.Videos().GetByID(ctx, video.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Likes)
	assert.Equal(t, []uuid.UUID{actor}, stored.Dislikes)

	res, err = svc.Toggle(ctx, actor, target, reactions.KindDislike)
	require.NoError(t, err)
	assert.Equal(t, reactions.ActionRemoved, res.Action)

	state, err = svc.GetState(ctx, actor, target)
	require.NoError(t, err)
	assert.Equal(t, reactions.Kind(""), state)

	stored, err = store.Videos().GetByID(ctx, video.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Dislikes)
}

func TestToggle_CommentAndTweetSkipCounters(t *testing.T) {
	store := memstore.New()
	svc := reactions.NewService(store.Reactions(), store.Videos(), allowAll{}, reactions.Options{})

	ctx := context.Background()
	actor := uuid.New()
	comment := targets.Comment(uuid.New())
	tweet := targets.Tweet(uuid.New())

	_, err := svc.Toggle(ctx, actor, comment, reactions.KindLike)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, uuid.New(), comment, reactions.KindDislike)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, actor, tweet, reactions.KindLike)
	require.NoError(t, err)

	counts, err := svc.Counts(ctx, []targets.Ref{comment, tweet, targets.Tweet(uuid.New())})
	require.NoError(t, err)
	assert.Equal(t, reactions.Counts{Likes: 1, Dislikes: 1}, counts[comment])
	assert.Equal(t, reactions.Counts{Likes: 1}, counts[tweet])
	assert.Len(t, counts, 3)

	states, err := svc.ViewerStates(ctx, actor, []targets.Ref{comment, tweet})
	require.NoError(t, err)
	assert.Equal(t, reactions.KindLike, states[comment])
	assert.Equal(t, reactions.KindLike, states[tweet])
}

func TestToggle_RejectsBadInput(t *testing.T) {
	store := memstore.New()
	svc := reactions.NewService(store.Reactions(), nil, allowAll{}, reactions.Options{})
	ctx := context.Background()

	_, err := svc.Toggle(ctx, uuid.Nil, targets.Video(uuid.New()), reactions.KindLike)
	assert.True(t, errs.IsAuthentication(err))

	_, err = svc.Toggle(ctx, uuid.New(), targets.Ref{}, reactions.KindLike)
	assert.True(t, errs.IsValidation(err))

	_, err = svc.Toggle(ctx, uuid.New(), targets.Video(uuid.New()), reactions.Kind("love"))
	assert.True(t, errs.IsValidation(err))
}

func TestToggle_DeletedTargetIsNotFound(t *testing.T) {
	store := memstore.New()
	gone := checkerFunc(func(ctx context.Context, ref targets.Ref) error {
		return errs.NotFound("video not found")
	})
	svc := reactions.NewService(store.Reactions(), nil, gone, reactions.Options{})

	actor := uuid.New()
	target := targets.Video(uuid.New())
	_, err := svc.Toggle(context.Background(), actor, target, reactions.KindLike)
	assert.True(t, errs.IsNotFound(err))

	n, err := store.Reactions().CountByActorAndTarget(context.Background(), actor, target)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// racingRepo lets a competing toggle land between the read and the write of
// the first attempt.
type racingRepo struct {
	reactions.Repository
	race func()
	once sync.Once
}

func (r *racingRepo) Insert(ctx context.Context, rx *reactions.Reaction) error {
	r.once.Do(r.race)
	return r.Repository.Insert(ctx, rx)
}

func TestToggle_ConcurrentIdenticalLikesCollapse(t *testing.T) {
	store := memstore.New()
	video := seedVideo(t, store)
	actor := uuid.New()
	target := targets.Video(video.ID)
	ctx := context.Background()

	competing := reactions.NewService(store.Reactions(), store.Videos(), allowAll{}, reactions.Options{})
	repo := &racingRepo{Repository: store.Reactions()}
	repo.race = func() {
		_, err := competing.Toggle(ctx, actor, target, reactions.KindLike)
		require.NoError(t, err)
	}
	svc := reactions.NewService(repo, store.Videos(), allowAll{}, reactions.Options{})

	res, err := svc.Toggle(ctx, actor, target, reactions.KindLike)
	require.NoError(t, err)
	assert.Equal(t, reactions.ActionAdded, res.Action)

	n, err := store.Reactions().CountByActorAndTarget(ctx, actor, target)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, err := store.Videos().GetByID(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{actor}, stored.Likes)
}

func TestToggle_ParallelTogglesKeepOneRowPerPair(t *testing.T) {
	store := memstore.New()
	video := seedVideo(t, store)
	svc := reactions.NewService(store.Reactions(), store.Videos(), allowAll{}, reactions.Options{MaxAttempts: 50})

	actor := uuid.New()
	target := targets.Video(video.ID)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			kind := reactions.KindLike
			if i%2 == 1 {
				kind = reactions.KindDislike
			}
			_, err := svc.Toggle(ctx, actor, target, kind)
			if err != nil {
				assert.True(t, errs.IsConflict(err), "unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	n, err := store.Reactions().CountByActorAndTarget(ctx, actor, target)
	require.NoError(t, err)
	assert.LessOrEqual(t, n, 1)

	counts, err := svc.Counts(ctx, []targets.Ref{target})
	require.NoError(t, err)
	assert.LessOrEqual(t, counts[target].Likes+counts[target].Dislikes, 1)
}

// staleRepo reports every conditional write as stale
type staleRepo struct {
	reactions.Repository
	inserts int
}

func (r *staleRepo) Insert(ctx context.Context, rx *reactions.Reaction) error {
	r.inserts++
	return reactions.ErrStale
}

type countingRecorder struct {
	outcomes []string
	retries  int
}

func (c *countingRecorder) ObserveToggle(target, outcome string) {
	c.outcomes = append(c.outcomes, target+":"+outcome)
}

func (c *countingRecorder) ToggleRetried() { c.retries++ }

func TestToggle_GivesUpWithConflict(t *testing.T) {
	store := memstore.New()
	repo := &staleRepo{Repository: store.Reactions()}
	rec := &countingRecorder{}
	svc := reactions.NewService(repo, nil, allowAll{}, reactions.Options{MaxAttempts: 3, Recorder: rec})

	_, err := svc.Toggle(context.Background(), uuid.New(), targets.Tweet(uuid.New()), reactions.KindLike)
	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))
	assert.Equal(t, 3, repo.inserts)
	assert.Equal(t, 2, rec.retries)
	assert.Equal(t, []string{"tweet:conflict"}, rec.outcomes)
}

type brokenRepo struct {
	reactions.Repository
}

func (brokenRepo) GetByActorAndTarget(ctx context.Context, actor uuid.UUID, target targets.Ref) (*reactions.Reaction, error) {
	return nil, errors.New("connection refused")
}

func TestToggle_StoreFailureIsInternal(t *testing.T) {
	svc := reactions.NewService(brokenRepo{}, nil, allowAll{}, reactions.Options{})

	_, err := svc.Toggle(context.Background(), uuid.New(), targets.Comment(uuid.New()), reactions.KindLike)
	assert.Equal(t, errs.KindInternal, errs.KindOf(err))
}

type failingCounters struct{}

func (failingCounters) AddReactor(ctx context.Context, videoID uuid.UUID, kind reactions.Kind, actor uuid.UUID) error {
	return errors.New("counter store down")
}

func (failingCounters) RemoveReactor(ctx context.Context, videoID uuid.UUID, kind reactions.Kind, actor uuid.UUID) error {
	return errors.New("counter store down")
}

func TestToggle_CounterFailureDoesNotFailToggle(t *testing.T) {
	store := memstore.New()
	svc := reactions.NewService(store.Reactions(), failingCounters{}, allowAll{}, reactions.Options{})

	res, err := svc.Toggle(context.Background(), uuid.New(), targets.Video(uuid.New()), reactions.KindLike)
	require.NoError(t, err)
	assert.Equal(t, reactions.ActionAdded, res.Action)
}

func TestParseKind(t *testing.T) {
	k, err := reactions.ParseKind("Likes")
	require.NoError(t, err)
	assert.Equal(t, reactions.KindLike, k)

	k, err = reactions.ParseKind("dislike")
	require.NoError(t, err)
	assert.Equal(t, reactions.KindDislike, k)
	assert.Equal(t, reactions.KindLike, k.Opposite())

	_, err = reactions.ParseKind("meh")
	assert.True(t, errs.IsValidation(err))
}

// stallingRepo blocks every read until the caller's deadline fires
type stallingRepo struct {
	reactions.Repository
	calls int
}

func (r *stallingRepo) GetByActorAndTarget(ctx context.Context, actor uuid.UUID, target targets.Ref) (*reactions.Reaction, error) {
	r.calls++
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestToggle_StoreTimeout(t *testing.T) {
	repo := &stallingRepo{}
	svc := reactions.NewService(repo, nil, allowAll{}, reactions.Options{StoreTimeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := svc.Toggle(context.Background(), uuid.New(), targets.Tweet(uuid.New()), reactions.KindLike)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, errs.IsTimeout(err))
	assert.Equal(t, 1, repo.calls, "a timed out read must not be retried")
	assert.Less(t, elapsed, time.Second)
}

func TestGetState_StoreTimeout(t *testing.T) {
	svc := reactions.NewService(&stallingRepo{}, nil, allowAll{}, reactions.Options{StoreTimeout: 20 * time.Millisecond})

	_, err := svc.GetState(context.Background(), uuid.New(), targets.Tweet(uuid.New()))
	assert.True(t, errs.IsTimeout(err))
}
