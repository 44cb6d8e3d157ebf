package reactions

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"Vidtube/internal/core/deadline"
	"Vidtube/internal/core/targets"
	"Vidtube/internal/errs"
)

const (
	defaultMaxAttempts = 5
	defaultRetryDelay  = 10 * time.Millisecond
)

// Options tunes the ledger. Zero values pick the defaults.
type Options struct {
	Logger       *slog.Logger
	Recorder     Recorder
	StoreTimeout time.Duration
	MaxAttempts  uint64
	RetryDelay   time.Duration
}

type reactionService struct {
	repo         Repository
	counters     CounterStore
	checker      TargetChecker
	logger       *slog.Logger
	recorder     Recorder
	storeTimeout time.Duration
	maxAttempts  uint64
	retryDelay   time.Duration
}

// NewService creates the reaction ledger service. counters may be nil when
// no video counter sets are maintained (tests).
func NewService(repo Repository, counters CounterStore, checker TargetChecker, opts Options) Service {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	return &reactionService{
		repo:         repo,
		counters:     counters,
		checker:      checker,
		logger:       opts.Logger,
		recorder:     opts.Recorder,
		storeTimeout: opts.StoreTimeout,
		maxAttempts:  opts.MaxAttempts,
		retryDelay:   opts.RetryDelay,
	}
}

// Toggle implements the add / remove / switch transition as an optimistic
// retry loop over conditional writes.
func (s *reactionService) Toggle(ctx context.Context, actor uuid.UUID, target targets.Ref, kind Kind) (*ToggleResult, error) {
	if actor == uuid.Nil {
		return nil, errs.Authentication("authentication required")
	}
	if target.IsZero() {
		return nil, errs.Validation("target is required", "target")
	}
	if !kind.Valid() {
		return nil, errs.Validation("reaction kind must be 'like' or 'dislike'", "kind")
	}

	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	// The target may have been deleted since the request was resolved.
	if s.checker != nil {
		if err := s.checker.Check(ctx, target); err != nil {
			return nil, err
		}
	}

	var (
		intent   *ToggleResult
		result   *ToggleResult
		attempts uint64
	)

	backoff := retry.WithMaxRetries(s.maxAttempts-1, retry.NewConstant(s.retryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		if attempts > 1 {
			s.recorder.ToggleRetried()
		}

		existing, err := s.repo.GetByActorAndTarget(ctx, actor, target)
		if err != nil && !errors.Is(err, ErrReactionNotFound) {
			return err
		}

		var current Kind
		if existing != nil {
			current = existing.Kind
		}

		// A concurrent identical toggle already moved the pair to where this
		// one was headed, so this request collapses into it.
		if intent != nil && current == intendedKind(intent) {
			result = intent
			return nil
		}

		planned, err := s.write(ctx, actor, target, kind, existing)
		if intent == nil {
			intent = planned
		}
		if errors.Is(err, ErrStale) {
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}

		result = planned
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStale) {
			s.recorder.ObserveToggle(string(target.Kind()), "conflict")
			s.logger.Warn("reaction toggle gave up after concurrent changes",
				"actor", actor,
				"target", target.String(),
				"attempts", attempts)
			return nil, errs.Conflict("reaction changed concurrently, please retry")
		}
		return nil, errs.FromStore("toggle reaction", err)
	}

	n, err := s.repo.CountByActorAndTarget(ctx, actor, target)
	if err != nil {
		return nil, errs.FromStore("verify reaction", err)
	}
	if n > 1 {
		s.logger.Error("reaction invariant violated",
			"actor", actor,
			"target", target.String(),
			"count", n)
		return nil, errs.Conflict("more than one reaction recorded for this target")
	}

	s.syncCounters(ctx, actor, result)
	s.recorder.ObserveToggle(string(target.Kind()), string(result.Action))

	return result, nil
}

// write performs the single conditional write for the transition from the
// existing state. It returns the planned result even when the write is stale.
func (s *reactionService) write(ctx context.Context, actor uuid.UUID, target targets.Ref, kind Kind, existing *Reaction) (*ToggleResult, error) {
	switch {
	case existing == nil:
		r := &Reaction{
			ID:        uuid.Must(uuid.NewV7()),
			Actor:     actor,
			Target:    target,
			Kind:      kind,
			CreatedAt: time.Now().UTC(),
		}
		return &ToggleResult{Target: target, Action: ActionAdded, Kind: kind}, s.repo.Insert(ctx, r)

	case existing.Kind == kind:
		return &ToggleResult{Target: target, Action: ActionRemoved, Kind: kind}, s.repo.DeleteIfKind(ctx, existing.ID, kind)

	default:
		return &ToggleResult{Target: target, Action: ActionSwitched, From: existing.Kind, To: kind},
			s.repo.SwitchKind(ctx, existing.ID, existing.Kind, kind)
	}
}

// intendedKind is the reaction kind the pair holds once r has been applied
func intendedKind(r *ToggleResult) Kind {
	switch r.Action {
	case ActionAdded:
		return r.Kind
	case ActionSwitched:
		return r.To
	}
	return ""
}

// syncCounters mirrors the transition onto the video's counter sets. The
// ledger is authoritative, so failures are logged and never returned.
func (s *reactionService) syncCounters(ctx context.Context, actor uuid.UUID, r *ToggleResult) {
	if s.counters == nil || !r.Target.IsVideo() {
		return
	}
	videoID := r.Target.ID()

	var err error
	switch r.Action {
	case ActionAdded:
		err = s.counters.AddReactor(ctx, videoID, r.Kind, actor)
	case ActionRemoved:
		err = s.counters.RemoveReactor(ctx, videoID, r.Kind, actor)
	case ActionSwitched:
		err = s.counters.RemoveReactor(ctx, videoID, r.From, actor)
		if err == nil {
			err = s.counters.AddReactor(ctx, videoID, r.To, actor)
		}
	}

	if err != nil {
		s.logger.Warn("video counter update failed",
			"video", videoID,
			"actor", actor,
			"action", r.Action,
			"error", err)
	}
}

func (s *reactionService) GetState(ctx context.Context, actor uuid.UUID, target targets.Ref) (Kind, error) {
	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	r, err := s.repo.GetByActorAndTarget(ctx, actor, target)
	if errors.Is(err, ErrReactionNotFound) {
		return "", nil
	}
	if err != nil {
		return "", errs.FromStore("load reaction", err)
	}
	return r.Kind, nil
}

func (s *reactionService) Counts(ctx context.Context, refs []targets.Ref) (map[targets.Ref]Counts, error) {
	if len(refs) == 0 {
		return map[targets.Ref]Counts{}, nil
	}
	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	counts, err := s.repo.CountByTargets(ctx, refs)
	if err != nil {
		return nil, errs.FromStore("count reactions", err)
	}
	return counts, nil
}

func (s *reactionService) ViewerStates(ctx context.Context, actor uuid.UUID, refs []targets.Ref) (map[targets.Ref]Kind, error) {
	if actor == uuid.Nil || len(refs) == 0 {
		return map[targets.Ref]Kind{}, nil
	}
	ctx, cancel := deadline.Store(ctx, s.storeTimeout)
	defer cancel()

	kinds, err := s.repo.KindsByActor(ctx, actor, refs)
	if err != nil {
		return nil, errs.FromStore("load viewer reactions", err)
	}
	return kinds, nil
}

type nopRecorder struct{}

func (nopRecorder) ObserveToggle(string, string) {}
func (nopRecorder) ToggleRetried() {}
