package targets

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"Vidtube/internal/errs"
)

// ExistsFunc checks whether an entity with the given id exists
type ExistsFunc func(ctx context.Context, id uuid.UUID) (bool, error)

// CommentVideoFunc returns the id of the video a comment belongs to.
// found is false when the comment does not exist.
type CommentVideoFunc func(ctx context.Context, commentID uuid.UUID) (videoID uuid.UUID, found bool, err error)

// Resolver turns raw request input into a Ref whose entity exists
type Resolver struct {
	videoExists   ExistsFunc
	commentExists ExistsFunc
	tweetExists   ExistsFunc
	commentVideo  CommentVideoFunc
}

// NewResolver creates a resolver with one existence check per kind.
// A nil ExistsFunc makes every id of that kind resolve as missing.
func NewResolver(videoExists, commentExists, tweetExists ExistsFunc, commentVideo CommentVideoFunc) *Resolver {
	return &Resolver{
		videoExists:   videoExists,
		commentExists: commentExists,
		tweetExists:   tweetExists,
		commentVideo:  commentVideo,
	}
}

// Resolve parses kind and id, then checks that the entity exists.
// Malformed input fails with ValidationError before any store access.
func (r *Resolver) Resolve(ctx context.Context, rawKind, rawID string) (Ref, error) {
	ref, err := Parse(rawKind, rawID)
	if err != nil {
		return Ref{}, err
	}
	if err := r.Check(ctx, ref); err != nil {
		return Ref{}, err
	}
	return ref, nil
}

// Check verifies that an already-built ref still points at a live entity.
// The reaction ledger calls this again right before writing.
func (r *Resolver) Check(ctx context.Context, ref Ref) error {
	if ref.IsZero() {
		return errs.Validation("target is required", "target")
	}

	exists := r.existsFor(ref.Kind())
	if exists == nil {
		return notFound(ref.Kind())
	}

	ok, err := exists(ctx, ref.ID())
	if err != nil {
		return errs.FromStore(fmt.Sprintf("check %s exists", ref.Kind()), err)
	}
	if !ok {
		return notFound(ref.Kind())
	}
	return nil
}

// ResolveCommentUnderVideo resolves a comment addressed through its video's
// path and fails with ValidationError when the comment belongs elsewhere.
func (r *Resolver) ResolveCommentUnderVideo(ctx context.Context, rawVideoID, rawCommentID string) (Ref, error) {
	videoID, err := ParseID("videoId", rawVideoID)
	if err != nil {
		return Ref{}, err
	}
	commentID, err := ParseID("commentId", rawCommentID)
	if err != nil {
		return Ref{}, err
	}
	if r.commentVideo == nil {
		return Ref{}, notFound(KindComment)
	}

	owningVideo, found, err := r.commentVideo(ctx, commentID)
	if err != nil {
		return Ref{}, errs.FromStore("load comment", err)
	}
	if !found {
		return Ref{}, notFound(KindComment)
	}
	if owningVideo != videoID {
		return Ref{}, errs.Validation("comment does not belong to this video", "commentId")
	}

	return Comment(commentID), nil
}

func (r *Resolver) existsFor(kind Kind) ExistsFunc {
	switch kind {
	case KindVideo:
		return r.videoExists
	case KindComment:
		return r.commentExists
	case KindTweet:
		return r.tweetExists
	}
	return nil
}

func notFound(kind Kind) error {
	return errs.NotFound(string(kind) + " not found")
}
