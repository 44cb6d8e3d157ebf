package reaction

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Vidtube/internal/api/handlers"
	"Vidtube/internal/core/identity"
	"Vidtube/internal/core/reactions"
	"Vidtube/internal/core/targets"
)

// TargetResolver turns path parameters into a live target reference;
// *targets.Resolver implements it
type TargetResolver interface {
	Resolve(ctx context.Context, rawKind, rawID string) (targets.Ref, error)
	ResolveCommentUnderVideo(ctx context.Context, rawVideoID, rawCommentID string) (targets.Ref, error)
}

// Handler serves reaction toggles and reaction summaries
type Handler struct {
	service  reactions.Service
	resolver TargetResolver
}

// NewHandler creates a reaction handler
func NewHandler(service reactions.Service, resolver TargetResolver) *Handler {
	return &Handler{
		service:  service,
		resolver: resolver,
	}
}

// StateOutput is the reaction summary of one target
type StateOutput struct {
	Target         targets.Ref    `json:"target"`
	ViewerReaction reactions.Kind `json:"viewerReaction,omitempty"`
	Likes          int            `json:"likes"`
	Dislikes       int            `json:"dislikes"`
}

// HandleToggleVideo toggles the caller's reaction on a video
// POST /api/v1/reactions/{kind}/videos/{videoId}
func (h *Handler) HandleToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, func(ctx context.Context) (targets.Ref, error) {
		return h.resolver.Resolve(ctx, string(targets.KindVideo), chi.URLParam(r, "videoId"))
	})
}

// HandleToggleComment toggles the caller's reaction on a comment addressed
// through its video
// POST /api/v1/reactions/{kind}/videos/{videoId}/comments/{commentId}
func (h *Handler) HandleToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, func(ctx context.Context) (targets.Ref, error) {
		return h.resolver.ResolveCommentUnderVideo(ctx, chi.URLParam(r, "videoId"), chi.URLParam(r, "commentId"))
	})
}

// HandleToggleTweet toggles the caller's reaction on a tweet
// POST /api/v1/reactions/{kind}/tweets/{tweetId}
func (h *Handler) HandleToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, func(ctx context.Context) (targets.Ref, error) {
		return h.resolver.Resolve(ctx, string(targets.KindTweet), chi.URLParam(r, "tweetId"))
	})
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request, resolve func(context.Context) (targets.Ref, error)) {
	actor, err := identity.RequireActor(r.Context())
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	kind, err := reactions.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	target, err := resolve(r.Context())
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	result, err := h.service.Toggle(r.Context(), actor, target, kind)
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	handlers.WriteSuccess(w, http.StatusOK, "reaction "+string(result.Action), result)
}

// HandleGetState returns live counts for a target plus the caller's reaction
// when authenticated
// GET /api/v1/targets/{targetKind}/{targetId}/reactions
func (h *Handler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	target, err := h.resolver.Resolve(ctx, chi.URLParam(r, "targetKind"), chi.URLParam(r, "targetId"))
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	counts, err := h.service.Counts(ctx, []targets.Ref{target})
	if err != nil {
		handlers.HandleServiceError(w, r, err)
		return
	}

	out := StateOutput{
		Target:   target,
		Likes:    counts[target].Likes,
		Dislikes: counts[target].Dislikes,
	}
	if actor, ok := identity.ActorFrom(ctx); ok {
		if out.ViewerReaction, err = h.service.GetState(ctx, actor, target); err != nil {
			handlers.HandleServiceError(w, r, err)
			return
		}
	}

	handlers.WriteSuccess(w, http.StatusOK, "reactions fetched", out)
}
