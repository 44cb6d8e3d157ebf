package tweet

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Vidtube/internal/core/feeds"
	"Vidtube/internal/core/identity"
	"Vidtube/internal/core/reactions"
	"Vidtube/internal/core/tweets"
	"Vidtube/internal/core/users"
	"Vidtube/internal/db/memstore"
)

type envelope struct {
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	StatusCode int             `json:"statusCode"`
	Success    bool            `json:"success"`
}

func setup(t *testing.T) (chi.Router, uuid.UUID) {
	t.Helper()
	store := memstore.New()
	owner := uuid.New()
	require.NoError(t, store.Users().Create(context.Background(), &users.User{ID: owner, Username: "poster", Email: "poster@example.com"}))

	rx := reactions.NewService(store.Reactions(), nil, nil, reactions.Options{})
	h := NewHandler(tweets.NewService(store.Tweets(), users.NewService(store.Users(), nil, 0, nil), rx, 0, nil))

	r := chi.NewRouter()
	r.Get("/users/{userId}/tweets", h.HandleListForUser)
	r.Post("/tweets", h.HandleCreate)
	r.Patch("/tweets/{tweetId}", h.HandleUpdate)
	r.Delete("/tweets/{tweetId}", h.HandleDelete)
	return r, owner
}

func send(t *testing.T, r chi.Router, method, path string, actor uuid.UUID, content string) (int, envelope) {
	t.Helper()
	var body bytes.Buffer
	if content != "" {
		require.NoError(t, json.NewEncoder(&body).Encode(ContentInput{Content: content}))
	}
	req := httptest.NewRequest(method, path, &body)
	if actor != uuid.Nil {
		req = req.WithContext(identity.WithActor(req.Context(), actor))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestTweetFlow(t *testing.T) {
	r, owner := setup(t)

	code, env := send(t, r, http.MethodPost, "/tweets", owner, "first!")
	require.Equal(t, http.StatusCreated, code)
	var created tweets.Tweet
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, owner, created.Owner)

	code, _ = send(t, r, http.MethodPatch, "/tweets/"+created.ID.String(), uuid.New(), "hijack")
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = send(t, r, http.MethodPatch, "/tweets/"+created.ID.String(), owner, "first, edited")
	require.Equal(t, http.StatusOK, code)

	code, env = send(t, r, http.MethodGet, "/users/"+owner.String()+"/tweets", uuid.Nil, "")
	require.Equal(t, http.StatusOK, code)
	var page feeds.Page[tweets.View]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "first, edited", page.Items[0].Content)
	assert.Equal(t, "poster", page.Items[0].Owner.Username)

	code, _ = send(t, r, http.MethodDelete, "/tweets/"+created.ID.String(), owner, "")
	require.Equal(t, http.StatusOK, code)
	code, _ = send(t, r, http.MethodDelete, "/tweets/"+created.ID.String(), owner, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCreate_Rejections(t *testing.T) {
	r, owner := setup(t)

	code, _ := send(t, r, http.MethodPost, "/tweets", uuid.Nil, "anonymous")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = send(t, r, http.MethodPost, "/tweets", owner, strings.Repeat("a", 281))
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = send(t, r, http.MethodGet, "/users/"+uuid.NewString()+"/tweets", uuid.Nil, "")
	assert.Equal(t, http.StatusNotFound, code)
}
