package subscription

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Vidtube/internal/core/feeds"
	"Vidtube/internal/core/identity"
	"Vidtube/internal/core/subscriptions"
	"Vidtube/internal/core/users"
	"Vidtube/internal/db/memstore"
)

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Success bool            `json:"success"`
}

func setup(t *testing.T) (chi.Router, uuid.UUID, uuid.UUID) {
	t.Helper()
	store := memstore.New()
	fan, channel := uuid.New(), uuid.New()
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, &users.User{ID: fan, Username: "fan", Email: "fan@example.com"}))
	require.NoError(t, store.Users().Create(ctx, &users.User{ID: channel, Username: "channel", Email: "channel@example.com"}))

	h := NewHandler(subscriptions.NewService(store.Subscriptions(), users.NewService(store.Users(), nil, 0, nil), nil, 0, nil))

	r := chi.NewRouter()
	r.Post("/subscriptions/{channelId}", h.HandleToggle)
	r.Get("/channels/{channelId}", h.HandleChannelProfile)
	r.Get("/channels/{channelId}/subscribers", h.HandleListSubscribers)
	r.Get("/users/{userId}/subscriptions", h.HandleListSubscribed)
	return r, fan, channel
}

func get(t *testing.T, r chi.Router, method, path string, actor uuid.UUID) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if actor != uuid.Nil {
		req = req.WithContext(identity.WithActor(req.Context(), actor))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestToggleAndLists(t *testing.T) {
	r, fan, channel := setup(t)

	code, env := get(t, r, http.MethodPost, "/subscriptions/"+channel.String(), fan)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "subscribed", env.Message)

	code, env = get(t, r, http.MethodGet, "/channels/"+channel.String(), fan)
	require.Equal(t, http.StatusOK, code)
	var profile subscriptions.ChannelProfile
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, 1, profile.SubscribersCount)
	assert.True(t, profile.IsSubscribed)

	code, env = get(t, r, http.MethodGet, "/channels/"+channel.String()+"/subscribers", uuid.Nil)
	require.Equal(t, http.StatusOK, code)
	var page feeds.Page[subscriptions.Entry]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "fan", page.Items[0].User.Username)

	code, env = get(t, r, http.MethodGet, "/users/"+fan.String()+"/subscriptions", uuid.Nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "channel", page.Items[0].User.Username)

	code, env = get(t, r, http.MethodPost, "/subscriptions/"+channel.String(), fan)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "unsubscribed", env.Message)
}

func TestToggle_Rejections(t *testing.T) {
	r, fan, _ := setup(t)

	code, _ := get(t, r, http.MethodPost, "/subscriptions/"+fan.String(), fan)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = get(t, r, http.MethodPost, "/subscriptions/"+uuid.NewString(), fan)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = get(t, r, http.MethodPost, "/subscriptions/"+fan.String(), uuid.Nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}
