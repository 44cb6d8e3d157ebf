package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Vidtube/internal/errs"
)

type ownedThing struct{ owner uuid.UUID }

func (o ownedThing) OwnerID() uuid.UUID { return o.owner }

func TestRequireActor(t *testing.T) {
	_, err := RequireActor(context.Background())
	require.Error(t, err)
	assert.True(t, errs.IsAuthentication(err))

	actor := uuid.New()
	got, err := RequireActor(WithActor(context.Background(), actor))
	require.NoError(t, err)
	assert.Equal(t, actor, got)
}

func TestRequireActor_NilUUIDIsAnonymous(t *testing.T) {
	_, err := RequireActor(WithActor(context.Background(), uuid.Nil))
	assert.True(t, errs.IsAuthentication(err))
	assert.Nil(t, OptionalActor(WithActor(context.Background(), uuid.Nil)))
}

func TestRequireOwnership(t *testing.T) {
	owner := uuid.New()

	assert.NoError(t, RequireOwnership(ownedThing{owner: owner}, owner))

	err := RequireOwnership(ownedThing{owner: owner}, uuid.New())
	assert.True(t, errs.IsAuthorization(err))

	assert.True(t, errs.IsAuthorization(RequireOwnership(nil, owner)))
}
