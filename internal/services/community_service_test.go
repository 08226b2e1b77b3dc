package services

import (
	"context"
	"testing"

	"github.com/otherscovers/otherscovers/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateCommunity_CreatorIsFirstMember(t *testing.T) {
	alice := &models.User{Username: "alice"}
	users := newFakeUserStore(alice)
	svc := NewCommunityService(newFakeCommunityStore(), users)

	community, err := svc.CreateCommunity(context.Background(), alice.ID, "Northside", "the north end")
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{alice.ID}, community.Members)
	assert.Contains(t, alice.Communities, community.ID)
}

func TestCreateCommunity_RequiresName(t *testing.T) {
	svc := NewCommunityService(newFakeCommunityStore(), newFakeUserStore())

	_, err := svc.CreateCommunity(context.Background(), primitive.NewObjectID(), "  ", "")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestJoinCommunity_NoDuplicateMembers(t *testing.T) {
	alice := &models.User{Username: "alice"}
	bob := &models.User{Username: "bob"}
	users := newFakeUserStore(alice, bob)

	community := &models.Community{Name: "Northside", Members: []primitive.ObjectID{alice.ID}}
	communities := newFakeCommunityStore(community)
	svc := NewCommunityService(communities, users)

	joined, err := svc.JoinCommunity(context.Background(), bob.ID, community.ID)
	require.NoError(t, err)
	assert.Len(t, joined.Members, 2)

	// Joining again changes nothing.
	joined, err = svc.JoinCommunity(context.Background(), bob.ID, community.ID)
	require.NoError(t, err)
	assert.Len(t, joined.Members, 2)
}

func TestJoinCommunity_UnknownCommunity(t *testing.T) {
	svc := NewCommunityService(newFakeCommunityStore(), newFakeUserStore())

	_, err := svc.JoinCommunity(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrCommunityNotFound)
}

func TestLeaveCommunity_IsIdempotent(t *testing.T) {
	alice := &models.User{Username: "alice"}
	bob := &models.User{Username: "bob"}
	users := newFakeUserStore(alice, bob)

	community := &models.Community{Name: "Northside", Members: []primitive.ObjectID{alice.ID, bob.ID}}
	communities := newFakeCommunityStore(community)
	svc := NewCommunityService(communities, users)

	require.NoError(t, svc.LeaveCommunity(context.Background(), bob.ID, community.ID))
	assert.Equal(t, []primitive.ObjectID{alice.ID}, community.Members)

	// Leaving a community bob is no longer in is a no-op.
	require.NoError(t, svc.LeaveCommunity(context.Background(), bob.ID, community.ID))
	assert.Equal(t, []primitive.ObjectID{alice.ID}, community.Members)
}
