package repositories

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notepass/backend/internal/models"
)

func TestSendAndAcceptRequest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	require.NoError(t, repo.SendRequest(alice.ID, bob.ID))

	sent, err := repo.HasSentRequest(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, sent)

	require.NoError(t, repo.AcceptRequest(alice.ID, bob.ID))

	friends, err := repo.AreFriends(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, friends)

	// Accepting consumes the request.
	sent, err = repo.HasSentRequest(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, sent)

	err = repo.CancelRequest(alice.ID, bob.ID)
	assert.EqualError(t, err, "Friend request does not exist")
	err = repo.RejectRequest(bob.ID, alice.ID)
	assert.EqualError(t, err, "Friend request does not exist")
}

func TestFriendshipIsSymmetric(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	makeFriends(t, db, bob, alice)

	forward, err := repo.AreFriends(alice.ID, bob.ID)
	require.NoError(t, err)
	backward, err := repo.AreFriends(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, forward)
	assert.Equal(t, forward, backward)

	// Exactly one row regardless of which side initiated.
	var count int64
	require.NoError(t, db.Model(&models.Friendship{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSendRequestFailures(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	err := repo.SendRequest(alice.ID, alice.ID)
	assert.EqualError(t, err, "Cannot be friends with yourself")

	require.NoError(t, repo.SendRequest(alice.ID, bob.ID))
	err = repo.SendRequest(alice.ID, bob.ID)
	assert.EqualError(t, err, "Friend request has already been sent")

	require.NoError(t, repo.AcceptRequest(alice.ID, bob.ID))
	err = repo.SendRequest(alice.ID, bob.ID)
	assert.EqualError(t, err, "Already friends")
}

func TestReversePendingRequestsAllowed(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	require.NoError(t, repo.SendRequest(alice.ID, bob.ID))
	require.NoError(t, repo.SendRequest(bob.ID, alice.ID))

	outgoing, err := repo.GetOutgoingRequests(alice.ID)
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, bob.ID, outgoing[0].ID)

	incoming, err := repo.GetIncomingRequests(alice.ID)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, bob.ID, incoming[0].ID)
}

func TestCancelAndRejectRequest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	require.NoError(t, repo.SendRequest(alice.ID, bob.ID))
	require.NoError(t, repo.CancelRequest(alice.ID, bob.ID))
	sent, err := repo.HasSentRequest(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, sent)

	require.NoError(t, repo.SendRequest(alice.ID, bob.ID))
	require.NoError(t, repo.RejectRequest(bob.ID, alice.ID))
	sent, err = repo.HasSentRequest(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, sent)

	friends, err := repo.AreFriends(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, friends)
}

func TestAcceptMissingRequest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	err := repo.AcceptRequest(alice.ID, bob.ID)
	assert.EqualError(t, err, "Friend request does not exist")
}

func TestRemoveFriendship(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	makeFriends(t, db, alice, bob)

	require.NoError(t, repo.SetNickname(alice.ID, bob.ID, "Bobby"))
	require.NoError(t, repo.SetNickname(bob.ID, alice.ID, "Al"))

	require.NoError(t, repo.Remove(bob.ID, alice.ID))

	friends, err := repo.AreFriends(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, friends)

	// Nicknames on both sides go with the friendship.
	nickname, err := repo.GetNickname(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, nickname)
	nickname, err = repo.GetNickname(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, nickname)

	err = repo.Remove(alice.ID, bob.ID)
	assert.EqualError(t, err, "Users are not friends")
}

func TestRemoveAllFriendships(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	makeFriends(t, db, alice, bob)
	makeFriends(t, db, carol, alice)
	makeFriends(t, db, bob, carol)
	require.NoError(t, repo.SetNickname(bob.ID, alice.ID, "Al"))

	require.NoError(t, repo.RemoveAll(alice.ID))

	friends, err := repo.GetFriends(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)

	// Friendships not involving alice survive.
	stillFriends, err := repo.AreFriends(bob.ID, carol.ID)
	require.NoError(t, err)
	assert.True(t, stillFriends)

	nickname, err := repo.GetNickname(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, nickname)

	// No friendships left is fine.
	require.NoError(t, repo.RemoveAll(alice.ID))
}

func TestGetFriendsOrderedWithNicknames(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	dave := createUser(t, db, "dave")
	carol := createUser(t, db, "carol")
	bob := createUser(t, db, "bob")
	makeFriends(t, db, dave, carol)
	makeFriends(t, db, bob, dave)
	require.NoError(t, repo.SetNickname(dave.ID, carol.ID, "CC"))

	friends, err := repo.GetFriends(dave.ID)
	require.NoError(t, err)
	require.Len(t, friends, 2)
	assert.Equal(t, "bob", friends[0].User.Username)
	assert.Equal(t, "carol", friends[1].User.Username)
	assert.Empty(t, friends[0].Nickname)
	assert.Equal(t, "CC", friends[1].Nickname)
}

func TestNicknames(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	makeFriends(t, db, alice, bob)

	// Unset reads as empty.
	nickname, err := repo.GetNickname(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, nickname)

	require.NoError(t, repo.SetNickname(alice.ID, bob.ID, "Bobby"))
	nickname, err = repo.GetNickname(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bobby", nickname)

	// Nicknames are directional.
	nickname, err = repo.GetNickname(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, nickname)

	// Surrounding whitespace is stripped before storing.
	require.NoError(t, repo.SetNickname(alice.ID, bob.ID, "  Robert  "))
	nickname, err = repo.GetNickname(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "Robert", nickname)

	// Setting an empty nickname clears it.
	require.NoError(t, repo.SetNickname(alice.ID, bob.ID, "   "))
	nickname, err = repo.GetNickname(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, nickname)

	// Clearing an absent nickname is a no-op.
	require.NoError(t, repo.SetNickname(alice.ID, bob.ID, ""))

	err = repo.SetNickname(alice.ID, bob.ID, strings.Repeat("n", 101))
	assert.EqualError(t, err, "Nickname must be between 1 and 100 characters")
}

func TestAreFriendsWithSelf(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFriendshipRepository(db)
	alice := createUser(t, db, "alice")

	friends, err := repo.AreFriends(alice.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, friends)
}
