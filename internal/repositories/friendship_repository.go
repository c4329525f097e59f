package repositories

import (
	"errors"
	"sort"
	"strings"

	"github.com/notepass/backend/internal/models"
	"gorm.io/gorm"
)

// FriendshipRepository defines the interface for friendship, friend request,
// and friend nickname data operations.
type FriendshipRepository interface {
	AreFriends(user1ID, user2ID uint) (bool, error)
	GetFriends(userID uint) ([]models.FriendInfo, error)
	Remove(user1ID, user2ID uint) error
	RemoveAll(userID uint) error

	HasSentRequest(senderID, recipientID uint) (bool, error)
	GetOutgoingRequests(userID uint) ([]models.User, error)
	GetIncomingRequests(userID uint) ([]models.User, error)
	SendRequest(senderID, recipientID uint) error
	CancelRequest(senderID, recipientID uint) error
	RejectRequest(recipientID, senderID uint) error
	AcceptRequest(senderID, recipientID uint) error

	GetNickname(userID, friendID uint) (string, error)
	SetNickname(userID, friendID uint, nickname string) error
}

// PostgresFriendshipRepository implements FriendshipRepository for PostgreSQL
type PostgresFriendshipRepository struct {
	db *gorm.DB
}

// NewPostgresFriendshipRepository creates a new PostgresFriendshipRepository
func NewPostgresFriendshipRepository(db *gorm.DB) *PostgresFriendshipRepository {
	return &PostgresFriendshipRepository{db: db}
}

func (r *PostgresFriendshipRepository) getFriendship(user1ID, user2ID uint) (*models.Friendship, error) {
	user1ID, user2ID = models.NormalizePair(user1ID, user2ID)
	var friendship models.Friendship
	err := r.db.Where("user1_id = ? AND user2_id = ?", user1ID, user2ID).First(&friendship).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &friendship, nil
}

// AreFriends returns whether the two given users are friends. A user is
// never friends with themselves.
func (r *PostgresFriendshipRepository) AreFriends(user1ID, user2ID uint) (bool, error) {
	if user1ID == user2ID {
		return false, nil
	}
	friendship, err := r.getFriendship(user1ID, user2ID)
	if err != nil {
		return false, err
	}
	return friendship != nil, nil
}

// friendIDs returns the ids of every friend of the given user. The user can
// sit on either side of the stored pair.
func (r *PostgresFriendshipRepository) friendIDs(userID uint) ([]uint, error) {
	var friendships []models.Friendship
	err := r.db.Where("user1_id = ? OR user2_id = ?", userID, userID).Find(&friendships).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(friendships))
	for _, f := range friendships {
		if f.User1ID == userID {
			ids = append(ids, f.User2ID)
		} else {
			ids = append(ids, f.User1ID)
		}
	}
	return ids, nil
}

// GetFriends returns the user's friends annotated with the nicknames the
// user has set for them, ordered by username ascending (byte-wise).
func (r *PostgresFriendshipRepository) GetFriends(userID uint) ([]models.FriendInfo, error) {
	ids, err := r.friendIDs(userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.FriendInfo{}, nil
	}

	var users []models.User
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}

	var nicknames []models.FriendNickname
	if err := r.db.Where("user_id = ?", userID).Find(&nicknames).Error; err != nil {
		return nil, err
	}
	nicknameByFriend := make(map[uint]string, len(nicknames))
	for _, n := range nicknames {
		nicknameByFriend[n.FriendID] = n.Nickname
	}

	friends := make([]models.FriendInfo, 0, len(users))
	for _, u := range users {
		friends = append(friends, models.FriendInfo{User: u, Nickname: nicknameByFriend[u.ID]})
	}
	sort.Slice(friends, func(i, j int) bool {
		return friends[i].User.Username < friends[j].User.Username
	})
	return friends, nil
}

// Remove deletes the friendship between the two given users, along with both
// parties' nicknames for each other so no orphaned nickname rows remain.
func (r *PostgresFriendshipRepository) Remove(user1ID, user2ID uint) error {
	if user1ID == user2ID {
		return models.ErrInvalidOperation("Cannot be friends with yourself")
	}
	friendship, err := r.getFriendship(user1ID, user2ID)
	if err != nil {
		return err
	}
	if friendship == nil {
		return models.ErrInvalidOperation("Users are not friends")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(friendship).Error; err != nil {
			return err
		}
		return tx.Where(
			"(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			user1ID, user2ID, user2ID, user1ID,
		).Delete(&models.FriendNickname{}).Error
	})
}

// RemoveAll deletes every friendship of the given user, with the same
// nickname cleanup as Remove. No-op when the user has no friends.
func (r *PostgresFriendshipRepository) RemoveAll(userID uint) error {
	ids, err := r.friendIDs(userID)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user1_id = ? OR user2_id = ?", userID, userID).
			Delete(&models.Friendship{}).Error
		if err != nil {
			return err
		}
		return tx.Where("user_id = ? OR friend_id = ?", userID, userID).
			Delete(&models.FriendNickname{}).Error
	})
}

func (r *PostgresFriendshipRepository) getRequest(senderID, recipientID uint) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.db.Where("sender_id = ? AND recipient_id = ?", senderID, recipientID).First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// HasSentRequest returns whether the sender has a pending request to the
// recipient. The reverse direction is a different row.
func (r *PostgresFriendshipRepository) HasSentRequest(senderID, recipientID uint) (bool, error) {
	request, err := r.getRequest(senderID, recipientID)
	if err != nil {
		return false, err
	}
	return request != nil, nil
}

// requestCounterparts loads the users on the far side of the matching
// requests, ordered by username ascending.
func (r *PostgresFriendshipRepository) requestCounterparts(where string, userID uint, pick func(models.FriendRequest) uint) ([]models.User, error) {
	var requests []models.FriendRequest
	if err := r.db.Where(where, userID).Find(&requests).Error; err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return []models.User{}, nil
	}
	ids := make([]uint, 0, len(requests))
	for _, request := range requests {
		ids = append(ids, pick(request))
	}
	var users []models.User
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

// GetOutgoingRequests returns the recipients of the user's pending outgoing
// requests, ordered by username ascending.
func (r *PostgresFriendshipRepository) GetOutgoingRequests(userID uint) ([]models.User, error) {
	return r.requestCounterparts("sender_id = ?", userID, func(req models.FriendRequest) uint {
		return req.RecipientID
	})
}

// GetIncomingRequests returns the senders of the user's pending incoming
// requests, ordered by username ascending.
func (r *PostgresFriendshipRepository) GetIncomingRequests(userID uint) ([]models.User, error) {
	return r.requestCounterparts("recipient_id = ?", userID, func(req models.FriendRequest) uint {
		return req.SenderID
	})
}

// SendRequest sends a friend request from the sender to the recipient. Fails
// if they are already friends or an identical pending request exists. A
// pending request in the reverse direction does not block.
func (r *PostgresFriendshipRepository) SendRequest(senderID, recipientID uint) error {
	request, err := models.NewFriendRequest(senderID, recipientID)
	if err != nil {
		return err
	}

	friends, err := r.AreFriends(senderID, recipientID)
	if err != nil {
		return err
	}
	if friends {
		return models.ErrInvalidOperation("Already friends")
	}

	sent, err := r.HasSentRequest(senderID, recipientID)
	if err != nil {
		return err
	}
	if sent {
		return models.ErrInvalidOperation("Friend request has already been sent")
	}

	if err := r.db.Create(request).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrInvalidOperation("Friend request has already been sent")
		}
		return err
	}
	return nil
}

// CancelRequest cancels a pending request from the sender to the recipient.
func (r *PostgresFriendshipRepository) CancelRequest(senderID, recipientID uint) error {
	return r.deleteRequest(senderID, recipientID)
}

// RejectRequest rejects a pending request from the sender to the recipient.
// Same deletion as CancelRequest; only the invoking party differs.
func (r *PostgresFriendshipRepository) RejectRequest(recipientID, senderID uint) error {
	return r.deleteRequest(senderID, recipientID)
}

func (r *PostgresFriendshipRepository) deleteRequest(senderID, recipientID uint) error {
	request, err := r.getRequest(senderID, recipientID)
	if err != nil {
		return err
	}
	if request == nil {
		return models.ErrInvalidOperation("Friend request does not exist")
	}
	return r.db.Delete(request).Error
}

// AcceptRequest accepts a pending request from the sender to the recipient:
// the friendship is inserted and the request deleted in one transaction.
func (r *PostgresFriendshipRepository) AcceptRequest(senderID, recipientID uint) error {
	request, err := r.getRequest(senderID, recipientID)
	if err != nil {
		return err
	}
	if request == nil {
		return models.ErrInvalidOperation("Friend request does not exist")
	}

	friendship, err := models.NewFriendship(senderID, recipientID)
	if err != nil {
		return err
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(friendship).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.ErrInvalidOperation("Already friends")
			}
			return err
		}
		return tx.Delete(request).Error
	})
}

func (r *PostgresFriendshipRepository) getNickname(userID, friendID uint) (*models.FriendNickname, error) {
	var nickname models.FriendNickname
	err := r.db.Where("user_id = ? AND friend_id = ?", userID, friendID).First(&nickname).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &nickname, nil
}

// GetNickname returns the nickname the user has set for their friend, or the
// empty string when none is set.
func (r *PostgresFriendshipRepository) GetNickname(userID, friendID uint) (string, error) {
	nickname, err := r.getNickname(userID, friendID)
	if err != nil {
		return "", err
	}
	if nickname == nil {
		return "", nil
	}
	return nickname.Nickname, nil
}

// SetNickname sets the nickname the user has given their friend. The
// nickname is trimmed first; an empty result clears any stored nickname so
// the table never holds an empty one.
func (r *PostgresFriendshipRepository) SetNickname(userID, friendID uint, nickname string) error {
	nickname = strings.TrimSpace(nickname)

	existing, err := r.getNickname(userID, friendID)
	if err != nil {
		return err
	}

	switch {
	case existing == nil && nickname == "":
		return nil
	case existing == nil:
		row, err := models.NewFriendNickname(userID, friendID, nickname)
		if err != nil {
			return err
		}
		return r.db.Create(row).Error
	case nickname == "":
		return r.db.Delete(existing).Error
	default:
		if err := existing.SetNickname(nickname); err != nil {
			return err
		}
		return r.db.Save(existing).Error
	}
}
