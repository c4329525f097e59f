package models

import "unicode/utf8"

// Friendship represents an accepted friendship between two users. The pair is
// stored with User1ID < User2ID so there is at most one row per pair
// regardless of the order the ids arrive in.
type Friendship struct {
	User1ID uint `json:"user1_id" gorm:"primaryKey;autoIncrement:false"`
	User2ID uint `json:"user2_id" gorm:"primaryKey;autoIncrement:false"`

	User1 User `json:"-" gorm:"foreignKey:User1ID"`
	User2 User `json:"-" gorm:"foreignKey:User2ID"`
}

// NormalizePair returns the two user ids in stored order.
func NormalizePair(user1ID, user2ID uint) (uint, uint) {
	if user1ID > user2ID {
		return user2ID, user1ID
	}
	return user1ID, user2ID
}

// NewFriendship builds a friendship with normalized pair ordering.
func NewFriendship(user1ID, user2ID uint) (*Friendship, error) {
	if user1ID == user2ID {
		return nil, ErrInvalidOperation("Cannot be friends with yourself")
	}
	user1ID, user2ID = NormalizePair(user1ID, user2ID)
	return &Friendship{User1ID: user1ID, User2ID: user2ID}, nil
}

// FriendRequest represents a pending request to be friends with another
// user. The table only contains active requests: accepting converts the row
// into a Friendship, cancelling or rejecting simply deletes it.
type FriendRequest struct {
	SenderID    uint `json:"sender_id" gorm:"primaryKey;autoIncrement:false"`
	RecipientID uint `json:"recipient_id" gorm:"primaryKey;autoIncrement:false"`

	Sender    User `json:"-" gorm:"foreignKey:SenderID"`
	Recipient User `json:"-" gorm:"foreignKey:RecipientID"`
}

// NewFriendRequest builds a validated friend request.
func NewFriendRequest(senderID, recipientID uint) (*FriendRequest, error) {
	if senderID == recipientID {
		return nil, ErrInvalidOperation("Cannot be friends with yourself")
	}
	return &FriendRequest{SenderID: senderID, RecipientID: recipientID}, nil
}

// FriendNickname is a one-directional nickname a user has set for a friend.
// The table only contains set nicknames: clearing a nickname deletes the row,
// so no empty nickname is ever stored.
type FriendNickname struct {
	UserID   uint   `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	FriendID uint   `json:"friend_id" gorm:"primaryKey;autoIncrement:false"`
	Nickname string `json:"nickname" gorm:"size:100;not null"`

	User   User `json:"-" gorm:"foreignKey:UserID"`
	Friend User `json:"-" gorm:"foreignKey:FriendID"`
}

// NewFriendNickname builds a validated nickname row.
func NewFriendNickname(userID, friendID uint, nickname string) (*FriendNickname, error) {
	if userID == friendID {
		return nil, ErrInvalidOperation("Cannot be friends with yourself")
	}
	n := &FriendNickname{UserID: userID, FriendID: friendID}
	if err := n.SetNickname(nickname); err != nil {
		return nil, err
	}
	return n, nil
}

// SetNickname validates and sets the nickname. The length bound counts
// characters, not bytes.
func (n *FriendNickname) SetNickname(nickname string) error {
	length := utf8.RuneCountInString(nickname)
	if length < 1 || length > 100 {
		return ErrInvalidOperation("Nickname must be between 1 and 100 characters")
	}
	n.Nickname = nickname
	return nil
}

// SetNicknameRequest defines the request body for setting a friend nickname.
// An empty (or all-whitespace) nickname clears the stored one.
type SetNicknameRequest struct {
	Nickname string `json:"nickname" validate:"max=100"`
}
