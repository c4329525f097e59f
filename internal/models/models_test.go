package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePair(t *testing.T) {
	a, b := NormalizePair(7, 3)
	assert.Equal(t, uint(3), a)
	assert.Equal(t, uint(7), b)

	a, b = NormalizePair(3, 7)
	assert.Equal(t, uint(3), a)
	assert.Equal(t, uint(7), b)
}

func TestNewFriendshipNormalizes(t *testing.T) {
	friendship, err := NewFriendship(9, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(2), friendship.User1ID)
	assert.Equal(t, uint(9), friendship.User2ID)

	_, err = NewFriendship(4, 4)
	assert.EqualError(t, err, "Cannot be friends with yourself")
}

func TestNewNote(t *testing.T) {
	before := time.Now().UTC()
	note, err := NewNote(1, 2, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", note.Text)
	assert.False(t, note.TimeSent.Before(before))

	_, err = NewNote(1, 1, "hello")
	assert.EqualError(t, err, "Cannot send note to yourself")
}

func TestNoteSetText(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"", "Note text cannot be blank"},
		{strings.Repeat("a", MaxNoteLength+1), "Max note length exceeded"},
		{strings.Repeat("你", MaxNoteLength+1), "Max note length exceeded"},
		{"  \t\n ", "Note text cannot be all whitespace"},
		{strings.Repeat("a", MaxNoteLength), ""},
		// Length counts characters, so a multi-byte text at the bound fits.
		{strings.Repeat("你", MaxNoteLength), ""},
		{"ok", ""},
	}
	for _, tc := range cases {
		var note Note
		err := note.SetText(tc.text)
		if tc.want == "" {
			assert.NoError(t, err)
			assert.Equal(t, tc.text, note.Text)
		} else {
			assert.EqualError(t, err, tc.want)
			assert.True(t, IsInvalidOperation(err))
		}
	}
}

func TestUserSetUsername(t *testing.T) {
	valid := []string{"abc", "user_name.99", strings.Repeat("z", 30)}
	for _, username := range valid {
		var user User
		assert.NoError(t, user.SetUsername(username), username)
	}

	tooShortOrLong := []string{"", "ab", strings.Repeat("z", 31)}
	for _, username := range tooShortOrLong {
		var user User
		assert.EqualError(t, user.SetUsername(username),
			"Username must be between 3 and 30 characters")
	}

	badChars := []string{"has space", "bad-char", "émile", "semi;colon"}
	for _, username := range badChars {
		var user User
		assert.EqualError(t, user.SetUsername(username),
			"Username must only consist of letters, numbers, underscore, or period")
	}
}

func TestUserSetDisplayName(t *testing.T) {
	var user User
	assert.NoError(t, user.SetDisplayName("Alice"))
	assert.NoError(t, user.SetDisplayName(strings.Repeat("x", 100)))
	// The bound counts characters, so 100 two-byte runes fit.
	assert.NoError(t, user.SetDisplayName(strings.Repeat("é", 100)))
	assert.EqualError(t, user.SetDisplayName(""),
		"Display name must be between 1 and 100 characters")
	assert.EqualError(t, user.SetDisplayName(strings.Repeat("x", 101)),
		"Display name must be between 1 and 100 characters")
	assert.EqualError(t, user.SetDisplayName(strings.Repeat("é", 101)),
		"Display name must be between 1 and 100 characters")
}

func TestFriendNicknameLength(t *testing.T) {
	nickname := FriendNickname{UserID: 1, FriendID: 2}
	assert.NoError(t, nickname.SetNickname(strings.Repeat("ü", 100)))
	assert.EqualError(t, nickname.SetNickname(strings.Repeat("ü", 101)),
		"Nickname must be between 1 and 100 characters")
	assert.EqualError(t, nickname.SetNickname(""),
		"Nickname must be between 1 and 100 characters")
}

func TestDraftSetTextCountsCharacters(t *testing.T) {
	var draft DraftNote
	assert.NoError(t, draft.SetText(strings.Repeat("你", MaxNoteLength)))
	assert.EqualError(t, draft.SetText(strings.Repeat("你", MaxNoteLength+1)),
		"Max note length exceeded")
}

func TestDraftIsReadyToSend(t *testing.T) {
	recipient := uint(2)

	draft, err := NewDraftNote(1, nil, "text, no recipient")
	require.NoError(t, err)
	assert.False(t, draft.IsReadyToSend())

	draft, err = NewDraftNote(1, &recipient, "")
	require.NoError(t, err)
	assert.False(t, draft.IsReadyToSend())

	draft, err = NewDraftNote(1, &recipient, "   ")
	require.NoError(t, err)
	assert.False(t, draft.IsReadyToSend())

	draft, err = NewDraftNote(1, &recipient, "ready")
	require.NoError(t, err)
	assert.True(t, draft.IsReadyToSend())
}

func TestDraftRejectsSelfRecipient(t *testing.T) {
	self := uint(1)
	_, err := NewDraftNote(1, &self, "hi me")
	assert.EqualError(t, err, "Cannot send note to yourself")
}

func TestNoteViewToPublic(t *testing.T) {
	sent := time.Date(2024, 5, 4, 3, 2, 1, 0, time.UTC)
	view := NoteView{
		Note: Note{
			ID:        7,
			Text:      "hi",
			TimeSent:  sent,
			Sender:    User{ID: 1, Username: "alice", DisplayName: "Alice"},
			Recipient: User{ID: 2, Username: "bob", DisplayName: "Bob"},
		},
		IsFavorite: true,
	}

	public := view.ToPublic()
	assert.Equal(t, uint(7), public.ID)
	assert.Equal(t, "alice", public.Sender.Username)
	assert.Equal(t, "bob", public.Recipient.Username)
	assert.Equal(t, "2024-05-04T03:02:01Z", public.TimeSent)
	assert.True(t, public.IsFavorite)
	assert.False(t, public.IsDeleted)
}

func TestDraftToPublic(t *testing.T) {
	recipient := uint(2)
	draft := DraftNote{
		ID:          3,
		UserID:      1,
		RecipientID: &recipient,
		Text:        "almost done",
		User:        User{ID: 1, Username: "alice", DisplayName: "Alice"},
		Recipient:   &User{ID: 2, Username: "bob", DisplayName: "Bob"},
	}

	public := draft.ToPublic()
	assert.Equal(t, uint(3), public.ID)
	assert.Equal(t, "alice", public.User.Username)
	require.NotNil(t, public.Recipient)
	assert.Equal(t, "bob", public.Recipient.Username)
	assert.True(t, public.ReadyToSend)

	// Without a recipient the projection carries an explicit null.
	draft.RecipientID = nil
	draft.Recipient = nil
	public = draft.ToPublic()
	assert.Nil(t, public.Recipient)
	assert.False(t, public.ReadyToSend)
}

func TestFriendInfoToPublic(t *testing.T) {
	info := FriendInfo{
		User:     User{ID: 2, Username: "bob", DisplayName: "Bob", Email: "bob@example.com"},
		Nickname: "Bobby",
	}
	public := info.ToPublic()
	assert.Equal(t, "Bobby", public.Nickname)
	assert.Equal(t, "bob", public.Username)
}
