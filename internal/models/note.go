package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxNoteLength bounds the text of notes and drafts.
const MaxNoteLength = 10000

// Note is a sent note. It is immutable once created; everything viewer
// specific (favorites, soft-deletes) lives in its own table.
type Note struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	SenderID    uint      `json:"sender_id" gorm:"not null;index"`
	RecipientID uint      `json:"recipient_id" gorm:"not null;index"`
	Text        string    `json:"text" gorm:"size:10000;not null"`
	TimeSent    time.Time `json:"time_sent" gorm:"type:timestamp;not null"`

	Sender    User `json:"-" gorm:"foreignKey:SenderID"`
	Recipient User `json:"-" gorm:"foreignKey:RecipientID"`
}

// NewNote builds a validated note and stamps the send time. The time is
// stored without a timezone; it is always UTC by convention.
func NewNote(senderID, recipientID uint, text string) (*Note, error) {
	if senderID == recipientID {
		return nil, ErrInvalidOperation("Cannot send note to yourself")
	}
	n := &Note{SenderID: senderID, RecipientID: recipientID}
	if err := n.SetText(text); err != nil {
		return nil, err
	}
	n.TimeSent = time.Now().UTC()
	return n, nil
}

// SetText validates and sets the note text. The length bound counts
// characters, not bytes.
func (n *Note) SetText(text string) error {
	if len(text) == 0 {
		return ErrInvalidOperation("Note text cannot be blank")
	}
	if utf8.RuneCountInString(text) > MaxNoteLength {
		return ErrInvalidOperation("Max note length exceeded")
	}
	if strings.TrimSpace(text) == "" {
		return ErrInvalidOperation("Note text cannot be all whitespace")
	}
	n.Text = text
	return nil
}

// PublicNote is the externally safe projection of a note, annotated with the
// viewing user's favorite and soft-delete state.
type PublicNote struct {
	ID         uint       `json:"id"`
	Sender     PublicUser `json:"sender"`
	Recipient  PublicUser `json:"recipient"`
	Text       string     `json:"text"`
	TimeSent   string     `json:"timeSent"`
	IsFavorite bool       `json:"isFavorite"`
	IsDeleted  bool       `json:"isDeleted"`
}

// NoteView is a note as seen by one user: the shared row plus that user's
// favorite and soft-delete marks. Views are constructed by the query layer;
// the Note itself never carries viewer state.
type NoteView struct {
	Note       Note
	IsFavorite bool
	IsDeleted  bool
}

// ToPublic returns the externally safe projection of this view.
func (v NoteView) ToPublic() PublicNote {
	return PublicNote{
		ID:         v.Note.ID,
		Sender:     v.Note.Sender.ToPublic(),
		Recipient:  v.Note.Recipient.ToPublic(),
		Text:       v.Note.Text,
		TimeSent:   v.Note.TimeSent.UTC().Format(time.RFC3339),
		IsFavorite: v.IsFavorite,
		IsDeleted:  v.IsDeleted,
	}
}

// FavoriteNote marks that a user has favorited a note. Existence only.
type FavoriteNote struct {
	UserID uint `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	NoteID uint `json:"note_id" gorm:"primaryKey;autoIncrement:false"`
}

// DeletedNote marks that a user has soft-deleted a note. The note stays
// fully intact for the other party; deletion is always per-viewer.
type DeletedNote struct {
	UserID uint `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	NoteID uint `json:"note_id" gorm:"primaryKey;autoIncrement:false"`
}

// CreateNoteRequest defines the request body for sending a note.
type CreateNoteRequest struct {
	RecipientID uint   `json:"recipient_id" validate:"required"`
	Text        string `json:"text" validate:"required,max=10000"`
}
