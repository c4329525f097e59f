package models

import "unicode/utf8"

// DraftNote is a note in progress. It is mutable until it is sent (which
// promotes it to a Note and deletes the draft) or discarded. The recipient is
// nullable because a draft does not need one yet.
type DraftNote struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	UserID      uint   `json:"user_id" gorm:"not null;index"`
	RecipientID *uint  `json:"recipient_id"`
	Text        string `json:"text" gorm:"size:10000;not null;default:''"`

	User      User  `json:"-" gorm:"foreignKey:UserID"`
	Recipient *User `json:"-" gorm:"foreignKey:RecipientID"`
}

// NewDraftNote builds a validated draft. Friendship between the owner and
// recipient is checked by the repository.
func NewDraftNote(userID uint, recipientID *uint, text string) (*DraftNote, error) {
	d := &DraftNote{UserID: userID}
	if err := d.SetRecipientID(recipientID); err != nil {
		return nil, err
	}
	if err := d.SetText(text); err != nil {
		return nil, err
	}
	return d, nil
}

// SetRecipientID validates and sets the recipient.
func (d *DraftNote) SetRecipientID(recipientID *uint) error {
	if recipientID != nil && *recipientID == d.UserID {
		return ErrInvalidOperation("Cannot send note to yourself")
	}
	d.RecipientID = recipientID
	return nil
}

// SetText validates and sets the draft text. Unlike a sent note, a draft may
// be empty or all whitespace; only the length bound applies, counted in
// characters.
func (d *DraftNote) SetText(text string) error {
	if utf8.RuneCountInString(text) > MaxNoteLength {
		return ErrInvalidOperation("Max note length exceeded")
	}
	d.Text = text
	return nil
}

// IsReadyToSend reports whether a note built from the draft's current
// recipient and text would pass all note validation.
func (d *DraftNote) IsReadyToSend() bool {
	if d.RecipientID == nil {
		return false
	}
	_, err := NewNote(d.UserID, *d.RecipientID, d.Text)
	return err == nil
}

// PublicDraft is the externally safe projection of a draft.
type PublicDraft struct {
	ID          uint        `json:"id"`
	User        PublicUser  `json:"user"`
	Recipient   *PublicUser `json:"recipient"`
	Text        string      `json:"text"`
	ReadyToSend bool        `json:"readyToSend"`
}

// ToPublic returns the externally safe projection of this draft. The owner,
// and the recipient when one is set, must have been preloaded.
func (d *DraftNote) ToPublic() PublicDraft {
	pub := PublicDraft{
		ID:          d.ID,
		User:        d.User.ToPublic(),
		Text:        d.Text,
		ReadyToSend: d.IsReadyToSend(),
	}
	if d.Recipient != nil {
		recipient := d.Recipient.ToPublic()
		pub.Recipient = &recipient
	}
	return pub
}

// CreateDraftRequest defines the request body for creating a draft.
type CreateDraftRequest struct {
	RecipientID *uint  `json:"recipient_id"`
	Text        string `json:"text" validate:"max=10000"`
}

// UpdateDraftRequest defines the request body for editing a draft. Absent
// fields are left untouched.
type UpdateDraftRequest struct {
	RecipientID *uint   `json:"recipient_id"`
	Text        *string `json:"text" validate:"omitempty,max=10000"`
}
