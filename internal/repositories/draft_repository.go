package repositories

import (
	"errors"

	"github.com/notepass/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DraftRepository defines the interface for draft note data operations.
type DraftRepository interface {
	Create(userID uint, recipientID *uint, text string) (*models.DraftNote, error)
	Get(id uint) (*models.DraftNote, error)
	GetAllForUser(userID uint) ([]models.DraftNote, error)
	Edit(draft *models.DraftNote, recipientID *uint, text *string) error
	Delete(draft *models.DraftNote) error
	DeleteAllForUser(userID uint) error
	Send(draft *models.DraftNote) (*models.Note, error)
}

// PostgresDraftRepository implements DraftRepository for PostgreSQL
type PostgresDraftRepository struct {
	db          *gorm.DB
	friendships FriendshipRepository
}

// NewPostgresDraftRepository creates a new PostgresDraftRepository
func NewPostgresDraftRepository(db *gorm.DB, friendships FriendshipRepository) *PostgresDraftRepository {
	return &PostgresDraftRepository{db: db, friendships: friendships}
}

func (r *PostgresDraftRepository) checkRecipient(userID, recipientID uint) error {
	friends, err := r.friendships.AreFriends(userID, recipientID)
	if err != nil {
		return err
	}
	if !friends {
		return models.ErrInvalidOperation("Can only send notes to friends")
	}
	return nil
}

// Create validates and inserts a new draft. A recipient, when given, must be
// a friend of the owner; any violation fails with no partial write.
func (r *PostgresDraftRepository) Create(userID uint, recipientID *uint, text string) (*models.DraftNote, error) {
	draft, err := models.NewDraftNote(userID, recipientID, text)
	if err != nil {
		return nil, err
	}

	if recipientID != nil {
		if err := r.checkRecipient(userID, *recipientID); err != nil {
			return nil, err
		}
	}

	if err := r.db.Create(draft).Error; err != nil {
		return nil, err
	}
	return r.Get(draft.ID)
}

// Get returns the requested draft with the owner and recipient preloaded, or
// nil if it doesn't exist.
func (r *PostgresDraftRepository) Get(id uint) (*models.DraftNote, error) {
	var draft models.DraftNote
	err := r.db.Preload("User").Preload("Recipient").First(&draft, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// GetAllForUser returns the user's drafts, oldest first.
func (r *PostgresDraftRepository) GetAllForUser(userID uint) ([]models.DraftNote, error) {
	var drafts []models.DraftNote
	err := r.db.Preload("User").Preload("Recipient").Where("user_id = ?", userID).Order("id").Find(&drafts).Error
	if err != nil {
		return nil, err
	}
	return drafts, nil
}

// Edit updates the draft in place. Only fields that are provided and differ
// from the current values are re-validated and rewritten; a recipient change
// re-checks the friendship constraint.
func (r *PostgresDraftRepository) Edit(draft *models.DraftNote, recipientID *uint, text *string) error {
	changed := false

	if recipientID != nil && (draft.RecipientID == nil || *draft.RecipientID != *recipientID) {
		if err := r.checkRecipient(draft.UserID, *recipientID); err != nil {
			return err
		}
		if err := draft.SetRecipientID(recipientID); err != nil {
			return err
		}
		draft.Recipient = nil // stale preload
		changed = true
	}

	if text != nil && *text != draft.Text {
		if err := draft.SetText(*text); err != nil {
			return err
		}
		changed = true
	}

	if !changed {
		return nil
	}
	if err := r.db.Omit(clause.Associations).Save(draft).Error; err != nil {
		return err
	}
	reloaded, err := r.Get(draft.ID)
	if err != nil {
		return err
	}
	*draft = *reloaded
	return nil
}

// Delete discards the given draft.
func (r *PostgresDraftRepository) Delete(draft *models.DraftNote) error {
	return r.db.Delete(draft).Error
}

// DeleteAllForUser discards every draft of the given user. No-op when the
// user has no drafts.
func (r *PostgresDraftRepository) DeleteAllForUser(userID uint) error {
	var count int64
	err := r.db.Model(&models.DraftNote{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	return r.db.Where("user_id = ?", userID).Delete(&models.DraftNote{}).Error
}

// Send promotes the draft to a sent note and deletes the draft, in one
// transaction. The draft must pass the full note validation first.
func (r *PostgresDraftRepository) Send(draft *models.DraftNote) (*models.Note, error) {
	if !draft.IsReadyToSend() {
		return nil, models.ErrInvalidOperation("Draft is not ready to send")
	}

	note, err := models.NewNote(draft.UserID, *draft.RecipientID, draft.Text)
	if err != nil {
		return nil, err
	}
	if err := r.checkRecipient(draft.UserID, *draft.RecipientID); err != nil {
		return nil, err
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(note).Error; err != nil {
			return err
		}
		return tx.Delete(draft).Error
	})
	if err != nil {
		return nil, err
	}

	var sent models.Note
	if err := r.db.Preload("Sender").Preload("Recipient").First(&sent, note.ID).Error; err != nil {
		return nil, err
	}
	return &sent, nil
}
