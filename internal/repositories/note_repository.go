package repositories

import (
	"errors"

	"github.com/notepass/backend/internal/models"
	"gorm.io/gorm"
)

// NoteRepository defines the interface for note data operations. Per-viewer
// state (favorites, soft-deletes) is returned as NoteView projections rather
// than mutated onto the shared Note rows.
type NoteRepository interface {
	Create(senderID, recipientID uint, text string) (*models.Note, error)
	Get(id uint) (*models.Note, error)
	GetAll(userID uint) ([]models.NoteView, error)
	GetDeleted(userID uint) ([]models.NoteView, error)
	ToggleFavorite(userID, noteID uint) (bool, error)
	DeleteForUser(userID, noteID uint) error
	UndeleteForUser(userID, noteID uint) error
	Unsend(noteID uint) error
	UnsendAll(senderID uint) error
	DeleteAllReceived(userID uint) error
}

// PostgresNoteRepository implements NoteRepository for PostgreSQL
type PostgresNoteRepository struct {
	db          *gorm.DB
	friendships FriendshipRepository
}

// NewPostgresNoteRepository creates a new PostgresNoteRepository
func NewPostgresNoteRepository(db *gorm.DB, friendships FriendshipRepository) *PostgresNoteRepository {
	return &PostgresNoteRepository{db: db, friendships: friendships}
}

// Create validates and inserts a new note. Notes can only be sent between
// friends.
func (r *PostgresNoteRepository) Create(senderID, recipientID uint, text string) (*models.Note, error) {
	note, err := models.NewNote(senderID, recipientID, text)
	if err != nil {
		return nil, err
	}

	friends, err := r.friendships.AreFriends(senderID, recipientID)
	if err != nil {
		return nil, err
	}
	if !friends {
		return nil, models.ErrInvalidOperation("Can only send notes to friends")
	}

	if err := r.db.Create(note).Error; err != nil {
		return nil, err
	}
	return r.Get(note.ID)
}

// Get returns the requested note with sender and recipient preloaded, or nil
// if it doesn't exist.
func (r *PostgresNoteRepository) Get(id uint) (*models.Note, error) {
	var note models.Note
	err := r.db.Preload("Sender").Preload("Recipient").First(&note, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// favoriteIDs returns the set of note ids the user has favorited.
func (r *PostgresNoteRepository) favoriteIDs(userID uint) (map[uint]bool, error) {
	var favorites []models.FavoriteNote
	if err := r.db.Where("user_id = ?", userID).Find(&favorites).Error; err != nil {
		return nil, err
	}
	ids := make(map[uint]bool, len(favorites))
	for _, favorite := range favorites {
		ids[favorite.NoteID] = true
	}
	return ids, nil
}

func (r *PostgresNoteRepository) deletedSubquery(userID uint) *gorm.DB {
	return r.db.Model(&models.DeletedNote{}).Select("note_id").Where("user_id = ?", userID)
}

// GetAll returns every note the user sent or received and has not
// soft-deleted, annotated with the user's favorite flag, most recent first.
func (r *PostgresNoteRepository) GetAll(userID uint) ([]models.NoteView, error) {
	var notes []models.Note
	err := r.db.Preload("Sender").Preload("Recipient").
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Where("notes.id NOT IN (?)", r.deletedSubquery(userID)).
		Order("time_sent DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return r.annotate(userID, notes, false)
}

// GetDeleted is the complementary view: only the notes the user has
// soft-deleted, most recent first.
func (r *PostgresNoteRepository) GetDeleted(userID uint) ([]models.NoteView, error) {
	var notes []models.Note
	err := r.db.Preload("Sender").Preload("Recipient").
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Where("notes.id IN (?)", r.deletedSubquery(userID)).
		Order("time_sent DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return r.annotate(userID, notes, true)
}

func (r *PostgresNoteRepository) annotate(userID uint, notes []models.Note, deleted bool) ([]models.NoteView, error) {
	favorites, err := r.favoriteIDs(userID)
	if err != nil {
		return nil, err
	}
	views := make([]models.NoteView, 0, len(notes))
	for _, note := range notes {
		views = append(views, models.NoteView{
			Note:       note,
			IsFavorite: favorites[note.ID],
			IsDeleted:  deleted,
		})
	}
	return views, nil
}

// ToggleFavorite flips the user's favorite flag on the note and returns the
// new state. Repeated toggles alternate state.
func (r *PostgresNoteRepository) ToggleFavorite(userID, noteID uint) (bool, error) {
	var favorite models.FavoriteNote
	err := r.db.Where("user_id = ? AND note_id = ?", userID, noteID).First(&favorite).Error
	if err == nil {
		if err := r.db.Delete(&favorite).Error; err != nil {
			return false, err
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	create := r.db.Create(&models.FavoriteNote{UserID: userID, NoteID: noteID}).Error
	if create != nil && !errors.Is(create, gorm.ErrDuplicatedKey) {
		return false, create
	}
	return true, nil
}

// DeleteForUser soft-deletes the note for the given user only. Idempotent:
// deleting an already-deleted note is a no-op.
func (r *PostgresNoteRepository) DeleteForUser(userID, noteID uint) error {
	err := r.db.Create(&models.DeletedNote{UserID: userID, NoteID: noteID}).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	return nil
}

// UndeleteForUser removes the user's soft-delete of the note. Idempotent:
// restoring a note that is not deleted is a no-op.
func (r *PostgresNoteRepository) UndeleteForUser(userID, noteID uint) error {
	return r.db.Where("user_id = ? AND note_id = ?", userID, noteID).
		Delete(&models.DeletedNote{}).Error
}

// Unsend hard-deletes the note for all parties. The favorite and soft-delete
// child rows are removed first, in the same transaction, so a failure cannot
// leave them referencing a missing note.
func (r *PostgresNoteRepository) Unsend(noteID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return unsendNotes(tx, []uint{noteID})
	})
}

// UnsendAll hard-deletes every note the user has sent. No-op when the user
// has no sent notes.
func (r *PostgresNoteRepository) UnsendAll(senderID uint) error {
	var ids []uint
	err := r.db.Model(&models.Note{}).Where("sender_id = ?", senderID).Pluck("id", &ids).Error
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return unsendNotes(tx, ids)
	})
}

func unsendNotes(tx *gorm.DB, ids []uint) error {
	if err := tx.Where("note_id IN ?", ids).Delete(&models.FavoriteNote{}).Error; err != nil {
		return err
	}
	if err := tx.Where("note_id IN ?", ids).Delete(&models.DeletedNote{}).Error; err != nil {
		return err
	}
	result := tx.Where("id IN ?", ids).Delete(&models.Note{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrInvalidOperation("Note does not exist")
	}
	return nil
}

// DeleteAllReceived soft-deletes every note the user has received, in one
// transaction. No-op when there is nothing left to delete.
func (r *PostgresNoteRepository) DeleteAllReceived(userID uint) error {
	var ids []uint
	err := r.db.Model(&models.Note{}).
		Where("recipient_id = ?", userID).
		Where("notes.id NOT IN (?)", r.deletedSubquery(userID)).
		Pluck("id", &ids).Error
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	rows := make([]models.DeletedNote, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, models.DeletedNote{UserID: userID, NoteID: id})
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
}
