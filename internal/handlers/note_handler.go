package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/notepass/backend/internal/models"
	"github.com/notepass/backend/internal/repositories"
)

// NoteHandler handles HTTP requests related to sent notes
type NoteHandler struct {
	noteRepository repositories.NoteRepository
}

// NewNoteHandler creates a new NoteHandler
func NewNoteHandler(noteRepo repositories.NoteRepository) *NoteHandler {
	return &NoteHandler{noteRepository: noteRepo}
}

// RegisterNoteRoutes registers note-related routes
func (h *NoteHandler) RegisterNoteRoutes(g *echo.Group) {
	g.GET("/notes", h.GetNotes)
	g.GET("/notes/deleted", h.GetDeletedNotes)
	g.POST("/notes", h.CreateNote)
	g.POST("/notes/:id/favorite", h.ToggleFavorite)
	g.DELETE("/notes/:id", h.DeleteNote)
	g.POST("/notes/:id/restore", h.RestoreNote)
	g.POST("/notes/:id/unsend", h.UnsendNote)
	g.DELETE("/notes/sent", h.UnsendAllNotes)
	g.DELETE("/notes/received", h.DeleteAllReceivedNotes)
}

// visibleNote loads the note at :id and checks the acting user is a party
// to it. Foreign notes are indistinguishable from missing ones.
func (h *NoteHandler) visibleNote(c echo.Context, userID uint) (*models.Note, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid note ID")
	}
	note, err := h.noteRepository.Get(uint(id))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if note == nil || (note.SenderID != userID && note.RecipientID != userID) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Note not found")
	}
	return note, nil
}

func publicNotes(views []models.NoteView) []models.PublicNote {
	response := make([]models.PublicNote, 0, len(views))
	for _, view := range views {
		response = append(response, view.ToPublic())
	}
	return response
}

// GetNotes lists every note the user sent or received and has not deleted,
// most recent first
func (h *NoteHandler) GetNotes(c echo.Context) error {
	userID := getUserIDFromContext(c)

	views, err := h.noteRepository.GetAll(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, publicNotes(views))
}

// GetDeletedNotes lists the notes the user has soft-deleted
func (h *NoteHandler) GetDeletedNotes(c echo.Context) error {
	userID := getUserIDFromContext(c)

	views, err := h.noteRepository.GetDeleted(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, publicNotes(views))
}

// CreateNote sends a new note to a friend
func (h *NoteHandler) CreateNote(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req models.CreateNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	note, err := h.noteRepository.Create(userID, req.RecipientID, req.Text)
	if err != nil {
		return domainError(err)
	}

	view := models.NoteView{Note: *note}
	return c.JSON(http.StatusCreated, view.ToPublic())
}

// ToggleFavorite flips the user's favorite flag on a note
func (h *NoteHandler) ToggleFavorite(c echo.Context) error {
	userID := getUserIDFromContext(c)
	note, err := h.visibleNote(c, userID)
	if err != nil {
		return err
	}

	favorite, err := h.noteRepository.ToggleFavorite(userID, note.ID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"favorite": favorite})
}

// DeleteNote soft-deletes a note for the acting user only
func (h *NoteHandler) DeleteNote(c echo.Context) error {
	userID := getUserIDFromContext(c)
	note, err := h.visibleNote(c, userID)
	if err != nil {
		return err
	}

	if err := h.noteRepository.DeleteForUser(userID, note.ID); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RestoreNote removes the acting user's soft-delete of a note
func (h *NoteHandler) RestoreNote(c echo.Context) error {
	userID := getUserIDFromContext(c)
	note, err := h.visibleNote(c, userID)
	if err != nil {
		return err
	}

	if err := h.noteRepository.UndeleteForUser(userID, note.ID); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UnsendNote hard-deletes a note for all parties. Sender only.
func (h *NoteHandler) UnsendNote(c echo.Context) error {
	userID := getUserIDFromContext(c)
	note, err := h.visibleNote(c, userID)
	if err != nil {
		return err
	}
	if note.SenderID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the sender can unsend a note")
	}

	if err := h.noteRepository.Unsend(note.ID); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UnsendAllNotes hard-deletes every note the user has sent
func (h *NoteHandler) UnsendAllNotes(c echo.Context) error {
	userID := getUserIDFromContext(c)

	if err := h.noteRepository.UnsendAll(userID); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAllReceivedNotes soft-deletes every note the user has received
func (h *NoteHandler) DeleteAllReceivedNotes(c echo.Context) error {
	userID := getUserIDFromContext(c)

	if err := h.noteRepository.DeleteAllReceived(userID); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
