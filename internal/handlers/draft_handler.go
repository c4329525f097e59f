package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/notepass/backend/internal/models"
	"github.com/notepass/backend/internal/repositories"
)

// DraftHandler handles HTTP requests related to draft notes
type DraftHandler struct {
	draftRepository repositories.DraftRepository
}

// NewDraftHandler creates a new DraftHandler
func NewDraftHandler(draftRepo repositories.DraftRepository) *DraftHandler {
	return &DraftHandler{draftRepository: draftRepo}
}

// RegisterDraftRoutes registers draft-related routes
func (h *DraftHandler) RegisterDraftRoutes(g *echo.Group) {
	g.GET("/drafts", h.GetDrafts)
	g.POST("/drafts", h.CreateDraft)
	g.DELETE("/drafts", h.DeleteAllDrafts)
	g.GET("/drafts/:id", h.GetDraft)
	g.PUT("/drafts/:id", h.UpdateDraft)
	g.DELETE("/drafts/:id", h.DeleteDraft)
	g.POST("/drafts/:id/send", h.SendDraft)
}

// ownedDraft loads the draft at :id and checks ownership. Foreign drafts
// are indistinguishable from missing ones.
func (h *DraftHandler) ownedDraft(c echo.Context, userID uint) (*models.DraftNote, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid draft ID")
	}
	draft, err := h.draftRepository.Get(uint(id))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if draft == nil || draft.UserID != userID {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Draft not found")
	}
	return draft, nil
}

// GetDrafts lists the user's drafts
func (h *DraftHandler) GetDrafts(c echo.Context) error {
	userID := getUserIDFromContext(c)

	drafts, err := h.draftRepository.GetAllForUser(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	response := make([]models.PublicDraft, 0, len(drafts))
	for i := range drafts {
		response = append(response, drafts[i].ToPublic())
	}
	return c.JSON(http.StatusOK, response)
}

// GetDraft retrieves a single draft
func (h *DraftHandler) GetDraft(c echo.Context) error {
	userID := getUserIDFromContext(c)
	draft, err := h.ownedDraft(c, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, draft.ToPublic())
}

// CreateDraft creates a new draft, optionally without a recipient yet
func (h *DraftHandler) CreateDraft(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req models.CreateDraftRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	draft, err := h.draftRepository.Create(userID, req.RecipientID, req.Text)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, draft.ToPublic())
}

// UpdateDraft edits a draft in place. Absent fields are left untouched.
func (h *DraftHandler) UpdateDraft(c echo.Context) error {
	userID := getUserIDFromContext(c)
	draft, err := h.ownedDraft(c, userID)
	if err != nil {
		return err
	}

	var req models.UpdateDraftRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.draftRepository.Edit(draft, req.RecipientID, req.Text); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, draft.ToPublic())
}

// DeleteDraft discards a draft
func (h *DraftHandler) DeleteDraft(c echo.Context) error {
	userID := getUserIDFromContext(c)
	draft, err := h.ownedDraft(c, userID)
	if err != nil {
		return err
	}

	if err := h.draftRepository.Delete(draft); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAllDrafts discards every draft of the user
func (h *DraftHandler) DeleteAllDrafts(c echo.Context) error {
	userID := getUserIDFromContext(c)

	if err := h.draftRepository.DeleteAllForUser(userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// SendDraft promotes a ready draft to a sent note and discards the draft
func (h *DraftHandler) SendDraft(c echo.Context) error {
	userID := getUserIDFromContext(c)
	draft, err := h.ownedDraft(c, userID)
	if err != nil {
		return err
	}

	note, err := h.draftRepository.Send(draft)
	if err != nil {
		return domainError(err)
	}

	view := models.NoteView{Note: *note}
	return c.JSON(http.StatusCreated, view.ToPublic())
}
