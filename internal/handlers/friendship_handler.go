package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/notepass/backend/internal/models"
	"github.com/notepass/backend/internal/repositories"
)

// FriendshipHandler handles HTTP requests related to friendships
type FriendshipHandler struct {
	friendshipRepository repositories.FriendshipRepository
	userRepository       repositories.UserRepository
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(friendshipRepo repositories.FriendshipRepository, userRepo repositories.UserRepository) *FriendshipHandler {
	return &FriendshipHandler{
		friendshipRepository: friendshipRepo,
		userRepository:       userRepo,
	}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.GET("/friends", h.GetFriends)
	g.DELETE("/friends", h.RemoveAllFriends)
	g.DELETE("/friends/:id", h.RemoveFriend)
	g.GET("/friends/:id/nickname", h.GetNickname)
	g.PUT("/friends/:id/nickname", h.SetNickname)

	g.GET("/friends/requests/incoming", h.GetIncomingRequests)
	g.GET("/friends/requests/outgoing", h.GetOutgoingRequests)
	g.POST("/friends/requests/:id", h.SendRequest)
	g.DELETE("/friends/requests/:id", h.CancelRequest)
	g.POST("/friends/requests/:id/accept", h.AcceptRequest)
	g.POST("/friends/requests/:id/reject", h.RejectRequest)
}

// targetUserID parses the :id path param and verifies the user exists.
func (h *FriendshipHandler) targetUserID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	user, err := h.userRepository.Get(uint(id))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if user == nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Requested user does not exist")
	}
	return uint(id), nil
}

// GetFriends lists the user's friends with nicknames, username ascending
func (h *FriendshipHandler) GetFriends(c echo.Context) error {
	userID := getUserIDFromContext(c)

	friends, err := h.friendshipRepository.GetFriends(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	response := make([]models.PublicUser, 0, len(friends))
	for _, friend := range friends {
		response = append(response, friend.ToPublic())
	}
	return c.JSON(http.StatusOK, response)
}

// RemoveFriend removes the friendship with the given user
func (h *FriendshipHandler) RemoveFriend(c echo.Context) error {
	userID := getUserIDFromContext(c)
	targetID, err := h.targetUserID(c)
	if err != nil {
		return err
	}

	if err := h.friendshipRepository.Remove(userID, targetID); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveAllFriends removes every friendship of the user
func (h *FriendshipHandler) RemoveAllFriends(c echo.Context) error {
	userID := getUserIDFromContext(c)

	if err := h.friendshipRepository.RemoveAll(userID); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetNickname returns the nickname the user has set for the given friend.
// An empty string means no nickname is set.
func (h *FriendshipHandler) GetNickname(c echo.Context) error {
	userID := getUserIDFromContext(c)
	targetID, err := h.targetUserID(c)
	if err != nil {
		return err
	}

	nickname, err := h.friendshipRepository.GetNickname(userID, targetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"nickname": nickname})
}

// SetNickname sets or clears the nickname for the given friend
func (h *FriendshipHandler) SetNickname(c echo.Context) error {
	userID := getUserIDFromContext(c)
	targetID, err := h.targetUserID(c)
	if err != nil {
		return err
	}

	var req models.SetNicknameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.friendshipRepository.SetNickname(userID, targetID, req.Nickname); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetIncomingRequests lists the senders of pending incoming requests
func (h *FriendshipHandler) GetIncomingRequests(c echo.Context) error {
	return h.listRequests(c, h.friendshipRepository.GetIncomingRequests)
}

// GetOutgoingRequests lists the recipients of pending outgoing requests
func (h *FriendshipHandler) GetOutgoingRequests(c echo.Context) error {
	return h.listRequests(c, h.friendshipRepository.GetOutgoingRequests)
}

func (h *FriendshipHandler) listRequests(c echo.Context, list func(uint) ([]models.User, error)) error {
	userID := getUserIDFromContext(c)

	users, err := list(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	response := make([]models.PublicUser, 0, len(users))
	for _, user := range users {
		response = append(response, user.ToPublic())
	}
	return c.JSON(http.StatusOK, response)
}

// SendRequest sends a friend request to the given user
func (h *FriendshipHandler) SendRequest(c echo.Context) error {
	userID := getUserIDFromContext(c)
	targetID, err := h.targetUserID(c)
	if err != nil {
		return err
	}

	if err := h.friendshipRepository.SendRequest(userID, targetID); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusCreated)
}

// CancelRequest cancels the user's pending request to the given user
func (h *FriendshipHandler) CancelRequest(c echo.Context) error {
	userID := getUserIDFromContext(c)
	targetID, err := h.targetUserID(c)
	if err != nil {
		return err
	}

	if err := h.friendshipRepository.CancelRequest(userID, targetID); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AcceptRequest accepts a pending request from the given user
func (h *FriendshipHandler) AcceptRequest(c echo.Context) error {
	userID := getUserIDFromContext(c)
	targetID, err := h.targetUserID(c)
	if err != nil {
		return err
	}

	if err := h.friendshipRepository.AcceptRequest(targetID, userID); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RejectRequest rejects a pending request from the given user
func (h *FriendshipHandler) RejectRequest(c echo.Context) error {
	userID := getUserIDFromContext(c)
	targetID, err := h.targetUserID(c)
	if err != nil {
		return err
	}

	if err := h.friendshipRepository.RejectRequest(userID, targetID); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
