package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"messenger-service/internal/models"
	"messenger-service/internal/presence"
	"messenger-service/internal/repositories"
)

// ChatHandler manages the chat REST endpoints.
type ChatHandler struct {
	chats     repositories.ChatRepository
	messages  repositories.MessageStore
	contacts  repositories.ContactRepository
	presences presence.Store
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(chats repositories.ChatRepository, messages repositories.MessageStore, contacts repositories.ContactRepository, presences presence.Store) *ChatHandler {
	return &ChatHandler{chats: chats, messages: messages, contacts: contacts, presences: presences}
}

// ListChats returns the caller's chats with last-message summary, unread count
// and per-peer presence.
func (h *ChatHandler) ListChats(c *gin.Context) {
	userID := c.GetString("userID")

	chats, err := h.chats.ListChats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chats"})
		return
	}

	type peerResponse struct {
		UserID     string           `json:"user_id"`
		Presence   *models.Presence `json:"presence,omitempty"`
		CustomName string           `json:"custom_name,omitempty"`
	}
	type chatResponse struct {
		models.ChatSummary
		Peers []peerResponse `json:"peers"`
	}

	responses := make([]chatResponse, 0, len(chats))
	for _, chat := range chats {
		resp := chatResponse{ChatSummary: chat}
		for _, peerID := range chat.PeerIDs {
			peer := peerResponse{UserID: peerID}
			if p, err := h.presences.Get(c.Request.Context(), peerID); err == nil {
				peer.Presence = &p
			}
			if contact, ok, err := h.contacts.GetContact(c.Request.Context(), userID, peerID); err == nil && ok {
				peer.CustomName = strings.TrimSpace(contact.FirstName + " " + contact.LastName)
			}
			resp.Peers = append(resp.Peers, peer)
		}
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, gin.H{"chats": responses})
}

// StartChat creates or returns the 1-on-1 chat between the caller and a peer
// and records the peer as a named contact.
func (h *ChatHandler) StartChat(c *gin.Context) {
	var req struct {
		PeerID    string `json:"peer_id" binding:"required"`
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("userID")
	if userID == req.PeerID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot chat with yourself"})
		return
	}

	chat, created, err := h.chats.CreateOrGetChat(c.Request.Context(), userID, req.PeerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create chat"})
		return
	}

	if err := h.contacts.AddContact(c.Request.Context(), models.Contact{
		OwnerID:   userID,
		ContactID: req.PeerID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save contact"})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"chat_id": chat.ID, "created": created})
}

// GetChatMessages returns the chat history for a participant.
func (h *ChatHandler) GetChatMessages(c *gin.Context) {
	chatID := c.Param("chat_id")
	userID := c.GetString("userID")

	member, err := h.chats.IsParticipant(c.Request.Context(), chatID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify membership"})
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a chat member"})
		return
	}

	msgs, err := h.messages.GetChatMessages(c.Request.Context(), chatID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}
