package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminItems lists every item for moderation
func (h *HTTPHandler) AdminItems(c *gin.Context) {
	items, err := h.admin.ListItems(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	cards := newItemCards(items, nil, h.now())
	c.JSON(http.StatusOK, gin.H{"items": cards, "count": len(cards)})
}

func (h *HTTPHandler) AdminUsers(c *gin.Context) {
	users, err := h.admin.ListUsers(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

func (h *HTTPHandler) AdminStats(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// AdminDeleteItem removes any item together with its saved references
func (h *HTTPHandler) AdminDeleteItem(c *gin.Context) {
	id, err := parseItemID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.admin.DeleteItem(c.Request.Context(), sessionFrom(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted", "item_id": id})
}
