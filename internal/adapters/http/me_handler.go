package http

import (
	"net/http"

	"campus-marketplace/internal/ports/inbound"

	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) GetProfile(c *gin.Context) {
	profile, err := h.profiles.GetProfile(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *HTTPHandler) UpdateProfile(c *gin.Context) {
	var req inbound.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profiles.UpdateProfile(c.Request.Context(), sessionFrom(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// MyListings returns the caller's own items
func (h *HTTPHandler) MyListings(c *gin.Context) {
	sess := sessionFrom(c)
	items, err := h.catalog.ListMine(c.Request.Context(), sess)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	cards := newItemCards(items, h.savedSet(c.Request.Context(), sess), h.now())
	c.JSON(http.StatusOK, gin.H{"items": cards, "count": len(cards)})
}

// SavedItems returns the items the caller bookmarked
func (h *HTTPHandler) SavedItems(c *gin.Context) {
	items, err := h.saved.ListItems(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	cards := newItemCards(items, nil, h.now())
	for i := range cards {
		isSaved := true
		cards[i].Saved = &isSaved
	}
	c.JSON(http.StatusOK, gin.H{"items": cards, "count": len(cards)})
}

func (h *HTTPHandler) IsSaved(c *gin.Context) {
	id, err := parseItemID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	isSaved, err := h.saved.IsSaved(c.Request.Context(), sessionFrom(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item_id": id, "saved": isSaved})
}

// ToggleSaved flips the saved state of an item. The saved set is read fresh for
// every request.
func (h *HTTPHandler) ToggleSaved(c *gin.Context) {
	id, err := parseItemID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	ctx := c.Request.Context()
	sess := sessionFrom(c)

	if _, err := h.catalog.GetItem(ctx, id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	set, err := h.saved.Load(ctx, sess)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	isSaved, err := h.saved.Toggle(ctx, sess, set, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item_id": id, "saved": isSaved})
}

// Recommendations returns the "picked for you" list; failures yield an empty list
func (h *HTTPHandler) Recommendations(c *gin.Context) {
	sess := sessionFrom(c)
	items, err := h.recommendations.Recommend(c.Request.Context(), sess)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	cards := newItemCards(items, h.savedSet(c.Request.Context(), sess), h.now())
	c.JSON(http.StatusOK, gin.H{"items": cards, "count": len(cards)})
}
