package http

import (
	"net/http"
	"strconv"
	"strings"

	"campus-marketplace/internal/domain/item"
	"campus-marketplace/internal/domain/search"
	"campus-marketplace/internal/domain/shared"

	"github.com/gin-gonic/gin"
)

// SearchItems runs the search page query
func (h *HTTPHandler) SearchItems(c *gin.Context) {
	spec, err := specFromQuery(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	sess := sessionFrom(c)
	items, err := h.catalog.Search(c.Request.Context(), sess, spec)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	cards := newItemCards(items, h.savedSet(c.Request.Context(), sess), h.now())
	c.JSON(http.StatusOK, gin.H{"items": cards, "count": len(cards)})
}

func specFromQuery(c *gin.Context) (search.Spec, error) {
	sort, err := search.ParseSort(c.Query("sort"))
	if err != nil {
		return search.Spec{}, err
	}

	minPrice, err := parsePrice(c.Query("min_price"))
	if err != nil {
		return search.Spec{}, err
	}
	maxPrice, err := parsePrice(c.Query("max_price"))
	if err != nil {
		return search.Spec{}, err
	}

	return search.Spec{
		Term:     c.Query("q"),
		Category: c.Query("category"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     sort,
	}, nil
}

func parsePrice(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, shared.ErrInvalidPriceRange
	}
	return &v, nil
}

// RecentItems returns the home page list
func (h *HTTPHandler) RecentItems(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	items, err := h.catalog.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	cards := newItemCards(items, h.savedSet(c.Request.Context(), sessionFrom(c)), h.now())
	c.JSON(http.StatusOK, gin.H{"items": cards, "count": len(cards)})
}

// GetItem returns the item detail
func (h *HTTPHandler) GetItem(c *gin.Context) {
	id, err := parseItemID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	it, err := h.catalog.GetItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	cards := newItemCards([]*item.Item{it}, h.savedSet(c.Request.Context(), sessionFrom(c)), h.now())
	c.JSON(http.StatusOK, cards[0])
}

// CreateItem lists a new item for the caller
func (h *HTTPHandler) CreateItem(c *gin.Context) {
	var req item.Listing
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	it, err := h.catalog.CreateListing(c.Request.Context(), sessionFrom(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, newItemCard(it, h.now()))
}

// UpdateItem changes a listing; owner or admin only
func (h *HTTPHandler) UpdateItem(c *gin.Context) {
	id, err := parseItemID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req item.Listing
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	it, err := h.catalog.UpdateListing(c.Request.Context(), sessionFrom(c), id, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newItemCard(it, h.now()))
}

// DeleteItem removes a listing; owner or admin only
func (h *HTTPHandler) DeleteItem(c *gin.Context) {
	id, err := parseItemID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.catalog.DeleteListing(c.Request.Context(), sessionFrom(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// PickupPoints suggests meeting places for a hand-over
func (h *HTTPHandler) PickupPoints(c *gin.Context) {
	points, err := h.pickups.List(c.Request.Context(), sessionFrom(c), c.Query("item_location"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pickup_points": newPickupCards(points)})
}
