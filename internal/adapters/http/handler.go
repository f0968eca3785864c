package http

import (
	"context"
	"time"

	"campus-marketplace/internal/domain/saved"
	"campus-marketplace/internal/domain/shared"
	"campus-marketplace/internal/ports/inbound"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HTTPHandler serves the JSON API
type HTTPHandler struct {
	catalog         inbound.CatalogService
	saved           inbound.SavedItemService
	recommendations inbound.RecommendationService
	admin           inbound.AdminService
	profiles        inbound.ProfileService
	pickups         inbound.PickupService
	now             func() time.Time
	logger          zerolog.Logger
}

type HTTPHandlerParams struct {
	CatalogService        inbound.CatalogService
	SavedItemService      inbound.SavedItemService
	RecommendationService inbound.RecommendationService
	AdminService          inbound.AdminService
	ProfileService        inbound.ProfileService
	PickupService         inbound.PickupService
	Logger                zerolog.Logger
}

func NewHTTPHandler(params HTTPHandlerParams) *HTTPHandler {
	return &HTTPHandler{
		catalog:         params.CatalogService,
		saved:           params.SavedItemService,
		recommendations: params.RecommendationService,
		admin:           params.AdminService,
		profiles:        params.ProfileService,
		pickups:         params.PickupService,
		now:             time.Now,
		logger:          params.Logger.With().Str("component", "http_handler").Logger(),
	}
}

func (h *HTTPHandler) RegisterRoutes(router gin.IRouter) {
	api := router.Group("/api")
	{
		api.GET("/items", h.SearchItems)
		api.GET("/items/recent", h.RecentItems)
		api.GET("/items/:id", h.GetItem)
		api.POST("/items", RequireSession(), h.CreateItem)
		api.PUT("/items/:id", RequireSession(), h.UpdateItem)
		api.DELETE("/items/:id", RequireSession(), h.DeleteItem)

		api.GET("/pickup-points", h.PickupPoints)
	}

	me := api.Group("/me", RequireSession())
	{
		me.GET("/profile", h.GetProfile)
		me.PUT("/profile", h.UpdateProfile)
		me.GET("/listings", h.MyListings)
		me.GET("/saved", h.SavedItems)
		me.GET("/saved/:id", h.IsSaved)
		me.POST("/saved/:id/toggle", h.ToggleSaved)
		me.GET("/recommendations", h.Recommendations)
	}

	admin := api.Group("/admin", RequireSession())
	{
		admin.GET("/items", h.AdminItems)
		admin.GET("/users", h.AdminUsers)
		admin.GET("/stats", h.AdminStats)
		admin.DELETE("/items/:id", h.AdminDeleteItem)
	}
}

func parseItemID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, shared.ErrInvalidItemID
	}
	return id, nil
}

// savedSet loads the caller's saved ids for marking cards. Anonymous callers and
// failed reads get no marks.
func (h *HTTPHandler) savedSet(ctx context.Context, sess *shared.Session) *saved.Set {
	if !sess.Authenticated() || h.saved == nil {
		return nil
	}
	set, err := h.saved.Load(ctx, sess)
	if err != nil {
		h.logger.Warn().Err(err).Str("user_id", sess.UserID.String()).Msg("Failed to load saved items for cards")
		return nil
	}
	return set
}
