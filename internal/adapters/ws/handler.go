package ws

import (
	"context"
	"net/http"
	"sync"

	"campus-marketplace/internal/domain/search"
	"campus-marketplace/internal/domain/shared"
	"campus-marketplace/internal/ports/inbound"
	"campus-marketplace/internal/ports/outbound"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const eventBufferSize = 100

// TokenParser verifies an access token and returns the caller's session
type TokenParser interface {
	Parse(token string) (*shared.Session, error)
}

// WsHandler manages WebSocket connections and message routing
type WsHandler struct {
	clients     map[string]*WsClient // clientID -> Client
	clientsMu   sync.RWMutex
	upgrader    websocket.Upgrader
	catalog     inbound.CatalogService
	saved       inbound.SavedItemService
	broadcaster outbound.Broadcaster
	verifier    TokenParser
	logger      zerolog.Logger
}

type WsHandlerParams struct {
	Upgrader         websocket.Upgrader
	CatalogService   inbound.CatalogService
	SavedItemService inbound.SavedItemService
	Broadcaster      outbound.Broadcaster
	Verifier         TokenParser
	Logger           zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(params WsHandlerParams) *WsHandler {
	return &WsHandler{
		clients:     make(map[string]*WsClient),
		upgrader:    params.Upgrader,
		catalog:     params.CatalogService,
		saved:       params.SavedItemService,
		broadcaster: params.Broadcaster,
		verifier:    params.Verifier,
		logger:      params.Logger.With().Str("component", "ws_handler").Logger(),
	}
}

// HandleWebSocket handles WebSocket connection upgrades. The access token is
// optional; anonymous clients may watch the feed and search.
func (handler *WsHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	var sess *shared.Session
	if token := r.URL.Query().Get("token"); token != "" {
		parsed, err := handler.verifier.Parse(token)
		if err != nil {
			handler.logger.Warn().Err(err).Msg("Rejected WebSocket access token")
			http.Error(w, shared.ErrInvalidToken.Error(), http.StatusUnauthorized)
			return
		}
		sess = parsed
	}

	conn, err := handler.upgrader.Upgrade(w, r, nil)
	if err != nil {
		handler.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	client := NewClient(WsClientParams{
		Session: sess,
		Conn:    conn,
		Handler: handler,
		Logger:  handler.logger,
	})

	handler.registerClient(client)
	client.Start()

	// Wait for client to disconnect
	go func() {
		<-client.ctx.Done()
		handler.unregisterClient(client)
	}()

	handler.logger.Info().Str("client_id", client.id).Bool("authenticated", sess.Authenticated()).Msg("WebSocket client connected")
}

func (handler *WsHandler) registerClient(client *WsClient) {
	handler.clientsMu.Lock()
	defer handler.clientsMu.Unlock()
	handler.clients[client.id] = client
	handler.logger.Debug().Str("client_id", client.id).Int("total_clients", len(handler.clients)).Msg("Client registered")
}

func (handler *WsHandler) unregisterClient(client *WsClient) {
	handler.clientsMu.Lock()
	delete(handler.clients, client.id)
	total := len(handler.clients)
	handler.clientsMu.Unlock()

	// Closes the client's event channel, which ends its listener
	if err := handler.broadcaster.Unsubscribe(context.Background(), outbound.TopicItems, client.id); err != nil {
		handler.logger.Error().Err(err).Str("client_id", client.id).Msg("Failed to unsubscribe disconnected client")
	}

	client.Stop()

	handler.logger.Info().Str("client_id", client.id).Int("total_clients", total).Msg("WebSocket client disconnected")
}

// GetConnectedClients returns the number of connected clients
func (handler *WsHandler) GetConnectedClients() int {
	handler.clientsMu.RLock()
	defer handler.clientsMu.RUnlock()
	return len(handler.clients)
}

func (handler *WsHandler) HandleClientMessage(client *WsClient, msg *ClientMessage) error {
	switch msg.Type {
	case MessageTypeSubscribeItems:
		return handler.handleSubscribe(client, msg)

	case MessageTypeUnsubscribeItems:
		return handler.handleUnsubscribe(client, msg)

	case MessageTypeSearch:
		return handler.handleSearch(client, msg)

	case MessageTypeToggleSave:
		return handler.handleToggleSave(client, msg)

	default:
		handler.logger.Warn().Str("client_id", client.id).Str("message_type", string(msg.Type)).Msg("Unknown message type from client")
		return shared.ErrUnknownMessageType
	}
}

// listenForClientEvents forwards feed events until the channel is closed by an
// unsubscribe or the client goes away
func (handler *WsHandler) listenForClientEvents(client *WsClient, events <-chan outbound.Event) {
	handler.logger.Debug().Str("client_id", client.id).Msg("Event listener started for client")

	for {
		select {
		case event, ok := <-events:
			if !ok {
				handler.logger.Debug().Str("client_id", client.id).Msg("Event channel closed, stopping event listener")
				return
			}

			wsMessage := handler.convertEventToMessage(client, event)
			if wsMessage == nil {
				continue
			}

			if err := client.Send(wsMessage); err != nil {
				handler.logger.Error().Err(err).Str("client_id", client.id).Msg("Failed to send event to WebSocket client")
			}

		case <-client.ctx.Done():
			handler.logger.Debug().Str("client_id", client.id).Msg("Client disconnected, stopping event listener")
			return
		}
	}
}

// convertEventToMessage returns nil for events the client should not see
func (handler *WsHandler) convertEventToMessage(client *WsClient, event outbound.Event) *ServerMessage {
	switch event.Type {
	case outbound.EventTypeItemCreated:
		if filter := client.currentFilter(); filter != nil {
			it, err := itemFromEvent(event.Data)
			if err != nil {
				handler.logger.Error().Err(err).Str("item_id", event.ItemID.String()).Msg("Failed to decode item event")
				return nil
			}
			if !filter.Matches(it) {
				return nil
			}
		}
		itemID := event.ItemID
		return &ServerMessage{
			Type:      MessageTypeItemCreated,
			ItemID:    &itemID,
			Data:      event.Data,
			Timestamp: event.Timestamp,
		}
	case outbound.EventTypeItemDeleted:
		itemID := event.ItemID
		return &ServerMessage{
			Type:      MessageTypeItemDeleted,
			ItemID:    &itemID,
			Timestamp: event.Timestamp,
		}
	default:
		handler.logger.Debug().Str("event_type", string(event.Type)).Msg("Ignoring event")
		return nil
	}
}

// handleSubscribe starts (or re-filters) the client's item feed
func (handler *WsHandler) handleSubscribe(client *WsClient, msg *ClientMessage) error {
	var filter *search.Spec
	if msg.Spec != nil {
		spec := msg.Spec.Normalize()
		filter = &spec
	}

	client.subMu.Lock()
	defer client.subMu.Unlock()

	client.filter = filter

	if !handler.broadcaster.IsSubscribed(client.ctx, outbound.TopicItems, client.id) {
		events := make(chan outbound.Event, eventBufferSize)
		if err := handler.broadcaster.Subscribe(client.ctx, outbound.TopicItems, client.id, events); err != nil {
			handler.logger.Error().Err(err).Str("client_id", client.id).Msg("Failed to subscribe to item feed")
			return err
		}
		go handler.listenForClientEvents(client, events)
	}

	response := NewServerMessage(MessageTypeSubscribed)
	response.RequestID = msg.RequestID
	if filter != nil {
		response.Data["filter"] = filter
	}

	handler.logger.Info().Str("client_id", client.id).Bool("filtered", filter != nil).Msg("Client subscribed to item feed")
	return client.Send(response)
}

// handleUnsubscribe stops the client's item feed
func (handler *WsHandler) handleUnsubscribe(client *WsClient, msg *ClientMessage) error {
	client.subMu.Lock()
	defer client.subMu.Unlock()

	client.filter = nil
	if err := handler.broadcaster.Unsubscribe(client.ctx, outbound.TopicItems, client.id); err != nil {
		return err
	}

	response := NewServerMessage(MessageTypeUnsubscribed)
	response.RequestID = msg.RequestID

	handler.logger.Info().Str("client_id", client.id).Msg("Client unsubscribed from item feed")
	return client.Send(response)
}

// handleSearch runs a search; a newer search from the same client cancels this one
// and results that are no longer the newest are never sent
func (handler *WsHandler) handleSearch(client *WsClient, msg *ClientMessage) error {
	ctx, seq := client.beginSearch()

	var spec search.Spec
	if msg.Spec != nil {
		spec = *msg.Spec
	}

	items, err := handler.catalog.Search(ctx, client.session, spec)
	if ctx.Err() != nil || !client.isLatestSearch(seq) {
		handler.logger.Debug().Str("client_id", client.id).Str("request_id", msg.RequestID).Msg("Dropping stale search")
		return nil
	}
	if err != nil {
		return err
	}

	return client.Send(NewSearchResultsMessage(msg.RequestID, items))
}

// handleToggleSave flips the saved state of an item. Toggles on one connection
// are serialised so the connection's saved set follows the store.
func (handler *WsHandler) handleToggleSave(client *WsClient, msg *ClientMessage) error {
	if !client.session.Authenticated() {
		return shared.ErrAuthRequired
	}
	if _, err := handler.catalog.GetItem(client.ctx, *msg.ItemID); err != nil {
		return err
	}

	client.saveMu.Lock()
	defer client.saveMu.Unlock()

	if client.savedSet == nil {
		set, err := handler.saved.Load(client.ctx, client.session)
		if err != nil {
			return err
		}
		client.savedSet = set
	}

	isSaved, err := handler.saved.Toggle(client.ctx, client.session, client.savedSet, *msg.ItemID)
	if err != nil {
		return err
	}

	response := NewServerMessage(MessageTypeSaveToggled)
	response.RequestID = msg.RequestID
	response.ItemID = msg.ItemID
	response.Data["saved"] = isSaved
	return client.Send(response)
}
