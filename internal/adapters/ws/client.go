package ws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"campus-marketplace/internal/config"
	"campus-marketplace/internal/domain/saved"
	"campus-marketplace/internal/domain/search"
	"campus-marketplace/internal/domain/shared"

	"github.com/alitto/pond"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const maxMessageSize = 64 * 1024

// errUnavailable is sent in place of store failures
const errUnavailable = "the marketplace is temporarily unavailable"

var errClientStopped = errors.New("client is stopped")

type WsClient struct {
	id         string
	session    *shared.Session
	conn       *websocket.Conn
	sendChan   chan *ServerMessage
	ctx        context.Context
	cancel     context.CancelFunc
	handler    *WsHandler
	workerPool *pond.WorkerPool
	stopped    bool
	mu         sync.Mutex
	logger     zerolog.Logger

	// feed subscription
	subMu  sync.Mutex
	filter *search.Spec

	// latest search; older ones are cancelled and their results dropped
	searchMu     sync.Mutex
	searchSeq    uint64
	searchCancel context.CancelFunc

	// toggles run one at a time against the connection's saved set
	saveMu   sync.Mutex
	savedSet *saved.Set
}

type WsClientParams struct {
	Session *shared.Session
	Conn    *websocket.Conn
	Handler *WsHandler
	Logger  zerolog.Logger
}

// NewClient creates a new WebSocket client
func NewClient(params WsClientParams) *WsClient {
	ctx, cancel := context.WithCancel(context.Background())

	pool := pond.New(
		config.WSMaxWorkers,
		config.WSMaxCapacity,
		pond.Context(ctx),
		pond.Strategy(pond.Balanced()),
	)

	id := uuid.New().String()
	logger := params.Logger.With().Str("client_id", id).Logger()
	if params.Session.Authenticated() {
		logger = logger.With().Str("user_id", params.Session.UserID.String()).Logger()
	}

	return &WsClient{
		id:         id,
		session:    params.Session,
		conn:       params.Conn,
		sendChan:   make(chan *ServerMessage, 100),
		ctx:        ctx,
		cancel:     cancel,
		handler:    params.Handler,
		workerPool: pool,
		logger:     logger,
	}
}

func (client *WsClient) Start() {
	go client.messageSender()
	go client.messageReceiver()
}

func (client *WsClient) Stop() {
	client.mu.Lock()
	if client.stopped {
		client.mu.Unlock()
		return
	}
	client.stopped = true
	client.mu.Unlock()

	client.cancel()
	client.conn.Close()

	if client.workerPool != nil {
		client.workerPool.Stop()
	}
}

// Send queues a message for the client
func (client *WsClient) Send(msg *ServerMessage) error {
	client.mu.Lock()
	stopped := client.stopped
	client.mu.Unlock()
	if stopped {
		return errClientStopped
	}

	select {
	case client.sendChan <- msg:
		return nil
	case <-client.ctx.Done():
		return errClientStopped
	default:
		select {
		case client.sendChan <- msg:
			return nil
		case <-client.ctx.Done():
			return errClientStopped
		case <-time.After(100 * time.Millisecond):
			return fmt.Errorf("client send channel is full")
		}
	}
}

func (client *WsClient) messageSender() {
	for {
		select {
		case msg := <-client.sendChan:
			if err := client.conn.WriteJSON(msg); err != nil {
				client.logger.Error().Err(err).Msg("Failed to send message to client")
				client.cancel()
				return
			}
		case <-client.ctx.Done():
			return
		}
	}
}

func (client *WsClient) messageReceiver() {
	client.conn.SetReadLimit(maxMessageSize)

	for {
		_, message, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				client.logger.Error().Err(err).Msg("WebSocket read error for client")
			} else {
				client.logger.Info().Str("error", err.Error()).Msg("WebSocket connection closed for client")
			}
			// Cancel context to notify handler about disconnection
			client.cancel()
			return
		}

		if !client.workerPool.TrySubmit(func() {
			client.process(message)
		}) {
			client.logger.Warn().Msg("Worker pool saturated, rejecting client message")
			_ = client.Send(NewErrorMessage("server is busy, try again", ""))
		}
	}
}

func (client *WsClient) process(data []byte) {
	msg, err := ParseClientMessage(data)
	if err != nil {
		_ = client.Send(NewErrorMessage(err.Error(), ""))
		return
	}

	if err := msg.Validate(); err != nil {
		_ = client.Send(NewErrorMessage(err.Error(), msg.RequestID))
		return
	}

	if msg.Type == MessageTypePing {
		response := NewServerMessage(MessageTypePong)
		response.RequestID = msg.RequestID
		_ = client.Send(response)
		return
	}

	if err := client.handler.HandleClientMessage(client, msg); err != nil {
		if !shared.IsClientError(err) {
			client.logger.Error().Err(err).Str("message_type", string(msg.Type)).Msg("Failed to handle client message")
			_ = client.Send(NewErrorMessage(errUnavailable, msg.RequestID))
			return
		}
		client.logger.Warn().Err(err).Str("message_type", string(msg.Type)).Msg("Rejected client message")
		_ = client.Send(NewErrorMessage(err.Error(), msg.RequestID))
	}
}

// beginSearch cancels the running search and returns the context and sequence
// number of the new one
func (client *WsClient) beginSearch() (context.Context, uint64) {
	client.searchMu.Lock()
	defer client.searchMu.Unlock()

	if client.searchCancel != nil {
		client.searchCancel()
	}
	ctx, cancel := context.WithCancel(client.ctx)
	client.searchSeq++
	client.searchCancel = cancel
	return ctx, client.searchSeq
}

// isLatestSearch reports whether seq is still the newest search
func (client *WsClient) isLatestSearch(seq uint64) bool {
	client.searchMu.Lock()
	defer client.searchMu.Unlock()
	return client.searchSeq == seq
}

func (client *WsClient) currentFilter() *search.Spec {
	client.subMu.Lock()
	defer client.subMu.Unlock()
	return client.filter
}
