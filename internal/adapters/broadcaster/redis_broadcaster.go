package broadcaster

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"campus-marketplace/internal/domain/shared"
	"campus-marketplace/internal/ports/outbound"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisBroadcaster implements the broadcaster interface using Redis pub/sub
type RedisBroadcaster struct {
	client         *redis.Client
	subscribers    map[string]chan outbound.Event     // clientID -> local channel
	pubsubs        map[string]*redis.PubSub           // clientID -> pubsub instance
	clientsToTopic map[string]map[outbound.Topic]bool // clientID -> topic -> subscribed
	mu             sync.RWMutex
	wg             sync.WaitGroup
	ctx            context.Context
	cancel         context.CancelFunc
	logger         zerolog.Logger
}

type RedisBroadcasterParams struct {
	RedisClient *redis.Client
	Logger      zerolog.Logger
}

func NewBroadcaster(params RedisBroadcasterParams) *RedisBroadcaster {
	ctx, cancel := context.WithCancel(context.Background())

	broadcaster := &RedisBroadcaster{
		client:         params.RedisClient,
		subscribers:    make(map[string]chan outbound.Event),
		pubsubs:        make(map[string]*redis.PubSub),
		clientsToTopic: make(map[string]map[outbound.Topic]bool),
		ctx:            ctx,
		cancel:         cancel,
		logger:         params.Logger.With().Str("component", "redis_broadcaster").Logger(),
	}

	return broadcaster
}

func channelName(topic outbound.Topic) string {
	return fmt.Sprintf("topic:%s", topic)
}

// Subscribe subscribes a client to a topic
func (r *RedisBroadcaster) Subscribe(ctx context.Context, topic outbound.Topic, clientID string, eventChan chan outbound.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.clientsToTopic[clientID] != nil && r.clientsToTopic[clientID][topic] {
		r.logger.Debug().
			Str("client_id", clientID).
			Str("topic", string(topic)).
			Msg("Client already subscribed to topic")
		return nil
	}

	// Store the event channel if this is the first subscription
	if r.subscribers[clientID] == nil {
		r.subscribers[clientID] = eventChan
	}

	// Get or create pubsub connection for this client
	pubsub, exists := r.pubsubs[clientID]
	if !exists {
		pubsub = r.client.Subscribe(ctx)
		r.pubsubs[clientID] = pubsub

		r.wg.Add(1)
		go r.listenForRedisMessages(pubsub, clientID, r.subscribers[clientID])
	}

	if err := pubsub.Subscribe(ctx, channelName(topic)); err != nil {
		r.logger.Error().Err(err).Str("client_id", clientID).Str("topic", string(topic)).Msg("Failed to subscribe to Redis channel")
		return err
	}

	if r.clientsToTopic[clientID] == nil {
		r.clientsToTopic[clientID] = make(map[outbound.Topic]bool)
	}
	r.clientsToTopic[clientID][topic] = true

	r.logger.Info().
		Str("client_id", clientID).
		Str("topic", string(topic)).
		Msg("Client subscribed to topic via Redis")
	return nil
}

// Unsubscribe unsubscribes a client from a topic. When the client has no topics
// left its local channel is closed.
func (r *RedisBroadcaster) Unsubscribe(ctx context.Context, topic outbound.Topic, clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clientTopics, exists := r.clientsToTopic[clientID]
	if !exists || !clientTopics[topic] {
		return nil
	}
	delete(clientTopics, topic)

	if len(clientTopics) > 0 {
		if pubsub, exists := r.pubsubs[clientID]; exists {
			if err := pubsub.Unsubscribe(ctx, channelName(topic)); err != nil {
				r.logger.Error().Err(err).Str("client_id", clientID).Str("topic", string(topic)).Msg("Error unsubscribing from Redis channel")
			}
		}
	} else {
		r.removeClientLocked(clientID)
	}

	r.logger.Info().
		Str("client_id", clientID).
		Str("topic", string(topic)).
		Msg("Client unsubscribed from topic")
	return nil
}

// removeClientLocked drops every trace of a client; r.mu must be held
func (r *RedisBroadcaster) removeClientLocked(clientID string) {
	delete(r.clientsToTopic, clientID)

	// Closing the pubsub ends the listener before the local channel is closed
	if pubsub, exists := r.pubsubs[clientID]; exists {
		if err := pubsub.Close(); err != nil {
			r.logger.Error().Err(err).Str("client_id", clientID).Msg("Error closing Redis pubsub for client")
		}
		delete(r.pubsubs, clientID)
	}

	if eventChan, exists := r.subscribers[clientID]; exists {
		close(eventChan)
		delete(r.subscribers, clientID)
	}
}

// Publish publishes an event to all subscribers of a topic via Redis
func (r *RedisBroadcaster) Publish(ctx context.Context, topic outbound.Topic, event outbound.Event) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	result := r.client.Publish(ctx, channelName(topic), eventJSON)
	if err := result.Err(); err != nil {
		r.logger.Error().Err(err).Msg("Failed to publish to Redis")
		return fmt.Errorf("%w: failed to publish to Redis: %w", shared.ErrBroadcastFailed, err)
	}

	r.logger.Debug().
		Str("event_type", string(event.Type)).
		Str("topic", string(topic)).
		Str("item_id", event.ItemID.String()).
		Int64("subscriber_count", result.Val()).
		Msg("Published event to topic")

	return nil
}

// listenForRedisMessages listens for Redis messages and forwards them to the local channel
func (r *RedisBroadcaster) listenForRedisMessages(pubsub *redis.PubSub, clientID string, localChan chan outbound.Event) {
	defer r.wg.Done()
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error().Interface("panic", err).Str("client_id", clientID).Msg("Redis message listener panic for client")
		}
	}()

	ch := pubsub.Channel()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				r.logger.Debug().Str("client_id", clientID).Msg("Redis channel closed for client")
				return
			}

			var event outbound.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				r.logger.Error().Err(err).Str("client_id", clientID).Msg("Failed to unmarshal Redis message for client")
				continue
			}

			r.forward(clientID, localChan, event)

		case <-r.ctx.Done():
			r.logger.Debug().Str("client_id", clientID).Msg("Redis broadcaster context cancelled for client")
			return
		}
	}
}

// forward delivers without blocking; the read lock keeps the channel open while sending
func (r *RedisBroadcaster) forward(clientID string, localChan chan outbound.Event, event outbound.Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.subscribers[clientID] != localChan {
		return
	}

	select {
	case localChan <- event:
	default:
		r.logger.Warn().Str("client_id", clientID).Msg("Local channel full for client, dropping event")
	}
}

// Close stops every listener. The Redis client is owned by the caller.
func (r *RedisBroadcaster) Close() error {
	r.cancel()

	r.mu.Lock()
	for clientID := range r.pubsubs {
		r.removeClientLocked(clientID)
	}
	for clientID, eventChan := range r.subscribers {
		close(eventChan)
		delete(r.subscribers, clientID)
	}
	r.mu.Unlock()

	r.wg.Wait()
	return nil
}

// IsSubscribed checks if a client is subscribed to a topic
func (r *RedisBroadcaster) IsSubscribed(ctx context.Context, topic outbound.Topic, clientID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clientTopics, exists := r.clientsToTopic[clientID]
	if !exists {
		return false
	}

	return clientTopics[topic]
}
