// Package ingest consumes detector match events from Pub/Sub and feeds them
// into the dispatch pipeline. This gives the desktop detector a push-based
// path alongside the HTTP endpoint.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"omnicall-backend/internal/notify/usecase"
)

// MatchEvent is the wire format published by the detector.
type MatchEvent struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

type Subscriber struct {
	client        *pubsub.Client
	notifyUsecase usecase.NotifyUsecase
	topicName     string
	subName       string
	logger        *zap.Logger
}

// NewSubscriber creates a Pub/Sub subscriber bound to the match-events topic.
func NewSubscriber(projectID, topicName string, notifyUsecase usecase.NotifyUsecase, credentialsFile string, logger *zap.Logger) (*Subscriber, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	return &Subscriber{
		client:        client,
		notifyUsecase: notifyUsecase,
		topicName:     topicName,
		subName:       topicName + "-sub", // Convention: topic-sub
		logger:        logger,
	}, nil
}

// Start blocks receiving match events until ctx is cancelled. Intended to be
// called with `go`.
func (s *Subscriber) Start(ctx context.Context) {
	s.logger.Info("match event subscriber starting",
		zap.String("topic", s.topicName), zap.String("subscription", s.subName))

	sub := s.client.Subscription(s.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		s.logger.Error("failed to check subscription existence", zap.Error(err))
		return
	}

	if !exists {
		topic := s.client.Topic(s.topicName)
		topicExists, err := topic.Exists(ctx)
		if err != nil {
			s.logger.Error("failed to check topic existence", zap.Error(err))
			return
		}
		if !topicExists {
			s.logger.Error("topic does not exist, cannot create subscription",
				zap.String("topic", s.topicName))
			return
		}

		sub, err = s.client.CreateSubscription(ctx, s.subName, pubsub.SubscriptionConfig{
			Topic:       topic,
			AckDeadline: 10 * time.Second,
		})
		if err != nil {
			s.logger.Error("failed to create subscription", zap.Error(err))
			return
		}
		s.logger.Info("created subscription", zap.String("subscription", s.subName))
	}

	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		s.handleMessage(ctx, msg)
		// Malformed and failed events are acked too: the dispatch core has no
		// retry semantics, so redelivery would only duplicate alerts.
		msg.Ack()
	})
	if err != nil {
		s.logger.Error("subscriber receive loop ended", zap.Error(err))
	}
}

func (s *Subscriber) handleMessage(ctx context.Context, msg *pubsub.Message) {
	var event MatchEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		s.logger.Warn("dropping malformed match event", zap.Error(err))
		return
	}

	result, err := s.notifyUsecase.Dispatch(ctx, event.UserID, event.Message)
	if err != nil {
		s.logger.Warn("match event dispatch failed",
			zap.String("user_id", event.UserID), zap.Error(err))
		return
	}

	s.logger.Info("match event dispatched",
		zap.String("user_id", event.UserID),
		zap.Int("sent", result.Sent),
		zap.Int("total", result.Total))
}
