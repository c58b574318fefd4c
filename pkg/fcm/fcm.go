package fcm

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Client wraps Firebase Cloud Messaging functionality
type Client struct {
	messagingClient *messaging.Client
	logger          *zap.Logger
}

// NewClient creates a new FCM client using the provided credentials file
func NewClient(credentialsFile string, logger *zap.Logger) (*Client, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	logger.Info("FCM client initialized")
	return &Client{
		messagingClient: messagingClient,
		logger:          logger,
	}, nil
}

// Delivery is a single push addressed to one device token.
type Delivery struct {
	Token string
	Title string
	Body  string
	Link  string // URL to open when the notification is clicked
	Data  map[string]string
}

// BatchResult reports per-token delivery outcomes for one batch.
type BatchResult struct {
	Sent     int
	Failures []string // token values that failed delivery
}

// SendBatch sends one message per delivery and reports which tokens failed.
// Each delivery is addressed individually so FCM reports a per-token outcome.
func (c *Client) SendBatch(ctx context.Context, deliveries []Delivery) (BatchResult, error) {
	if len(deliveries) == 0 {
		return BatchResult{}, nil
	}

	messages := make([]*messaging.Message, 0, len(deliveries))
	for _, d := range deliveries {
		messages = append(messages, &messaging.Message{
			Token: d.Token,
			Notification: &messaging.Notification{
				Title: d.Title,
				Body:  d.Body,
			},
			Data: d.Data,
			Webpush: &messaging.WebpushConfig{
				Headers: map[string]string{"Urgency": "high"},
				FCMOptions: &messaging.WebpushFCMOptions{
					Link: d.Link,
				},
			},
			Android: &messaging.AndroidConfig{
				Priority: "high",
			},
		})
	}

	response, err := c.messagingClient.SendEach(ctx, messages)
	if err != nil {
		return BatchResult{}, fmt.Errorf("failed to send FCM batch: %w", err)
	}

	result := BatchResult{Sent: response.SuccessCount}
	for i, resp := range response.Responses {
		if !resp.Success {
			result.Failures = append(result.Failures, deliveries[i].Token)
			c.logger.Warn("FCM delivery failed",
				zap.String("token_prefix", tokenPrefix(deliveries[i].Token)),
				zap.Error(resp.Error))
		}
	}

	c.logger.Info("FCM batch sent",
		zap.Int("sent", result.Sent),
		zap.Int("failed", len(result.Failures)))
	return result, nil
}

// tokenPrefix truncates a token for logging. Full tokens never go to logs.
func tokenPrefix(token string) string {
	if len(token) <= 20 {
		return token
	}
	return token[:20] + "..."
}
