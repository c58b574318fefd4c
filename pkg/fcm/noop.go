package fcm

import "context"

// NoopSender stands in for the FCM client when no credentials are configured.
// Every delivery is reported as failed so counters never drift on a server
// that cannot actually reach devices.
type NoopSender struct{}

func (NoopSender) SendBatch(_ context.Context, deliveries []Delivery) (BatchResult, error) {
	result := BatchResult{}
	for _, d := range deliveries {
		result.Failures = append(result.Failures, d.Token)
	}
	return result, nil
}
