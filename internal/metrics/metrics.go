package metrics

import (
	"sync/atomic"
)

// Metrics tracks operational metrics.
type Metrics struct {
	WebhooksReceived      uint64 `json:"webhooks_received"`
	WebhooksProcessed     uint64 `json:"webhooks_processed"`
	DescriptionsUpdated   uint64 `json:"descriptions_updated"`
	DescriptionsSkipped   uint64 `json:"descriptions_skipped"`
	DescriptionsUnchanged uint64 `json:"descriptions_unchanged"`
	UpdateFailures        uint64 `json:"update_failures"`
}

var global = &Metrics{}

// WebhookReceived increments the count of webhooks received.
func WebhookReceived() { atomic.AddUint64(&global.WebhooksReceived, 1) }

// WebhookProcessed increments the count of webhooks processed.
func WebhookProcessed() { atomic.AddUint64(&global.WebhooksProcessed, 1) }

// DescriptionUpdated increments the count of descriptions published.
func DescriptionUpdated() { atomic.AddUint64(&global.DescriptionsUpdated, 1) }

// DescriptionSkipped increments the count of skip-marker short circuits.
func DescriptionSkipped() { atomic.AddUint64(&global.DescriptionsSkipped, 1) }

// DescriptionUnchanged increments the count of no-op updates.
func DescriptionUnchanged() { atomic.AddUint64(&global.DescriptionsUnchanged, 1) }

// UpdateFailed increments the count of failed updates.
func UpdateFailed() { atomic.AddUint64(&global.UpdateFailures, 1) }

// Get returns a snapshot of the current metrics.
func Get() Metrics {
	return Metrics{
		WebhooksReceived:      atomic.LoadUint64(&global.WebhooksReceived),
		WebhooksProcessed:     atomic.LoadUint64(&global.WebhooksProcessed),
		DescriptionsUpdated:   atomic.LoadUint64(&global.DescriptionsUpdated),
		DescriptionsSkipped:   atomic.LoadUint64(&global.DescriptionsSkipped),
		DescriptionsUnchanged: atomic.LoadUint64(&global.DescriptionsUnchanged),
		UpdateFailures:        atomic.LoadUint64(&global.UpdateFailures),
	}
}

// Reset resets all metrics to zero (useful for testing).
func Reset() {
	atomic.StoreUint64(&global.WebhooksReceived, 0)
	atomic.StoreUint64(&global.WebhooksProcessed, 0)
	atomic.StoreUint64(&global.DescriptionsUpdated, 0)
	atomic.StoreUint64(&global.DescriptionsSkipped, 0)
	atomic.StoreUint64(&global.DescriptionsUnchanged, 0)
	atomic.StoreUint64(&global.UpdateFailures, 0)
}
