package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/fleetparts/partsearch/internal/domain"
	"github.com/fleetparts/partsearch/internal/service"
	pkgkafka "github.com/fleetparts/partsearch/pkg/kafka"
)

// Kafka topic constants for part domain events consumed for incremental indexing.
const (
	TopicPartUpserted = "parts.part.upserted"
	TopicPartDeleted  = "parts.part.deleted"
)

// PartEventData represents the payload from a part.upserted event.
type PartEventData struct {
	ID               string   `json:"id"`
	CanonicalMPN     string   `json:"canonical_mpn"`
	Title            string   `json:"title"`
	Brand            string   `json:"brand,omitempty"`
	Category         string   `json:"category,omitempty"`
	Description      string   `json:"description,omitempty"`
	Synonyms         []string `json:"synonyms,omitempty"`
	DistributorCount int      `json:"distributor_count"`
}

// PartDeletedData represents the payload from a part.deleted event.
type PartDeletedData struct {
	ID string `json:"id"`
}

// Consumer handles Kafka events that keep the search index current between
// full indexing runs.
type Consumer struct {
	searchService *service.SearchService
	partService   *service.PartService
	logger        *slog.Logger
}

// NewConsumer creates a new part event consumer.
func NewConsumer(searchService *service.SearchService, partService *service.PartService, logger *slog.Logger) *Consumer {
	return &Consumer{
		searchService: searchService,
		partService:   partService,
		logger:        logger,
	}
}

// Handle processes a Kafka event based on its type. Unknown event types are
// logged and skipped so a shared topic does not poison the consumer group.
func (c *Consumer) Handle(ctx context.Context, event *pkgkafka.Event) error {
	switch event.EventType {
	case TopicPartUpserted:
		return c.handlePartUpserted(ctx, event)
	case TopicPartDeleted:
		return c.handlePartDeleted(ctx, event)
	default:
		c.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}
}

// handlePartUpserted rebuilds the search document for a created or updated
// part and drops its cached detail view.
func (c *Consumer) handlePartUpserted(ctx context.Context, event *pkgkafka.Event) error {
	var data PartEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("unmarshal part.upserted data: %w", err)
	}

	part := &domain.Part{
		ID:           data.ID,
		CanonicalMPN: data.CanonicalMPN,
		Title:        data.Title,
		Brand:        data.Brand,
		Category:     data.Category,
		Description:  data.Description,
		Synonyms:     data.Synonyms,
	}

	if err := c.searchService.IndexPart(ctx, part, data.DistributorCount); err != nil {
		return fmt.Errorf("index part from upserted event: %w", err)
	}

	if err := c.partService.InvalidateDetail(ctx, data.ID); err != nil {
		c.logger.WarnContext(ctx, "part detail invalidation failed",
			slog.String("part_id", data.ID),
			slog.String("error", err.Error()),
		)
	}

	c.logger.InfoContext(ctx, "indexed part from upserted event",
		slog.String("part_id", data.ID),
	)
	return nil
}

// handlePartDeleted removes a deleted part from the index and cache.
func (c *Consumer) handlePartDeleted(ctx context.Context, event *pkgkafka.Event) error {
	var data PartDeletedData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("unmarshal part.deleted data: %w", err)
	}

	if err := c.searchService.DeletePart(ctx, data.ID); err != nil {
		return fmt.Errorf("delete part from deleted event: %w", err)
	}

	if err := c.partService.InvalidateDetail(ctx, data.ID); err != nil {
		c.logger.WarnContext(ctx, "part detail invalidation failed",
			slog.String("part_id", data.ID),
			slog.String("error", err.Error()),
		)
	}

	c.logger.InfoContext(ctx, "deleted part from deleted event",
		slog.String("part_id", data.ID),
	)
	return nil
}
