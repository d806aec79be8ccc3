// Package stream applies DynamoDB Streams records of the posts table to a local store.
package stream

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/ftsanjuan/modern-react-redux-blog/store"
)

// ErrClosed is returned when the dispatcher no longer accepts actions.
var ErrClosed = errors.New("stream: dispatcher is closed")

// Dispatcher accepts store actions. *client.Dispatcher satisfies it.
type Dispatcher interface {
	TryDispatch(action store.Action) (<-chan struct{}, bool)
}

// Handler turns posts table change records into store actions.
type Handler struct {
	dispatcher Dispatcher
	logger     *slog.Logger
}

// NewHandler creates a new stream handler.
func NewHandler(d Dispatcher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		dispatcher: d,
		logger:     logger,
	}
}

// HandleSync applies every record of event in order.
// INSERT and MODIFY become FetchOne, REMOVE becomes Delete.
// It returns once all actions are applied, with ctx's error, or with
// ErrClosed if the dispatcher stops accepting actions mid-batch.
func (h *Handler) HandleSync(ctx context.Context, event events.DynamoDBEvent) error {
	applied := 0
	for _, record := range event.Records {
		action := h.actionFor(record)
		if action == nil {
			continue
		}
		done, ok := h.dispatcher.TryDispatch(action)
		if !ok {
			h.logger.Error("dispatcher closed, dropping batch",
				"eventID", record.EventID,
				"applied", applied,
			)
			return ErrClosed
		}
		select {
		case <-done:
			applied++
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	h.logger.Debug("stream batch applied",
		"records", len(event.Records),
		"applied", applied,
	)
	return nil
}

// actionFor maps a single record, returning nil for records to skip.
func (h *Handler) actionFor(record events.DynamoDBEventRecord) store.Action {
	switch record.EventName {
	case string(events.DynamoDBOperationTypeInsert), string(events.DynamoDBOperationTypeModify):
		post := postFromImage(record.Change.NewImage)
		if post.ID == "" {
			h.logger.Warn("skipping record without id",
				"eventID", record.EventID,
				"eventName", record.EventName,
			)
			return nil
		}
		return store.FetchOne{Post: post}

	case string(events.DynamoDBOperationTypeRemove):
		id := getStringAttr(record.Change.Keys, "id")
		if id == "" {
			id = getStringAttr(record.Change.OldImage, "id")
		}
		if id == "" {
			h.logger.Warn("skipping removal without id", "eventID", record.EventID)
			return nil
		}
		return store.Delete{ID: store.ID(id)}
	}

	h.logger.Debug("ignoring record", "eventID", record.EventID, "eventName", record.EventName)
	return nil
}

// postFromImage reads a post out of a stream image.
func postFromImage(image map[string]events.DynamoDBAttributeValue) store.Post {
	return store.Post{
		ID:         store.ID(getStringAttr(image, "id")),
		Title:      getStringAttr(image, "title"),
		Categories: getStringAttr(image, "categories"),
		Content:    getStringAttr(image, "content"),
	}
}

// getStringAttr extracts a string attribute from a DynamoDB stream image.
// Number attributes are returned in their decimal form.
func getStringAttr(image map[string]events.DynamoDBAttributeValue, key string) string {
	v, ok := image[key]
	if !ok {
		return ""
	}
	switch v.DataType() {
	case events.DataTypeString:
		return v.String()
	case events.DataTypeNumber:
		return v.Number()
	}
	return ""
}
