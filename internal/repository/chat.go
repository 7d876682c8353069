package repository

import (
	"context"
	"sort"

	"github.com/hmcleod/gamelobby/internal/dependencies/clock"
	"github.com/hmcleod/gamelobby/internal/model"
	"github.com/hmcleod/gamelobby/internal/store"
)

// Chat is the data-access module for chat messages
type Chat struct {
	store store.Store
	clock clock.Clock
}

// NewChat creates a new chat repository
func NewChat(st store.Store, clk clock.Clock) *Chat {
	return &Chat{store: st, clock: clk}
}

func messageToDoc(m *model.ChatMessage) store.Document {
	doc := store.Document{
		"type":      string(m.Type),
		"userId":    string(m.UserID),
		"username":  m.Username,
		"nickname":  m.Nickname,
		"message":   m.Message,
		"timestamp": millis(m.Timestamp),
		"private":   m.Private,
		"deleted":   m.Deleted,
	}
	if m.Type == model.ChannelGame {
		doc["gameId"] = string(m.GameID)
	}
	if m.Private {
		doc["recipientId"] = string(m.RecipientID)
	}
	return doc
}

func messageFromDoc(doc store.Document) *model.ChatMessage {
	return &model.ChatMessage{
		ID:          docString(doc, store.PrimaryKey),
		Type:        model.ChannelType(docString(doc, "type")),
		GameID:      model.GameID(docString(doc, "gameId")),
		UserID:      model.UserID(docString(doc, "userId")),
		Username:    docString(doc, "username"),
		Nickname:    docString(doc, "nickname"),
		Message:     docString(doc, "message"),
		Timestamp:   docTime(doc, "timestamp"),
		Private:     docBool(doc, "private"),
		RecipientID: model.UserID(docString(doc, "recipientId")),
		Deleted:     docBool(doc, "deleted"),
	}
}

// Create stores a new message, stamping the timestamp if absent
func (r *Chat) Create(ctx context.Context, m *model.ChatMessage) (*model.ChatMessage, error) {
	stored := *m
	if stored.Timestamp.IsZero() {
		stored.Timestamp = r.clock.Now()
	}
	doc, err := r.store.Insert(ctx, chatCollection, messageToDoc(&stored))
	if err != nil {
		return nil, err
	}
	return messageFromDoc(doc), nil
}

// lastMessages fetches the most recent ChatHistoryLimit messages for a
// query, ordered oldest-first
func (r *Chat) lastMessages(ctx context.Context, query store.Query) ([]*model.ChatMessage, error) {
	docs, err := r.store.Find(ctx, chatCollection, query, store.FindOptions{
		Sort:  &store.Sort{Field: "timestamp", Direction: store.Descending},
		Limit: model.ChatHistoryLimit,
	})
	if err != nil {
		return nil, err
	}

	// Newest-first from the store; a stable re-sort back to
	// oldest-first keeps insertion order for equal timestamps
	messages := make([]*model.ChatMessage, len(docs))
	for i, doc := range docs {
		messages[i] = messageFromDoc(doc)
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
	return messages, nil
}

// FindByType returns the most recent 100 messages for a channel type,
// oldest-first
func (r *Chat) FindByType(ctx context.Context, t model.ChannelType) ([]*model.ChatMessage, error) {
	return r.lastMessages(ctx, store.Query{"type": string(t)})
}

// FindByGame returns the most recent 100 messages for one game
// channel, oldest-first
func (r *Chat) FindByGame(ctx context.Context, gameID model.GameID) ([]*model.ChatMessage, error) {
	return r.lastMessages(ctx, store.Query{
		"type":   string(model.ChannelGame),
		"gameId": string(gameID),
	})
}

// DeleteByGame removes all messages for a game channel, returning the
// number removed
func (r *Chat) DeleteByGame(ctx context.Context, gameID model.GameID) (int, error) {
	return r.store.Delete(ctx, chatCollection, store.Query{
		"type":   string(model.ChannelGame),
		"gameId": string(gameID),
	})
}

// MarkUserDeleted bulk-marks every message by the sender as deleted
// with the "Deleted User" nickname
func (r *Chat) MarkUserDeleted(ctx context.Context, userID model.UserID) (int, error) {
	return r.Update(ctx, store.Query{"userId": string(userID)}, store.Document{
		"deleted":  true,
		"nickname": model.DeletedUserNickname,
	})
}

// UpdateSenderNickname retroactively rewrites the nickname snapshot on
// every message by the sender
func (r *Chat) UpdateSenderNickname(ctx context.Context, userID model.UserID, nickname string) (int, error) {
	return r.Update(ctx, store.Query{"userId": string(userID)}, store.Document{
		"nickname": nickname,
	})
}

// Update is the generic bulk field update over messages
func (r *Chat) Update(ctx context.Context, query store.Query, fields store.Document) (int, error) {
	return r.store.Update(ctx, chatCollection, query, fields)
}
