package repository

import (
	"context"
	"errors"

	"github.com/hmcleod/gamelobby/internal/dependencies/clock"
	"github.com/hmcleod/gamelobby/internal/dependencies/ident"
	"github.com/hmcleod/gamelobby/internal/model"
	"github.com/hmcleod/gamelobby/internal/store"
)

// Games is the data-access module for game rooms
type Games struct {
	store store.Store
	ident ident.Generator
	clock clock.Clock
}

// NewGames creates a new game room repository
func NewGames(st store.Store, id ident.Generator, clk clock.Clock) *Games {
	return &Games{store: st, ident: id, clock: clk}
}

func memberToDoc(m model.GameMember) map[string]any {
	return map[string]any{
		"userId":   string(m.UserID),
		"nickname": m.Nickname,
		"deleted":  m.Deleted,
	}
}

func membersFromDoc(doc store.Document) []model.GameMember {
	raw, _ := doc["players"].([]any)
	members := make([]model.GameMember, 0, len(raw))
	for _, entry := range raw {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		m := model.GameMember{Deleted: false}
		if v, ok := fields["userId"].(string); ok {
			m.UserID = model.UserID(v)
		}
		if v, ok := fields["nickname"].(string); ok {
			m.Nickname = v
		}
		if v, ok := fields["deleted"].(bool); ok {
			m.Deleted = v
		}
		members = append(members, m)
	}
	return members
}

func gameToDoc(g *model.GameRoom) store.Document {
	players := make([]any, len(g.Players))
	for i, m := range g.Players {
		players[i] = memberToDoc(m)
	}
	return store.Document{
		"id":              string(g.ID),
		"name":            g.Name,
		"creator":         string(g.Creator),
		"creatorNickname": g.CreatorNickname,
		"creatorDeleted":  g.CreatorDeleted,
		"maxPlayers":      float64(g.MaxPlayers),
		"password":        g.Password,
		"players":         players,
		"created":         millis(g.CreatedAt),
	}
}

func gameFromDoc(doc store.Document) *model.GameRoom {
	return &model.GameRoom{
		ID:              model.GameID(docString(doc, "id")),
		Name:            docString(doc, "name"),
		Creator:         model.UserID(docString(doc, "creator")),
		CreatorNickname: docString(doc, "creatorNickname"),
		CreatorDeleted:  docBool(doc, "creatorDeleted"),
		MaxPlayers:      docInt(doc, "maxPlayers"),
		Password:        docString(doc, "password"),
		Players:         membersFromDoc(doc),
		CreatedAt:       docTime(doc, "created"),
	}
}

// Create stores a new room. The id is assigned if absent and the
// member list is forced empty.
func (r *Games) Create(ctx context.Context, g *model.GameRoom) (*model.GameRoom, error) {
	stored := *g
	if stored.ID == "" {
		stored.ID = model.GameID(r.ident.NewID())
	}
	stored.Players = nil
	if stored.MaxPlayers == 0 {
		stored.MaxPlayers = model.DefaultMaxPlayers
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.clock.Now()
	}

	doc, err := r.store.Insert(ctx, gamesCollection, gameToDoc(&stored))
	if err != nil {
		return nil, err
	}
	return gameFromDoc(doc), nil
}

// FindByID returns the room with the given id
func (r *Games) FindByID(ctx context.Context, id model.GameID) (*model.GameRoom, error) {
	doc, err := r.store.FindOne(ctx, gamesCollection, store.Query{"id": string(id)})
	if err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}
	return gameFromDoc(doc), nil
}

// FindByName returns the room with the given name
func (r *Games) FindByName(ctx context.Context, name string) (*model.GameRoom, error) {
	doc, err := r.store.FindOne(ctx, gamesCollection, store.Query{"name": name})
	if err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}
	return gameFromDoc(doc), nil
}

// FindAll lists every room
func (r *Games) FindAll(ctx context.Context) ([]*model.GameRoom, error) {
	docs, err := r.store.Find(ctx, gamesCollection, store.Query{}, store.FindOptions{})
	if err != nil {
		return nil, err
	}
	rooms := make([]*model.GameRoom, len(docs))
	for i, doc := range docs {
		rooms[i] = gameFromDoc(doc)
	}
	return rooms, nil
}

// FindByCreator lists rooms created by the given user
func (r *Games) FindByCreator(ctx context.Context, creator model.UserID) ([]*model.GameRoom, error) {
	docs, err := r.store.Find(ctx, gamesCollection, store.Query{"creator": string(creator)}, store.FindOptions{})
	if err != nil {
		return nil, err
	}
	rooms := make([]*model.GameRoom, len(docs))
	for i, doc := range docs {
		rooms[i] = gameFromDoc(doc)
	}
	return rooms, nil
}

// AddPlayer appends a member to the room. The capacity check and the
// append happen inside one atomic store transform, so two concurrent
// joins can never push a room past maxPlayers. Joining a room the user
// is already in is a no-op returning the current room.
func (r *Games) AddPlayer(ctx context.Context, gameID model.GameID, userID model.UserID, nickname string) (*model.GameRoom, error) {
	doc, err := r.store.Transform(ctx, gamesCollection, store.Query{"id": string(gameID)},
		func(doc store.Document) (store.Document, error) {
			game := gameFromDoc(doc)
			if game.Member(userID) != nil {
				return doc, nil
			}
			if game.IsFull() {
				return nil, model.ErrGameFull
			}
			players, _ := doc["players"].([]any)
			doc["players"] = append(players, memberToDoc(model.GameMember{
				UserID:   userID,
				Nickname: nickname,
			}))
			return doc, nil
		})
	if err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}
	return gameFromDoc(doc), nil
}

// RemovePlayer filters the member out of the room. Removing a user who
// is not a member is a no-op.
func (r *Games) RemovePlayer(ctx context.Context, gameID model.GameID, userID model.UserID) (*model.GameRoom, error) {
	doc, err := r.store.Transform(ctx, gamesCollection, store.Query{"id": string(gameID)},
		func(doc store.Document) (store.Document, error) {
			players, _ := doc["players"].([]any)
			kept := make([]any, 0, len(players))
			for _, entry := range players {
				fields, _ := entry.(map[string]any)
				if id, _ := fields["userId"].(string); id == string(userID) {
					continue
				}
				kept = append(kept, entry)
			}
			doc["players"] = kept
			return doc, nil
		})
	if err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}
	return gameFromDoc(doc), nil
}

// RemovePlayerFromAll removes the user from every room they are a
// member of (used on logout)
func (r *Games) RemovePlayerFromAll(ctx context.Context, userID model.UserID) error {
	rooms, err := r.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, room := range rooms {
		if room.Member(userID) == nil {
			continue
		}
		if _, err := r.RemovePlayer(ctx, room.ID, userID); err != nil && !errors.Is(err, model.ErrGameNotFound) {
			return err
		}
	}
	return nil
}

// IsPlayerInGame reports active membership, excluding soft-deleted
// member entries
func (r *Games) IsPlayerInGame(ctx context.Context, gameID model.GameID, userID model.UserID) (bool, error) {
	game, err := r.FindByID(ctx, gameID)
	if err != nil {
		return false, err
	}
	member := game.Member(userID)
	return member != nil && !member.Deleted, nil
}

// UpdatePlayerNickname propagates a nickname change to every room's
// member entry for the user, and to creatorNickname on rooms they
// created
func (r *Games) UpdatePlayerNickname(ctx context.Context, userID model.UserID, nickname string) error {
	return r.updateMemberEntries(ctx, userID, func(fields map[string]any) {
		fields["nickname"] = nickname
	}, func(doc store.Document) {
		doc["creatorNickname"] = nickname
	})
}

// MarkPlayerDeleted marks the user's member entries deleted with the
// "Deleted User" nickname, and flags rooms they created
func (r *Games) MarkPlayerDeleted(ctx context.Context, userID model.UserID) error {
	return r.updateMemberEntries(ctx, userID, func(fields map[string]any) {
		fields["deleted"] = true
		fields["nickname"] = model.DeletedUserNickname
	}, func(doc store.Document) {
		doc["creatorDeleted"] = true
		doc["creatorNickname"] = model.DeletedUserNickname
	})
}

// updateMemberEntries scans all rooms and applies mutateMember to the
// user's member entries and mutateCreator to rooms they created,
// persisting per room
func (r *Games) updateMemberEntries(
	ctx context.Context,
	userID model.UserID,
	mutateMember func(map[string]any),
	mutateCreator func(store.Document),
) error {
	rooms, err := r.FindAll(ctx)
	if err != nil {
		return err
	}

	for _, room := range rooms {
		isMember := room.Member(userID) != nil
		isCreator := room.Creator == userID
		if !isMember && !isCreator {
			continue
		}

		_, err := r.store.Transform(ctx, gamesCollection, store.Query{"id": string(room.ID)},
			func(doc store.Document) (store.Document, error) {
				if isMember {
					players, _ := doc["players"].([]any)
					for _, entry := range players {
						fields, _ := entry.(map[string]any)
						if id, _ := fields["userId"].(string); id == string(userID) {
							mutateMember(fields)
						}
					}
				}
				if isCreator {
					mutateCreator(doc)
				}
				return doc, nil
			})
		if err != nil && !errors.Is(err, store.ErrNoDocument) {
			return err
		}
	}
	return nil
}

// Delete removes the room
func (r *Games) Delete(ctx context.Context, id model.GameID) error {
	count, err := r.store.Delete(ctx, gamesCollection, store.Query{"id": string(id)})
	if err != nil {
		return err
	}
	if count == 0 {
		return model.ErrGameNotFound
	}
	return nil
}
