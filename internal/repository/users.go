package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/hmcleod/gamelobby/internal/dependencies/clock"
	"github.com/hmcleod/gamelobby/internal/dependencies/ident"
	"github.com/hmcleod/gamelobby/internal/model"
	"github.com/hmcleod/gamelobby/internal/store"
)

// Users is the data-access module for user accounts
type Users struct {
	store store.Store
	ident ident.Generator
	clock clock.Clock
}

// NewUsers creates a new user repository
func NewUsers(st store.Store, id ident.Generator, clk clock.Clock) *Users {
	return &Users{store: st, ident: id, clock: clk}
}

func userToDoc(u *model.User) store.Document {
	doc := store.Document{
		"userId":    string(u.UserID),
		"username":  u.Username,
		"nickname":  u.Nickname,
		"password":  u.PasswordHash,
		"deleted":   u.Deleted,
		"createdAt": millis(u.CreatedAt),
	}
	if u.DeletedAt != nil {
		doc["deletedAt"] = millis(*u.DeletedAt)
	}
	return doc
}

func userFromDoc(doc store.Document) *model.User {
	return &model.User{
		UserID:       model.UserID(docString(doc, "userId")),
		Username:     docString(doc, "username"),
		Nickname:     docString(doc, "nickname"),
		PasswordHash: docString(doc, "password"),
		Deleted:      docBool(doc, "deleted"),
		DeletedAt:    docTimePtr(doc, "deletedAt"),
		CreatedAt:    docTime(doc, "createdAt"),
	}
}

// Create stores a new user. The userId is assigned if absent, the
// username is case-normalized, the nickname defaults to the username,
// and deleted is forced to false. Username uniqueness is the caller's
// responsibility.
func (r *Users) Create(ctx context.Context, u *model.User) (*model.User, error) {
	stored := *u
	if stored.UserID == "" {
		stored.UserID = model.UserID(r.ident.NewID())
	}
	stored.Username = strings.ToLower(strings.TrimSpace(stored.Username))
	if stored.Nickname == "" {
		stored.Nickname = stored.Username
	}
	stored.Deleted = false
	stored.DeletedAt = nil
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.clock.Now()
	}

	doc, err := r.store.Insert(ctx, usersCollection, userToDoc(&stored))
	if err != nil {
		return nil, err
	}
	return userFromDoc(doc), nil
}

// FindByID returns the user with the given id, including soft-deleted
// accounts
func (r *Users) FindByID(ctx context.Context, id model.UserID) (*model.User, error) {
	doc, err := r.store.FindOne(ctx, usersCollection, store.Query{"userId": string(id)})
	if err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return userFromDoc(doc), nil
}

// FindByUsername returns the user with the given username, including
// soft-deleted accounts
func (r *Users) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	doc, err := r.store.FindOne(ctx, usersCollection, store.Query{
		"username": strings.ToLower(strings.TrimSpace(username)),
	})
	if err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return userFromDoc(doc), nil
}

// FindOneActive returns the non-deleted user with the given username
func (r *Users) FindOneActive(ctx context.Context, username string) (*model.User, error) {
	doc, err := r.store.FindOne(ctx, usersCollection, store.Query{
		"username": strings.ToLower(strings.TrimSpace(username)),
		"deleted":  false,
	})
	if err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return userFromDoc(doc), nil
}

// FindActive lists all non-deleted users
func (r *Users) FindActive(ctx context.Context) ([]*model.User, error) {
	docs, err := r.store.Find(ctx, usersCollection, store.Query{"deleted": false}, store.FindOptions{})
	if err != nil {
		return nil, err
	}
	users := make([]*model.User, len(docs))
	for i, doc := range docs {
		users[i] = userFromDoc(doc)
	}
	return users, nil
}

// UpdateByID shallow-merges fields into the user record
func (r *Users) UpdateByID(ctx context.Context, id model.UserID, fields store.Document) error {
	count, err := r.store.Update(ctx, usersCollection, store.Query{"userId": string(id)}, fields)
	if err != nil {
		return err
	}
	if count == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// SoftDelete marks the user deleted, stamps deletedAt, and replaces
// the nickname. The record is retained for referential consistency.
func (r *Users) SoftDelete(ctx context.Context, id model.UserID) (*model.User, error) {
	doc, err := r.store.Transform(ctx, usersCollection, store.Query{"userId": string(id)},
		func(doc store.Document) (store.Document, error) {
			doc["deleted"] = true
			doc["deletedAt"] = millis(r.clock.Now())
			doc["nickname"] = model.DeletedUserNickname
			return doc, nil
		})
	if err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return userFromDoc(doc), nil
}

// DeleteByID removes the record entirely. Test/cleanup paths only;
// normal account deletion is SoftDelete.
func (r *Users) DeleteByID(ctx context.Context, id model.UserID) error {
	count, err := r.store.Delete(ctx, usersCollection, store.Query{"userId": string(id)})
	if err != nil {
		return err
	}
	if count == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
