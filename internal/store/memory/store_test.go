package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/hmcleod/gamelobby/internal/store"
)

type StoreSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

// Insert / Find tests

func (s *StoreSuite) TestInsertAssignsID() {
	doc, err := s.store.Insert(s.ctx, "things", store.Document{"name": "widget"})
	s.Require().NoError(err)
	s.NotEmpty(doc[store.PrimaryKey])
	s.Equal("widget", doc["name"])
}

func (s *StoreSuite) TestInsertKeepsCallerID() {
	doc, err := s.store.Insert(s.ctx, "things", store.Document{store.PrimaryKey: "fixed-id", "name": "widget"})
	s.Require().NoError(err)
	s.Equal("fixed-id", doc[store.PrimaryKey])
}

func (s *StoreSuite) TestFindReturnsInsertionOrder() {
	for _, name := range []string{"a", "b", "c"} {
		_, err := s.store.Insert(s.ctx, "things", store.Document{"name": name})
		s.Require().NoError(err)
	}

	docs, err := s.store.Find(s.ctx, "things", store.Query{}, store.FindOptions{})
	s.Require().NoError(err)
	s.Require().Len(docs, 3)
	s.Equal("a", docs[0]["name"])
	s.Equal("b", docs[1]["name"])
	s.Equal("c", docs[2]["name"])
}

func (s *StoreSuite) TestFindFiltersByQuery() {
	_, _ = s.store.Insert(s.ctx, "things", store.Document{"name": "a", "kind": "fruit"})
	_, _ = s.store.Insert(s.ctx, "things", store.Document{"name": "b", "kind": "tool"})
	_, _ = s.store.Insert(s.ctx, "things", store.Document{"name": "c", "kind": "fruit"})

	docs, err := s.store.Find(s.ctx, "things", store.Query{"kind": "fruit"}, store.FindOptions{})
	s.Require().NoError(err)
	s.Len(docs, 2)
}

func (s *StoreSuite) TestFindEmptyCollection() {
	docs, err := s.store.Find(s.ctx, "nothing", store.Query{}, store.FindOptions{})
	s.Require().NoError(err)
	s.Empty(docs)
}

func (s *StoreSuite) TestFindSortAndLimit() {
	_, _ = s.store.Insert(s.ctx, "things", store.Document{"name": "a", "rank": 3})
	_, _ = s.store.Insert(s.ctx, "things", store.Document{"name": "b", "rank": 1})
	_, _ = s.store.Insert(s.ctx, "things", store.Document{"name": "c", "rank": 2})

	docs, err := s.store.Find(s.ctx, "things", store.Query{}, store.FindOptions{
		Sort:  &store.Sort{Field: "rank", Direction: store.Descending},
		Limit: 2,
	})
	s.Require().NoError(err)
	s.Require().Len(docs, 2)
	s.Equal("a", docs[0]["name"])
	s.Equal("c", docs[1]["name"])
}

func (s *StoreSuite) TestFindOne() {
	_, _ = s.store.Insert(s.ctx, "things", store.Document{"name": "a"})
	_, _ = s.store.Insert(s.ctx, "things", store.Document{"name": "b"})

	doc, err := s.store.FindOne(s.ctx, "things", store.Query{"name": "b"})
	s.Require().NoError(err)
	s.Equal("b", doc["name"])
}

func (s *StoreSuite) TestFindOneNotFound() {
	_, err := s.store.FindOne(s.ctx, "things", store.Query{"name": "missing"})
	s.ErrorIs(err, store.ErrNoDocument)
}

func (s *StoreSuite) TestNumbersNormalizeToFloat64() {
	_, err := s.store.Insert(s.ctx, "things", store.Document{"name": "a", "count": 7})
	s.Require().NoError(err)

	doc, err := s.store.FindOne(s.ctx, "things", store.Query{"name": "a"})
	s.Require().NoError(err)
	s.Equal(float64(7), doc["count"])
}

// Mutation isolation

func (s *StoreSuite) TestReturnedDocumentsDoNotAliasStorage() {
	_, _ = s.store.Insert(s.ctx, "things", store.Document{"name": "a"})

	doc, err := s.store.FindOne(s.ctx, "things", store.Query{"name": "a"})
	s.Require().NoError(err)
	doc["name"] = "tampered"

	fresh, err := s.store.FindOne(s.ctx, "things", store.Query{})
	s.Require().NoError(err)
	s.Equal("a", fresh["name"])
}

func (s *StoreSuite) TestInsertDoesNotAliasCallerDocument() {
	original := store.Document{"name": "a"}
	_, err := s.store.Insert(s.ctx, "things", original)
	s.Require().NoError(err)

	original["name"] = "tampered"

	doc, err := s.store.FindOne(s.ctx, "things", store.Query{})
	s.Require().NoError(err)
	s.Equal("a", doc["name"])
}

// Update tests

func (s *StoreSuite) TestUpdateMergesIntoAllMatches() {
	_, _ = s.store.Insert(s.ctx, "things", store.Document{"name": "a", "kind": "fruit"})
	_, _ = s.store.Insert(s.ctx, "things", store.Document{"name": "b", "kind": "fruit"})
	_, _ = s.store.Insert(s.ctx, "things", store.Document{"name": "c", "kind": "tool"})

	count, err := s.store.Update(s.ctx, "things", store.Query{"kind": "fruit"}, store.Document{"ripe": true})
	s.Require().NoError(err)
	s.Equal(2, count)

	docs, _ := s.store.Find(s.ctx, "things", store.Query{"ripe": true}, store.FindOptions{})
	s.Len(docs, 2)

	// Unmatched document untouched
	doc, _ := s.store.FindOne(s.ctx, "things", store.Query{"name": "c"})
	s.Nil(doc["ripe"])
}

func (s *StoreSuite) TestUpdateNoMatchesReturnsZero() {
	count, err := s.store.Update(s.ctx, "things", store.Query{"name": "missing"}, store.Document{"x": 1})
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *StoreSuite) TestUpdatePreservesUnmentionedFields() {
	_, _ = s.store.Insert(s.ctx, "things", store.Document{"name": "a", "kind": "fruit"})

	_, err := s.store.Update(s.ctx, "things", store.Query{"name": "a"}, store.Document{"ripe": true})
	s.Require().NoError(err)

	doc, _ := s.store.FindOne(s.ctx, "things", store.Query{"name": "a"})
	s.Equal("fruit", doc["kind"])
	s.Equal(true, doc["ripe"])
}

// Delete tests

func (s *StoreSuite) TestDeleteRemovesAllMatches() {
	_, _ = s.store.Insert(s.ctx, "things", store.Document{"name": "a", "kind": "fruit"})
	_, _ = s.store.Insert(s.ctx, "things", store.Document{"name": "b", "kind": "fruit"})
	_, _ = s.store.Insert(s.ctx, "things", store.Document{"name": "c", "kind": "tool"})

	count, err := s.store.Delete(s.ctx, "things", store.Query{"kind": "fruit"})
	s.Require().NoError(err)
	s.Equal(2, count)

	docs, _ := s.store.Find(s.ctx, "things", store.Query{}, store.FindOptions{})
	s.Require().Len(docs, 1)
	s.Equal("c", docs[0]["name"])
}

func (s *StoreSuite) TestDeleteNoMatchesReturnsZero() {
	count, err := s.store.Delete(s.ctx, "things", store.Query{"name": "missing"})
	s.Require().NoError(err)
	s.Zero(count)
}

// Transform tests

func (s *StoreSuite) TestTransformMutatesDocument() {
	_, _ = s.store.Insert(s.ctx, "things", store.Document{"name": "a", "count": 0})

	doc, err := s.store.Transform(s.ctx, "things", store.Query{"name": "a"}, func(d store.Document) (store.Document, error) {
		d["count"] = d["count"].(float64) + 1
		return d, nil
	})
	s.Require().NoError(err)
	s.Equal(float64(1), doc["count"])

	stored, _ := s.store.FindOne(s.ctx, "things", store.Query{"name": "a"})
	s.Equal(float64(1), stored["count"])
}

func (s *StoreSuite) TestTransformPreservesPrimaryKey() {
	inserted, _ := s.store.Insert(s.ctx, "things", store.Document{"name": "a"})

	doc, err := s.store.Transform(s.ctx, "things", store.Query{"name": "a"}, func(d store.Document) (store.Document, error) {
		delete(d, store.PrimaryKey)
		return d, nil
	})
	s.Require().NoError(err)
	s.Equal(inserted[store.PrimaryKey], doc[store.PrimaryKey])
}

func (s *StoreSuite) TestTransformNotFound() {
	_, err := s.store.Transform(s.ctx, "things", store.Query{"name": "missing"}, func(d store.Document) (store.Document, error) {
		return d, nil
	})
	s.ErrorIs(err, store.ErrNoDocument)
}

func (s *StoreSuite) TestTransformFnErrorAborts() {
	_, _ = s.store.Insert(s.ctx, "things", store.Document{"name": "a", "count": 0})
	boom := errors.New("boom")

	_, err := s.store.Transform(s.ctx, "things", store.Query{"name": "a"}, func(d store.Document) (store.Document, error) {
		d["count"] = 99
		return nil, boom
	})
	s.ErrorIs(err, boom)

	doc, _ := s.store.FindOne(s.ctx, "things", store.Query{"name": "a"})
	s.Equal(float64(0), doc["count"])
}

func (s *StoreSuite) TestTransformIsAtomicUnderConcurrency() {
	_, _ = s.store.Insert(s.ctx, "counters", store.Document{"name": "c", "count": 0})

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := s.store.Transform(s.ctx, "counters", store.Query{"name": "c"}, func(d store.Document) (store.Document, error) {
				d["count"] = d["count"].(float64) + 1
				return d, nil
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	doc, err := s.store.FindOne(s.ctx, "counters", store.Query{"name": "c"})
	s.Require().NoError(err)
	s.Equal(float64(workers), doc["count"])
}

func (s *StoreSuite) TestFindIsSafeAgainstConcurrentWrites() {
	for i := 0; i < 50; i++ {
		_, err := s.store.Insert(s.ctx, "things", store.Document{"name": "doc", "rank": i})
		s.Require().NoError(err)
	}

	// Readers sort and inspect results while writers rewrite the same
	// documents; the race detector flags any live reference escaping
	// the store
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			docs, err := s.store.Find(s.ctx, "things", store.Query{"name": "doc"}, store.FindOptions{
				Sort: &store.Sort{Field: "rank", Direction: store.Descending},
			})
			s.NoError(err)
			s.Len(docs, 50)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_, err := s.store.Update(s.ctx, "things", store.Query{"name": "doc"}, store.Document{"rank": i})
			s.NoError(err)
		}
	}()
	wg.Wait()
}

// Clear

func (s *StoreSuite) TestClearEmptiesAllCollections() {
	_, _ = s.store.Insert(s.ctx, "a", store.Document{"x": 1})
	_, _ = s.store.Insert(s.ctx, "b", store.Document{"y": 2})

	s.Require().NoError(s.store.Clear(s.ctx))

	docs, _ := s.store.Find(s.ctx, "a", store.Query{}, store.FindOptions{})
	s.Empty(docs)
	docs, _ = s.store.Find(s.ctx, "b", store.Query{}, store.FindOptions{})
	s.Empty(docs)
}
