package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"portfolio-api/internal/model"
)

func newMockMongoRepository(mt *mtest.T) *MongoRepository {
	return NewMongoRepository(mt.Client, mt.DB.Name(), mt.Coll.Name())
}

func namespace(mt *mtest.T) string {
	return mt.DB.Name() + "." + mt.Coll.Name()
}

func contactDoc(id, name string, createdAt time.Time, status string) bson.D {
	return bson.D{
		{Key: "id", Value: id},
		{Key: "name", Value: name},
		{Key: "email", Value: name + "@example.com"},
		{Key: "message", Value: "Hello"},
		{Key: "created_at", Value: createdAt},
		{Key: "status", Value: status},
	}
}

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create inserts the contact document", func(mt *mtest.T) {
		repo := newMockMongoRepository(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		contact := &model.ContactMessage{
			ID:        "c-1",
			Name:      "John Doe",
			Email:     "john.doe@example.com",
			Message:   "Hello",
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Status:    model.StatusNew,
		}
		require.NoError(mt, repo.Create(ctx, contact))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "insert", evt.CommandName)

		docs, err := evt.Command.Lookup("documents").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, docs, 1)
		doc := docs[0].Document()
		assert.Equal(mt, "c-1", doc.Lookup("id").StringValue())
		assert.Equal(mt, "new", doc.Lookup("status").StringValue())
	})

	mt.Run("list hides _id and sorts newest first", func(mt *mtest.T) {
		repo := newMockMongoRepository(mt)
		newer := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
		older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			contactDoc("c-2", "jane", newer, "read"),
			contactDoc("c-1", "john", older, model.StatusNew),
		))

		contacts, err := repo.List(ctx)
		require.NoError(mt, err)
		require.Len(mt, contacts, 2)
		assert.Equal(mt, "c-2", contacts[0].ID)
		assert.Equal(mt, "read", contacts[0].Status)
		assert.Equal(mt, time.UTC, contacts[0].CreatedAt.Location())
		assert.True(mt, contacts[0].CreatedAt.Equal(newer))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "find", evt.CommandName)

		var projection bson.M
		require.NoError(mt, bson.Unmarshal(evt.Command.Lookup("projection").Document(), &projection))
		assert.Len(mt, projection, 1)
		assert.EqualValues(mt, 0, projection["_id"])

		var sort bson.D
		require.NoError(mt, bson.Unmarshal(evt.Command.Lookup("sort").Document(), &sort))
		require.Len(mt, sort, 2)
		assert.Equal(mt, "created_at", sort[0].Key)
		assert.EqualValues(mt, -1, sort[0].Value)
		assert.Equal(mt, "_id", sort[1].Key)
		assert.EqualValues(mt, -1, sort[1].Value)
	})

	mt.Run("list of an empty collection is empty, not nil", func(mt *mtest.T) {
		repo := newMockMongoRepository(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		contacts, err := repo.List(ctx)
		require.NoError(mt, err)
		assert.NotNil(mt, contacts)
		assert.Empty(mt, contacts)
	})

	mt.Run("get by id filters on the public id and hides _id", func(mt *mtest.T) {
		repo := newMockMongoRepository(mt)
		createdAt := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			contactDoc("c-1", "john", createdAt, model.StatusNew),
		))

		contact, err := repo.GetByID(ctx, "c-1")
		require.NoError(mt, err)
		assert.Equal(mt, "c-1", contact.ID)
		assert.Equal(mt, "john", contact.Name)
		assert.True(mt, contact.CreatedAt.Equal(createdAt))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "c-1", evt.Command.Lookup("filter", "id").StringValue())

		var projection bson.M
		require.NoError(mt, bson.Unmarshal(evt.Command.Lookup("projection").Document(), &projection))
		assert.EqualValues(mt, 0, projection["_id"])
	})

	mt.Run("get by id of a missing contact is not found", func(mt *mtest.T) {
		repo := newMockMongoRepository(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := repo.GetByID(ctx, "does-not-exist")
		assert.ErrorIs(mt, err, ErrContactNotFound)
	})

	mt.Run("update status of an existing contact", func(mt *mtest.T) {
		repo := newMockMongoRepository(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		require.NoError(mt, repo.UpdateStatus(ctx, "c-1", "read"))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "update", evt.CommandName)

		updates, err := evt.Command.Lookup("updates").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, updates, 1)
		update := updates[0].Document()
		assert.Equal(mt, "c-1", update.Lookup("q", "id").StringValue())
		assert.Equal(mt, "read", update.Lookup("u", "$set", "status").StringValue())
	})

	mt.Run("update status to the current value still succeeds", func(mt *mtest.T) {
		repo := newMockMongoRepository(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
		))

		assert.NoError(mt, repo.UpdateStatus(ctx, "c-1", "read"))
	})

	mt.Run("update status of a missing contact is not found", func(mt *mtest.T) {
		repo := newMockMongoRepository(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.UpdateStatus(ctx, "does-not-exist", "read")
		assert.ErrorIs(mt, err, ErrContactNotFound)
	})

	mt.Run("store errors are wrapped, not reported as not found", func(mt *mtest.T) {
		repo := newMockMongoRepository(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad value",
			Name:    "BadValue",
		}))

		_, err := repo.GetByID(ctx, "c-1")
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, ErrContactNotFound)
	})

	mt.Run("count by status matches on status", func(mt *mtest.T) {
		repo := newMockMongoRepository(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "n", Value: 3}},
		))

		n, err := repo.CountByStatus(ctx, model.StatusNew)
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), n)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "aggregate", evt.CommandName)
		stages, err := evt.Command.Lookup("pipeline").Array().Values()
		require.NoError(mt, err)
		require.NotEmpty(mt, stages)
		assert.Equal(mt, model.StatusNew, stages[0].Document().Lookup("$match", "status").StringValue())
	})
}
