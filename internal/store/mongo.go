package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"todos/internal/models"
)

const todosCollection = "todos"

// todoDocument is the stored shape of a todo. The ObjectID hex string is the
// public id; ObjectIDs increase with creation time, which gives list its order.
type todoDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Task      string             `bson:"task"`
	Completed bool               `bson:"completed"`
}

func (d todoDocument) toModel() models.Todo {
	return models.Todo{ID: d.ID.Hex(), Task: d.Task, Completed: d.Completed}
}

// MongoStore implements the Store interface on a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	todos  *mongo.Collection
}

// NewMongoStore connects to uri and uses the todos collection of database.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &MongoStore{
		client: client,
		todos:  client.Database(database).Collection(todosCollection),
	}, nil
}

// Ping verifies the server is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

// CreateTodo inserts a new, not yet completed todo.
func (s *MongoStore) CreateTodo(ctx context.Context, task string) (*models.Todo, error) {
	doc := todoDocument{ID: primitive.NewObjectID(), Task: task}
	todo := doc.toModel()
	if err := todo.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.todos.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	return &todo, nil
}

// ListTodos returns every todo ordered by ObjectID.
func (s *MongoStore) ListTodos(ctx context.Context) ([]models.Todo, error) {
	cur, err := s.todos.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	var docs []todoDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode todos: %w", err)
	}

	todos := make([]models.Todo, 0, len(docs))
	for _, d := range docs {
		todos = append(todos, d.toModel())
	}
	return todos, nil
}

// UpdateTodo applies the fields present in patch and returns the stored record.
func (s *MongoStore) UpdateTodo(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}

	var doc todoDocument
	filter := bson.M{"_id": oid}
	if patch.IsEmpty() {
		err = s.todos.FindOne(ctx, filter).Decode(&doc)
	} else {
		set := bson.M{}
		if patch.Task != nil {
			set["task"] = *patch.Task
		}
		if patch.Completed != nil {
			set["completed"] = *patch.Completed
		}
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err = s.todos.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", models.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	todo := doc.toModel()
	return &todo, nil
}

// DeleteTodo permanently removes a todo.
func (s *MongoStore) DeleteTodo(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}

	res, err := s.todos.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}

	return nil
}
