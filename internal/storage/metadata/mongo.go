// mongo.go — хранилище метаданных в MongoDB (в том числе Amazon DocumentDB).
package metadata

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Garondorf03/GameClipsHub/internal/domain/model"
)

// MongoStore — коллекция MongoDB с записями AssetRecord.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewMongoStore подключается к MongoDB. Соединение устанавливается лениво,
// доступность проверяется через Ping.
func NewMongoStore(ctx context.Context, uri, database, collection string, logger *slog.Logger) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к MongoDB: %w", err)
	}
	return newMongoStoreFromCollection(client, client.Database(database).Collection(collection), logger), nil
}

func newMongoStoreFromCollection(client *mongo.Client, coll *mongo.Collection, logger *slog.Logger) *MongoStore {
	return &MongoStore{
		client:     client,
		collection: coll,
		logger:     logger.With(slog.String("component", "mongodb")),
	}
}

// EnsureIndexes создаёт уникальный индекс по id и индекс по timestamp.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("ошибка создания индексов: %w", err)
	}
	return nil
}

// Insert добавляет документ.
func (s *MongoStore) Insert(ctx context.Context, rec *model.AssetRecord) error {
	if _, err := s.collection.InsertOne(ctx, rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: документ %s", ErrConflict, rec.ID)
		}
		return fmt.Errorf("ошибка вставки документа %s: %w", rec.ID, err)
	}
	return nil
}

// ListRecent возвращает записи с сортировкой на стороне сервера.
func (s *MongoStore) ListRecent(ctx context.Context) ([]model.AssetRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetProjection(bson.D{{Key: "_id", Value: 0}, {Key: "id", Value: 0}})

	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса документов: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]model.AssetRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("ошибка чтения документов: %w", err)
	}
	return records, nil
}

// Ping проверяет доступность primary.
func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("хранилище MongoDB недоступно: %w", err)
	}
	return nil
}

// Close закрывает соединения клиента.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
