package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const gamesCollection = "games"

// MongoArchive stores finished games, one document per game keyed by its id.
type MongoArchive struct {
	client *mongo.Client
	games  *mongo.Collection
	log    *zap.SugaredLogger
}

func NewMongoArchive(ctx context.Context, uri, database string, log *zap.SugaredLogger) (*MongoArchive, error) {
	ctxConnect, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctxConnect, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctxConnect, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	log.Infow("connected to mongodb", "database", database)
	return &MongoArchive{
		client: client,
		games:  client.Database(database).Collection(gamesCollection),
		log:    log,
	}, nil
}

// Archive upserts the game so archiving the same game twice is harmless.
func (a *MongoArchive) Archive(ctx context.Context, game ArchivedGame) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := a.games.ReplaceOne(ctx, bson.M{"_id": game.ID}, game, opts); err != nil {
		return fmt.Errorf("archive game %s: %w", game.ID, err)
	}
	a.log.Infow("game archived", "game", game.ID, "result", game.Result)
	return nil
}

func (a *MongoArchive) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}
