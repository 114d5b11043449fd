package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/steambuds/portal/internal/core/domain"
)

const eventsCollection = "auth_events"

type MongoEventRepository struct {
	coll *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *MongoEventRepository {
	return &MongoEventRepository{coll: db.Collection(eventsCollection)}
}

type mongoAuthEvent struct {
	EventID   string `bson:"event_id"`
	UserID    string `bson:"user_id"`
	Action    string `bson:"action"`
	RemoteIP  string `bson:"remote_ip,omitempty"`
	CreatedAt int64  `bson:"created_at"`
}

func (r *MongoEventRepository) Insert(ctx context.Context, event *domain.AuthEvent) error {
	doc := mongoAuthEvent{
		EventID:   event.ID,
		UserID:    event.UserID,
		Action:    string(event.Action),
		RemoteIP:  event.RemoteIP,
		CreatedAt: event.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
