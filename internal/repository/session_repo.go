package repository

import (
	"context"
	"errors"
	"time"

	"campus-feedback-backend/internal/database"
	"campus-feedback-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type SessionRepo struct {
	collection *mongo.Collection
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{
		collection: database.GetCollection("sessions"),
	}
}

func (r *SessionRepo) Create(ctx context.Context, session *models.Session) error {
	session.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return err
	}
	session.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *SessionRepo) FindByToken(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	err := r.collection.FindOne(ctx, bson.M{"token": token}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"token": token})
	return err
}

// EnsureIndexes creates necessary indexes for the sessions collection
func (r *SessionRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index — auto-delete expired sessions
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
