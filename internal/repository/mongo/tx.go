package mongo

import (
	"context"

	"gymtrack/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

// mongoTxManager implements repository.TxManager using MongoDB sessions.
// Repositories executed inside the callback pick up the session from the
// context, so a read-then-write (e.g. the session dedup check) runs as one
// transaction. Under a true concurrent race the store's transaction ordering
// decides; the last write wins and no error is surfaced.
type mongoTxManager struct {
	client *mongo.Client
}

// NewMongoTxManager creates a TxManager backed by the given client.
func NewMongoTxManager(client *mongo.Client) repository.TxManager {
	return &mongoTxManager{client: client}
}

func (m *mongoTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := m.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
