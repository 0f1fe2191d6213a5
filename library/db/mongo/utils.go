package mongo

import (
	"context"

	mongoLib "go.mongodb.org/mongo-driver/mongo"
)

// NewFromDatabase wraps an already connected database. Closing the
// returned handle does not disconnect the underlying client.
func NewFromDatabase(database *mongoLib.Database) DB {
	return &borrowed{database: database}
}

type borrowed struct {
	database *mongoLib.Database
}

func (b *borrowed) Close(context.Context) error {
	return nil
}

func (b *borrowed) CurrentDB() *mongoLib.Database {
	return b.database
}

func (b *borrowed) GetCol(colName string) *mongoLib.Collection {
	return b.database.Collection(colName)
}
