//go:build integration

package store

import (
	"context"
	"os"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/codemeta/pkg/codemeta"
	"github.com/matzehuels/codemeta/pkg/errors"
)

func TestMongoStore_Integration(t *testing.T) {
	uri := os.Getenv("CODEMETA_MONGO_URI")
	if uri == "" {
		t.Skip("CODEMETA_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := "codemeta_test_" + uuid.NewString()[:8]
	s, err := NewMongoStore(ctx, uri, db)
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer func() {
		_ = s.client.Database(db).Drop(ctx)
		s.Close()
	}()

	doc := codemeta.Document{"@context": "https://w3id.org/codemeta/3.0", "name": "demo"}
	if err := s.Save(ctx, "demo", doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	doc["description"] = "updated"
	if err := s.Save(ctx, "demo", doc); err != nil {
		t.Fatalf("Save again: %v", err)
	}

	got, err := s.Load(ctx, "demo")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("Load = %v, want %v", got, doc)
	}

	keys, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !slices.Equal(keys, []string{"demo"}) {
		t.Errorf("List = %v", keys)
	}

	if _, err := s.Load(ctx, "missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load missing error = %v, want NOT_FOUND", err)
	}
}
