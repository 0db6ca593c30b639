package database

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func makeGroup(docCount int) duplicateGroup {
	docs := make([]primitive.ObjectID, docCount)
	for i := range docs {
		docs[i] = primitive.NewObjectID()
	}
	return duplicateGroup{Headline: "headline", Docs: docs, Count: docCount}
}

func TestBatchDuplicateIDsKeepsFirstDocument(t *testing.T) {
	group := makeGroup(3)

	batches := batchDuplicateIDs([]duplicateGroup{group}, 100)

	if len(batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(batches))
	}
	if len(batches[0]) != 2 {
		t.Fatalf("expected 2 ids to remove, got %d", len(batches[0]))
	}
	for _, id := range batches[0] {
		if id == group.Docs[0] {
			t.Error("first document of a group must not be removed")
		}
	}
}

func TestBatchDuplicateIDsPartitionsGroups(t *testing.T) {
	groups := make([]duplicateGroup, 250)
	for i := range groups {
		groups[i] = makeGroup(2)
	}

	batches := batchDuplicateIDs(groups, 100)

	if len(batches) != 3 {
		t.Fatalf("expected 3 batches for 250 groups, got %d", len(batches))
	}
	if len(batches[0]) != 100 || len(batches[1]) != 100 || len(batches[2]) != 50 {
		t.Errorf("unexpected batch sizes: %d, %d, %d",
			len(batches[0]), len(batches[1]), len(batches[2]))
	}
}

func TestBatchDuplicateIDsSkipsSingletonGroups(t *testing.T) {
	groups := []duplicateGroup{makeGroup(1), makeGroup(1)}

	if batches := batchDuplicateIDs(groups, 100); len(batches) != 0 {
		t.Errorf("expected no batches for singleton groups, got %d", len(batches))
	}
}

func TestBatchDuplicateIDsEmpty(t *testing.T) {
	if batches := batchDuplicateIDs(nil, 100); len(batches) != 0 {
		t.Errorf("expected no batches, got %d", len(batches))
	}
}
