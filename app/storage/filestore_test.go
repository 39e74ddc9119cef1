package storage

import (
	"testing"
)

type note struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func (n *note) GetID() string   { return n.ID }
func (n *note) SetID(id string) { n.ID = id }

func noteEntities() map[string]Entity {
	return map[string]Entity{
		"notes": {
			Name:     "notes",
			New:      func() Record { return &note{} },
			NewSlice: func() interface{} { return &[]note{} },
		},
	}
}

func TestFileStoreSaveAndList(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), noteEntities())
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Save("notes", &note{ID: "N-1", Text: "premier"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Save("notes", &note{ID: "N-2", Text: "second"}); err != nil {
		t.Fatal(err)
	}

	records, err := store.List("notes")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("List returned %d records, want 2", len(records))
	}
	if records[0].GetID() != "N-1" || records[1].GetID() != "N-2" {
		t.Errorf("ids = %q, %q", records[0].GetID(), records[1].GetID())
	}
}

func TestFileStoreSaveUpserts(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), noteEntities())
	if err != nil {
		t.Fatal(err)
	}

	store.Save("notes", &note{ID: "N-1", Text: "avant"})
	store.Save("notes", &note{ID: "N-1", Text: "après"})

	records, err := store.List("notes")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("List returned %d records, want 1", len(records))
	}
	if got := records[0].(*note).Text; got != "après" {
		t.Errorf("Text = %q, want the replaced value", got)
	}
}

func TestFileStoreDeleteBulk(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), noteEntities())
	if err != nil {
		t.Fatal(err)
	}

	store.Save("notes", &note{ID: "N-1"})
	store.Save("notes", &note{ID: "N-2"})
	store.Save("notes", &note{ID: "N-3"})

	if err := store.DeleteBulk("notes", []string{"N-1", "N-3"}); err != nil {
		t.Fatal(err)
	}

	records, _ := store.List("notes")
	if len(records) != 1 || records[0].GetID() != "N-2" {
		t.Errorf("records after delete = %v", records)
	}
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first, err := NewFileStore(dir, noteEntities())
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Save("notes", &note{ID: "N-1", Text: "durable"}); err != nil {
		t.Fatal(err)
	}

	second, err := NewFileStore(dir, noteEntities())
	if err != nil {
		t.Fatal(err)
	}
	records, err := second.List("notes")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].(*note).Text != "durable" {
		t.Errorf("records from second instance = %v", records)
	}
}

func TestFileStoreUnknownEntity(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), noteEntities())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.List("ghosts"); err == nil {
		t.Error("List on an unknown entity should fail")
	}
	if err := store.Save("ghosts", &note{ID: "N-1"}); err == nil {
		t.Error("Save on an unknown entity should fail")
	}
}
