package credentials_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"voxlock/internal/credentials"
	"voxlock/internal/services"
	"voxlock/internal/testsupport"
)

func testRecord(identity string) *credentials.Record {
	return &credentials.Record{
		Identity:         identity,
		VoiceTemplate:    []byte("template-bytes"),
		PhraseCiphertext: []byte("sealed-phrase"),
		PhraseKey:        []byte("phrase-key"),
	}
}

func TestUpsertAndGet(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := store.Upsert(ctx, testRecord("alice@example.com")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	record, err := store.Get(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(record.VoiceTemplate, []byte("template-bytes")) {
		t.Fatalf("template mismatch: %q", record.VoiceTemplate)
	}
	if record.CreatedAt.IsZero() || record.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}
}

func TestGetUnknownIdentityIsNotFound(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	_, err := store.Get(context.Background(), "nobody@example.com")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestUpsertOverwritesWholeRecord(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := store.Upsert(ctx, testRecord("bob@example.com")); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}

	replacement := testRecord("bob@example.com")
	replacement.VoiceTemplate = []byte("new-template")
	replacement.PhraseCiphertext = []byte("new-phrase")
	replacement.PhraseKey = []byte("new-key")
	if err := store.Upsert(ctx, replacement); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	record, err := store.Get(ctx, "bob@example.com")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(record.VoiceTemplate, []byte("new-template")) {
		t.Fatal("expected template to be replaced")
	}
	if !bytes.Equal(record.PhraseKey, []byte("new-key")) {
		t.Fatal("expected key to be replaced")
	}
}

func TestIdentityKeysAreCaseSensitive(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := store.Upsert(ctx, testRecord("Alice@example.com")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := store.Get(ctx, "alice@example.com"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected case-sensitive miss, got %v", err)
	}
}

func TestUpsertRejectsPartialRecord(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	record := testRecord("carol@example.com")
	record.VoiceTemplate = nil
	err := store.Upsert(context.Background(), record)
	if !errors.Is(err, services.ErrPersistence) {
		t.Fatalf("expected persistence error for partial record, got %v", err)
	}
}

func TestDeleteAndList(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	for _, identity := range []string{"a@x", "b@x", "c@x"} {
		if err := store.Upsert(ctx, testRecord(identity)); err != nil {
			t.Fatalf("Upsert %s: %v", identity, err)
		}
	}
	if err := store.Delete(ctx, "b@x"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, "missing@x"); err != nil {
		t.Fatalf("Delete of unknown identity should not fail: %v", err)
	}

	summaries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 records, got %d", len(summaries))
	}
	if summaries[0].Identity != "a@x" || summaries[1].Identity != "c@x" {
		t.Fatalf("unexpected ordering: %+v", summaries)
	}
	if summaries[0].TemplateSize == 0 {
		t.Fatal("expected non-zero template size")
	}
}
