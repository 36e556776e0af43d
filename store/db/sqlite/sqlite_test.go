package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openscholar/scholard/internal/profile"
	"github.com/openscholar/scholard/store"
)

func newTestDB(t *testing.T) store.Driver {
	t.Helper()
	p := &profile.Profile{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "scholard_test.db"),
	}
	driver, err := NewDB(p)
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close() })
	require.NoError(t, driver.Migrate(context.Background()))
	return driver
}

func TestChatCRUD(t *testing.T) {
	ctx := context.Background()
	driver := newTestDB(t)

	chat, err := driver.CreateChat(ctx, &store.Chat{
		ID:          "chat-1",
		Title:       "New Research",
		TitleSource: store.TitleSourceDefault,
		CreatedTs:   100,
		UpdatedTs:   100,
	})
	require.NoError(t, err)
	require.Equal(t, "chat-1", chat.ID)

	list, err := driver.ListChats(ctx, &store.FindChat{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "New Research", list[0].Title)
	assert.Equal(t, int32(0), list[0].MessageCount)

	newTitle := "Quantum error correction"
	titleSource := store.TitleSourceAuto
	updated, err := driver.UpdateChat(ctx, &store.UpdateChat{
		ID:          "chat-1",
		Title:       &newTitle,
		TitleSource: &titleSource,
	})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, store.TitleSourceAuto, updated.TitleSource)

	require.NoError(t, driver.DeleteChat(ctx, &store.DeleteChat{ID: "chat-1"}))
	list, err = driver.ListChats(ctx, &store.FindChat{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListChatsTitleContains(t *testing.T) {
	ctx := context.Background()
	driver := newTestDB(t)

	for _, c := range []*store.Chat{
		{ID: "a", Title: "Quantum computing", TitleSource: store.TitleSourceAuto, CreatedTs: 1, UpdatedTs: 1},
		{ID: "b", Title: "Protein folding", TitleSource: store.TitleSourceAuto, CreatedTs: 2, UpdatedTs: 2},
	} {
		_, err := driver.CreateChat(ctx, c)
		require.NoError(t, err)
	}

	contains := "QUANTUM"
	list, err := driver.ListChats(ctx, &store.FindChat{TitleContains: &contains})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].ID)
}

func TestMessagesOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	driver := newTestDB(t)

	_, err := driver.CreateChat(ctx, &store.Chat{
		ID: "chat-1", Title: "t", TitleSource: store.TitleSourceDefault, CreatedTs: 1, UpdatedTs: 1,
	})
	require.NoError(t, err)

	for i, query := range []string{"first", "second", "third"} {
		msg, err := driver.CreateMessage(ctx, &store.Message{
			ChatID:    "chat-1",
			Query:     query,
			Report:    "report " + query,
			CreatedTs: int64(10 + i),
		})
		require.NoError(t, err)
		assert.NotZero(t, msg.ID)
	}

	chatID := "chat-1"
	list, err := driver.ListMessages(ctx, &store.FindMessage{ChatID: &chatID})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "first", list[0].Query)
	assert.Equal(t, "third", list[2].Query)

	// Limit keeps the most recent messages but preserves ascending order.
	limit := 2
	list, err = driver.ListMessages(ctx, &store.FindMessage{ChatID: &chatID, Limit: &limit})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Query)
	assert.Equal(t, "third", list[1].Query)
}

func TestMessageCountJoin(t *testing.T) {
	ctx := context.Background()
	driver := newTestDB(t)

	_, err := driver.CreateChat(ctx, &store.Chat{
		ID: "chat-1", Title: "t", TitleSource: store.TitleSourceDefault, CreatedTs: 1, UpdatedTs: 1,
	})
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err := driver.CreateMessage(ctx, &store.Message{
			ChatID: "chat-1", Query: "q", Report: "r", CreatedTs: int64(i),
		})
		require.NoError(t, err)
	}

	list, err := driver.ListChats(ctx, &store.FindChat{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int32(2), list[0].MessageCount)
}

func TestDocumentCRUD(t *testing.T) {
	ctx := context.Background()
	driver := newTestDB(t)

	doc, err := driver.CreateDocument(ctx, &store.Document{
		ID:        "doc-1",
		ChatID:    "chat-1",
		Filename:  "notes.md",
		Mime:      "text/markdown",
		Content:   "# Notes",
		Summary:   "A short note.",
		WordCount: 2,
		SizeBytes: 7,
		CreatedTs: 100,
	})
	require.NoError(t, err)
	require.Equal(t, "doc-1", doc.ID)

	_, err = driver.CreateDocument(ctx, &store.Document{
		ID: "doc-2", ChatID: "chat-1", Filename: "later.txt", Content: "x", CreatedTs: 200,
	})
	require.NoError(t, err)

	// Newest first, so a handler can pick the latest upload.
	chatID := "chat-1"
	list, err := driver.ListDocuments(ctx, &store.FindDocument{ChatID: &chatID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "later.txt", list[0].Filename)
	assert.Equal(t, "notes.md", list[1].Filename)
	assert.Equal(t, "text/markdown", list[1].Mime)
	assert.Equal(t, "A short note.", list[1].Summary)
	assert.Equal(t, int32(2), list[1].WordCount)

	require.NoError(t, driver.DeleteDocument(ctx, &store.DeleteDocument{ID: "doc-1"}))
	list, err = driver.ListDocuments(ctx, &store.FindDocument{ChatID: &chatID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "doc-2", list[0].ID)
}

func TestDeleteChatCascades(t *testing.T) {
	ctx := context.Background()
	driver := newTestDB(t)

	_, err := driver.CreateChat(ctx, &store.Chat{
		ID: "chat-1", Title: "t", TitleSource: store.TitleSourceDefault, CreatedTs: 1, UpdatedTs: 1,
	})
	require.NoError(t, err)
	_, err = driver.CreateMessage(ctx, &store.Message{ChatID: "chat-1", Query: "q", Report: "r", CreatedTs: 1})
	require.NoError(t, err)
	_, err = driver.CreateDocument(ctx, &store.Document{
		ID: "doc-1", ChatID: "chat-1", Filename: "a.txt", Content: "x", SizeBytes: 1, CreatedTs: 1,
	})
	require.NoError(t, err)

	require.NoError(t, driver.DeleteChat(ctx, &store.DeleteChat{ID: "chat-1"}))

	chatID := "chat-1"
	msgs, err := driver.ListMessages(ctx, &store.FindMessage{ChatID: &chatID})
	require.NoError(t, err)
	assert.Empty(t, msgs)
	docs, err := driver.ListDocuments(ctx, &store.FindDocument{ChatID: &chatID})
	require.NoError(t, err)
	assert.Empty(t, docs)
}
