package apiv1

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openscholar/scholard/store"
)

func TestCreateChatDefaults(t *testing.T) {
	s := newTestService(t)

	rec, err := request(t, s, s.createChat, http.MethodPost, "/api/v1/chats", `{}`, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	var got chatResponse
	decodeJSON(t, rec, &got)
	assert.NotEmpty(t, got.UID)
	assert.Equal(t, "New Research", got.Title)
	assert.Equal(t, "default", got.TitleSource)
}

func TestCreateChatWithTitle(t *testing.T) {
	s := newTestService(t)

	rec, err := request(t, s, s.createChat, http.MethodPost, "/api/v1/chats", `{"title":"Protein folding"}`, nil)
	require.NoError(t, err)

	var got chatResponse
	decodeJSON(t, rec, &got)
	assert.Equal(t, "Protein folding", got.Title)
	assert.Equal(t, "user", got.TitleSource)
}

func TestListChatsWithFilter(t *testing.T) {
	s := newTestService(t)
	seedChat(t, s)
	chat := seedChat(t, s)
	title := "Quantum computing"
	titleSource := store.TitleSourceUser
	_, err := s.Store.UpdateChat(context.Background(), &store.UpdateChat{
		ID:          chat.ID,
		Title:       &title,
		TitleSource: &titleSource,
	})
	require.NoError(t, err)

	rec, err := request(t, s, s.listChats, http.MethodGet, "/api/v1/chats?filter=title.contains('quantum')", "", nil)
	require.NoError(t, err)

	var got struct {
		Chats []chatResponse `json:"chats"`
	}
	decodeJSON(t, rec, &got)
	require.Len(t, got.Chats, 1)
	assert.Equal(t, "Quantum computing", got.Chats[0].Title)
}

func TestListChatsRejectsBadFilter(t *testing.T) {
	s := newTestService(t)

	_, err := request(t, s, s.listChats, http.MethodGet, "/api/v1/chats?filter=pinned", "", nil)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestGetChatIncludesMessages(t *testing.T) {
	s := newTestService(t)
	chat := seedChat(t, s, [2]string{"what is CRISPR?", "# CRISPR\n\nA genome editing tool."})

	rec, err := request(t, s, s.getChat, http.MethodGet, "/", "", map[string]string{"uid": chat.ID})
	require.NoError(t, err)

	var got struct {
		Chat     chatResponse      `json:"chat"`
		Messages []messageResponse `json:"messages"`
	}
	decodeJSON(t, rec, &got)
	assert.Equal(t, chat.ID, got.Chat.UID)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "what is CRISPR?", got.Messages[0].Query)
}

func TestGetChatNotFound(t *testing.T) {
	s := newTestService(t)

	_, err := request(t, s, s.getChat, http.MethodGet, "/", "", map[string]string{"uid": "missing"})
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestUpdateChatRejectsEmptyTitle(t *testing.T) {
	s := newTestService(t)
	chat := seedChat(t, s)

	_, err := request(t, s, s.updateChat, http.MethodPatch, "/", `{"title":""}`, map[string]string{"uid": chat.ID})
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestUpdateChatRename(t *testing.T) {
	s := newTestService(t)
	chat := seedChat(t, s)

	rec, err := request(t, s, s.updateChat, http.MethodPatch, "/", `{"title":"Renamed"}`, map[string]string{"uid": chat.ID})
	require.NoError(t, err)

	var got chatResponse
	decodeJSON(t, rec, &got)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "user", got.TitleSource)
}

func TestDeleteChat(t *testing.T) {
	s := newTestService(t)
	chat := seedChat(t, s)

	_, err := request(t, s, s.deleteChat, http.MethodDelete, "/", "", map[string]string{"uid": chat.ID})
	require.NoError(t, err)

	_, err = request(t, s, s.getChat, http.MethodGet, "/", "", map[string]string{"uid": chat.ID})
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}
