package apiv1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/openscholar/scholard/store"
)

type chatResponse struct {
	UID          string `json:"uid"`
	Title        string `json:"title"`
	TitleSource  string `json:"title_source"`
	CreatedTs    int64  `json:"created_ts"`
	UpdatedTs    int64  `json:"updated_ts"`
	MessageCount int32  `json:"message_count"`
}

type messageResponse struct {
	ID        int64  `json:"id"`
	Query     string `json:"query"`
	Report    string `json:"report"`
	CreatedTs int64  `json:"created_ts"`
}

func convertChat(chat *store.Chat) *chatResponse {
	return &chatResponse{
		UID:          chat.ID,
		Title:        chat.Title,
		TitleSource:  string(chat.TitleSource),
		CreatedTs:    chat.CreatedTs,
		UpdatedTs:    chat.UpdatedTs,
		MessageCount: chat.MessageCount,
	}
}

func convertMessage(message *store.Message) *messageResponse {
	return &messageResponse{
		ID:        message.ID,
		Query:     message.Query,
		Report:    message.Report,
		CreatedTs: message.CreatedTs,
	}
}

type createChatRequest struct {
	Title string `json:"title"`
}

func (s *APIV1Service) createChat(c echo.Context) error {
	ctx := c.Request().Context()

	request := &createChatRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	create := &store.Chat{Title: request.Title}
	if request.Title != "" {
		create.TitleSource = store.TitleSourceUser
	}

	chat, err := s.Store.CreateChat(ctx, create)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, convertChat(chat))
}

func (s *APIV1Service) listChats(c echo.Context) error {
	ctx := c.Request().Context()

	find := &store.FindChat{}
	filter, err := parseTitleFilter(c.QueryParam("filter"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if filter != nil {
		if filter.Equals != "" {
			find.Title = &filter.Equals
		} else {
			find.TitleContains = &filter.Contains
		}
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		find.Limit = &limit
	}

	chats, err := s.Store.ListChats(ctx, find)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	list := make([]*chatResponse, 0, len(chats))
	for _, chat := range chats {
		list = append(list, convertChat(chat))
	}
	return c.JSON(http.StatusOK, map[string]any{"chats": list})
}

func (s *APIV1Service) getChat(c echo.Context) error {
	ctx := c.Request().Context()
	uid := c.Param("uid")

	chat, err := s.Store.GetChat(ctx, &store.FindChat{ID: &uid})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if chat == nil {
		return echo.NewHTTPError(http.StatusNotFound, "chat not found")
	}

	messages, err := s.Store.ListMessages(ctx, &store.FindMessage{ChatID: &uid})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	list := make([]*messageResponse, 0, len(messages))
	for _, message := range messages {
		list = append(list, convertMessage(message))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"chat":     convertChat(chat),
		"messages": list,
	})
}

type updateChatRequest struct {
	Title string `json:"title"`
}

func (s *APIV1Service) updateChat(c echo.Context) error {
	ctx := c.Request().Context()
	uid := c.Param("uid")

	request := &updateChatRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if request.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title cannot be empty")
	}

	chat, err := s.Store.GetChat(ctx, &store.FindChat{ID: &uid})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if chat == nil {
		return echo.NewHTTPError(http.StatusNotFound, "chat not found")
	}

	titleSource := store.TitleSourceUser
	updated, err := s.Store.UpdateChat(ctx, &store.UpdateChat{
		ID:          uid,
		Title:       &request.Title,
		TitleSource: &titleSource,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, convertChat(updated))
}

func (s *APIV1Service) deleteChat(c echo.Context) error {
	ctx := c.Request().Context()
	uid := c.Param("uid")

	chat, err := s.Store.GetChat(ctx, &store.FindChat{ID: &uid})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if chat == nil {
		return echo.NewHTTPError(http.StatusNotFound, "chat not found")
	}

	if err := s.Store.DeleteChat(ctx, &store.DeleteChat{ID: uid}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
