package apiv1

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"

	"github.com/openscholar/scholard/store"
)

// chatFeed serves a chat's research reports as an RSS feed, so a
// long-running investigation can be followed from a feed reader.
func (s *APIV1Service) chatFeed(c echo.Context) error {
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

	baseURL := s.Profile.InstanceURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d", s.Profile.Port)
	}
	chatURL := fmt.Sprintf("%s/api/v1/chats/%s", baseURL, uid)

	feed := &feeds.Feed{
		Title:       fmt.Sprintf("Scholard: %s", chat.Title),
		Link:        &feeds.Link{Href: chatURL},
		Description: "Research reports from this chat",
		Created:     time.Unix(chat.CreatedTs, 0),
	}

	for _, message := range messages {
		if message.Report == "" {
			continue
		}
		description, err := s.renderMarkdown(message.Report)
		if err != nil {
			slog.Warn("failed to render feed item", "message", message.ID, "error", err)
			description = message.Report
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          fmt.Sprintf("%s/messages/%d", chatURL, message.ID),
			Title:       message.Query,
			Link:        &feeds.Link{Href: chatURL},
			Description: description,
			Created:     time.Unix(message.CreatedTs, 0),
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}
