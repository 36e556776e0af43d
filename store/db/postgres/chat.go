package postgres

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/openscholar/scholard/store"
)

func (d *DB) CreateChat(ctx context.Context, create *store.Chat) (*store.Chat, error) {
	fields := []string{"id", "title", "title_source", "created_ts", "updated_ts"}
	args := []any{create.ID, create.Title, create.TitleSource, create.CreatedTs, create.UpdatedTs}

	stmt := `INSERT INTO chat (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)`
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "failed to create chat")
	}
	return create, nil
}

func (d *DB) ListChats(ctx context.Context, find *store.FindChat) ([]*store.Chat, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "chat.id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.Title != nil {
		where, args = append(where, "chat.title = "+placeholder(len(args)+1)), append(args, *find.Title)
	}
	if find.TitleContains != nil {
		where, args = append(where, "LOWER(chat.title) LIKE "+placeholder(len(args)+1)),
			append(args, "%"+strings.ToLower(*find.TitleContains)+"%")
	}

	query := `
		SELECT chat.id, chat.title, chat.title_source, chat.created_ts, chat.updated_ts,
			COUNT(message.id) AS message_count
		FROM chat
		LEFT JOIN message ON message.chat_id = chat.id
		WHERE ` + strings.Join(where, " AND ") + `
		GROUP BY chat.id
		ORDER BY chat.updated_ts DESC`

	if find.Limit != nil {
		query += " LIMIT " + placeholder(len(args)+1)
		args = append(args, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list chats")
	}
	defer rows.Close()

	list := []*store.Chat{}
	for rows.Next() {
		var chat store.Chat
		if err := rows.Scan(
			&chat.ID,
			&chat.Title,
			&chat.TitleSource,
			&chat.CreatedTs,
			&chat.UpdatedTs,
			&chat.MessageCount,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan chat")
		}
		list = append(list, &chat)
	}
	return list, rows.Err()
}

func (d *DB) UpdateChat(ctx context.Context, update *store.UpdateChat) (*store.Chat, error) {
	set, args := []string{}, []any{}

	if update.Title != nil {
		set, args = append(set, "title = "+placeholder(len(args)+1)), append(args, *update.Title)
	}
	if update.TitleSource != nil {
		set, args = append(set, "title_source = "+placeholder(len(args)+1)), append(args, *update.TitleSource)
	}
	if update.UpdatedTs != nil {
		set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, *update.UpdatedTs)
	}
	if len(set) == 0 {
		return nil, errors.New("nothing to update")
	}

	stmt := `UPDATE chat SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args)+1)
	args = append(args, update.ID)
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "failed to update chat")
	}

	list, err := d.ListChats(ctx, &store.FindChat{ID: &update.ID})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, errors.Errorf("chat %s not found", update.ID)
	}
	return list[0], nil
}

func (d *DB) DeleteChat(ctx context.Context, delete *store.DeleteChat) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin tx")
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM message WHERE chat_id = $1`,
		`DELETE FROM document WHERE chat_id = $1`,
		`DELETE FROM chat WHERE id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, delete.ID); err != nil {
			return errors.Wrap(err, "failed to delete chat")
		}
	}
	return tx.Commit()
}
