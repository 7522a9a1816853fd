package bot

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) Repo {
	return &repo{db: db}
}

func (r *repo) Save(ctx context.Context, messages []Message) error {
	for _, m := range messages {
		var contextID, contextName, originalURL, previewURL any
		if m.Context != nil {
			contextID = m.Context.ID.String()
			contextName = m.Context.Name
		}
		if m.Image != nil {
			originalURL = m.Image.OriginalURL
			previewURL = m.Image.PreviewURL
		}

		_, err := r.db.ExecContext(ctx, `
			INSERT INTO messages (user_id, sender, text, context_id, context_name, original_url, preview_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			m.UserID,
			string(m.From),
			m.Text,
			contextID,
			contextName,
			originalURL,
			previewURL,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) ListByUserID(ctx context.Context, userID string, limit int, order Order) ([]Message, error) {
	direction := "ASC"
	if order == Descending {
		direction = "DESC"
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, sender, text, context_id, context_name, original_url, preview_url, extract(epoch from created_at)::bigint
		FROM messages
		WHERE user_id = $1
		ORDER BY created_at `+direction+`
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		var sender string
		var contextID, contextName, originalURL, previewURL sql.NullString
		if err := rows.Scan(
			&m.UserID,
			&sender,
			&m.Text,
			&contextID,
			&contextName,
			&originalURL,
			&previewURL,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		m.From = Sender(sender)
		if contextID.Valid {
			id, err := uuid.Parse(contextID.String)
			if err != nil {
				return nil, err
			}
			m.Context = &Context{ID: id, Name: contextName.String}
		}
		if originalURL.Valid {
			m.Image = &ImagePayload{
				OriginalURL: originalURL.String,
				PreviewURL:  previewURL.String,
			}
		}
		out = append(out, m)
	}

	return out, rows.Err()
}
