package exports

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Append inserts a ledger row. A batch row whose document key is already
// present is skipped and reported as ErrDuplicate.
func (r *PGRepo) Append(ctx context.Context, entry Entry) error {
	const query = `
INSERT INTO contact_exports (
    id,
    session_id,
    source,
    file_name,
    document_key,
    name,
    email,
    phone,
    location,
    linkedin,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (document_key) WHERE source = 'batch' AND document_key <> '' DO NOTHING`

	res, err := r.DB.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.SessionID,
		string(entry.Source),
		entry.FileName,
		entry.DocumentKey,
		entry.Contact.Name,
		entry.Contact.Email,
		entry.Contact.Phone,
		entry.Contact.Location,
		entry.Contact.LinkedIn,
		entry.CreatedAt,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrDuplicate
	}
	return nil
}

// List lists entries ordered newest-first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, session_id, source, file_name, document_key, name, email, phone, location, linkedin, created_at
FROM contact_exports
ORDER BY created_at DESC, id
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var entry Entry
		var source string
		if err := rows.Scan(
			&entry.ID,
			&entry.SessionID,
			&source,
			&entry.FileName,
			&entry.DocumentKey,
			&entry.Contact.Name,
			&entry.Contact.Email,
			&entry.Contact.Phone,
			&entry.Contact.Location,
			&entry.Contact.LinkedIn,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entry.Source = Source(source)
		out = append(out, entry)
	}
	return out, rows.Err()
}

// Count returns the number of ledger rows.
func (r *PGRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_exports`).Scan(&n)
	return n, err
}

var _ Repo = (*PGRepo)(nil)
