package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/walloflove/wol-server/internal/domain"
	"github.com/walloflove/wol-server/internal/store"
)

// testimonialColumns must match the scan order in scanTestimonial.
const testimonialColumns = `id, created_at, owner_id, content, author_name, author_email, source, status, rating`

func scanTestimonial(scanner interface{ Scan(dest ...any) error }) (*domain.Testimonial, error) {
	var t domain.Testimonial

	var (
		createdAt string
		email     sql.NullString
		status    string
	)

	err := scanner.Scan(
		&t.ID,
		&createdAt,
		&t.OwnerID,
		&t.Content,
		&t.AuthorName,
		&email,
		&t.Source,
		&status,
		&t.Rating,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	if email.Valid {
		t.AuthorEmail = email.String
	}
	t.Status = domain.TestimonialStatus(status)

	return &t, nil
}

// CreateTestimonial inserts a new testimonial.
// Returns store.ErrAlreadyExists on duplicate ID.
func (s *Store) CreateTestimonial(ctx context.Context, t *domain.Testimonial) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO testimonials (
			id, created_at, owner_id, content, author_name, author_email, source, status, rating
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		formatTime(t.CreatedAt),
		t.OwnerID,
		t.Content,
		t.AuthorName,
		nullString(t.AuthorEmail),
		t.Source,
		string(t.Status),
		t.Rating,
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.Errorf("testimonial %s already exists", t.ID)
	}
	return err
}

// ListTestimonials returns testimonials matching q, newest first.
// Filtering, ordering and truncation all happen in one statement.
func (s *Store) ListTestimonials(ctx context.Context, q store.TestimonialQuery) ([]*domain.Testimonial, error) {
	var (
		where []string
		args  []any
	)

	where = append(where, "owner_id = ?")
	args = append(args, q.OwnerID)

	if q.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(q.Status))
	}

	if len(q.Sources) > 0 {
		where = append(where, "source IN ("+placeholders(len(q.Sources))+")")
		for _, src := range q.Sources {
			args = append(args, src)
		}
	}

	query := `SELECT ` + testimonialColumns + ` FROM testimonials WHERE ` +
		strings.Join(where, " AND ") +
		` ORDER BY created_at DESC, id DESC`

	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.Testimonial, 0)
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
