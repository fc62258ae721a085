package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/concert-ticket-reservation/internal/model"
)

// ArtistRepo provides access to artist applications and profiles.
// A user has at most one row; re-applying after a rejection updates
// the existing row back to PENDING rather than inserting a second one.
type ArtistRepo struct {
    db *sql.DB
}

func NewArtistRepo(db *sql.DB) *ArtistRepo { return &ArtistRepo{db: db} }

// GetByUser returns the application row for a user, or ErrNotFound.
func (r *ArtistRepo) GetByUser(ctx context.Context, userID uint64) (*model.Artist, error) {
    const q = `SELECT id, user_id, artist_name, genre, country, bio, proof, status, review_note, applied_at, reviewed_at
               FROM artists WHERE user_id = ? LIMIT 1`
    return r.scanOne(r.db.QueryRowContext(ctx, q, userID))
}

// GetByID returns an application by id, or ErrNotFound.
func (r *ArtistRepo) GetByID(ctx context.Context, id uint64) (*model.Artist, error) {
    const q = `SELECT id, user_id, artist_name, genre, country, bio, proof, status, review_note, applied_at, reviewed_at
               FROM artists WHERE id = ? LIMIT 1`
    return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// Apply submits an artist application.  A fresh application inserts a
// PENDING row; a previously rejected applicant gets their row updated
// and reset to PENDING.  A pending or approved row rejects the attempt
// with ErrDuplicateApplication.
func (r *ArtistRepo) Apply(ctx context.Context, a *model.Artist) error {
    existing, err := r.GetByUser(ctx, a.UserID)
    if err != nil && !errors.Is(err, ErrNotFound) {
        return err
    }
    if existing == nil {
        const ins = `INSERT INTO artists (user_id, artist_name, genre, country, bio, proof, status)
                     VALUES (?, ?, ?, ?, ?, ?, ?)`
        res, err := r.db.ExecContext(ctx, ins, a.UserID, a.ArtistName, a.Genre, a.Country, a.Bio, a.Proof, model.ArtistPending)
        if err != nil {
            return err
        }
        id, err := res.LastInsertId()
        if err != nil {
            return err
        }
        a.ID = uint64(id)
        a.Status = model.ArtistPending
        return nil
    }
    if existing.Status != model.ArtistRejected {
        return ErrDuplicateApplication
    }
    const upd = `UPDATE artists
                 SET artist_name = ?, genre = ?, country = ?, bio = ?, proof = ?,
                     status = ?, review_note = NULL, applied_at = UTC_TIMESTAMP(), reviewed_at = NULL
                 WHERE user_id = ?`
    if _, err := r.db.ExecContext(ctx, upd, a.ArtistName, a.Genre, a.Country, a.Bio, a.Proof, model.ArtistPending, a.UserID); err != nil {
        return err
    }
    a.ID = existing.ID
    a.Status = model.ArtistPending
    return nil
}

// ApplicationSummary is one row of the admin review list.
type ApplicationSummary struct {
    ID         uint64    `json:"id"`
    ArtistName string    `json:"artist_name"`
    Genre      string    `json:"genre"`
    Country    string    `json:"country"`
    Status     string    `json:"status"`
    Email      string    `json:"email"`
    AppliedAt  time.Time `json:"applied_at"`
}

// ListPending returns pending applications newest first, joined with
// the applicant's email.
func (r *ArtistRepo) ListPending(ctx context.Context) ([]ApplicationSummary, error) {
    const q = `SELECT a.id, a.artist_name, a.genre, a.country, a.status, u.email, a.applied_at
               FROM artists a
               JOIN users u ON u.id = a.user_id
               WHERE a.status = ?
               ORDER BY a.applied_at DESC`
    rows, err := r.db.QueryContext(ctx, q, model.ArtistPending)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]ApplicationSummary, 0)
    for rows.Next() {
        var s ApplicationSummary
        if err := rows.Scan(&s.ID, &s.ArtistName, &s.Genre, &s.Country, &s.Status, &s.Email, &s.AppliedAt); err != nil {
            return nil, err
        }
        out = append(out, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// CountByStatus returns application counts keyed by status for the
// admin review screen.
func (r *ArtistRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
    rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM artists GROUP BY status`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    counts := map[string]int{
        model.ArtistPending:  0,
        model.ArtistApproved: 0,
        model.ArtistRejected: 0,
    }
    for rows.Next() {
        var status string
        var n int
        if err := rows.Scan(&status, &n); err != nil {
            return nil, err
        }
        counts[status] = n
    }
    return counts, rows.Err()
}

// Review resolves a pending application.  On approval the applicant's
// role is promoted to ARTIST in the same transaction.  Reviewing a
// non-pending application returns ErrNotFound so a double review is a
// clean 404 instead of silently flipping statuses.
func (r *ArtistRepo) Review(ctx context.Context, id uint64, approve bool, note string) (*model.Artist, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    const sel = `SELECT user_id, status FROM artists WHERE id = ? FOR UPDATE`
    var userID uint64
    var status string
    if err := tx.QueryRowContext(ctx, sel, id).Scan(&userID, &status); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrNotFound
        }
        return nil, err
    }
    if status != model.ArtistPending {
        return nil, ErrNotFound
    }

    next := model.ArtistRejected
    if approve {
        next = model.ArtistApproved
    }
    const upd = `UPDATE artists SET status = ?, review_note = ?, reviewed_at = UTC_TIMESTAMP() WHERE id = ?`
    if _, err := tx.ExecContext(ctx, upd, next, nullableString(note), id); err != nil {
        return nil, err
    }
    if approve {
        if _, err := tx.ExecContext(ctx,
            `UPDATE users SET role = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`,
            model.RoleArtist, userID); err != nil {
            return nil, err
        }
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return r.GetByID(ctx, id)
}

func (r *ArtistRepo) scanOne(row *sql.Row) (*model.Artist, error) {
    var a model.Artist
    var note sql.NullString
    var reviewed sql.NullTime
    err := row.Scan(&a.ID, &a.UserID, &a.ArtistName, &a.Genre, &a.Country, &a.Bio, &a.Proof,
        &a.Status, &note, &a.AppliedAt, &reviewed)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    if note.Valid {
        n := note.String
        a.ReviewNote = &n
    }
    if reviewed.Valid {
        t := reviewed.Time
        a.ReviewedAt = &t
    }
    return &a, nil
}

func nullableString(s string) interface{} {
    if s == "" {
        return nil
    }
    return s
}
