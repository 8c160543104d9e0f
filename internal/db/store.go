package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amara/scholarfind/internal/models"
)

var (
	// ErrAlreadyFavorited reports an add for a pair that already exists.
	ErrAlreadyFavorited = errors.New("already favorited")
	// ErrNotFound reports a lookup or mutation that matched no row.
	ErrNotFound = errors.New("not found")
	// ErrInvalidStatus reports a status outside the allowed set.
	ErrInvalidStatus = errors.New("invalid status")
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// SyncBlogPosts ensures a counter row exists for every published post in
// the content index. Existing counters are left untouched.
func (s *Store) SyncBlogPosts(ctx context.Context, postIDs []string) error {
	for _, id := range postIDs {
		if _, err := s.pool.Exec(ctx, `
			INSERT INTO blog_posts (id) VALUES ($1)
			ON CONFLICT (id) DO NOTHING
		`, id); err != nil {
			return fmt.Errorf("syncing blog post %s: %w", id, err)
		}
	}
	return nil
}

// Favorites

// AddFavorite inserts the (user, opportunity) pair. The composite primary
// key makes the insert idempotent without a read-then-write round trip.
func (s *Store) AddFavorite(ctx context.Context, userID uuid.UUID, opportunityID string) error {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO favorites (user_id, opportunity_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, opportunity_id) DO NOTHING
	`, userID, opportunityID)
	if err != nil {
		return fmt.Errorf("adding favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyFavorited
	}
	return nil
}

// RemoveFavorite deletes the pair. Removing a favorite that does not
// exist returns ErrNotFound and touches nothing else.
func (s *Store) RemoveFavorite(ctx context.Context, userID uuid.UUID, opportunityID string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM favorites
		WHERE user_id = $1 AND opportunity_id = $2
	`, userID, opportunityID)
	if err != nil {
		return fmt.Errorf("removing favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFavoriteIDs returns the user's favorited opportunity ids, newest
// first.
func (s *Store) ListFavoriteIDs(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT opportunity_id FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Blog interactions

// BlogCounters is the aggregate pair stored per post.
type BlogCounters struct {
	Upvotes int `json:"upvotes"`
	Views   int `json:"views"`
}

// ToggleUpvote flips the user's flag and moves the aggregate counter by
// exactly ±1, in a single transaction. The composite key upsert replaces
// the query-then-branch pattern, so two concurrent first toggles cannot
// both insert.
func (s *Store) ToggleUpvote(ctx context.Context, userID uuid.UUID, postID string) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("beginning upvote tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// has_viewed stays at its default here; RecordView owns that flag and
	// the views counter moves only when it flips.
	var upvoted bool
	err = tx.QueryRow(ctx, `
		INSERT INTO blog_interactions (user_id, post_id, has_upvoted)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (user_id, post_id)
		DO UPDATE SET has_upvoted = NOT blog_interactions.has_upvoted, updated_at = NOW()
		RETURNING has_upvoted
	`, userID, postID).Scan(&upvoted)
	if err != nil {
		return false, fmt.Errorf("upserting interaction: %w", err)
	}

	delta := -1
	if upvoted {
		delta = 1
	}
	tag, err := tx.Exec(ctx, `
		UPDATE blog_posts
		SET upvotes = upvotes + $1, updated_at = NOW()
		WHERE id = $2
	`, delta, postID)
	if err != nil {
		return false, fmt.Errorf("updating upvote counter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("committing upvote tx: %w", err)
	}
	return upvoted, nil
}

// RecordView counts a view at most once per (user, post) pair: the
// counter moves only when has_viewed flips false to true, and both writes
// share one transaction.
func (s *Store) RecordView(ctx context.Context, userID uuid.UUID, postID string) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("beginning view tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// The conditional upsert returns a row only when the flag actually
	// flips; an already-viewed pair falls through with no row.
	var viewed bool
	err = tx.QueryRow(ctx, `
		INSERT INTO blog_interactions (user_id, post_id, has_viewed)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (user_id, post_id)
		DO UPDATE SET has_viewed = TRUE, updated_at = NOW()
		WHERE blog_interactions.has_viewed = FALSE
		RETURNING has_viewed
	`, userID, postID).Scan(&viewed)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("upserting view flag: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE blog_posts
		SET views = views + 1, updated_at = NOW()
		WHERE id = $1
	`, postID)
	if err != nil {
		return false, fmt.Errorf("updating view counter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("committing view tx: %w", err)
	}
	return true, nil
}

// GetBlogCounters fetches the aggregate counters for the given posts.
// Posts without a counter row simply don't appear in the map.
func (s *Store) GetBlogCounters(ctx context.Context, postIDs []string) (map[string]BlogCounters, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, upvotes, views FROM blog_posts
		WHERE id = ANY($1)
	`, postIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching blog counters: %w", err)
	}
	defer rows.Close()

	counters := make(map[string]BlogCounters)
	for rows.Next() {
		var id string
		var c BlogCounters
		if err := rows.Scan(&id, &c.Upvotes, &c.Views); err != nil {
			return nil, fmt.Errorf("scanning blog counters: %w", err)
		}
		counters[id] = c
	}
	return counters, rows.Err()
}

// ListInteractions returns the user's interaction flags keyed by post id.
func (s *Store) ListInteractions(ctx context.Context, userID uuid.UUID) (map[string]models.BlogInteraction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, post_id, has_upvoted, has_viewed, created_at, updated_at
		FROM blog_interactions
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing interactions: %w", err)
	}
	defer rows.Close()

	out := make(map[string]models.BlogInteraction)
	for rows.Next() {
		var it models.BlogInteraction
		if err := rows.Scan(&it.UserID, &it.PostID, &it.HasUpvoted, &it.HasViewed, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning interaction: %w", err)
		}
		out[it.PostID] = it
	}
	return out, rows.Err()
}

// CountUpvoted counts how many posts the user currently has upvoted.
func (s *Store) CountUpvoted(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM blog_interactions
		WHERE user_id = $1 AND has_upvoted = TRUE
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting upvoted posts: %w", err)
	}
	return count, nil
}

// Help requests

// CreateHelpRequest stores a new submission with status "submitted" and a
// server-side timestamp.
func (s *Store) CreateHelpRequest(ctx context.Context, req models.HelpRequest) (*models.HelpRequest, error) {
	if req.Documents == nil {
		req.Documents = []models.DocumentRef{}
	}
	docs, err := json.Marshal(req.Documents)
	if err != nil {
		return nil, fmt.Errorf("encoding document refs: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		INSERT INTO help_requests (
			user_id, service_type, scholarship_type, full_application_service,
			deadline, current_status, specific_help, additional_info, urgency, documents
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, status, submitted_at
	`, req.UserID, req.ServiceType, req.ScholarshipType, req.FullApplicationService,
		req.Deadline, req.CurrentStatus, req.SpecificHelp, req.AdditionalInfo, req.Urgency, docs,
	).Scan(&req.ID, &req.Status, &req.SubmittedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting help request: %w", err)
	}
	return &req, nil
}

const helpRequestCols = `id, user_id, service_type, scholarship_type, full_application_service,
	deadline, current_status, specific_help, additional_info, urgency, status, documents, submitted_at`

func scanHelpRequest(scan func(dest ...any) error) (models.HelpRequest, error) {
	var req models.HelpRequest
	var docsRaw []byte
	err := scan(
		&req.ID, &req.UserID, &req.ServiceType, &req.ScholarshipType, &req.FullApplicationService,
		&req.Deadline, &req.CurrentStatus, &req.SpecificHelp, &req.AdditionalInfo,
		&req.Urgency, &req.Status, &docsRaw, &req.SubmittedAt,
	)
	if err != nil {
		return req, err
	}
	if len(docsRaw) > 0 {
		_ = json.Unmarshal(docsRaw, &req.Documents)
	}
	if req.Documents == nil {
		req.Documents = []models.DocumentRef{}
	}
	return req, nil
}

// ListHelpRequests pages through every submission, newest first, for the
// admin dashboard.
func (s *Store) ListHelpRequests(ctx context.Context, limit, offset int) ([]models.HelpRequest, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM help_requests").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting help requests: %w", err)
	}

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM help_requests
		ORDER BY submitted_at DESC
		LIMIT $1 OFFSET $2
	`, helpRequestCols), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing help requests: %w", err)
	}
	defer rows.Close()

	reqs := []models.HelpRequest{}
	for rows.Next() {
		req, err := scanHelpRequest(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning help request: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, total, rows.Err()
}

// ListHelpRequestsByUser returns one user's own submissions, newest first.
func (s *Store) ListHelpRequestsByUser(ctx context.Context, userID uuid.UUID) ([]models.HelpRequest, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM help_requests
		WHERE user_id = $1
		ORDER BY submitted_at DESC
	`, helpRequestCols), userID)
	if err != nil {
		return nil, fmt.Errorf("listing user help requests: %w", err)
	}
	defer rows.Close()

	reqs := []models.HelpRequest{}
	for rows.Next() {
		req, err := scanHelpRequest(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning help request: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// UpdateHelpRequestStatus sets the status, the only mutable field after
// submission. Administrators only; the API layer enforces that.
func (s *Store) UpdateHelpRequestStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !models.ValidHelpStatus(status) {
		return ErrInvalidStatus
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE help_requests SET status = $1 WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("updating help request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Contact submissions

func (s *Store) CreateContactSubmission(ctx context.Context, sub models.ContactSubmission) (*models.ContactSubmission, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO contact_submissions (name, email, subject, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, submitted_at
	`, sub.Name, sub.Email, sub.Subject, sub.Message).Scan(&sub.ID, &sub.SubmittedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting contact submission: %w", err)
	}
	return &sub, nil
}

func (s *Store) ListContactSubmissions(ctx context.Context, limit, offset int) ([]models.ContactSubmission, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM contact_submissions").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting contact submissions: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, subject, message, submitted_at
		FROM contact_submissions
		ORDER BY submitted_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing contact submissions: %w", err)
	}
	defer rows.Close()

	subs := []models.ContactSubmission{}
	for rows.Next() {
		var sub models.ContactSubmission
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Email, &sub.Subject, &sub.Message, &sub.SubmittedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning contact submission: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, total, rows.Err()
}

// User documents

func (s *Store) CreateUserDocument(ctx context.Context, doc models.UserDocument) (*models.UserDocument, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO user_documents (user_id, file_name, content_type, url, preview)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, uploaded_at
	`, doc.UserID, doc.FileName, doc.ContentType, doc.URL, doc.Preview).Scan(&doc.ID, &doc.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting user document: %w", err)
	}
	return &doc, nil
}

func (s *Store) ListUserDocuments(ctx context.Context, userID uuid.UUID) ([]models.UserDocument, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, file_name, content_type, url, preview, uploaded_at
		FROM user_documents
		WHERE user_id = $1
		ORDER BY uploaded_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing user documents: %w", err)
	}
	defer rows.Close()

	docs := []models.UserDocument{}
	for rows.Next() {
		var doc models.UserDocument
		if err := rows.Scan(&doc.ID, &doc.UserID, &doc.FileName, &doc.ContentType, &doc.URL, &doc.Preview, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("scanning user document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
