package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/readtrail/internal/domain/activity"
	"github.com/rpggio/readtrail/internal/repository"
)

// timestampLayout is fixed width so text order matches time order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

const activityColumns = `
	id, timestamp, activity_id, activity_type, event, entity_kind, item_type,
	library_id, collection_ids, article_id, article_key, article_title,
	article_annotations, article_tags, attachment_id, attachment_key,
	attachment_path, annotation_id, annotation_key, annotation_text,
	annotation_comment, annotation_tags, annotation_color, note_id,
	note_key, note_text, extra_data`

var _ repository.ActivityRepository = (*ActivityRepository)(nil)

// ActivityRepository implements repository.ActivityRepository for SQLite
type ActivityRepository struct {
	db     *DB
	logger *slog.Logger
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB, logger *slog.Logger) *ActivityRepository {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ActivityRepository{db: db, logger: logger}
}

// Insert appends one activity row
func (r *ActivityRepository) Insert(ctx context.Context, rec *activity.Record) error {
	if rec == nil || rec.ActivityID == "" || rec.ActivityType == "" {
		return repository.ErrInvalidInput
	}
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	collections, err := activity.EncodeJSON(rec.CollectionIDs)
	if err != nil {
		return err
	}
	annotations, err := activity.EncodeJSON(rec.ArticleAnnotations)
	if err != nil {
		return err
	}
	articleTags, err := activity.EncodeJSON(rec.ArticleTags)
	if err != nil {
		return err
	}
	annotationTags, err := activity.EncodeJSON(rec.AnnotationTags)
	if err != nil {
		return err
	}
	extra, err := activity.EncodeJSON(rec.ExtraData)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO user_activities (
			timestamp, activity_id, activity_type, event, entity_kind, item_type,
			library_id, collection_ids, article_id, article_key, article_title,
			article_annotations, article_tags, attachment_id, attachment_key,
			attachment_path, annotation_id, annotation_key, annotation_text,
			annotation_comment, annotation_tags, annotation_color, note_id,
			note_key, note_text, extra_data
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		ts.UTC().Format(timestampLayout),
		rec.ActivityID,
		string(rec.ActivityType),
		rec.Event,
		string(rec.EntityKind),
		rec.ItemType,
		nullInt(rec.LibraryID),
		nullText(collections),
		nullString(rec.ArticleID),
		nullString(rec.ArticleKey),
		nullString(rec.ArticleTitle),
		nullText(annotations),
		nullText(articleTags),
		nullString(rec.AttachmentID),
		nullString(rec.AttachmentKey),
		nullString(rec.AttachmentPath),
		nullString(rec.AnnotationID),
		nullString(rec.AnnotationKey),
		nullString(rec.AnnotationText),
		nullString(rec.AnnotationComment),
		nullText(annotationTags),
		nullString(rec.AnnotationColor),
		nullString(rec.NoteID),
		nullString(rec.NoteKey),
		nullString(rec.NoteText),
		nullText(extra),
	)
	if err != nil {
		return mapError("failed to insert activity", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		rec.ID = id
	}
	rec.Timestamp = ts
	return nil
}

// List returns the full log newest first, optionally bounded and paginated
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Record, error) {
	return r.list(ctx, opts, false)
}

// ListSimple returns rows attributed to an article, newest first
func (r *ActivityRepository) ListSimple(ctx context.Context, opts activity.ListOptions) ([]activity.Record, error) {
	return r.list(ctx, opts, true)
}

func (r *ActivityRepository) list(ctx context.Context, opts activity.ListOptions, attributedOnly bool) ([]activity.Record, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	query := `SELECT ` + activityColumns + ` FROM user_activities`
	args := []interface{}{}

	var where []string
	if attributedOnly {
		where = append(where, `article_key IS NOT NULL AND article_key <> ''`)
	}
	if !opts.Since.IsZero() {
		where = append(where, `timestamp >= ?`)
		args = append(args, opts.Since.UTC().Format(timestampLayout))
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY timestamp DESC, id DESC`

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	} else if opts.Offset > 0 {
		query += " LIMIT -1"
	}
	if opts.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	return r.query(ctx, query, args...)
}

// DistinctTags returns every annotation tag seen in the log, in first-seen order
func (r *ActivityRepository) DistinctTags(ctx context.Context) ([]activity.Tag, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT annotation_tags FROM user_activities WHERE annotation_tags IS NOT NULL ORDER BY id`)
	if err != nil {
		return nil, mapError("failed to list tags", err)
	}
	defer rows.Close()

	seen := map[string]bool{}
	var tags []activity.Tag
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan tags: %w", err)
		}
		for _, tag := range r.parseTags(raw) {
			if !seen[tag.Tag] {
				seen[tag.Tag] = true
				tags = append(tags, tag)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag rows: %w", err)
	}
	return tags, nil
}

// DistinctColors returns every annotation color seen in the log
func (r *ActivityRepository) DistinctColors(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT annotation_color FROM user_activities
		 WHERE annotation_color IS NOT NULL AND annotation_color <> ''
		 GROUP BY annotation_color ORDER BY MIN(id)`)
	if err != nil {
		return nil, mapError("failed to list colors", err)
	}
	defer rows.Close()

	var colors []string
	for rows.Next() {
		var color string
		if err := rows.Scan(&color); err != nil {
			return nil, fmt.Errorf("failed to scan color: %w", err)
		}
		colors = append(colors, color)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating color rows: %w", err)
	}
	return colors, nil
}

// Purge deletes every activity row and returns how many were removed.
func (r *ActivityRepository) Purge(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM user_activities`)
	if err != nil {
		return 0, mapError("failed to purge activity", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged rows: %w", err)
	}
	r.logger.Info("activity log purged", "rows", n)
	return n, nil
}

// Cleanup releases the underlying database. It is idempotent.
func (r *ActivityRepository) Cleanup() error {
	return r.db.Close()
}

func (r *ActivityRepository) query(ctx context.Context, query string, args ...interface{}) ([]activity.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("failed to list activity", err)
	}
	defer rows.Close()

	var records []activity.Record
	for rows.Next() {
		rec, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}
	return records, nil
}

func (r *ActivityRepository) scan(rows *sql.Rows) (activity.Record, error) {
	var (
		rec            activity.Record
		ts             string
		activityType   string
		entityKind     string
		libraryID      sql.NullInt64
		collections    sql.NullString
		articleID      sql.NullString
		articleKey     sql.NullString
		articleTitle   sql.NullString
		annotations    sql.NullString
		articleTags    sql.NullString
		attachmentID   sql.NullString
		attachmentKey  sql.NullString
		attachmentPath sql.NullString
		annotationID   sql.NullString
		annotationKey  sql.NullString
		annotationText sql.NullString
		comment        sql.NullString
		annotationTags sql.NullString
		color          sql.NullString
		noteID         sql.NullString
		noteKey        sql.NullString
		noteText       sql.NullString
		extra          sql.NullString
	)
	if err := rows.Scan(
		&rec.ID, &ts, &rec.ActivityID, &activityType, &rec.Event, &entityKind, &rec.ItemType,
		&libraryID, &collections, &articleID, &articleKey, &articleTitle,
		&annotations, &articleTags, &attachmentID, &attachmentKey,
		&attachmentPath, &annotationID, &annotationKey, &annotationText,
		&comment, &annotationTags, &color, &noteID,
		&noteKey, &noteText, &extra,
	); err != nil {
		return activity.Record{}, fmt.Errorf("failed to scan activity: %w", err)
	}

	parsed, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		r.logger.Warn("unparseable activity timestamp", "id", rec.ID, "timestamp", ts, "error", err)
	}
	rec.Timestamp = parsed
	rec.ActivityType = activity.ActivityType(activityType)
	rec.EntityKind = activity.EntityKind(entityKind)
	if libraryID.Valid {
		id := libraryID.Int64
		rec.LibraryID = &id
	}
	rec.CollectionIDs = r.parseIDs(collections.String)
	rec.ArticleID = articleID.String
	rec.ArticleKey = articleKey.String
	rec.ArticleTitle = articleTitle.String
	rec.ArticleAnnotations = r.parseIDs(annotations.String)
	rec.ArticleTags = r.parseTags(articleTags.String)
	rec.AttachmentID = attachmentID.String
	rec.AttachmentKey = attachmentKey.String
	rec.AttachmentPath = attachmentPath.String
	rec.AnnotationID = annotationID.String
	rec.AnnotationKey = annotationKey.String
	rec.AnnotationText = annotationText.String
	rec.AnnotationComment = comment.String
	rec.AnnotationTags = r.parseTags(annotationTags.String)
	rec.AnnotationColor = color.String
	rec.NoteID = noteID.String
	rec.NoteKey = noteKey.String
	rec.NoteText = noteText.String
	rec.ExtraData = activity.ParseExtra(extra.String)
	return rec, nil
}

func (r *ActivityRepository) parseTags(raw string) []activity.Tag {
	tags, err := activity.DecodeTags(raw)
	if err != nil {
		r.logger.Debug("ignoring malformed tags", "error", err)
	}
	return tags
}

func (r *ActivityRepository) parseIDs(raw string) []string {
	ids, err := activity.DecodeIDList(raw)
	if err != nil {
		r.logger.Debug("ignoring malformed id list", "error", err)
	}
	return ids
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullText(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func mapError(op string, err error) error {
	switch {
	case isClosed(err):
		return fmt.Errorf("%s: %w", op, repository.ErrClosed)
	case isBusy(err):
		return fmt.Errorf("%s: database busy: %w", op, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
