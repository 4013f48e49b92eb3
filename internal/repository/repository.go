package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"copyd/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

var ErrNotFound = errors.New("not found")

// sortColumns whitelists the columns GetJobs may order by.
var sortColumns = map[string]bool{
	"created_at":  true,
	"updated_at":  true,
	"finished_at": true,
	"status":      true,
	"bytes":       true,
}

const jobColumns = `id, source, destination, status, writes, bytes, total_bytes,
	error_message, created_at, updated_at, finished_at`

type Repository struct {
	db *sql.DB
}

func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_journal_mode=WAL&_timeout=5000&_cache_size=2000", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dbPath == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
	}
	db.SetConnMaxLifetime(time.Hour)

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// SchemaVersion returns the applied migration version.
func (r *Repository) SchemaVersion() (uint, error) {
	version, dirty, err := schemaVersion(r.db)
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("database is in dirty state at version %d", version)
	}
	return version, nil
}

// Job operations
func (r *Repository) CreateJob(job *models.Job) error {
	query := `
		INSERT INTO jobs (` + jobColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		job.ID, job.Source, job.Destination, job.Status, job.Writes, job.Bytes, job.TotalBytes,
		nullString(job.ErrorMessage), job.CreatedAt.UTC(), job.UpdatedAt.UTC(), nullTime(job.FinishedAt))
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

func (r *Repository) GetJob(id string) (*models.Job, error) {
	row := r.db.QueryRow("SELECT "+jobColumns+" FROM jobs WHERE id = ?", id)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

func (r *Repository) GetJobs(filter models.JobFilter) ([]*models.Job, error) {
	query := "SELECT " + jobColumns + " FROM jobs"

	var args []interface{}

	if len(filter.Status) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(filter.Status)), ",")
		query += fmt.Sprintf(" WHERE status IN (%s)", placeholders)
		for _, status := range filter.Status {
			args = append(args, status)
		}
	}

	sortBy := "created_at"
	if sortColumns[filter.SortBy] {
		sortBy = filter.SortBy
	}
	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, id ASC", sortBy, sortOrder)

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jobs: %w", err)
	}

	return jobs, nil
}

func (r *Repository) UpdateJob(job *models.Job) error {
	query := `
		UPDATE jobs SET
			status = ?, writes = ?, bytes = ?, total_bytes = ?,
			error_message = ?, updated_at = ?, finished_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		job.Status, job.Writes, job.Bytes, job.TotalBytes,
		nullString(job.ErrorMessage), job.UpdatedAt.UTC(), nullTime(job.FinishedAt), job.ID)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("job %s: %w", job.ID, ErrNotFound)
	}

	return nil
}

// UpdateProgress records copy progress without touching the job's status, so
// a snapshot taken before a suspend or cancel cannot undo it. The stored
// offset never moves backwards.
func (r *Repository) UpdateProgress(job *models.Job) error {
	query := `
		UPDATE jobs SET
			writes = ?, bytes = ?, total_bytes = ?, updated_at = ?
		WHERE id = ? AND bytes <= ?
	`

	_, err := r.db.Exec(query,
		job.Writes, job.Bytes, job.TotalBytes, job.UpdatedAt.UTC(), job.ID, job.Bytes)
	if err != nil {
		return fmt.Errorf("failed to update job progress: %w", err)
	}

	return nil
}

func (r *Repository) DeleteJob(id string) error {
	_, err := r.db.Exec("DELETE FROM jobs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	return nil
}

func (r *Repository) GetJobSummary() (*models.JobSummary, error) {
	rows, err := r.db.Query("SELECT status, COUNT(*) FROM jobs GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to get job summary: %w", err)
	}
	defer rows.Close()

	var summary models.JobSummary
	for rows.Next() {
		var status models.JobStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan job summary: %w", err)
		}
		summary.Add(status, count)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job summary: %w", err)
	}

	return &summary, nil
}

// CleanupOldJobs deletes terminal jobs that finished before the given time.
func (r *Repository) CleanupOldJobs(finishedBefore time.Time) (int, error) {
	query := `
		DELETE FROM jobs
		WHERE status IN (?, ?, ?) AND finished_at IS NOT NULL AND finished_at < ?
	`

	result, err := r.db.Exec(query,
		models.JobStatusCompleted, models.JobStatusFailed, models.JobStatusCancelled,
		finishedBefore.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old jobs: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rowsAffected > 0 {
		slog.Info("cleaned up old jobs", "count", rowsAffected)
	}
	return int(rowsAffected), nil
}

func (r *Repository) GetConfig(key string) (string, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM system_config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("config key %s: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("failed to get config: %w", err)
	}
	return value, nil
}

func (r *Repository) SetConfig(key, value string) error {
	query := `
		INSERT INTO system_config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.Exec(query, key, value, value)
	if err != nil {
		return fmt.Errorf("failed to set config: %w", err)
	}

	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(s scanner) (*models.Job, error) {
	var job models.Job
	var errorMessage sql.NullString
	var finishedAt sql.NullTime

	err := s.Scan(
		&job.ID, &job.Source, &job.Destination, &job.Status, &job.Writes, &job.Bytes,
		&job.TotalBytes, &errorMessage, &job.CreatedAt, &job.UpdatedAt, &finishedAt)
	if err != nil {
		return nil, err
	}

	if errorMessage.Valid {
		job.ErrorMessage = errorMessage.String
	}
	if finishedAt.Valid {
		job.FinishedAt = &finishedAt.Time
	}
	return &job, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
