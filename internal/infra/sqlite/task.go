package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gridmesh-network/gridmesh/internal/domain"
)

// ─── Task Repository ────────────────────────────────────────────────────────

const taskColumns = `task_id, submitter, task_type, cpu_cores_required, ram_gb_required,
	storage_gb_required, gpu_required, estimated_duration, reward_amount, status,
	assigned_device, result_hash, created_at, assigned_at, completed_at, expires_at,
	verifications, valid_verifications, is_verified, finalized`

// GetTask retrieves a task by ID within the transaction, or nil if absent.
func (t *Tx) GetTask(id string) (*domain.Task, error) {
	row := t.tx.QueryRow(
		`SELECT `+taskColumns+` FROM tasks WHERE task_id = ?`, id,
	)
	return scanTask(row)
}

// InsertTask creates a new task record.
func (t *Tx) InsertTask(task domain.Task) error {
	_, err := t.tx.Exec(
		`INSERT INTO tasks (`+taskColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Submitter, string(task.Type),
		task.Requirements.CPUCoresRequired, task.Requirements.RAMGBRequired,
		task.Requirements.StorageGBRequired, task.Requirements.GPURequired,
		task.Requirements.EstimatedDuration, int64(task.RewardAmount),
		string(task.Status), nullStr(task.AssignedDevice), nullStr(task.ResultHash),
		task.CreatedAt.Unix(), nullableUnix(task.AssignedAt),
		nullableUnix(task.CompletedAt), nullableUnix(task.ExpiresAt),
		task.Verifications, task.ValidVerifications, task.IsVerified, task.Finalized,
	)
	return err
}

// UpdateTask writes back the full task record.
func (t *Tx) UpdateTask(task domain.Task) error {
	_, err := t.tx.Exec(
		`UPDATE tasks SET submitter = ?, task_type = ?, cpu_cores_required = ?,
			ram_gb_required = ?, storage_gb_required = ?, gpu_required = ?,
			estimated_duration = ?, reward_amount = ?, status = ?, assigned_device = ?,
			result_hash = ?, assigned_at = ?, completed_at = ?, expires_at = ?,
			verifications = ?, valid_verifications = ?, is_verified = ?, finalized = ?
		 WHERE task_id = ?`,
		task.Submitter, string(task.Type), task.Requirements.CPUCoresRequired,
		task.Requirements.RAMGBRequired, task.Requirements.StorageGBRequired,
		task.Requirements.GPURequired, task.Requirements.EstimatedDuration,
		int64(task.RewardAmount), string(task.Status), nullStr(task.AssignedDevice),
		nullStr(task.ResultHash), nullableUnix(task.AssignedAt),
		nullableUnix(task.CompletedAt), nullableUnix(task.ExpiresAt),
		task.Verifications, task.ValidVerifications, task.IsVerified, task.Finalized,
		task.ID,
	)
	return err
}

// Task retrieves a task by ID outside a write transaction.
func (d *DB) Task(id string) (*domain.Task, error) {
	var task *domain.Task
	err := d.View(func(tx *Tx) error {
		var err error
		task, err = tx.GetTask(id)
		return err
	})
	return task, err
}

// ListTasks returns tasks filtered by status ("" = all), newest first.
func (d *DB) ListTasks(status domain.TaskStatus, limit int) ([]domain.Task, error) {
	var rows *sql.Rows
	var err error
	if status == "" {
		rows, err = d.db.Query(
			`SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC LIMIT ?`, limit)
	} else {
		rows, err = d.db.Query(
			`SELECT `+taskColumns+` FROM tasks WHERE status = ? ORDER BY created_at DESC LIMIT ?`,
			string(status), limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// CountAssignedPastDeadline reports Assigned tasks whose deadline has
// passed. Used for observability only; expiration itself stays lazy,
// applied when completion is attempted.
func (d *DB) CountAssignedPastDeadline(now time.Time) (int, error) {
	var n int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM tasks WHERE status = ? AND expires_at IS NOT NULL AND expires_at <= ?`,
		string(domain.TaskAssigned), now.Unix(),
	).Scan(&n)
	return n, err
}

func scanTask(s scanner) (*domain.Task, error) {
	var task domain.Task
	var reward int64
	var createdAt int64
	var assignedDevice, resultHash sql.NullString
	var assignedAt, completedAt, expiresAt sql.NullInt64
	var taskType, status string

	err := s.Scan(&task.ID, &task.Submitter, &taskType,
		&task.Requirements.CPUCoresRequired, &task.Requirements.RAMGBRequired,
		&task.Requirements.StorageGBRequired, &task.Requirements.GPURequired,
		&task.Requirements.EstimatedDuration, &reward, &status,
		&assignedDevice, &resultHash, &createdAt, &assignedAt, &completedAt,
		&expiresAt, &task.Verifications, &task.ValidVerifications,
		&task.IsVerified, &task.Finalized)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}

	task.Type = domain.TaskType(taskType)
	task.Status = domain.TaskStatus(status)
	task.RewardAmount = uint64(reward)
	task.CreatedAt = time.Unix(createdAt, 0)
	if assignedDevice.Valid {
		task.AssignedDevice = assignedDevice.String
	}
	if resultHash.Valid {
		task.ResultHash = resultHash.String
	}
	if assignedAt.Valid {
		task.AssignedAt = time.Unix(assignedAt.Int64, 0)
	}
	if completedAt.Valid {
		task.CompletedAt = time.Unix(completedAt.Int64, 0)
	}
	if expiresAt.Valid {
		task.ExpiresAt = time.Unix(expiresAt.Int64, 0)
	}
	return &task, nil
}
