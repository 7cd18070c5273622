package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/gazette-tracker/constants"
	"github.com/joseph-ayodele/gazette-tracker/internal/common"
	"github.com/joseph-ayodele/gazette-tracker/internal/entity"
)

// Schema for the records table and the sequence counter. The counter is a
// single row bumped with UPDATE ... RETURNING inside the insert transaction,
// so concurrent batches can never be handed the same number.
const Schema = `
CREATE TABLE IF NOT EXISTS records (
	seq_no BIGINT PRIMARY KEY,
	court_station TEXT NOT NULL,
	cause_no TEXT NOT NULL,
	name_of_deceased TEXT NOT NULL,
	date_received TIMESTAMP NOT NULL,
	status_at_gp TEXT NOT NULL,
	rejection_reason TEXT NOT NULL DEFAULT '',
	date_published TIMESTAMP,
	volume_no TEXT NOT NULL DEFAULT '',
	source_file TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_records_status ON records(status_at_gp);
CREATE INDEX IF NOT EXISTS idx_records_court ON records(court_station);
CREATE TABLE IF NOT EXISTS record_seq (
	id INTEGER PRIMARY KEY,
	value BIGINT NOT NULL
);
INSERT INTO record_seq (id, value)
SELECT 1, 0 WHERE NOT EXISTS (SELECT 1 FROM record_seq WHERE id = 1);
`

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	Search string // matches cause no, deceased name or court station
	Court  string
	Status constants.RecordStatus
	Page   int
	Limit  int
}

// UpdateFields carries a partial update; nil pointers leave columns alone.
type UpdateFields struct {
	CourtStation    *string
	CauseNo         *string
	NameOfDeceased  *string
	StatusAtGP      *constants.RecordStatus
	RejectionReason *string
	DatePublished   *time.Time
	VolumeNo        *string
}

type RecordRepository interface {
	Create(ctx context.Context, rec entity.Record) (entity.Record, error)
	List(ctx context.Context, f Filter) ([]entity.Record, int64, error)
	GetBySequenceNo(ctx context.Context, seqNo int64) (entity.Record, error)
	Update(ctx context.Context, seqNo int64, fields UpdateFields) (entity.Record, error)
	Delete(ctx context.Context, seqNo int64) error
}

type recordRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewRecordRepository(db *DB, logger *slog.Logger) (RecordRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	// pgx's extended protocol rejects multi-statement strings, so apply the
	// schema one statement at a time.
	for _, stmt := range strings.Split(Schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return nil, common.WrapError(err, "init schema")
		}
	}
	return &recordRepository{db: db, logger: logger}, nil
}

// Create allocates the next sequence number and persists the record in one
// transaction. A record with status Rejected must carry a reason; any other
// status forces the reason empty.
func (r *recordRepository) Create(ctx context.Context, rec entity.Record) (entity.Record, error) {
	if rec.CauseNo == "" || rec.NameOfDeceased == "" {
		return entity.Record{}, common.NewAppError("RECORD_INVALID",
			"causeNo and nameOfDeceased are required", common.ErrInvalidInput)
	}
	if !rec.StatusAtGP.Valid() {
		rec.StatusAtGP = constants.StatusPending
	}
	if err := normalizeRejection(&rec.StatusAtGP, &rec.RejectionReason); err != nil {
		return entity.Record{}, err
	}
	if rec.DateReceived.IsZero() {
		rec.DateReceived = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return entity.Record{}, fmt.Errorf("%w: begin: %v", common.ErrDatabase, err)
	}
	defer func() { _ = tx.Rollback() }()

	var seq int64
	err = tx.QueryRowContext(ctx,
		r.db.rebind(`UPDATE record_seq SET value = value + 1 WHERE id = 1 RETURNING value`),
	).Scan(&seq)
	if err != nil {
		return entity.Record{}, fmt.Errorf("%w: allocate sequence: %v", common.ErrDatabase, err)
	}

	_, err = tx.ExecContext(ctx, r.db.rebind(`
		INSERT INTO records (seq_no, court_station, cause_no, name_of_deceased,
			date_received, status_at_gp, rejection_reason, date_published,
			volume_no, source_file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		seq, rec.CourtStation, rec.CauseNo, rec.NameOfDeceased,
		rec.DateReceived, string(rec.StatusAtGP), rec.RejectionReason,
		rec.DatePublished, rec.VolumeNo, rec.SourceFile,
	)
	if err != nil {
		return entity.Record{}, fmt.Errorf("%w: insert record: %v", common.ErrDatabase, err)
	}
	if err := tx.Commit(); err != nil {
		return entity.Record{}, fmt.Errorf("%w: commit: %v", common.ErrDatabase, err)
	}

	rec.SequenceNo = seq
	r.logger.Debug("record created", "seq_no", seq, "cause_no", rec.CauseNo)
	return rec, nil
}

func (r *recordRepository) List(ctx context.Context, f Filter) ([]entity.Record, int64, error) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if f.Search != "" {
		like := "%" + f.Search + "%"
		where = append(where, "(cause_no LIKE ? OR name_of_deceased LIKE ? OR court_station LIKE ?)")
		args = append(args, like, like, like)
	}
	if f.Court != "" {
		where = append(where, "court_station = ?")
		args = append(args, f.Court)
	}
	if f.Status != "" {
		where = append(where, "status_at_gp = ?")
		args = append(args, string(f.Status))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		r.db.rebind("SELECT COUNT(*) FROM records"+clause), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: count records: %v", common.ErrDatabase, err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	query := selectColumns + clause +
		" ORDER BY date_published DESC NULLS LAST, seq_no ASC LIMIT ? OFFSET ?"
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, r.db.rebind(query), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list records: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []entity.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	return out, total, rows.Err()
}

func (r *recordRepository) GetBySequenceNo(ctx context.Context, seqNo int64) (entity.Record, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(selectColumns+" WHERE seq_no = ?"), seqNo)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Record{}, common.ErrNotFound
	}
	return rec, err
}

// Update applies a partial update. Setting status to Rejected without a
// reason is rejected; setting any other status clears the reason.
func (r *recordRepository) Update(ctx context.Context, seqNo int64, f UpdateFields) (entity.Record, error) {
	current, err := r.GetBySequenceNo(ctx, seqNo)
	if err != nil {
		return entity.Record{}, err
	}

	if f.CourtStation != nil {
		current.CourtStation = *f.CourtStation
	}
	if f.CauseNo != nil {
		current.CauseNo = *f.CauseNo
	}
	if f.NameOfDeceased != nil {
		current.NameOfDeceased = *f.NameOfDeceased
	}
	if f.StatusAtGP != nil {
		if !f.StatusAtGP.Valid() {
			return entity.Record{}, common.NewAppError("RECORD_INVALID",
				fmt.Sprintf("unknown status %q", *f.StatusAtGP), common.ErrInvalidInput)
		}
		current.StatusAtGP = *f.StatusAtGP
	}
	if f.RejectionReason != nil {
		current.RejectionReason = *f.RejectionReason
	}
	if f.DatePublished != nil {
		current.DatePublished = f.DatePublished
	}
	if f.VolumeNo != nil {
		current.VolumeNo = *f.VolumeNo
	}
	if current.CauseNo == "" || current.NameOfDeceased == "" {
		return entity.Record{}, common.NewAppError("RECORD_INVALID",
			"causeNo and nameOfDeceased are required", common.ErrInvalidInput)
	}
	if err := normalizeRejection(&current.StatusAtGP, &current.RejectionReason); err != nil {
		return entity.Record{}, err
	}

	_, err = r.db.ExecContext(ctx, r.db.rebind(`
		UPDATE records SET court_station = ?, cause_no = ?, name_of_deceased = ?,
			status_at_gp = ?, rejection_reason = ?, date_published = ?, volume_no = ?
		WHERE seq_no = ?`),
		current.CourtStation, current.CauseNo, current.NameOfDeceased,
		string(current.StatusAtGP), current.RejectionReason,
		current.DatePublished, current.VolumeNo, seqNo,
	)
	if err != nil {
		return entity.Record{}, fmt.Errorf("%w: update record: %v", common.ErrDatabase, err)
	}
	return current, nil
}

func (r *recordRepository) Delete(ctx context.Context, seqNo int64) error {
	res, err := r.db.ExecContext(ctx, r.db.rebind(`DELETE FROM records WHERE seq_no = ?`), seqNo)
	if err != nil {
		return fmt.Errorf("%w: delete record: %v", common.ErrDatabase, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// normalizeRejection enforces: rejection_reason non-empty iff status Rejected.
func normalizeRejection(status *constants.RecordStatus, reason *string) error {
	if *status == constants.StatusRejected {
		if strings.TrimSpace(*reason) == "" {
			return common.NewAppError("REJECTION_REASON_REQUIRED",
				"rejection reason is required when status is Rejected", common.ErrInvalidInput)
		}
		return nil
	}
	*reason = ""
	return nil
}

const selectColumns = `SELECT seq_no, court_station, cause_no, name_of_deceased,
	date_received, status_at_gp, rejection_reason, date_published, volume_no,
	source_file FROM records`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (entity.Record, error) {
	var rec entity.Record
	var status string
	var published sql.NullTime
	err := row.Scan(&rec.SequenceNo, &rec.CourtStation, &rec.CauseNo,
		&rec.NameOfDeceased, &rec.DateReceived, &status, &rec.RejectionReason,
		&published, &rec.VolumeNo, &rec.SourceFile)
	if err != nil {
		return entity.Record{}, err
	}
	rec.StatusAtGP = constants.RecordStatus(status)
	if published.Valid {
		t := published.Time
		rec.DatePublished = &t
	}
	return rec, nil
}
