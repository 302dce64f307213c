package activity

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type Status string

const (
	StatusStarted   Status = "started"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Action identifies what kind of operation a record describes
type Action string

const (
	ActionScrape       Action = "scrape"
	ActionGenerate     Action = "generate"
	ActionBulkGenerate Action = "bulk_generate"
	ActionSendEmail    Action = "send_email"
	ActionSendWhatsApp Action = "send_whatsapp"
	ActionEnrich       Action = "enrich"
	ActionUpload       Action = "upload"
	ActionCancel       Action = "cancel"
	ActionAutomation   Action = "automation"
)

// Record is one operation the user ran against the backend
type Record struct {
	ID         int64
	CampaignID string
	LeadID     string
	LeadName   string
	Action     Action
	Kind       string // generation kind, when Action is generate/bulk_generate
	Status     Status
	Detail     string
	CreatedAt  time.Time
}

// ReplyType mirrors the inbox classifier's verdict
type ReplyType string

// Reply stores a classified inbound response from a lead
type Reply struct {
	ID          int64
	LeadID      string
	LeadName    string
	FromEmail   string
	Subject     string
	Body        string // Stored for reclassification
	ReplyType   string // interested, not_interested, unsubscribe, bounce, out_of_office, auto_reply, unknown
	Confidence  float64
	NeedsReview bool
	ReceivedAt  time.Time
	CreatedAt   time.Time
}

type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS operations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		campaign_id TEXT NOT NULL,
		lead_id TEXT,
		lead_name TEXT,
		action TEXT NOT NULL,
		kind TEXT,
		status TEXT NOT NULL,
		detail TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_op_campaign ON operations(campaign_id);
	CREATE INDEX IF NOT EXISTS idx_op_action ON operations(action);
	CREATE INDEX IF NOT EXISTS idx_op_status ON operations(status);

	-- Classified inbound replies from leads
	CREATE TABLE IF NOT EXISTS replies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		lead_id TEXT,
		lead_name TEXT,
		from_email TEXT NOT NULL,
		subject TEXT,
		body TEXT,
		reply_type TEXT NOT NULL,
		confidence REAL,
		needs_review INTEGER DEFAULT 0,
		received_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_reply_lead ON replies(lead_id);
	CREATE INDEX IF NOT EXISTS idx_reply_type ON replies(reply_type);
	CREATE INDEX IF NOT EXISTS idx_reply_review ON replies(needs_review);
	`

	_, err := s.db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "leadforge_activity.db"
	}
	return filepath.Join(home, ".leadforge", "activity.db")
}

func (s *Store) AddOperation(rec *Record) error {
	query := `
	INSERT INTO operations (campaign_id, lead_id, lead_name, action, kind, status, detail, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.Exec(query,
		rec.CampaignID, rec.LeadID, rec.LeadName, rec.Action, rec.Kind, rec.Status, rec.Detail, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert operation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	rec.ID = id
	return nil
}

// scanRecord handles nullable columns when scanning a row
func scanRecord(scanner interface{ Scan(...any) error }) (*Record, error) {
	var r Record
	var leadID, leadName, kind, detail sql.NullString
	var createdAt sql.NullTime

	err := scanner.Scan(&r.ID, &r.CampaignID, &leadID, &leadName, &r.Action, &kind, &r.Status, &detail, &createdAt)
	if err != nil {
		return nil, err
	}

	r.LeadID = leadID.String
	r.LeadName = leadName.String
	r.Kind = kind.String
	r.Detail = detail.String
	r.CreatedAt = createdAt.Time
	return &r, nil
}

func (s *Store) RecentOperations(limit int) ([]Record, error) {
	query := `
	SELECT id, campaign_id, lead_id, lead_name, action, kind, status, detail, created_at
	FROM operations ORDER BY created_at DESC, id DESC LIMIT ?`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// CampaignOperations returns recent operations scoped to one campaign
func (s *Store) CampaignOperations(campaignID string, limit int) ([]Record, error) {
	query := `
	SELECT id, campaign_id, lead_id, lead_name, action, kind, status, detail, created_at
	FROM operations WHERE campaign_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`

	rows, err := s.db.Query(query, campaignID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (s *Store) OperationStats() (total, succeeded, failed, cancelled int, err error) {
	query := `SELECT COUNT(*),
		SUM(CASE WHEN status='succeeded' THEN 1 ELSE 0 END),
		SUM(CASE WHEN status='failed' THEN 1 ELSE 0 END),
		SUM(CASE WHEN status='cancelled' THEN 1 ELSE 0 END)
		FROM operations`

	var s1, s2, s3 sql.NullInt64
	err = s.db.QueryRow(query).Scan(&total, &s1, &s2, &s3)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get operation stats: %w", err)
	}
	return total, int(s1.Int64), int(s2.Int64), int(s3.Int64), nil
}

// ==================== Reply Methods ====================

func (s *Store) AddReply(r *Reply) error {
	query := `
	INSERT INTO replies (lead_id, lead_name, from_email, subject, body, reply_type, confidence, needs_review, received_at, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	needsReview := 0
	if r.NeedsReview {
		needsReview = 1
	}

	result, err := s.db.Exec(query,
		r.LeadID, r.LeadName, r.FromEmail, r.Subject, r.Body, r.ReplyType,
		r.Confidence, needsReview, r.ReceivedAt, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert reply: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	r.ID = id
	return nil
}

// FindReplyBySubject finds an existing reply by sender and subject, used to
// avoid storing the same message twice across scans
func (s *Store) FindReplyBySubject(fromEmail, subject string) (*Reply, error) {
	query := `SELECT id, lead_id, lead_name, from_email, subject, reply_type, confidence, needs_review, received_at
		FROM replies WHERE from_email = ? AND subject = ? LIMIT 1`

	var r Reply
	var leadID, leadName, subj sql.NullString
	var needsReviewInt int
	var receivedAt sql.NullTime

	err := s.db.QueryRow(query, fromEmail, subject).Scan(
		&r.ID, &leadID, &leadName, &r.FromEmail, &subj, &r.ReplyType, &r.Confidence, &needsReviewInt, &receivedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find reply: %w", err)
	}

	r.LeadID = leadID.String
	r.LeadName = leadName.String
	r.Subject = subj.String
	r.NeedsReview = needsReviewInt == 1
	r.ReceivedAt = receivedAt.Time
	return &r, nil
}

// UpdateReplyClassification rewrites the classification fields of a stored reply
func (s *Store) UpdateReplyClassification(id int64, replyType string, confidence float64, needsReview bool) error {
	needsReviewInt := 0
	if needsReview {
		needsReviewInt = 1
	}

	query := `UPDATE replies SET reply_type = ?, confidence = ?, needs_review = ? WHERE id = ?`
	_, err := s.db.Exec(query, replyType, confidence, needsReviewInt, id)
	if err != nil {
		return fmt.Errorf("failed to update reply: %w", err)
	}
	return nil
}

func (s *Store) RecentReplies(limit int) ([]Reply, error) {
	query := `SELECT id, lead_id, lead_name, from_email, subject, body, reply_type, confidence, needs_review, received_at
		FROM replies ORDER BY created_at DESC, id DESC LIMIT ?`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query replies: %w", err)
	}
	defer rows.Close()

	var replies []Reply
	for rows.Next() {
		var r Reply
		var leadID, leadName, subject, body sql.NullString
		var needsReviewInt int
		var receivedAt sql.NullTime

		err := rows.Scan(&r.ID, &leadID, &leadName, &r.FromEmail, &subject, &body,
			&r.ReplyType, &r.Confidence, &needsReviewInt, &receivedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reply: %w", err)
		}

		r.LeadID = leadID.String
		r.LeadName = leadName.String
		r.Subject = subject.String
		r.Body = body.String
		r.NeedsReview = needsReviewInt == 1
		r.ReceivedAt = receivedAt.Time
		replies = append(replies, r)
	}
	return replies, rows.Err()
}

// ReplyStats returns counts of reply types
func (s *Store) ReplyStats() (map[string]int, error) {
	query := `SELECT reply_type, COUNT(*) FROM replies GROUP BY reply_type`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query reply stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var replyType string
		var count int
		if err := rows.Scan(&replyType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan reply stat: %w", err)
		}
		stats[replyType] = count
	}
	return stats, rows.Err()
}
