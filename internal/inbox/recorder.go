package inbox

import (
	"fmt"
	"log"

	"github.com/leadforge/leadforge/internal/activity"
)

// Recorder persists classified replies to the activity store,
// skipping messages it has already seen
type Recorder struct {
	store *activity.Store
}

// NewRecorder creates a recorder backed by the given store
func NewRecorder(store *activity.Store) *Recorder {
	return &Recorder{store: store}
}

// Record stores a classified reply unless the same message was stored before.
// Returns true if a new row was written.
func (r *Recorder) Record(cr ClassifiedReply) (bool, error) {
	existing, err := r.store.FindReplyBySubject(cr.Email.From, cr.Email.Subject)
	if err != nil {
		return false, fmt.Errorf("failed to check for existing reply: %w", err)
	}
	if existing != nil {
		// Already stored; upgrade the classification if we now know more
		if existing.ReplyType == string(ReplyUnknown) && cr.Type != ReplyUnknown {
			if err := r.store.UpdateReplyClassification(existing.ID, string(cr.Type), cr.Confidence, cr.NeedsReview); err != nil {
				return false, err
			}
		}
		return false, nil
	}

	rec := &activity.Reply{
		LeadID:      cr.Email.LeadID,
		LeadName:    cr.Email.LeadName,
		FromEmail:   cr.Email.From,
		Subject:     cr.Email.Subject,
		Body:        cr.Email.Body,
		ReplyType:   string(cr.Type),
		Confidence:  cr.Confidence,
		NeedsReview: cr.NeedsReview,
		ReceivedAt:  cr.Email.ReceivedAt,
	}
	if err := r.store.AddReply(rec); err != nil {
		return false, fmt.Errorf("failed to store reply: %w", err)
	}
	return true, nil
}

// RecordBatch stores a batch of classified replies and returns how many were new
func (r *Recorder) RecordBatch(replies []ClassifiedReply) (int, error) {
	stored := 0
	for _, cr := range replies {
		ok, err := r.Record(cr)
		if err != nil {
			log.Printf("Warning: failed to record reply from %s: %v", cr.Email.From, err)
			continue
		}
		if ok {
			stored++
		}
	}
	return stored, nil
}
