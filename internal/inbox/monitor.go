package inbox

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
	"github.com/leadforge/leadforge/internal/config"
	"github.com/leadforge/leadforge/internal/lead"
)

// Monitor handles IMAP connection and reply monitoring
type Monitor struct {
	config config.InboxConfig
	client *client.Client
	leads  map[string]lead.Lead // Map of sender email address to lead
}

// Email represents a parsed inbound email
type Email struct {
	UID        uint32 // IMAP UID for operations like move/delete
	MessageID  string
	From       string
	FromName   string // Sender display name (e.g., "Mail Delivery System")
	FromDomain string
	Subject    string
	Body       string
	HTMLBody   string
	ReceivedAt time.Time
	LeadID     string // Matched lead ID (if found)
	LeadName   string // Matched lead name (if found)
}

// NewMonitor creates a new inbox monitor
func NewMonitor(cfg config.InboxConfig, leads []lead.Lead) *Monitor {
	// Build a map of email addresses to leads for quick lookup
	leadMap := make(map[string]lead.Lead)
	for _, l := range leads {
		if l.Email == "" {
			continue
		}
		leadMap[strings.ToLower(strings.TrimSpace(l.Email))] = l
	}

	return &Monitor{
		config: cfg,
		leads:  leadMap,
	}
}

// Connect establishes IMAP connection
func (m *Monitor) Connect(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", m.config.Server, m.config.Port)

	log.Printf("Connecting to IMAP server %s...", addr)

	c, err := client.DialTLS(addr, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to IMAP server: %w", err)
	}

	log.Printf("Connected, logging in as %s...", m.config.Email)

	if err := c.Login(m.config.Email, m.config.Password); err != nil {
		c.Logout()
		return fmt.Errorf("failed to login: %w", err)
	}

	m.client = c
	log.Printf("Login successful")
	return nil
}

// Disconnect closes the IMAP connection
func (m *Monitor) Disconnect() error {
	if m.client != nil {
		return m.client.Logout()
	}
	return nil
}

// FetchRecentEmails fetches emails from the last N days
func (m *Monitor) FetchRecentEmails(ctx context.Context, days int) ([]Email, error) {
	if m.client == nil {
		return nil, fmt.Errorf("not connected to IMAP server")
	}

	// Select the mailbox (usually INBOX)
	mbox, err := m.client.Select(m.config.Folder, false)
	if err != nil {
		return nil, fmt.Errorf("failed to select mailbox %s: %w", m.config.Folder, err)
	}

	log.Printf("Mailbox %s has %d messages", m.config.Folder, mbox.Messages)

	if mbox.Messages == 0 {
		return nil, nil
	}

	// Search for emails from the last N days (use UID search)
	since := time.Now().AddDate(0, 0, -days)
	criteria := imap.NewSearchCriteria()
	criteria.Since = since

	uids, err := m.client.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to search emails: %w", err)
	}

	log.Printf("Found %d emails since %s", len(uids), since.Format("2006-01-02"))

	if len(uids) == 0 {
		return nil, nil
	}

	// Fetch in batches to keep memory bounded on large inboxes
	var emails []Email
	batchSize := 50
	for i := 0; i < len(uids); i += batchSize {
		end := i + batchSize
		if end > len(uids) {
			end = len(uids)
		}

		seqSet := new(imap.SeqSet)
		seqSet.AddNum(uids[i:end]...)

		messages := make(chan *imap.Message, batchSize)
		done := make(chan error, 1)
		section := &imap.BodySectionName{Peek: true}

		go func() {
			done <- m.client.UidFetch(seqSet, []imap.FetchItem{
				imap.FetchEnvelope,
				imap.FetchFlags,
				imap.FetchUid,
				section.FetchItem(),
			}, messages)
		}()

		for msg := range messages {
			email, err := m.parseMessage(msg, section)
			if err != nil {
				log.Printf("Warning: failed to parse message: %v", err)
				continue
			}
			if email != nil {
				emails = append(emails, *email)
			}
		}

		if err := <-done; err != nil {
			return nil, fmt.Errorf("failed to fetch messages: %w", err)
		}
	}

	return emails, nil
}

// parseMessage converts an IMAP message to our Email struct
func (m *Monitor) parseMessage(msg *imap.Message, section *imap.BodySectionName) (*Email, error) {
	if msg == nil || msg.Envelope == nil {
		return nil, nil
	}

	email := &Email{
		UID:        msg.Uid,
		Subject:    msg.Envelope.Subject,
		ReceivedAt: msg.Envelope.Date,
	}

	// Get message ID
	if msg.Envelope.MessageId != "" {
		email.MessageID = msg.Envelope.MessageId
	}

	// Get sender
	if len(msg.Envelope.From) > 0 {
		from := msg.Envelope.From[0]
		email.From = from.Address()
		email.FromName = from.PersonalName
		if from.HostName != "" {
			email.FromDomain = strings.ToLower(from.HostName)
		}
	}

	// Try to match to a known lead by sender address
	if email.From != "" {
		if l, ok := m.leads[strings.ToLower(email.From)]; ok {
			email.LeadID = l.ID
			email.LeadName = l.Name
		}
	}

	// Parse body
	r := msg.GetBody(section)
	if r == nil {
		return email, nil
	}

	mr, err := mail.CreateReader(r)
	if err != nil {
		return email, nil // Return without body on parse error
	}

	// Process each part
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		switch h := p.Header.(type) {
		case *mail.InlineHeader:
			ct, _, _ := h.ContentType()
			body, _ := io.ReadAll(p.Body)

			if strings.HasPrefix(ct, "text/plain") && email.Body == "" {
				email.Body = string(body)
			} else if strings.HasPrefix(ct, "text/html") && email.HTMLBody == "" {
				email.HTMLBody = string(body)
			}
		}
	}

	return email, nil
}

// FetchLeadReplies fetches only emails from known lead addresses
func (m *Monitor) FetchLeadReplies(ctx context.Context, days int) ([]Email, error) {
	allEmails, err := m.FetchRecentEmails(ctx, days)
	if err != nil {
		return nil, err
	}

	var replies []Email
	for _, email := range allEmails {
		if email.LeadID != "" {
			replies = append(replies, email)
		}
	}

	log.Printf("Found %d replies from known leads (out of %d total)", len(replies), len(allEmails))
	return replies, nil
}

// FetchBounceEmails fetches emails that look like bounce/undeliverable notifications
func (m *Monitor) FetchBounceEmails(ctx context.Context, days int) ([]Email, error) {
	allEmails, err := m.FetchRecentEmails(ctx, days)
	if err != nil {
		return nil, err
	}

	var bounceEmails []Email
	for i := range allEmails {
		email := &allEmails[i]
		subject := strings.ToLower(email.Subject)
		content := strings.ToLower(email.Body)
		if isBounceEmail(email, subject, content) {
			bounceEmails = append(bounceEmails, *email)
		}
	}

	log.Printf("Found %d bounce emails (out of %d total)", len(bounceEmails), len(allEmails))
	return bounceEmails, nil
}

// WatchForNewEmails monitors for new emails (blocking)
func (m *Monitor) WatchForNewEmails(ctx context.Context, callback func(Email)) error {
	if m.client == nil {
		return fmt.Errorf("not connected to IMAP server")
	}

	// Select mailbox
	_, err := m.client.Select(m.config.Folder, false)
	if err != nil {
		return fmt.Errorf("failed to select mailbox: %w", err)
	}

	// Start IDLE
	updates := make(chan client.Update)
	m.client.Updates = updates

	stop := make(chan struct{})
	idleDone := make(chan error, 1)

	go func() {
		idleDone <- m.client.Idle(stop, nil)
	}()

	log.Printf("Watching for new replies (press Ctrl+C to stop)...")

	for {
		select {
		case <-ctx.Done():
			close(stop)
			return ctx.Err()
		case update := <-updates:
			switch u := update.(type) {
			case *client.MailboxUpdate:
				log.Printf("New mail detected: %d messages", u.Mailbox.Messages)
				// Fetch the latest message
				close(stop)
				<-idleDone

				emails, err := m.FetchRecentEmails(ctx, 1)
				if err != nil {
					log.Printf("Error fetching new email: %v", err)
				} else if len(emails) > 0 {
					for _, email := range emails {
						if email.LeadID != "" {
							callback(email)
						}
					}
				}

				// Restart IDLE
				stop = make(chan struct{})
				go func() {
					idleDone <- m.client.Idle(stop, nil)
				}()
			}
		case err := <-idleDone:
			if err != nil {
				return fmt.Errorf("IDLE error: %w", err)
			}
		}
	}
}

// EnsureFolderExists creates a folder/label if it doesn't already exist
func (m *Monitor) EnsureFolderExists(name string) error {
	if m.client == nil {
		return fmt.Errorf("not connected to IMAP server")
	}

	// List existing folders to check if it exists
	mailboxes := make(chan *imap.MailboxInfo, 10)
	done := make(chan error, 1)
	go func() {
		done <- m.client.List("", "*", mailboxes)
	}()

	exists := false
	for mbox := range mailboxes {
		if strings.EqualFold(mbox.Name, name) {
			exists = true
		}
	}

	if err := <-done; err != nil {
		return fmt.Errorf("failed to list folders: %w", err)
	}

	if exists {
		log.Printf("Folder '%s' already exists", name)
		return nil
	}

	// Create the folder
	if err := m.client.Create(name); err != nil {
		return fmt.Errorf("failed to create folder '%s': %w", name, err)
	}

	log.Printf("Created folder '%s'", name)
	return nil
}

// ArchiveEmails moves multiple emails to the archive folder
func (m *Monitor) ArchiveEmails(uids []uint32, folder string) error {
	if m.client == nil {
		return fmt.Errorf("not connected to IMAP server")
	}

	if len(uids) == 0 {
		return nil
	}

	// Re-select the monitored folder to ensure we're in the right mailbox
	if _, err := m.client.Select(m.config.Folder, false); err != nil {
		return fmt.Errorf("failed to select mailbox: %w", err)
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uids...)

	// Try MOVE first (RFC 6851) - this is most efficient
	if err := m.client.UidMove(seqSet, folder); err != nil {
		log.Printf("MOVE not supported, falling back to COPY+DELETE: %v", err)

		// Fallback to COPY + DELETE if MOVE not supported
		if err := m.client.UidCopy(seqSet, folder); err != nil {
			return fmt.Errorf("failed to copy emails to '%s': %w", folder, err)
		}

		// Mark as deleted
		item := imap.FormatFlagsOp(imap.AddFlags, true)
		flags := []interface{}{imap.DeletedFlag}
		if err := m.client.UidStore(seqSet, item, flags, nil); err != nil {
			return fmt.Errorf("failed to mark emails as deleted: %w", err)
		}

		// Expunge to remove deleted messages
		if err := m.client.Expunge(nil); err != nil {
			return fmt.Errorf("failed to expunge deleted emails: %w", err)
		}
	}

	log.Printf("Archived %d emails to '%s'", len(uids), folder)
	return nil
}
