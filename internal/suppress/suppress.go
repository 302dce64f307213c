package suppress

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ReasonUnsubscribe = "unsubscribe"
	ReasonBounce      = "bounce"
	ReasonManual      = "manual"
)

// Entry is a contact that outreach must never go to. Entries come from
// unsubscribe replies, hard bounces, or manual additions.
type Entry struct {
	Email   string    `yaml:"email"`
	Domain  string    `yaml:"domain,omitempty"` // Set to block a whole company
	Reason  string    `yaml:"reason"`
	LeadID  string    `yaml:"lead_id,omitempty"`
	Notes   string    `yaml:"notes,omitempty"`
	AddedAt time.Time `yaml:"added_at"`
}

// List is the do-not-contact list, persisted as YAML
type List struct {
	Entries []Entry `yaml:"entries"`
}

func LoadFromFile(path string) (*List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &List{}, nil
		}
		return nil, fmt.Errorf("failed to read suppression file: %w", err)
	}

	var l List
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse suppression file: %w", err)
	}

	for i := range l.Entries {
		l.Entries[i].Email = strings.ToLower(strings.TrimSpace(l.Entries[i].Email))
		l.Entries[i].Domain = strings.ToLower(strings.TrimSpace(l.Entries[i].Domain))
	}
	return &l, nil
}

// DefaultPath returns the suppression list location in the data directory
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "do_not_contact.yaml"
	}
	return filepath.Join(home, ".leadforge", "do_not_contact.yaml")
}

// FindByEmail returns the entry blocking an address, or nil
func (l *List) FindByEmail(email string) *Entry {
	email = strings.ToLower(strings.TrimSpace(email))
	for i := range l.Entries {
		if l.Entries[i].Email == email {
			return &l.Entries[i]
		}
	}
	return nil
}

// IsBlocked reports whether an address is suppressed, directly or by domain
func (l *List) IsBlocked(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}

	domain := ""
	if at := strings.LastIndex(email, "@"); at >= 0 {
		domain = email[at+1:]
	}

	for i := range l.Entries {
		if l.Entries[i].Email == email {
			return true
		}
		if l.Entries[i].Domain != "" && l.Entries[i].Domain == domain {
			return true
		}
	}
	return false
}

// Add appends an entry unless the address is already suppressed
func (l *List) Add(entry Entry) error {
	entry.Email = strings.ToLower(strings.TrimSpace(entry.Email))
	entry.Domain = strings.ToLower(strings.TrimSpace(entry.Domain))
	if entry.Email == "" && entry.Domain == "" {
		return fmt.Errorf("suppression entry needs an email or a domain")
	}
	if entry.Email != "" && l.FindByEmail(entry.Email) != nil {
		return fmt.Errorf("%q is already suppressed", entry.Email)
	}
	if entry.AddedAt.IsZero() {
		entry.AddedAt = time.Now()
	}
	l.Entries = append(l.Entries, entry)
	return nil
}

// RemoveByEmail removes an entry by address.
// Returns the removed entry, or nil if not found.
func (l *List) RemoveByEmail(email string) *Entry {
	email = strings.ToLower(strings.TrimSpace(email))
	for i := range l.Entries {
		if l.Entries[i].Email == email {
			removed := l.Entries[i]
			l.Entries = append(l.Entries[:i], l.Entries[i+1:]...)
			return &removed
		}
	}
	return nil
}

// FilterAllowed returns the addresses from the input that are not suppressed
func (l *List) FilterAllowed(emails []string) []string {
	var allowed []string
	for _, e := range emails {
		if !l.IsBlocked(e) {
			allowed = append(allowed, e)
		}
	}
	return allowed
}

func (l *List) Save(path string) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to serialize suppression list: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// SaveWithBackup saves the list to file, creating a backup first
func (l *List) SaveWithBackup(path string) error {
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file for backup: %w", err)
		}
		backupPath := path + ".bak"
		if err := os.WriteFile(backupPath, data, 0644); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	return l.Save(path)
}
