package inbox

import (
	"testing"
)

func TestInterestedPatterns(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected ReplyType
	}{
		{
			name:     "sounds interesting, tell me more",
			body:     "Hi, this sounds interesting. Tell me more about what you offer.",
			expected: ReplyInterested,
		},
		{
			name:     "asks for pricing",
			body:     "Thanks for reaching out. What are your rates for a monthly engagement?",
			expected: ReplyInterested,
		},
		{
			name:     "wants to schedule a call",
			body:     "Can we set up a call next week? Tuesday afternoon works for me.",
			expected: ReplyInterested,
		},
		{
			name:     "asks for a proposal",
			body:     "Please send over more details and a proposal for our team to review.",
			expected: ReplyInterested,
		},
		{
			name:     "calendly link implies interest",
			body:     "Happy to chat, grab a slot here: https://calendly.com/jsmith/30min",
			expected: ReplyInterested,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email := &Email{
				Body:    tt.body,
				Subject: "Re: Quick question about Acme Corp",
			}
			result := ClassifyReply(email)
			if result.Type != tt.expected {
				t.Errorf("got %s, want %s", result.Type, tt.expected)
			}
		})
	}
}

func TestNotInterestedPatterns(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "explicit not interested",
			body: "Thanks but we're not interested at this time.",
		},
		{
			name: "already have a provider",
			body: "We already have a provider we're happy with, good luck.",
		},
		{
			name: "no budget",
			body: "There's no budget for this right now, maybe next year.",
		},
		{
			name: "decided to pass",
			body: "We reviewed internally and have decided to pass.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email := &Email{
				Body:    tt.body,
				Subject: "Re: Quick question about Acme Corp",
			}
			result := ClassifyReply(email)
			if result.Type != ReplyNotInterested {
				t.Errorf("got %s, want %s", result.Type, ReplyNotInterested)
			}
		})
	}
}

func TestUnsubscribePatterns(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		body    string
	}{
		{
			name:    "remove from list",
			subject: "Re: Quick question",
			body:    "Please remove me from your mailing list.",
		},
		{
			name:    "stop contacting",
			subject: "Stop emailing me",
			body:    "Stop emailing me. I never signed up for this.",
		},
		{
			name:    "spam complaint",
			subject: "Re: Quick question",
			body:    "This is spam and I will report it if you contact us again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email := &Email{
				Body:    tt.body,
				Subject: tt.subject,
			}
			result := ClassifyReply(email)
			if result.Type != ReplyUnsubscribe {
				t.Errorf("got %s, want %s", result.Type, ReplyUnsubscribe)
			}
		})
	}
}

func TestOutOfOfficePatterns(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		body    string
	}{
		{
			name:    "standard OOO subject",
			subject: "Out of Office: Re: Quick question",
			body:    "I am out of the office until Monday, August 18 with limited access to my email.",
		},
		{
			name:    "vacation notice",
			subject: "Automatic reply",
			body:    "I'm currently on vacation and will be back in the office on September 2.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email := &Email{
				Body:    tt.body,
				Subject: tt.subject,
			}
			result := ClassifyReply(email)
			if result.Type != ReplyOutOfOffice {
				t.Errorf("got %s, want %s", result.Type, ReplyOutOfOffice)
			}
		})
	}
}

func TestAutoReplyPatterns(t *testing.T) {
	email := &Email{
		Subject: "Automatic reply: We have received your message",
		Body:    "Thank you for contacting Acme Support. We have received your email and will respond within 2 business days. Do not reply to this email.",
	}
	result := ClassifyReply(email)
	if result.Type != ReplyAutoReply {
		t.Errorf("got %s, want %s", result.Type, ReplyAutoReply)
	}
}

func TestBounceClassification(t *testing.T) {
	email := &Email{
		From:     "mailer-daemon@googlemail.com",
		FromName: "Mail Delivery Subsystem",
		Subject:  "Delivery Status Notification (Failure)",
		Body:     "Your message could not be delivered to jane@oldcompany.com. The recipient address does not exist.",
	}
	result := ClassifyReply(email)
	if result.Type != ReplyBounced {
		t.Fatalf("got %s, want %s", result.Type, ReplyBounced)
	}
	if result.BouncedRecipient != "jane@oldcompany.com" {
		t.Errorf("bounced recipient: got %q, want %q", result.BouncedRecipient, "jane@oldcompany.com")
	}
	if result.NeedsReview {
		t.Error("bounce should not need review")
	}
}

func TestUnknownNeedsReview(t *testing.T) {
	email := &Email{
		Subject: "hello",
		Body:    "See attached.",
	}
	result := ClassifyReply(email)
	if result.Type != ReplyUnknown {
		t.Errorf("got %s, want %s", result.Type, ReplyUnknown)
	}
	if !result.NeedsReview {
		t.Error("unknown replies should be flagged for review")
	}
}

func TestUnsubscribeBeatsOutOfOffice(t *testing.T) {
	email := &Email{
		Subject: "Re: Quick question",
		Body:    "Please remove me from your list. I am out of the office but this still applies.",
	}
	result := ClassifyReply(email)
	if result.Type != ReplyUnsubscribe {
		t.Errorf("got %s, want %s", result.Type, ReplyUnsubscribe)
	}
}

func TestClassifyBySubjectOnly(t *testing.T) {
	tests := []struct {
		subject  string
		expected ReplyType
	}{
		{"Out of office: back Monday", ReplyOutOfOffice},
		{"Automatic reply: Ticket #259135", ReplyAutoReply},
		{"Unsubscribe", ReplyUnsubscribe},
		{"Interested - let's talk", ReplyInterested},
		{"FW: spreadsheet", ReplyUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			got, _, _ := ClassifyBySubjectOnly(tt.subject)
			if got != tt.expected {
				t.Errorf("got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestSummarizeReplies(t *testing.T) {
	replies := []ClassifiedReply{
		{Type: ReplyInterested},
		{Type: ReplyInterested},
		{Type: ReplyNotInterested},
		{Type: ReplyBounced},
		{Type: ReplyUnknown, NeedsReview: true},
	}

	summary := SummarizeReplies(replies)
	if summary.Total != 5 {
		t.Errorf("total: got %d, want 5", summary.Total)
	}
	if summary.Interested != 2 {
		t.Errorf("interested: got %d, want 2", summary.Interested)
	}
	if summary.NotInterested != 1 {
		t.Errorf("not interested: got %d, want 1", summary.NotInterested)
	}
	if summary.Bounced != 1 {
		t.Errorf("bounced: got %d, want 1", summary.Bounced)
	}
	if summary.NeedReview != 1 {
		t.Errorf("need review: got %d, want 1", summary.NeedReview)
	}
}

func TestMeetingURLExtraction(t *testing.T) {
	email := &Email{
		Body: "Book a time that works for you: https://calendly.com/jsmith/intro or join directly at https://zoom.us/j/123456",
	}
	urls := ParseEmailURLs(email)
	if len(urls.MeetingURLs) != 2 {
		t.Fatalf("meeting URLs: got %d, want 2", len(urls.MeetingURLs))
	}
	primary := GetPrimaryMeetingURL(urls)
	if primary != "https://calendly.com/jsmith/intro" {
		t.Errorf("primary meeting URL: got %q", primary)
	}
}
