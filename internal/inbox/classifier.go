package inbox

import (
	"regexp"
	"strings"
)

// ReplyType represents the intent of an inbound reply
type ReplyType string

const (
	ReplyInterested    ReplyType = "interested"     // Positive response, wants to talk
	ReplyNotInterested ReplyType = "not_interested" // Explicit decline
	ReplyUnsubscribe   ReplyType = "unsubscribe"    // Asked to stop contacting
	ReplyBounced       ReplyType = "bounce"         // Email bounced - invalid address
	ReplyOutOfOffice   ReplyType = "out_of_office"  // Away notice, retry later
	ReplyAutoReply     ReplyType = "auto_reply"     // Generic automatic acknowledgment
	ReplyUnknown       ReplyType = "unknown"        // Needs manual review
)

// ClassifiedReply represents a classified inbound email
type ClassifiedReply struct {
	Email            *Email
	Type             ReplyType
	URLs             ExtractedURLs
	MeetingURL       string // Primary scheduling URL (if interested)
	BouncedRecipient string // Email address that bounced (if bounce)
	Confidence       float64
	Reason           string // Human-readable reason for classification
	NeedsReview      bool   // Whether manual review is recommended
}

// Keyword patterns for classification
var (
	// Interested indicators
	interestedPatterns = []regexp.Regexp{
		*regexp.MustCompile(`(?i)(sounds|looks)\s+(good|great|interesting|promising)`),
		*regexp.MustCompile(`(?i)(i('| a)m|we('| a)re)\s+interested`),
		*regexp.MustCompile(`(?i)tell\s+me\s+more`),
		*regexp.MustCompile(`(?i)(love|like|happy|glad)\s+to\s+(hear|learn|know|chat|talk)\s+more`),
		*regexp.MustCompile(`(?i)(set|schedule|book)\s+(up\s+)?(a\s+)?(call|meeting|demo|chat)`),
		*regexp.MustCompile(`(?i)what\s+(are\s+your|is\s+the)\s+(rates?|prices?|pricing|costs?)`),
		*regexp.MustCompile(`(?i)how\s+much\s+(do(es)?\s+(it|this)\s+cost|would\s+it\s+be)`),
		*regexp.MustCompile(`(?i)send\s+(me\s+|us\s+|over\s+)?(more\s+)?(details|information|info|a\s+proposal)`),
		*regexp.MustCompile(`(?i)(when|what\s+time)\s+(are\s+you|would\s+you\s+be)\s+(free|available)`),
		*regexp.MustCompile(`(?i)give\s+(me|us)\s+a\s+call`),
		*regexp.MustCompile(`(?i)let('s|\s+us)\s+(talk|chat|connect|discuss)`),
	}

	// Not interested indicators
	notInterestedPatterns = []regexp.Regexp{
		*regexp.MustCompile(`(?i)not\s+interested`),
		*regexp.MustCompile(`(?i)no\s+(thanks?|thank\s+you)`),
		*regexp.MustCompile(`(?i)(we|i)\s+(already\s+have|are\s+happy\s+with)\s+(a|an|our)\s+(provider|vendor|solution|supplier)`),
		*regexp.MustCompile(`(?i)(don't|do\s+not)\s+need\s+(this|that|your)`),
		*regexp.MustCompile(`(?i)not\s+(a\s+good\s+fit|looking\s+for|in\s+the\s+market)`),
		*regexp.MustCompile(`(?i)no\s+budget`),
		*regexp.MustCompile(`(?i)(maybe|perhaps)\s+(next|another)\s+(year|quarter|time)`),
		*regexp.MustCompile(`(?i)we\s+(have\s+)?(decided\s+to\s+)?pass`),
		*regexp.MustCompile(`(?i)not\s+(at\s+)?this\s+time`),
	}

	// Unsubscribe / stop-contact indicators
	unsubscribePatterns = []regexp.Regexp{
		*regexp.MustCompile(`(?i)unsubscribe`),
		*regexp.MustCompile(`(?i)(stop|quit)\s+(emailing|contacting|messaging)\s+(me|us)`),
		*regexp.MustCompile(`(?i)(remove|take)\s+(me|us)\s+(from|off)\s+(your|this|the)\s+(list|mailing)`),
		*regexp.MustCompile(`(?i)(don't|do\s+not)\s+(email|contact|message)\s+(me|us)\s+(again|anymore)`),
		*regexp.MustCompile(`(?i)this\s+is\s+spam`),
		*regexp.MustCompile(`(?i)report(ed|ing)?\s+(you\s+)?(as\s+)?spam`),
		*regexp.MustCompile(`(?i)opt\s*(me\s+)?out`),
	}

	// Out of office indicators
	outOfOfficePatterns = []regexp.Regexp{
		*regexp.MustCompile(`(?i)out\s+of\s+(the\s+)?office`),
		*regexp.MustCompile(`(?i)(on|currently\s+on)\s+(annual\s+|parental\s+|sick\s+)?leave`),
		*regexp.MustCompile(`(?i)(away|travelling|traveling)\s+(from|until|till)`),
		*regexp.MustCompile(`(?i)(i\s+will\s+be\s+)?(back|returning)\s+(in\s+the\s+office\s+)?(on|by|after)`),
		*regexp.MustCompile(`(?i)limited\s+access\s+to\s+(my\s+)?email`),
		*regexp.MustCompile(`(?i)on\s+(vacation|holiday)`),
	}

	// Generic auto-reply indicators
	autoReplyPatterns = []regexp.Regexp{
		*regexp.MustCompile(`(?i)automatic\s+reply`),
		*regexp.MustCompile(`(?i)auto[\s-]?(reply|response|responder)`),
		*regexp.MustCompile(`(?i)(this\s+is\s+an?\s+)?automated\s+(message|response|reply)`),
		*regexp.MustCompile(`(?i)thank\s+you\s+for\s+(your\s+email|contacting|reaching\s+out)`),
		*regexp.MustCompile(`(?i)we\s+(have\s+)?received\s+your\s+(email|message|inquiry)`),
		*regexp.MustCompile(`(?i)(will\s+)?(respond|get\s+back\s+to\s+you)\s+(within|as\s+soon\s+as)`),
		*regexp.MustCompile(`(?i)(has\s+been\s+)?assigned\s+(a\s+)?(ticket|case|reference)`),
		*regexp.MustCompile(`(?i)do\s+not\s+reply\s+to\s+this\s+(email|message)`),
		*regexp.MustCompile(`(?i)this\s+(mailbox|inbox)\s+is\s+not\s+monitored`),
	}

	// Subject-specific patterns (stronger signal when in subject)
	subjectOutOfOfficePatterns = []regexp.Regexp{
		*regexp.MustCompile(`(?i)^out\s+of\s+office`),
		*regexp.MustCompile(`(?i)^(on\s+)?(annual\s+)?leave`),
		*regexp.MustCompile(`(?i)^away\s+(from|until)`),
		*regexp.MustCompile(`(?i)^(on\s+)?vacation`),
	}

	subjectAutoReplyPatterns = []regexp.Regexp{
		*regexp.MustCompile(`(?i)^automatic\s+reply`),
		*regexp.MustCompile(`(?i)^auto[\s-]?reply`),
		*regexp.MustCompile(`(?i)^auto[\s-]?response`),
		*regexp.MustCompile(`(?i)#[A-Z]{0,3}[-]?\d{5,}`), // Ticket numbers like #REQ-195698
		*regexp.MustCompile(`(?i)ticket\s*[\(#]\s*:?\s*\d+`),
		*regexp.MustCompile(`(?i)we\s+have\s+received\s+your`),
	}

	subjectUnsubscribePatterns = []regexp.Regexp{
		*regexp.MustCompile(`(?i)unsubscribe`),
		*regexp.MustCompile(`(?i)remove\s+(me|us)`),
		*regexp.MustCompile(`(?i)stop\s+(emailing|contacting)`),
	}

	subjectInterestedPatterns = []regexp.Regexp{
		*regexp.MustCompile(`(?i)interested`),
		*regexp.MustCompile(`(?i)(call|meeting|demo)\s+request`),
		*regexp.MustCompile(`(?i)let('s|\s+us)\s+(talk|chat|connect)`),
	}

	// Bounce/undeliverable indicators
	bouncePatterns = []regexp.Regexp{
		*regexp.MustCompile(`(?i)delivery\s+(to\s+.+\s+)?(has\s+)?failed`),
		*regexp.MustCompile(`(?i)undeliverable`),
		*regexp.MustCompile(`(?i)delivery\s+status\s+notification`),
		*regexp.MustCompile(`(?i)returned\s+mail`),
		*regexp.MustCompile(`(?i)mail\s+delivery\s+failed`),
		*regexp.MustCompile(`(?i)message\s+(could\s+)?not\s+(be\s+)?delivered`),
		*regexp.MustCompile(`(?i)could\s+not\s+be\s+delivered`),
		*regexp.MustCompile(`(?i)delivery\s+failure`),
		*regexp.MustCompile(`(?i)permanent\s+(failure|error)`),
		*regexp.MustCompile(`(?i)address\s+rejected`),
		*regexp.MustCompile(`(?i)user\s+unknown`),
		*regexp.MustCompile(`(?i)mailbox\s+not\s+found`),
		*regexp.MustCompile(`(?i)no\s+such\s+user`),
		*regexp.MustCompile(`(?i)(mailbox|recipient|address)\s+(does\s+not|doesn't)\s+exist`),
		*regexp.MustCompile(`(?i)invalid\s+(recipient|address|mailbox)`),
		*regexp.MustCompile(`(?i)unknown\s+(recipient|user|address)`),
		*regexp.MustCompile(`(?i)550\s+.*\s+(rejected|unknown|not\s+found)`),
		*regexp.MustCompile(`(?i)554\s+.*\s+(rejected|failed)`),
	}

	// Senders that indicate a bounce email
	bounceSenders = []string{
		"mailer-daemon",
		"postmaster",
		"mail delivery system",
		"mail delivery subsystem",
		"mailerdaemon",
		"mailsystem",
	}
)

// ClassifyReply analyzes an email and determines the reply type
func ClassifyReply(email *Email) ClassifiedReply {
	result := ClassifiedReply{
		Email:      email,
		Type:       ReplyUnknown,
		Confidence: 0.0,
	}

	// Extract URLs from the email
	result.URLs = ParseEmailURLs(email)

	// Get the text content to analyze
	content := email.Body
	if content == "" {
		content = stripHTML(email.HTMLBody)
	}
	content = strings.ToLower(content)

	// Also check subject
	subject := strings.ToLower(email.Subject)

	// Check if this is a bounce email FIRST (before other classification)
	if isBounceEmail(email, subject, content) {
		result.Type = ReplyBounced
		result.Confidence = 0.95
		result.Reason = "Email delivery failed - address may be invalid"
		result.BouncedRecipient = ExtractBouncedRecipient(email)
		result.NeedsReview = false // Bounces are clear-cut
		return result
	}

	// Score each category
	scores := map[ReplyType]int{
		ReplyInterested:    0,
		ReplyNotInterested: 0,
		ReplyUnsubscribe:   0,
		ReplyOutOfOffice:   0,
		ReplyAutoReply:     0,
	}

	// Check for subject-specific patterns (strong signal - worth +3)
	for _, pattern := range subjectOutOfOfficePatterns {
		if pattern.MatchString(subject) {
			scores[ReplyOutOfOffice] += 3
		}
	}
	for _, pattern := range subjectAutoReplyPatterns {
		if pattern.MatchString(subject) {
			scores[ReplyAutoReply] += 3
		}
	}
	for _, pattern := range subjectUnsubscribePatterns {
		if pattern.MatchString(subject) {
			scores[ReplyUnsubscribe] += 3
		}
	}
	for _, pattern := range subjectInterestedPatterns {
		if pattern.MatchString(subject) {
			scores[ReplyInterested] += 3
		}
	}

	// Check interested patterns
	for _, pattern := range interestedPatterns {
		if pattern.MatchString(content) {
			scores[ReplyInterested]++
		}
	}

	// Check not-interested patterns
	for _, pattern := range notInterestedPatterns {
		if pattern.MatchString(content) || pattern.MatchString(subject) {
			scores[ReplyNotInterested]++
		}
	}

	// Check unsubscribe patterns
	for _, pattern := range unsubscribePatterns {
		if pattern.MatchString(content) {
			scores[ReplyUnsubscribe]++
		}
	}

	// Check out-of-office patterns
	for _, pattern := range outOfOfficePatterns {
		if pattern.MatchString(content) {
			scores[ReplyOutOfOffice]++
		}
	}

	// Check auto-reply patterns
	for _, pattern := range autoReplyPatterns {
		if pattern.MatchString(content) {
			scores[ReplyAutoReply]++
		}
	}

	// Boost scores based on URL presence
	if len(result.URLs.MeetingURLs) > 0 {
		scores[ReplyInterested] += 2
	}
	if len(result.URLs.UnsubscribeURLs) > 0 {
		scores[ReplyUnsubscribe]++
	}

	// An unsubscribe demand overrides an away notice in the same email
	if scores[ReplyUnsubscribe] > 0 && scores[ReplyUnsubscribe] >= scores[ReplyOutOfOffice] {
		scores[ReplyOutOfOffice] = 0
	}

	// Find the highest scoring type and second highest
	maxScore := 0
	secondScore := 0
	for replyType, score := range scores {
		if score > maxScore {
			secondScore = maxScore
			maxScore = score
			result.Type = replyType
		} else if score > secondScore {
			secondScore = score
		}
	}

	// Calculate confidence based on margin over second best
	if maxScore > 0 {
		if secondScore == 0 {
			// Only one type matched - high confidence
			result.Confidence = 0.85
		} else {
			// Multiple types matched - confidence based on margin
			margin := float64(maxScore-secondScore) / float64(maxScore)
			result.Confidence = 0.5 + (margin * 0.4) // Range: 0.5 to 0.9
		}
		// Boost confidence for strong subject matches
		if maxScore >= 3 {
			result.Confidence = max(result.Confidence, 0.75)
		}
		// High confidence when classification is backed by a concrete URL
		if result.Type == ReplyInterested && len(result.URLs.MeetingURLs) > 0 {
			result.Confidence = max(result.Confidence, 0.85)
		}
	}

	// If no patterns matched, try to infer from URLs
	if maxScore == 0 {
		if len(result.URLs.MeetingURLs) > 0 {
			result.Type = ReplyInterested
			result.Confidence = 0.5
		}
	}

	// Set primary meeting URL
	result.MeetingURL = GetPrimaryMeetingURL(result.URLs)

	// Set reason based on classification
	result.Reason = classificationReason(result.Type)

	// Flag for manual review only if unknown or very low confidence
	result.NeedsReview = result.Type == ReplyUnknown || (result.Confidence < 0.4 && result.Type != ReplyUnknown)

	return result
}

// classificationReason returns a human-readable reason
func classificationReason(replyType ReplyType) string {
	switch replyType {
	case ReplyInterested:
		return "Lead expressed interest or asked for details"
	case ReplyNotInterested:
		return "Lead declined the offer"
	case ReplyUnsubscribe:
		return "Lead asked to stop being contacted"
	case ReplyBounced:
		return "Email delivery failed - address may be invalid"
	case ReplyOutOfOffice:
		return "Away notice, worth following up later"
	case ReplyAutoReply:
		return "Automatic acknowledgment, no human read it yet"
	case ReplyUnknown:
		return "Could not automatically classify this reply"
	default:
		return "Unknown classification"
	}
}

// stripHTML removes HTML tags from content (simple version)
func stripHTML(html string) string {
	// Remove script and style elements (Go regex doesn't support backreferences)
	reScript := regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	html = reScript.ReplaceAllString(html, "")
	reStyle := regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	html = reStyle.ReplaceAllString(html, "")

	// Remove HTML tags
	reTags := regexp.MustCompile(`<[^>]+>`)
	html = reTags.ReplaceAllString(html, " ")

	// Decode common HTML entities
	html = strings.ReplaceAll(html, "&nbsp;", " ")
	html = strings.ReplaceAll(html, "&amp;", "&")
	html = strings.ReplaceAll(html, "&lt;", "<")
	html = strings.ReplaceAll(html, "&gt;", ">")
	html = strings.ReplaceAll(html, "&quot;", "\"")

	// Collapse whitespace
	reWhitespace := regexp.MustCompile(`\s+`)
	html = reWhitespace.ReplaceAllString(html, " ")

	return strings.TrimSpace(html)
}

// ClassifyBatch classifies multiple emails
func ClassifyBatch(emails []Email) []ClassifiedReply {
	results := make([]ClassifiedReply, len(emails))
	for i := range emails {
		results[i] = ClassifyReply(&emails[i])
	}
	return results
}

// ClassifyBySubjectOnly classifies based on subject line only (for reclassifying database records)
// Returns the reply type, confidence, and whether it needs review
func ClassifyBySubjectOnly(subject string) (ReplyType, float64, bool) {
	subject = strings.ToLower(subject)

	scores := map[ReplyType]int{
		ReplyInterested:    0,
		ReplyNotInterested: 0,
		ReplyUnsubscribe:   0,
		ReplyOutOfOffice:   0,
		ReplyAutoReply:     0,
	}

	// Check subject-specific patterns (strong signal - worth +3)
	for _, pattern := range subjectOutOfOfficePatterns {
		if pattern.MatchString(subject) {
			scores[ReplyOutOfOffice] += 3
		}
	}
	for _, pattern := range subjectAutoReplyPatterns {
		if pattern.MatchString(subject) {
			scores[ReplyAutoReply] += 3
		}
	}
	for _, pattern := range subjectUnsubscribePatterns {
		if pattern.MatchString(subject) {
			scores[ReplyUnsubscribe] += 3
		}
	}
	for _, pattern := range subjectInterestedPatterns {
		if pattern.MatchString(subject) {
			scores[ReplyInterested] += 3
		}
	}

	// Also check regular patterns against subject
	for _, pattern := range interestedPatterns {
		if pattern.MatchString(subject) {
			scores[ReplyInterested]++
		}
	}
	for _, pattern := range notInterestedPatterns {
		if pattern.MatchString(subject) {
			scores[ReplyNotInterested]++
		}
	}
	for _, pattern := range unsubscribePatterns {
		if pattern.MatchString(subject) {
			scores[ReplyUnsubscribe]++
		}
	}

	// Find highest scoring type
	maxScore := 0
	bestType := ReplyUnknown
	for replyType, score := range scores {
		if score > maxScore {
			maxScore = score
			bestType = replyType
		}
	}

	// Calculate confidence (lower for subject-only)
	var confidence float64
	needsReview := true

	if maxScore >= 3 {
		confidence = 0.7 // Strong subject match
		needsReview = false
	} else if maxScore >= 1 {
		confidence = 0.4 // Weak match
		needsReview = true
	} else {
		bestType = ReplyUnknown
		confidence = 0.0
		needsReview = true
	}

	return bestType, confidence, needsReview
}

// FilterByType filters classified replies by type
func FilterByType(replies []ClassifiedReply, replyType ReplyType) []ClassifiedReply {
	var filtered []ClassifiedReply
	for _, r := range replies {
		if r.Type == replyType {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// GetActionableReplies returns replies that need a human follow-up
func GetActionableReplies(replies []ClassifiedReply) []ClassifiedReply {
	var actionable []ClassifiedReply
	for _, r := range replies {
		if r.Type == ReplyInterested || r.Type == ReplyUnknown {
			actionable = append(actionable, r)
		}
	}
	return actionable
}

// Summary provides a summary of classified replies
type Summary struct {
	Total         int
	Interested    int
	NotInterested int
	Unsubscribe   int
	Bounced       int
	OutOfOffice   int
	AutoReply     int
	Unknown       int
	NeedReview    int
}

// SummarizeReplies generates a summary of classified replies
func SummarizeReplies(replies []ClassifiedReply) Summary {
	summary := Summary{Total: len(replies)}

	for _, r := range replies {
		switch r.Type {
		case ReplyInterested:
			summary.Interested++
		case ReplyNotInterested:
			summary.NotInterested++
		case ReplyUnsubscribe:
			summary.Unsubscribe++
		case ReplyBounced:
			summary.Bounced++
		case ReplyOutOfOffice:
			summary.OutOfOffice++
		case ReplyAutoReply:
			summary.AutoReply++
		case ReplyUnknown:
			summary.Unknown++
		}
		if r.NeedsReview {
			summary.NeedReview++
		}
	}

	return summary
}

// isBounceEmail checks if an email is a bounce/undeliverable notification
func isBounceEmail(email *Email, subject, content string) bool {
	// Check if sender looks like a mail system
	fromLower := strings.ToLower(email.From)
	fromNameLower := strings.ToLower(email.FromName)

	isBounceSource := false
	for _, sender := range bounceSenders {
		if strings.Contains(fromLower, sender) || strings.Contains(fromNameLower, sender) {
			isBounceSource = true
			break
		}
	}

	// Check subject and content for bounce patterns
	bounceScore := 0
	for _, pattern := range bouncePatterns {
		if pattern.MatchString(subject) {
			bounceScore += 2 // Subject match is strong signal
		}
		if pattern.MatchString(content) {
			bounceScore++
		}
	}

	// Email is considered a bounce if:
	// - It's from a mail system sender AND has bounce patterns, OR
	// - It has strong bounce patterns (score >= 3)
	return (isBounceSource && bounceScore > 0) || bounceScore >= 3
}

// GetBouncedReplies returns replies that are bounced emails
func GetBouncedReplies(replies []ClassifiedReply) []ClassifiedReply {
	return FilterByType(replies, ReplyBounced)
}
