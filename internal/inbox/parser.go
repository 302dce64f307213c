package inbox

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractedURLs contains categorized URLs from an email
type ExtractedURLs struct {
	MeetingURLs     []string // Scheduling links (Calendly, meeting bookers)
	UnsubscribeURLs []string // Unsubscribe links
	AllURLs         []string // All URLs found
}

// URL patterns for different types of links
var (
	// Scheduling/booking hosts and paths that indicate a meeting link
	meetingPatterns = []string{
		"calendly.com", "cal.com", "calendar.app.google",
		"meetings.hubspot.com", "savvycal.com", "youcanbook.me",
		"appointlet.com", "doodle.com",
		"/schedule", "/book-a-call", "/book-a-meeting", "/booking",
		"meet.google.com", "zoom.us/j/", "teams.microsoft.com/l/meetup",
	}

	// Email tracking/pixel patterns (to exclude)
	trackingPatterns = []string{
		"track", "pixel", "beacon",
		"open.gif", "spacer.gif",
		"1x1", "unsubscribe-tracking",
	}

	// URL regex to find URLs in plain text
	urlRegex = regexp.MustCompile(`https?://[^\s<>"']+`)
)

// ParseEmailURLs extracts and categorizes URLs from an email
func ParseEmailURLs(email *Email) ExtractedURLs {
	result := ExtractedURLs{}

	// Extract URLs from both plain text and HTML body
	var allURLs []string

	// From plain text
	if email.Body != "" {
		allURLs = append(allURLs, extractURLsFromText(email.Body)...)
	}

	// From HTML
	if email.HTMLBody != "" {
		allURLs = append(allURLs, extractURLsFromHTML(email.HTMLBody)...)
	}

	// Deduplicate and categorize
	seen := make(map[string]bool)
	for _, rawURL := range allURLs {
		// Clean and normalize URL
		cleanURL := cleanURL(rawURL)
		if cleanURL == "" || seen[cleanURL] {
			continue
		}
		seen[cleanURL] = true

		// Skip tracking pixels
		if isTrackingURL(cleanURL) {
			continue
		}

		result.AllURLs = append(result.AllURLs, cleanURL)

		// Categorize
		lowerURL := strings.ToLower(cleanURL)

		if isMeetingURL(lowerURL) {
			result.MeetingURLs = append(result.MeetingURLs, cleanURL)
		}

		if strings.Contains(lowerURL, "unsubscribe") {
			result.UnsubscribeURLs = append(result.UnsubscribeURLs, cleanURL)
		}
	}

	return result
}

// extractURLsFromText finds URLs in plain text
func extractURLsFromText(text string) []string {
	return urlRegex.FindAllString(text, -1)
}

// extractURLsFromHTML extracts href values from HTML
func extractURLsFromHTML(html string) []string {
	var urls []string

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// Fallback to regex
		return extractURLsFromText(html)
	}

	// Find all links
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		if href, exists := s.Attr("href"); exists {
			urls = append(urls, href)
		}
	})

	// Also check for URLs in plain text within the HTML
	urls = append(urls, extractURLsFromText(doc.Text())...)

	return urls
}

// cleanURL normalizes and validates a URL
func cleanURL(rawURL string) string {
	// Remove trailing punctuation that might have been captured
	rawURL = strings.TrimRight(rawURL, ".,;:!?)")

	// Parse to validate
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	// Must be http or https
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}

	// Must have a host
	if parsed.Host == "" {
		return ""
	}

	return parsed.String()
}

// isMeetingURL checks if URL looks like a scheduling or meeting link
func isMeetingURL(lowerURL string) bool {
	for _, pattern := range meetingPatterns {
		if strings.Contains(lowerURL, pattern) {
			return true
		}
	}
	return false
}

// isTrackingURL checks if URL is likely a tracking pixel
func isTrackingURL(url string) bool {
	lowerURL := strings.ToLower(url)
	for _, pattern := range trackingPatterns {
		if strings.Contains(lowerURL, pattern) {
			return true
		}
	}

	// Check for common image extensions that might be tracking pixels
	if strings.HasSuffix(lowerURL, ".gif") ||
		strings.HasSuffix(lowerURL, ".png") && strings.Contains(lowerURL, "pixel") {
		return true
	}

	return false
}

// GetPrimaryMeetingURL returns the first scheduling link found, preferring
// dedicated booking hosts over generic conference links
func GetPrimaryMeetingURL(urls ExtractedURLs) string {
	if len(urls.MeetingURLs) == 0 {
		return ""
	}

	bookingHosts := []string{"calendly.com", "cal.com", "meetings.hubspot.com", "savvycal.com"}
	for _, u := range urls.MeetingURLs {
		lowerURL := strings.ToLower(u)
		for _, host := range bookingHosts {
			if strings.Contains(lowerURL, host) {
				return u
			}
		}
	}

	return urls.MeetingURLs[0]
}

// Email regex for extracting bounced recipients
var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// Patterns that precede the bounced email address in NDRs
var bouncedRecipientPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:the\s+following|these)\s+address(?:es)?\s+(?:had\s+permanent\s+)?(?:fatal\s+)?(?:errors?|failed)[:\s]+([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`),
	regexp.MustCompile(`(?i)delivery\s+to\s+(?:the\s+following\s+)?(?:recipient|address)(?:s)?\s+failed[:\s]+([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`),
	regexp.MustCompile(`(?i)(?:original|final)[\s-]?recipient[:\s]+(?:rfc822;)?([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`),
	regexp.MustCompile(`(?i)(?:failed|rejected)\s+recipient[:\s]+([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`),
	regexp.MustCompile(`(?i)undeliverable\s+to[:\s]+([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`),
	regexp.MustCompile(`(?i)message\s+could\s+not\s+be\s+delivered\s+to[:\s]+([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`),
	regexp.MustCompile(`(?i)<([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})>.*(?:failed|rejected|undeliverable)`),
	regexp.MustCompile(`(?i)to[:\s]+<?([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})>?\s+.*(?:failed|rejected|not\s+exist)`),
}

// ExtractBouncedRecipient extracts the email address that bounced from an NDR email
func ExtractBouncedRecipient(email *Email) string {
	// Combine all text content
	content := email.Body
	if email.HTMLBody != "" {
		content += " " + stripHTMLSimple(email.HTMLBody)
	}

	// Also check subject (sometimes contains the address)
	content += " " + email.Subject

	// Try specific patterns first (more reliable)
	for _, pattern := range bouncedRecipientPatterns {
		matches := pattern.FindStringSubmatch(content)
		if len(matches) > 1 {
			return strings.TrimSpace(matches[1])
		}
	}

	// Fallback: find all email addresses and exclude known system addresses
	allEmails := emailRegex.FindAllString(content, -1)
	excludePatterns := []string{
		"mailer-daemon", "postmaster", "noreply", "no-reply",
	}

	for _, addr := range allEmails {
		addrLower := strings.ToLower(addr)
		isSystem := false
		for _, exclude := range excludePatterns {
			if strings.Contains(addrLower, exclude) {
				isSystem = true
				break
			}
		}
		if !isSystem {
			return addr
		}
	}

	return ""
}

// stripHTMLSimple removes HTML tags (simple version for bounce parsing)
func stripHTMLSimple(html string) string {
	re := regexp.MustCompile(`<[^>]+>`)
	return re.ReplaceAllString(html, " ")
}
