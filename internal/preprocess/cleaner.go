package preprocess

import (
	"regexp"
	"strings"
)

// Quoted-reply and forwarded-message boilerplate, matched per line.
var quotePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^-----\s*Original Message\s*-----.*$`),
	regexp.MustCompile(`(?im)^From:\s+.*$`),
	regexp.MustCompile(`(?im)^Sent:\s+.*$`),
	regexp.MustCompile(`(?im)^To:\s+.*$`),
	regexp.MustCompile(`(?im)^Subject:\s+.*$`),
	regexp.MustCompile(`(?im)^On\s+.*wrote:$`),
	regexp.MustCompile(`(?im)^[ \t]*>.*$`),
}

// Closing tokens that start a signature block. The earliest occurrence in
// the text wins, regardless of position in this list.
var signatureDelimiters = []string{"-- ", "Regards,", "Best regards,", "Thanks,", "Sincerely,"}

// Inline-image content ids, raw image tags, bare URLs and bracketed image
// placeholders.
var embeddedContentPattern = regexp.MustCompile(`cid:\S+|<img[^>]*>|http\S+|\[image:.*?\]`)

var (
	multiSpacePattern   = regexp.MustCompile(` {2,}`)
	multiNewlinePattern = regexp.MustCompile(`\n{3,}`)
)

// CleanBody reduces an email body to its human-written content. It removes
// quoted replies, signatures and embedded content references, collapses
// duplicate adjacent lines and excess whitespace, and preserves the
// original letter case throughout. Pure function, no side effects.
func CleanBody(body string) string {
	if body == "" {
		return ""
	}

	// Literal backslash-n sequences become real line breaks, CRLF becomes LF
	body = strings.ReplaceAll(body, `\n`, "\n")
	body = strings.ReplaceAll(body, "\r\n", "\n")

	for _, p := range quotePatterns {
		body = p.ReplaceAllString(body, "")
	}

	body = truncateSignature(body)

	body = embeddedContentPattern.ReplaceAllString(body, "")

	body = dedupeAdjacentLines(body)

	body = multiSpacePattern.ReplaceAllString(body, " ")
	body = multiNewlinePattern.ReplaceAllString(body, "\n\n")

	return strings.TrimSpace(body)
}

// truncateSignature cuts the body at the start of the earliest-occurring
// closing token. Known tradeoff: a legitimate "Thanks," mid-message also
// truncates.
func truncateSignature(body string) string {
	cut := -1
	for _, delim := range signatureDelimiters {
		if idx := strings.Index(body, delim); idx >= 0 && (cut < 0 || idx < cut) {
			cut = idx
		}
	}
	if cut >= 0 {
		return body[:cut]
	}
	return body
}

// dedupeAdjacentLines collapses runs of identical consecutive lines to one
// occurrence. Non-adjacent repeats are kept.
func dedupeAdjacentLines(body string) string {
	lines := strings.Split(body, "\n")
	unique := lines[:0]
	var prev string
	for i, line := range lines {
		if i == 0 || line != prev {
			unique = append(unique, line)
		}
		prev = line
	}
	return strings.Join(unique, "\n")
}
