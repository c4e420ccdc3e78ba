// Package rumor runs rumor checks: a remote assessor with a deterministic
// local fallback, and the per-session request cycle around it.
package rumor

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/techvote/techvote/internal/content"
	"github.com/techvote/techvote/internal/models"
)

// DefaultCategory is the category preselected on a fresh checker.
const DefaultCategory = "General"

// Categories are the suggested claim categories. Any other label is passed
// through unchanged.
var Categories = []content.Option{
	{Key: "Voting Process", Label: content.T("Voting Process (ভোট প্রক্রিয়া)", "ভোট প্রক্রিয়া")},
	{Key: "Candidate Info", Label: content.T("Candidate Info (প্রার্থী তথ্য)", "প্রার্থী তথ্য")},
	{Key: "Election Date/Rules", Label: content.T("Election Date/Rules (নির্বাচনের তারিখ/নিয়ম)", "নির্বাচনের তারিখ/নিয়ম")},
	{Key: "Security & Safety", Label: content.T("Security & Safety (নিরাপত্তা)", "নিরাপত্তা")},
	{Key: "Other", Label: content.T("Other (অন্যান্য)", "অন্যান্য")},
}

// ErrInvalidMedia is returned for undecodable media payloads.
var ErrInvalidMedia = errors.New("invalid media payload")

// CanSubmit reports whether a check may be started: the text must not be
// blank or media must be present.
func CanSubmit(text string, media *models.Media) bool {
	return strings.TrimSpace(text) != "" || media != nil
}

// EncodeMedia base64-encodes a binary payload for transport.
func EncodeMedia(data []byte, mimeType string) *models.Media {
	return &models.Media{
		Data:     base64.StdEncoding.EncodeToString(data),
		MIMEType: mimeType,
	}
}

// MediaFromDataURL normalizes a client payload. A "data:<mime>;base64,"
// prefix is stripped and its MIME type wins over mimeType.
func MediaFromDataURL(payload, mimeType string) (*models.Media, error) {
	data := strings.TrimSpace(payload)
	if strings.HasPrefix(data, "data:") {
		comma := strings.IndexByte(data, ',')
		if comma < 0 {
			return nil, fmt.Errorf("%w: malformed data URL", ErrInvalidMedia)
		}
		header := strings.TrimPrefix(data[:comma], "data:")
		if !strings.HasSuffix(header, ";base64") {
			return nil, fmt.Errorf("%w: data URL is not base64", ErrInvalidMedia)
		}
		if mt := strings.TrimSuffix(header, ";base64"); mt != "" {
			mimeType = mt
		}
		data = data[comma+1:]
	}

	if data == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidMedia)
	}
	if mimeType == "" {
		return nil, fmt.Errorf("%w: missing mime type", ErrInvalidMedia)
	}
	if _, err := base64.StdEncoding.DecodeString(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMedia, err)
	}

	return &models.Media{Data: data, MIMEType: mimeType}, nil
}

var (
	tagLike    = regexp.MustCompile(`<[a-zA-Z/!][^>]*>`)
	spaceRun   = regexp.MustCompile(`[ \t]+`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// NormalizeText trims pasted text and strips HTML markup copied from web pages.
func NormalizeText(s string) string {
	if !tagLike.MatchString(s) {
		return strings.TrimSpace(s)
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			case "br", "p", "div", "li":
				buf.WriteString("\n")
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	text := spaceRun.ReplaceAllString(buf.String(), " ")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	text = blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(text)
}
