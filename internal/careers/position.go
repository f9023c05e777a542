package careers

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

// JobPosition is one open role as published by the listing endpoint.
// Field names match the spreadsheet column headers.
type JobPosition struct {
	Title        string   `json:"Title"`
	Department   string   `json:"Department"`
	Location     string   `json:"Location"`
	Type         string   `json:"Type"`
	Experience   string   `json:"Experience"`
	Description  string   `json:"Description"`
	Requirements []string `json:"Requirements,omitempty"`
}

const maxErrorSnippet = 200

// DecodePositions parses a listing response body. Anything other than a JSON
// array of positions is a parse failure.
func DecodePositions(body []byte) ([]JobPosition, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("listing decode failed: empty body")
	}
	if trimmed[0] == '<' {
		return nil, errors.Errorf("listing decode failed: got HTML page %q", describeHTML(trimmed))
	}
	if trimmed[0] != '[' {
		return nil, errors.Errorf("listing decode failed: expected JSON array, got %q", snippet(string(trimmed)))
	}

	var positions []JobPosition
	if err := json.Unmarshal(trimmed, &positions); err != nil {
		return nil, errors.Wrap(err, "listing decode failed")
	}
	if positions == nil {
		positions = []JobPosition{}
	}
	return positions, nil
}

// describeHTML pulls something readable out of an HTML error page, which is
// what the hosted script returns when it fails or needs re-authorising.
func describeHTML(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return snippet(string(body))
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return snippet(title)
	}
	return snippet(doc.Find("body").Text())
}

func snippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxErrorSnippet {
		return s[:maxErrorSnippet] + "..."
	}
	return s
}

func clonePositions(src []JobPosition) []JobPosition {
	out := make([]JobPosition, len(src))
	for i, p := range src {
		out[i] = p
		if p.Requirements != nil {
			out[i].Requirements = make([]string, len(p.Requirements))
			copy(out[i].Requirements, p.Requirements)
		}
	}
	return out
}
