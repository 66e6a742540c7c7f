package domain

// Range selects the window of analytics charts and progress reports.
type Range string

const (
	RangeDaily   Range = "daily"
	RangeWeekly  Range = "weekly"
	RangeMonthly Range = "monthly"
)

func ParseRange(s string) (Range, bool) {
	switch r := Range(s); r {
	case RangeDaily, RangeWeekly, RangeMonthly:
		return r, true
	}
	return "", false
}

// Report is a rendered progress report. When object storage is configured
// the body is uploaded and URL holds a temporary download link.
type Report struct {
	Range       Range  `json:"range"`
	Title       string `json:"title"`
	ContentType string `json:"contentType"`
	ObjectKey   string `json:"-"` // Key in the bucket, internal use
	URL         string `json:"url,omitempty"`
	Body        []byte `json:"-"`
}
