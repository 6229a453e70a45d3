package timeexpr

import (
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// WhenFallback resolves English phrases ("tomorrow 3pm", "next friday")
// with github.com/olebedev/when.
type WhenFallback struct {
	parser *when.Parser
}

// NewWhenFallback creates a fallback with the English and common rule sets.
func NewWhenFallback() *WhenFallback {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &WhenFallback{parser: w}
}

// Parse implements Fallback.
func (f *WhenFallback) Parse(text string, ref time.Time) (time.Time, bool, error) {
	r, err := f.parser.Parse(text, ref)
	if err != nil {
		return time.Time{}, false, err
	}
	if r == nil {
		return time.Time{}, false, nil
	}
	return r.Time, true, nil
}
