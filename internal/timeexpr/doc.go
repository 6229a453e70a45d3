// Package timeexpr turns the time phrases users type into concrete instants.
//
// Resolution tries exact layouts first (RFC 3339 and a handful of ISO-like
// forms interpreted in the reference location) and only then hands the text
// to a natural-language Fallback. Without a fallback, anything that is not an
// exact layout fails with an UnparseableTimeError carrying a remediation hint.
//
// Example:
//
//	r := timeexpr.NewResolver(timeexpr.NewWhenFallback())
//	start, err := r.Resolve("tomorrow 3pm", time.Now(), loc)
//
// The package also parses shift tokens such as "+2h", "-30m" or "1d" and the
// day-range keywords used by free-time queries ("today", "this week", ...).
package timeexpr
