// Package preferences resolves per-event attributes (duration, color,
// reminder, target calendar, recurrence) from an ordered list of keyword
// rules layered over defaults.
//
// Rule order and keyword order inside a rule are significant: the first
// keyword found in the lowercase "title description" haystack wins.
//
//	res := preferences.Match("daily standup sync", "", doc.Rules, doc.Defaults)
//	if kw, ok := res.Matched(); ok {
//		fmt.Println("matched", kw)
//	}
//
// Rules are persisted as a single YAML document by FileStore.
package preferences
