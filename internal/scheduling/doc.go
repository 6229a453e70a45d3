// Package scheduling is the assistant's scheduling engine: conflict
// detection, free-slot computation, reschedule arithmetic and the Service
// that runs add, reschedule, delete and search requests against a
// CalendarStore.
//
// The package owns no durable state. Every request re-reads what it needs
// from the CalendarStore and the preference and profile stores, issues
// remote calls one at a time, and wraps every store failure in a
// RemoteStoreError.
//
// Interactive decisions (proceed despite conflicts, pick one of several
// matching events, confirm a change) go through a Confirmer. A nil
// Confirmer means headless operation: anything that would need a decision
// fails with ConflictError or AmbiguousMatchError unless the request was
// pre-confirmed.
//
// Basic usage:
//
//	svc := scheduling.NewService(store, prefs, profiles, scheduling.Config{
//		CalendarID: cfg.CalendarID,
//		Location:   loc,
//		Resolver:   timeexpr.NewResolver(timeexpr.NewWhenFallback()),
//	})
//	res, err := svc.Add(ctx, scheduling.AddRequest{Title: "1:1 with Sam", Start: "tomorrow 3pm"})
package scheduling
