// Package calendar implements scheduling.CalendarStore on top of the Google
// Calendar v3 API.
//
// Every API call is recorded as a calendar_store_operations_total sample and
// wrapped in a span, so a Client built with metrics shows up on the
// Prometheus endpoint of the serve command.
//
// Example usage:
//
//	httpClient, err := google.NewFileTokenProvider(tokenPath, conf).HTTPClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := calendar.NewClient(ctx, httpClient, calendar.WithMetrics(metrics))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	events, err := client.ListEvents(ctx, "primary", scheduling.EventQuery{
//	    TimeMin: time.Now(),
//	    TimeMax: time.Now().AddDate(0, 0, 7),
//	})
package calendar
