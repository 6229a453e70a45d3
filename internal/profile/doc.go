// Package profile models the user's working hours and scheduling
// boundaries. Weekdays are indexed 0=Monday through 6=Sunday.
package profile
