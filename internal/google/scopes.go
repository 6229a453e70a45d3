package google

// DefaultOAuthScopes are the scopes requested during setup.
//
// The scopes provide access to:
//   - Google Calendar: events and calendar list, including creating the
//     dedicated calendar during setup
var DefaultOAuthScopes = []string{
	"https://www.googleapis.com/auth/calendar",
}
