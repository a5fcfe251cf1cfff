// Package nav holds the route table and the navigation guard evaluated
// before every route transition.
package nav

// Session is the slice of session state the guard reads. Authentication is
// defined as "an access token is present"; admin privilege is the profile's
// staff flag.
type Session interface {
	Authenticated() bool
	IsStaff() bool
}

// Decision is the guard's verdict for one transition.
type Decision struct {
	// Allow is true when the transition proceeds unchanged.
	Allow bool
	// Target is the route name to redirect to when Allow is false.
	Target string
	// Redirect carries the originally intended path on a login redirect so
	// the login view can return there afterward.
	Redirect string
}

// Decide evaluates the guard for a destination. Checks run in fixed order
// and the first match wins: missing authentication redirects to login
// (before any admin check), missing admin privilege redirects home, and
// guest-only routes redirect authenticated sessions home.
func Decide(to Route, sess Session) Decision {
	switch {
	case to.Meta.RequiresAuth && !sess.Authenticated():
		return Decision{Target: RouteLogin, Redirect: to.Path}
	case to.Meta.RequiresAdmin && !sess.IsStaff():
		return Decision{Target: RouteHome}
	case to.Meta.GuestOnly && sess.Authenticated():
		return Decision{Target: RouteHome}
	default:
		return Decision{Allow: true}
	}
}
