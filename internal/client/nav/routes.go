package nav

// Meta declares what a route requires of the session.
type Meta struct {
	// RequiresAuth restricts the route to authenticated sessions.
	RequiresAuth bool
	// RequiresAdmin restricts the route to staff accounts.
	RequiresAdmin bool
	// GuestOnly hides the route from authenticated sessions (login,
	// register).
	GuestOnly bool
}

// Route is one named destination.
type Route struct {
	Name string
	Path string
	Meta Meta
}

// Route names.
const (
	RouteHome          = "home"
	RouteLogin         = "login"
	RouteRegister      = "register"
	RouteAuthCallback  = "auth-callback"
	RouteChallenges    = "challenges"
	RouteChallenge     = "challenge-detail"
	RouteLeaderboard   = "leaderboard"
	RouteTeams         = "teams"
	RouteProfile       = "profile"
	RouteNotifications = "notifications"

	RouteAdminDashboard    = "admin-dashboard"
	RouteAdminUsers        = "admin-users"
	RouteAdminUserEdit     = "admin-user-edit"
	RouteAdminChallenges   = "admin-challenges"
	RouteAdminChallengeNew = "admin-challenge-new"
	RouteAdminChallenge    = "admin-challenge-edit"
	RouteAdminSettings     = "admin-settings"
	RouteAdminWriteups     = "admin-writeups"
	RouteAdminLogs         = "admin-logs"
)

var authOnly = Meta{RequiresAuth: true}
var adminOnly = Meta{RequiresAuth: true, RequiresAdmin: true}

// Routes is the application route table.
var Routes = []Route{
	{Name: RouteHome, Path: "/"},
	{Name: RouteLogin, Path: "/login", Meta: Meta{GuestOnly: true}},
	{Name: RouteRegister, Path: "/register", Meta: Meta{GuestOnly: true}},
	{Name: RouteAuthCallback, Path: "/auth/callback"},
	{Name: RouteChallenges, Path: "/challenges", Meta: authOnly},
	{Name: RouteChallenge, Path: "/challenges/:id", Meta: authOnly},
	{Name: RouteLeaderboard, Path: "/leaderboard", Meta: authOnly},
	{Name: RouteTeams, Path: "/teams", Meta: authOnly},
	{Name: RouteProfile, Path: "/profile", Meta: authOnly},
	{Name: RouteNotifications, Path: "/notifications", Meta: authOnly},

	{Name: RouteAdminDashboard, Path: "/admin/dashboard", Meta: adminOnly},
	{Name: RouteAdminUsers, Path: "/admin/users", Meta: adminOnly},
	{Name: RouteAdminUserEdit, Path: "/admin/users/:id/edit", Meta: adminOnly},
	{Name: RouteAdminChallenges, Path: "/admin/challenges", Meta: adminOnly},
	{Name: RouteAdminChallengeNew, Path: "/admin/challenges/new", Meta: adminOnly},
	{Name: RouteAdminChallenge, Path: "/admin/challenges/:id/edit", Meta: adminOnly},
	{Name: RouteAdminSettings, Path: "/admin/settings", Meta: adminOnly},
	{Name: RouteAdminWriteups, Path: "/admin/writeups", Meta: adminOnly},
	{Name: RouteAdminLogs, Path: "/admin/logs", Meta: adminOnly},
}

// Lookup returns the route with the given name, or false when unknown.
func Lookup(name string) (Route, bool) {
	for _, r := range Routes {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}
