package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	auth  bool
	staff bool
}

func (f fakeSession) Authenticated() bool { return f.auth }
func (f fakeSession) IsStaff() bool       { return f.staff }

func mustRoute(t *testing.T, name string) Route {
	t.Helper()
	r, ok := Lookup(name)
	require.True(t, ok, "route %q missing from table", name)
	return r
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name  string
		route string
		sess  fakeSession
		want  Decision
	}{
		{
			name:  "anonymous on public route",
			route: RouteHome,
			want:  Decision{Allow: true},
		},
		{
			name:  "anonymous on protected route goes to login with return path",
			route: RouteChallenges,
			want:  Decision{Target: RouteLogin, Redirect: "/challenges"},
		},
		{
			name:  "anonymous on admin route goes to login, not home",
			route: RouteAdminUsers,
			want:  Decision{Target: RouteLogin, Redirect: "/admin/users"},
		},
		{
			name:  "authenticated non-staff on admin route goes home",
			route: RouteAdminDashboard,
			sess:  fakeSession{auth: true},
			want:  Decision{Target: RouteHome},
		},
		{
			name:  "staff on admin route",
			route: RouteAdminLogs,
			sess:  fakeSession{auth: true, staff: true},
			want:  Decision{Allow: true},
		},
		{
			name:  "authenticated on guest-only route goes home",
			route: RouteLogin,
			sess:  fakeSession{auth: true},
			want:  Decision{Target: RouteHome},
		},
		{
			name:  "anonymous on guest-only route",
			route: RouteRegister,
			want:  Decision{Allow: true},
		},
		{
			name:  "authenticated on protected route",
			route: RouteProfile,
			sess:  fakeSession{auth: true},
			want:  Decision{Allow: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(mustRoute(t, tt.route), tt.sess)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoutes_EveryAdminRouteAlsoRequiresAuth(t *testing.T) {
	for _, r := range Routes {
		if r.Meta.RequiresAdmin {
			assert.True(t, r.Meta.RequiresAuth, "route %q requires admin but not auth", r.Name)
		}
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, ok := Lookup("no-such-route")
	assert.False(t, ok)
}
