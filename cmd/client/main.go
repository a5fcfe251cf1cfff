// Package main is the interactive shell for the platform: an authenticated
// REPL over the client stores, plus a live tail of the activity feed.
package main

import (
	"bufio"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/flagforge/flagforge/internal/client/api"
	"github.com/flagforge/flagforge/internal/client/creds"
	"github.com/flagforge/flagforge/internal/client/nav"
	"github.com/flagforge/flagforge/internal/client/realtime"
	"github.com/flagforge/flagforge/internal/client/session"
	"github.com/flagforge/flagforge/internal/client/store"
	"github.com/flagforge/flagforge/internal/client/store/admin"
	"github.com/flagforge/flagforge/internal/config"
	"github.com/flagforge/flagforge/internal/logger"
	"github.com/flagforge/flagforge/internal/models"
)

var (
	version   string
	buildDate string
)

// shellNav tracks the current view and announces redirects, standing in
// for the web client's router.
type shellNav struct {
	route string
}

func (n *shellNav) Push(route string) {
	n.route = route
	fmt.Printf("-> %s\n", route)
}

// feedPrinter tails the activity feed onto the terminal.
type feedPrinter struct{}

func (feedPrinter) Notify(msg []byte) {
	fmt.Printf("[feed] %s\n", strings.TrimSpace(string(msg)))
}

// app bundles the wired stores for the command handlers.
type app struct {
	session       *session.Store
	solves        *store.Solves
	challenges    *store.Challenges
	teams         *store.Teams
	leaderboard   *store.Leaderboard
	notifications *store.Notifications
	settings      *store.Settings
	writeups      *store.Writeups

	adminChallenges *admin.Challenges
	adminUsers      *admin.Users
	adminTags       *admin.Tags
	adminSettings   *admin.Settings
	adminLogs       *admin.Logs
	adminWriteups   *admin.Writeups

	feed    *realtime.Feed
	nav     *shellNav
	tailing bool
}

// guard runs the navigation guard before a view command. It returns false,
// after announcing the redirect, when the session may not enter the route.
func (a *app) guard(routeName string) bool {
	route, ok := nav.Lookup(routeName)
	if !ok {
		return true
	}
	decision := nav.Decide(route, a.session)
	if decision.Allow {
		return true
	}
	if decision.Redirect != "" {
		fmt.Printf("login required (wanted %s)\n", decision.Redirect)
	}
	a.nav.Push(decision.Target)
	return false
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func main() {
	options := config.Parse()

	fmt.Printf("FlagForge Client\nVersion: %s\nBuild Date: %s\n",
		cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))

	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	credStore, err := creds.Open(options.StateDir)
	if err != nil {
		zapLogger.Fatal("cannot open state dir", zap.Error(err))
	}

	apiClient := api.New(options.BaseURL, credStore, nil)
	solves := store.NewSolves()
	shell := &shellNav{route: nav.RouteHome}
	sess := session.New(apiClient, credStore, solves, shell, zapLogger)

	a := &app{
		session:       sess,
		solves:        solves,
		challenges:    store.NewChallenges(apiClient, sess, zapLogger),
		teams:         store.NewTeams(apiClient, sess, zapLogger),
		leaderboard:   store.NewLeaderboard(apiClient, zapLogger),
		notifications: store.NewNotifications(apiClient, zapLogger),
		settings:      store.NewSettings(apiClient, zapLogger),
		writeups:      store.NewWriteups(apiClient, zapLogger),

		adminChallenges: admin.NewChallenges(apiClient, zapLogger),
		adminUsers:      admin.NewUsers(apiClient, zapLogger),
		adminTags:       admin.NewTags(apiClient, zapLogger),
		adminSettings:   admin.NewSettings(apiClient, zapLogger),
		adminLogs:       admin.NewLogs(apiClient, zapLogger),
		adminWriteups:   admin.NewWriteups(apiClient, zapLogger),

		feed: realtime.New(options.SocketURL, zapLogger),
		nav:  shell,
	}
	a.feed.Start()
	defer a.feed.Close()

	repl(a)
}

// repl runs the interactive loop, accepting commands against the platform.
func repl(a *app) {
	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println(`Type "help" for a list of commands.`)
	for {
		fmt.Print("flagforge> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help":
			printHelp()
		case "register":
			if len(args) < 4 {
				fmt.Println("Usage: register <username> <email> <password>")
				continue
			}
			user, err := a.session.Register(ctx, models.UserCreate{
				Username: args[1], Email: args[2], Password: args[3],
			})
			if err != nil {
				fmt.Println("registration failed:", err)
				continue
			}
			fmt.Printf("registered %s (id %d), you can now login\n", user.Username, user.ID)
		case "login":
			if len(args) < 3 {
				fmt.Println("Usage: login <username> <password>")
				continue
			}
			if err := a.session.Login(ctx, args[1], args[2]); err != nil {
				fmt.Println("login failed:", err)
				continue
			}
			a.nav.Push(nav.RouteHome)
			fmt.Printf("logged in as %s\n", a.session.User().Username)
		case "token-login":
			if len(args) < 2 {
				fmt.Println("Usage: token-login <access-token>")
				continue
			}
			if err := a.session.HandleSocialLogin(ctx, args[1]); err != nil {
				fmt.Println("token login failed:", err)
				continue
			}
			a.nav.Push(nav.RouteHome)
			fmt.Printf("logged in as %s\n", a.session.User().Username)
		case "whoami":
			if user := a.session.User(); user != nil {
				printJSON(user)
			} else {
				fmt.Println("not logged in")
			}
		case "logout":
			a.session.Logout()
		case "challenges":
			if !a.guard(nav.RouteChallenges) {
				continue
			}
			if err := a.challenges.Fetch(ctx); err != nil {
				fmt.Println("error:", err)
				continue
			}
			for _, ch := range a.challenges.All() {
				marker := " "
				if a.solves.Solved(ch.ID) {
					marker = "*"
				}
				fmt.Printf("%s %3d  %-24s %4d pts  solves:%d\n", marker, ch.ID, ch.Name, ch.Points, ch.SolveCount)
			}
		case "challenge":
			if len(args) < 2 {
				fmt.Println("Usage: challenge <id>")
				continue
			}
			if !a.guard(nav.RouteChallenge) {
				continue
			}
			id, _ := strconv.Atoi(args[1])
			if err := a.challenges.FetchDetail(ctx, id); err != nil {
				fmt.Println("not found")
				continue
			}
			printJSON(a.challenges.Current())
		case "submit":
			if len(args) < 3 {
				fmt.Println("Usage: submit <challenge-id> <flag>")
				continue
			}
			id, _ := strconv.Atoi(args[1])
			res, err := a.challenges.SubmitFlag(ctx, id, args[2])
			if err != nil {
				fmt.Println("rejected:", err)
				continue
			}
			fmt.Println(res.Message)
		case "leaderboard":
			if !a.guard(nav.RouteLeaderboard) {
				continue
			}
			if err := a.leaderboard.Fetch(ctx); err != nil {
				fmt.Println("error:", err)
				continue
			}
			for _, row := range a.leaderboard.Entries() {
				fmt.Printf("%3d. %-24s %6d\n", row.Rank, row.TeamName, row.TotalScore)
			}
		case "teams":
			if !a.guard(nav.RouteTeams) {
				continue
			}
			if err := a.teams.Fetch(ctx); err != nil {
				fmt.Println("error:", err)
				continue
			}
			for _, t := range a.teams.All() {
				fmt.Printf("%3d  %-24s members:%d\n", t.ID, t.Name, len(t.Members))
			}
		case "team":
			if len(args) < 2 {
				fmt.Println("Usage: team <id>")
				continue
			}
			id, _ := strconv.Atoi(args[1])
			if err := a.teams.FetchDetail(ctx, id); err != nil {
				fmt.Println("not found")
				continue
			}
			printJSON(a.teams.Current())
		case "team-create":
			if len(args) < 2 {
				fmt.Println("Usage: team-create <name>")
				continue
			}
			if err := a.teams.Create(ctx, strings.Join(args[1:], " ")); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("team created")
		case "team-join":
			if len(args) < 2 {
				fmt.Println("Usage: team-join <id>")
				continue
			}
			id, _ := strconv.Atoi(args[1])
			if err := a.teams.Join(ctx, id); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("joined")
		case "team-leave":
			if err := a.teams.Leave(ctx); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("left team")
		case "notifications":
			if !a.guard(nav.RouteNotifications) {
				continue
			}
			a.notifications.Fetch(ctx)
			for _, n := range a.notifications.All() {
				read := " "
				if !n.IsRead {
					read = "!"
				}
				fmt.Printf("%s %3d  %s\n", read, n.ID, n.Message)
			}
			fmt.Printf("unread: %d\n", a.notifications.UnreadCount())
		case "read":
			if len(args) < 2 {
				fmt.Println("Usage: read <notification-id>")
				continue
			}
			id, _ := strconv.Atoi(args[1])
			if err := a.notifications.MarkAsRead(ctx, id); err != nil {
				fmt.Println("error:", err)
			}
		case "settings":
			a.settings.FetchPublic(ctx)
			if cfg := a.settings.Current(); cfg != nil {
				printJSON(cfg)
			} else {
				fmt.Println("settings unavailable, using defaults")
			}
		case "writeup":
			if len(args) < 3 {
				fmt.Println("Usage: writeup <challenge-id> <text...>")
				continue
			}
			id, _ := strconv.Atoi(args[1])
			created, err := a.writeups.Submit(ctx, id, strings.Join(args[2:], " "))
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Printf("write-up %d submitted, status %s\n", created.ID, created.Status)
		case "watch":
			if !a.tailing {
				a.feed.Subscribe(feedPrinter{})
				a.tailing = true
				fmt.Println("tailing activity feed")
			}
		case "unwatch":
			a.feed.Unsubscribe(feedPrinter{})
			a.tailing = false
		case "exit", "quit":
			fmt.Println("Bye")
			return
		default:
			if strings.HasPrefix(args[0], "admin-") {
				adminCommand(ctx, a, args)
				continue
			}
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func adminCommand(ctx context.Context, a *app, args []string) {
	// Every admin view sits behind the same guard; RouteAdminDashboard
	// carries the same meta as the rest of the subtree.
	if !a.guard(nav.RouteAdminDashboard) {
		return
	}

	switch args[0] {
	case "admin-challenges":
		if err := a.adminChallenges.Fetch(ctx); err != nil {
			fmt.Println("error:", err)
			return
		}
		for _, ch := range a.adminChallenges.All() {
			vis := "hidden"
			if ch.IsVisible {
				vis = "visible"
			}
			fmt.Printf("%3d  %-24s %4d pts  %s\n", ch.ID, ch.Name, ch.Points, vis)
		}
	case "admin-users":
		if err := a.adminUsers.Fetch(ctx); err != nil {
			fmt.Println("error:", err)
			return
		}
		for _, u := range a.adminUsers.All() {
			staff := ""
			if u.IsStaff {
				staff = " [staff]"
			}
			fmt.Printf("%3d  %-16s score:%d%s\n", u.ID, u.Username, u.Score, staff)
		}
	case "admin-tags":
		if err := a.adminTags.Fetch(ctx); err != nil {
			fmt.Println("error:", err)
			return
		}
		printJSON(a.adminTags.All())
	case "admin-tag-create":
		if len(args) < 2 {
			fmt.Println("Usage: admin-tag-create <name>")
			return
		}
		tag, err := a.adminTags.Create(ctx, args[1])
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Printf("tag %d created\n", tag.ID)
	case "admin-settings":
		if err := a.adminSettings.Fetch(ctx); err != nil {
			fmt.Println("error:", err)
			return
		}
		printJSON(a.adminSettings.Current())
	case "admin-logs":
		page := 1
		if len(args) > 1 {
			page, _ = strconv.Atoi(args[1])
		}
		if err := a.adminLogs.Fetch(ctx, page, 20); err != nil {
			fmt.Println("error:", err)
			return
		}
		for _, entry := range a.adminLogs.All() {
			fmt.Printf("%4d  %-20s %s\n", entry.ID, entry.Action, entry.CreatedAt.Format("15:04:05"))
		}
		fmt.Printf("total: %d\n", a.adminLogs.Total())
	case "admin-writeups":
		if err := a.adminWriteups.Fetch(ctx); err != nil {
			fmt.Println("error:", err)
			return
		}
		for _, w := range a.adminWriteups.All() {
			fmt.Printf("%3d  challenge:%d user:%d %s\n", w.ID, w.ChallengeID, w.UserID, w.Status)
		}
	case "admin-moderate":
		if len(args) < 4 {
			fmt.Println("Usage: admin-moderate <id> <approved|rejected> <points>")
			return
		}
		id, _ := strconv.Atoi(args[1])
		points, _ := strconv.Atoi(args[3])
		updated, err := a.adminWriteups.Moderate(ctx, id, args[2], points)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Printf("write-up %d is now %s\n", updated.ID, updated.Status)
	default:
		fmt.Println("Unknown admin command. Type 'help' for a list of commands.")
	}
}

func printHelp() {
	fmt.Println(`Available commands:
  register <user> <email> <pass>   create an account
  login <user> <pass>              log in
  token-login <token>              log in with an OAuth callback token
  whoami | logout
  challenges | challenge <id> | submit <id> <flag>
  leaderboard
  teams | team <id> | team-create <name> | team-join <id> | team-leave
  notifications | read <id>
  settings
  writeup <challenge-id> <text...>
  watch | unwatch                  tail the activity feed
  admin-challenges | admin-users | admin-tags | admin-tag-create <name>
  admin-settings | admin-logs [page] | admin-writeups
  admin-moderate <id> <status> <points>
  exit`)
}
