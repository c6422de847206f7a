package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"santactl/internal/api"
	"santactl/internal/model"
	"santactl/internal/store"
)

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return a.register(ctx, args)
	case "verify-otp":
		return a.verifyOTP(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "verify":
		return a.verify(ctx, args)
	case "invite":
		return a.invite(ctx, args)
	case "logout":
		return a.logout(ctx)
	case "whoami":
		return a.whoami()
	case "events":
		return a.eventsCmd(ctx, args)
	case "participants":
		return a.participantsCmd(ctx, args)
	case "rules":
		return a.rulesCmd(ctx, args)
	case "assign":
		return a.assign(ctx, args)
	case "my-assignment":
		return a.myAssignment(ctx)
	case "my-info":
		return a.myInfo(ctx, args)
	case "admin":
		return a.adminCmd(ctx, args)
	case "health":
		return a.healthCmd(ctx)
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// requirePermission gates a command client-side. The backend still
// enforces the real rules; this only spares the user a doomed request.
func (a *app) requirePermission(perm model.Permission) error {
	if !a.auth.IsAuthenticated() {
		return fmt.Errorf("not signed in; run `santactl login`")
	}
	if !a.auth.HasPermission(perm) {
		return fmt.Errorf("your role does not allow this action (%s)", perm)
	}
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := a.auth.Register(ctx, api.RegisterRequest{Name: *name, Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Println(res.Message)
	if res.RequiresVerification {
		fmt.Printf("confirm with: santactl verify-otp -email %s -otp <code>\n", *email)
	}
	return nil
}

func (a *app) verifyOTP(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("verify-otp", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	otp := fs.String("otp", "", "verification code")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := a.auth.VerifyOTP(ctx, api.VerifyOTPRequest{Email: *email, OTP: *otp})
	if err != nil {
		return err
	}
	fmt.Printf("signed in as %s (%s)\n", res.User.Email, res.User.Role)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := a.auth.Login(ctx, api.LoginRequest{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Printf("signed in as %s (%s)\n", res.User.Email, res.User.Role)
	return nil
}

func (a *app) verify(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	token := fs.String("token", "", "invitation token")
	password := fs.String("password", "", "password to set")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := a.auth.Verify(ctx, api.VerifyRequest{Token: *token, Password: *password})
	if err != nil {
		return err
	}
	fmt.Printf("welcome %s, signed in as %s\n", res.User.Name, res.User.Email)
	return nil
}

func (a *app) invite(ctx context.Context, args []string) error {
	if err := a.requirePermission(model.PermManageParticipants); err != nil {
		return err
	}
	fs := flag.NewFlagSet("invite", flag.ContinueOnError)
	name := fs.String("name", "", "invitee name")
	email := fs.String("email", "", "invitee email")
	eventID := fs.String("event", "", "event id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := a.auth.Invite(ctx, api.InviteRequest{Name: *name, Email: *email, EventID: *eventID})
	if err != nil {
		return err
	}
	fmt.Println("invitation link:", res.InvitationLink)
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("signed out")
	return nil
}

func (a *app) whoami() error {
	user := a.auth.User()
	if user == nil {
		fmt.Println("not signed in")
		return nil
	}
	fmt.Printf("%s <%s> role=%s\n", user.Name, user.Email, user.Role)
	fmt.Print("permissions:")
	for _, perm := range a.auth.Permissions() {
		fmt.Printf(" %s", perm)
	}
	fmt.Println()
	return nil
}

func (a *app) eventsCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		if _, err := a.events.FetchEvents(ctx); err != nil {
			return err
		}
		views := a.events.Events()
		if len(views) == 0 {
			fmt.Println("no events")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPARTICIPANTS\tASSIGNED\tOWNER")
		for _, view := range views {
			owner := ""
			if view.Caps.IsOwner {
				owner = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%v\t%s\n",
				view.ID, view.Name, view.Caps.ParticipantCount, view.Caps.HasAssignments, owner)
		}
		return w.Flush()

	case "create":
		if err := a.requirePermission(model.PermCreateEvent); err != nil {
			return err
		}
		fs := flag.NewFlagSet("events create", flag.ContinueOnError)
		name := fs.String("name", "", "event name")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		view, err := a.events.CreateEvent(ctx, *name)
		if err != nil {
			return err
		}
		fmt.Printf("created event %s (%s)\n", view.Name, view.ID)
		return nil

	case "show":
		fs := flag.NewFlagSet("events show", flag.ContinueOnError)
		id := fs.String("id", "", "event id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		view, err := a.events.FetchEvent(ctx, *id)
		if err != nil {
			return err
		}
		printEvent(view)
		return nil

	case "rename":
		if err := a.requirePermission(model.PermUpdateEvent); err != nil {
			return err
		}
		fs := flag.NewFlagSet("events rename", flag.ContinueOnError)
		id := fs.String("id", "", "event id")
		name := fs.String("name", "", "new name")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if err := a.events.UpdateEvent(ctx, *id, *name); err != nil {
			return err
		}
		fmt.Println("event renamed")
		return nil

	case "delete":
		if err := a.requirePermission(model.PermDeleteEvent); err != nil {
			return err
		}
		fs := flag.NewFlagSet("events delete", flag.ContinueOnError)
		id := fs.String("id", "", "event id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if err := a.events.DeleteEvent(ctx, *id); err != nil {
			return err
		}
		fmt.Println("event deleted")
		return nil

	default:
		return fmt.Errorf("unknown events subcommand %q", args[0])
	}
}

func printEvent(view *store.EventView) {
	fmt.Printf("%s (%s)\n", view.Name, view.ID)
	fmt.Printf("  created: %s\n", view.CreatedAt)
	if view.Caps.HasAssignments {
		fmt.Printf("  assigned: %s\n", view.AssignedAt)
	}
	fmt.Printf("  participants (%d):\n", view.Caps.ParticipantCount)
	for _, p := range view.Participants {
		group := ""
		if p.GroupID != "" {
			group = " group=" + p.GroupID
		}
		fmt.Printf("    %s <%s>%s (%s)\n", p.Name, p.Email, group, p.ID)
	}
	if view.Caps.CanViewAssignments && len(view.Assignments) > 0 {
		fmt.Printf("  assignments: %d pairings generated\n", len(view.Assignments))
	}
}

func (a *app) participantsCmd(ctx context.Context, args []string) error {
	if err := a.requirePermission(model.PermManageParticipants); err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("participants needs a subcommand: add | update | remove")
	}

	fs := flag.NewFlagSet("participants "+args[0], flag.ContinueOnError)
	eventID := fs.String("event", "", "event id")
	id := fs.String("id", "", "participant id")
	name := fs.String("name", "", "participant name")
	email := fs.String("email", "", "participant email")
	phone := fs.String("phone", "", "participant phone")
	group := fs.String("group", "", "group id for avoid-same-group rules")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	req := api.CreateParticipantRequest{Name: *name, Email: *email, Phone: *phone, GroupID: *group}
	switch args[0] {
	case "add":
		participant, err := a.events.AddParticipant(ctx, *eventID, req)
		if err != nil {
			return err
		}
		fmt.Printf("added %s (%s)\n", participant.Name, participant.ID)
		return nil
	case "update":
		if err := a.events.UpdateParticipant(ctx, *eventID, *id, req); err != nil {
			return err
		}
		fmt.Println("participant updated")
		return nil
	case "remove":
		if err := a.events.RemoveParticipant(ctx, *eventID, *id); err != nil {
			return err
		}
		fmt.Println("participant removed")
		return nil
	default:
		return fmt.Errorf("unknown participants subcommand %q", args[0])
	}
}

func (a *app) rulesCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("rules needs a subcommand: show | set")
	}
	switch args[0] {
	case "show":
		fs := flag.NewFlagSet("rules show", flag.ContinueOnError)
		eventID := fs.String("event", "", "event id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		rules, err := a.events.FetchRules(ctx, *eventID)
		if err != nil {
			return err
		}
		printRules(rules)
		return nil

	case "set":
		if err := a.requirePermission(model.PermManageRules); err != nil {
			return err
		}
		fs := flag.NewFlagSet("rules set", flag.ContinueOnError)
		eventID := fs.String("event", "", "event id")
		avoidSameGroup := fs.Bool("avoid-same-group", false, "forbid pairings within the same group")
		maxAttempts := fs.Int("max-attempts", 0, "cap on generator shuffle attempts")
		avoidPrevious := fs.Bool("avoid-previous", false, "forbid repeating last year's pairings")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}

		// Only flags the user actually passed are sent; the rest stay
		// unset so the backend keeps its stored values.
		var rules model.Rules
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "avoid-same-group":
				rules.AvoidSameGroup = avoidSameGroup
			case "max-attempts":
				rules.MaxShuffleAttempts = maxAttempts
			case "avoid-previous":
				rules.AvoidPreviousAssignments = avoidPrevious
			}
		})

		if err := a.events.UpdateRules(ctx, *eventID, rules); err != nil {
			return err
		}
		fmt.Println("rules updated")
		return nil

	default:
		return fmt.Errorf("unknown rules subcommand %q", args[0])
	}
}

func printRules(rules *model.Rules) {
	show := func(name string, value any) {
		fmt.Printf("  %s: %v\n", name, value)
	}
	if rules.AvoidSameGroup != nil {
		show("avoid-same-group", *rules.AvoidSameGroup)
	}
	if rules.MaxShuffleAttempts != nil {
		show("max-attempts", *rules.MaxShuffleAttempts)
	}
	if rules.AvoidPreviousAssignments != nil {
		show("avoid-previous", *rules.AvoidPreviousAssignments)
	}
	if rules.AvoidSameGroup == nil && rules.MaxShuffleAttempts == nil && rules.AvoidPreviousAssignments == nil {
		fmt.Println("  no rules configured")
	}
}

func (a *app) assign(ctx context.Context, args []string) error {
	if err := a.requirePermission(model.PermGenerateAssignments); err != nil {
		return err
	}
	fs := flag.NewFlagSet("assign", flag.ContinueOnError)
	eventID := fs.String("event", "", "event id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := a.events.GenerateAssignments(ctx, *eventID)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%d pairings, %d emails sent)\n", res.Message, len(res.Assignments), res.EmailsSent)
	return nil
}

func (a *app) myAssignment(ctx context.Context) error {
	res, err := a.events.MyAssignment(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("for %s you are giving to %s <%s>\n", res.EventName, res.ReceiverName, res.ReceiverEmail)
	return nil
}

func (a *app) myInfo(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("my-info", flag.ContinueOnError)
	eventID := fs.String("event", "", "event id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := a.events.MyInfo(ctx, *eventID)
	if err != nil {
		return err
	}
	fmt.Printf("event %s (created %s)\n", res.Event.Name, res.Event.CreatedAt)
	fmt.Printf("you are %s <%s> acting as %s\n", res.MyInfo.Name, res.MyInfo.Email, res.MyRole)
	return nil
}

func (a *app) adminCmd(ctx context.Context, args []string) error {
	if err := a.requirePermission(model.PermViewAdminDashboard); err != nil {
		return err
	}
	sub := "dashboard"
	if len(args) > 0 {
		sub = args[0]
	}
	switch sub {
	case "dashboard":
		res, err := a.admin.FetchDashboard(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("users: %d\nevents: %d (active %d, recent %d)\nparticipants: %d\n",
			res.Stats.TotalUsers, res.Stats.TotalEvents, res.Stats.ActiveEvents,
			res.Stats.RecentEvents, res.Stats.TotalParticipants)
		return nil

	case "events":
		res, err := a.admin.FetchAllEvents(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tOWNER\tPARTICIPANTS")
		for _, event := range res.Events {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", event.ID, event.Name, event.OwnerID, len(event.Participants))
		}
		return w.Flush()

	case "users":
		res, err := a.admin.FetchAllUsers(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
		for _, user := range res.Users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", user.ID, user.Name, user.Email, user.Role)
		}
		return w.Flush()

	default:
		return fmt.Errorf("unknown admin subcommand %q", sub)
	}
}

func (a *app) healthCmd(ctx context.Context) error {
	health, err := a.health.Health(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("health: %s (%s)\n", health.Status, health.Timestamp)

	ready, err := a.health.Ready(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("ready: %s\n", ready.Status)
	return nil
}
