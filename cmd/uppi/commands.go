package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/janyksteenbeek/uppi-mobile-app/internal/push"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/router"
	"github.com/janyksteenbeek/uppi-mobile-app/internal/views"
)

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: uppi login <code>")
	}

	profile, err := a.authFlow.SignIn(ctx, args[0])
	if err != nil {
		return fmt.Errorf("sign in failed: %w", err)
	}

	fmt.Fprintf(a.out, "Signed in as %s <%s>\n", profile.Name, profile.Email)
	return nil
}

func (a *app) logout(ctx context.Context) error {
	a.authFlow.SignOut(ctx)
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *app) status(ctx context.Context) error {
	if err := a.authFlow.CheckAuth(ctx); err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "API:\t%s\n", a.cfg.APIBaseURL())
	fmt.Fprintf(w, "Storage:\t%s\n", a.cfg.Storage.Backend)
	if a.session.IsAuthenticated() {
		fmt.Fprintf(w, "Session:\tsigned in\n")
	} else {
		fmt.Fprintf(w, "Session:\tsigned out\n")
	}
	fmt.Fprintf(w, "View:\t%s\n", a.nav.Current())
	return w.Flush()
}

func (a *app) profile(ctx context.Context) error {
	a.nav.Replace(router.RouteProfile)

	v := views.NewProfile(a.api, a.pushManager(""), a.authFlow, a.log)
	if err := v.Load(ctx); err != nil {
		return err
	}

	p := v.Profile()
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", p.Name)
	fmt.Fprintf(w, "Email:\t%s\n", p.Email)
	fmt.Fprintf(w, "Verified:\t%s\n", yesNo(p.IsVerified()))
	fmt.Fprintf(w, "Admin:\t%s\n", yesNo(p.IsAdmin))
	fmt.Fprintf(w, "Avatar:\t%s\n", v.AvatarURL())
	fmt.Fprintf(w, "Push notifications:\t%s\n", onOff(v.PushEnabled()))
	return w.Flush()
}

func (a *app) monitors(ctx context.Context) error {
	a.nav.Replace(router.RouteTabs)

	v := views.NewMonitorList(a.api, a.lang, nil, a.log)
	if err := v.Load(ctx); err != nil {
		return err
	}

	rows := v.Rows()
	if len(rows) == 0 {
		fmt.Fprintln(a.out, "No monitors yet")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tTARGET\tSTATUS\tDOWN SINCE")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Type, r.Target, strings.ToUpper(string(r.Status)), r.DownSince)
	}
	return w.Flush()
}

func (a *app) monitor(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: uppi monitor <id>")
	}
	a.nav.Replace(router.MonitorRoute(args[0]))

	v := views.NewMonitorDetail(args[0], a.api, nil, a.log)
	if err := v.Load(ctx); err != nil {
		return err
	}

	m := v.Monitor()
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", m.Name)
	fmt.Fprintf(w, "Type:\t%s\n", v.TypeLabel())
	fmt.Fprintf(w, "Target:\t%s\n", m.Target())
	fmt.Fprintf(w, "Status:\t%s\n", strings.ToUpper(string(m.DisplayStatus())))
	fmt.Fprintf(w, "Interval:\t%dm\n", m.Interval)
	if last := v.LastCheckText(); last != "" {
		fmt.Fprintf(w, "Last check:\t%s\n", last)
	}
	if since := v.DownSince(); since != "" {
		fmt.Fprintf(w, "Down since:\t%s\n", since)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if chart := v.Chart(); len(chart) > 0 {
		fmt.Fprintln(a.out, "\nResponse times:")
		w = tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		for _, p := range chart {
			fmt.Fprintf(w, "  %s\t%dms\n", p.Label, p.Milliseconds)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if checks := v.Checks(); len(checks) > 0 {
		fmt.Fprintln(a.out, "\nRecent checks:")
		w = tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		for _, c := range checks {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", c.CheckedAt, strings.ToUpper(string(c.Status)), c.ResponseTime, c.Output)
		}
		return w.Flush()
	}
	return nil
}

func (a *app) history(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	pages := fs.Int("pages", 1, "Number of pages to load")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *pages < 1 {
		return errors.New("-pages must be at least 1")
	}
	a.nav.Replace(router.RouteHistory)

	v := views.NewHistory(a.api, nil, a.log)
	if err := v.Load(ctx); err != nil {
		return err
	}
	for loaded := 1; loaded < *pages && v.HasMore(); loaded++ {
		if err := v.LoadMore(ctx); err != nil {
			return err
		}
	}

	rows := v.Rows()
	if len(rows) == 0 {
		fmt.Fprintln(a.out, "No anomalies")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMONITOR\tSTARTED\tDURATION")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.MonitorName, r.StartedAgo, r.Duration)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if v.HasMore() {
		fmt.Fprintf(a.out, "\nMore anomalies available, use -pages %d\n", *pages+1)
	}
	return nil
}

func (a *app) anomaly(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: uppi anomaly <id>")
	}
	a.nav.Replace(router.AnomalyRoute(args[0]))

	v := views.NewAnomalyDetail(args[0], a.api, a.log)
	if err := v.Load(ctx); err != nil {
		return err
	}

	an := v.Anomaly()
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	if an.Monitor != nil {
		fmt.Fprintf(w, "Monitor:\t%s (%s)\n", an.Monitor.Name, an.Monitor.Target())
	}
	fmt.Fprintf(w, "Status:\t%s\n", v.StatusLabel())
	fmt.Fprintf(w, "Started:\t%s\n", v.StartedText())
	fmt.Fprintf(w, "Ended:\t%s\n", v.EndedText())
	fmt.Fprintf(w, "Duration:\t%s\n", v.DurationText())
	if err := w.Flush(); err != nil {
		return err
	}

	triggers := v.Triggers()
	if len(triggers) == 0 {
		return nil
	}
	fmt.Fprintln(a.out, "\nNotifications:")
	w = tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, t := range triggers {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", t.TriggeredAt, strings.ToUpper(string(t.Type)), strings.Join(t.Channels, ", "), t.AlertName)
	}
	return w.Flush()
}

func (a *app) push(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("push", flag.ContinueOnError)
	token := fs.String("token", "", "Push token of this device, required to turn notifications on")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 || (fs.Arg(0) != "on" && fs.Arg(0) != "off") {
		return errors.New("usage: uppi push [-token t] on|off")
	}

	v := views.NewProfile(a.api, a.pushManager(*token), a.authFlow, a.log)
	err := v.TogglePush(ctx, fs.Arg(0) == "on")
	fmt.Fprintf(a.out, "Push notifications are %s\n", onOff(v.PushEnabled()))
	return err
}

// pushManager builds the push preference manager. The command line has no
// permission prompt, so permission counts as granted.
func (a *app) pushManager(token string) *push.Manager {
	return push.NewManager(
		a.store,
		a.api,
		push.StaticPermissions(true),
		push.StaticToken(token),
		&printNotifier{out: a.out},
		string(a.cfg.API.Platform),
		a.log,
	)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
