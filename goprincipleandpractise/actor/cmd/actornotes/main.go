// actornotes 运行计数器对照实验，或列出journal里的笔记。
//
//	actornotes run   [-f etc/actornotes.yaml] [-kinds unsafe,actor] [-workers 100 -per 1000] [-repeat 3] [-spawner pool] [-yield] [-json -]
//	actornotes notes [-f etc/actornotes.yaml] [-dir notes] [-tag actor] [-from 2024-03-01] [-to 2024-03-31] [-tags]
//	actornotes traps
//
// run的退出码：串行化计数器出现不匹配时为1（说明实现有bug），unsafe计数器丢失更新是预期结果，不影响退出码。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/gops/agent"
	"github.com/zeromicro/go-zero/core/logx"

	"actor-notes/goprincipleandpractise/actor/config"
	"actor-notes/goprincipleandpractise/actor/journal"
	"actor-notes/goprincipleandpractise/actor/report"
	"actor-notes/goprincipleandpractise/actor/scenario"
	"actor-notes/goprincipleandpractise/actor/trap"
)

const (
	exitOK       = 0
	exitMismatch = 1
	exitUsage    = 2
	exitFailure  = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return exitUsage
	}

	switch args[0] {
	case "run":
		return runScenarios(ctx, args[1:], stdout, stderr)
	case "notes":
		return listNotes(ctx, args[1:], stdout, stderr)
	case "traps":
		trap.RunAllTraps()
		return exitOK
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		usage(stderr)
		return exitUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: actornotes <run|notes|traps> [flags]")
	fmt.Fprintln(w, "  run    run counter scenarios and compare expected vs actual totals")
	fmt.Fprintln(w, "  notes  list journal notes")
	fmt.Fprintln(w, "  traps  print the lost-update, copied-mutex and stopped-actor demos")
}

type runFlags struct {
	configFile string
	kinds      string
	workers    int
	perWorker  int
	repeat     int
	spawner    string
	yield      bool
	json       string
}

func runScenarios(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var f runFlags
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.configFile, "f", "", "config file")
	fs.StringVar(&f.kinds, "kinds", "", "comma separated counter kinds")
	fs.IntVar(&f.workers, "workers", 1, "concurrent units, replaces configured scenarios")
	fs.IntVar(&f.perWorker, "per", 1, "increments per unit, replaces configured scenarios")
	fs.IntVar(&f.repeat, "repeat", 1, "runs per scenario and kind")
	fs.StringVar(&f.spawner, "spawner", "", "goroutine, pool or routinegroup")
	fs.BoolVar(&f.yield, "yield", false, "yield between read and write in the unsafe counter")
	fs.StringVar(&f.json, "json", "", "also write JSON lines to this file, - for stdout")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	c, err := config.Load(f.configFile)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	applyRunFlags(&c, fs, f)
	if err := c.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	plan, _ := c.Plan()

	if err := logx.SetUp(c.Log); err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if c.Gops.Enabled {
		if err := agent.Listen(agent.Options{Addr: c.Gops.Addr}); err != nil {
			logx.Errorf("start gops agent: %v", err)
		} else {
			defer agent.Close()
		}
	}

	sinks, err := report.Open(ctx, c.Sinks, stdout)
	if err != nil {
		logx.Errorf("open sinks: %v", err)
		return exitFailure
	}
	defer func() {
		if err := sinks.Close(); err != nil {
			logx.Errorf("close sinks: %v", err)
		}
	}()

	logx.Infow("running plan",
		logx.Field("scenarios", len(plan.Scenarios)),
		logx.Field("kinds", c.Kinds),
		logx.Field("repeat", c.Repeat),
		logx.Field("spawner", c.Spawner))

	d := scenario.NewDriver(c.DriverOptions()...)
	sum, err := d.RunPlan(ctx, plan, func(r scenario.Result) error {
		if err := sinks.Write(ctx, r); err != nil {
			logx.WithContext(ctx).Errorf("write result: %v", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logx.Info("interrupted")
		} else {
			logx.Errorf("run plan: %v", err)
		}
		return exitFailure
	}

	if console := sinks.Console(); console != nil {
		_ = console.WriteSummary(sum)
	}
	if !sum.Healthy() {
		return exitMismatch
	}
	return exitOK
}

// applyRunFlags 只覆盖命令行上显式给出的flag
func applyRunFlags(c *config.Config, fs *flag.FlagSet, f runFlags) {
	scenarioSet := false
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "kinds":
			c.Kinds = splitList(f.kinds)
		case "workers", "per":
			scenarioSet = true
		case "repeat":
			c.Repeat = f.repeat
		case "spawner":
			c.Spawner = f.spawner
		case "yield":
			c.Yield = f.yield
		case "json":
			c.Sinks.JSON = f.json
		}
	})
	if scenarioSet {
		c.Scenarios = []config.ScenarioConf{{Workers: f.workers, PerWorker: f.perWorker}}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func listNotes(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("notes", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("f", "", "config file")
	dir := fs.String("dir", "", "notes directory, overrides config")
	tag := fs.String("tag", "", "only notes with this tag")
	from := fs.String("from", "", "only notes on or after this date (YYYY-MM-DD)")
	to := fs.String("to", "", "only notes on or before this date (YYYY-MM-DD)")
	tags := fs.Bool("tags", false, "list tags instead of notes")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	c, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if *dir != "" {
		c.NotesDir = *dir
	}
	fromDate, err := parseDate(*from)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	toDate, err := parseDate(*to)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	ix, err := journal.NewStore().Index(ctx, c.NotesDir)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}

	if *tags {
		for _, tc := range ix.Tags() {
			fmt.Fprintf(stdout, "%-16s %d\n", tc.Tag, tc.Count)
		}
		return exitOK
	}

	notes := ix.Between(fromDate, toDate)
	if *tag != "" {
		notes = filterTag(notes, *tag)
	}
	for _, n := range notes {
		fmt.Fprintf(stdout, "%s  %-28s %s [%s]\n", n.Date.Format(time.DateOnly), n.Slug, n.Title, strings.Join(n.Tags, " "))
	}
	return exitOK
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q: %w", s, err)
	}
	return t, nil
}

func filterTag(notes []journal.Note, tag string) []journal.Note {
	tag = strings.ToLower(strings.TrimSpace(tag))
	var out []journal.Note
	for _, n := range notes {
		for _, t := range n.Tags {
			if t == tag {
				out = append(out, n)
				break
			}
		}
	}
	return out
}
