package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/hubworks/sitepilot/internal/aptransform"
	"github.com/hubworks/sitepilot/internal/bridge"
	"github.com/hubworks/sitepilot/internal/command"
	"github.com/hubworks/sitepilot/internal/engine"
	"github.com/hubworks/sitepilot/internal/events"
	"github.com/hubworks/sitepilot/internal/jql"
	"github.com/hubworks/sitepilot/internal/model"
	"github.com/hubworks/sitepilot/internal/registry"
	"github.com/hubworks/sitepilot/internal/settings"
	"github.com/hubworks/sitepilot/internal/table"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		runInit(os.Args[2:])
	case "detect":
		runDetect(os.Args[2:])
	case "workflows":
		runWorkflows(os.Args[2:])
	case "rules":
		runRules(os.Args[2:])
	case "run":
		runRun(os.Args[2:])
	case "jql":
		runJQL(os.Args[2:])
	case "transform":
		runTransform(os.Args[2:])
	case "history":
		runHistory(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	case "version":
		fmt.Printf("sitepilot %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runInit(args []string) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	runtimeDir := filepath.Join(dir, ".sitepilot")
	if err := os.MkdirAll(runtimeDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}
	store, err := settings.Open(filepath.Join(runtimeDir, "settings.yaml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}
	if err := store.UpdateSettings(store.Settings()); err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}
	absDir, _ := filepath.Abs(runtimeDir)
	fmt.Printf("Initialized %s\n", absDir)
}

func runDetect(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: sitepilot detect <url>")
		os.Exit(1)
	}
	fmt.Println(string(model.DetectSite(args[0])))
}

func runWorkflows(args []string) {
	site, jsonOutput := parseSiteArgs(args, "workflows")

	workflows := registry.WorkflowsForSite(site)
	if jsonOutput {
		out, _ := json.MarshalIndent(workflows, "", "  ")
		fmt.Println(string(out))
		return
	}
	for _, wf := range workflows {
		fmt.Printf("%-32s %s\n", wf.ID, wf.Label)
	}
}

func runRules(args []string) {
	site, jsonOutput := parseSiteArgs(args, "rules")

	eng, err := registry.NewRuleEngine(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rules: %v\n", err)
		os.Exit(1)
	}
	rules := eng.EnabledForSite(site)
	if jsonOutput {
		out, _ := json.MarshalIndent(rules, "", "  ")
		fmt.Println(string(out))
		return
	}
	for _, r := range rules {
		trigger := string(r.Trigger.Kind)
		fmt.Printf("%-32s p%-4d %-18s %s\n", r.ID, r.Priority, trigger, r.Label)
	}
}

func parseSiteArgs(args []string, cmd string) (model.Site, bool) {
	var siteToken, url string
	jsonOutput := false
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--site":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--site requires a value")
				os.Exit(1)
			}
			i++
			siteToken = args[i]
		case "--url":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--url requires a value")
				os.Exit(1)
			}
			i++
			url = args[i]
		case "--json":
			jsonOutput = true
		default:
			fmt.Fprintf(os.Stderr, "unknown flag: %s\nusage: sitepilot %s [--site <a|b|c>] [--url <url>] [--json]\n", args[i], cmd)
			os.Exit(1)
		}
	}

	if url != "" {
		site := model.DetectSite(url)
		if !site.IsSupported() {
			fmt.Fprintf(os.Stderr, "%s: unsupported url: %s\n", cmd, url)
			os.Exit(1)
		}
		return site, jsonOutput
	}
	site, err := model.ParseSiteToken(siteToken)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\nusage: sitepilot %s [--site <a|b|c>] [--url <url>] [--json]\n", cmd, err, cmd)
		os.Exit(1)
	}
	return site, jsonOutput
}

func runRun(args []string) {
	var siteToken, workflowID, socketPath string
	jsonOutput := false
	runContext := map[string]any{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--site":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--site requires a value")
				os.Exit(1)
			}
			i++
			siteToken = args[i]
		case "--workflow":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--workflow requires a value")
				os.Exit(1)
			}
			i++
			workflowID = args[i]
		case "--socket":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--socket requires a value")
				os.Exit(1)
			}
			i++
			socketPath = args[i]
		case "--context":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--context requires key=value")
				os.Exit(1)
			}
			i++
			key, value, ok := strings.Cut(args[i], "=")
			if !ok {
				fmt.Fprintf(os.Stderr, "invalid --context value: %s\n", args[i])
				os.Exit(1)
			}
			runContext[key] = value
		case "--json":
			jsonOutput = true
		default:
			fmt.Fprintf(os.Stderr, "unknown flag: %s\nusage: sitepilot run --site <a|b|c> --workflow <id> [--context k=v]... [--socket <path>] [--json]\n", args[i])
			os.Exit(1)
		}
	}

	site, err := model.ParseSiteToken(siteToken)
	if err != nil || workflowID == "" {
		fmt.Fprintln(os.Stderr, "usage: sitepilot run --site <a|b|c> --workflow <id> [--context k=v]... [--socket <path>] [--json]")
		os.Exit(1)
	}

	var report *model.RunReport
	if socketPath != "" {
		client := bridge.NewClient(socketPath)
		report, err = client.RunWorkflow(site, workflowID, runContext)
		if err != nil {
			fmt.Fprintf(os.Stderr, "run: %v\n", err)
			os.Exit(1)
		}
	} else {
		// No driver on the CLI side, so a local run is a dry run.
		eng := engine.New(os.Stderr, "warn")
		report = eng.Run(context.Background(), site, workflowID, engine.NewNoop(), runContext)
	}

	if jsonOutput {
		out, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(out))
	} else {
		fmt.Printf("workflow %s status=%s steps=%d artifacts=%d\n",
			report.WorkflowID, report.Status, len(report.Steps), len(report.Artifacts))
		if report.Error != nil {
			fmt.Printf("error [%s]: %s\n", report.Error.Code, report.Error.Message)
		}
	}
	if report.Status == model.StatusFailed {
		os.Exit(1)
	}
}

func runJQL(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: sitepilot jql <build|operators> [options]")
		os.Exit(1)
	}
	switch args[0] {
	case "build":
		runJQLBuild(args[1:])
	case "operators":
		for _, key := range jql.OperatorKeys() {
			fmt.Println(key)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown jql subcommand: %s\n", args[0])
		fmt.Fprintln(os.Stderr, "usage: sitepilot jql <build|operators> [options]")
		os.Exit(1)
	}
}

func runJQLBuild(args []string) {
	stateFile := "-"
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--state-file":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--state-file requires a value")
				os.Exit(1)
			}
			i++
			stateFile = args[i]
		default:
			fmt.Fprintf(os.Stderr, "unknown flag: %s\nusage: sitepilot jql build [--state-file <path>]\n", args[i])
			os.Exit(1)
		}
	}

	var data []byte
	var err error
	if stateFile == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(stateFile)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "jql build: %v\n", err)
		os.Exit(1)
	}

	var state jql.State
	if err := json.Unmarshal(data, &state); err != nil {
		fmt.Fprintf(os.Stderr, "jql build: parse state: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(jql.Build(&state))
}

func runTransform(args []string) {
	inputFile := "-"
	today := ""
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--input":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--input requires a value")
				os.Exit(1)
			}
			i++
			inputFile = args[i]
		case "--today":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--today requires a value (MMDDYYYY)")
				os.Exit(1)
			}
			i++
			today = args[i]
		default:
			fmt.Fprintf(os.Stderr, "unknown flag: %s\nusage: sitepilot transform [--input <path>] [--today MMDDYYYY]\n", args[i])
			os.Exit(1)
		}
	}
	if today == "" {
		fmt.Fprintln(os.Stderr, "--today is required (MMDDYYYY)")
		os.Exit(1)
	}

	var data []byte
	var err error
	if inputFile == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(inputFile)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "transform: %v\n", err)
		os.Exit(1)
	}

	var raw []map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		fmt.Fprintf(os.Stderr, "transform: parse rows: %v\n", err)
		os.Exit(1)
	}

	rows := make([]model.TableRow, 0, len(raw))
	for _, obj := range raw {
		headers := make([]string, 0, len(obj))
		for h := range obj {
			headers = append(headers, h)
		}
		sort.Strings(headers)
		row := model.NewTableRow()
		for _, h := range headers {
			row.Set(h, obj[h])
		}
		rows = append(rows, row)
	}

	columns, outRows := aptransform.Transform(rows, today)
	fmt.Print(table.NewDataset(columns, outRows).CSV(true, nil))
}

func runHistory(args []string) {
	dir := ".sitepilot"
	jsonOutput := false
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--dir":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--dir requires a value")
				os.Exit(1)
			}
			i++
			dir = args[i]
		case "--json":
			jsonOutput = true
		default:
			fmt.Fprintf(os.Stderr, "unknown flag: %s\nusage: sitepilot history [--dir <path>] [--json]\n", args[i])
			os.Exit(1)
		}
	}

	log, err := events.NewHistoryLog(filepath.Join(dir, "history.jsonl"), 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "history: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	entries, err := log.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "history: %v\n", err)
		os.Exit(1)
	}
	if jsonOutput {
		out, _ := json.MarshalIndent(entries, "", "  ")
		fmt.Println(string(out))
		return
	}
	for _, e := range entries {
		fmt.Printf("%s %-10s %-32s %-8s steps=%d artifacts=%d %dms\n",
			e.Timestamp.Format("2006-01-02T15:04:05Z"), e.Site, e.WorkflowID, e.Status, e.Steps, e.Artifacts, e.DurationMs)
	}
}

func runServe(args []string) {
	dir := ".sitepilot"
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--dir":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--dir requires a value")
				os.Exit(1)
			}
			i++
			dir = args[i]
		default:
			fmt.Fprintf(os.Stderr, "unknown flag: %s\nusage: sitepilot serve [--dir <path>]\n", args[i])
			os.Exit(1)
		}
	}

	if err := serve(dir); err != nil {
		fmt.Fprintf(os.Stderr, "serve: %v\n", err)
		os.Exit(1)
	}
}

func serve(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	flock := bridge.NewFileLock(filepath.Join(dir, "bridge.lock"))
	if err := flock.TryLock(); err != nil {
		return err
	}
	defer flock.Unlock()

	store, err := settings.Open(filepath.Join(dir, "settings.yaml"))
	if err != nil {
		return err
	}

	bus := events.NewBus(0)
	defer bus.Close()

	history, err := events.NewHistoryLog(filepath.Join(dir, "history.jsonl"), 0)
	if err != nil {
		return err
	}
	defer history.Close()
	if err := history.Prune(store.Settings().LogRetentionDays); err != nil {
		fmt.Fprintf(os.Stderr, "history prune: %v\n", err)
	}

	eng := engine.New(os.Stderr, string(store.Settings().LogLevel))
	eng.SetEventBus(bus)

	logger := log.New(os.Stderr, "sitepilot ", log.LstdFlags)
	watcher, err := settings.NewWatcher(store, bus, logger)
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Edits to the settings file take effect without a restart: the
	// watcher reloads the store, and these subscribers re-apply the
	// knobs that were fixed at startup.
	bus.Subscribe(events.EventSettingsReloaded, func(events.Event) {
		eng.SetLogLevel(string(store.Settings().LogLevel))
		if err := history.Prune(store.Settings().LogRetentionDays); err != nil {
			logger.Printf("history prune: %v", err)
		}
	})
	bus.Subscribe(events.EventRunCompleted, func(e events.Event) {
		logger.Printf("run completed workflow=%v status=%v", e.Data["workflow_id"], e.Data["status"])
	})

	// Socket runs go through the command registry with the dry-run
	// driver: command dispatch is exercised, page interactions fail
	// with stable codes until a real driver replaces the factory.
	commands := command.NewRegistry()
	server := bridge.NewServer(filepath.Join(dir, bridge.DefaultSocketName), eng, history, logger)
	server.SetExecutorFactory(func(site model.Site, workflowID string) engine.Executor {
		return bridge.NewCommandExecutor(command.NoopDriver{}, commands, site, workflowID)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Serve(ctx)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `sitepilot %s, per-site browser automation runtime

Usage: sitepilot <command> [options]

Runtime:
  init [dir]             Initialize the .sitepilot/ runtime directory
  serve [--dir <path>]   Run the host bridge on a unix socket
  history [--json]       Show recorded workflow runs

Registry:
  detect <url>                     Detect the site for a URL
  workflows --site <a|b|c>         List workflows for a site
  rules --site <a|b|c>             List enabled rules for a site

Execution:
  run --site <a|b|c> --workflow <id> [--context k=v]... [--socket <path>]

Tools:
  jql build [--state-file <path>]  Build a JQL query from builder state
  jql operators                    List the operator catalog
  transform --today MMDDYYYY       Run the AP transform over JSON rows
  version                          Show version
  help                             Show this help

`, version)
}
