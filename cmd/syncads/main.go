// Command syncads drives the campaign store from the terminal. Each
// invocation rehydrates the store from the local slot, runs one command and
// persists the result.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/and161185/syncads/internal/config"
	"github.com/and161185/syncads/internal/logger"
	"github.com/and161185/syncads/internal/persist"
	"github.com/and161185/syncads/internal/repository"
	"github.com/and161185/syncads/internal/repository/file"
	"github.com/and161185/syncads/internal/repository/memory"
	"github.com/and161185/syncads/internal/repository/sqlite"
	"github.com/and161185/syncads/internal/service"
	"github.com/and161185/syncads/internal/state"
	"github.com/and161185/syncads/internal/validate"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// errUsage makes run print the usage text and exit with code 2.
var errUsage = errors.New("usage")

// ---- wiring ----

type app struct {
	cfg    config.Config
	log    *zap.Logger
	slot   repository.SlotRepository
	store  *state.Store
	format string
	stdout io.Writer
	stderr io.Writer

	session      service.SessionService
	campaigns    service.CampaignService
	integrations service.IntegrationService
	chat         service.ChatService
	settings     service.SettingsService
}

// openSlot returns nil when the backend cannot be opened; the store then
// runs memory-only.
func openSlot(ctx context.Context, cfg config.Config, log *zap.Logger) repository.SlotRepository {
	switch cfg.Storage.Backend {
	case "memory":
		return memory.NewSlotRepo()
	case "sqlite":
		path := cfg.StoragePath()
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			log.Warn("sqlite dir", zap.String("path", path), zap.Error(err))
			return nil
		}
		db, err := sqlite.Open(ctx, "file:"+path)
		if err != nil {
			log.Warn("sqlite open", zap.String("path", path), zap.Error(err))
			return nil
		}
		return sqlite.NewSlotRepo(db)
	default:
		return file.NewSlotRepo(cfg.StoragePath())
	}
}

func newApp(ctx context.Context, cfg config.Config, log *zap.Logger, stdout, stderr io.Writer) *app {
	a := &app{cfg: cfg, log: log, stdout: stdout, stderr: stderr, format: "json"}
	a.slot = openSlot(ctx, cfg, log)
	a.store = state.New(ctx, state.Options{
		Slot:   a.slot,
		Key:    cfg.Storage.Key,
		Scope:  persist.ParseScope(cfg.Storage.Scope),
		Logger: log,
	})
	d := service.Delays{
		Save:      cfg.Delays.Save,
		Edit:      cfg.Delays.Edit,
		TypingMin: cfg.Delays.TypingMin,
		TypingMax: cfg.Delays.TypingMax,
	}
	a.session = service.NewSessionService(a.store, log)
	a.campaigns = service.NewCampaignService(a.store, d, log)
	a.integrations = service.NewIntegrationService(a.store, log)
	a.chat = service.NewChatService(a.store, nil, d, log)
	a.settings = service.NewSettingsService(a.store, d, log)
	return a
}

func (a *app) Close() {
	if a.slot != nil {
		_ = a.slot.Close()
	}
	_ = a.log.Sync()
}

// ---- output ----

func (a *app) emit(v any) error {
	if a.format == "yaml" {
		return printYAML(a.stdout, v)
	}
	return printJSON(a.stdout, v)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printYAML goes through JSON so field names match the json tags and keep
// their declaration order.
func printYAML(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return err
	}
	blockStyle(&doc)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func printErr(w io.Writer, err error) {
	var fe validate.FieldErrors
	if errors.As(err, &fe) {
		keys := make([]string, 0, len(fe))
		for k := range fe {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "invalid %s: %s\n", k, fe[k])
		}
		return
	}
	fmt.Fprintln(w, "error:", err)
}

func usage(w io.Writer) {
	fmt.Fprint(w, `syncads CLI
Usage:
  syncads [-backend file|sqlite|memory] [-path P] [-scope session|full] [-format json|yaml] [-v] <cmd> [args]

Commands:
  version
  login        -name <name> -email <email>
  logout
  whoami
  campaigns    [-status S] [-platform P] [-q text] [-sort key] [-reverse] [-pages N]
  active       [-limit N]
  recent       [-n N]
  summary
  new          -name N -platform P -daily X -total Y -from YYYY-MM-DD -to YYYY-MM-DD
               [-objective O] [-country C] [-age A] [-interest tag ...]
  edit         -id <id> [-name N] -budget <total>
  toggle       -id <id>
  rm           -id <id>
  integrations
  connect      -id <integration> -key <api key>
  disconnect   -id <integration>
  keys | keys-new | keys-rm -id <id>
  chat         [-id <conversation>]
  chat-new     [-title T]
  chat-rm      -id <conversation>
  say          [-id <conversation>] -text <message>
  prompt       [-set <text>]
  ai | ai-add -name N -key K [-url U] | ai-edit -id I -name N [-key K] [-url U] | ai-rm -id I
  2fa          -on | -off
  notify       [-field F -value true|false]
  show
  reset
`)
}

// ---- main ----

// run parses global flags, wires the app and dispatches one command.
// It returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	gfs := flag.NewFlagSet("syncads", flag.ContinueOnError)
	gfs.SetOutput(stderr)
	gfs.Usage = func() { usage(stderr) }
	backend := gfs.String("backend", "", "storage backend (overrides SYNCADS_STORAGE_BACKEND)")
	path := gfs.String("path", "", "storage path (overrides SYNCADS_STORAGE_PATH)")
	scope := gfs.String("scope", "", "persisted scope: session|full")
	format := gfs.String("format", "json", "output format: json|yaml")
	verbose := gfs.Bool("v", false, "debug logging")
	if err := gfs.Parse(args); err != nil {
		return 2
	}
	if gfs.NArg() < 1 {
		usage(stderr)
		return 2
	}
	if *format != "json" && *format != "yaml" {
		fmt.Fprintf(stderr, "unknown format %q\n", *format)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		printErr(stderr, err)
		return 1
	}
	if *backend != "" {
		cfg.Storage.Backend = *backend
	}
	if *path != "" {
		cfg.Storage.Path = *path
	}
	if *scope != "" {
		cfg.Storage.Scope = *scope
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		printErr(stderr, err)
		return 2
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		printErr(stderr, err)
		return 1
	}

	cmd, rest := gfs.Arg(0), gfs.Args()[1:]
	if cmd == "version" {
		fmt.Fprintf(stdout, "syncads %s (%s)\n", version, buildDate)
		return 0
	}
	h, ok := commands[cmd]
	if !ok {
		usage(stderr)
		return 2
	}

	a := newApp(ctx, cfg, log, stdout, stderr)
	defer a.Close()
	a.format = *format

	if err := h(ctx, a, rest); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			return 2
		}
		printErr(stderr, err)
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
