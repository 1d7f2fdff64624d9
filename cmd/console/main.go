package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/riskibarqy/fc24pred/internal/app"
	"github.com/riskibarqy/fc24pred/internal/config"
	"github.com/riskibarqy/fc24pred/internal/domain/team"
	"github.com/riskibarqy/fc24pred/internal/platform/logging"
)

func main() {
	jsonOutput := flag.Bool("json", false, "print results as JSON")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewConsole(os.Stderr, cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	services, err := app.NewServices(cfg, logger)
	if err != nil {
		logger.Error("build services", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := services.Close(); err != nil {
			logger.Error("close match store", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	con := newConsole(services.Matches, services.Predictions, *jsonOutput)

	// Non-interactive: each argument group after flags is run as one command.
	if args := flag.Args(); len(args) > 0 {
		if err := con.exec(ctx, os.Stdout, strings.Join(args, " ")); err != nil && !errors.Is(err, errExit) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := runPrompt(ctx, con); err != nil {
		logger.Error("console failed", "error", err)
		os.Exit(1)
	}
}

func runPrompt(ctx context.Context, con *console) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "fc24> ",
		HistoryFile:       historyFile(),
		AutoComplete:      completer(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(rl.Stdout(), `FC24 match predictor. Type "help" for commands.`)
	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		err = con.exec(ctx, rl.Stdout(), line)
		if errors.Is(err, errExit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(rl.Stderr(), "error: %v\n", err)
		}
	}
}

func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "fc24pred")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return filepath.Join(dir, "console_history")
}

func completer() *readline.PrefixCompleter {
	teams := func(string) []string {
		out := make([]string, 0, len(team.Roster()))
		for _, item := range team.Roster() {
			out = append(out, item.Name)
		}
		return out
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("add", readline.PcItemDynamic(teams)),
		readline.PcItem("predict", readline.PcItemDynamic(teams)),
		readline.PcItem("recent", readline.PcItemDynamic(teams)),
		readline.PcItem("teams"),
		readline.PcItem("history"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}
