// QuestScript is a data-driven quest script interpreter.
// Usage: questscript [--version] [--plain] [--flags <file>] [--redis <addr>] [--player <file>] <scripts_dir> <script_id>
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/nathoo/questscript/cli"
	"github.com/nathoo/questscript/engine"
	"github.com/nathoo/questscript/flags"
	"github.com/nathoo/questscript/host"
	"github.com/nathoo/questscript/loader"
	"github.com/nathoo/questscript/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	plain := false
	var scriptsDir, scriptID, flagFile, redisAddr, playerFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("questscript %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--flags":
			if i+1 >= len(args) {
				fatal("--flags requires a file path")
			}
			i++
			flagFile = args[i]
		case "--redis":
			if i+1 >= len(args) {
				fatal("--redis requires an address")
			}
			i++
			redisAddr = args[i]
		case "--player":
			if i+1 >= len(args) {
				fatal("--player requires a file path")
			}
			i++
			playerFile = args[i]
		default:
			if scriptsDir == "" {
				scriptsDir = args[i]
			} else if scriptID == "" {
				scriptID = args[i]
			}
		}
	}

	if scriptsDir == "" || scriptID == "" {
		fatal("Usage: questscript [--version] [--plain] [--flags <file>] [--redis <addr>] [--player <file>] <scripts_dir> <script_id>")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	store, err := openFlagStore(flagFile, redisAddr, logger)
	if err != nil {
		fatal("Error opening flag store: %v", err)
	}

	player := &host.Player{Companion: "elf_male", Race: "human"}
	if playerFile != "" {
		player, err = host.LoadPlayer(playerFile)
		if err != nil {
			fatal("Error loading player record: %v", err)
		}
	}

	scripts := loader.NewDir(scriptsDir)

	if plain || !isTerminal() {
		c := cli.New(player, os.Stdin, os.Stdout, logger)
		runner, err := engine.New(engine.Config{
			Loader:    scripts,
			Flags:     store,
			Presenter: c,
			Inventory: c.Inventory,
			World:     c,
			Battle:    c,
			Player:    player,
			Logger:    logger,
		})
		if err != nil {
			fatal("Error: %v", err)
		}
		c.Bind(runner)
		if err := c.Run(scriptID); err != nil {
			fatal("Error: %v", err)
		}
		return
	}

	h := tui.NewHost(player)
	runner, err := engine.New(engine.Config{
		Loader:    scripts,
		Flags:     store,
		Presenter: h,
		Inventory: h.Inventory,
		World:     h,
		Battle:    h,
		Player:    player,
		Logger:    logger,
	})
	if err != nil {
		fatal("Error: %v", err)
	}
	if err := tui.Run(runner, h, scriptID); err != nil {
		fatal("Error: %v", err)
	}
}

// openFlagStore picks the flag backend: Redis when an address is given,
// otherwise a JSON file (defaulting under the user's home directory).
func openFlagStore(flagFile, redisAddr string, logger *slog.Logger) (flags.Store, error) {
	if redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		return flags.NewRedis(client, logger), nil
	}
	if flagFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		flagFile = filepath.Join(home, ".questscript", "flags.json")
	}
	return flags.NewFile(flagFile)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
