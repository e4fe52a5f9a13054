// Command play runs a match against the bot in the terminal.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/iamasit07/tic-tac-toe/backend/internal/config"
	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
	"github.com/iamasit07/tic-tac-toe/backend/internal/repository/sqlite"
	"github.com/iamasit07/tic-tac-toe/backend/internal/service/game"
	"github.com/iamasit07/tic-tac-toe/backend/internal/service/stats"
	"go.uber.org/zap"
)

func main() {
	var (
		tierFile = flag.String("tiers", "", "optional tier table overlay (yaml/json)")
		dbPath   = flag.String("db", "", "sqlite file for local stats; empty keeps them in memory")
		seed     = flag.Uint64("seed", 0, "random seed; 0 picks one")
		verbose  = flag.Bool("v", false, "log match events to stderr")
	)
	flag.Parse()

	logger := zap.NewNop().Sugar()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		logger = l.Sugar()
	}

	tiers, err := config.LoadTiers(*tierFile, domain.DefaultTiers())
	if err != nil {
		fmt.Fprintln(os.Stderr, "tiers:", err)
		os.Exit(1)
	}

	opts := game.Options{Tiers: tiers, Logger: logger}
	if *seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(*seed, *seed))
	}
	if *dbPath != "" {
		guests, err := sqlite.Open(context.Background(), *dbPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "stats db:", err)
			os.Exit(1)
		}
		defer guests.Close()
		binding := stats.NewService(nil, nil, guests, nil, logger).For(stats.Identity{GuestID: "local"})
		opts.Stats, opts.History = binding.Stats, binding.History
	}

	if err := run(os.Stdin, os.Stdout, opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run reads commands from in until EOF or "quit".
func run(in io.Reader, out io.Writer, opts game.Options) error {
	opts.Observer = func(s domain.Snapshot) { render(out, s) }
	match := game.NewMatch(opts)
	defer match.Close()

	fmt.Fprintf(out, "tiers: %s\n", tierList(opts.Tiers))
	fmt.Fprintln(out, "commands: start <tier> | 1-9 to play | menu | quit")

	ctx := context.Background()
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		var err error
		switch cmd := fields[0]; {
		case cmd == "quit" || cmd == "q":
			return nil
		case cmd == "menu":
			match.Abandon()
		case cmd == "start":
			level := 1
			if len(fields) > 1 {
				if level, err = strconv.Atoi(fields[1]); err != nil {
					fmt.Fprintln(out, "tier must be a number")
					continue
				}
			}
			_, err = match.Start(ctx, level)
		default:
			cell, convErr := strconv.Atoi(cmd)
			if convErr != nil {
				fmt.Fprintln(out, "unknown command")
				continue
			}
			_, err = match.PlayerMove(ctx, cell-1)
		}
		if err != nil {
			fmt.Fprintln(out, "error:", err)
		}
	}
}

func tierList(t domain.TierTable) string {
	var parts []string
	for _, level := range t.Levels() {
		parts = append(parts, fmt.Sprintf("%d=%s", level, t[level].Name))
	}
	return strings.Join(parts, " ")
}

var marks = map[domain.Cell]string{domain.Player: "X", domain.Bot: "O"}

func render(out io.Writer, s domain.Snapshot) {
	if s.Phase == domain.PhaseIdle {
		fmt.Fprintln(out, "back at the menu")
		return
	}
	if s.LastMove != domain.NoCell {
		note := ""
		if s.Forced {
			note = " (time ran out)"
		}
		if s.Evicted != domain.NoCell {
			note += fmt.Sprintf(", cell %d faded", s.Evicted+1)
		}
		fmt.Fprintf(out, "%s played %d%s\n", s.LastMoveBy, s.LastMove+1, note)
	}

	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			i := row*3 + col
			if m, ok := marks[s.Board[i]]; ok {
				cells[col] = m
			} else {
				cells[col] = strconv.Itoa(i + 1)
			}
		}
		fmt.Fprintf(out, " %s\n", strings.Join(cells, " | "))
		if row < 2 {
			fmt.Fprintln(out, "---+---+---")
		}
	}

	switch s.Phase {
	case domain.PhaseTerminal:
		fmt.Fprintf(out, "%s: %s, score %+d (total %d)\n", s.TierName, s.Result, s.ScoreDelta, s.Stats.TotalScore)
	default:
		status := fmt.Sprintf("%s turn %d, %s to move", s.TierName, s.TurnNumber, s.Turn)
		if s.SlidingWindow && s.NextEviction != domain.NoCell {
			status += fmt.Sprintf(", next to fade %d", s.NextEviction+1)
		}
		if s.TimerActive {
			status += fmt.Sprintf(", %.1fs left", float64(s.TimeRemainingMs)/1000)
		}
		fmt.Fprintln(out, status)
	}
}
