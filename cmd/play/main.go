// Command play runs a game in the terminal, or checks the engine against itself with -selfplay.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/logrusorgru/aurora"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/game"
	"github.com/rocketscienceinc/tictactoe-engine/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-engine/internal/selfplay"
)

const helpText = `commands:
  1-9     place your marker on that cell
  hint    show the engine's score for every empty cell
  reset   start over
  quit    leave`

func main() {
	mode := flag.String("mode", game.ModePvE, "pvp or pve")
	first := flag.String("x", "", "name of the X player")
	second := flag.String("o", "", "name of the O player")
	engineFirst := flag.Bool("engine-first", false, "let the engine play X under the -x name (pve only)")
	runSelfPlay := flag.Bool("selfplay", false, "play the engine against itself from every opening and exit")
	chartPath := flag.String("chart", "", "with -selfplay, write an HTML chart of the run to this file")
	noColor := flag.Bool("no-color", false, "plain board output")
	verbose := flag.Bool("v", false, "debug logging to stderr")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	if *runSelfPlay {
		err = selfPlay(ctx, logger, *chartPath)
	} else {
		err = play(logger, aurora.NewAurora(!*noColor), *mode, *first, *second, *engineFirst)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func selfPlay(ctx context.Context, logger *slog.Logger, chartPath string) error {
	report, err := selfplay.Run(ctx, logger, selfplay.Openings())
	if err != nil {
		return err
	}

	for _, result := range report.Results {
		opening := "engine"
		if result.Opening != selfplay.EngineOpening {
			opening = strconv.Itoa(result.Opening + 1)
		}

		fmt.Printf("opening %-6s %-7s %d moves  %s  %s\n",
			opening, result.Status, result.Moves, result.Board, result.Elapsed)
	}

	fmt.Printf("draws: %d, wins: %d\n", report.Draws, report.Wins)

	if chartPath != "" {
		if err = writeChart(chartPath, report); err != nil {
			return err
		}
		fmt.Println("chart written to", chartPath)
	}

	if !report.AllDrawn() {
		return errors.New("engine lost a game against itself")
	}

	return nil
}

func writeChart(path string, report *selfplay.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	return selfplay.RenderChart(f, report)
}

func filterInput(r rune) (rune, bool) {
	// block CtrlZ
	if r == readline.CharCtrlZ {
		return r, false
	}
	return r, true
}

// terminalPlayers - names stay with their markers; -engine-first only hands X to the engine.
func terminalPlayers(first, second, mode string, engineFirst bool) ([2]entity.Player, error) {
	players, err := game.NewPlayers(first, second, mode)
	if err != nil {
		return [2]entity.Player{}, err
	}

	if engineFirst && mode == game.ModePvE {
		players[0].Automated, players[1].Automated = true, false
	}

	return players, nil
}

func play(logger *slog.Logger, au aurora.Aurora, mode, first, second string, engineFirst bool) error {
	players, err := terminalPlayers(first, second, mode, engineFirst)
	if err != nil {
		return err
	}

	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mtictactoe>\033[0m ",
		HistoryFile:     "/tmp/tictactoe-readline.tmp",
		EOFPrompt:       "quit",
		InterruptPrompt: "^C",

		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return fmt.Errorf("failed to start terminal: %w", err)
	}
	defer l.Close()

	out := l.Stdout()

	session, err := game.NewSession(players,
		game.WithLogger(logger),
		game.WithListener(terminal{out: out, au: au}),
		game.WithAutoPlay(true),
	)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, helpText)

	if err = session.Start(); err != nil {
		return err
	}

	for {
		line, err := l.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		}

		line = strings.TrimSpace(line)

		switch {
		case line == "":
		case line == "quit" || line == "exit":
			return nil
		case line == "help":
			fmt.Fprintln(out, helpText)
		case line == "reset":
			if err = session.Reset(); err != nil {
				fmt.Fprintln(out, err)
			}
		case line == "hint":
			state := session.State()
			if state.Status.IsTerminal() {
				fmt.Fprintln(out, state.Message())
				continue
			}
			fmt.Fprintln(out, renderAnalysis(minimax.Analyze(state.Board, state.Active().Marker)))
		default:
			key, convErr := strconv.Atoi(line)
			if convErr != nil {
				fmt.Fprintln(out, "unknown command, try help")
				continue
			}

			err = session.RequestMove(key - 1)
			switch {
			case errors.Is(err, apperror.ErrInvalidMove):
				fmt.Fprintln(out, "that cell is taken or off the board")
			case errors.Is(err, apperror.ErrIllegalTransition):
				fmt.Fprintln(out, session.State().Message())
			}
		}
	}
}
