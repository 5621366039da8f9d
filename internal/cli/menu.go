package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"cogbench/internal/models"
	"cogbench/internal/terminal"
)

// runMenu is the interactive loop shown when cogbench starts without a
// command. It keeps running tests until the user quits.
func runMenu(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	for {
		printMenu()
		line, err := app.console.ReadLine(ctx, 0)
		if err != nil {
			if errors.Is(err, terminal.ErrClosed) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		choice := strings.ToLower(strings.TrimSpace(line.Text))
		switch choice {
		case "q", "quit", "exit", "":
			app.console.Print("Goodbye!\n")
			return nil
		case "a":
			for _, t := range models.AllTestTypes() {
				if err := runSession(ctx, t); err != nil {
					return err
				}
			}
		case "s":
			if err := menuLogSleep(ctx); err != nil {
				return err
			}
		case "h":
			if err := historyCmd.RunE(historyCmd, nil); err != nil {
				return err
			}
		case "t":
			if err := exportTrends("trends.html"); err != nil {
				return err
			}
		case "c":
			if _, err := performCalibration(ctx, false); err != nil {
				app.console.Printf("Calibration failed: %v\n", err)
			}
		default:
			n, err := strconv.Atoi(choice)
			types := models.AllTestTypes()
			if err != nil || n < 1 || n > len(types) {
				app.console.Print("Unrecognized choice.\n")
				continue
			}
			if err := runSession(ctx, types[n-1]); err != nil {
				return err
			}
		}

		if err := ctx.Err(); err != nil {
			return nil
		}
	}
}

func printMenu() {
	app.console.Print("\n=== COGBENCH: COGNITIVE TEST BATTERY ===\n")
	sleepStatus(time.Now().Format("2006-01-02"))
	for i, t := range models.AllTestTypes() {
		app.console.Printf(" %d. %s\n", i+1, t.Title())
	}
	app.console.Print(" a. Run the full battery\n")
	app.console.Print(" s. Log sleep\n")
	app.console.Print(" h. History\n")
	app.console.Print(" t. Export trend charts\n")
	app.console.Print(" c. Calibrate latency\n")
	app.console.Print(" q. Quit\n")
	app.console.Print("Choice: ")
}

func sleepStatus(date string) {
	entry, err := app.store.SleepFor(date)
	if err != nil || entry == nil {
		app.console.Print("Sleep today: not logged\n")
		return
	}
	app.console.Printf("Sleep today: %s\n", entry.Label())
}

func menuLogSleep(ctx context.Context) error {
	app.console.Print("Hours slept: ")
	line, err := app.console.ReadLine(ctx, 0)
	if err != nil {
		return err
	}
	hours, err := strconv.Atoi(strings.TrimSpace(line.Text))
	if err != nil || hours < 0 || hours > 24 {
		app.console.Print("Hours must be a number between 0 and 24.\n")
		return nil
	}

	app.console.Print("Extra minutes (0-59): ")
	line, err = app.console.ReadLine(ctx, 0)
	if err != nil {
		return err
	}
	minutes := 0
	if text := strings.TrimSpace(line.Text); text != "" {
		minutes, err = strconv.Atoi(text)
		if err != nil || minutes < 0 || minutes > 59 {
			app.console.Print("Minutes must be a number between 0 and 59.\n")
			return nil
		}
	}

	date := time.Now().Format("2006-01-02")
	if err := app.store.LogSleep(date, hours, minutes); err != nil {
		return err
	}
	app.console.Printf("Logged %dh %dm for %s\n", hours, minutes, date)
	return nil
}
