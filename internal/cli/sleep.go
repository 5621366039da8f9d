package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var sleepDate string

var sleepCmd = &cobra.Command{
	Use:   "sleep [hours] [minutes]",
	Short: "Log last night's sleep, or list the journal",
	Long: `Log how long you slept for a date (default today). Sessions run on
the same day pick the entry up for the sleep correlation charts. With no
arguments, lists the sleep journal.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return listSleep()
		}

		hours, err := strconv.Atoi(args[0])
		if err != nil || hours < 0 || hours > 24 {
			return fmt.Errorf("hours must be a number between 0 and 24")
		}
		minutes := 0
		if len(args) == 2 {
			minutes, err = strconv.Atoi(args[1])
			if err != nil || minutes < 0 || minutes > 59 {
				return fmt.Errorf("minutes must be a number between 0 and 59")
			}
		}

		date := sleepDate
		if date == "" {
			date = time.Now().Format("2006-01-02")
		} else if _, err := time.Parse("2006-01-02", date); err != nil {
			return fmt.Errorf("date must be YYYY-MM-DD, got %q", date)
		}

		if err := app.store.LogSleep(date, hours, minutes); err != nil {
			return err
		}
		app.console.Printf("Logged %dh %dm of sleep for %s\n", hours, minutes, date)
		return nil
	},
}

func init() {
	sleepCmd.Flags().StringVar(&sleepDate, "date", "", "date to log for, YYYY-MM-DD (default today)")
}

func listSleep() error {
	entries, err := app.store.AllSleep()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		app.console.Print("No sleep entries yet. Log one with: cogbench sleep 7 30\n")
		return nil
	}
	app.console.Print("Sleep journal:\n")
	for _, e := range entries {
		app.console.Printf("  %s  %s\n", e.Date, e.Label())
	}
	return nil
}
