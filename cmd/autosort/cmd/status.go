package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/brianly1003/autosort/internal/history"
	"github.com/brianly1003/autosort/internal/manager"
)

// statusCmd queries the running daemon.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the daemon is monitoring",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := clientFromConfig()
		if err != nil {
			return err
		}
		var status manager.Status
		if err := client.do("GET", "/api/status", &status); err != nil {
			return err
		}
		printStatus(status)
		return nil
	},
}

// toggleCmd flips monitoring on the running daemon.
var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Turn monitoring on or off",
	Long: `Turn monitoring on or off on the running daemon. The choice is
persisted and restored the next time the daemon starts.

Use "autosort toggle on" or "autosort toggle off" to set a state
explicitly instead of flipping it.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runToggle,
}

func runToggle(cmd *cobra.Command, args []string) error {
	client, err := clientFromConfig()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		var resp struct {
			Monitoring bool `json:"monitoring"`
		}
		if err := client.do("POST", "/api/monitoring/toggle", &resp); err != nil {
			return err
		}
		fmt.Printf("Monitoring: %s\n", onOff(resp.Monitoring))
		return nil
	}

	var path string
	switch args[0] {
	case "on":
		path = "/api/monitoring/start"
	case "off":
		path = "/api/monitoring/stop"
	default:
		return fmt.Errorf("expected on or off, got %q", args[0])
	}

	var status manager.Status
	if err := client.do("POST", path, &status); err != nil {
		return err
	}
	printStatus(status)
	return nil
}

var historyLimit int

// historyCmd lists recent outcomes recorded by the daemon.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently sorted files",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := clientFromConfig()
		if err != nil {
			return err
		}
		var resp struct {
			Entries []history.Entry `json:"entries"`
		}
		if err := client.do("GET", "/api/history?limit="+strconv.Itoa(historyLimit), &resp); err != nil {
			return err
		}
		if len(resp.Entries) == 0 {
			fmt.Println("No files sorted yet.")
			return nil
		}
		for _, e := range resp.Entries {
			ts := e.Time.Local().Format("2006-01-02 15:04:05")
			if e.Status == history.StatusClassified {
				fmt.Printf("%s  %s -> %s\n", ts, e.SourcePath, e.FinalPath)
			} else {
				fmt.Printf("%s  %s FAILED %s: %s\n", ts, e.SourcePath, e.Code, e.Message)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show")
}

func printStatus(s manager.Status) {
	fmt.Printf("Monitoring:    %s\n", onOff(s.Monitoring))
	fmt.Printf("Source folder: %s\n", s.SourceFolder)
	if s.SessionID != "" {
		fmt.Printf("Session:       %s\n", s.SessionID)
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
