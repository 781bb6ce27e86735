package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/spf13/cobra"
)

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Block until the server reports healthy",
	Long: `Poll GET /health once a second until the server and its database
are reachable. Useful in container entrypoints and CI.

Example:
  compliancectl wait
  compliancectl wait --port 3000 --retries 60`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetInt("port")
		retries, _ := cmd.Flags().GetInt("retries")

		url := fmt.Sprintf("http://localhost:%d/health", port)
		if err := waitForServer(url, retries, time.Second); err != nil {
			fmt.Fprintf(os.Stderr, "\n%v\n", err)
			os.Exit(1)
		}
		fmt.Println("\nServer is ready")
	},
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().IntP("port", "p", defaultPortInt(), "Server port to check")
	waitCmd.Flags().IntP("retries", "r", 90, "Number of attempts")
}

func waitForServer(url string, attempts int, interval time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	return retry.Do(
		func() error {
			resp, err := client.Get(url)
			if err != nil {
				return err
			}
			_ = resp.Body.Close()
			if resp.StatusCode >= 300 {
				return fmt.Errorf("%s returned %s", url, resp.Status)
			}
			return nil
		},
		retry.Attempts(uint(attempts)),
		retry.Delay(interval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(uint, error) { fmt.Print(".") }),
	)
}
