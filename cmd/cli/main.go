package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vesthub-cli",
		Short: "VestHub CLI tool",
		Long:  `A command line interface for interacting with the VestHub API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the VestHub API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Accrual commands
	accrualCmd := &cobra.Command{
		Use:   "accrual",
		Short: "Accrual operations",
	}

	var asOf string

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run daily accrual",
		Run: func(cmd *cobra.Command, args []string) {
			triggerRun("/api/v1/accrual/run", asOf)
		},
	}
	runCmd.Flags().StringVar(&asOf, "as-of", "", "Accrual day in YYYY-MM-DD (defaults to today)")

	recoverCmd := &cobra.Command{
		Use:   "recover",
		Short: "Backfill missed accrual days",
		Run: func(cmd *cobra.Command, args []string) {
			triggerRun("/api/v1/recovery/run", asOf)
		},
	}
	recoverCmd.Flags().StringVar(&asOf, "as-of", "", "Recover up to this day in YYYY-MM-DD (defaults to today)")

	accrualCmd.AddCommand(runCmd, recoverCmd)
	rootCmd.AddCommand(accrualCmd)

	// Balance command
	balanceCmd := &cobra.Command{
		Use:   "balance [user-id]",
		Short: "Show a user's withdrawable balance",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/users/" + args[0] + "/balance")
		},
	}
	rootCmd.AddCommand(balanceCmd)

	// Settings commands
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Platform settings",
	}

	getRateCmd := &cobra.Command{
		Use:   "referral-rate",
		Short: "Show the referral bonus percentage",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/settings/referral-percentage")
		},
	}

	setRateCmd := &cobra.Command{
		Use:   "set-referral-rate [percent]",
		Short: "Set the referral bonus percentage",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			setReferralRate(args[0])
		},
	}

	settingsCmd.AddCommand(getRateCmd, setRateCmd)
	rootCmd.AddCommand(settingsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func triggerRun(path, asOf string) {
	body := "{}"
	if asOf != "" {
		body = fmt.Sprintf(`{"as_of":%q}`, asOf)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", strings.NewReader(body))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Run FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(raw))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Run completed for %s\n", result["as_of"])
	if payouts, ok := result["payouts"].(float64); ok {
		fmt.Printf("Payouts: %d\n", int(payouts))
	}
}

func getJSON(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(raw))
		os.Exit(1)
	}

	fmt.Println(string(raw))
}

func setReferralRate(percent string) {
	body := fmt.Sprintf(`{"percent":%q}`, percent)

	req, err := http.NewRequest(http.MethodPut, baseURL+"/api/v1/settings/referral-percentage", strings.NewReader(body))
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Update FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(raw))
		os.Exit(1)
	}

	fmt.Printf("Referral percentage set to %s\n", percent)
}
