package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tripledger-cli",
		Short: "TripLedger CLI tool",
		Long:  `A command line interface for interacting with the TripLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the TripLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(tripsCmd())
	rootCmd.AddCommand(expensesCmd())
	rootCmd.AddCommand(balancesCmd())
	rootCmd.AddCommand(settlementCmd())

	return rootCmd
}

func tripsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trips",
		Short: "Trip operations",
	}

	var (
		name      string
		budget    string
		travelers []string
	)

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a trip",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{"name": name}
			if budget != "" {
				d, err := decimal.NewFromString(budget)
				if err != nil {
					return fmt.Errorf("invalid budget: %w", err)
				}
				body["budget"] = d
			}
			var ts []map[string]string
			for _, tr := range travelers {
				id, trName, err := parseTraveler(tr)
				if err != nil {
					return err
				}
				ts = append(ts, map[string]string{"id": id, "name": trName})
			}
			body["travelers"] = ts
			return request(http.MethodPost, "/api/v1/trips/", body)
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "Trip name")
	createCmd.Flags().StringVar(&budget, "budget", "", "Trip budget, e.g. 1500.00")
	createCmd.Flags().StringArrayVar(&travelers, "traveler", nil, "Traveler as id:name (repeatable)")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("traveler")

	getCmd := &cobra.Command{
		Use:   "get <trip-id>",
		Short: "Get a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodGet, "/api/v1/trips/"+args[0]+"/", nil)
		},
	}

	var participantID string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List trips for a participant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodGet, "/api/v1/trips/?participant_id="+participantID, nil)
		},
	}
	listCmd.Flags().StringVar(&participantID, "participant", "", "Participant id")
	_ = listCmd.MarkFlagRequired("participant")

	deleteCmd := &cobra.Command{
		Use:   "delete <trip-id>",
		Short: "Delete a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodDelete, "/api/v1/trips/"+args[0]+"/", nil)
		},
	}

	var travelerID, travelerName string
	addTravelerCmd := &cobra.Command{
		Use:   "add-traveler <trip-id>",
		Short: "Add a traveler to a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"id": travelerID, "name": travelerName}
			return request(http.MethodPost, "/api/v1/trips/"+args[0]+"/travelers", body)
		},
	}
	addTravelerCmd.Flags().StringVar(&travelerID, "id", "", "Traveler id")
	addTravelerCmd.Flags().StringVar(&travelerName, "name", "", "Traveler name")
	_ = addTravelerCmd.MarkFlagRequired("name")

	setBudgetCmd := &cobra.Command{
		Use:   "set-budget <trip-id> <amount>",
		Short: "Set the trip budget",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount: %w", err)
			}
			return request(http.MethodPut, "/api/v1/trips/"+args[0]+"/budget", map[string]any{"budget": d})
		},
	}

	summaryCmd := &cobra.Command{
		Use:   "summary <trip-id>",
		Short: "Show budget and spend by category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodGet, "/api/v1/trips/"+args[0]+"/summary", nil)
		},
	}

	cmd.AddCommand(createCmd, getCmd, listCmd, deleteCmd, addTravelerCmd, setBudgetCmd, summaryCmd)
	return cmd
}

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "Expense operations",
	}

	var (
		category  string
		amount    string
		paidBy    string
		splitMode string
		splitWith []string
	)

	addCmd := &cobra.Command{
		Use:   "add <trip-id>",
		Short: "Record an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount: %w", err)
			}
			body := map[string]any{
				"category":   category,
				"amount":     d,
				"paid_by":    paidBy,
				"split_mode": splitMode,
			}
			if len(splitWith) > 0 {
				body["split_with"] = splitWith
			}
			return request(http.MethodPost, "/api/v1/trips/"+args[0]+"/expenses", body)
		},
	}
	addCmd.Flags().StringVar(&category, "category", "", "Expense category")
	addCmd.Flags().StringVar(&amount, "amount", "", "Amount, e.g. 42.50")
	addCmd.Flags().StringVar(&paidBy, "paid-by", "", "Participant id who paid")
	addCmd.Flags().StringVar(&splitMode, "split-mode", "all", "Split mode: all or subset")
	addCmd.Flags().StringSliceVar(&splitWith, "split-with", nil, "Participant ids sharing the expense")
	_ = addCmd.MarkFlagRequired("category")
	_ = addCmd.MarkFlagRequired("amount")
	_ = addCmd.MarkFlagRequired("paid-by")

	listCmd := &cobra.Command{
		Use:   "list <trip-id>",
		Short: "List trip expenses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodGet, "/api/v1/trips/"+args[0]+"/expenses", nil)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <trip-id> <expense-id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodDelete, "/api/v1/trips/"+args[0]+"/expenses/"+args[1], nil)
		},
	}

	cmd.AddCommand(addCmd, listCmd, deleteCmd)
	return cmd
}

func balancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balances <trip-id>",
		Short: "Show per-participant balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodGet, "/api/v1/trips/"+args[0]+"/balances", nil)
		},
	}
}

func settlementCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settlement <trip-id>",
		Short: "Show the settlement transfer plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodGet, "/api/v1/trips/"+args[0]+"/settlement", nil)
		},
	}
}

// parseTraveler splits an id:name flag value. The id part may be empty, in
// which case the server assigns one.
func parseTraveler(s string) (id, name string, err error) {
	idx := strings.Index(s, ":")
	if idx < 0 {
		return "", "", fmt.Errorf("traveler %q must be id:name", s)
	}
	return s[:idx], s[idx+1:], nil
}

func request(method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, truncate(string(data), 200))
	}

	if len(data) == 0 {
		fmt.Printf("OK (status %d)\n", resp.StatusCode)
		return nil
	}

	var pretty any
	if err := json.Unmarshal(data, &pretty); err != nil {
		fmt.Println(string(data))
		return nil
	}
	printJSON(pretty)
	return nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render response: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
