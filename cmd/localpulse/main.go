package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "localpulse",
		Short: "Discover local events, classes, and deals worth leaving the house for",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(ingestCmd())
	root.AddCommand(eventsCmd())
	root.AddCommand(dealsCmd())
	root.AddCommand(searchCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(runCmd())

	return root
}

func ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Fetch all configured feeds once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest()
		},
	}
}

func eventsCmd() *cobra.Command {
	var (
		jsonOutput bool
		section    string
		day        string
		age        string
		kidsAge    string
		categories []string
		timeOfDay  string
		price      string
		query      string
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List upcoming events and classes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvents(eventFlags{
				jsonOutput: jsonOutput,
				section:    section,
				day:        day,
				age:        age,
				kidsAge:    kidsAge,
				categories: categories,
				timeOfDay:  timeOfDay,
				price:      price,
				query:      query,
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.Flags().StringVar(&section, "section", "", "restrict to \"event\" or \"class\"")
	cmd.Flags().StringVar(&day, "day", "anytime", "day filter (today, tomorrow, thisWeekend, thisWeek, nextWeek, or YYYY-MM-DD)")
	cmd.Flags().StringVar(&age, "age", "all", "audience filter (all, kids, adults)")
	cmd.Flags().StringVar(&kidsAge, "kids-age", "", "kids age band, e.g. 4-6 or prenatal")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "category filter (repeatable)")
	cmd.Flags().StringVar(&timeOfDay, "time", "", "time of day (morning, afternoon, evening, or HH:MM minimum)")
	cmd.Flags().StringVar(&price, "price", "all", "price filter (all, free, paid)")
	cmd.Flags().StringVar(&query, "q", "", "text search")
	return cmd
}

func dealsCmd() *cobra.Command {
	var (
		jsonOutput bool
		categories []string
		query      string
	)

	cmd := &cobra.Command{
		Use:   "deals",
		Short: "List active deals ranked by value",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeals(jsonOutput, categories, query)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "category filter (repeatable)")
	cmd.Flags().StringVar(&query, "q", "", "text search")
	return cmd
}

func searchCmd() *cobra.Command {
	var (
		jsonOutput bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search events, classes, deals, and services",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(args[0], limit, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.Flags().IntVar(&limit, "limit", 0, "max results per section (default: 5)")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}

func runCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start daemon with scheduler and HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}
