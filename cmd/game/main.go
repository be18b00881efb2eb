// storyturn is a terminal story session where the player steers the
// narrator with inline directives: author's notes, note depth and display,
// save and load.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"storyturn/internal/logging"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storyturn",
		Short: "Interactive story session with author's note directives",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context())
		},
		SilenceUsage: true,
	}

	cmd.AddCommand(newPlayCmd())
	cmd.AddCommand(newSavesCmd())
	cmd.AddCommand(newReviewCmd())
	cmd.AddCommand(newTurnsCmd())
	cmd.AddCommand(newRateCmd())
	cmd.AddCommand(newMCPCmd())

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Start an interactive session (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context())
		},
	}
}

func runPlay(ctx context.Context) error {
	// cancelled on quit so an in-flight narration stream is abandoned
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a, err := createApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	model, err := a.newPlayModel(ctx)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run session: %w", err)
	}
	return nil
}

func newSavesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saves",
		Short: "Inspect saved sessions",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List saved sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSavesList(cmd.Context(), limit)
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "maximum number of saves to show")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved session as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSavesShow(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func runSavesList(ctx context.Context, limit int) error {
	a, err := createApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.saves.List(limit)
	if err != nil {
		return fmt.Errorf("list saves: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No saves found. Type /save during a session to create one.")
		return nil
	}

	for _, r := range records {
		note := r.Note
		if note == "" {
			note = "(no author's note)"
		}
		fmt.Printf("%s  %s  turn %d  %s\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Turn, note)
	}
	fmt.Println("\nTo resume a save, type /load <id> during a session.")
	return nil
}

func runSavesShow(ctx context.Context, id string) error {
	a, err := createApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	snapshot, err := a.saves.Get(id)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(snapshot)
}

func newReviewCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Show recent narrator completions and their ratings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd.Context(), limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of completions to show")
	return cmd
}

func runReview(ctx context.Context, limit int) error {
	a, err := createApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	completions, err := a.turns.GetRecentCompletions(limit)
	if err != nil {
		return fmt.Errorf("failed to get completions: %w", err)
	}

	if len(completions) == 0 {
		fmt.Println("No completions found. Play the game first to generate data!")
		return nil
	}

	fmt.Printf("Recent completions (%d):\n\n", len(completions))

	for _, comp := range completions {
		var metadata logging.CompletionMetadata
		if err := json.Unmarshal([]byte(comp.Metadata), &metadata); err == nil {
			fmt.Printf("[%d] %s | %v | %s\n",
				comp.ID,
				comp.Timestamp.Format("15:04:05"),
				metadata.ResponseTime,
				comp.UserInput)
		} else {
			fmt.Printf("[%d] %s | %s\n", comp.ID, comp.Timestamp.Format("15:04:05"), comp.UserInput)
		}

		fmt.Printf("Response: %s\n", comp.Response)
		if comp.Rating != nil {
			fmt.Printf("Rating: %d/5", *comp.Rating)
			if comp.Notes != nil {
				fmt.Printf(" - %s", *comp.Notes)
			}
		} else {
			fmt.Printf("Rating: not rated")
		}
		fmt.Println("\n" + strings.Repeat("-", 50))
	}

	fmt.Println("\nTo rate a completion: storyturn rate <id> <rating> [notes]")
	return nil
}

func newTurnsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "turns",
		Short: "Show recent turns: raw input, cleaned text and accepted directives",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTurns(cmd.Context(), cmd.OutOrStdout(), limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of turns to show")
	return cmd
}

func runTurns(ctx context.Context, w io.Writer, limit int) error {
	a, err := createApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	turns, err := a.turns.GetRecentTurns(limit)
	if err != nil {
		return fmt.Errorf("failed to get turns: %w", err)
	}

	if len(turns) == 0 {
		fmt.Fprintln(w, "No turns found. Play the game first to generate data!")
		return nil
	}

	fmt.Fprintf(w, "Recent turns (%d):\n\n", len(turns))
	for _, turn := range turns {
		printTurn(w, turn)
	}
	return nil
}

func printTurn(w io.Writer, turn logging.TurnLog) {
	var kinds []string
	if err := json.Unmarshal([]byte(turn.Directives), &kinds); err != nil || len(kinds) == 0 {
		kinds = []string{"none"}
	}

	fmt.Fprintf(w, "[turn %d] %s | directives: %s | stopped: %t\n",
		turn.Turn,
		turn.Timestamp.Format("15:04:05"),
		strings.Join(kinds, ", "),
		turn.Stopped)
	fmt.Fprintf(w, "Input: %q\n", turn.RawInput)
	fmt.Fprintf(w, "Cleaned: %q\n", turn.CleanedText)
	if turn.Message != "" {
		fmt.Fprintf(w, "Message: %q\n", turn.Message)
	}
	fmt.Fprintln(w, strings.Repeat("-", 50))
}

func newRateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate <id> <rating> [notes...]",
		Short: "Rate a narrator completion from 1 to 5",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid ID: %w", err)
			}
			rating, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid rating: %w", err)
			}
			notes := strings.Join(args[2:], " ")
			return runRate(cmd.Context(), id, rating, notes)
		},
	}
}

func runRate(ctx context.Context, id, rating int, notes string) error {
	a, err := createApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.turns.RateCompletion(id, rating, notes); err != nil {
		return fmt.Errorf("failed to rate completion: %w", err)
	}

	fmt.Printf("Rated completion %d as %d/5", id, rating)
	if notes != "" {
		fmt.Printf(" with notes: %s", notes)
	}
	fmt.Println()
	return nil
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve directive processing over MCP on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := createApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			a.debug.Println("Serving MCP over stdio")
			return a.newMCPServer().Run(cmd.Context())
		},
	}
}
