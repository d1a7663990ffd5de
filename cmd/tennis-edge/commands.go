package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/tennis-edge/internal/models"
	"github.com/yourusername/tennis-edge/internal/predictor"
	"github.com/yourusername/tennis-edge/internal/roster"
	"github.com/yourusername/tennis-edge/internal/session"
)

var (
	predictCategory string
	evalSurface     string
	evalOdd1        float64
	evalOdd2        float64
)

var predictCmd = &cobra.Command{
	Use:   "predict PLAYER1 PLAYER2",
	Short: "Ask the remote prediction service for a win probability",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := models.ParseCategory(predictCategory)
		if err != nil {
			return err
		}
		client := predictor.NewClient(&cfg.Predictor, appLog)
		defer client.Close()

		prediction, err := client.Predict(cmd.Context(), category, args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), prediction)
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate PLAYER1 PLAYER2",
	Short: "Compare model probabilities with bookmaker odds and record value bets",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			evaluation, err := a.session.Evaluate(cmd.Context(), session.MatchRequest{
				Player1: args[0],
				Player2: args[1],
				Surface: evalSurface,
				Odd1:    evalOdd1,
				Odd2:    evalOdd2,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), evaluation)
		})
	},
}

var settleCmd = &cobra.Command{
	Use:   "settle INDEX WINNER",
	Short: "Record the winner of a ledger entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: index %q is not a number", models.ErrInvalidInput, args[0])
		}
		return withApp(cmd.Context(), func(a *app) error {
			settlement, err := a.session.Settle(cmd.Context(), index, args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), settlement)
		})
	},
}

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Show ledger entries and cumulative profit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"entries": a.session.Entries(),
				"summary": a.session.Summary(),
			})
		})
	},
}

var ratingCmd = &cobra.Command{
	Use:   "rating [PLAYER]",
	Short: "Show a player's ratings, or list rated players",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			if len(args) == 0 {
				return printJSON(cmd.OutOrStdout(), a.session.Players())
			}
			set, err := a.session.Rating(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), set)
		})
	},
}

var rosterCmd = &cobra.Command{
	Use:   "roster FILE",
	Short: "Parse a player roster from a .txt or .csv file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		players, err := roster.Parse(args[0], f)
		if err != nil {
			return err
		}
		for _, name := range players {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	predictCmd.Flags().StringVar(&predictCategory, "category", "ATP", "Tour category (ATP or WTA)")

	evaluateCmd.Flags().StringVar(&evalSurface, "surface", "hard", "Court surface (hard, clay or grass)")
	evaluateCmd.Flags().Float64Var(&evalOdd1, "odd1", 0, "Decimal odds for player 1")
	evaluateCmd.Flags().Float64Var(&evalOdd2, "odd2", 0, "Decimal odds for player 2")
	evaluateCmd.MarkFlagRequired("odd1")
	evaluateCmd.MarkFlagRequired("odd2")
}

// withApp opens the configured session, runs fn and persists ratings
func withApp(ctx context.Context, fn func(a *app) error) error {
	a, err := buildApp(ctx, cfg, appLog, nil)
	if err != nil {
		return err
	}

	runErr := fn(a)

	closeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := a.shutdown(closeCtx); err != nil && runErr == nil {
		return err
	}
	return runErr
}
