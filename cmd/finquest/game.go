package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/finquest/internal/challenge"
	"github.com/rgehrsitz/finquest/internal/compare"
	"github.com/rgehrsitz/finquest/internal/gamification"
	"github.com/rgehrsitz/finquest/internal/output"
)

func challengesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "challenges",
		Short: "List the available challenges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			report := output.NewReport("Challenges", time.Now())
			report.Challenges = a.svc.Catalog().Challenges
			return opts.render(cmd, report)
		},
	}
}

func completeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete [challenge-id]",
		Short: "Complete one of today's challenges",
		Long: "Submit the form data of a challenge, e.g.\n" +
			"  finquest complete save_money --field amount=150\n" +
			"  finquest complete calculate_emi --field amount=100000 --field interest_rate=12 --field tenure=12",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, _ := cmd.Flags().GetStringArray("field")
			sub, err := parseFields(fields)
			if err != nil {
				return err
			}

			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			outcome, err := a.svc.CompleteChallenge(context.Background(), a.user, args[0], sub)
			if err != nil {
				return err
			}
			report := output.NewReport("Challenge Completed", time.Now())
			report.UserID = a.user
			report.Outcome = &outcome
			return opts.render(cmd, report)
		},
	}
	cmd.Flags().StringArray("field", nil, "Submission field as key=value (repeatable)")
	return cmd
}

func quizCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz [quiz-id]",
		Short: "Record a finished quiz",
		Long:  "Record the per-question results of a quiz in order, e.g. --answers 1,0,1,1",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetString("answers")
			answers, err := parseAnswers(raw)
			if err != nil {
				return err
			}

			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			outcome, err := a.svc.RecordQuiz(context.Background(), a.user,
				gamification.QuizAttempt{QuizID: args[0], Answers: answers})
			if err != nil {
				return err
			}
			report := output.NewReport("Quiz Result", time.Now())
			report.UserID = a.user
			report.Outcome = &outcome
			return opts.render(cmd, report)
		},
	}
	cmd.Flags().String("answers", "", "Comma-separated results, 1/0 or true/false (required)")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}

func dashboardCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show level, coins, streak and today's challenges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			d, err := a.svc.Dashboard(context.Background(), a.user)
			if err != nil {
				return err
			}
			report := output.NewReport("FinQuest Dashboard", time.Now())
			report.UserID = a.user
			report.Dashboard = &d
			report.Snapshot = d.Latest
			return opts.render(cmd, report)
		},
	}
}

func badgesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "badges",
		Short: "List badges and which ones are earned",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			d, err := a.svc.Dashboard(context.Background(), a.user)
			if err != nil {
				return err
			}
			report := output.NewReport("Badges", time.Now())
			report.UserID = a.user
			report.Badges = d.Badges
			report.NewBadges = d.NewBadges
			return opts.render(cmd, report)
		},
	}
}

func historyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Compare saved scores over time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			d, err := a.svc.Dashboard(context.Background(), a.user)
			if err != nil {
				return err
			}
			trend, err := compare.CompareHistory(d.History)
			if err != nil {
				return fmt.Errorf("score history: %w (save a profile with 'finquest score --save' first)", err)
			}
			report := output.NewReport("Score History", time.Now())
			report.UserID = a.user
			report.Trend = trend
			return opts.render(cmd, report)
		},
	}
}

// parseFields turns key=value pairs into a submission. Only the first '=' splits.
func parseFields(fields []string) (challenge.Submission, error) {
	sub := make(challenge.Submission, len(fields))
	for _, f := range fields {
		k, v, ok := strings.Cut(f, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --field %q: want key=value", f)
		}
		sub[strings.ToLower(k)] = v
	}
	return sub, nil
}

func parseAnswers(raw string) ([]bool, error) {
	var answers []bool
	for _, part := range strings.Split(raw, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "":
			continue
		case "1", "true", "t", "y", "yes":
			answers = append(answers, true)
		case "0", "false", "f", "n", "no":
			answers = append(answers, false)
		default:
			return nil, fmt.Errorf("invalid answer %q: use 1/0 or true/false", part)
		}
	}
	if len(answers) == 0 {
		return nil, fmt.Errorf("--answers needs at least one result")
	}
	return answers, nil
}
