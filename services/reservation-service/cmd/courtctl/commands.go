package main

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/app"
	"github.com/md-rashed-zaman/courtreserve/services/reservation-service/internal/availability"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, svc *app.App, logger *slog.Logger) error {
				if err := svc.Repo.Migrate(ctx); err != nil {
					return err
				}
				logger.Info("schema applied")
				return nil
			})
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default admin, courts and schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, svc *app.App, logger *slog.Logger) error {
				res, err := app.Seed(ctx, svc.Repo, logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "admin created: %t, courts: %d, schedules: %d\n",
					res.AdminCreated, res.CourtsCreated, res.SchedulesCreated)
				return nil
			})
		},
	}
}

func expireCmd() *cobra.Command {
	var courtID int64

	cmd := &cobra.Command{
		Use:   "expire",
		Short: "Expire pending reservations whose hold has lapsed",
		RunE: func(cmd *cobra.Command, args []string) error {
			var court *int64
			if courtID > 0 {
				court = &courtID
			}
			return withApp(cmd, func(ctx context.Context, svc *app.App, _ *slog.Logger) error {
				expired, err := svc.Bookings.ExpireLapsed(ctx, court)
				if err != nil {
					return err
				}
				for _, r := range expired {
					fmt.Fprintf(cmd.OutOrStdout(), "expired reservation %d (court %d, %s)\n",
						r.ID, r.CourtID, r.StartTime.Format(time.RFC3339))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d reservation(s) expired\n", len(expired))
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&courtID, "court", 0, "Only expire holds on this court")
	return cmd
}

func tokenCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			return withApp(cmd, func(ctx context.Context, svc *app.App, _ *slog.Logger) error {
				u, err := svc.Repo.GetUserByEmail(ctx, email)
				if err != nil {
					return fmt.Errorf("lookup %s: %w", email, err)
				}
				if !u.IsActive {
					return fmt.Errorf("user %s is inactive", email)
				}
				token, err := svc.Auth.Token(u)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "User email")
	return cmd
}

func availabilityCmd() *cobra.Command {
	var courtID int64
	var date string
	var slotMinutes int

	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Show bookable slots for a court on a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			if courtID <= 0 {
				return fmt.Errorf("--court is required")
			}
			if slotMinutes < 15 || slotMinutes > 240 {
				return fmt.Errorf("--slot must be between 15 and 240 minutes")
			}
			day, err := time.Parse(time.DateOnly, date)
			if err != nil {
				return fmt.Errorf("invalid --date: %w", err)
			}
			return withApp(cmd, func(ctx context.Context, svc *app.App, _ *slog.Logger) error {
				res, err := svc.Engine.Availability(ctx, availability.Query{
					CourtID: courtID,
					Date:    day,
					Slot:    time.Duration(slotMinutes) * time.Minute,
					Now:     time.Now().UTC(),
				})
				if err != nil {
					return err
				}
				if res.NoSchedule() {
					fmt.Fprintln(cmd.OutOrStdout(), "no schedule for this day")
					return nil
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "START\tEND")
				for _, s := range res.Slots {
					fmt.Fprintf(tw, "%s\t%s\n", s.Start().Format("15:04"), s.End().Format("15:04"))
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().Int64Var(&courtID, "court", 0, "Court id")
	cmd.Flags().StringVar(&date, "date", time.Now().Format(time.DateOnly), "Date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&slotMinutes, "slot", 60, "Slot length in minutes")
	return cmd
}
