package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/meeting-assignments/pkg/core/model"
	"github.com/jakechorley/meeting-assignments/pkg/core/services"
)

// MembersCmd creates the members command
func MembersCmd(app *AppContext) *cobra.Command {
	var showArchived bool

	cmd := &cobra.Command{
		Use:   "members",
		Short: "List members with their current statuses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asm, err := app.Assembler()
			if err != nil {
				return err
			}

			today := model.Today()
			members := asm.Directory().All()

			fmt.Printf("\nFound %d members:\n\n", len(members))
			for _, m := range members {
				if m.Archived && !showArchived {
					continue
				}
				printMember(m, today)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().BoolVar(&showArchived, "archived", false, "Include archived members")

	return cmd
}

func printMember(m model.Person, today model.Date) {
	var statuses []string
	for _, sp := range m.Statuses {
		if sp.Covers(today) {
			statuses = append(statuses, string(sp.Status))
		}
	}

	extra := ""
	if m.AssistantEligible {
		extra += " [assistant]"
	}
	if m.Archived {
		extra += " [archived]"
	}
	for _, t := range m.TimeAway {
		if t.Covers(today) {
			extra += " [away]"
			break
		}
	}

	fmt.Printf("- %-24s (%s) %s %v%s\n", m.Name(), m.ID, m.Gender, statuses, extra)
}

// SearchCmd creates the search command
func SearchCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <name>",
		Short: "Find members by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asm, err := app.Assembler()
			if err != nil {
				return err
			}

			matches := asm.Directory().Search(args[0])
			if len(matches) == 0 {
				fmt.Printf("\nNo members match %q\n\n", args[0])
				return nil
			}

			fmt.Println()
			for _, m := range matches {
				printMember(m, model.Today())
			}
			fmt.Println()
			return nil
		},
	}
}

// AwayCmd creates the away command
func AwayCmd(app *AppContext) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "away <person_id> <start> [end]",
		Short: "Record time away for a member (no end means open-ended)",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseWeek(args[1])
			if err != nil {
				return err
			}

			var end *model.Date
			if len(args) > 2 {
				e, err := parseWeek(args[2])
				if err != nil {
					return err
				}
				end = &e
			}

			asm, err := app.Assembler()
			if err != nil {
				return err
			}

			row, err := services.AddTimeAway(app.Ctx, app.Roster, asm, app.Logger, args[0], start, end, reason)
			if err != nil {
				return err
			}

			until := row.End
			if until == "" {
				until = "further notice"
			}
			fmt.Printf("\n✓ %s is away from %s until %s\n", personName(asm.Directory(), args[0]), row.Start, until)
			fmt.Println("  Run refresh to use it in this session")
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Reason for the absence")

	return cmd
}

// RefreshCmd creates the refresh command
func RefreshCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Reload the roster (members, statuses, time away)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Loaded() {
				_, err := app.Assembler()
				return err
			}

			asm, err := app.Assembler()
			if err != nil {
				return err
			}

			if err := services.RefreshRoster(app.Ctx, asm, app.Members, app.Roster, app.Cfg, app.Logger); err != nil {
				return err
			}

			fmt.Printf("\n✓ Roster reloaded: %d members\n\n", asm.Directory().Len())
			return nil
		},
	}
}
