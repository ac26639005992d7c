package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/meeting-assignments/pkg/core/assembly"
	"github.com/jakechorley/meeting-assignments/pkg/core/catalog"
	"github.com/jakechorley/meeting-assignments/pkg/core/model"
	"github.com/jakechorley/meeting-assignments/pkg/core/services"
)

// CandidatesCmd creates the candidates command
func CandidatesCmd(app *AppContext) *cobra.Command {
	var (
		typeOverride string
		weekType     string
		gender       string
		selected     string
		pocket       string
	)

	cmd := &cobra.Command{
		Use:   "candidates <week> <slot>",
		Short: "List ranked candidates for a slot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			week, err := parseWeek(args[0])
			if err != nil {
				return err
			}
			genderOverride, err := parseGender(gender)
			if err != nil {
				return err
			}
			if pocket != "" && !app.Cfg.PocketMode {
				return fmt.Errorf("--pocket needs pocketMode enabled in the config")
			}

			asm, err := app.Assembler()
			if err != nil {
				return err
			}

			result, err := services.ListCandidates(app.Ctx, asm, app.Logger, assembly.SlotRequest{
				Week:             week,
				Slot:             args[1],
				WeekType:         model.WeekType(weekType),
				TypeOverride:     typeOverride,
				GenderOverride:   genderOverride,
				SelectedPersonID: selected,
				PocketName:       pocket,
			})
			if err != nil {
				return err
			}

			printCandidates(os.Stdout, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeOverride, "type", "t", "", "Assignment type code to use instead of the slot default")
	cmd.Flags().StringVarP(&weekType, "week-type", "w", string(model.WeekNormal), "Week type: normal, co_visit, circuit_assembly, convention, memorial, no_meeting")
	cmd.Flags().StringVarP(&gender, "gender", "g", "", "Restrict either-gender parts to male or female")
	cmd.Flags().StringVarP(&selected, "selected", "s", "", "Person id to check for conflicts instead of the current assignee")
	cmd.Flags().StringVar(&pocket, "pocket", "", "Free-text name to offer instead of the roster (pocket mode)")

	return cmd
}

// AssignCmd creates the assign command
func AssignCmd(app *AppContext) *cobra.Command {
	var typeOverride string

	cmd := &cobra.Command{
		Use:   "assign <week> <slot> <person_id>",
		Short: "Assign a member to a slot",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			week, err := parseWeek(args[0])
			if err != nil {
				return err
			}

			asm, err := app.Assembler()
			if err != nil {
				return err
			}

			result, err := services.AssignSlot(app.Ctx, app.Assignments, asm, app.Logger, week, args[1], args[2], typeOverride)
			if err != nil {
				return err
			}

			dir := asm.Directory()
			fmt.Printf("\n✓ %s %s: %s\n", result.Record.Week, result.Record.Slot, personName(dir, result.Record.PersonID))
			if result.Replaced != nil {
				fmt.Printf("  Replaced %s\n", personName(dir, result.Replaced.PersonID))
			}
			if result.HasConflict {
				fmt.Printf("  ⚠ Also assigned this week: %s\n", strings.Join(result.ConflictSlots, ", "))
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeOverride, "type", "t", "", "Assignment type code to use instead of the slot default")

	return cmd
}

// ClearCmd creates the clear command
func ClearCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <week> <slot>",
		Short: "Remove the assignment from a slot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			week, err := parseWeek(args[0])
			if err != nil {
				return err
			}

			asm, err := app.Assembler()
			if err != nil {
				return err
			}

			result, err := services.ClearSlot(app.Ctx, app.Assignments, asm, app.Logger, week, args[1])
			if err != nil {
				return err
			}

			if result.Replaced == nil {
				fmt.Printf("\n%s %s was already empty\n\n", result.Record.Week, result.Record.Slot)
				return nil
			}
			fmt.Printf("\n✓ Cleared %s %s (was %s)\n\n", result.Record.Week, result.Record.Slot,
				personName(asm.Directory(), result.Replaced.PersonID))
			return nil
		},
	}
}

// ReviewCmd creates the review command
func ReviewCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "review <week>",
		Short: "Show a week's assignments and double bookings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			week, err := parseWeek(args[0])
			if err != nil {
				return err
			}

			asm, err := app.Assembler()
			if err != nil {
				return err
			}

			review := services.ReviewWeek(app.Ctx, asm, app.Logger, week)
			printReview(os.Stdout, asm.Directory(), review)
			return nil
		},
	}
}

// ExplainCmd creates the explain command
func ExplainCmd(app *AppContext) *cobra.Command {
	var (
		typeOverride string
		gender       string
	)

	cmd := &cobra.Command{
		Use:   "explain <week> <slot> <person_id>",
		Short: "Show why a member is not a candidate for a slot",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			week, err := parseWeek(args[0])
			if err != nil {
				return err
			}
			genderOverride, err := parseGender(gender)
			if err != nil {
				return err
			}

			asm, err := app.Assembler()
			if err != nil {
				return err
			}

			vetoes, err := asm.Explain(assembly.SlotRequest{
				Week:           week,
				Slot:           args[1],
				TypeOverride:   typeOverride,
				GenderOverride: genderOverride,
			}, args[2])
			if err != nil {
				return err
			}

			name := personName(asm.Directory(), args[2])
			if len(vetoes) == 0 {
				fmt.Printf("\n✓ %s is eligible for %s\n\n", name, args[1])
				return nil
			}
			fmt.Printf("\n%s is excluded from %s by: %s\n\n", name, args[1], strings.Join(vetoes, ", "))
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeOverride, "type", "t", "", "Assignment type code to use instead of the slot default")
	cmd.Flags().StringVarP(&gender, "gender", "g", "", "Restrict either-gender parts to male or female")

	return cmd
}

// DraftCmd creates the draft command
func DraftCmd(app *AppContext) *cobra.Command {
	var (
		meeting  string
		weekType string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "draft <week>",
		Short: "Fill a week's empty slots with the top-ranked free candidates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			week, err := parseWeek(args[0])
			if err != nil {
				return err
			}
			switch catalog.Meeting(meeting) {
			case "", catalog.MeetingMidweek, catalog.MeetingWeekend:
			default:
				return fmt.Errorf("invalid meeting %q (use midweek or weekend)", meeting)
			}

			asm, err := app.Assembler()
			if err != nil {
				return err
			}

			result, err := services.DraftWeek(app.Ctx, app.Assignments, asm, app.Logger, week,
				catalog.Meeting(meeting), model.WeekType(weekType), dryRun)
			if err != nil {
				return err
			}

			if result.DryRun {
				fmt.Printf("\nDraft for %s (dry run, nothing saved)\n\n", result.Week)
			} else {
				fmt.Printf("\n✓ Drafted %s\n\n", result.Week)
			}
			for _, s := range result.Drafted {
				fmt.Printf("  %-28s %s\n", s.Slot, s.Name)
			}
			if len(result.Unfilled) > 0 {
				fmt.Println("\nLeft empty:")
				for _, s := range result.Unfilled {
					fmt.Printf("  %-28s %s\n", s.Slot, s.Reason)
				}
			}
			fmt.Printf("\n%d drafted, %d already assigned, %d empty\n\n", len(result.Drafted), result.Kept, len(result.Unfilled))
			return nil
		},
	}

	cmd.Flags().StringVarP(&meeting, "meeting", "m", "", "Only draft midweek or weekend slots")
	cmd.Flags().StringVarP(&weekType, "week-type", "w", string(model.WeekNormal), "Week type: normal, co_visit, circuit_assembly, convention, memorial, no_meeting")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the draft without saving it")

	return cmd
}
