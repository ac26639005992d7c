package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/meeting-assignments/pkg/core/catalog"
	"github.com/jakechorley/meeting-assignments/pkg/core/model"
	"github.com/jakechorley/meeting-assignments/pkg/core/services"
)

// WeeksCmd creates the weeks command
func WeeksCmd(app *AppContext) *cobra.Command {
	var (
		from  string
		count int
	)

	cmd := &cobra.Command{
		Use:   "weeks",
		Short: "List upcoming meeting weeks and their meeting dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseWeek(from)
			if err != nil {
				return err
			}

			weeks, err := services.MeetingWeeks(app.Cfg, start, count)
			if err != nil {
				return err
			}

			fmt.Println()
			for _, w := range weeks {
				fmt.Printf("  %s  midweek: %-10s  weekend: %s\n", w.Week, dateOrDash(w.Midweek), dateOrDash(w.Weekend))
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", "today", "First week to list")
	cmd.Flags().IntVarP(&count, "count", "n", 8, "Number of weeks")

	return cmd
}

func dateOrDash(d *model.Date) string {
	if d == nil {
		return "-"
	}
	return d.String()
}

// SlotsCmd creates the slots command
func SlotsCmd(app *AppContext) *cobra.Command {
	var meeting string

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List schedule slots and their default assignment types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := catalog.Default()

			var slots []catalog.Slot
			switch catalog.Meeting(meeting) {
			case "":
				slots = cat.Slots()
			case catalog.MeetingMidweek, catalog.MeetingWeekend:
				slots = cat.SlotsFor(catalog.Meeting(meeting))
			default:
				return fmt.Errorf("invalid meeting %q (use midweek or weekend)", meeting)
			}

			fmt.Println()
			for _, s := range slots {
				extra := ""
				if s.Principal != "" {
					extra = fmt.Sprintf(" (assists %s)", s.Principal)
				}
				if s.VisitingOverseer {
					extra = " (circuit overseer on visit weeks)"
				}
				fmt.Printf("  %-28s %-8s %s%s\n", s.Key, s.Meeting, s.Code, extra)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVarP(&meeting, "meeting", "m", "", "Only list slots for midweek or weekend")

	return cmd
}
