package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/techvote/techvote/internal/geo"
)

var locationsCmd = &cobra.Command{
	Use:   "locations [division] [district]",
	Short: "Print the division, district and seat hierarchy",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		h := geo.Default()
		out := cmd.OutOrStdout()

		switch len(args) {
		case 0:
			for _, div := range h.Divisions() {
				fmt.Fprintf(out, "%s (%d districts)\n", div, len(h.Districts(div)))
			}
			fmt.Fprintf(out, "\n%d seats\n", h.SeatCount())
		case 1:
			if !h.IsValidDivision(args[0]) {
				return fmt.Errorf("unknown division: %s", args[0])
			}
			for _, d := range h.Districts(args[0]) {
				fmt.Fprintf(out, "%s (%d seats)\n", d, len(h.Seats(args[0], d)))
			}
		default:
			if !h.IsValidDistrict(args[0], args[1]) {
				return fmt.Errorf("unknown district: %s / %s", args[0], args[1])
			}
			for _, s := range h.Seats(args[0], args[1]) {
				fmt.Fprintln(out, s)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(locationsCmd)
}
