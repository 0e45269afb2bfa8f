package main

import (
	"fmt"

	"github.com/baekilha/baekilha/pkg/page"
	"github.com/baekilha/baekilha/pkg/types"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare NAME1 NAME2",
	Short: "Compare two members (or two parties) metric by metric",
	Long: `Compare two members across every ranked metric: attendance, bill
pass rate, petitions, vote ratios, and committee position. Pass --party
to compare two parties instead.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		kind := types.KindMember
		if byParty, _ := cmd.Flags().GetBool("party"); byParty {
			kind = types.KindParty
		}

		p, err := page.New(cfg, kind)
		if err != nil {
			return err
		}
		defer p.Close()

		var out string
		if kind == types.KindParty {
			out, err = p.CompareParties(cmd.Context(), args[0], args[1])
		} else {
			out, err = p.CompareMembers(cmd.Context(), args[0], args[1])
		}
		if err != nil {
			return err
		}

		fmt.Print(out)
		return nil
	},
}

func init() {
	compareCmd.Flags().Bool("party", false, "Compare parties instead of members")
}
