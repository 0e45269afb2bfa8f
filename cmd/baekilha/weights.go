package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/baekilha/baekilha/pkg/page"
	"github.com/baekilha/baekilha/pkg/types"
	"github.com/spf13/cobra"
)

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Recalculate rankings under custom metric weights",
}

var weightsSetCmd = &cobra.Command{
	Use:   "set METRIC=FACTOR ...",
	Short: "Apply metric weights and distribute the recalculated ranking",
	Long: `Recalculate every score as a weighted mean of the per-metric
contributions and distribute the result to all running pages.

Metrics not mentioned keep weight 1.0. Member metrics: attendance,
bill_pass_rate, petition_proposed, petition_result, invalid_votes,
vote_consistency, vote_inconsistency, committee_rank.

Example:
  baekilha weights set attendance=2 bill_pass_rate=1.5`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		weights, err := parseWeights(args)
		if err != nil {
			return err
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		// Config-file weights are the baseline; flags override per metric.
		merged := make(map[string]float64, len(cfg.Weights)+len(weights))
		for k, v := range cfg.Weights {
			merged[k] = v
		}
		for k, v := range weights {
			merged[k] = v
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

		if err := p.ApplyWeights(cmd.Context(), merged); err != nil {
			return err
		}
		fmt.Println("✓ Weighted ranking distributed")
		return nil
	},
}

var weightsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the original ranking on every page",
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

		if err := p.ResetWeights(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("✓ Original ranking restored")
		return nil
	},
}

// parseWeights turns METRIC=FACTOR arguments into a weight map.
func parseWeights(args []string) (map[string]float64, error) {
	weights := make(map[string]float64, len(args))
	for _, arg := range args {
		name, value, found := strings.Cut(arg, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid weight %q, expected METRIC=FACTOR", arg)
		}
		factor, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid factor in %q: %v", arg, err)
		}
		if factor < 0 {
			return nil, fmt.Errorf("weight %q must be non-negative", name)
		}
		weights[name] = factor
	}
	return weights, nil
}

func init() {
	weightsCmd.AddCommand(weightsSetCmd)
	weightsCmd.AddCommand(weightsResetCmd)

	weightsSetCmd.Flags().Bool("party", false, "Recalculate the party ranking instead")
	weightsResetCmd.Flags().Bool("party", false, "Reset the party ranking instead")
}
