package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/memfit/mem/alloc"
)

func init() {
	rootCmd.AddCommand(newStrategiesCmd())
}

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the placement strategies",
		Long: `The strategies command lists every placement strategy in the order
memsim runs them, with the name accepted by --strategy.

Example:
  memsim strategies
  memsim strategies --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStrategies()
		},
	}
}

type strategyInfo struct {
	Name        string `json:"name"`
	Flag        string `json:"flag"`
	Description string `json:"description"`
}

var strategyDescriptions = map[alloc.Kind]string{
	alloc.FirstFit: "lowest-addressed free run that fits",
	alloc.NextFit:  "first fit scanning from just past the previous placement, wrapping",
	alloc.BestFit:  "smallest free run that fits",
	alloc.QuickFit: "reuse a released block of the exact size, else first fit",
	alloc.WorstFit: "largest free run",
}

func runStrategies() error {
	infos := make([]strategyInfo, 0, len(alloc.Kinds()))
	for _, k := range alloc.Kinds() {
		infos = append(infos, strategyInfo{
			Name:        k.String(),
			Flag:        k.Short(),
			Description: strategyDescriptions[k],
		})
	}

	if jsonOut {
		return printJSON(infos)
	}
	for _, s := range infos {
		printInfo("  %-6s %-10s %s\n", s.Flag, s.Name, s.Description)
	}
	return nil
}
