package main

import (
	"github.com/spf13/cobra"

	"github.com/3-lines-studio/gacha"
)

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the client routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := gacha.Routes(gacha.Web())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, table.Len())
			for _, r := range table.Routes() {
				if r.IsLazy() {
					rows = append(rows, []string{r.Path, r.Name, "lazy"})
					continue
				}
				rows = append(rows, []string{r.Path, r.Component.Name(), "eager"})
			}
			newOutput(cmd).PrintTable([]string{"PATH", "VIEW", "LOADING"}, rows)
			return nil
		},
	}
}
