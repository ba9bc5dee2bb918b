package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fernwhistle/geomaps"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode <query>",
	Short: "resolve a free-form query to coordinates",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		return withClient(func(c *geomaps.Client) error {
			results, err := c.Geocode(cmd.Context(), query)
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(results)
			}
			if len(results) == 0 {
				fmt.Println("no results")
				return nil
			}
			for _, r := range results {
				fmt.Printf("%s\n  %s  confidence=%.2f (%s)\n",
					r.Address.Format(), r.Position, r.Confidence, r.Tier())
			}
			return nil
		})
	},
}

var reverseCmd = &cobra.Command{
	Use:   "reverse <lat,lon>",
	Short: "resolve a coordinate to addresses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		point, err := geomaps.ParseCoordinate(args[0])
		if err != nil {
			return err
		}
		return withClient(func(c *geomaps.Client) error {
			addrs, err := c.ReverseGeocode(cmd.Context(), point)
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(addrs)
			}
			if len(addrs) == 0 {
				fmt.Println("no results")
				return nil
			}
			for _, a := range addrs {
				fmt.Println(a.Format())
			}
			return nil
		})
	},
}

var autocompleteLimit int

var autocompleteCmd = &cobra.Command{
	Use:     "autocomplete <partial-query>",
	Aliases: []string{"complete"},
	Short:   "suggest completions for a partial address",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		return withClient(func(c *geomaps.Client) error {
			results, err := c.Autocomplete(cmd.Context(), query, autocompleteLimit)
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(results)
			}
			for _, r := range results {
				line := r.Address.Format()
				if r.Position != nil {
					line += "  " + r.Position.String()
				}
				fmt.Println(line)
			}
			return nil
		})
	},
}

func init() {
	autocompleteCmd.Flags().IntVar(&autocompleteLimit, "limit", geomaps.DefaultAutocompleteLimit, "maximum number of suggestions")

	rootCmd.AddCommand(geocodeCmd)
	rootCmd.AddCommand(reverseCmd)
	rootCmd.AddCommand(autocompleteCmd)
}
