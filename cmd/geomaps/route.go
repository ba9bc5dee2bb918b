package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fernwhistle/geomaps"
)

var (
	flagMode  string
	flagUnits string
)

var routeCmd = &cobra.Command{
	Use:   "route <from-lat,lon> <to-lat,lon>",
	Short: "compute the best route between two points",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := geomaps.ParseCoordinate(args[0])
		if err != nil {
			return err
		}
		target, err := geomaps.ParseCoordinate(args[1])
		if err != nil {
			return err
		}
		units := geomaps.DistanceUnit(flagUnits)
		if err := geomaps.ValidateUnits(units); err != nil {
			return err
		}

		return withClient(func(c *geomaps.Client) error {
			route, err := c.Route(cmd.Context(), source, target, geomaps.TravelMode(flagMode))
			if err != nil {
				return err
			}
			if flagJSON {
				return printJSON(route)
			}
			fmt.Printf("%s: %.1f %s, %.0f min\n",
				route.Mode, units.FromMeters(route.DistanceMeters), units, route.Minutes())
			return nil
		})
	},
}

var (
	flagSources []string
	flagTargets []string
)

var matrixCmd = &cobra.Command{
	Use:   "matrix --source <lat,lon> --target <lat,lon>",
	Short: "compute pairwise travel distances and durations",
	RunE: func(cmd *cobra.Command, args []string) error {
		sources, err := parsePointFlags(flagSources)
		if err != nil {
			return err
		}
		targets, err := parsePointFlags(flagTargets)
		if err != nil {
			return err
		}
		units := geomaps.DistanceUnit(flagUnits)

		return withClient(func(c *geomaps.Client) error {
			result, err := c.DistanceMatrix(cmd.Context(), sources, targets, geomaps.TravelMode(flagMode), units)
			if err != nil {
				return err
			}
			if flagJSON {
				return printMatrixJSON(result, units)
			}
			printMatrixTable(result, units)
			return nil
		})
	},
}

func parsePointFlags(raw []string) ([]geomaps.Coordinate, error) {
	points := make([]geomaps.Coordinate, 0, len(raw))
	for _, s := range raw {
		p, err := geomaps.ParseCoordinate(s)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

// printMatrixJSON emits the matrix with nulls for unreachable cells, since
// NaN is not valid JSON.
func printMatrixJSON(result geomaps.DistanceMatrixResult, units geomaps.DistanceUnit) error {
	type jsonMatrix struct {
		Sources   []geomaps.Coordinate `json:"sources"`
		Targets   []geomaps.Coordinate `json:"targets"`
		Units     geomaps.DistanceUnit `json:"units"`
		Distances [][]*float64         `json:"distances"`
		Durations [][]*float64         `json:"durations"`
	}

	out := jsonMatrix{Sources: result.Sources, Targets: result.Targets, Units: units}
	for i := range result.Distances {
		distRow := make([]*float64, len(result.Distances[i]))
		durRow := make([]*float64, len(result.Durations[i]))
		for j := range result.Distances[i] {
			if d := result.Distances[i][j]; !geomaps.IsUnreachable(d) {
				converted := units.FromMeters(d)
				distRow[j] = &converted
			}
			if d := result.Durations[i][j]; !geomaps.IsUnreachable(d) {
				duration := d
				durRow[j] = &duration
			}
		}
		out.Distances = append(out.Distances, distRow)
		out.Durations = append(out.Durations, durRow)
	}
	return printJSON(out)
}

func printMatrixTable(result geomaps.DistanceMatrixResult, units geomaps.DistanceUnit) {
	for i, src := range result.Sources {
		for j, dst := range result.Targets {
			dist, dur := result.At(i, j)
			if geomaps.IsUnreachable(dist) {
				fmt.Printf("%s -> %s: unreachable\n", src, dst)
				continue
			}
			fmt.Printf("%s -> %s: %.1f %s, %.0f min\n",
				src, dst, units.FromMeters(dist), units, dur/60)
		}
	}
}

func init() {
	for _, cmd := range []*cobra.Command{routeCmd, matrixCmd} {
		cmd.Flags().StringVar(&flagMode, "mode", string(geomaps.ModeDriving),
			fmt.Sprintf("travel mode (%s)", strings.Join([]string{
				string(geomaps.ModeDriving), string(geomaps.ModeWalking),
				string(geomaps.ModeCycling), string(geomaps.ModeTruck),
			}, ", ")))
		cmd.Flags().StringVar(&flagUnits, "units", string(geomaps.UnitKilometers), "distance unit (m, km, mi)")
	}
	matrixCmd.Flags().StringArrayVar(&flagSources, "source", nil, "source point, repeatable")
	matrixCmd.Flags().StringArrayVar(&flagTargets, "target", nil, "target point, repeatable")

	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(matrixCmd)
}
