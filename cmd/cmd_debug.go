// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/jcodagnone/pois/geocode"
	"github.com/jcodagnone/pois/poi"
	"github.com/jcodagnone/pois/spatial"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

var (
	debugCenter   spatial.Point
	debugRadiusKm float64
)

var debugQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Print the bounding box and the Overpass QL for a center, without calling Overpass",
	Example: `  pois debug query --lat 40.7128 --lon -74.0060 --radius 1 | \
    curl -s --data-urlencode data@- https://overpass-api.de/api/interpreter`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if debugRadiusKm <= 0 {
			return fmt.Errorf("%w: %v", poi.ErrInvalidRadius, debugRadiusKm)
		}

		bbox := spatial.BoundingBoxAround(debugCenter, debugRadiusKm)
		fmt.Fprintf(os.Stderr, "center %s, radius %v km, bbox (s,w,n,e) %s\n", debugCenter, debugRadiusKm, bbox)
		fmt.Println(poi.BuildQuery(bbox, poi.Categories, poi.QueryTimeout))

		return nil
	},
}

var debugGeocodeClientOpts = &clientOptions{}

var debugGeocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Geocode addresses read from stdin",
	Long: `Reads one address per line, and prints the address followed by the
coordinate and the provider's name for it.

$ echo "Plaza Independencia, Montevideo" | pois debug geocode
Plaza Independencia, Montevideo	(-34.906500, -56.199700)	Plaza Independencia, Ciudad Vieja, Montevideo, …
`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		geocoder, err := debugGeocodeClientOpts.newGeocoder(cmd.Context())
		if err != nil {
			return err
		}

		input := os.Stdin
		if isatty.IsTerminal(input.Fd()) {
			fmt.Fprintln(os.Stderr, "Enter addresses to geocode, one per line…")
		}

		scanner := bufio.NewScanner(input)
		for scanner.Scan() {
			address := scanner.Text()
			if address == "" {
				continue
			}

			result, err := geocoder.Geocode(cmd.Context(), address)
			if err != nil {
				fmt.Printf("%s\t%q\n", address, err)
			} else {
				fmt.Printf("%s\t%s\t%s\n", address, result.Point, result.DisplayName)
			}
		}

		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugQueryCmd)
	debugCmd.AddCommand(debugGeocodeCmd)

	debugQueryCmd.Flags().Float64Var(&debugCenter.Lat, "lat", 0, "Latitude of the center")
	debugQueryCmd.Flags().Float64Var(&debugCenter.Lng, "lon", 0, "Longitude of the center")
	debugQueryCmd.Flags().Float64Var(&debugRadiusKm, "radius", poi.DefaultRadiusKm, "Search radius in kilometers")
	_ = debugQueryCmd.MarkFlagRequired("lat")
	_ = debugQueryCmd.MarkFlagRequired("lon")

	debugGeocodeClientOpts.addFlags(debugGeocodeCmd)
}
