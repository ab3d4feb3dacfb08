// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jcodagnone/pois/export"
	"github.com/jcodagnone/pois/geocode"
	"github.com/jcodagnone/pois/poi"
	"github.com/jcodagnone/pois/spatial"
	"github.com/jcodagnone/pois/utils/textutils"
	"github.com/jcodagnone/pois/web"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

const msgMissingInput = "Please provide either an address or latitude/longitude."

var errMissingInput = errors.New("an address or both --lat and --lon are required")

type extractOptions struct {
	Address  string
	Lat      float64
	Lon      float64
	HasPoint bool
	RadiusKm float64
	Output   string
	Format   string
	Name     string
}

func (o *extractOptions) format() (export.Format, error) {
	if o.Format == "" {
		return export.FormatFromPath(o.Output), nil
	}

	return export.ParseFormat(o.Format)
}

// extractor runs one extraction and reports the outcome on out.
type extractor struct {
	geocoder geocode.Geocoder
	fetcher  *poi.Fetcher
	out      io.Writer
	bar      *progressbar.ProgressBar
}

func (e *extractor) step(description string) {
	if e.bar == nil {
		return
	}

	e.bar.Describe(description)
	_ = e.bar.Add(1)
}

// run returns errMissingInput when there is nothing to search around. An
// address that cannot be geocoded or an empty area are reported on out and are
// not errors.
func (e *extractor) run(ctx context.Context, opts *extractOptions) error {
	address := strings.TrimSpace(opts.Address)
	if address == "" && !opts.HasPoint {
		fmt.Fprintln(e.out, msgMissingInput)

		return errMissingInput
	}

	if opts.RadiusKm <= 0 {
		return fmt.Errorf("%w: %v", poi.ErrInvalidRadius, opts.RadiusKm)
	}

	format, err := opts.format()
	if err != nil {
		return err
	}

	center := spatial.Point{Lat: opts.Lat, Lng: opts.Lon}

	if address != "" {
		e.step("Geocoding")

		var ok bool

		center, ok = geocode.Resolve(ctx, e.geocoder, address)
		if !ok {
			fmt.Fprintf(e.out, "Could not geocode address: %s\n", address)

			return nil
		}
	}

	e.step("Querying Overpass")

	records := poi.FilterByName(e.fetcher.Fetch(ctx, center, opts.RadiusKm), opts.Name)
	if len(records) == 0 {
		fmt.Fprintln(e.out, web.MsgNoPOIs)

		return nil
	}

	e.step("Writing " + opts.Output)

	extraction := &export.Extraction{
		Address:   address,
		Center:    center,
		RadiusKm:  opts.RadiusKm,
		CreatedAt: time.Now(),
		Records:   records,
	}
	if err := export.WriteFile(opts.Output, format, extraction); err != nil {
		return fmt.Errorf("writing %s: %w", opts.Output, err)
	}

	fmt.Fprintf(e.out, "Successfully extracted %s POIs to %s\n",
		textutils.FormatInt(int64(len(records))), opts.Output)

	return nil
}

var (
	extractOpts       = &extractOptions{}
	extractClientOpts = &clientOptions{}
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the POIs around an address or coordinate into a file",
	Example: `  pois extract --address "Plaza Independencia, Montevideo" --radius 1
  pois extract --lat 40.7128 --lon -74.0060 --output nyc.xlsx
  pois extract --address "Times Square" --name coffee --format geojson --output coffee.geojson`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		extractOpts.HasPoint = cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon")

		geocoder, err := extractClientOpts.newGeocoder(cmd.Context())
		if err != nil {
			return err
		}

		e := &extractor{
			geocoder: geocoder,
			fetcher:  extractClientOpts.newFetcher(),
			out:      cmd.OutOrStdout(),
		}

		if isatty.IsTerminal(os.Stderr.Fd()) {
			e.bar = progressbar.NewOptions(3,
				progressbar.OptionSetDescription("Extracting"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}

		err = e.run(cmd.Context(), extractOpts)
		if e.bar != nil {
			_ = e.bar.Finish()
		}

		if errors.Is(err, errMissingInput) {
			return cmd.Usage()
		}

		return err
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractClientOpts.addFlags(extractCmd)

	extractCmd.Flags().StringVar(&extractOpts.Address, "address", "", "Address to geocode; takes precedence over --lat/--lon")
	extractCmd.Flags().Float64Var(&extractOpts.Lat, "lat", 0, "Latitude of the center")
	extractCmd.Flags().Float64Var(&extractOpts.Lon, "lon", 0, "Longitude of the center")
	extractCmd.Flags().Float64Var(&extractOpts.RadiusKm, "radius", poi.DefaultRadiusKm, "Search radius in kilometers")
	extractCmd.Flags().StringVarP(&extractOpts.Output, "output", "o", "pois.csv", "Output file")
	extractCmd.Flags().StringVar(
		&extractOpts.Format,
		"format",
		"",
		"Output format: csv, xlsx, geojson or duckdb. Defaults to the output file extension",
	)
	extractCmd.Flags().StringVar(&extractOpts.Name, "name", "", "Keep only POIs whose name contains this text")
}
