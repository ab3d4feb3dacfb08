// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"log"

	"github.com/jcodagnone/pois/web"
	"github.com/spf13/cobra"
)

var (
	serveAddr       string
	serveClientOpts = &clientOptions{}
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive extraction form",
	RunE: func(cmd *cobra.Command, _ []string) error {
		geocoder, err := serveClientOpts.newGeocoder(cmd.Context())
		if err != nil {
			return err
		}

		log.Printf("Listening on %s", serveAddr)

		return web.NewServer(geocoder, serveClientOpts.newFetcher()).Run(serveAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveClientOpts.addFlags(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Address to listen on")
}
