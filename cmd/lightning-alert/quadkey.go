package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/lightning-alert-service/internal/config"
	"github.com/couchcryptid/lightning-alert-service/internal/quadkey"
)

func newQuadkeyCmd(cfg *config.Config) *cobra.Command {
	var lat, lon float64
	var zoom int

	cmd := &cobra.Command{
		Use:   "quadkey",
		Short: "Print the quadkey of a coordinate",
		Long: `Print the tile key a strike at the given coordinate would resolve to.
Useful for filling the quadKey field of an asset registry.`,
		Example: "  lightning-alert quadkey --lat 33.5524951 --lon -94.5822016 --zoom 12",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if zoom < 1 || zoom > quadkey.MaxZoom {
				return fmt.Errorf("invalid zoom %d: must be 1-%d", zoom, quadkey.MaxZoom)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), quadkey.FromLatLon(lat, lon, zoom))
			return err
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in degrees")
	cmd.Flags().IntVar(&zoom, "zoom", cfg.ZoomLevel, "tile zoom level")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")

	return cmd
}
