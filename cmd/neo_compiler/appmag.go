package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaman1337/neo-data/internal/photometry"
)

var appmagCommand = &cobra.Command{
	Use:   "appmag",
	Short: "Compute the H-G apparent magnitude of an asteroid",
	Long: `Computes the apparent magnitude of an asteroid from its absolute magnitude H
and the vectors from the object to the observer and to the Sun, both given in
AU as comma-free x y z triples.`,
	RunE: runAppmagCmd,
}

var (
	appmagH     float64
	appmagG     float64
	appmagToObs []float64
	appmagToSun []float64
	appmagAsIrr bool
)

func init() {
	appmagCommand.Flags().Float64Var(&appmagH, "abs-mag", 0, "Absolute magnitude H")
	appmagCommand.Flags().Float64Var(&appmagG, "slope-g", photometry.DefaultSlopeG, "Magnitude slope parameter G")
	appmagCommand.Flags().Float64SliceVar(&appmagToObs, "to-observer", nil, "Object-to-observer vector in AU, e.g. -1,0,0")
	appmagCommand.Flags().Float64SliceVar(&appmagToSun, "to-sun", nil, "Object-to-Sun vector in AU, e.g. -2,0,0")
	appmagCommand.Flags().BoolVar(&appmagAsIrr, "irradiance", false, "Also print the corresponding irradiance in W/m^2")
	_ = appmagCommand.MarkFlagRequired("abs-mag")
	_ = appmagCommand.MarkFlagRequired("to-observer")
	_ = appmagCommand.MarkFlagRequired("to-sun")

	rootCmd.AddCommand(appmagCommand)
}

func runAppmagCmd(_ *cobra.Command, _ []string) error {
	toObs, err := vec3(appmagToObs)
	if err != nil {
		return fmt.Errorf("--to-observer: %w", err)
	}
	toSun, err := vec3(appmagToSun)
	if err != nil {
		return fmt.Errorf("--to-sun: %w", err)
	}

	mag, err := photometry.AppMag(appmagH, toObs, toSun, appmagG)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "apparent magnitude: %.6f\n", mag)
	if appmagAsIrr {
		fmt.Fprintf(os.Stdout, "irradiance: %.6e W/m^2\n", photometry.AppMagToIrradiance(mag))
	}
	return nil
}

func vec3(v []float64) ([3]float64, error) {
	if len(v) != 3 {
		return [3]float64{}, fmt.Errorf("expected 3 components, got %d", len(v))
	}
	return [3]float64{v[0], v[1], v[2]}, nil
}
