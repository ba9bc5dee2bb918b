package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fernwhistle/geomaps"
	"github.com/fernwhistle/geomaps/geoapify"
)

var rootCmd = &cobra.Command{
	Use:   "geomaps",
	Short: "location lookups from the command line",
	Long: `
geomaps resolves addresses and coordinates against a location provider:
forward and reverse geocoding, address autocompletion, point-to-point
routes, and travel distance matrices.

The provider API key is taken from --api-key or the GEOAPIFY_API_KEY
environment variable.
`,
	SilenceUsage: true,
}

var (
	flagAPIKey  string
	flagBaseURL string
	flagTimeout time.Duration
	flagJSON    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "provider API key (defaults to GEOAPIFY_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "override the provider endpoint")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", geoapify.DefaultTimeout, "per-request timeout")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "print raw JSON instead of formatted output")
}

// Execute runs the CLI.
func Execute(version string) {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newProvider builds the vendor adapter from the persistent flags.
func newProvider() (geomaps.Provider, error) {
	key := flagAPIKey
	if key == "" {
		key = os.Getenv("GEOAPIFY_API_KEY")
	}
	if key == "" {
		return nil, fmt.Errorf("no API key: pass --api-key or set GEOAPIFY_API_KEY")
	}
	return geoapify.New(geoapify.Config{
		APIKey:  key,
		BaseURL: flagBaseURL,
		Timeout: flagTimeout,
	})
}

// withClient scopes a provider to the callback and releases it afterwards.
func withClient(fn func(*geomaps.Client) error) error {
	provider, err := newProvider()
	if err != nil {
		return err
	}
	return geomaps.With(provider, fn)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
