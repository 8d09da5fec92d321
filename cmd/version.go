package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const repoSlug = "s0up4200/eventful"

var (
	appVersion   = "dev"
	appBuildTime = "unknown"
)

// SetVersion records build information injected by main
func SetVersion(version, buildTime string) {
	appVersion = version
	appBuildTime = buildTime
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Annotations: map[string]string{
		skipInit: "true",
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("eventful %s (built %s)\n", appVersion, appBuildTime)
	},
}

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update eventful to the latest release",
	Annotations: map[string]string{
		skipInit: "true",
	},
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	current, err := currentVersion(appVersion)
	if err != nil {
		return err
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repoSlug))
	if err != nil {
		return fmt.Errorf("error detecting latest release: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", repoSlug)
	}

	if latest.LessOrEqual(current.String()) {
		fmt.Printf("✓ Already up to date (%s)\n", current)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	logger.Info().Str("from", current.String()).Str("to", latest.Version()).Msg("Updating eventful")
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("error updating binary: %w", err)
	}

	fmt.Printf("✓ Updated to %s\n", latest.Version())
	return nil
}

// currentVersion parses the build version; development builds cannot be updated.
func currentVersion(v string) (semver.Version, error) {
	if v == "" || v == "dev" {
		return semver.Version{}, errors.New("development builds cannot be updated")
	}
	parsed, err := semver.ParseTolerant(v)
	if err != nil {
		return semver.Version{}, fmt.Errorf("invalid build version %q: %w", v, err)
	}
	return parsed, nil
}
