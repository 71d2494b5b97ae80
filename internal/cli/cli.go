package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/pvgridgo/internal/app"
	"github.com/specialistvlad/pvgridgo/internal/site"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("pvgridgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
pvgridgo - Resolves PV plant configurations into simulation engine inputs.

Usage:
  pvgridgo [options] PLANT_PATH [PLANT_PATH...]

Arguments:
  PLANT_PATH
    Path to a plant file (.hcl, .yaml, .yml, .json) or a directory of them.

Options:
`)
		flagSet.PrintDefaults()
	}

	ref := site.Flatirons()
	plantsFlag := flagSet.String("plants", "", "Path to the plant file or directory.")
	pFlag := flagSet.String("p", "", "Path to the plant file or directory (shorthand).")
	latFlag := flagSet.Float64("lat", ref.Lat, "Site latitude in degrees.")
	lonFlag := flagSet.Float64("lon", ref.Lon, "Site longitude in degrees.")
	siteNameFlag := flagSet.String("site-name", ref.Name, "Site name shown in the report.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	metricsFileFlag := flagSet.String("metrics-file", "", "Write Prometheus metrics to this file when the run ends.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var paths []string
	switch {
	case *plantsFlag != "":
		paths = append(paths, *plantsFlag)
	case *pFlag != "":
		paths = append(paths, *pFlag)
	}
	paths = append(paths, flagSet.Args()...)
	slog.Debug("Plant paths determined.", "paths", paths)

	if len(paths) == 0 {
		slog.Debug("No plant path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Paths:       paths,
		SiteName:    *siteNameFlag,
		Lat:         *latFlag,
		Lon:         *lonFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
		MetricsFile: *metricsFileFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
