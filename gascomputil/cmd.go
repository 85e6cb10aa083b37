/*
Copyright © 2026 the GasComp authors.
This file is part of GasComp.

GasComp is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GasComp is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GasComp.  If not, see <http://www.gnu.org/licenses/>.
*/

package gascomputil

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/flowmodel/gascomp"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to GasComp.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the facility configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path the evaluation report is written to.`,
			shorthand:  "o",
			defaultVal: "gascomp_output.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path log output is written to. If blank,
              logs go to standard error.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "FluidCacheSize",
			usage: `
              FluidCacheSize is the number of fluid property results
              kept in memory. If zero, a default size is used.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "FluidMaxRetries",
			usage: `
              FluidMaxRetries is the number of times a failed fluid
              property query is retried before the evaluation is marked
              invalid.`,
			defaultVal: 2,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("GASCOMP")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "gascomp",
	Short: "A compressor train energy model.",
	Long: `GasComp models the shaft power and turbine fuel usage of gas
compressor trains. Use the subcommands specified below to access the
model functionality.

Configuration can be changed by using a configuration file (and
providing the path to the file using the --config flag), by using
command-line arguments, or by setting environment variables in the
format 'GASCOMP_var' where 'var' is the name of the variable to be
set.`,
	DisableAutoGenTag: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of GasComp.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("GasComp v%s\n", gascomp.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate a facility time series.",
	Long: `run reads the facility configuration, evaluates the compressor
train at every time step, and writes a report with per-step power,
speed, fuel usage and validity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgpath := Cfg.GetString("config")
		if cfgpath == "" {
			return fmt.Errorf("gascomputil: a configuration file is required (--config)")
		}
		cfg, err := ReadConfig(cfgpath)
		if err != nil {
			return err
		}
		if size, err := cast.ToIntE(Cfg.Get("FluidCacheSize")); err == nil && size != 0 {
			cfg.FluidCacheSize = size
		}
		if retries, err := cast.ToIntE(Cfg.Get("FluidMaxRetries")); err == nil {
			cfg.FluidMaxRetries = retries
		}

		log := logrus.New()
		if logpath := Cfg.GetString("LogFile"); logpath != "" {
			f, err := os.Create(logpath)
			if err != nil {
				return fmt.Errorf("gascomputil: creating log file: %v", err)
			}
			defer f.Close()
			log.SetOutput(f)
		}

		return RunSeries(cmd.Context(), cfg, Cfg.GetString("OutputFile"), log)
	},
	DisableAutoGenTag: true,
}

// RunSeries builds the configured models, evaluates the time series,
// and writes the report to outputFile.
func RunSeries(ctx context.Context, cfg *Config, outputFile string, log logrus.FieldLogger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = logrus.New()
	}
	port := cfg.Port()
	train, err := cfg.BuildTrain(port)
	if err != nil {
		return err
	}
	turbine, err := cfg.BuildTurbine()
	if err != nil {
		return err
	}
	steps, err := cfg.BuildSteps()
	if err != nil {
		return err
	}
	results, err := gascomp.Run(ctx, train, turbine, steps, log)
	if err != nil {
		return err
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("gascomputil: creating output file: %v", err)
	}
	defer f.Close()
	if err := WriteReport(f, results); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"file": outputFile}).Info("wrote report")
	return nil
}
