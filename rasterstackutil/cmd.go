/*
Copyright © 2019 the rasterstack authors.
This file is part of rasterstack.

rasterstack is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

rasterstack is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with rasterstack.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package rasterstackutil contains the command-line interface and
// configuration handling for rasterstack.
package rasterstackutil

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/skratchdot/open-golang/open"
	"github.com/spatialmodel/rasterstack"
	"github.com/spatialmodel/rasterstack/geotiff"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg holds configuration information.
type Cfg struct {
	*viper.Viper

	// Root is the main command.
	Root *cobra.Command

	convertCmd, extractCmd, datesCmd, sampleCmd, versionCmd *cobra.Command

	// Log receives progress messages.
	Log *logrus.Logger
}

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

// InitializeConfig creates the configuration and commands.
func InitializeConfig() *Cfg {
	cfg := &Cfg{
		Viper: viper.New(),
		Log:   logrus.New(),
	}

	cfg.Root = &cobra.Command{
		Use:   "rasterstack",
		Short: "Stack monthly rasters into a NetCDF time series.",
		Long: `rasterstack combines a directory of single-band rasters, one per month,
into a single time × y × x array stored in a NetCDF file, and extracts the
time series of individual pixels to CSV files and plots.

Input file names must follow the pattern <prefix>_<YYYYMM>_<suffix>.tif,
for example AET_198010_ok.tif, where YYYYMM is the year and month of the data.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'RASTERSTACK_var' where 'var' is the
name of the variable to be set, with '.' replaced by '_'. Input and output
paths are additionally allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.setConfig(cmd)
		},
	}

	cfg.versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "version prints the version number of this version of rasterstack.",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("rasterstack v%s\n", rasterstack.Version)
		},
		DisableAutoGenTag: true,
	}

	cfg.convertCmd = &cobra.Command{
		Use:   "convert",
		Short: "Stack rasters and write them to a NetCDF file.",
		Long: `convert finds the rasters in InputDir that match Pattern, sorts them by
the date in their file names, stacks them along a time dimension, and writes
the result to OutputFile. If CSVFile or PlotFile is set, the time series of the
pixel specified by Pixel.X and Pixel.Y (or Pixel.Coordinate) is also extracted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := cfg.convertOptions()
			if err != nil {
				return err
			}
			_, ts, err := Convert(cmd.Context(), geotiff.Reader{Band: cfg.GetInt("Band")}, opts, cfg.Log)
			if err != nil {
				return err
			}
			return cfg.show(cmd, ts, opts.Extract)
		},
		DisableAutoGenTag: true,
	}

	cfg.extractCmd = &cobra.Command{
		Use:   "extract",
		Short: "Extract a pixel time series from a NetCDF file.",
		Long: `extract reads the NetCDF file created by the convert command (OutputFile)
and writes the time series of the pixel specified by Pixel.X and Pixel.Y
(or Pixel.Coordinate) to CSVFile and, optionally, PlotFile.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := cfg.extractOptions()
			if err != nil {
				return err
			}
			inputFile, err := checkInputFile(cfg.GetString("OutputFile"))
			if err != nil {
				return err
			}
			ts, err := Extract(cmd.Context(), inputFile, cfg.GetString("Variable"), opts, cfg.Log)
			if err != nil {
				return err
			}
			return cfg.show(cmd, ts, opts)
		},
		DisableAutoGenTag: true,
	}

	cfg.datesCmd = &cobra.Command{
		Use:   "dates",
		Short: "List the input rasters and their dates.",
		Long: `dates lists the rasters in InputDir that match Pattern in the order
they would be stacked, along with the date parsed from each file name.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := checkInputDir(cfg.GetString("InputDir"))
			if err != nil {
				return err
			}
			inputs, err := ListInputs(cmd.Context(), dir, cfg.GetString("Pattern"))
			if err != nil {
				return err
			}
			for _, in := range inputs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", rasterstack.DateString(in.Date), in.Path)
			}
			return nil
		},
		DisableAutoGenTag: true,
	}

	cfg.sampleCmd = &cobra.Command{
		Use:   "sample",
		Short: "Create sample input rasters.",
		Long: `sample writes a set of synthetic monthly GeoTIFF rasters with a seasonal
cycle to Sample.OutputDir. The rasters can be used to try out the
convert and extract commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := cfg.sampleConfig()
			if err != nil {
				return err
			}
			files, err := Sample(sc)
			if err != nil {
				return err
			}
			cfg.Log.WithField("dir", sc.OutputDir).Infof("created %d sample rasters", len(files))
			return nil
		},
		DisableAutoGenTag: true,
	}

	cfg.Root.AddCommand(cfg.versionCmd, cfg.convertCmd, cfg.extractCmd, cfg.datesCmd, cfg.sampleCmd)

	extractSets := []*pflag.FlagSet{cfg.convertCmd.Flags(), cfg.extractCmd.Flags()}
	inputSets := []*pflag.FlagSet{cfg.convertCmd.Flags(), cfg.datesCmd.Flags()}

	// Options are the configuration options available to rasterstack.
	options := []option{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name: "log-level",
			usage: `
              log-level specifies the minimum level of log messages to print.
              Valid levels are "debug", "info", "warn", and "error".`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name: "InputDir",
			usage: `
              InputDir is the directory holding the input rasters. It can
              include environment variables, and can be a blob storage
              location (e.g., gs://bucket/data).`,
			defaultVal: "../data",
			shorthand:  "i",
			flagsets:   inputSets,
		},
		{
			name: "Pattern",
			usage: `
              Pattern is the glob pattern that input raster file names must match.`,
			defaultVal: "*.tif",
			flagsets:   inputSets,
		},
		{
			name: "Variable",
			usage: `
              Variable is the name of the stacked variable in the NetCDF file.
              If empty, the part of the first input file name before the first
              underscore is used when converting, and the first time-varying
              variable in the file is used when extracting.`,
			defaultVal: "",
			flagsets:   extractSets,
		},
		{
			name: "Units",
			usage: `
              Units are the units of the input raster values.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "Description",
			usage: `
              Description is a description of the input raster values.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "Band",
			usage: `
              Band is the 1-based index of the raster band to read.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "Chunks.X",
			usage: `
              Chunks.X is the width in pixels of the windows that rasters are read in.
              Zero or a negative number means the whole raster width.`,
			defaultVal: rasterstack.DefaultChunks.X,
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "Chunks.Y",
			usage: `
              Chunks.Y is the height in pixels of the windows that rasters are read in.
              Zero or a negative number means the whole raster height.`,
			defaultVal: rasterstack.DefaultChunks.Y,
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the NetCDF file that the stacked rasters
              are written to by the convert command and read from by the extract
              command. It can include environment variables and can be a blob
              storage location.`,
			defaultVal: "AET_ok.nc",
			shorthand:  "o",
			flagsets:   extractSets,
		},
		{
			name: "CSVFile",
			usage: `
              CSVFile is the path to the CSV file that the pixel time series is
              written to. If empty, no CSV file is written. It can include environment
              variables and can be a blob storage location.`,
			defaultVal: "AET_ok.csv",
			flagsets:   extractSets,
		},
		{
			name: "PlotFile",
			usage: `
              PlotFile is the path to the image file that a plot of the pixel time series
              is written to. The image format is determined by the file extension
              (e.g., .png, .svg, or .pdf). If empty, no plot is created.`,
			defaultVal: "",
			flagsets:   extractSets,
		},
		{
			name: "Pixel.X",
			usage: `
              Pixel.X is the column index of the pixel to extract.`,
			defaultVal: 200,
			flagsets:   extractSets,
		},
		{
			name: "Pixel.Y",
			usage: `
              Pixel.Y is the row index of the pixel to extract, counting from the top.`,
			defaultVal: 200,
			flagsets:   extractSets,
		},
		{
			name: "Pixel.Coordinate",
			usage: `
              Pixel.Coordinate, if set, is the map coordinate (x,y) of the pixel to
              extract in the spatial reference of the rasters. It overrides
              Pixel.X and Pixel.Y.`,
			defaultVal: []string{},
			flagsets:   extractSets,
		},
		{
			name: "HeadRows",
			usage: `
              HeadRows is the number of rows of the pixel time series to print.`,
			defaultVal: 5,
			flagsets:   extractSets,
		},
		{
			name: "Show",
			usage: `
              Show specifies whether to open PlotFile in the default viewer
              after it is created.`,
			defaultVal: false,
			flagsets:   extractSets,
		},
		{
			name: "Sample.OutputDir",
			usage: `
              Sample.OutputDir is the directory the sample rasters are written to.`,
			defaultVal: "../data",
			flagsets:   []*pflag.FlagSet{cfg.sampleCmd.Flags()},
		},
		{
			name: "Sample.Prefix",
			usage: `
              Sample.Prefix is the variable name at the start of the sample file names.`,
			defaultVal: "AET",
			flagsets:   []*pflag.FlagSet{cfg.sampleCmd.Flags()},
		},
		{
			name: "Sample.Start",
			usage: `
              Sample.Start is the month of the first sample raster, in YYYYMM format.`,
			defaultVal: "198010",
			flagsets:   []*pflag.FlagSet{cfg.sampleCmd.Flags()},
		},
		{
			name: "Sample.Months",
			usage: `
              Sample.Months is the number of sample rasters to create.`,
			defaultVal: 12,
			flagsets:   []*pflag.FlagSet{cfg.sampleCmd.Flags()},
		},
		{
			name: "Sample.NX",
			usage: `
              Sample.NX is the number of columns in the sample rasters.`,
			defaultVal: 300,
			flagsets:   []*pflag.FlagSet{cfg.sampleCmd.Flags()},
		},
		{
			name: "Sample.Resolution",
			usage: `
              Sample.Resolution is the pixel size of the sample rasters in degrees.`,
			defaultVal: 0.01,
			flagsets:   []*pflag.FlagSet{cfg.sampleCmd.Flags()},
		},
		{
			name: "Sample.NY",
			usage: `
              Sample.NY is the number of rows in the sample rasters.`,
			defaultVal: 300,
			flagsets:   []*pflag.FlagSet{cfg.sampleCmd.Flags()},
		},
	}

	// Set the prefix for configuration environment variables.
	cfg.SetEnvPrefix("RASTERSTACK")
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	cfg.AutomaticEnv()

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
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
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
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
	return cfg
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets up logging.
func (cfg *Cfg) setConfig(cmd *cobra.Command) error {
	if cfgpath := cfg.GetString("config"); cfgpath != "" {
		cfg.SetConfigFile(cfgpath)
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("rasterstack: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(cfg.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("rasterstack: invalid log-level: %v", err)
	}
	cfg.Log.SetLevel(level)
	cfg.Log.SetOutput(cmd.ErrOrStderr())
	return nil
}

// show prints the beginning of ts and opens the plot if requested.
func (cfg *Cfg) show(cmd *cobra.Command, ts *rasterstack.Series, opts *ExtractOptions) error {
	if ts == nil || opts == nil {
		return nil
	}
	if opts.HeadRows > 0 {
		fmt.Fprint(cmd.OutOrStdout(), ts.Head(opts.HeadRows).Table())
	}
	if opts.Show && opts.PlotFile != "" && !isRemote(opts.PlotFile) {
		if err := open.Run(opts.PlotFile); err != nil {
			return fmt.Errorf("rasterstack: opening plot: %v", err)
		}
	}
	return nil
}
