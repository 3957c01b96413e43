/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"vschords/internal/config"
	applog "vschords/internal/log"
	"vschords/internal/palette"
	"vschords/internal/ui"
	"vschords/internal/version"
)

var (
	brand  = color.New(color.FgHiBlue, color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	warn   = color.New(color.FgYellow)
	bad    = color.New(color.FgRed)
)

// cfg is loaded once per invocation before any subcommand runs.
var cfg config.AppConfig

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vschords",
		Short:         "VS Chords: a visual chord sequence editor",
		Long:          brand.Sprint("VS Chords") + " arranges chords on a canvas and links them into progressions.\n" + subtle.Sprint("Run `vschords ui` for the editor or `vschords render` for headless export."),
		Version:       version.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c, err := config.Load()
			if err != nil {
				return err
			}
			cfg = c
			applog.Init(applog.Options{
				Level:     cfg.Logging.Level,
				Format:    cfg.Logging.Format,
				AddSource: cfg.Logging.Source,
				File:      cfg.Logging.File,
			})
			applog.WithComponent("cli").Debug("start", slog.String("cmd", cmd.CommandPath()))
			return nil
		},
	}
	root.SetVersionTemplate("VS Chords {{ .Version }}\n")
	root.AddCommand(uiCmd(), renderCmd(), paletteCmd(), configCmd(), versionCmd())
	return root
}

func uiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Launch the desktop editor (build with -tags fyne)",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return ui.Run(cfg)
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "VS Chords")
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

func paletteCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "palette",
		Short: "List the chord palette",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := resolvePalette(file)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, it := range items {
				c, _ := palette.ParseHex(it.Color)
				swatch := color.RGB(int(c.R), int(c.G), int(c.B)).Sprint("■")
				fmt.Fprintf(out, "  %s %-12s %s\n", swatch, it.Label, subtle.Sprint(it.Color))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "palette file (.yaml, .json or .toml); defaults to the configured one")
	return cmd
}

// resolvePalette loads file, else the configured palette file, else the default.
func resolvePalette(file string) ([]palette.Item, error) {
	if file == "" {
		file = cfg.Editor.PaletteFile
	}
	if file == "" {
		return palette.Default(), nil
	}
	return palette.Load(file)
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the user configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				p, err := config.ConfigPath()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), p)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration (file, .env and environment merged)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				b, err := yaml.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("encode config: %w", err)
				}
				_, err = cmd.OutOrStdout().Write(b)
				return err
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write a config file with default values if none exists",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				p, err := config.ConfigPath()
				if err != nil {
					return err
				}
				if _, err := os.Stat(p); err == nil {
					warn.Fprintf(cmd.OutOrStdout(), "config already exists: %s\n", p)
					return nil
				}
				if err := config.Save(config.Defaults()); err != nil {
					return err
				}
				good.Fprintf(cmd.OutOrStdout(), "wrote %s\n", p)
				return nil
			},
		},
	)
	return cmd
}
