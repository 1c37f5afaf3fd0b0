//go:build windows

package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"codeberg.org/tamasv/winboard/pkg/winlang"
	"codeberg.org/tamasv/winboard/pkg/winlayouts"
)

func newRootCommand() *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:          "winboard",
		Short:        "Inspect and manage Windows keyboard input languages",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newListCommand(),
		newCurrentCommand(),
		newDefaultCommand(),
		newSetCommand(),
		newNameCommand(),
		newWatchCommand(&debug),
	)

	return root
}

func newResolver() *winlayouts.Resolver {
	return winlayouts.NewResolver(winlang.NewRegistry(), winlang.LoadIndirectString)
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed keyboard layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := winlang.NewClient()
			resolver := newResolver()

			layouts, err := client.Layouts()
			if err != nil {
				return fmt.Errorf("list layouts: %w", err)
			}
			active, err := client.ActiveLayout()
			if err != nil {
				return fmt.Errorf("get active layout: %w", err)
			}

			for _, layout := range layouts {
				line := fmt.Sprintf("%s  %s", layout, resolver.Resolve(layout))
				if layout == active {
					line = color.GreenString("* %s", line)
				} else {
					line = "  " + line
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}

			return nil
		},
	}
}

func newCurrentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the active keyboard layout of the calling thread",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := winlang.NewClient()

			layout, err := client.ActiveLayout()
			if err != nil {
				return fmt.Errorf("get active layout: %w", err)
			}

			printLayout(cmd, client, layout)
			return nil
		},
	}
}

func newDefaultCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "default",
		Short: "Show the system default input language",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := winlang.NewClient()

			layout, err := client.DefaultLayout()
			if err != nil {
				return fmt.Errorf("get default layout: %w", err)
			}

			printLayout(cmd, client, layout)
			return nil
		},
	}
}

func newSetCommand() *cobra.Command {
	var culture string

	cmd := &cobra.Command{
		Use:   "set [handle]",
		Short: "Activate a keyboard layout for the calling thread",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := winlang.NewClient()

			var layout winlayouts.Handle
			switch {
			case culture != "":
				tag, err := language.Parse(culture)
				if err != nil {
					return fmt.Errorf("parse culture %q: %w", culture, err)
				}
				layout, err = client.FromCulture(tag)
				if err != nil {
					return err
				}
			case len(args) == 1:
				var err error
				layout, err = winlayouts.ParseHandle(args[0])
				if err != nil {
					return err
				}
			default:
				return errors.New("a layout handle or --culture is required")
			}

			if err := client.Activate(layout); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "activated %s (%s)\n", layout, newResolver().Resolve(layout))
			return nil
		},
	}
	cmd.Flags().StringVar(&culture, "culture", "", "pick the layout by BCP-47 culture tag")

	return cmd
}

func newNameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "name <handle>",
		Short: "Resolve the display name of a layout handle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := winlayouts.ParseHandle(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), newResolver().Resolve(layout))
			return nil
		},
	}
}

func printLayout(cmd *cobra.Command, client *winlang.Client, layout winlayouts.Handle) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s", layout, newResolver().Resolve(layout))
	if tag, err := client.Culture(layout); err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "  [%s]", tag)
	}
	fmt.Fprintln(cmd.OutOrStdout())
}
