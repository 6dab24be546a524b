// cmd/tvault/vault.go
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage vaults",
	Long:  `Register, select, archive and drop the named vault directories tvault works in.`,
}

func init() {
	var addCmd = &cobra.Command{
		Use:   "add <name> <path>",
		Short: "Register a vault at the given path",
		Long:  `Registers a new vault name pointing at a directory, creating the directory if needed.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}
			if err := reg.Add(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Added vault %q at %s\n", args[0], reg.List()[args[0]])
			return nil
		},
	}

	var removeCmd = &cobra.Command{
		Use:   "remove <name>",
		Short: "Unregister a vault, keeping its files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}
			if err := reg.Remove(args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed vault %q from the registry, its files were kept\n", args[0])
			return nil
		},
	}

	var deleteCmd = &cobra.Command{
		Use:   "delete <name>",
		Short: "Unregister a vault and delete its files",
		Long:  `Removes the vault from the registry and deletes its directory tree. Irreversible.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}
			if err := reg.Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted vault %q and its files\n", args[0])
			return nil
		},
	}

	var switchCmd = &cobra.Command{
		Use:   "switch <name>",
		Short: "Make a vault the current one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}
			if err := reg.Switch(args[0]); err != nil {
				return err
			}
			fmt.Printf("Switched to vault %q\n", args[0])
			return nil
		},
	}

	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered vaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}
			vaults := reg.List()
			if len(vaults) == 0 {
				fmt.Println("No vaults registered")
				return nil
			}
			current, err := reg.Current()
			if err != nil {
				return err
			}
			currentName := ""
			if current != nil {
				currentName = current.Name
			}

			names := make([]string, 0, len(vaults))
			for name := range vaults {
				names = append(names, name)
			}
			sort.Strings(names)

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.SetAllowedRowLength(terminalWidth())
			t.AppendHeader(table.Row{"", "Vault", "Path"})
			for _, name := range names {
				marker := ""
				if name == currentName {
					marker = "*"
				}
				t.AppendRow(table.Row{marker, name, vaults[name]})
			}
			t.Render()
			return nil
		},
	}

	var currentCmd = &cobra.Command{
		Use:   "current",
		Short: "Show the current vault",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}
			current, err := reg.Current()
			if err != nil {
				return err
			}
			if current == nil {
				fmt.Println("No vault selected")
				return nil
			}
			fmt.Printf("%s (%s)\n", current.Name, current.Path)
			return nil
		},
	}

	var dumpCmd = &cobra.Command{
		Use:   "dump <name> <archive.zip>",
		Short: "Export a vault to a zip archive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}
			if err := reg.Dump(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Dumped vault %q to %s\n", args[0], args[1])
			return nil
		},
	}

	var importCmd = &cobra.Command{
		Use:   "import <archive.zip> <target-dir>",
		Short: "Extract a zip archive and register it as a new vault",
		Long: `Extracts the archive into the target directory and registers it under the
directory's base name. A taken name gets a _1, _2, ... suffix.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}
			name, err := reg.Import(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Imported vault %q from %s\n", name, args[0])
			return nil
		},
	}

	vaultCmd.AddCommand(addCmd)
	vaultCmd.AddCommand(removeCmd)
	vaultCmd.AddCommand(deleteCmd)
	vaultCmd.AddCommand(switchCmd)
	vaultCmd.AddCommand(listCmd)
	vaultCmd.AddCommand(currentCmd)
	vaultCmd.AddCommand(dumpCmd)
	vaultCmd.AddCommand(importCmd)

	rootCmd.AddCommand(vaultCmd)
}

func terminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}
