// cmd/tvault/file.go
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/UniBinary/TextVault/internal/diff"
	"github.com/UniBinary/TextVault/internal/editor"
)

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Work with files in the current vault",
	Long:  `Create, edit, back up, compare and recover the text files of the current vault.`,
}

func init() {
	var createCmd = &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new empty file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openCurrentStore()
			if err != nil {
				return err
			}
			if err := s.Create(args[0]); err != nil {
				return err
			}
			fmt.Printf("Created file %q\n", args[0])
			return nil
		},
	}

	var readBackupSpec string
	var readCmd = &cobra.Command{
		Use:   "read <name>",
		Short: "Print a file's content",
		Long:  `Prints the current content, or with --backup the content of the selected backup.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openCurrentStore()
			if err != nil {
				return err
			}
			var content []byte
			if readBackupSpec != "" {
				content, err = s.ReadBackup(args[0], readBackupSpec)
			} else {
				content, err = s.Read(args[0])
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(content)
			return err
		},
	}

	var updateBackup bool
	var updateEditor string
	var updateCmd = &cobra.Command{
		Use:   "update <name>",
		Short: "Open a file in the editor",
		Long: `Opens the file's content in the configured editor and waits for it to exit.
With --backup the pre-edit content is snapshotted first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openCurrentStore()
			if err != nil {
				return err
			}
			command := updateEditor
			if command == "" {
				command = cfg.Editor
			}
			ed := editor.New(command)
			if err := s.Update(args[0], updateBackup, ed); err != nil {
				return err
			}
			fmt.Printf("Updated file %q\n", args[0])
			return nil
		},
	}

	var deleteBackups string
	var deleteCmd = &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a file, or some of its backups",
		Long: `Without --backup, deletes the file together with its whole backup history.
With --backup=all every backup goes; with --backup=N the N oldest go. The
file itself survives any --backup form.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openCurrentStore()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("backup") {
				if err := s.Delete(args[0]); err != nil {
					return err
				}
				fmt.Printf("Deleted file %q and its backups\n", args[0])
				return nil
			}
			removed, err := s.DeleteBackups(args[0], deleteBackups)
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d backup(s) of %q\n", removed, args[0])
			return nil
		},
	}

	var renameCmd = &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a file and its backups",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openCurrentStore()
			if err != nil {
				return err
			}
			if err := s.Rename(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Renamed %q to %q\n", args[0], args[1])
			return nil
		},
	}

	var backupCmd = &cobra.Command{
		Use:   "backup <name>",
		Short: "Snapshot a file's current content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openCurrentStore()
			if err != nil {
				return err
			}
			objName, err := s.Backup(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Created backup %s\n", objName)
			return nil
		},
	}

	var recoverCmd = &cobra.Command{
		Use:   "recover <name> <spec>",
		Short: "Restore a file's content from a backup",
		Long: `Overwrites the current content with the selected backup's content. The
backup stays in place. The spec is latest, an ordinal counting back from
the newest, an exact YYYY_MM_DD-hh:mm:ss timestamp, or a YYYY_MM_DD date.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openCurrentStore()
			if err != nil {
				return err
			}
			used, err := s.Recover(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Recovered %q from %s\n", args[0], used)
			return nil
		},
	}

	var diffCmd = &cobra.Command{
		Use:   "diff <name> [spec]",
		Short: "Compare a file with one of its backups",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openCurrentStore()
			if err != nil {
				return err
			}
			spec := "latest"
			if len(args) == 2 {
				spec = args[1]
			}
			result, used, err := s.Diff(args[0], spec)
			if err != nil {
				return err
			}
			if !result.Changed() {
				fmt.Printf("No changes between %q and %s\n", args[0], used)
				return nil
			}
			fmt.Printf("diff %s -> %s\n", used, args[0])
			printColoredDiff(result)
			return nil
		},
	}

	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the files of the current vault",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openCurrentStore()
			if err != nil {
				return err
			}
			entries := s.Entries()
			if len(entries) == 0 {
				fmt.Println("Vault is empty")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.SetAllowedRowLength(terminalWidth())
			t.AppendHeader(table.Row{"File", "Backups", "Size", "Modified"})
			for _, e := range entries {
				modified := ""
				if !e.ModTime.IsZero() {
					modified = e.ModTime.Format("2006-01-02 15:04:05")
				}
				t.AppendRow(table.Row{e.Name, e.Backups, humanSize(e.Size), modified})
			}
			t.Render()
			return nil
		},
	}

	readCmd.Flags().StringVar(&readBackupSpec, "backup", "", "backup spec: latest, an ordinal, YYYY_MM_DD-hh:mm:ss or YYYY_MM_DD")

	updateCmd.Flags().BoolVar(&updateBackup, "backup", false, "snapshot the content before editing")
	updateCmd.Flags().StringVar(&updateEditor, "editor", "", "editor command for this run")

	deleteCmd.Flags().StringVar(&deleteBackups, "backup", "", "delete backups instead of the file: \"all\" or the N oldest")
	deleteCmd.Flags().Lookup("backup").NoOptDefVal = "all"

	fileCmd.AddCommand(createCmd)
	fileCmd.AddCommand(readCmd)
	fileCmd.AddCommand(updateCmd)
	fileCmd.AddCommand(deleteCmd)
	fileCmd.AddCommand(renameCmd)
	fileCmd.AddCommand(backupCmd)
	fileCmd.AddCommand(recoverCmd)
	fileCmd.AddCommand(diffCmd)
	fileCmd.AddCommand(listCmd)

	rootCmd.AddCommand(fileCmd)
}

func printColoredDiff(result *diff.Result) {
	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)

	for _, line := range result.Lines {
		switch line.Type {
		case diff.Addition:
			added.Printf("+ %s\n", line.Content)
		case diff.Deletion:
			removed.Printf("- %s\n", line.Content)
		default:
			fmt.Printf("  %s\n", line.Content)
		}
	}
}

func humanSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
