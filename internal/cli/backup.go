package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cvptools/cvpctl/internal/backup"
)

var backupDirFlag string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export every configlet to local JSON documents",
	Long: `Backup downloads all configlets from the server into a local directory,
one JSON document per configlet plus a manifest describing the set.`,
	RunE: runBackup,
}

func init() {
	backupCmd.Flags().StringVarP(&backupDirFlag, "backup", "b", "", "backup directory (overrides CVP_BACKUP)")
}

func runBackup(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if backupDirFlag != "" {
		cfg.BackupDir = backupDirFlag
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	client, err := connect(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	manifest, err := backup.New(client, logger, cfg.BackupDir).Run(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d configlets to %s\n", manifest.Count, cfg.BackupDir)
	return nil
}
