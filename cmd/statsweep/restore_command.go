package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"statsweep/internal/cleanup"
	"statsweep/internal/history"
)

func newRestoreCommand(ctx *commandContext) *cobra.Command {
	var backupFlag string

	cmd := &cobra.Command{
		Use:   "restore [backup-dir]",
		Short: "Copy a backup back over the archive",
		Long: `Restore copies every JSON file from a backup directory back to its
original location under the data directory. The backup can be named
positionally or with --backup; with neither, the backup from the most
recent executed cleanup is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			started := time.Now().UTC()

			backupDir := backupFlag
			if backupDir == "" && len(args) == 1 {
				backupDir = args[0]
			}
			if backupDir == "" {
				store, err := history.Open(cfg)
				if err != nil {
					return err
				}
				last, err := store.LastExecute(cmd.Context())
				store.Close()
				if errors.Is(err, history.ErrNotFound) {
					return errors.New("no executed cleanup on record; pass a backup directory explicitly")
				}
				if err != nil {
					return err
				}
				if last.BackupPath == "" {
					return fmt.Errorf("run %s recorded no backup path; pass a backup directory explicitly", last.RunID)
				}
				backupDir = last.BackupPath
			}

			restored, err := cleanup.Restore(backupDir, cfg.Paths.DataDir)
			if err != nil {
				return err
			}
			logger.Info("restore complete", "backup", backupDir, "files", restored)

			recordRun(cmd, cfg, &history.Run{
				RunID:        newRunID(),
				Mode:         history.ModeRestore,
				StartedAt:    started,
				FinishedAt:   time.Now().UTC(),
				FilesChanged: restored,
				BackupPath:   backupDir,
			}, logger)

			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d file(s) from %s\n", restored, backupDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&backupFlag, "backup", "", "Backup directory to restore from")
	return cmd
}
