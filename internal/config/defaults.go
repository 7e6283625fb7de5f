package config

const (
	defaultDataDir   = "~/.local/share/statsweep/data"
	defaultBackupDir = "~/.local/share/statsweep/backups"
	defaultReportDir = "~/.local/share/statsweep/reports"
	defaultLogDir    = "~/.local/share/statsweep/logs"

	defaultLoadWorkers = 4

	defaultCrossDateConfidence    = 0.90
	defaultSameDateConfidence     = 0.85
	defaultPlayerWindowConfidence = 0.80
	defaultHighConfidence         = 0.90

	defaultCorruptionWindowStart = "2025-07-02"
	defaultCorruptionWindowEnd   = "2025-07-09"

	defaultSafetyMaxFiles       = 100
	defaultSafetyMaxPlayers     = 500
	defaultSafetyMaxRemovals    = 1000
	defaultBackupRetentionDays  = 30
	defaultDownstreamTimeout    = 300
	defaultNotifyRequestTimeout = 10

	defaultLogFormat = "auto"
	defaultLogLevel  = "info"
)

func defaultPeriods() []string {
	return []string{"march", "april", "may", "june", "july", "august", "september"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			BackupDir: defaultBackupDir,
			ReportDir: defaultReportDir,
			LogDir:    defaultLogDir,
		},
		Dataset: Dataset{
			Periods:     defaultPeriods(),
			LoadWorkers: defaultLoadWorkers,
		},
		Policy: Policy{
			CrossDateConfidence:    defaultCrossDateConfidence,
			SameDateConfidence:     defaultSameDateConfidence,
			PlayerWindowConfidence: defaultPlayerWindowConfidence,
			HighConfidence:         defaultHighConfidence,
			CorruptionWindowStart:  defaultCorruptionWindowStart,
			CorruptionWindowEnd:    defaultCorruptionWindowEnd,
		},
		Thresholds: Thresholds{
			Auto: Tier{
				MaxRemovals:          20,
				MinWindowCorrelation: 0.80,
				MaxImpact:            0.005,
				MinAvgConfidence:     0.95,
			},
			Manual: Tier{
				MaxRemovals:          50,
				MinWindowCorrelation: 0.70,
				MaxImpact:            0.010,
				MinAvgConfidence:     0.90,
			},
		},
		Safety: Safety{
			MaxFiles:            defaultSafetyMaxFiles,
			MaxPlayers:          defaultSafetyMaxPlayers,
			MaxRemovals:         defaultSafetyMaxRemovals,
			BackupRetentionDays: defaultBackupRetentionDays,
		},
		Downstream: Downstream{
			TimeoutSeconds: defaultDownstreamTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Cleanup:        true,
			Review:         true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
