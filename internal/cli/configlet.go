package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cvptools/cvpctl/internal/action"
	"github.com/cvptools/cvpctl/internal/runner"
)

var (
	configletFile    string
	configletDevices []string
	configletApply   bool
)

var configletCmd = &cobra.Command{
	Use:   "configlet",
	Short: "Work with individual configlets",
}

var configletPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload one configlet file, creating or updating as needed",
	Long: `Push uploads a single configlet without writing a task file. The
server-side name is the file's base name; an existing configlet is updated
in place, a missing one is created.`,
	RunE: runConfigletPush,
}

func init() {
	configletPushCmd.Flags().StringVarP(&configletFile, "configlet", "c", "", "configlet file to upload")
	configletPushCmd.MarkFlagRequired("configlet")
	configletPushCmd.Flags().StringSliceVar(&configletDevices, "devices", nil, "devices to apply the configlet to")
	configletPushCmd.Flags().BoolVar(&configletApply, "apply", false, "execute spawned tasks instead of leaving them pending")

	configletCmd.AddCommand(configletPushCmd)
}

func runConfigletPush(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client, err := connect(ctx, cfg)
	if err != nil {
		return err
	}

	actions := []action.Action{{
		Name:      "push " + configletFile,
		Type:      action.KindConfiglet,
		Action:    action.OpUpdate,
		Configlet: configletFile,
		Devices:   configletDevices,
		Apply:     configletApply,
	}}

	r := runner.New(client, logger).WithScheduleDefaults(cfg.Timezone, cfg.Country)
	return r.Run(ctx, actions)
}
