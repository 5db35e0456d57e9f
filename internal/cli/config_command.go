package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/scantree/internal/config"
)

const (
	configUse                  = "config"
	configShortDescription     = "manage scantree configuration"
	configInitUse              = "init"
	configInitShortDescription = "write a default configuration file"
	configInitLongDescription  = `Write a default configuration file into the working directory,
or into the global configuration directory with --global.`
	globalFlagName        = "global"
	globalFlagDescription = "write the global configuration instead of the local one"
	forceFlagName         = "force"
	forceFlagDescription  = "overwrite an existing configuration file"
	configWrittenFormat   = "Configuration written to %s\n"
)

func createConfigCommand(dependencies Dependencies) *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	configCommand.AddCommand(createConfigInitCommand(dependencies))
	return configCommand
}

func createConfigInitCommand(dependencies Dependencies) *cobra.Command {
	var useGlobal bool
	var force bool

	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShortDescription,
		Long:  configInitLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			options := config.InitOptions{Target: config.InitTargetLocal, Force: force}
			if useGlobal {
				options.Target = config.InitTargetGlobal
			} else {
				workingDirectory, err := dependencies.WorkingDirectory()
				if err != nil {
					return fmt.Errorf(workingDirectoryErrorFormat, err)
				}
				options.WorkingDirectory = workingDirectory
			}
			writtenPath, err := config.InitializeConfiguration(options)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(command.OutOrStdout(), configWrittenFormat, writtenPath)
			return err
		},
	}
	initCommand.Flags().BoolVar(&useGlobal, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
