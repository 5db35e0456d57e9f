// Package cli provides the command line interface.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/scantree/internal/config"
	"github.com/temirov/scantree/internal/output"
	"github.com/temirov/scantree/internal/services/clipboard"
	"github.com/temirov/scantree/internal/services/stream"
	"github.com/temirov/scantree/internal/types"
	"github.com/temirov/scantree/internal/utils"
)

const (
	formatFlagName   = "format"
	copyFlagName     = "copy"
	copyOnlyFlagName = "copy-only"
	configFlagName   = "config"

	versionTemplate      = "scantree version: {{.Version}}\n"
	rootUse              = "scantree"
	rootShortDescription = "print the directory tree of the working directory"
	rootLongDescription  = `scantree prints an ASCII tree of the current working directory.
Version-control metadata, dependency caches, and build output directories
(%s) are always skipped.
Use --format to select raw, json, or xml output and --copy to also place the result on the clipboard.`
	rootUsageExample = `  # Print the tree of the current directory
  scantree

  # Emit the tree as JSON and copy it to the clipboard
  scantree --format json --copy`

	formatFlagDescription   = "output format (raw, json, xml)"
	copyFlagDescription     = "copy the rendered output to the clipboard"
	copyOnlyFlagDescription = "copy the rendered output to the clipboard without printing it"
	configFlagDescription   = "path to a configuration file (defaults to ./" + utils.ConfigFileName + ")"

	invalidFormatMessage        = "invalid format value '%s'"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	loadConfigurationFormat     = "loading configuration: %w"
	scanErrorFormat             = "scanning %s: %w"
	clipboardWarningMessage     = "failed to copy output to clipboard"
)

// Dependencies carries the process-level collaborators of the CLI.
type Dependencies struct {
	Stdout           io.Writer
	Stderr           io.Writer
	Logger           *zap.Logger
	Copier           clipboard.Copier
	WorkingDirectory func() (string, error)
}

// scanOptions stores the values bound to the root command flags.
type scanOptions struct {
	format     string
	copy       bool
	copyOnly   bool
	configPath string
}

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatXML:
		return true
	default:
		return false
	}
}

// Execute runs the scantree application against the process environment.
func Execute(logger *zap.Logger) error {
	rootCommand := NewRootCommand(Dependencies{
		Stdout:           os.Stdout,
		Stderr:           os.Stderr,
		Logger:           logger,
		Copier:           clipboard.NewService(),
		WorkingDirectory: os.Getwd,
	})
	rootCommand.SetArgs(normalizeCopyFlagArguments(os.Args[1:]))
	return rootCommand.Execute()
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	dependencies = withDefaults(dependencies)
	var options scanOptions

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          fmt.Sprintf(rootLongDescription, strings.Join(utils.IgnoredDirectoryNames(), ", ")),
		Example:       rootUsageExample,
		Version:       utils.GetApplicationVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runScan(command, dependencies, options)
		},
	}
	rootCommand.SetOut(dependencies.Stdout)
	rootCommand.SetErr(dependencies.Stderr)
	rootCommand.SetVersionTemplate(versionTemplate)

	flags := rootCommand.Flags()
	flags.StringVar(&options.format, formatFlagName, types.FormatRaw, formatFlagDescription)
	registerCopyFlag(flags, &options.copy)
	flags.BoolVar(&options.copyOnly, copyOnlyFlagName, false, copyOnlyFlagDescription)
	rootCommand.PersistentFlags().StringVar(&options.configPath, configFlagName, "", configFlagDescription)

	rootCommand.AddCommand(createConfigCommand(dependencies))
	return rootCommand
}

func withDefaults(dependencies Dependencies) Dependencies {
	if dependencies.Stdout == nil {
		dependencies.Stdout = os.Stdout
	}
	if dependencies.Stderr == nil {
		dependencies.Stderr = os.Stderr
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Copier == nil {
		dependencies.Copier = clipboard.NewService()
	}
	if dependencies.WorkingDirectory == nil {
		dependencies.WorkingDirectory = os.Getwd
	}
	return dependencies
}

// runScan renders the working directory tree using flags layered over configuration.
func runScan(command *cobra.Command, dependencies Dependencies, options scanOptions) error {
	workingDirectory, workingDirectoryError := dependencies.WorkingDirectory()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: options.configPath,
	})
	if configurationError != nil {
		return fmt.Errorf(loadConfigurationFormat, configurationError)
	}
	resolved := resolveScanOptions(command, options, applicationConfiguration.Tree)
	if !isSupportedFormat(resolved.format) {
		return fmt.Errorf(invalidFormatMessage, resolved.format)
	}

	var captured bytes.Buffer
	var destination io.Writer = dependencies.Stdout
	switch {
	case resolved.copyOnly:
		destination = &captured
	case resolved.copy:
		destination = io.MultiWriter(dependencies.Stdout, &captured)
	}

	renderer, rendererError := output.NewStreamRenderer(resolved.format, destination)
	if rendererError != nil {
		return rendererError
	}

	ctx := command.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	producer := func(streamCtx context.Context, ch chan<- stream.Event) error {
		return stream.StreamTree(streamCtx, stream.TreeOptions{Root: workingDirectory}, ch)
	}
	if streamError := dispatchStream(ctx, producer, renderer.Handle); streamError != nil {
		return fmt.Errorf(scanErrorFormat, workingDirectory, streamError)
	}
	if flushError := renderer.Flush(); flushError != nil {
		return flushError
	}

	if resolved.copy || resolved.copyOnly {
		if copyError := dependencies.Copier.Copy(captured.String()); copyError != nil {
			dependencies.Logger.Warn(clipboardWarningMessage, zap.Error(copyError))
		}
	}
	return nil
}

// resolveScanOptions prefers explicitly set flags, then configuration, then flag defaults.
func resolveScanOptions(command *cobra.Command, options scanOptions, treeConfiguration config.TreeConfiguration) scanOptions {
	resolved := options
	flags := command.Flags()
	if !flags.Changed(formatFlagName) && treeConfiguration.Format != "" {
		resolved.format = treeConfiguration.Format
	}
	copySettings := treeConfiguration.CopySettings()
	if !flags.Changed(copyFlagName) && copySettings.Copy != nil {
		resolved.copy = *copySettings.Copy
	}
	if !flags.Changed(copyOnlyFlagName) && copySettings.CopyOnly != nil {
		resolved.copyOnly = *copySettings.CopyOnly
	}
	resolved.format = strings.ToLower(strings.TrimSpace(resolved.format))
	return resolved
}

// dispatchStream runs produce and consume concurrently over an unbuffered
// channel so events are consumed in the order they were produced.
func dispatchStream(
	ctx context.Context,
	produce func(context.Context, chan<- stream.Event) error,
	consume func(stream.Event) error,
) error {
	group, streamCtx := errgroup.WithContext(ctx)
	events := make(chan stream.Event)

	group.Go(func() error {
		defer close(events)
		return produce(streamCtx, events)
	})

	group.Go(func() error {
		for {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := consume(event); err != nil {
					return err
				}
			}
		}
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
