// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/treeview/internal/commands"
	"github.com/temirov/treeview/internal/config"
	"github.com/temirov/treeview/internal/output"
	"github.com/temirov/treeview/internal/services/clipboard"
	"github.com/temirov/treeview/internal/services/web"
	"github.com/temirov/treeview/internal/session"
	"github.com/temirov/treeview/internal/types"
	"github.com/temirov/treeview/internal/utils"
)

const (
	configFlagName       = "config"
	versionFlagName      = "version"
	versionTemplate      = "treeview version: %s\n"
	defaultPath          = "."
	rootUse              = "treeview"
	rootShortDescription = "treeview command line interface"
	rootLongDescription  = `treeview materializes project directory trees.
It prints a tree with selected directories expanded, or serves project trees,
file views and downloads over HTTP. Use --config to point at a configuration file
and --version to print the application version.`
	versionFlagDescription = "display application version"
	configFlagDescription  = "configuration file (defaults to ./config.yaml merged over ~/.treeview/config.yaml)"

	treeCommandName      = types.CommandTree
	treeUse              = treeCommandName + " [path]"
	treeAlias            = "t"
	treeShortDescription = "display directory tree (" + treeAlias + ")"
	// treeLongDescription provides detailed help for the tree command.
	treeLongDescription = `Render the visible tree of a directory.
Directories are collapsed unless named with --expand or --expand-all is set.
Hidden entries and entries listed in each directory's ignore files are skipped.
Use --format to select raw, json, or xml output.`
	// treeUsageExample demonstrates tree command usage.
	treeUsageExample = `  # Show the current directory with src expanded
  treeview tree --expand src

  # Expand everything and copy the JSON rendering
  treeview tree --expand-all --format json --copy ./project`

	serveUse              = types.CommandServe
	serveShortDescription = "serve project trees over HTTP"
	serveLongDescription  = `Serve configured projects over HTTP.
Each browser session keeps its own set of expanded directories per project.
Projects come from the configuration file and from --project NAME=PATH flags;
without any, the working directory is served under its base name.`

	initUse              = types.CommandInit
	initShortDescription = "write a default configuration file"

	expandFlagName          = "expand"
	expandAllFlagName       = "expand-all"
	sortDirectoriesFlagName = "sort-dirs"
	maxDepthFlagName        = "max-depth"
	formatFlagName          = "format"
	summaryFlagName         = "summary"
	copyFlagName            = "copy"
	addressFlagName         = "address"
	projectFlagName         = "project"
	globalFlagName          = "global"
	forceFlagName           = "force"

	expandFlagDescription          = "expand directory (relative to the tree root); repeatable"
	expandAllFlagDescription       = "expand every directory"
	sortDirectoriesFlagDescription = "order directories by name instead of enumeration order"
	maxDepthFlagDescription        = "maximum expansion depth (negative for unlimited)"
	formatFlagDescription          = "output format"
	summaryFlagDescription         = "include summary of visible entries"
	copyFlagDescription            = "copy the rendered tree to the clipboard"
	addressFlagDescription         = "listen address"
	projectFlagDescription         = "project to serve as NAME=PATH; repeatable"
	globalFlagDescription          = "write the global configuration under the home directory"
	forceFlagDescription           = "overwrite an existing configuration file"

	invalidFormatMessage          = "Invalid format value '%s'"
	invalidProjectFlagFormat      = "invalid --project value %q, expected NAME=PATH"
	workingDirectoryErrorFormat   = "unable to determine working directory: %w"
	errorAbsolutePathFormat       = "abs failed for '%s': %w"
	errorPathMissingFormat        = "path '%s' does not exist"
	errorStatFormat               = "stat failed for '%s': %w"
	errorNotDirectoryFormat       = "path '%s' is not a directory"
	errorCopyFormat               = "copy output: %w"
	serveListeningMessageTemplate = "serving %d project(s) on http://%s\n"
	initWrittenMessageTemplate    = "configuration written to %s\n"
)

// dependencies carries the collaborators shared by every subcommand.
type dependencies struct {
	logger    *zap.Logger
	clipboard clipboard.Copier
}

// Execute runs the treeview application.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(dependencies{logger: logger, clipboard: clipboard.NewService()})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, normalizeCopyFlagArguments(os.Args[1:])))
	return rootCommand.Execute()
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

// createRootCommand builds the root Cobra command.
func createRootCommand(deps dependencies) *cobra.Command {
	if deps.logger == nil {
		deps.logger = zap.NewNop()
	}
	var showVersion bool
	var configurationPath string

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().StringVar(&configurationPath, configFlagName, "", configFlagDescription)

	loadConfiguration := func() (config.ApplicationConfiguration, error) {
		return config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: configurationPath})
	}
	rootCommand.AddCommand(
		createTreeCommand(deps, loadConfiguration),
		createServeCommand(deps, loadConfiguration),
		createInitCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

type configurationLoader func() (config.ApplicationConfiguration, error)

// treeOptions stores the flags of the tree command.
type treeOptions struct {
	expandedPaths   []string
	expandAll       bool
	sortDirectories bool
	maxDepth        int
	format          string
	summary         bool
	copyToClipboard bool
}

// createTreeCommand returns the tree subcommand.
func createTreeCommand(deps dependencies, loadConfiguration configurationLoader) *cobra.Command {
	var options treeOptions

	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Example: treeUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			rootPath := defaultPath
			if len(arguments) == 1 {
				rootPath = arguments[0]
			}
			options.format = strings.ToLower(options.format)
			if !isSupportedFormat(options.format) {
				return fmt.Errorf(invalidFormatMessage, options.format)
			}
			applicationConfig, loadErr := loadConfiguration()
			if loadErr != nil {
				return loadErr
			}
			builder := &commands.TreeBuilder{
				IgnoreFileNames: applicationConfig.IgnoreFiles(),
				MaxDepth:        applicationConfig.MaxDepth(),
				SortDirectories: applicationConfig.SortDirectories(),
				ExpandAll:       options.expandAll,
				Logger:          deps.logger,
			}
			if command.Flags().Changed(sortDirectoriesFlagName) {
				builder.SortDirectories = options.sortDirectories
			}
			if command.Flags().Changed(maxDepthFlagName) {
				builder.MaxDepth = options.maxDepth
			}
			return runTree(command.OutOrStdout(), deps, builder, rootPath, options)
		},
	}

	treeCommand.Flags().StringArrayVar(&options.expandedPaths, expandFlagName, nil, expandFlagDescription)
	registerBooleanFlag(treeCommand.Flags(), &options.expandAll, expandAllFlagName, false, expandAllFlagDescription)
	registerBooleanFlag(treeCommand.Flags(), &options.sortDirectories, sortDirectoriesFlagName, false, sortDirectoriesFlagDescription)
	registerBooleanFlag(treeCommand.Flags(), &options.summary, summaryFlagName, false, summaryFlagDescription)
	treeCommand.Flags().IntVar(&options.maxDepth, maxDepthFlagName, config.DefaultMaxDepth, maxDepthFlagDescription)
	treeCommand.Flags().StringVar(&options.format, formatFlagName, types.FormatRaw, formatFlagDescription)
	registerCopyFlag(treeCommand.Flags(), &options.copyToClipboard)
	return treeCommand
}

// runTree builds the tree rooted at rootPath and writes its rendering to writer.
func runTree(writer io.Writer, deps dependencies, builder *commands.TreeBuilder, rootPath string, options treeOptions) error {
	validatedPath, validationErr := validateDirectory(rootPath)
	if validationErr != nil {
		return validationErr
	}
	expandedPaths := make([]string, 0, len(options.expandedPaths))
	for _, expandedPath := range options.expandedPaths {
		if !filepath.IsAbs(expandedPath) {
			expandedPath = filepath.Join(validatedPath.AbsolutePath, expandedPath)
		}
		expandedPaths = append(expandedPaths, expandedPath)
	}

	root, buildErr := builder.BuildRoot(validatedPath.AbsolutePath, commands.NewPathSet(expandedPaths...))
	if buildErr != nil {
		return buildErr
	}
	rendered, renderErr := output.Render(options.format, root, options.summary)
	if renderErr != nil {
		return renderErr
	}
	if !strings.HasSuffix(rendered, "\n") {
		rendered += "\n"
	}
	if _, writeErr := io.WriteString(writer, rendered); writeErr != nil {
		return writeErr
	}
	if options.copyToClipboard {
		if copyErr := deps.clipboard.Copy(rendered); copyErr != nil {
			return fmt.Errorf(errorCopyFormat, copyErr)
		}
	}
	return nil
}

// validateDirectory resolves inputPath to an existing directory.
func validateDirectory(inputPath string) (types.ValidatedPath, error) {
	absolutePath, absErr := filepath.Abs(inputPath)
	if absErr != nil {
		return types.ValidatedPath{}, fmt.Errorf(errorAbsolutePathFormat, inputPath, absErr)
	}
	info, statErr := os.Stat(absolutePath)
	if os.IsNotExist(statErr) {
		return types.ValidatedPath{}, fmt.Errorf(errorPathMissingFormat, inputPath)
	}
	if statErr != nil {
		return types.ValidatedPath{}, fmt.Errorf(errorStatFormat, inputPath, statErr)
	}
	if !info.IsDir() {
		return types.ValidatedPath{}, fmt.Errorf(errorNotDirectoryFormat, inputPath)
	}
	return types.ValidatedPath{AbsolutePath: absolutePath, IsDir: true}, nil
}

// createServeCommand returns the serve subcommand.
func createServeCommand(deps dependencies, loadConfiguration configurationLoader) *cobra.Command {
	var listenAddress string
	var projectFlags []string

	serveCommand := &cobra.Command{
		Use:   serveUse,
		Short: serveShortDescription,
		Long:  serveLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			applicationConfig, loadErr := loadConfiguration()
			if loadErr != nil {
				return loadErr
			}
			flagProjects, parseErr := parseProjectFlags(projectFlags)
			if parseErr != nil {
				return parseErr
			}
			applicationConfig.Projects = append(applicationConfig.Projects, flagProjects...)
			if len(applicationConfig.Projects) == 0 {
				workingDirectory, workingDirectoryErr := os.Getwd()
				if workingDirectoryErr != nil {
					return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryErr)
				}
				applicationConfig.Projects = []config.ProjectConfiguration{{Name: filepath.Base(workingDirectory), Path: workingDirectory}}
			}
			registry, registryErr := applicationConfig.ProjectRegistry()
			if registryErr != nil {
				return registryErr
			}
			if command.Flags().Changed(addressFlagName) {
				applicationConfig.Server.Address = listenAddress
			}

			ctx, stop := signal.NotifyContext(command.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, command.OutOrStdout(), deps, applicationConfig, registry)
		},
	}
	serveCommand.Flags().StringVar(&listenAddress, addressFlagName, config.DefaultServerAddress, addressFlagDescription)
	serveCommand.Flags().StringArrayVar(&projectFlags, projectFlagName, nil, projectFlagDescription)
	return serveCommand
}

// runServer serves registry until ctx is canceled.
func runServer(ctx context.Context, writer io.Writer, deps dependencies, applicationConfig config.ApplicationConfiguration, registry types.ProjectRegistry) error {
	server := web.NewServer(web.Config{
		Address:         applicationConfig.ServerAddress(),
		ShutdownTimeout: applicationConfig.ShutdownTimeout(),
		Projects:        registry,
		Builder: &commands.TreeBuilder{
			IgnoreFileNames: applicationConfig.IgnoreFiles(),
			MaxDepth:        applicationConfig.MaxDepth(),
			SortDirectories: applicationConfig.SortDirectories(),
			Logger:          deps.logger,
		},
		Sessions: session.NewStore(session.DefaultIdleTimeout),
		Logger:   deps.logger,
	})
	return server.Run(ctx, func(address string) {
		fmt.Fprintf(writer, serveListeningMessageTemplate, registry.Len(), address)
	})
}

// parseProjectFlags converts NAME=PATH values into project configurations.
func parseProjectFlags(values []string) ([]config.ProjectConfiguration, error) {
	projects := make([]config.ProjectConfiguration, 0, len(values))
	for _, value := range values {
		name, path, found := strings.Cut(value, "=")
		name = strings.TrimSpace(name)
		path = strings.TrimSpace(path)
		if !found || name == "" || path == "" {
			return nil, fmt.Errorf(invalidProjectFlagFormat, value)
		}
		projects = append(projects, config.ProjectConfiguration{Name: name, Path: path})
	}
	return projects, nil
}

// createInitCommand returns the init subcommand.
func createInitCommand() *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			destinationPath, initErr := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if initErr != nil {
				return initErr
			}
			fmt.Fprintf(command.OutOrStdout(), initWrittenMessageTemplate, destinationPath)
			return nil
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
