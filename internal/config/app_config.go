package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/temirov/treeview/internal/types"
	"github.com/temirov/treeview/internal/utils"
)

const (
	// DefaultServerAddress is used when no address is configured.
	DefaultServerAddress = "127.0.0.1:8050"
	// DefaultShutdownTimeout bounds graceful server shutdown.
	DefaultShutdownTimeout = 5 * time.Second
	// DefaultMaxDepth bounds directory expansion depth.
	DefaultMaxDepth = 64

	errorDuplicateProjectFormat = "project %q is configured more than once"
	errorEmptyProjectNameFormat = "project with path %q has no name"
	errorEmptyProjectPathFormat = "project %q has no path"
	errorProjectRootFormat      = "project %q: %w"
	errorProjectNotDirFormat    = "project %q: %s is not a directory"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds server, tree and project settings.
type ApplicationConfiguration struct {
	Server   ServerConfiguration    `mapstructure:"server"`
	Tree     TreeConfiguration      `mapstructure:"tree"`
	Projects []ProjectConfiguration `mapstructure:"projects"`
}

// ServerConfiguration configures the HTTP surface.
type ServerConfiguration struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// TreeConfiguration configures tree materialization.
type TreeConfiguration struct {
	MaxDepth        *int     `mapstructure:"max_depth"`
	SortDirectories *bool    `mapstructure:"sort_directories"`
	IgnoreFiles     []string `mapstructure:"ignore_files"`
}

// ProjectConfiguration names one project root.
type ProjectConfiguration struct {
	Name string `mapstructure:"name"`
	Path string `mapstructure:"path"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if options.ExplicitFilePath != "" {
		if _, statErr := os.Stat(localPath); statErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("configuration %s: %w", localPath, statErr)
		}
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)
	merged.Tree.IgnoreFiles = utils.DeduplicatePatterns(merged.Tree.IgnoreFiles)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.ConfigFileName)
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath
	}
	return filepath.Join(workingDirectory, explicitPath)
}

// loadConfigurationFromPath reads one YAML file. Relative project paths are
// resolved against the directory holding the file.
func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	for index, project := range config.Projects {
		if project.Path != "" && !filepath.IsAbs(project.Path) {
			config.Projects[index].Path = filepath.Join(filepath.Dir(path), project.Path)
		}
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
// Projects are merged by name; an overriding project replaces the path of an existing one.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Server = result.Server.merge(override.Server)
	result.Tree = result.Tree.merge(override.Tree)
	result.Projects = mergeProjects(result.Projects, override.Projects)
	return result
}

func (config ServerConfiguration) merge(override ServerConfiguration) ServerConfiguration {
	result := config
	if override.Address != "" {
		result.Address = override.Address
	}
	if override.ShutdownTimeout > 0 {
		result.ShutdownTimeout = override.ShutdownTimeout
	}
	return result
}

func (config TreeConfiguration) merge(override TreeConfiguration) TreeConfiguration {
	result := config
	if override.MaxDepth != nil {
		result.MaxDepth = cloneInt(override.MaxDepth)
	}
	if override.SortDirectories != nil {
		result.SortDirectories = cloneBool(override.SortDirectories)
	}
	if len(override.IgnoreFiles) > 0 {
		result.IgnoreFiles = append([]string{}, override.IgnoreFiles...)
	}
	return result
}

func mergeProjects(base []ProjectConfiguration, override []ProjectConfiguration) []ProjectConfiguration {
	result := append([]ProjectConfiguration{}, base...)
	for _, project := range override {
		replaced := false
		for index := range result {
			if result[index].Name == project.Name {
				result[index] = project
				replaced = true
				break
			}
		}
		if !replaced {
			result = append(result, project)
		}
	}
	return result
}

// ServerAddress returns the configured address or DefaultServerAddress.
func (config ApplicationConfiguration) ServerAddress() string {
	if config.Server.Address == "" {
		return DefaultServerAddress
	}
	return config.Server.Address
}

// ShutdownTimeout returns the configured timeout or DefaultShutdownTimeout.
func (config ApplicationConfiguration) ShutdownTimeout() time.Duration {
	if config.Server.ShutdownTimeout <= 0 {
		return DefaultShutdownTimeout
	}
	return config.Server.ShutdownTimeout
}

// MaxDepth returns the configured expansion depth limit or DefaultMaxDepth.
func (config ApplicationConfiguration) MaxDepth() int {
	if config.Tree.MaxDepth == nil {
		return DefaultMaxDepth
	}
	return *config.Tree.MaxDepth
}

// SortDirectories reports whether directories are ordered by name instead of enumeration order.
func (config ApplicationConfiguration) SortDirectories() bool {
	return config.Tree.SortDirectories != nil && *config.Tree.SortDirectories
}

// IgnoreFiles returns the configured ignore file names or DefaultIgnoreFileNames.
func (config ApplicationConfiguration) IgnoreFiles() []string {
	if len(config.Tree.IgnoreFiles) == 0 {
		return append([]string{}, DefaultIgnoreFileNames...)
	}
	return append([]string{}, config.Tree.IgnoreFiles...)
}

// ProjectRegistry validates the configured projects and returns a registry of
// names to cleaned absolute directory paths.
func (config ApplicationConfiguration) ProjectRegistry() (types.ProjectRegistry, error) {
	seen := make(map[string]struct{}, len(config.Projects))
	projects := make([]types.Project, 0, len(config.Projects))
	for _, project := range config.Projects {
		if project.Name == "" {
			return types.ProjectRegistry{}, fmt.Errorf(errorEmptyProjectNameFormat, project.Path)
		}
		if _, duplicate := seen[project.Name]; duplicate {
			return types.ProjectRegistry{}, fmt.Errorf(errorDuplicateProjectFormat, project.Name)
		}
		if project.Path == "" {
			return types.ProjectRegistry{}, fmt.Errorf(errorEmptyProjectPathFormat, project.Name)
		}
		absoluteRoot, absoluteErr := filepath.Abs(project.Path)
		if absoluteErr != nil {
			return types.ProjectRegistry{}, fmt.Errorf(errorProjectRootFormat, project.Name, absoluteErr)
		}
		info, statErr := os.Stat(absoluteRoot)
		if statErr != nil {
			return types.ProjectRegistry{}, fmt.Errorf(errorProjectRootFormat, project.Name, statErr)
		}
		if !info.IsDir() {
			return types.ProjectRegistry{}, fmt.Errorf(errorProjectNotDirFormat, project.Name, absoluteRoot)
		}
		seen[project.Name] = struct{}{}
		projects = append(projects, types.Project{Name: project.Name, Root: filepath.Clean(absoluteRoot)})
	}
	return types.NewProjectRegistry(projects), nil
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
