package main

import (
	"errors"
	"fmt"
	"os"

	"hd2mm/internal/core"
	"hd2mm/internal/domain"
	"hd2mm/internal/storage/config"
	"hd2mm/internal/storage/layout"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"

	// Global flags
	configDir   string
	storagePath string
	gamePath    string
	tempPath    string
	linkFlag    string
	profileName string
	verbose     bool
	noColor     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hd2mm",
	Short: "Helldivers 2 mod manager",
	Long: `hd2mm installs Helldivers 2 mods from archives, keeps named profiles of
enabled mods and options, and deploys the selected patch files into the
game's data directory.

Use subcommands for operations. Run 'hd2mm --help' for available commands.`,
	Version:       version,
	SilenceUsage:  true, // Runtime errors should not print usage
	SilenceErrors: true, // We handle error output in Execute()
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := log.InfoLevel
		if verbose {
			level = log.DebugLevel
		}
		cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
	},
}

func init() {
	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default: ~/.config/hd2mm)")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "mod storage directory (default: ~/.local/share/hd2mm)")
	rootCmd.PersistentFlags().StringVar(&gamePath, "game", "", "Helldivers 2 installation directory")
	rootCmd.PersistentFlags().StringVar(&tempPath, "temp", "", "directory for archive extraction (default: system temp)")
	rootCmd.PersistentFlags().StringVar(&linkFlag, "link", "", "deploy method: symlink, hardlink or copy")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "profile to operate on (default: active profile)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command. Exit codes: 0 = success, 1 = error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", colorRed("Error:"), err)
		os.Exit(1)
	}
}

// resolveConfigDir returns the --config directory or the default
func resolveConfigDir() (string, error) {
	if configDir != "" {
		return config.ExpandPath(configDir)
	}
	return config.DefaultConfigDir()
}

// loadSettings reads config.yaml and applies flag overrides and defaults
func loadSettings() (*config.Config, string, error) {
	dir, err := resolveConfigDir()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, "", err
	}

	overrides := []struct {
		flag string
		dst  *string
	}{
		{gamePath, &cfg.GamePath},
		{storagePath, &cfg.StoragePath},
		{tempPath, &cfg.TempPath},
	}
	for _, o := range overrides {
		if o.flag == "" {
			continue
		}
		expanded, err := config.ExpandPath(o.flag)
		if err != nil {
			return nil, "", err
		}
		*o.dst = expanded
	}

	if linkFlag != "" {
		method, err := domain.ParseLinkMethod(linkFlag)
		if err != nil {
			return nil, "", err
		}
		cfg.LinkMethod = method
	}

	if cfg.StoragePath == "" {
		if cfg.StoragePath, err = config.DefaultStorageDir(); err != nil {
			return nil, "", err
		}
	}
	if cfg.TempPath == "" {
		cfg.TempPath = config.DefaultTempDir()
	}

	return cfg, dir, nil
}

// session is an open ModManager holding the storage lock
type session struct {
	cfg       *config.Config
	configDir string
	mgr       *core.ModManager
	lock      *flock.Flock
	log       *log.Logger
}

// openSession loads settings, takes the storage lock and constructs the manager
func openSession(cmd *cobra.Command) (*session, error) {
	logger := loggerFromContext(cmd.Context())

	cfg, dir, err := loadSettings()
	if err != nil {
		return nil, err
	}
	if cfg.GamePath == "" {
		return nil, fmt.Errorf("no game path configured; use --game or 'hd2mm config set game_path <dir>'")
	}

	// Storage and temp folders are created on demand, whether defaulted or configured
	for _, p := range []string{cfg.StoragePath, cfg.TempPath} {
		if err := os.MkdirAll(p, 0755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", p, err)
		}
	}

	lock := flock.New(layout.New(cfg.StoragePath).LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, errors.New("another hd2mm instance is using this storage directory")
	}

	mgr, err := core.New(core.Options{
		GamePath:    cfg.GamePath,
		StoragePath: cfg.StoragePath,
		TempPath:    cfg.TempPath,
		LinkMethod:  cfg.LinkMethod,
		Logger:      logger,
	})
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	logger.Debug("opened storage", "storage", cfg.StoragePath, "game", mgr.GamePath(), "link", cfg.LinkMethod)
	return &session{cfg: cfg, configDir: dir, mgr: mgr, lock: lock, log: logger}, nil
}

// Close releases the manager and the storage lock
func (s *session) Close() {
	if err := s.mgr.Close(); err != nil {
		s.log.Warn("closing mod manager", "err", err)
	}
	if err := s.lock.Unlock(); err != nil {
		s.log.Warn("releasing storage lock", "err", err)
	}
}

// currentProfile returns the --profile profile or the configured active one
func (s *session) currentProfile() (int, *domain.Profile, error) {
	name := profileName
	if name == "" {
		name = s.cfg.ActiveProfile
	}
	if name == "" {
		return -1, nil, fmt.Errorf("no profile specified; use --profile or 'hd2mm profile use <name>'")
	}
	return s.mgr.ProfileByName(name)
}
