package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aweris/gitcas"
	"github.com/klauspost/compress/zlib"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	v   *viper.Viper
	log *zap.Logger
}

// NewRootCommand builds the gitcas command tree.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New(), log: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "gitcas",
		Short: "Git-compatible content-addressable object store",
		Long:  "CLI for storing files and directory trees as git objects under .git/objects.",

		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ~/.config/gitcas/config.yaml)")
	flags.StringP("repo", "C", ".", "repository work tree")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")

	_ = a.v.BindPFlag("repo", flags.Lookup("repo"))
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))

	rootCmd.AddCommand(
		newInitCmd(a),
		newHashObjectCmd(a),
		newCatFileCmd(a),
		newLsTreeCmd(a),
		newWriteTreeCmd(a),
		newFsckCmd(a),
	)

	return rootCmd
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := a.initConfig(cmd); err != nil {
		return err
	}

	level, err := zapcore.ParseLevel(a.v.GetString("log_level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(zapcore.AddSync(cmd.ErrOrStderr())),
		level,
	)
	a.log = zap.New(core).Named("gitcas")

	return nil
}

func (a *app) initConfig(cmd *cobra.Command) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		path, err := homedir.Expand(cfgFile)
		if err != nil {
			return err
		}
		a.v.SetConfigFile(path)
	} else {
		if dir, err := configDir(); err == nil {
			a.v.AddConfigPath(dir)
		}
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("GITCAS")
	a.v.AutomaticEnv()

	a.v.SetDefault("repo", ".")
	a.v.SetDefault("log_level", "warn")
	a.v.SetDefault("cache_size", gitcas.DefaultCacheSize)
	a.v.SetDefault("compression_level", zlib.DefaultCompression)
	a.v.SetDefault("verify_reads", false)
	a.v.SetDefault("concurrency", 0)
	a.v.SetDefault("ignore_file", "")

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	return nil
}

func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gitcas"), nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gitcas"), nil
}

func (a *app) repoDir() (string, error) {
	return homedir.Expand(a.v.GetString("repo"))
}

func (a *app) options() []gitcas.Option {
	opts := []gitcas.Option{
		gitcas.WithLogger(a.log),
		gitcas.WithCacheSize(a.v.GetInt("cache_size")),
		gitcas.WithCompressionLevel(a.v.GetInt("compression_level")),
		gitcas.WithVerifyReads(a.v.GetBool("verify_reads")),
		gitcas.WithConcurrency(a.v.GetInt("concurrency")),
	}
	if ignore := a.v.GetString("ignore_file"); ignore != "" {
		if path, err := homedir.Expand(ignore); err == nil {
			ignore = path
		}
		opts = append(opts, gitcas.WithIgnoreFile(ignore))
	}
	return opts
}

// openRepo opens the repository named by --repo.
func (a *app) openRepo() (*gitcas.Repository, error) {
	dir, err := a.repoDir()
	if err != nil {
		return nil, err
	}
	repo, err := gitcas.Open(dir, a.options()...)
	if err != nil {
		if errors.Is(err, gitcas.ErrNotARepository) {
			return nil, fmt.Errorf("%w (did you run 'gitcas init'?)", err)
		}
		return nil, err
	}
	return repo, nil
}
