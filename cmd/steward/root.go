package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/conn-castle/steward/internal/config"
	"github.com/conn-castle/steward/internal/envfile"
	"github.com/conn-castle/steward/internal/logging"
	"github.com/conn-castle/steward/internal/messages"
	"github.com/conn-castle/steward/internal/platform/registry"
	"github.com/conn-castle/steward/internal/profile"
	"github.com/conn-castle/steward/internal/prompt"
	"github.com/conn-castle/steward/internal/render"
	"github.com/conn-castle/steward/internal/root"
	"github.com/conn-castle/steward/internal/settings"
	"github.com/conn-castle/steward/internal/warnings"
)

const defaultConfigPath = "steward.yaml"

// ErrCompletedWithWarnings is returned when a command finishes but critical warnings were reported.
var ErrCompletedWithWarnings = errors.New(messages.CompletedWithWarnings)

// Seams replaced in tests.
var (
	connectFunc   = func(reg registry.Registry) profile.Connect { return reg.New }
	newConfirmer  = func() prompt.Confirmer { return prompt.New() }
	loadSettings  = settings.Load
	lookupEnvFunc = os.LookupEnv
	getwdFunc     = os.Getwd
)

type rootOptions struct {
	configPath   string
	settingsPath string
	envFile      string
	profiles     []string
	verbose      int
	quiet        bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().Bool("version", false, messages.RootVersionFlag)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", defaultConfigPath, messages.RootConfigFlag)
	flags.StringVar(&opts.settingsPath, "settings", "", messages.RootSettingsFlag)
	flags.StringVar(&opts.envFile, "env-file", "", messages.RootEnvFileFlag)
	flags.StringArrayVarP(&opts.profiles, "profile", "p", nil, messages.RootProfileFlag)
	flags.CountVarP(&opts.verbose, "verbose", "v", messages.RootVerboseFlag)
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, messages.RootQuietFlag)

	cmd.AddCommand(
		newValidateCmd(opts),
		newSummaryCmd(opts),
		newPlanCmd(opts),
		newApplyCmd(opts),
		newCompletionCmd(),
	)
	return cmd
}

// session is the state shared by commands that talk to platforms.
type session struct {
	opts     *rootOptions
	settings settings.Settings
	logger   logr.Logger
	config   *config.Config
	selected []config.ProfileConfig
	stderr   io.Writer
	env      map[string]string
	warnings []warnings.Warning
}

func newSession(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	s, err := loadSettings(opts.settingsPath)
	if err != nil {
		return nil, err
	}
	if opts.verbose > s.Verbosity {
		s.Verbosity = opts.verbose
	}
	configPath, err := resolveConfigPath(cmd, opts)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	env, err := loadEnvFile(opts.envFile, configPath)
	if err != nil {
		return nil, err
	}
	selected, err := profile.Select(cfg, opts.profiles)
	if err != nil {
		return nil, err
	}
	sess := &session{
		opts:     opts,
		settings: s,
		logger:   logging.New(cmd.ErrOrStderr(), s.Verbosity),
		config:   cfg,
		selected: selected,
		stderr:   cmd.ErrOrStderr(),
		env:      env,
	}
	sess.warnings = append(sess.warnings, warnings.CheckPolicy(&config.Config{Profiles: selected})...)
	return sess, nil
}

// resolveConfigPath returns --config when given and otherwise the nearest
// steward.yaml above the working directory.
func resolveConfigPath(cmd *cobra.Command, opts *rootOptions) (string, error) {
	if cmd.Flags().Changed("config") {
		return opts.configPath, nil
	}
	wd, err := getwdFunc()
	if err != nil {
		return "", err
	}
	found, ok, err := root.FindConfig(wd, defaultConfigPath)
	if err != nil {
		return "", err
	}
	if !ok {
		return opts.configPath, nil
	}
	return found, nil
}

// loadEnvFile reads --env-file, or an optional .env beside the configuration.
func loadEnvFile(path string, configPath string) (map[string]string, error) {
	if path != "" {
		return envfile.Load(path, false)
	}
	return envfile.Load(filepath.Join(filepath.Dir(configPath), envfile.DefaultPath), true)
}

// loadProfiles connects to every selected profile and fetches its repositories.
func (s *session) loadProfiles(ctx context.Context) ([]*profile.Profile, error) {
	reg := registry.Registry{
		Settings:  s.settings,
		Logger:    s.logger,
		LookupEnv: envfile.Lookup(s.env, lookupEnvFunc),
	}
	profiles, err := profile.LoadAll(ctx, s.selected, connectFunc(reg), s.settings.Concurrency, s.logger)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		s.warnings = append(s.warnings, warnings.CheckTemplates(p)...)
	}
	return profiles, nil
}

// flushWarnings prints collected warnings after noise control and reports
// whether any of them is critical.
func (s *session) flushWarnings() error {
	mode := s.settings.Warnings.NoiseMode
	if s.opts.quiet {
		mode = warnings.NoiseModeQuiet
	}
	items := warnings.ApplyNoiseControl(s.warnings, mode)
	render.Warnings(s.stderr, items)
	for _, w := range items {
		if w.Critical() {
			return ErrCompletedWithWarnings
		}
	}
	return nil
}
