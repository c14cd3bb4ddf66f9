package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MotiMotiMa/youtubeChanelGE/pkg/ytgenre/auth"
	"github.com/MotiMotiMa/youtubeChanelGE/pkg/ytgenre/config"
)

type Config struct {
	ConfigPath   string
	OutputWriter io.Writer
}

type runtimeState struct {
	configPath           string
	cfg                  *config.Config
	clientSecretOverride string
	tokenFileOverride    string
	outputOverride       string
	tokenStorageOverride string
	authorityOverride    string
	timeoutOverride      string
	maxPagesOverride     int
	apiBaseURL           string
	consoleFlow          bool
	noBrowser            bool
	verbose              bool
	writer               io.Writer
}

type runtimeKey struct{}

func DefaultConfig() Config {
	return Config{
		ConfigPath:   config.DefaultConfigPath(),
		OutputWriter: os.Stdout,
	}
}

func NewRootCommand(cfg Config) *cobra.Command {
	rt := &runtimeState{configPath: cfg.ConfigPath, writer: cfg.OutputWriter}

	root := &cobra.Command{
		Use:   "ytgenre",
		Short: "Group your YouTube subscriptions by genre",
		Long: "ytgenre fetches the authenticated account's YouTube subscriptions,\n" +
			"classifies each channel by its topic category, and writes a Markdown\n" +
			"memo grouped by genre.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if rt.writer == nil {
				rt.writer = os.Stdout
			}
			if rt.configPath == "" {
				rt.configPath = config.DefaultConfigPath()
			}
			if rt.clientSecretOverride == "" {
				rt.clientSecretOverride = os.Getenv("YTGENRE_CLIENT_SECRET")
			}
			if rt.tokenFileOverride == "" {
				rt.tokenFileOverride = os.Getenv("YTGENRE_TOKEN_FILE")
			}
			if rt.outputOverride == "" {
				rt.outputOverride = os.Getenv("YTGENRE_OUTPUT")
			}
			if rt.tokenStorageOverride == "" {
				rt.tokenStorageOverride = os.Getenv("YTGENRE_TOKEN_STORAGE")
			}
			if rt.authorityOverride == "" {
				rt.authorityOverride = os.Getenv("YTGENRE_AUTHORITY")
			}
			if rt.apiBaseURL == "" {
				rt.apiBaseURL = os.Getenv("YTGENRE_API_BASE_URL")
			}
			if rt.maxPagesOverride == 0 {
				if raw := os.Getenv("YTGENRE_MAX_PAGES"); raw != "" {
					pages, err := strconv.Atoi(raw)
					if err != nil {
						return errors.New("YTGENRE_MAX_PAGES must be an integer")
					}
					rt.maxPagesOverride = pages
				}
			}
			if !rt.consoleFlow {
				rt.consoleFlow = strings.EqualFold(os.Getenv("YTGENRE_CONSOLE"), "true")
			}
			if !rt.verbose {
				rt.verbose = strings.EqualFold(os.Getenv("YTGENRE_VERBOSE"), "true")
			}

			if cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}

			loaded, err := config.LoadOrDefault(rt.configPath)
			if err != nil {
				return err
			}
			rt.cfg = loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			return runMemo(cmd.Context(), rt)
		},
	}

	root.PersistentFlags().StringVar(&rt.configPath, "config", rt.configPath, "Path to config file")
	root.PersistentFlags().StringVar(&rt.clientSecretOverride, "client-secret", "", "Path to the OAuth client secret JSON")
	root.PersistentFlags().StringVar(&rt.tokenFileOverride, "token-file", "", "Path to the cached OAuth token")
	root.PersistentFlags().StringVarP(&rt.outputOverride, "output", "o", "", "Path of the Markdown memo to write")
	root.PersistentFlags().StringVar(&rt.tokenStorageOverride, "token-storage", "", "Token storage backend: file or keyring")
	root.PersistentFlags().StringVar(&rt.authorityOverride, "authority", "", "OpenID issuer for the device-code flow")
	root.PersistentFlags().StringVar(&rt.timeoutOverride, "timeout", "", "HTTP timeout for API requests (e.g. 30s)")
	root.PersistentFlags().IntVar(&rt.maxPagesOverride, "max-pages", 0, "Maximum subscription pages to fetch")
	root.PersistentFlags().BoolVar(&rt.consoleFlow, "console", false, "Use the device-code flow instead of the browser")
	root.PersistentFlags().BoolVar(&rt.noBrowser, "no-browser", false, "Print the consent URL instead of launching a browser")
	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "Enable verbose logging")

	root.SetContext(context.WithValue(context.Background(), runtimeKey{}, rt))

	root.AddCommand(
		NewAuthCommand(),
		NewCompletionCommand(),
		NewVersionCommand(),
	)

	return root
}

func getRuntime(cmd *cobra.Command) (*runtimeState, error) {
	rt, ok := cmd.Context().Value(runtimeKey{}).(*runtimeState)
	if !ok || rt == nil {
		return nil, errors.New("runtime not initialized")
	}
	return rt, nil
}

func (rt *runtimeState) ClientSecretPath() string {
	if rt.clientSecretOverride != "" {
		return rt.clientSecretOverride
	}
	if rt.cfg != nil {
		return rt.cfg.ClientSecret
	}
	return ""
}

func (rt *runtimeState) TokenFile() string {
	if rt.tokenFileOverride != "" {
		return rt.tokenFileOverride
	}
	if rt.cfg != nil && rt.cfg.TokenFile != "" {
		return rt.cfg.TokenFile
	}
	return config.DefaultTokenFile
}

func (rt *runtimeState) OutputPath() string {
	if rt.outputOverride != "" {
		return rt.outputOverride
	}
	if rt.cfg != nil && rt.cfg.Output != "" {
		return rt.cfg.Output
	}
	return config.DefaultOutputFile
}

func (rt *runtimeState) TokenStorage() string {
	if rt.tokenStorageOverride != "" {
		return rt.tokenStorageOverride
	}
	if rt.cfg != nil && rt.cfg.Settings.TokenStorage != "" {
		return rt.cfg.Settings.TokenStorage
	}
	return config.TokenStorageFile
}

func (rt *runtimeState) Authority() string {
	if rt.authorityOverride != "" {
		return rt.authorityOverride
	}
	if rt.cfg != nil && rt.cfg.Settings.Authority != "" {
		return rt.cfg.Settings.Authority
	}
	return auth.DefaultAuthority
}

func (rt *runtimeState) Timeout() (time.Duration, error) {
	raw := rt.timeoutOverride
	if raw == "" && rt.cfg != nil {
		raw = rt.cfg.Settings.Timeout
	}
	if raw == "" {
		return 30 * time.Second, nil
	}
	timeout, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errors.New("timeout must be a duration such as 30s")
	}
	return timeout, nil
}

func (rt *runtimeState) MaxPages() int {
	if rt.maxPagesOverride > 0 {
		return rt.maxPagesOverride
	}
	if rt.cfg != nil && rt.cfg.Settings.MaxPages > 0 {
		return rt.cfg.Settings.MaxPages
	}
	return 0
}

func (rt *runtimeState) UseConsoleFlow() bool {
	if rt.consoleFlow {
		return true
	}
	return rt.cfg != nil && rt.cfg.Settings.ConsoleFlow
}

func (rt *runtimeState) Writer() io.Writer {
	if rt.writer != nil {
		return rt.writer
	}
	return os.Stdout
}

func (rt *runtimeState) flow() auth.Flow {
	if rt.UseConsoleFlow() {
		return &auth.ConsoleFlow{Authority: rt.Authority(), Out: rt.Writer()}
	}
	return &auth.BrowserFlow{Out: rt.Writer(), NoBrowser: rt.noBrowser}
}
