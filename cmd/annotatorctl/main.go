package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vlm-annotator/annotator/client"
	"github.com/vlm-annotator/annotator/internal/logger"
)

var (
	baseURL      string
	origin       string
	urlMode      string
	environment  string
	capabilities string
	timeout      time.Duration
	debug        bool
)

func dbg(v interface{}) {
	if !debug {
		return
	}
	log.Debug().Interface("data", v).Msg("debug output")
}

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "annotatorctl",
		Short:         "Command line access to the VLM image annotation backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
			level := os.Getenv("ANNOTATOR_LOG_LEVEL")
			if debug {
				level = "debug"
			}
			log.Logger = logger.NewWithWriter("annotatorctl", zerolog.ConsoleWriter{
				Out:        cmd.ErrOrStderr(),
				TimeFormat: "2006-01-02 15:04:05",
				NoColor:    true,
			}, level)
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				log.Debug().Msg("debug logging enabled")
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	defaultURL := getEnv("ANNOTATOR_BASE_URL", "http://localhost:5000/api")
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&baseURL, "base-url", defaultURL, "Backend API base URL, absolute or root-relative")
	pf.StringVar(&origin, "origin", "", "Scheme and host requests go to when --base-url is relative")
	pf.StringVar(&urlMode, "url-mode", "", "URL mode: relative|absolute-dev|fixed-host (default derived from --base-url)")
	pf.StringVar(&environment, "env", "", "Deployment environment, e.g. development or production")
	pf.StringVar(&capabilities, "capabilities", "", "Backend endpoint set: legacy|current|all or a comma separated list")
	pf.DurationVar(&timeout, "timeout", 0, "Per-request timeout (default 30s)")
	pf.BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	rootCmd.AddCommand(newGetConfigCmd())
	rootCmd.AddCommand(newUpdateConfigCmd())
	rootCmd.AddCommand(newSelectFolderCmd())
	rootCmd.AddCommand(newOpenFolderCmd())
	rootCmd.AddCommand(newListImagesCmd())
	rootCmd.AddCommand(newImageURLCmd())
	rootCmd.AddCommand(newThumbnailURLCmd())
	rootCmd.AddCommand(newDeleteImageCmd())
	rootCmd.AddCommand(newGetAnnotationCmd())
	rootCmd.AddCommand(newAnnotationSummaryCmd())
	rootCmd.AddCommand(newSaveAnnotationCmd())
	rootCmd.AddCommand(newListAnnotationsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportAnnotationsCmd())
	rootCmd.AddCommand(newExportAnnotationsCmd())
	rootCmd.AddCommand(newDefaultPromptCmd())
	rootCmd.AddCommand(newGetToolsSchemaCmd())

	return rootCmd
}

// newClient layers the root flags over the ANNOTATOR_* environment.
func newClient() (*client.Client, error) {
	s, err := client.LoadSettings()
	if err != nil {
		return nil, err
	}
	s.BaseURL = baseURL
	if origin != "" {
		s.Origin = origin
	}
	if urlMode != "" {
		s.URLMode = urlMode
	}
	if environment != "" {
		s.Environment = environment
	}
	if capabilities != "" {
		s.Capabilities = capabilities
	}
	if timeout > 0 {
		s.Timeout = timeout
	}
	s.Debug = s.Debug || debug
	return client.NewFromSettings(s, client.WithLogger(log.Logger))
}

// runOp builds a client, runs one facade call and prints its result as
// indented JSON.
func runOp(cmd *cobra.Command, op string, call func(ctx context.Context, c *client.Client) (any, error)) error {
	log.Debug().Str("op", op).Str("base_url", baseURL).Msg("running operation")

	c, err := newClient()
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	start := time.Now()
	out, err := call(cmd.Context(), c)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("op", op).Dur("elapsed", elapsed).Msg("operation failed")
		return err
	}
	log.Debug().Str("op", op).Dur("elapsed", elapsed).Msg("operation completed")

	dbg(out)
	return printJSON(cmd, out)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
