package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Seednode/wordcloud/cloud"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	allowedOrigins  []string
	bind            string
	blocklist       string
	clearOnQuestion bool
	filter          bool
	maxLength       int
	maxPhrases      int
	maxWords        int
	onePerQuestion  bool
	port            int
	prefix          string
	profile         bool
	sessionTimeout  time.Duration
	tlsCert         string
	tlsKey          string
	verbose         bool
	version         bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.maxWords < 0 || c.maxPhrases < 0 || c.maxLength < 0 {
		return errors.New("--max-words, --max-phrases and --max-length must not be negative")
	}
	if c.sessionTimeout < 0 {
		return fmt.Errorf("invalid session timeout: %s", c.sessionTimeout)
	}
	if c.blocklist != "" && !c.filter {
		return errors.New("--blocklist requires --filter")
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

// aggregator builds the submission rules, loading the blocklist if one
// was given.
func (c *Config) aggregator() (cloud.Aggregator, error) {
	agg := cloud.Aggregator{
		MaxPhrases: c.maxPhrases,
		MaxWords:   c.maxWords,
		MaxLength:  c.maxLength,
	}

	switch {
	case c.blocklist != "":
		f, err := cloud.LoadFilter(c.blocklist)
		if err != nil {
			return agg, err
		}
		agg.Filter = f
	case c.filter:
		agg.Filter = cloud.DefaultFilter()
	default:
		return agg, nil
	}

	logf(c, "START: Filtering %d words", agg.Filter.Len())

	return agg, nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("WORDCLOUD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "wordcloud",
		Short:         "A live word cloud for audiences, shared by QR code.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringSliceVar(&cfg.allowedOrigins, "allowed-origins", []string{"*"}, "origins allowed to create sessions cross-site (env: WORDCLOUD_ALLOWED_ORIGINS)")
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: WORDCLOUD_BIND)")
	fs.StringVar(&cfg.blocklist, "blocklist", "", "file of words to filter, one per line, replacing the built-in list (env: WORDCLOUD_BLOCKLIST)")
	fs.BoolVar(&cfg.clearOnQuestion, "clear-on-question", false, "clear the word cloud whenever the question changes (env: WORDCLOUD_CLEAR_ON_QUESTION)")
	fs.BoolVar(&cfg.filter, "filter", false, "drop phrases containing blocked words (env: WORDCLOUD_FILTER)")
	fs.IntVar(&cfg.maxLength, "max-length", 64, "maximum characters per phrase, 0 for no limit (env: WORDCLOUD_MAX_LENGTH)")
	fs.IntVar(&cfg.maxPhrases, "max-phrases", 3, "maximum phrases per submission, 0 for no limit (env: WORDCLOUD_MAX_PHRASES)")
	fs.IntVar(&cfg.maxWords, "max-words", 2, "maximum words per phrase, 0 for no limit (env: WORDCLOUD_MAX_WORDS)")
	fs.BoolVar(&cfg.onePerQuestion, "one-per-question", true, "accept one submission per question from each connection (env: WORDCLOUD_ONE_PER_QUESTION)")
	fs.IntVarP(&cfg.port, "port", "p", 3000, "port to listen on (env: WORDCLOUD_PORT, PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: WORDCLOUD_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: WORDCLOUD_PROFILE)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before sessions nobody has joined are removed, 0 to keep them (env: WORDCLOUD_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: WORDCLOUD_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: WORDCLOUD_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: WORDCLOUD_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: WORDCLOUD_VERSION)")

	// PORT is what most hosting platforms set.
	_ = v.BindEnv("port", "WORDCLOUD_PORT", "PORT")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		if f.Name != "port" {
			_ = v.BindEnv(f.Name)
		}
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("wordcloud v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
