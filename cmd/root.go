package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Bitlatte/quill/internal/config"
	"github.com/Bitlatte/quill/internal/logging"
)

var cfgFile string
var appConfig config.Config

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "quill - publish a markdown journal as a static blog",
	Long: `quill turns a folder of markdown journal entries into HTML fragments
and a posts.json index that the blog's pages load on the client.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "quill:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./quill.yaml)")

	flags := rootCmd.PersistentFlags()
	flags.String("source", "", "directory containing the markdown journal")
	flags.String("out", "", "directory receiving the generated HTML fragments")
	flags.String("index", "", "path of the posts.json index")
	flags.String("cache", "", "publish cache path (default <out>/.publish-cache.json, or .publish-cache.db for bolt)")
	flags.String("cache-driver", "", "publish cache driver: json or bolt")
	flags.Bool("keep-cache", false, "reuse the publish cache instead of rebuilding everything")
	flags.Bool("require-publish", false, "only publish entries whose front matter sets publish: true")
	flags.String("renderer", "", "markdown renderer: basic or goldmark")
	flags.Bool("sanitize", false, "sanitize goldmark output")
	flags.String("front-matter", "", "front matter dialect: simple or yaml")
	flags.Bool("strict-dates", false, "fail instead of using the build date for undated entries")
	flags.String("out-md", "", "also write the front-matter-free markdown to this directory")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error")
	flags.String("log-format", "", "log format: auto, console, json, pretty")
}

// flagKeys maps persistent flags to configuration keys.
var flagKeys = map[string]string{
	"source":          "sourceDir",
	"out":             "outputDir",
	"index":           "indexPath",
	"cache":           "cachePath",
	"cache-driver":    "cacheDriver",
	"keep-cache":      "keepCache",
	"require-publish": "requirePublish",
	"renderer":        "renderer",
	"sanitize":        "sanitize",
	"front-matter":    "frontMatter",
	"strict-dates":    "strictDates",
	"out-md":          "outMarkdownDir",
	"log-level":       "log.level",
	"log-format":      "log.format",
}

func initializeConfig(cmd *cobra.Command) error {
	v := viper.New()

	defaults := config.Defaults()
	v.SetDefault("sourceDir", defaults.SourceDir)
	v.SetDefault("outputDir", defaults.OutputDir)
	v.SetDefault("indexPath", defaults.IndexPath)
	v.SetDefault("cachePath", defaults.CachePath)
	v.SetDefault("cacheDriver", defaults.CacheDriver)
	v.SetDefault("keepCache", defaults.KeepCache)
	v.SetDefault("requirePublish", defaults.RequirePublish)
	v.SetDefault("renderer", defaults.Renderer)
	v.SetDefault("sanitize", defaults.Sanitize)
	v.SetDefault("frontMatter", defaults.FrontMatter)
	v.SetDefault("strictDates", defaults.StrictDates)
	v.SetDefault("outMarkdownDir", defaults.OutMarkdownDir)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("quill")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("QUILL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind flag --%s: %w", flag, err)
			}
		}
	}

	configFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFile != "" {
				return fmt.Errorf("config file %s not found: %w", cfgFile, err)
			}
			configFound = false
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&appConfig); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := appConfig.Validate(); err != nil {
		return err
	}

	logger, err := logging.New("quill", appConfig.Log)
	if err != nil {
		return err
	}
	appLogger = logger
	if configFound {
		appLogger.Debug("using config file", "path", v.ConfigFileUsed())
	} else {
		appLogger.Debug("no config file found, using defaults, environment and flags")
	}
	return nil
}
