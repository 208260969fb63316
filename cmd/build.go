// cmd/build.go
package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Bitlatte/quill/internal/config"
	"github.com/Bitlatte/quill/internal/logging"
	"github.com/Bitlatte/quill/internal/model"
	"github.com/Bitlatte/quill/internal/publish"
)

var appLogger = logging.Nop()

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Converts the journal to HTML fragments and rewrites the posts index",
	Long: `The build command reads every markdown entry in the source directory,
splits off its front matter, renders the body to an HTML fragment in the
output directory and rewrites the posts.json index sorted newest first.
Entries the publish cache marks as unchanged are not rendered again when
--keep-cache is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		result, err := runBuildProcess(ctx, appConfig, appLogger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Built %d posts (%d converted, %d unchanged). Index: %s\n",
			result.Total(), result.Converted, result.Skipped, result.IndexPath)
		return nil
	},
}

func runBuildProcess(ctx context.Context, cfg config.Config, log logging.Logger) (model.BuildResult, error) {
	p, err := publish.New(cfg, publish.WithLogger(log))
	if err != nil {
		return model.BuildResult{}, err
	}
	return p.Build(ctx)
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
