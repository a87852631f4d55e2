// Package cli implements birdoctl, the offline companion of the API. It reads
// a JSON export of a breeder's registry and renders pedigrees without a
// database.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/birdo/pkg/logger"
)

var (
	version = "dev"
	commit  string
)

// SetVersion sets the values printed by --version.
func SetVersion(v, c string) {
	version, commit = v, c
}

// app is shared by every command; PersistentPreRunE replaces the logger
// once flags are parsed.
type app struct {
	log *zap.Logger
}

// RootCommand builds the birdoctl command tree.
func RootCommand() *cobra.Command {
	var verbose bool
	a := &app{log: zap.NewNop()}

	root := &cobra.Command{
		Use:           "birdoctl",
		Short:         "Offline tools for birdo registry exports",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if verbose {
				level = "debug"
			}
			l, err := logger.New(logger.Options{Level: level, Format: "console"})
			if err != nil {
				return err
			}
			a.log = l
			return nil
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("birdoctl %s (%s)\n", version, commit))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newPedigreeCmd(a))
	root.AddCommand(newCandidatesCmd(a))
	return root
}
