// Command hashmapdemo exercises the hashmap package: it replays the classic
// walkthrough and runs scripts of map operations against a reference model.
package main

import (
	"os"

	"github.com/llxisdsh/hashmap"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type options struct {
	capacity int
	verbose  bool
}

func (o *options) addFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.capacity, "capacity", hashmap.DefaultInitialCapacity, "initial number of buckets")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "log every operation")
}

func (o *options) newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if o.verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return logger, nil
}

func newRootCommand() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "hashmapdemo",
		Short:         "Exercise the chained hash map",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	o.addFlags(root.PersistentFlags())

	root.AddCommand(&cobra.Command{
		Use:   "walkthrough",
		Short: "Replay the insert/erase/rehash/find walkthrough",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := o.newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			return walkthrough(cmd.OutOrStdout(), o.capacity, logger)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "run [script]",
		Short: "Run a script of map operations (stdin when no file is given)",
		Long: `Run executes one operation per line against a map with int keys and
string values, checking every result against an insertion-ordered model.

  insert K V   insert unless present
  set K V      store through Index
  get K        read through Index (inserts "" when absent)
  find K       look up
  erase K      remove and report the scan-order successor
  rehash N     rebuild with N buckets
  len | stats | dump

Blank lines and lines starting with # are ignored.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := o.newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			in := cmd.InOrStdin()
			name := "<stdin>"
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.Wrap(err, "open script")
				}
				defer f.Close()
				in, name = f, args[0]
			}
			ops, err := parseScript(in)
			if err != nil {
				return errors.Wrap(err, name)
			}
			return newRunner(cmd.OutOrStdout(), o.capacity, logger).run(ops)
		},
	})
	return root
}

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
