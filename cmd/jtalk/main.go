// Command jtalk runs the open_jtalk front end from the command line.
//
//	jtalk label -d /usr/share/open_jtalk/dic "こんにちは"
//	jtalk nodes -d dic --backend wasm --lib open_jtalk.wasm "東京へ行きます"
//	jtalk dict-index -- -d dic -u user.dic words.csv
//	jtalk explore -d dic
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/jtalk/labeler"
	"github.com/wippyai/jtalk/native"
	"github.com/wippyai/jtalk/native/dynlib"
	"github.com/wippyai/jtalk/native/sim"
	"github.com/wippyai/jtalk/native/wasm"
)

var (
	verbose     bool
	backendKind string
	libPath     string
	fsRoot      string
	dictDir     string
	userDict    string
)

var rootCmd = &cobra.Command{
	Use:           "jtalk",
	Short:         "Japanese text analysis with open_jtalk",
	Long:          `jtalk normalizes and analyzes Japanese text with open_jtalk and prints NJD nodes or full-context labels.`,
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log := zap.NewNop()
		if verbose {
			var err error
			if log, err = zap.NewDevelopment(); err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
		}
		sim.SetLogger(log.Named("sim"))
		wasm.SetLogger(log.Named("wasm"))
		dynlib.SetLogger(log.Named("dynlib"))
		labeler.SetLogger(log.Named("labeler"))
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	flags.StringVar(&backendKind, "backend", string(labeler.BackendSim), "Collaborator backend: sim, wasm or dynlib")
	flags.StringVar(&libPath, "lib", "", "Path to open_jtalk.wasm or libopenjtalk")
	flags.StringVar(&fsRoot, "fs-root", "", "Host directory mounted at / for the wasm backend")

	_ = rootCmd.RegisterFlagCompletionFunc("backend", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{string(labeler.BackendSim), string(labeler.BackendWasm), string(labeler.BackendDynlib)}, cobra.ShellCompDirectiveNoFileComp
	})
}

// dictFlags registers the dictionary flags on commands that load one.
func dictFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&dictDir, "dict", "d", "", "Dictionary directory")
	cmd.Flags().StringVarP(&userDict, "userdic", "u", "", "Compiled user dictionary")
	_ = cmd.MarkFlagRequired("dict")
	_ = cmd.MarkFlagDirname("dict")
}

func openBackend(cmd *cobra.Command) (native.Backend, error) {
	return labeler.OpenBackend(cmd.Context(), labeler.BackendConfig{
		Kind:   labeler.BackendKind(backendKind),
		Path:   libPath,
		FSRoot: fsRoot,
		Stdout: cmd.OutOrStdout(),
	})
}

// openLabeler returns a loaded labeler and a function releasing it and its
// backend.
func openLabeler(cmd *cobra.Command) (*labeler.Labeler, func(), error) {
	backend, err := openBackend(cmd)
	if err != nil {
		return nil, nil, err
	}
	l, err := labeler.New(native.New(backend), labeler.Config{DictDir: dictDir, UserDict: userDict})
	if err != nil {
		_ = backend.Close(cmd.Context())
		return nil, nil, err
	}
	return l, func() {
		if err := l.Close(); err != nil {
			labeler.Logger().Warn("close labeler", zap.Error(err))
		}
		_ = backend.Close(context.Background())
	}, nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
