package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/wippyai/jtalk/mecab"
	"github.com/wippyai/jtalk/native"
)

var dictIndexCmd = &cobra.Command{
	Use:   "dict-index -- [mecab-dict-index args...]",
	Short: "Run mecab-dict-index",
	Long: `Forward the arguments after -- verbatim to open_jtalk's mecab-dict-index,
for example to compile a user dictionary:

  jtalk dict-index -- -d dic -u user.dic -f utf-8 -t utf-8 words.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer backend.Close(context.Background())

		argv := append([]string{"mecab-dict-index"}, args...)
		return mecab.DictIndex(native.New(backend), argv...)
	},
}

func init() {
	rootCmd.AddCommand(dictIndexCmd)
}
