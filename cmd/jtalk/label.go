package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var labelCmd = &cobra.Command{
	Use:   "label [text...]",
	Short: "Print full-context labels",
	Long:  `Print the full-context labels of the text, one per line. Without arguments every line of stdin is labeled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, release, err := openLabeler(cmd)
		if err != nil {
			return err
		}
		defer release()

		return eachText(cmd, args, func(text string) error {
			labels, err := l.ExtractFullContext(text)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, label := range labels {
				fmt.Fprintln(out, label)
			}
			return nil
		})
	},
}

// eachText calls fn for the joined arguments, or for each stdin line when
// there are none.
func eachText(cmd *cobra.Command, args []string, fn func(string) error) error {
	if len(args) > 0 {
		return fn(strings.Join(args, " "))
	}
	sc := bufio.NewScanner(cmd.InOrStdin())
	for sc.Scan() {
		if err := fn(sc.Text()); err != nil {
			return err
		}
	}
	return sc.Err()
}

func init() {
	dictFlags(labelCmd)
	rootCmd.AddCommand(labelCmd)
}
