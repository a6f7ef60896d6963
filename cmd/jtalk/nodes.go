package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wippyai/jtalk/njd"
)

var printMecab bool

var nodesCmd = &cobra.Command{
	Use:   "nodes [text...]",
	Short: "Print NJD nodes after the feature passes",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, release, err := openLabeler(cmd)
		if err != nil {
			return err
		}
		defer release()

		return eachText(cmd, args, func(text string) error {
			if printMecab {
				return l.Print(text)
			}
			nodes, err := l.Analyze(text)
			if err != nil {
				return err
			}
			for _, n := range nodes {
				fmt.Fprintln(cmd.OutOrStdout(), formatNode(n))
			}
			return nil
		})
	},
}

// formatNode renders a node in open_jtalk's NJD_print layout.
func formatNode(n njd.Node) string {
	text := func(t njd.Text) string {
		if !t.Valid {
			return "*"
		}
		return t.Value
	}
	fields := []string{
		text(n.Surface), text(n.Pos), text(n.PosGroup1), text(n.PosGroup2), text(n.PosGroup3),
		text(n.CType), text(n.CForm), text(n.Orig), text(n.Read), text(n.Pron),
		fmt.Sprintf("%d/%d", n.Acc, n.MoraSize), text(n.ChainRule), fmt.Sprint(n.ChainFlag),
	}
	return strings.Join(fields, ",")
}

func init() {
	dictFlags(nodesCmd)
	nodesCmd.Flags().BoolVar(&printMecab, "mecab", false, "Print MeCab's analysis instead of NJD nodes")
	rootCmd.AddCommand(nodesCmd)
}
