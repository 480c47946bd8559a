package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/toolconf/words"
)

// Words applies a word-list filter and prints the result on one line.
type Words struct {
	Op   string `arg:"" enum:"nonmatching,matching,uniq,suggest" help:"Filter: nonmatching, matching, uniq or suggest."`
	List string `arg:""                                           help:"Whitespace-separated candidate words."`
	Set  string `arg:""                                           help:"Whitespace-separated reference words (unused by uniq)." optional:""`
}

// Run executes the words command.
func (w *Words) Run(ctx context.Context) error {
	list, set := words.Split(w.List), words.Split(w.Set)

	var out []string

	switch w.Op {
	case "nonmatching":
		out = words.NonMatching(list, set)
	case "matching":
		out = words.Matching(list, set)
	case "uniq":
		out = words.Uniq(list)
	case "suggest":
		for _, word := range list {
			out = append(out, words.Suggest(word, set)...)
		}

		out = words.Uniq(out)
	}

	_, err := fmt.Fprintln(stdout(ctx), words.Join(out))

	return err
}
