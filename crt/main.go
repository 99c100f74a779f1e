// Command crt reconstructs a portfolio from its trades and prices and
// reports its performance, gains and taxes.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/carteira/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	completion().Complete("crt")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// filePredictors are the flags and commands whose values are files.
var filePredictors = map[string]complete.Predictor{
	"config":        predict.Files("*.toml"),
	"db":            predict.Files("*.db"),
	"ledger":        predict.Files("*.jsonl"),
	"format":        predict.Set{"term", "md", "html"},
	"by":            predict.Set{"class", "sector", "broker"},
	"o":             predict.Files("*"),
	"import":        predict.Files("*.jsonl"),
	"import-quotes": predict.Files("*.json"),
}

// completion builds the shell completion tree from the registered commands.
func completion() *complete.Command {
	flags := func(fs *flag.FlagSet) map[string]complete.Predictor {
		m := make(map[string]complete.Predictor)
		fs.VisitAll(func(f *flag.Flag) {
			if p, ok := filePredictors[f.Name]; ok {
				m[f.Name] = p
				return
			}
			m[f.Name] = predict.Something
		})
		return m
	}

	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flags(flag.CommandLine),
	}
	for _, c := range cmd.Commands {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		root.Sub[c.Name()] = &complete.Command{
			Flags: flags(fs),
			Args:  filePredictors[c.Name()],
		}
	}
	return root
}
