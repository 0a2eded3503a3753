package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&uploadCmd{}, "staging")
	commander.Register(&resumeCmd{}, "review")
	commander.Register(&listCmd{}, "review")
	commander.Register(&editCmd{}, "review")
	commander.Register(&disposeCmd{action: "approve"}, "review")
	commander.Register(&disposeCmd{action: "reject"}, "review")
	commander.Register(&batchCmd{action: "approve-all"}, "batch")
	commander.Register(&batchCmd{action: "reject-all"}, "batch")
	commander.Register(&trackCmd{}, "batch")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
