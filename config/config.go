package config

import "github.com/namsral/flag"

type Config struct {
	RulesPath string
	TablePath string
	Threads   int
	Shell     bool
	Debug     bool
}

func (c *Config) Load(args []string) error {
	fs := flag.NewFlagSet("hog", flag.ContinueOnError)
	fs.StringVar(&c.RulesPath, "rules-path", "", "optional YAML file overriding the default rule set")
	fs.StringVar(&c.TablePath, "table-path", "./optimal_hog_strategy.csv", "where to write (or read) the solved policy table")
	fs.IntVar(&c.Threads, "threads", 1, "worker goroutines per sweep level")
	fs.BoolVar(&c.Shell, "shell", false, "start the interactive shell instead of a one-shot solve")
	fs.BoolVar(&c.Debug, "debug", false, "debug logging")
	err := fs.Parse(args)
	return err
}
