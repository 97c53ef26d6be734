package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/scott-cotton/cli"

	"github.com/nokia/yangc"
)

type MainConfig struct {
	Dir      string `cli:"name=dir desc='directory with .yang modules (default .)'"`
	CacheDir string `cli:"name=cache desc='schema cache directory (default no cache)'"`
	Verbose  bool   `cli:"name=v aliases=verbose desc='debug logging'"`
	Color    bool   `cli:"name=color desc='force colored output'"`
	NoColor  bool   `cli:"name=nocolor desc='disable colored output'"`

	Main *cli.Command
}

func (cfg *MainConfig) dir() string {
	if cfg.Dir == "" {
		return "."
	}
	return cfg.Dir
}

func (cfg *MainConfig) logger() zerolog.Logger {
	lvl := zerolog.InfoLevel
	if cfg.Verbose {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).With().Timestamp().Logger()
}

func (cfg *MainConfig) compiler() *yangc.Compiler {
	opts := []yangc.Option{yangc.WithLogger(cfg.logger())}
	if cfg.CacheDir != "" {
		opts = append(opts, yangc.WithCacheDir(cfg.CacheDir))
	}
	return yangc.New(yangc.DirRetriever(cfg.dir()), opts...)
}

// colorize reports whether output to w should carry ANSI colors.
func (cfg *MainConfig) colorize(w any) bool {
	if cfg.NoColor {
		return false
	}
	if cfg.Color {
		return true
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

type CompileConfig struct {
	*MainConfig

	Compile *cli.Command
}

type DumpConfig struct {
	*MainConfig
	Format string `cli:"name=o aliases=ofmt desc='output format: text/t, json/j, yaml/y'"`
	Filter string `cli:"name=filter desc='expression selecting nodes, e.g. kind==\"leaf\" && config'"`

	Dump *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Against string `cli:"name=against desc='second module directory to compare with'"`

	Diff *cli.Command
}

type WatchConfig struct {
	*MainConfig

	Watch *cli.Command
}
