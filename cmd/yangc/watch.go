package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/scott-cotton/cli"
)

// watchSettle coalesces bursts of file events into one recompile.
const watchSettle = 200 * time.Millisecond

func watch(cfg *WatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Watch.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: watch requires at least one module name", cli.ErrUsage)
	}
	log := cfg.logger()
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(cfg.dir()); err != nil {
		return err
	}

	recompile := func() {
		start := time.Now()
		s, err := cfg.compiler().Compile(args...)
		if err != nil {
			log.Error().Err(err).Msg("compile failed")
			return
		}
		log.Info().
			Int("nodes", len(s.Nodes)).
			Dur("took", time.Since(start)).
			Msg("compiled")
	}
	recompile()

	var settle *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".yang") {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("change")
			if settle != nil {
				settle.Stop()
			}
			settle = time.AfterFunc(watchSettle, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case <-pending:
			recompile()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		}
	}
}
