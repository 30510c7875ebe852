// Command birds-console runs the exhibit in-process against the simulated
// backend and drives it from the keyboard.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/elijahnyp/dancing_birds/actuator"
	"github.com/elijahnyp/dancing_birds/birds"
	"github.com/elijahnyp/dancing_birds/state"
	"github.com/elijahnyp/dancing_birds/util"
)

func loadConfig() {
	util.SetDefaults()
	util.Config.SetDefault("console_log", "birds-console.log")
	util.Config.SetConfigName("dancing_birds")
	util.Config.AddConfigPath("./")
	util.Config.AddConfigPath("./config")
	if err := util.Config.ReadInConfig(); err != nil {
		util.Logger.Debug().Err(err).Msg("no config file, using defaults")
	}
}

// publishStatuses forwards exhibit changes to the console without blocking
// the exhibit. A full buffer drops the older update.
func publishStatuses(exhibit *birds.Exhibit, size int) <-chan state.Status {
	statuses := make(chan state.Status, size)
	exhibit.OnChange(func(s state.Status) {
		for {
			select {
			case statuses <- s:
				return
			default:
			}
			select {
			case <-statuses:
			default:
			}
		}
	})
	return statuses
}

func main() {
	loadConfig()

	logFile, err := os.OpenFile(util.Config.GetString("console_log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logFile.Close() }()
	util.LogInitTo(logFile, util.Config.GetString("log_level"))

	backend := actuator.NewLog(util.ComponentLogger("simulator"))
	exhibit := birds.New(backend,
		birds.WithTiming(util.TimingFromConfig()),
		birds.WithAngleRange(util.AngleRangeFromConfig()),
		birds.WithLogger(util.ComponentLogger("exhibit")),
	)

	codes := make(birds.ChanSource, 8)
	statuses := publishStatuses(exhibit, 16)
	p := tea.NewProgram(newConsoleModel(exhibit, codes, statuses), tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		err := exhibit.Run(ctx, codes)
		p.Send(runDoneMsg{err: err})
	}()

	_, err = p.Run()
	cancel()
	exhibit.Wait()
	if err != nil {
		fmt.Fprintf(os.Stderr, "console: %v\n", err)
		os.Exit(1)
	}
}
