package main

import (
	"context"
	"fmt"
	"os"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	tea "charm.land/bubbletea/v2"
	"github.com/clarktrimble/sabot"

	"guichet"
	"guichet/store/duck"
	"guichet/util"
)

const (
	layoutPath  = "layout.yaml"
	logPath     = "guichet.log"
	pingTimeout = 10 * time.Second
)

func main() {

	logFile := util.OpenLog(logPath, 0644)
	defer util.CloseLog(logFile)

	lgr := &sabot.Sabot{Writer: logFile, MaxLen: 999}
	ctx := context.Background()

	layout, err := guichet.LoadLayout(layoutPath)
	check(err)

	dk, err := duck.New(lgr)
	check(err)
	defer dk.Close()

	err = dk.Seed()
	check(err)

	// Make sure the backend answers before putting a grid in front of it
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	err = dk.Ping(pingCtx)
	check(err)

	model, err := guichet.NewModel(ctx, dk, layout, lgr)
	check(err)

	program := tea.NewProgram(model)
	_, err = program.Run()
	check(err)
}

func check(err error) {
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
