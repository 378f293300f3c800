package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/CLDWare/methods-lab/config"
	"github.com/CLDWare/methods-lab/internal/phase"
	"github.com/CLDWare/methods-lab/internal/scenario"
	"github.com/CLDWare/methods-lab/internal/store"
	models "github.com/CLDWare/methods-lab/pkg/db"
	"github.com/CLDWare/methods-lab/pkg/logger"
	"github.com/joho/godotenv"
)

// answers per group for the demo session, by option index
var demoAnswers = map[models.MethodType][]int{
	models.MethodDifference: {3, 3, 3, 4, 0, 3},
	models.MethodAgreement:  {0, 0, 1, 0, 2},
	models.MethodNested:     {2, 2, 0, 2},
	models.MethodQCA:        {2, 2, 0, 2, 1},
}

func main() {
	minutes := flag.Int("minutes", 15, "work time of the demo session")
	phaseName := flag.String("phase", string(models.PhaseResults), "phase to leave the demo session in")
	flag.Parse()

	finalPhase, err := phase.Parse(*phaseName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Load .env file if it exists
	envErr := godotenv.Load()

	config.ForceReload()
	cfg := config.Get()

	logger.Init()
	if envErr != nil {
		logger.Info(".env file not found, proceeding with environment variables")
	}

	db, err := models.InitialiseDatabase(cfg.Database.Path)
	if err != nil {
		logger.Err(err)
		os.Exit(1)
	}
	st := store.New(db, nil)
	ctx := context.Background()

	// DUMMY DATA
	session, groups, err := st.CreateSession(ctx, store.SessionOptions{
		Duration:     time.Duration(*minutes) * time.Minute,
		StudentCount: 24,
	})
	if err != nil {
		logger.Err(err)
		os.Exit(1)
	}
	if err := st.ActivateSession(ctx, session.ID); err != nil {
		logger.Err(err)
		os.Exit(1)
	}

	for _, g := range groups {
		sc, ok := scenario.Get(g.MethodType)
		if !ok {
			continue
		}
		for i, option := range demoAnswers[g.MethodType] {
			sub := models.Submission{
				GroupID:        g.ID,
				DeviceHash:     fmt.Sprintf("demo%03d", i),
				SelectedFactor: sc.Options[option],
				Justification:  "demo answer",
			}
			if err := st.InsertSubmission(ctx, &sub); err != nil && !errors.Is(err, store.ErrDuplicateSubmission) {
				logger.Err(err)
				os.Exit(1)
			}
		}
	}

	if _, err := st.UpdatePhase(ctx, session.ID, finalPhase); err != nil {
		logger.Err(err)
		os.Exit(1)
	}

	fmt.Println("SESSION_ID=" + session.ID)
	for _, g := range groups {
		fmt.Printf("group %d (%s): %s\n", g.GroupNumber, g.MethodType, cfg.JoinURL(g.ID))
	}
}
