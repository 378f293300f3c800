package janitor

import (
	"context"
	"fmt"
	"time"

	"github.com/CLDWare/methods-lab/config"
	"github.com/CLDWare/methods-lab/internal/store"
	models "github.com/CLDWare/methods-lab/pkg/db"
	"github.com/CLDWare/methods-lab/pkg/logger"
	"gorm.io/gorm"
)

type Janitor struct {
	cfg              *config.Config
	store            *store.Store
	database         *gorm.DB
	announceNoAction bool
	cancel           context.CancelFunc
	now              func() time.Time
}

func NewJanitor(cfg *config.Config, st *store.Store, announceNoAction bool) *Janitor {
	return &Janitor{
		cfg:              cfg,
		store:            st,
		database:         st.DB(),
		announceNoAction: announceNoAction,
		now:              time.Now,
	}
}

func (jan *Janitor) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	jan.cancel = cancel

	go func() {
		shortTicker := time.NewTicker(jan.cfg.Janitor.ShortCleanInterval)
		defer shortTicker.Stop()
		fullTicker := time.NewTicker(jan.cfg.Janitor.FullCleanInterval)
		defer fullTicker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-shortTicker.C:
				jan.RunShort(ctx)
			case <-fullTicker.C:
				jan.RunFull(ctx)
			}
		}
	}()
}

func (jan *Janitor) Stop() {
	if jan.cancel != nil {
		jan.cancel()
		jan.cancel = nil
	}
}

func (jan *Janitor) RunShort(ctx context.Context) {
	logger.Debug("Janitor: Running short cleaning sequence.")
	jan.CleanUpExpiredAuthSession(ctx)
	if jan.cfg.Janitor.ExpireSessions {
		jan.EndOverdueSessions(ctx)
	}
}

func (jan *Janitor) RunFull(ctx context.Context) {
	logger.Info("Janitor: Running full cleaning sequence.")
	jan.RunShort(ctx)

	jan.DeepCleanDatabase(nil)
}

// DeepCleanDatabase forces gorm to delete all soft deleted rows
func (jan *Janitor) DeepCleanDatabase(deepcleanModels []any) {
	if deepcleanModels == nil {
		deepcleanModels = []any{
			models.AuthSession{},
			models.User{},
		}
	}
	for _, deepcleanModel := range deepcleanModels {
		result := jan.database.Unscoped().Where("deleted_at IS NOT NULL").Delete(deepcleanModel)
		if result.Error != nil {
			logger.Err(fmt.Sprintf("Janitor: Error while deepcleaning model %T: %s", deepcleanModel, result.Error.Error()))
		} else if jan.announceNoAction || result.RowsAffected != 0 {
			logger.Info(fmt.Sprintf("Janitor: Deleted %d rows from model %T", result.RowsAffected, deepcleanModel))
		}
	}
}

// CleanUpExpiredAuthSession cleans up auth sessions that have expired
func (jan *Janitor) CleanUpExpiredAuthSession(ctx context.Context) int {
	deleted, err := gorm.G[models.AuthSession](jan.database).Where("expires_at < ?", jan.now()).Delete(ctx)
	if err != nil {
		logger.Err(fmt.Sprintf("Janitor: Error while cleaning auth sessions: %s", err))
		return 0
	}
	if jan.announceNoAction || deleted != 0 {
		logger.Info(fmt.Sprintf("Janitor: cleaned %d expired auth sessions", deleted))
	}
	return deleted
}

// EndOverdueSessions finishes active sessions whose timer ran out. Presenter
// screens normally do this; the janitor covers sessions nobody is presenting.
func (jan *Janitor) EndOverdueSessions(ctx context.Context) int {
	overdue, err := jan.store.OverdueSessions(ctx, jan.now())
	if err != nil {
		logger.Err(fmt.Sprintf("Janitor: Error while listing overdue sessions: %s", err))
		return 0
	}
	ended := 0
	for _, session := range overdue {
		if err := jan.store.EndSession(ctx, session.ID); err != nil {
			logger.Err(fmt.Sprintf("Janitor: Could not end session %s: %s", session.ID, err))
			continue
		}
		ended++
	}
	if jan.announceNoAction || ended != 0 {
		logger.Info(fmt.Sprintf("Janitor: ended %d overdue sessions", ended))
	}
	return ended
}
