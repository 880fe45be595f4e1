package dashboard

import (
	"context"
	"sync"

	"github.com/kapu/codestats-go/internal/domain"
	"github.com/kapu/codestats-go/internal/identity"
	"go.uber.org/zap"
)

// IdentitySource is the subscribe half of identity.Observable.
type IdentitySource interface {
	Subscribe(listener identity.Listener) func()
}

// ViewHandler receives the outcome of each identity-triggered load.
type ViewHandler func(view *domain.AggregatedDashboardView, err error)

// Watch subscribes once to the identity source and loads the dashboard on
// every sign-in. Signing out, or switching user, cancels the in-flight load
// and drops the previous user's session copy. It blocks until ctx is done.
func (s *Service) Watch(ctx context.Context, source IdentitySource, onView ViewHandler) {
	var (
		mu         sync.Mutex
		currentUID string
		cancelLoad context.CancelFunc
		wg         sync.WaitGroup
	)

	unsubscribe := source.Subscribe(func(current *identity.Identity) {
		mu.Lock()
		defer mu.Unlock()

		if cancelLoad != nil {
			cancelLoad()
			cancelLoad = nil
		}
		if currentUID != "" && (current == nil || current.UID != currentUID) {
			s.Invalidate(currentUID)
			s.logger.Info("Identity changed, session dropped", zap.String("uid", currentUID))
		}

		if current == nil {
			currentUID = ""
			return
		}
		currentUID = current.UID

		loadCtx, cancel := context.WithCancel(ctx)
		cancelLoad = cancel
		uid := current.UID

		wg.Add(1)
		go func() {
			defer wg.Done()
			view, err := s.Load(loadCtx, uid)
			if loadCtx.Err() != nil {
				return
			}
			onView(view, err)
		}()
	})

	<-ctx.Done()
	unsubscribe()

	mu.Lock()
	if cancelLoad != nil {
		cancelLoad()
	}
	mu.Unlock()
	wg.Wait()
}
