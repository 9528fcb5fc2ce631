package tracker

import (
	"context"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/client"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/deadline"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/intelligence/assistant"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
)

// SnapshotLimits caps the context sent to the agent.  Zero means unlimited.
type SnapshotLimits struct {
	MaxClients            int
	MaxDeadlinesPerClient int
}

// NewSnapshotSource reads the store for context building.  Clients beyond
// MaxClients and deadlines beyond MaxDeadlinesPerClient are dropped in store
// order.
func NewSnapshotSource(clients client.Repository, deadlines deadline.Repository, limits SnapshotLimits) assistant.SnapshotSource {
	return func(ctx context.Context) (assistant.Snapshot, error) {
		cs, err := clients.List(ctx)
		if err != nil {
			return assistant.Snapshot{}, errors.Wrap(err, errors.CodeUnknown, "failed to list clients")
		}
		ds, err := deadlines.List(ctx)
		if err != nil {
			return assistant.Snapshot{}, errors.Wrap(err, errors.CodeUnknown, "failed to list deadlines")
		}
		return capSnapshot(cs, ds, limits), nil
	}
}

func capSnapshot(cs []client.Client, ds []deadline.Deadline, limits SnapshotLimits) assistant.Snapshot {
	if limits.MaxClients > 0 && len(cs) > limits.MaxClients {
		cs = cs[:limits.MaxClients]
	}
	if limits.MaxDeadlinesPerClient <= 0 {
		return assistant.Snapshot{Clients: cs, Deadlines: ds}
	}
	perClient := make(map[string]int, len(cs))
	kept := make([]deadline.Deadline, 0, len(ds))
	for i := range ds {
		if perClient[ds[i].ClientID] >= limits.MaxDeadlinesPerClient {
			continue
		}
		perClient[ds[i].ClientID]++
		kept = append(kept, ds[i])
	}
	return assistant.Snapshot{Clients: cs, Deadlines: kept}
}

//Personal.AI order the ending
