package room

import (
	"go.uber.org/zap"

	"github.com/KirkDiggler/roomserver/internal/events"
)

// applyRemote folds an event committed by another instance into the local
// store and delivers it to every local session.
func (a *roomActor) applyRemote(event *events.RoomEvent) {
	st := a.store

	switch event.Type {
	case events.EventTypeOccupantJoined:
		occ := event.OccupantJoined.Occupant
		// The user logged in elsewhere; the newer session wins
		if owner := st.Owner(occ.UserID); owner != "" {
			a.dropSession(owner, "session replaced")
			a.logger.Info("session taken over by another instance",
				zap.String("user_id", occ.UserID),
				zap.String("conn_id", owner))
		}
		st.PlaceOccupant(occ, "")
	case events.EventTypeOccupantMoved:
		st.MoveOccupant(event.OccupantMoved.UserID, event.OccupantMoved.Position)
	case events.EventTypeOccupantLeft:
		// A late leave from an old session must not remove a local takeover
		if st.Owner(event.OccupantLeft.UserID) == "" {
			st.RemoveOccupant(event.OccupantLeft.UserID)
		}
	case events.EventTypeTileFlagChanged:
		st.SetTileFlag(event.TileFlagChanged.Flag)
	case events.EventTypeAffordanceChanged:
		st.SetAffordance(event.AffordanceChanged.Affordance)
	case events.EventTypeItemSpawned:
		st.AddItem(event.ItemSpawned.Item)
	case events.EventTypeItemRemoved:
		st.MarkClaimed(event.ItemRemoved.ItemID, event.ItemRemoved.ClaimedBy)
	case events.EventTypeChatPosted, events.EventTypeLatencyTrace:
	}

	if event.Mutates() {
		st.AdvanceSeq(event.Seq)
	}
	a.broadcastLocal(event, "")
}
