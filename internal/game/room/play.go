package room

import (
	"context"
	"errors"
	"time"

	"github.com/nenadlazic8/zinga/internal/apperrors"
	"github.com/nenadlazic8/zinga/internal/game/engine"
	"github.com/nenadlazic8/zinga/internal/protocol"
)

// PlayCard plays one card for a player. Rejections leave the room
// untouched; a structural engine failure aborts the room instead of
// playing on with corrupted piles.
func (r *Room) PlayCard(playerID, cardID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.findPlayer(playerID)
	if p == nil {
		return apperrors.ErrPlayerNotFound
	}
	return r.applyPlayLocked(p, cardID)
}

// applyPlayLocked is the single entry point every play goes through,
// human or bot. Callers hold the room lock.
func (r *Room) applyPlayLocked(p *Player, cardID string) error {
	if r.phase != PhasePlaying || r.hand == nil {
		return apperrors.ErrGameNotStart
	}

	res, err := r.hand.PlayCard(p.Seat, cardID)
	if err != nil {
		var structural *engine.StructuralError
		if errors.As(err, &structural) {
			r.log.Errorw("hand state corrupted, aborting room",
				"room", r.ID, "err", structural.Detail)
			r.phase = PhaseAborted
			r.broadcast()
			return apperrors.ErrGameNotStart
		}
		return err
	}
	r.touch()

	if res.HandOver {
		r.onHandEnd(res.Result)
	}
	r.broadcast()
	r.maybeScheduleBot()
	return nil
}

// onHandEnd folds a finished hand into the match: totals grow, then either
// a winner is declared or the next hand starts with the first-to-act seat
// rotated by one.
func (r *Room) onHandEnd(res *engine.Result) {
	r.match.Totals[engine.TeamA] += res.A.Total
	r.match.Totals[engine.TeamB] += res.B.Total
	r.match.LastHand = res

	a, b := r.match.Totals[engine.TeamA], r.match.Totals[engine.TeamB]
	if a >= r.match.Target || b >= r.match.Target {
		// A tie at or above target decides nothing; play another hand.
		if a != b {
			winner := engine.TeamA
			if b > a {
				winner = engine.TeamB
			}
			r.finishMatch(winner)
			return
		}
	}

	r.match.StartSeat = (r.match.StartSeat + 1) % 4
	r.startHand()
}

func (r *Room) finishMatch(winner engine.Team) {
	r.match.Winner = &winner
	r.phase = PhaseFinished
	r.log.Infow("match finished", "room", r.ID, "winner", winner.String(),
		"a", r.match.Totals[engine.TeamA], "b", r.match.Totals[engine.TeamB])

	names := make([]string, 4)
	for _, p := range r.players {
		names[p.Seat] = p.Name
	}
	rec := protocol.HistoryRecord{
		Date:    time.Now().UnixMilli(),
		Players: names,
		AScore:  r.match.Totals[engine.TeamA],
		BScore:  r.match.Totals[engine.TeamB],
		Winner:  winner.String(),
	}
	r.history = append(r.history, rec)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.store.Append(ctx, r.historyKey(), rec); err != nil {
		r.log.Warnw("append match history", "room", r.ID, "err", err)
	}

	msg := protocol.MustNewMessage(protocol.MsgHistory, protocol.HistoryPayload{Records: r.history})
	for _, p := range r.players {
		if p.sender != nil {
			p.sender.Send(msg)
		}
	}
}
