package room

import (
	"time"

	"github.com/nenadlazic8/zinga/internal/game/card"
)

// maybeScheduleBot arms a one-shot timer when the turn lands on a bot.
// Bot moves chain through these timers, one at a time, never recursively,
// until the turn reaches a human or the hand ends. Callers hold the room
// lock.
func (r *Room) maybeScheduleBot() {
	if r.phase != PhasePlaying || r.hand == nil {
		return
	}
	seat := r.hand.TurnSeat()
	p := r.playerBySeat(seat)
	if p == nil || !p.IsBot {
		return
	}

	playerID := p.ID
	time.AfterFunc(r.gameCfg.BotDelay(), func() {
		r.playBotMove(seat, playerID)
	})
}

// playBotMove fires after the thinking delay. The room may have moved on
// since the timer was armed, so everything is re-validated at fire time:
// phase, turn seat and the identity of the seat's occupant. A stale timer
// simply does nothing.
func (r *Room) playBotMove(seat int, playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhasePlaying || r.hand == nil || r.hand.TurnSeat() != seat {
		return
	}
	p := r.playerBySeat(seat)
	if p == nil || p.ID != playerID || !p.IsBot {
		return
	}
	hand := r.hand.HandCards(seat)
	if len(hand) == 0 {
		return
	}

	var top *card.Card
	if c, ok := r.hand.TableTop(); ok {
		top = &c
	}
	choice := p.chooser.Choose(hand, top, r.hand.TableCount())

	// Same validated path as a human play; bots get no bypass.
	if err := r.applyPlayLocked(p, choice.ID); err != nil {
		r.log.Errorw("bot played an illegal card", "room", r.ID, "bot", p.Name, "err", err)
	}
}
