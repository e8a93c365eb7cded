package room

import (
	"sort"

	"github.com/nenadlazic8/zinga/internal/game/card"
	"github.com/nenadlazic8/zinga/internal/game/engine"
	"github.com/nenadlazic8/zinga/internal/protocol"
)

// broadcast pushes a freshly built, per-viewer filtered snapshot to every
// connected human. Built and sent under the room lock, so consumers see
// actions in the order they were produced. Callers hold the lock.
func (r *Room) broadcast() {
	for _, p := range r.players {
		if p.sender == nil {
			continue
		}
		p.sender.Send(protocol.MustNewMessage(protocol.MsgState, r.snapshotFor(p)))
	}
}

// snapshotFor builds the room state as one viewer is allowed to see it:
// their own hand cards and their own team's capture pile; everyone else's
// hands as counts only.
func (r *Room) snapshotFor(viewer *Player) protocol.StatePayload {
	players := make([]protocol.PlayerInfo, len(r.players))
	for i, p := range r.players {
		team := ""
		if p.HasTeam {
			team = p.Team.String()
		}
		players[i] = protocol.PlayerInfo{
			ID:        p.ID,
			Name:      p.Name,
			Seat:      p.Seat,
			Team:      team,
			IsBot:     p.IsBot,
			Connected: p.Connected,
		}
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Seat < players[j].Seat })

	state := protocol.StatePayload{
		RoomID:  r.ID,
		Phase:   string(r.phase),
		Players: players,
	}
	if viewer.HasTeam {
		state.ViewerTeam = viewer.Team.String()
	}
	if r.match.Started {
		mv := protocol.MatchView{
			Target:            r.match.Target,
			TotalA:            r.match.Totals[engine.TeamA],
			TotalB:            r.match.Totals[engine.TeamB],
			Hand:              r.match.HandNum,
			RematchReadyCount: len(r.rematchReady),
		}
		if r.match.Winner != nil {
			mv.Winner = r.match.Winner.String()
		}
		if r.match.LastHand != nil {
			a, b := r.match.LastHand.A, r.match.LastHand.B
			mv.LastHandA, mv.LastHandB = &a, &b
		}
		state.Match = &mv
	}
	if r.hand != nil {
		state.Game = r.gameViewFor(viewer)
	}
	return state
}

func (r *Room) gameViewFor(viewer *Player) *protocol.GameView {
	h := r.hand

	view := &protocol.GameView{
		Round:         h.Round(),
		DeckCount:     h.DeckCount(),
		TableCount:    h.TableCount(),
		TurnSeat:      h.TurnSeat(),
		LastTakerSeat: h.LastTakerSeat(),
		Hands:         make(map[string]protocol.HandView, len(r.players)),
	}
	if c, ok := h.DeckPeek(); ok {
		view.DeckPeekCard = cardInfoPtr(c)
	}
	if c, ok := h.TableTop(); ok {
		view.TableTop = cardInfoPtr(c)
	}
	for _, p := range r.players {
		hv := protocol.HandView{Count: h.HandCount(p.Seat)}
		if p.ID == viewer.ID {
			hv.Cards = cardInfos(h.HandCards(p.Seat))
		}
		view.Hands[p.ID] = hv
	}

	if a := h.LastAction(); a != nil {
		view.LastAction = &protocol.LastActionInfo{
			ID:         a.ID,
			Type:       string(a.Type),
			Seat:       a.Seat,
			PlayerName: a.PlayerName,
			Card:       cardInfo(a.Card),
			Zinga:      a.Zinga,
		}
	}
	if d := h.LastDeal(); d != nil {
		view.LastDeal = &protocol.DealInfo{
			ID:     d.ID,
			Round:  d.Round,
			Hand:   d.Hand,
			IsLast: d.IsLast,
		}
	}

	view.CaptureA = r.captureViewFor(viewer, engine.TeamA)
	view.CaptureB = r.captureViewFor(viewer, engine.TeamB)
	return view
}

// captureViewFor exposes a team's running score to everyone, but the pile
// cards only to that team's own players.
func (r *Room) captureViewFor(viewer *Player, t engine.Team) protocol.CaptureView {
	pile := r.hand.Capture(t)
	cv := protocol.CaptureView{
		CardsCount: len(pile.Cards),
		Breakdown:  r.hand.ScoreSoFar(t),
	}
	if viewer.HasTeam && viewer.Team == t && len(pile.Cards) > 0 {
		cv.Cards = cardInfos(pile.Cards)
		cv.PileTop = cardInfoPtr(pile.Cards[len(pile.Cards)-1])
	}
	return cv
}

func cardInfo(c card.Card) protocol.CardInfo {
	return protocol.CardInfo{
		ID:    c.ID,
		Rank:  c.Rank.String(),
		Suit:  c.Suit.String(),
		Label: c.Label(),
	}
}

func cardInfoPtr(c card.Card) *protocol.CardInfo {
	info := cardInfo(c)
	return &info
}

func cardInfos(cards []card.Card) []protocol.CardInfo {
	infos := make([]protocol.CardInfo, len(cards))
	for i, c := range cards {
		infos[i] = cardInfo(c)
	}
	return infos
}
