// Package game implements the rules of no-limit Texas Hold'em for a single
// table.
//
// A Game owns the roster and the dealer button and deals Hands. A Hand is
// driven one operation at a time by its owner:
//
//	g := game.NewGame(game.WithObserver(onEvent))
//	g.AddPlayer("alice", 1000)
//	g.AddPlayer("bob", 1000)
//	h, _ := g.NewHand(true)
//	_ = h.Start()           // posts the blinds
//	_ = h.Act(game.Call, 0) // the seat whose turn it is
//	_ = h.NextRound()       // once RoundFinished reports true
//
// Every successful operation emits one or more Events to the observer in the
// order they happened. Rejected operations return an error and emit nothing.
//
// Pots are computed from per-seat commitments by SplitPots, so the pot
// structure is never stored and cannot drift from the bets.
package game
