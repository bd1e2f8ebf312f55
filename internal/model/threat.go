package model

type ThreatKind string

const (
	Check     ThreatKind = "check"
	Checkmate ThreatKind = "checkmate"
	Stalemate ThreatKind = "stalemate"
)

// Threat describes the danger a player's king is in. It is derived on demand.
type Threat struct {
	Kind         ThreatKind `json:"type"`
	Player       Player     `json:"player"`
	KingPosition Position   `json:"position"`
}

// ClassifyThreat reports check, checkmate or stalemate for player. ok is
// false when the player is not in check and has a legal move.
func ClassifyThreat(player Player, state GameState) (threat Threat, ok bool) {
	kingPos := state.Board.FindKing(player)
	inCheck := state.Board.IsSquareAttacked(kingPos, player.Opponent())
	anyMoves := HasAnyLegalMoves(player, state)
	threat = Threat{Player: player, KingPosition: kingPos}
	switch {
	case inCheck && anyMoves:
		threat.Kind = Check
	case inCheck:
		threat.Kind = Checkmate
	case !anyMoves:
		threat.Kind = Stalemate
	default:
		return Threat{}, false
	}
	return threat, true
}

// Threats classifies both players, white first. A player without moves who
// is not in turn is not stalemated, so that case is left out.
func Threats(state GameState) []Threat {
	var threats []Threat
	for _, player := range []Player{White, Black} {
		threat, ok := ClassifyThreat(player, state)
		if !ok || (threat.Kind == Stalemate && player != state.PlayerInTurn) {
			continue
		}
		threats = append(threats, threat)
	}
	return threats
}

// Status classifies the player in turn. The player who just moved cannot be
// in check, and a lack of moves only matters on one's own turn.
func Status(state GameState) (Threat, bool) {
	return ClassifyThreat(state.PlayerInTurn, state)
}

// IsGameOver reports whether the player in turn is checkmated or stalemated.
func IsGameOver(state GameState) bool {
	threat, ok := Status(state)
	return ok && (threat.Kind == Checkmate || threat.Kind == Stalemate)
}
