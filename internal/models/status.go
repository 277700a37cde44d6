package models

// StatusInscricao is the lifecycle state of an enrollment.
//
// Transitions: none -> ativo (seat free at creation), none -> fila_espera,
// fila_espera -> ativo (approval), and deletion from either state
// (rejection). An active enrollment never returns to the waitlist.
type StatusInscricao string

const (
	StatusAtivo      StatusInscricao = "ativo"
	StatusFilaEspera StatusInscricao = "fila_espera"
	// StatusInativo exists in storage but no operation currently produces it.
	StatusInativo StatusInscricao = "inativo"
)

func (s StatusInscricao) IsValid() bool {
	switch s {
	case StatusAtivo, StatusFilaEspera, StatusInativo:
		return true
	default:
		return false
	}
}

func (s StatusInscricao) String() string { return string(s) }
