package models

import "strings"

// Atividade is the kind of class a modalidade offers.
type Atividade string

const (
	KungFu         Atividade = "kung_fu"
	Handebol       Atividade = "handebol"
	FutebolFutsal  Atividade = "futebol_futsal"
	Volei          Atividade = "volei"
	Ballet         Atividade = "ballet"
	Jazz           Atividade = "jazz"
	Zumba          Atividade = "zumba"
	Capoeira       Atividade = "capoeira"
	Bateria        Atividade = "bateria"
	Croche         Atividade = "croche"
	ReforcoEscolar Atividade = "reforco_escolar"
	Ingles         Atividade = "ingles"
)

var atividadeLabels = map[Atividade]string{
	KungFu:         "Kung Fu",
	Handebol:       "Handebol",
	FutebolFutsal:  "Futebol/Futsal",
	Volei:          "Vôlei",
	Ballet:         "Ballet",
	Jazz:           "Jazz",
	Zumba:          "Zumba",
	Capoeira:       "Capoeira",
	Bateria:        "Bateria",
	Croche:         "Crochê",
	ReforcoEscolar: "Reforço Escolar",
	Ingles:         "Inglês",
}

func (a Atividade) IsValid() bool {
	_, ok := atividadeLabels[a]
	return ok
}

func (a Atividade) Label() string { return atividadeLabels[a] }

func (a Atividade) String() string { return string(a) }

// DiaSemana is a weekday token as stored in modalidades.dias_semana.
type DiaSemana string

const (
	Segunda DiaSemana = "segunda"
	Terca   DiaSemana = "terca"
	Quarta  DiaSemana = "quarta"
	Quinta  DiaSemana = "quinta"
	Sexta   DiaSemana = "sexta"
	Sabado  DiaSemana = "sabado"
	Domingo DiaSemana = "domingo"
)

func (d DiaSemana) IsValid() bool {
	switch d {
	case Segunda, Terca, Quarta, Quinta, Sexta, Sabado, Domingo:
		return true
	default:
		return false
	}
}

// ParseDiasSemana splits the stored comma separated token list. Unknown
// tokens make the whole list invalid.
func ParseDiasSemana(csv string) ([]DiaSemana, bool) {
	if csv == "" {
		return nil, true
	}
	parts := strings.Split(csv, ",")
	out := make([]DiaSemana, 0, len(parts))
	for _, p := range parts {
		d := DiaSemana(strings.TrimSpace(p))
		if !d.IsValid() {
			return nil, false
		}
		out = append(out, d)
	}
	return out, true
}

// JoinDiasSemana renders the storage form of a weekday list.
func JoinDiasSemana(dias []DiaSemana) string {
	parts := make([]string, 0, len(dias))
	for _, d := range dias {
		parts = append(parts, string(d))
	}
	return strings.Join(parts, ",")
}
