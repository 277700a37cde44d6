package models

// Unidade is one of the five physical locations the institute operates.
type Unidade string

const (
	CarmemCristina  Unidade = "carmem_cristina"
	SaoClemente     Unidade = "sao_clemente"
	NovaHortolandia Unidade = "nova_hortolandia"
	JardimPaulista  Unidade = "jardim_paulista"
	NawampityUganda Unidade = "nawampity_uganda"
)

var unidadeLabels = map[Unidade]string{
	CarmemCristina:  "Carmem Cristina - Hortolândia",
	SaoClemente:     "São Clemente - Monte Mor",
	NovaHortolandia: "Nova Hortolândia - Hortolândia",
	JardimPaulista:  "Jardim Paulista - Monte Mor",
	NawampityUganda: "Nawampity - Uganda",
}

func (u Unidade) IsValid() bool {
	_, ok := unidadeLabels[u]
	return ok
}

// Label returns the display name of the unit.
func (u Unidade) Label() string { return unidadeLabels[u] }

func (u Unidade) String() string { return string(u) }

// Unidades lists every unit in a stable order.
func Unidades() []Unidade {
	return []Unidade{CarmemCristina, SaoClemente, NovaHortolandia, JardimPaulista, NawampityUganda}
}
