package relatorios

// ReportWindowDays is the lookback window for the modalidade and professor
// frequency reports.
const ReportWindowDays = 30

// FrequenciaModalidade is one (aluno, modalidade) or (modalidade) slice of a
// frequency report.
type FrequenciaModalidade struct {
	ModalidadeID   string `json:"modalidade_id"`
	NomeModalidade string `json:"nome_modalidade"`
	Unidade        string `json:"unidade"`
	TotalAulas     int    `json:"total_aulas"`
	Presencas      int    `json:"presencas"`
	Percentual     int    `json:"percentual"`
	Classificacao  string `json:"classificacao"`
}

type FrequenciaAlunoResponse struct {
	AlunoID         string                 `json:"aluno_id"`
	NomeAluno       string                 `json:"nome_aluno"`
	Modalidades     []FrequenciaModalidade `json:"modalidades"`
	TotalAulas      int                    `json:"total_aulas"`
	TotalPresencas  int                    `json:"total_presencas"`
	PercentualGeral int                    `json:"percentual_geral"`
	Classificacao   string                 `json:"classificacao"`
}

type FrequenciaModalidadesResponse struct {
	JanelaDias  int                    `json:"janela_dias"`
	Modalidades []FrequenciaModalidade `json:"modalidades"`
}

type FrequenciaProfessorResponse struct {
	ProfessorID     string                 `json:"professor_id"`
	NomeProfessor   string                 `json:"nome_professor"`
	JanelaDias      int                    `json:"janela_dias"`
	Modalidades     []FrequenciaModalidade `json:"modalidades"`
	PercentualGeral int                    `json:"percentual_geral"`
	Classificacao   string                 `json:"classificacao"`
}

type DashboardResponse struct {
	TotalAlunos       int64            `json:"total_alunos"`
	TotalProfessores  int64            `json:"total_professores"`
	ModalidadesAtivas int64            `json:"modalidades_ativas"`
	InscricoesAtivas  int64            `json:"inscricoes_ativas"`
	AlunosPorUnidade  map[string]int64 `json:"alunos_por_unidade"`
	InscricoesPorNome map[string]int64 `json:"inscricoes_por_modalidade"`
}
