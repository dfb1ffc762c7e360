package i18n

var ptBRMessages = map[Code]string{
	CodeUnknown:                         "Algo deu errado. Tente novamente.",
	CodeCharacterEmptyName:              "O nome do personagem é obrigatório.",
	CodeCharacterDuplicateIdentity:      `Esta combinação de personagem já foi usada: {{ .Name | quote }}{{ with .Type }} ({{ . }}){{ end }}.`,
	CodeCharacterNotDead:                "{{if .Player}}O personagem de {{.Player}}{{else}}Este personagem{{end}} não está morto.",
	CodeCharacterResurrectionNotAllowed: "Ressurreição não é permitida nesta sessão.",
	CodeSessionNameEmpty:                "O nome da sessão é obrigatório.",
	CodeSessionRosterEmpty:              "Uma sessão precisa de pelo menos um jogador.",
	CodeSessionVersionConflict:          "Esta sessão foi alterada em outro lugar. Recarregue e tente novamente.",
	CodeNotFound:                        "Não encontrado.",
}
