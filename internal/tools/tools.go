package tools

import (
	"context"
	"time"

	"github.com/clinicaproativa/agenda/internal/domain/booking"
	"github.com/clinicaproativa/agenda/internal/domain/catalog"
	"github.com/clinicaproativa/agenda/pkg/relativedate"
)

// DefaultRegistry wires the full tool set the scheduling agent works with.
// Tool names stay in Portuguese because the agent prompts reference them by
// name.
func DefaultRegistry(bookingSvc *booking.Service, catalogSvc *catalog.Service) *Registry {
	r := NewRegistry()

	r.Register(&Tool{
		Name: "listar_especialidades_com_medicos",
		Description: "Lista apenas as especialidades médicas que possuem pelo menos um médico cadastrado. " +
			"É a forma mais útil de responder quando um usuário pergunta sobre as especialidades disponíveis.",
		InputSchema: ObjectSchema(map[string]Property{}),
		Handler: func(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
			names, err := catalogSvc.ListSpecialtiesWithPhysicians(ctx)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"especialidades_disponiveis": names}, nil
		},
	})

	r.Register(&Tool{
		Name: "procurar_medicos",
		Description: "Procura por médicos, com busca flexível por especialidade. " +
			"Se nenhuma especialidade for fornecida, lista todos os médicos disponíveis.",
		InputSchema: ObjectSchema(map[string]Property{
			"especialidade": {Type: "string", Description: "O nome da especialidade (ex: \"Cardiologia\") ou do especialista (ex: \"cardiologista\")."},
		}),
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			physicians, err := catalogSvc.FindPhysicians(ctx, argString(args, "especialidade"))
			if err != nil {
				return nil, err
			}
			return physicians, nil
		},
	})

	r.Register(&Tool{
		Name:        "verificar_disponibilidade_medico",
		Description: "Retorna os horários livres (slots de 30 minutos) de um médico para uma data específica.",
		InputSchema: ObjectSchema(map[string]Property{
			"medico_id": {Type: "integer", Description: "O ID numérico do médico, obtido previamente pela ferramenta 'procurar_medicos'."},
			"data_str":  {Type: "string", Description: "A data para a verificação, no formato 'YYYY-MM-DD'."},
		}, "medico_id", "data_str"),
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			slots, err := bookingSvc.FreeSlots(ctx, argInt(args, "medico_id"), argString(args, "data_str"))
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"slots_livres": slots}, nil
		},
	})

	r.Register(&Tool{
		Name: "obter_data_por_termo_relativo",
		Description: "Converte um termo de data relativo (como 'hoje', 'amanhã' ou 'próxima sexta-feira') " +
			"para uma data específica no formato 'YYYY-MM-DD'. Use esta função para traduzir o pedido de " +
			"data do usuário antes de usar outras ferramentas.",
		InputSchema: ObjectSchema(map[string]Property{
			"termo_data": {Type: "string", Description: "A expressão de data relativa (ex: 'amanhã', 'próxima terça')."},
		}, "termo_data"),
		Handler: func(_ context.Context, args map[string]interface{}) (interface{}, error) {
			return relativedate.Resolve(argString(args, "termo_data"), time.Now()), nil
		},
	})

	r.Register(&Tool{
		Name:        "agendar_exame_simples",
		Description: "Agenda um exame simples que não requer um especialista, como 'Exame de Sangue' ou 'Raio-X'.",
		InputSchema: ObjectSchema(map[string]Property{
			"nome_paciente":   {Type: "string", Description: "O nome completo do paciente."},
			"cpf_paciente":    {Type: "string", Description: "O CPF do paciente (obrigatório, pode estar formatado)."},
			"data_str":        {Type: "string", Description: "A data exata do agendamento (ex: '2025-07-15')."},
			"hora_inicio_str": {Type: "string", Description: "A hora exata do agendamento (ex: '14:00')."},
			"nome_exame":      {Type: "string", Description: "O nome do exame simples a ser realizado (ex: \"Exame de Sangue\")."},
		}, "nome_paciente", "cpf_paciente", "data_str", "hora_inicio_str", "nome_exame"),
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			return bookingSvc.BookExam(ctx,
				argString(args, "nome_paciente"), argString(args, "cpf_paciente"),
				argString(args, "data_str"), argString(args, "hora_inicio_str"),
				argString(args, "nome_exame"))
		},
	})

	r.Register(&Tool{
		Name:        "agendar_consulta_com_medico",
		Description: "Agenda uma consulta que requer um médico especialista.",
		InputSchema: ObjectSchema(map[string]Property{
			"nome_paciente":   {Type: "string", Description: "O nome completo do paciente."},
			"cpf_paciente":    {Type: "string", Description: "O CPF do paciente (obrigatório, pode estar formatado)."},
			"data_str":        {Type: "string", Description: "A data exata do agendamento (ex: '2025-07-15')."},
			"hora_inicio_str": {Type: "string", Description: "A hora exata do agendamento (ex: '14:00')."},
			"nome_medico":     {Type: "string", Description: "O nome do médico especialista para a consulta."},
			"motivo_consulta": {Type: "string", Description: "Opcional. O motivo da consulta ou exame associado."},
		}, "nome_paciente", "cpf_paciente", "data_str", "hora_inicio_str", "nome_medico"),
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			return bookingSvc.BookConsultation(ctx,
				argString(args, "nome_paciente"), argString(args, "cpf_paciente"),
				argString(args, "data_str"), argString(args, "hora_inicio_str"),
				argString(args, "nome_medico"), argString(args, "motivo_consulta"))
		},
	})

	r.Register(&Tool{
		Name:        "ver_minhas_consultas",
		Description: "Use quando um usuário cadastrado pedir para 'ver' ou 'encontrar' seus agendamentos futuros.",
		InputSchema: ObjectSchema(map[string]Property{
			"cpf_paciente": {Type: "string", Description: "O CPF do paciente para buscar as consultas."},
		}, "cpf_paciente"),
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			return bookingSvc.ListUpcoming(ctx, argString(args, "cpf_paciente"))
		},
	})

	r.Register(&Tool{
		Name: "reagendar_consulta",
		Description: "Reagenda uma consulta existente para uma nova data e hora. " +
			"Deve ser usada após o usuário confirmar qual consulta deseja alterar.",
		InputSchema: ObjectSchema(map[string]Property{
			"consulta_id":   {Type: "integer", Description: "O ID numérico da consulta a ser reagendada."},
			"nova_data_str": {Type: "string", Description: "A nova data no formato 'YYYY-MM-DD'."},
			"nova_hora_str": {Type: "string", Description: "O novo horário no formato 'HH:MM'."},
		}, "consulta_id", "nova_data_str", "nova_hora_str"),
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			return bookingSvc.Reschedule(ctx, argInt(args, "consulta_id"),
				argString(args, "nova_data_str"), argString(args, "nova_hora_str"))
		},
	})

	r.Register(&Tool{
		Name: "cancelar_consulta",
		Description: "Cancela uma consulta existente. " +
			"Use esta função após o usuário confirmar qual consulta deseja cancelar.",
		InputSchema: ObjectSchema(map[string]Property{
			"consulta_id": {Type: "integer", Description: "O ID numérico da consulta a ser cancelada."},
		}, "consulta_id"),
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			return bookingSvc.Cancel(ctx, argInt(args, "consulta_id"))
		},
	})

	return r
}

// Argument accessors for already-validated args.

func argString(args map[string]interface{}, name string) string {
	s, _ := args[name].(string)
	return s
}

func argInt(args map[string]interface{}, name string) int {
	switch v := args[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
