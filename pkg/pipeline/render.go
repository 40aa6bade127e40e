package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/agendou/agendou/pkg/calendar"
	"github.com/agendou/agendou/pkg/conflict"
	"github.com/agendou/agendou/pkg/telegram"
	"github.com/agendou/agendou/pkg/validator"
)

var weekdaysPT = map[time.Weekday]string{
	time.Sunday:    "domingo",
	time.Monday:    "segunda-feira",
	time.Tuesday:   "terça-feira",
	time.Wednesday: "quarta-feira",
	time.Thursday:  "quinta-feira",
	time.Friday:    "sexta-feira",
	time.Saturday:  "sábado",
}

const (
	msgPreviewExpired = "Esta prévia expirou. Envie os detalhes do evento novamente."
	msgEditPrompt     = "Certo! Envie a mensagem novamente com os detalhes corrigidos."
	msgCancelled      = "Agendamento cancelado."
	msgCreateFailed   = "Não consegui criar o evento na agenda. Tente novamente em instantes."
	msgUndone         = "Evento desfeito. Ele foi removido da agenda."
	msgUndoExpired    = "A janela para desfazer já expirou. O evento continua na agenda."
	msgUndoFailed     = "Não consegui remover o evento. Verifique diretamente na agenda."
	msgEmptyInput     = "A mensagem está vazia. Pode descrever o evento?"
	msgParserDown     = "Não consegui interpretar a mensagem agora. Pode tentar de novo em instantes?"
)

// renderPreview builds the confirmation text shown before anything is
// created. It renders the normalized draft, not the raw candidate, so the
// user sees exactly what a confirmation would put on the calendar.
func renderPreview(draft calendar.Draft, event *validator.ValidatedEvent, report conflict.Report, warnings []validator.Warning) string {
	var b strings.Builder
	b.WriteString("📅 Confirma o agendamento?\n\n")
	b.WriteString(fmt.Sprintf("Título: %s\n", draft.Title))
	b.WriteString(fmt.Sprintf("Data: %s\n", humanDate(draft.StartDate)))

	if draft.AllDay {
		b.WriteString("Horário: o dia todo\n")
	} else {
		b.WriteString(fmt.Sprintf("Horário: %s às %s", draft.StartTime, draft.EndTime))
		if draft.EndDate != draft.StartDate {
			b.WriteString(" (termina no dia seguinte)")
		}
		b.WriteString("\n")
	}
	if names := participantNames(event); names != "" {
		b.WriteString(fmt.Sprintf("Participantes: %s\n", names))
	}
	if draft.Location != "" {
		b.WriteString(fmt.Sprintf("Local: %s\n", draft.Location))
	}
	if draft.Description != "" {
		b.WriteString(fmt.Sprintf("Descrição: %s\n", draft.Description))
	}

	for _, warning := range warnings {
		switch warning {
		case validator.WarningRetroactiveSameDay:
			b.WriteString("\n⚠️ O horário informado já passou hoje.\n")
		case validator.WarningDurationMismatch:
			b.WriteString("\n⚠️ A duração informada não bate com os horários; mantive os horários.\n")
		}
	}

	if report.HasConflicts {
		b.WriteString("\n⚠️ Conflitos no mesmo horário:\n")
		for _, info := range report.Conflicts {
			b.WriteString(fmt.Sprintf("• %s (%s às %s)\n", info.Title, info.StartTime, info.EndTime))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// participantNames lists at most three names and summarizes the rest.
func participantNames(event *validator.ValidatedEvent) string {
	if len(event.Participants) == 0 {
		return ""
	}
	names := make([]string, 0, 3)
	for i, p := range event.Participants {
		if i == 3 {
			break
		}
		name := p.Name
		if name == "" {
			name = p.Email
		}
		names = append(names, name)
	}
	joined := strings.Join(names, ", ")
	if extra := len(event.Participants) - len(names); extra > 0 {
		joined = fmt.Sprintf("%s +%d outros", joined, extra)
	}
	return joined
}

func humanDate(date string) string {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s, %s", weekdaysPT[parsed.Weekday()], parsed.Format("02/01/2006"))
}

func renderCreated(created *calendar.CreatedEvent, remainingSeconds int) string {
	var b strings.Builder
	b.WriteString("✅ Evento criado!")
	if created.HTMLLink != "" {
		b.WriteString("\n" + created.HTMLLink)
	}
	b.WriteString(fmt.Sprintf("\n\nVocê tem %d segundos para desfazer.", remainingSeconds))
	return b.String()
}

// renderRejection picks the user-facing text for ambiguous and invalid
// outcomes. Parser failures carry their reason in Errors with no prompt.
func renderRejection(result validator.Result) string {
	if result.Clarification != "" {
		return result.Clarification
	}
	lines := make([]string, 0, len(result.Errors))
	for _, code := range result.Errors {
		lines = append(lines, string(code))
	}
	return strings.Join(lines, "\n")
}

func previewKeyboard(handle string) *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{{
			{Text: "✅ Confirmar", CallbackData: actionConfirm + ":" + handle},
			{Text: "✏️ Editar", CallbackData: actionEdit + ":" + handle},
			{Text: "❌ Cancelar", CallbackData: actionCancel + ":" + handle},
		}},
	}
}

func undoKeyboard(handle string) *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{{
			{Text: "↩️ Desfazer", CallbackData: actionUndo + ":" + handle},
		}},
	}
}

func expiredKeyboard(handle string) *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{{
			{Text: "⏰ Expirado", CallbackData: actionNoop + ":" + handle},
		}},
	}
}
