package validator

import "strings"

const parseFailedMessage = "Não consegui entender a mensagem. Pode descrever o evento de outra forma?"

const (
	askExactDate = "Qual é a data exata do evento?"
	askExactTime = "Qual é o horário exato do evento?"
)

// errorMessages maps each rejection code to the Portuguese sentence shown to
// the user. Codes missing from the table pass through verbatim, which is how
// parser ambiguity text reaches the user unchanged.
var errorMessages = map[Code]string{
	CodeTitleMissing:         "Qual é o título do evento?",
	CodeDateMissing:          "Qual é a data do evento?",
	CodeTimeMissing:          "Qual é o horário do evento?",
	CodeTitleLengthInvalid:   "O título deve ter entre 1 e 100 caracteres.",
	CodeDateFormatInvalid:    "Não entendi a data. Pode informar no formato DD/MM ou DD/MM/AAAA?",
	CodeTimeFormatInvalid:    "Não entendi o horário. Pode informar no formato HH:MM?",
	CodeEndTimeFormatInvalid: "Não entendi o horário de término. Pode informar no formato HH:MM?",
	CodeDateTooFarFuture:     "A data está muito distante. Só consigo agendar eventos até 1 ano no futuro.",
	CodeDateOutOfRange:       "A data já passou. Pode informar uma data futura?",
	CodeTimeEndBeforeStart:   "O horário de término precisa ser depois do horário de início.",
}

func clarificationForCodes(codes []Code) string {
	var lines []string
	for _, code := range codes {
		msg, ok := errorMessages[code]
		if !ok {
			msg = string(code)
		}
		lines = appendUnique(lines, msg)
	}
	return strings.Join(lines, "\n")
}

func isInvalidDateTag(tag string) bool {
	lower := strings.ToLower(tag)
	return strings.Contains(lower, "data inválida") || strings.Contains(lower, "invalid date")
}

// clarificationForAmbiguities turns the parser's free-text tags into canned
// follow-up questions. Tags mentioning a time ask for an exact time, tags
// mentioning a date ask for an exact date, anything else is echoed verbatim.
func clarificationForAmbiguities(tags []string) string {
	var lines []string
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		switch {
		case strings.Contains(lower, "horário") || strings.Contains(lower, "hora"):
			lines = appendUnique(lines, askExactTime)
		case strings.Contains(lower, "data"):
			lines = appendUnique(lines, askExactDate)
		default:
			lines = appendUnique(lines, tag)
		}
	}
	return strings.Join(lines, "\n")
}

func appendUnique(lines []string, line string) []string {
	for _, existing := range lines {
		if existing == line {
			return lines
		}
	}
	return append(lines, line)
}
