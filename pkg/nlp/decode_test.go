package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeCandidateFullDocument(t *testing.T) {
	raw := `{
		"title": "Reunião com a Maria",
		"start_date": "2026-03-10",
		"start_time": "15:00",
		"end_time": "16:00",
		"duration_minutes": 60,
		"all_day": false,
		"participants": [{"name": "Maria", "email": "maria@example.com", "resolved": true}],
		"description": "Revisão do contrato",
		"location": "Sala 2",
		"ambiguities": [],
		"confidence": 0.93,
		"status": "success"
	}`

	c, err := DecodeCandidate([]byte(raw))

	assert.NoError(t, err)
	assert.Equal(t, StatusSuccess, c.Status)
	assert.Equal(t, "Reunião com a Maria", *c.Title)
	assert.Equal(t, "2026-03-10", *c.StartDate)
	assert.Equal(t, "15:00", *c.StartTime)
	assert.Equal(t, "16:00", *c.EndTime)
	assert.Equal(t, 60, *c.DurationMinutes)
	assert.False(t, c.AllDay)
	assert.Equal(t, 0.93, c.Confidence)
	assert.Len(t, c.Participants, 1)
	assert.Equal(t, "maria@example.com", c.Participants[0].Email)
	assert.True(t, c.Participants[0].Resolved)
	assert.Empty(t, c.Ambiguities)
}

func TestDecodeCandidateKeepsZeroDuration(t *testing.T) {
	raw := `{"title": "Lembrete", "start_date": "2026-03-10", "start_time": "09:00", "duration_minutes": 0, "status": "success"}`

	c, err := DecodeCandidate([]byte(raw))

	assert.NoError(t, err)
	if assert.NotNil(t, c.DurationMinutes) {
		assert.Equal(t, 0, *c.DurationMinutes)
	}
}

func TestDecodeCandidateIllTypedFieldsBecomeNull(t *testing.T) {
	raw := `{
		"title": 42,
		"start_date": "2026-03-10",
		"start_time": true,
		"duration_minutes": "trinta",
		"all_day": "sim",
		"participants": "ninguém",
		"ambiguities": [7, "horário vago: de manhã"],
		"confidence": "alta",
		"status": "success"
	}`

	c, err := DecodeCandidate([]byte(raw))

	assert.NoError(t, err)
	assert.Nil(t, c.Title)
	assert.Equal(t, "2026-03-10", *c.StartDate)
	assert.Nil(t, c.StartTime)
	assert.Nil(t, c.DurationMinutes)
	assert.False(t, c.AllDay)
	assert.Nil(t, c.Participants)
	assert.Equal(t, []string{"horário vago: de manhã"}, c.Ambiguities)
	assert.Equal(t, 0.0, c.Confidence)
}

func TestDecodeCandidateStripsMarkdownFences(t *testing.T) {
	raw := "```json\n{\"title\": \"Almoço\", \"status\": \"success\"}\n```"

	c, err := DecodeCandidate([]byte(raw))

	assert.NoError(t, err)
	assert.Equal(t, "Almoço", *c.Title)
}

func TestDecodeCandidateRejectsNonJSON(t *testing.T) {
	_, err := DecodeCandidate([]byte("desculpe, não entendi a mensagem"))

	assert.Error(t, err)
}

func TestDecodeCandidateInfersStatusFromAmbiguities(t *testing.T) {
	raw := `{"title": "Dentista", "ambiguities": ["data vaga: semana que vem"]}`

	c, err := DecodeCandidate([]byte(raw))

	assert.NoError(t, err)
	assert.Equal(t, StatusAmbiguous, c.Status)
}

func TestDecodeCandidateClampsConfidence(t *testing.T) {
	c, err := DecodeCandidate([]byte(`{"title": "x", "confidence": 3.5, "status": "success"}`))

	assert.NoError(t, err)
	assert.Equal(t, 1.0, c.Confidence)
}

func TestDecodeCandidateParticipantResolvedFallsBackToEmail(t *testing.T) {
	raw := `{"participants": [{"name": "João", "email": "joao@example.com"}, {"name": "Ana"}], "status": "success"}`

	c, err := DecodeCandidate([]byte(raw))

	assert.NoError(t, err)
	assert.Len(t, c.Participants, 2)
	assert.True(t, c.Participants[0].Resolved)
	assert.False(t, c.Participants[1].Resolved)
	assert.Empty(t, c.Participants[1].Email)
}
