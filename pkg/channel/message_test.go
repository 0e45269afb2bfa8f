package channel

import (
	"errors"
	"testing"

	"github.com/baekilha/baekilha/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidMessage(t *testing.T) {
	data := []byte(`{
		"type": "calculated_data_distribution",
		"timestamp": 1700000000123,
		"sender_id": "page-a",
		"kind": "member",
		"entries": [
			{"name": "김철수", "calculated_score": 88.4, "original_score": 81.2, "score_changed": true, "weight_applied": true}
		],
		"weights": {"attendance": 1.5}
	}`)

	msg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, TypeCalculatedData, msg.Type)
	assert.Equal(t, int64(1700000000123), msg.Timestamp)
	assert.Equal(t, types.KindMember, msg.Kind)
	require.Len(t, msg.Entries, 1)
	assert.Equal(t, 88.4, msg.Entries[0].CalculatedScore)
	assert.True(t, msg.Entries[0].WeightApplied)
	assert.Equal(t, 1.5, msg.Weights["attendance"])
}

func TestParseRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"null literal", []byte("null")},
		{"not json", []byte("{{{")},
		{"missing type", []byte(`{"timestamp": 123}`)},
		{"unknown type", []byte(`{"type": "weird_event", "timestamp": 123}`)},
		{"missing timestamp", []byte(`{"type": "data_reset_to_original"}`)},
		{"array body", []byte(`[1,2,3]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
		})
	}
}

func TestParseEncodeRoundTrip(t *testing.T) {
	msg := NewMessage(TypeResetToOriginal, "page-b")
	msg.Kind = types.KindParty

	data, err := msg.Encode()
	require.NoError(t, err)

	got, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, msg.Type, got.Type)
	assert.Equal(t, msg.Timestamp, got.Timestamp)
	assert.Equal(t, msg.SenderID, got.SenderID)
	assert.Equal(t, msg.Kind, got.Kind)
}

func TestMessageKey(t *testing.T) {
	a := &Message{Type: TypeCalculatedData, Timestamp: 100}
	b := &Message{Type: TypeCalculatedData, Timestamp: 100, SenderID: "other"}
	c := &Message{Type: TypeResetToOriginal, Timestamp: 100}

	// Sender does not participate in identity; type does
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestIsData(t *testing.T) {
	assert.True(t, (&Message{Type: TypeCalculatedData}).IsData())
	assert.True(t, (&Message{Type: TypeResetToOriginal}).IsData())
	assert.False(t, (&Message{Type: TypeConnectionCheck}).IsData())
	assert.False(t, (&Message{Type: TypeConnectionResponse}).IsData())
}
