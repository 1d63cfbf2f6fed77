package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadQuestions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.jsonl")
	content := `{"id":"q-1","input":"Who wrote the opera Carmen?","kilt_id":"Carmen_(opera)"}
not json

{"id":"q-2","input":"Where was Marilyn Monroe born?"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, discards, err := LoadQuestions(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "q-1", records[0].ID)
	require.Equal(t, "Who wrote the opera Carmen?", records[0].InputText)
	require.Len(t, discards, 1)
	require.Equal(t, ReasonMalformedRecord, discards[0].Reason)
}

func TestLoadQuestionsMissingFileIsFatal(t *testing.T) {
	_, _, err := LoadQuestions(filepath.Join(t.TempDir(), "missing.jsonl"))
	require.Error(t, err)
}
