package main

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"Vidtube/internal/core/counters"
)

func TestPrintReport(t *testing.T) {
	id := uuid.MustParse("6f1c2a0e-4f5b-4c6d-9e7f-0a1b2c3d4e5f")
	report := &counters.Report{
		Scanned: 3,
		Fixed:   1,
		Drifted: []counters.Drift{{Video: id, StoredLikes: 2, LedgerLikes: 1, LedgerDislikes: 1}},
	}

	var buf bytes.Buffer
	printReport(&buf, report, false)
	assert.Equal(t, id.String()+" likes 2 -> 1, dislikes 0 -> 1\nscanned 3 videos, 1 drifted, 1 fixed\n", buf.String())

	buf.Reset()
	printReport(&buf, report, true)
	assert.Contains(t, buf.String(), "1 drifted (dry run)")
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"extra"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}

func TestRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd()
	assert.NotNil(t, cmd.Flags().Lookup("dry-run"))

	batch, err := cmd.Flags().GetInt("batch")
	assert.NoError(t, err)
	assert.Equal(t, 200, batch)
}
