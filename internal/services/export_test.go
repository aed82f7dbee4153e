package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResultsExport_FormatCatalog(t *testing.T) {
	env := newTestEnv(t)
	session := env.createSession(t, "Q4 review", "Finance")

	for _, format := range []string{"pdf", "csv", "json", "xlsx"} {
		descriptor, err := env.export.ResultsExport(env.ctx, session.ID, format)
		require.NoError(t, err, format)
		require.NotEmpty(t, descriptor.Filename)
		require.NotEmpty(t, descriptor.Size)
	}

	_, err := env.export.ResultsExport(env.ctx, session.ID, "docx")
	require.ErrorIs(t, err, ErrValidation)
}

func TestPDFExport_RequiresCompletedSession(t *testing.T) {
	env := newTestEnv(t)
	session := env.createSession(t, "Q4 sales review", "Finance")

	_, err := env.export.PDFExport(env.ctx, session.ID)
	require.ErrorIs(t, err, ErrValidation)

	completed := env.completedSession(t, "Finance")
	descriptor, err := env.export.PDFExport(env.ctx, completed.ID)
	require.NoError(t, err)
	require.Equal(t, "Quarterly_review_analytics_report.pdf", descriptor.Filename)
}

func TestLogsExport_Formats(t *testing.T) {
	env := newTestEnv(t)
	session := env.completedSession(t, "Finance")

	jsonExport, err := env.export.LogsExport(env.ctx, session.ID, "")
	require.NoError(t, err)
	require.Equal(t, "json", jsonExport.Format)
	require.Greater(t, jsonExport.Rows, 0)

	csvExport, err := env.export.LogsExport(env.ctx, session.ID, "csv")
	require.NoError(t, err)
	data, ok := csvExport.Data.(string)
	require.True(t, ok)
	require.True(t, strings.HasPrefix(data, "Timestamp,Type,Message\n"))

	txtExport, err := env.export.LogsExport(env.ctx, session.ID, "txt")
	require.NoError(t, err)
	text, ok := txtExport.Data.(string)
	require.True(t, ok)
	require.Contains(t, text, "Processing Logs for: Quarterly review")
	require.Contains(t, text, strings.Repeat("=", 50))

	_, err = env.export.LogsExport(env.ctx, session.ID, "xml")
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateShare_MintsLink(t *testing.T) {
	env := newTestEnv(t)
	session := env.createSession(t, "Q4 review", "Finance")

	link, err := env.sharing.CreateShare(env.ctx, session.ID, "view", []string{"peer@bluesherpa.com"})
	require.NoError(t, err)
	require.Equal(t, "VIEW", link.AccessLevel)
	require.Contains(t, link.URL, link.Token)
	require.Equal(t, session.ID, link.Session.ID)

	_, err = env.sharing.CreateShare(env.ctx, session.ID, "OWNER", nil)
	require.ErrorIs(t, err, ErrValidation)
	_, err = env.sharing.CreateShare(env.ctx, session.ID, "", []string{"not-an-email"})
	require.ErrorIs(t, err, ErrValidation)

	err = env.sharing.AccessShare(env.ctx, link.Token)
	require.ErrorIs(t, err, ErrNotImplemented)
}
