package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault_IsComplete(t *testing.T) {
	cfg := Default()

	require.Equal(t, ":5000", cfg.Server.Addr)
	require.Equal(t, "Finance", cfg.Analytics.DefaultDomain)
	require.Len(t, cfg.Processing.Stages, 7)

	total := 0
	for _, st := range cfg.Processing.Stages {
		total += st.Duration
	}
	require.Equal(t, 100, total)
	require.NoError(t, cfg.validate())
}

func TestQuestionsForDomain_Fallback(t *testing.T) {
	cfg := Default()

	finance := cfg.QuestionsForDomain("Finance")
	require.Len(t, finance, 2)

	unknown := cfg.QuestionsForDomain("Astrology")
	require.Equal(t, finance, unknown)

	// viper lowercases map keys read from files; the lookup compensates.
	lower := cfg.QuestionsForDomain("finance")
	require.Equal(t, finance, lower)

	marketing := cfg.QuestionsForDomain("Marketing")
	require.NotEqual(t, finance, marketing)
}

func TestEnumValidators_SubstituteDefaults(t *testing.T) {
	cfg := Default()

	require.Equal(t, "deep", cfg.ValidDepth("deep"))
	require.Equal(t, "moderate", cfg.ValidDepth("ultra"))
	require.Equal(t, "moderate", cfg.ValidDepth(""))

	require.Equal(t, "visual", cfg.ValidReportStyle("visual"))
	require.Equal(t, "detailed", cfg.ValidReportStyle("novel"))

	require.Equal(t, "high", cfg.ValidValidationLevel("high"))
	require.Equal(t, "medium", cfg.ValidValidationLevel("paranoid"))
}

func TestClampProcessingMinutes(t *testing.T) {
	cfg := Default()

	require.Equal(t, 5, cfg.ClampProcessingMinutes(5))
	require.Equal(t, cfg.Processing.MinMinutes, cfg.ClampProcessingMinutes(cfg.Processing.MinMinutes))
	require.Equal(t, cfg.Processing.MaxMinutes, cfg.ClampProcessingMinutes(cfg.Processing.MaxMinutes))
	require.Equal(t, cfg.Processing.DefaultMinutes, cfg.ClampProcessingMinutes(0))
	require.Equal(t, cfg.Processing.DefaultMinutes, cfg.ClampProcessingMinutes(999))
	require.Equal(t, cfg.Processing.DefaultMinutes, cfg.ClampProcessingMinutes(-3))
}

func TestValidate_RejectsBrokenStageTable(t *testing.T) {
	cfg := Default()
	cfg.Processing.Stages[0].Duration += 5
	require.Error(t, cfg.validate())

	cfg = Default()
	cfg.Processing.Stages[0].Name = ""
	require.Error(t, cfg.validate())

	cfg = Default()
	cfg.Analytics.DefaultDomain = "Nowhere"
	require.Error(t, cfg.validate())

	// An empty question list is as unusable as a missing one.
	cfg = Default()
	cfg.Analytics.DomainQuestions[cfg.Analytics.DefaultDomain] = []string{}
	require.Error(t, cfg.validate())
}

func TestQuestionsForDomain_EmptyListFallsBack(t *testing.T) {
	cfg := Default()
	cfg.Analytics.DomainQuestions["Marketing"] = []string{}

	require.Equal(t, cfg.QuestionsForDomain("Finance"), cfg.QuestionsForDomain("Marketing"))
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := Load("does-not-exist.yaml")
	require.Error(t, err)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default().Processing.DefaultMinutes, cfg.Processing.DefaultMinutes)
}

func TestInitialQuestionCount(t *testing.T) {
	cfg := Default()
	require.Equal(t, 2, cfg.InitialQuestionCount("Finance"))
	require.Equal(t, 2, cfg.InitialQuestionCount("Unknown"))
}
